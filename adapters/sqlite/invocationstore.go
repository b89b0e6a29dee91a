package sqlite

import (
	"context"
	"time"

	"github.com/esmc/chaos/ports"
)

// InvocationStore implements ports.InvocationStore using SQLite.
type InvocationStore struct {
	db *DB
}

// NewInvocationStore creates a new SQLite invocation store.
func NewInvocationStore(db *DB) *InvocationStore {
	return &InvocationStore{db: db}
}

// Record appends one invocation.
func (s *InvocationStore) Record(ctx context.Context, inv ports.Invocation) error {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invocations (id, component, op, status, digest, duration_us, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, inv.ID, inv.Component, inv.Op, inv.Status, inv.Digest, inv.Duration.Microseconds(), inv.CreatedAt)
	return err
}

// Recent returns the newest invocations, most recent first.
func (s *InvocationStore) Recent(ctx context.Context, limit int) ([]ports.Invocation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, component, op, status, digest, duration_us, created_at
		FROM invocations
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.Invocation
	for rows.Next() {
		var (
			inv        ports.Invocation
			durationUS int64
		)
		if err := rows.Scan(&inv.ID, &inv.Component, &inv.Op, &inv.Status, &inv.Digest, &durationUS, &inv.CreatedAt); err != nil {
			return nil, err
		}
		inv.Duration = time.Duration(durationUS) * time.Microsecond
		out = append(out, inv)
	}
	return out, rows.Err()
}

// CountByComponent returns invocation counts keyed by component name.
func (s *InvocationStore) CountByComponent(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT component, COUNT(*)
		FROM invocations
		GROUP BY component
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			name string
			n    int64
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

// LastByComponent returns the newest invocation time per component.
func (s *InvocationStore) LastByComponent(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT component, MAX(created_at)
		FROM invocations
		GROUP BY component
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	last := make(map[string]time.Time)
	for rows.Next() {
		var (
			name string
			at   time.Time
		)
		if err := rows.Scan(&name, &at); err != nil {
			return nil, err
		}
		last[name] = at
	}
	return last, rows.Err()
}

// DeleteBefore prunes invocations older than cutoff.
func (s *InvocationStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM invocations WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

var _ ports.InvocationStore = (*InvocationStore)(nil)
