package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/esmc/chaos/domain/component"
	"github.com/esmc/chaos/ports"
)

// ComponentStore implements ports.ComponentStore using SQLite.
type ComponentStore struct {
	db *DB
}

// NewComponentStore creates a new SQLite component store.
func NewComponentStore(db *DB) *ComponentStore {
	return &ComponentStore{db: db}
}

// Replace swaps the stored fleet atomically.
func (s *ComponentStore) Replace(ctx context.Context, fleet []component.Component) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM components`); err != nil {
		return fmt.Errorf("clear components: %w", err)
	}

	now := time.Now().UTC()
	for _, c := range fleet {
		ops, err := json.Marshal(c.Ops)
		if err != nil {
			return fmt.Errorf("encode ops for %s: %w", c.Name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO components (name, id, kind, version, ops, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.Name, c.ID, string(c.Kind), c.Version, string(ops), now)
		if err != nil {
			return fmt.Errorf("insert %s: %w", c.Name, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a component by name.
func (s *ComponentStore) Get(ctx context.Context, name string) (component.Component, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, id, kind, version, ops
		FROM components
		WHERE name = ?
	`, name)
	c, err := scanComponent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return component.Component{}, ErrNotFound
	}
	return c, err
}

// List returns components, optionally filtered by kind.
func (s *ComponentStore) List(ctx context.Context, kind component.Kind) ([]component.Component, error) {
	query := `SELECT name, id, kind, version, ops FROM components ORDER BY id`
	args := []any{}
	if kind != "" {
		query = `SELECT name, id, kind, version, ops FROM components WHERE kind = ? ORDER BY id`
		args = append(args, string(kind))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fleet []component.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		fleet = append(fleet, c)
	}
	return fleet, rows.Err()
}

// Count returns the fleet size.
func (s *ComponentStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM components`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComponent(row scanner) (component.Component, error) {
	var (
		c       component.Component
		kind    string
		opsJSON string
	)
	if err := row.Scan(&c.Name, &c.ID, &kind, &c.Version, &opsJSON); err != nil {
		return component.Component{}, err
	}
	c.Kind = component.Kind(kind)
	c.Options = component.DefaultOptions(c.Kind, c.Version)
	if err := json.Unmarshal([]byte(opsJSON), &c.Ops); err != nil {
		return component.Component{}, fmt.Errorf("decode ops for %s: %w", c.Name, err)
	}
	return c, nil
}

var _ ports.ComponentStore = (*ComponentStore)(nil)
