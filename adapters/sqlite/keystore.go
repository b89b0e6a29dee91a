package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/esmc/chaos/domain/key"
	"github.com/esmc/chaos/ports"
)

// KeyStore implements ports.KeyStore using SQLite.
type KeyStore struct {
	db *DB
}

// NewKeyStore creates a new SQLite key store.
func NewKeyStore(db *DB) *KeyStore {
	return &KeyStore{db: db}
}

// Create stores a new key.
func (s *KeyStore) Create(ctx context.Context, k key.Key) error {
	if k.CreatedAt.IsZero() {
		k.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO keys (id, prefix, hash, name, created_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, k.ID, k.Prefix, k.Hash, k.Name, k.CreatedAt, nullTime(k.RevokedAt))
	return err
}

// GetByPrefix retrieves keys matching a lookup prefix.
func (s *KeyStore) GetByPrefix(ctx context.Context, prefix string) ([]key.Key, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, prefix, hash, name, created_at, revoked_at
		FROM keys
		WHERE prefix = ?
	`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKeys(rows)
}

// List returns all keys, newest first.
func (s *KeyStore) List(ctx context.Context) ([]key.Key, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, prefix, hash, name, created_at, revoked_at
		FROM keys
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKeys(rows)
}

// Revoke marks a key as revoked.
func (s *KeyStore) Revoke(ctx context.Context, id string, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE keys SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL
	`, at, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanKeys(rows *sql.Rows) ([]key.Key, error) {
	var keys []key.Key
	for rows.Next() {
		var (
			k       key.Key
			revoked sql.NullTime
		)
		if err := rows.Scan(&k.ID, &k.Prefix, &k.Hash, &k.Name, &k.CreatedAt, &revoked); err != nil {
			return nil, err
		}
		if revoked.Valid {
			at := revoked.Time
			k.RevokedAt = &at
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

var _ ports.KeyStore = (*KeyStore)(nil)
