package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/esmc/chaos/domain/key"
	"github.com/esmc/chaos/ports"
)

// KeyStore keeps API keys in memory.
type KeyStore struct {
	mu   sync.RWMutex
	keys []key.Key
}

// NewKeyStore creates an empty in-memory key store.
func NewKeyStore() *KeyStore {
	return &KeyStore{}
}

// Create stores a new key.
func (s *KeyStore) Create(_ context.Context, k key.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, k)
	return nil
}

// GetByPrefix retrieves keys matching a lookup prefix.
func (s *KeyStore) GetByPrefix(_ context.Context, prefix string) ([]key.Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []key.Key
	for _, k := range s.keys {
		if strings.HasPrefix(k.Prefix, prefix) || k.Prefix == prefix {
			out = append(out, k)
		}
	}
	return out, nil
}

// List returns all keys.
func (s *KeyStore) List(_ context.Context) ([]key.Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]key.Key(nil), s.keys...), nil
}

// Revoke marks a key as revoked.
func (s *KeyStore) Revoke(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.keys {
		if s.keys[i].ID == id {
			revoked := at
			s.keys[i].RevokedAt = &revoked
			return nil
		}
	}
	return ErrNotFound
}

var _ ports.KeyStore = (*KeyStore)(nil)
