package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/esmc/chaos/domain/key"
	"github.com/esmc/chaos/domain/ratelimit"
	"github.com/esmc/chaos/ports"
	"github.com/rs/zerolog"
)

// KeyService manages API keys and authenticates raw keys.
type KeyService struct {
	store  ports.KeyStore
	hasher ports.Hasher
	clock  ports.Clock
	logger zerolog.Logger
}

// NewKeyService creates a key service.
func NewKeyService(store ports.KeyStore, hasher ports.Hasher, clock ports.Clock, logger zerolog.Logger) *KeyService {
	return &KeyService{
		store:  store,
		hasher: hasher,
		clock:  clock,
		logger: logger,
	}
}

// Create generates and stores a new key, returning the raw key once.
func (s *KeyService) Create(ctx context.Context, name string) (string, key.Key, error) {
	raw, k := key.Generate(name, s.clock.Now())
	if err := s.store.Create(ctx, k); err != nil {
		return "", key.Key{}, fmt.Errorf("store key: %w", err)
	}
	s.logger.Info().Str("key_id", k.ID).Str("name", name).Msg("api key created")
	return raw, k, nil
}

// Revoke marks a key as revoked.
func (s *KeyService) Revoke(ctx context.Context, id string) error {
	if err := s.store.Revoke(ctx, id, s.clock.Now()); err != nil {
		return err
	}
	s.logger.Info().Str("key_id", id).Msg("api key revoked")
	return nil
}

// List returns all stored keys.
func (s *KeyService) List(ctx context.Context) ([]key.Key, error) {
	return s.store.List(ctx)
}

// Authenticate validates a raw key against storage.
func (s *KeyService) Authenticate(ctx context.Context, rawKey string) key.ValidationResult {
	prefix, ok := key.ValidateFormat(rawKey)
	if !ok {
		return key.ValidationResult{Reason: key.ReasonBadFormat}
	}

	candidates, err := s.store.GetByPrefix(ctx, prefix)
	if err != nil {
		s.logger.Error().Err(err).Msg("key lookup failed")
		return key.ValidationResult{Reason: key.ReasonNotFound}
	}

	for _, k := range candidates {
		if !s.hasher.Compare(k.Hash, rawKey) {
			continue
		}
		return key.Validate(k)
	}
	return key.ValidationResult{Reason: key.ReasonNotFound}
}

// RateLimiter tracks per-key fixed windows in process memory.
type RateLimiter struct {
	cfg   ratelimit.Config
	clock ports.Clock

	mu     sync.Mutex
	states map[string]ratelimit.WindowState
}

// NewRateLimiter creates a limiter with the given configuration.
func NewRateLimiter(cfg ratelimit.Config, clock ports.Clock) *RateLimiter {
	return &RateLimiter{
		cfg:    cfg,
		clock:  clock,
		states: make(map[string]ratelimit.WindowState),
	}
}

// Allow checks and consumes one invocation for keyID.
func (l *RateLimiter) Allow(keyID string) ratelimit.CheckResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	result, newState := ratelimit.Check(l.states[keyID], l.cfg, l.clock.Now())
	l.states[keyID] = newState
	return result
}

// SetConfig swaps the limiter configuration (used on config reload).
// Existing windows keep counting; they expire on their own schedule.
func (l *RateLimiter) SetConfig(cfg ratelimit.Config) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg = cfg
}
