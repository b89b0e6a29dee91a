package app

import (
	"context"

	"github.com/esmc/chaos/adapters/metrics"
	"github.com/esmc/chaos/domain/digest"
	"github.com/esmc/chaos/domain/envelope"
	"github.com/esmc/chaos/domain/processor"
	"github.com/esmc/chaos/ports"
	"github.com/rs/zerolog"
)

// InvokeService dispatches component operations and records the outcomes.
type InvokeService struct {
	registry *RegistryService
	log      ports.InvocationStore
	clock    ports.Clock
	idgen    ports.IDGenerator
	metrics  *metrics.Collector
	logger   zerolog.Logger
}

// NewInvokeService creates an invoke service.
func NewInvokeService(
	registry *RegistryService,
	log ports.InvocationStore,
	clock ports.Clock,
	idgen ports.IDGenerator,
	m *metrics.Collector,
	logger zerolog.Logger,
) *InvokeService {
	return &InvokeService{
		registry: registry,
		log:      log,
		clock:    clock,
		idgen:    idgen,
		metrics:  m,
		logger:   logger,
	}
}

// Invoke dispatches one operation. Every generated operation has the same
// semantics: validate the input and echo it back inside an envelope stamped
// with the dispatch time. Unknown component or operation names return an
// error instead of an envelope.
func (s *InvokeService) Invoke(ctx context.Context, name, op string, param any) (envelope.Envelope, error) {
	c, err := s.registry.Resolve(name, op)
	if err != nil {
		return envelope.Envelope{}, err
	}

	if s.metrics != nil {
		s.metrics.InvocationsInFlight.Inc()
		defer s.metrics.InvocationsInFlight.Dec()
	}

	start := s.clock.Now()
	result := processor.Process(start, param)
	elapsed := s.clock.Now().Sub(start)

	fingerprint := ""
	if b, serr := processor.Serialize(result); serr == nil {
		fingerprint = digest.Short(b)
	}

	inv := ports.Invocation{
		ID:        s.idgen.New(),
		Component: c.Name,
		Op:        op,
		Status:    result.Status,
		Digest:    fingerprint,
		Duration:  elapsed,
		CreatedAt: start,
	}
	if err := s.log.Record(ctx, inv); err != nil {
		// The envelope is already built; a log failure must not fail the call.
		s.logger.Error().Err(err).Str("component", c.Name).Str("op", op).
			Msg("failed to record invocation")
	}

	if s.metrics != nil {
		s.metrics.InvocationsTotal.WithLabelValues(string(c.Kind), result.Status).Inc()
		s.metrics.InvocationDuration.WithLabelValues(string(c.Kind)).Observe(elapsed.Seconds())
	}

	s.logger.Debug().
		Str("component", c.Name).
		Str("op", op).
		Str("status", result.Status).
		Dur("elapsed", elapsed).
		Msg("operation dispatched")

	return result, nil
}

// Recent returns the newest invocation records.
func (s *InvokeService) Recent(ctx context.Context, limit int) ([]ports.Invocation, error) {
	return s.log.Recent(ctx, limit)
}
