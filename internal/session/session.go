package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vzahanych/city-weather/internal/service"
	"github.com/vzahanych/city-weather/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusIdle, StatusLoading, StatusSuccess, StatusFailed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown session status %q", text)
}

// State is a snapshot of the session. Result is set only when Status is
// StatusSuccess and Error only when Status is StatusFailed.
type State struct {
	Query      string
	Status     Status
	Result     *service.WeatherRecord
	Error      *service.LookupError
	Generation uint64
}

// MetricsRecorder counts search outcomes.
type MetricsRecorder interface {
	RecordLookup(ctx context.Context, outcome string)
	RecordStaleResult(ctx context.Context)
}

// Session holds the state of the current or last city lookup.
//
// Concurrent Search calls are allowed: each one takes a new generation and
// only the most recently issued search may apply its outcome.
type Session struct {
	provider service.WeatherService
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	metrics  MetricsRecorder

	mu         sync.RWMutex
	state      State
	generation uint64
	observers  []func(State)

	// notifyMu orders observer delivery; delivered is the newest generation
	// observers have seen.
	notifyMu  sync.Mutex
	delivered uint64
}

func New(provider service.WeatherService, logger *zap.Logger, tele *telemetry.Telemetry) *Session {
	return &Session{
		provider: provider,
		logger:   logger,
		tele:     tele,
	}
}

func (s *Session) SetMetricsRecorder(metrics MetricsRecorder) {
	s.metrics = metrics
}

// OnChange registers fn to be called with the new state after every applied
// transition. Callbacks run on the goroutine that caused the transition, one
// at a time, and never see a generation older than one already delivered.
// They must not call Search or Reset.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Reset returns the session to idle and invalidates any search in flight.
func (s *Session) Reset() {
	s.mu.Lock()
	s.generation++
	s.state = State{Status: StatusIdle, Generation: s.generation}
	snapshot, observers := s.state, s.observers
	s.mu.Unlock()

	s.notify(observers, snapshot)
}

// Search looks up city and records the outcome. Input rejected by the
// provider's preconditions fails the session without entering the loading
// state or touching the network.
//
// The returned state is the outcome of this call. If a newer search or a
// Reset superseded it, that state was discarded rather than applied.
func (s *Session) Search(ctx context.Context, city string) State {
	query := strings.TrimSpace(city)

	ctx, span := s.tele.StartSpanWithAttributes(ctx, "session.Search", map[string]interface{}{
		"city": query,
	})
	defer span.End()

	if err := s.provider.Validate(city); err != nil {
		lerr := service.AsLookupError(err)
		s.logger.Info("Search rejected", zap.String("city", query), zap.Stringer("kind", lerr.Kind))
		st := s.begin(query, StatusFailed, lerr)
		s.recordOutcome(ctx, lerr)
		span.SetAttributes(attribute.String("outcome", lerr.Kind.String()))
		return st
	}

	generation := s.begin(query, StatusLoading, nil).Generation
	span.SetAttributes(attribute.Int64("generation", int64(generation)))

	record, err := s.provider.Lookup(ctx, city)

	var lerr *service.LookupError
	switch {
	case err != nil:
		lerr = service.AsLookupError(err)
	case record == nil:
		lerr = &service.LookupError{Kind: service.KindUnknown}
	}

	st, applied := s.complete(query, generation, record, lerr)
	if !applied {
		s.logger.Debug("Discarded stale search result",
			zap.String("city", query),
			zap.Uint64("generation", generation))
		if s.metrics != nil {
			s.metrics.RecordStaleResult(ctx)
		}
		span.SetAttributes(attribute.Bool("stale", true))
		return st
	}

	s.recordOutcome(ctx, lerr)
	if lerr != nil {
		span.SetAttributes(attribute.String("outcome", lerr.Kind.String()))
		return st
	}
	span.SetAttributes(attribute.String("outcome", "success"))
	return st
}

// begin starts a new generation in the given status and returns its state.
func (s *Session) begin(query string, status Status, lerr *service.LookupError) State {
	s.mu.Lock()
	s.generation++
	s.state = State{
		Query:      query,
		Status:     status,
		Error:      lerr,
		Generation: s.generation,
	}
	snapshot, observers := s.state, s.observers
	s.mu.Unlock()

	s.notify(observers, snapshot)
	return snapshot
}

// complete applies the outcome of generation unless a newer one has started.
func (s *Session) complete(query string, generation uint64, record *service.WeatherRecord, lerr *service.LookupError) (State, bool) {
	next := State{
		Query:      query,
		Generation: generation,
	}
	if lerr != nil {
		next.Status = StatusFailed
		next.Error = lerr
	} else {
		next.Status = StatusSuccess
		next.Result = record
	}

	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		return next, false
	}
	s.state = next
	observers := s.observers
	s.mu.Unlock()

	s.notify(observers, next)
	return next, true
}

func (s *Session) notify(observers []func(State), state State) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if state.Generation < s.delivered {
		return
	}
	s.delivered = state.Generation

	for _, fn := range observers {
		fn(state)
	}
}

func (s *Session) recordOutcome(ctx context.Context, lerr *service.LookupError) {
	if s.metrics == nil {
		return
	}
	if lerr != nil {
		s.metrics.RecordLookup(ctx, lerr.Kind.String())
		return
	}
	s.metrics.RecordLookup(ctx, "success")
}
