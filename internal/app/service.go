// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/scorecalc/internal/domain/calculator"
	"github.com/okian/scorecalc/internal/domain/calculators"
	"github.com/okian/scorecalc/internal/domain/score"
	"github.com/okian/scorecalc/pkg/logger"
	"github.com/okian/scorecalc/pkg/metrics"
)

// unknownLabel keeps caller-supplied ids out of metric labels.
const unknownLabel = "unknown"

// Service dispatches calculations to the calculator registry.
type Service struct {
	mu sync.RWMutex

	registry *calculator.Registry

	// State
	started   bool
	startedAt time.Time

	// Counters reported by GetStats
	succeeded atomic.Int64
	invalid   atomic.Int64
	failed    atomic.Int64
	unknown   atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegistry replaces the default calculator catalog. The registry is
// sealed by New.
func WithRegistry(r *calculator.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// New constructs a Service over a sealed registry.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = calculators.Default()
	}
	s.registry.Seal()
	metrics.SetRegisteredCalculators(s.registry.Len())
	return s
}

func (s *Service) log() logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.Get()
}

// Start marks the service as ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.started = true
	s.startedAt = time.Now()

	ids := make([]string, 0, s.registry.Len())
	for _, m := range s.registry.List() {
		ids = append(ids, m.ID)
	}
	s.logger.Info(ctx, "calculator service started",
		logger.Int("calculators", len(ids)),
		logger.String("ids", strings.Join(ids, ",")),
	)
	return nil
}

// Stop marks the service as stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.log().Info(context.Background(), "calculator service stopped")
}

// Calculate validates params against the calculator registered under id and
// returns its result.
//
// Unknown ids wrap score.ErrUnknownCalculator. Invalid parameters are
// returned exactly as the calculator reported them. Every other failure,
// including a panic or a result that breaks the calculator's declared stage
// enumeration or output range, wraps score.ErrComputation.
func (s *Service) Calculate(ctx context.Context, id string, params score.Params) (score.Result, error) {
	if err := ctx.Err(); err != nil {
		return score.Result{}, err
	}

	calc, ok := s.registry.Lookup(id)
	if !ok {
		s.unknown.Add(1)
		metrics.RecordCalculation(unknownLabel, metrics.OutcomeUnknown, 0)
		return score.Result{}, fmt.Errorf("%w: %s", score.ErrUnknownCalculator, id)
	}

	start := time.Now()
	res, err := invoke(ctx, calc, params)
	if err == nil {
		if cerr := calc.Metadata().CheckResult(res); cerr != nil {
			err = fmt.Errorf("%w: %s: %w", score.ErrComputation, id, cerr)
		}
	}
	elapsed := time.Since(start)

	switch {
	case err == nil:
		s.succeeded.Add(1)
		metrics.RecordCalculation(id, metrics.OutcomeSuccess, elapsed)
		s.log().Debug(ctx, "calculation succeeded",
			logger.String("calculator", id),
			logger.String("stage", res.Stage),
			logger.Duration("elapsed", elapsed),
		)
		return res, nil
	case errors.Is(err, score.ErrInvalidParameters):
		s.invalid.Add(1)
		metrics.RecordCalculation(id, metrics.OutcomeInvalid, elapsed)
		s.log().Debug(ctx, "calculation rejected", logger.String("calculator", id), logger.Error(err))
		return score.Result{}, err
	default:
		if !errors.Is(err, score.ErrComputation) {
			err = fmt.Errorf("%w: %s: %w", score.ErrComputation, id, err)
		}
		s.failed.Add(1)
		metrics.RecordCalculation(id, metrics.OutcomeFailure, elapsed)
		s.log().Error(ctx, "calculation failed", logger.String("calculator", id), logger.Error(err))
		return score.Result{}, err
	}
}

func invoke(ctx context.Context, calc calculator.Calculator, params score.Params) (res score.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = score.Result{}
			err = fmt.Errorf("%w: panic: %v", score.ErrComputation, r)
		}
	}()
	return calc.Calculate(ctx, params)
}

// List returns the metadata of calculators matching f, ordered by id.
func (s *Service) List(_ context.Context, f calculator.Filter) []calculator.Metadata {
	all := s.registry.List()
	out := all[:0]
	for _, m := range all {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// Metadata returns the metadata of the calculator registered under id.
func (s *Service) Metadata(_ context.Context, id string) (calculator.Metadata, error) {
	calc, ok := s.registry.Lookup(id)
	if !ok {
		return calculator.Metadata{}, fmt.Errorf("%w: %s", score.ErrUnknownCalculator, id)
	}
	return calc.Metadata(), nil
}

// Categories returns the distinct calculator categories in sorted order.
func (s *Service) Categories(_ context.Context) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range s.registry.List() {
		if !seen[m.Category] {
			seen[m.Category] = true
			out = append(out, m.Category)
		}
	}
	sort.Strings(out)
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started, startedAt := s.started, s.startedAt
	s.mu.RUnlock()

	mem := metrics.CollectSystem()
	stats := map[string]interface{}{
		"started":              started,
		"calculators":          s.registry.Len(),
		"calculations_ok":      s.succeeded.Load(),
		"calculations_invalid": s.invalid.Load(),
		"calculations_failed":  s.failed.Load(),
		"unknown_calculator":   s.unknown.Load(),
		"goroutines":           runtime.NumGoroutine(),
		"heap_inuse_bytes":     mem.HeapInuse,
	}
	if started {
		stats["uptime_seconds"] = int64(time.Since(startedAt).Seconds())
	}
	return stats
}
