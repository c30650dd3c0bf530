package simulation

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"statdemo/adapters/rng"
	"statdemo/domain/scenario"
	"statdemo/internal/errors"
	"statdemo/internal/logging"
	"statdemo/internal/metrics"
	"statdemo/ports"
)

// Simulator generates scenario samples from a seeded PRNG and memoizes
// them in the injected cache.
type Simulator struct {
	cache   ports.SampleCache
	rng     ports.RNGPort
	logger  *zap.Logger
	metrics *metrics.Metrics
	group   singleflight.Group
}

// Option configures a Simulator
type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) { s.logger = logging.OrNop(l) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Simulator) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithRNG replaces the default math/rand backed RNG port.
func WithRNG(r ports.RNGPort) Option {
	return func(s *Simulator) {
		if r != nil {
			s.rng = r
		}
	}
}

// New creates a simulator backed by cache.
func New(cache ports.SampleCache, opts ...Option) *Simulator {
	s := &Simulator{
		cache:   cache,
		rng:     rng.NewSeededAdapter(),
		logger:  zap.NewNop(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate returns the sample for (id, sampleSize, seed). Repeated calls
// with the same key return the same *Sample without regenerating it;
// concurrent misses on one key share a single generation.
func (s *Simulator) Generate(ctx context.Context, id scenario.ID, sampleSize int, seed int64) (*scenario.Sample, error) {
	def, ok := scenario.Lookup(id)
	if !ok {
		return nil, errors.UnknownScenario(string(id))
	}
	if sampleSize <= 0 {
		return nil, errors.InvalidParameter("sample_size", sampleSize, "must be a positive integer")
	}

	key := scenario.Key{Scenario: id, SampleSize: sampleSize, Seed: seed}
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.CacheHit()
		s.logger.Debug("sample cache hit", zap.Stringer("key", key))
		return cached, nil
	}
	s.metrics.CacheMiss()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "generate %s", key)
	}

	// the flight is shared by every waiter on key, so one caller's
	// cancellation must not fail the others
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key.String(), func() (interface{}, error) {
		// another flight may have filled the key between Get and Do
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
		sample, err := s.generate(flightCtx, def, key)
		if err != nil {
			return nil, err
		}
		s.metrics.SampleGenerated(string(id))
		s.logger.Info("generated scenario sample",
			zap.String("scenario", string(id)),
			zap.Int("sample_size", sampleSize),
			zap.Int64("seed", seed))
		return s.cache.PutIfAbsent(key, sample), nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "generate %s", key)
	}
	return v.(*scenario.Sample), nil
}

// GenerateDefault uses the demo's default sample size and seed.
func (s *Simulator) GenerateDefault(ctx context.Context, id scenario.ID) (*scenario.Sample, error) {
	return s.Generate(ctx, id, scenario.DefaultSampleSize, scenario.DefaultSeed)
}

// generate draws the control group fully, then the treatment group, from
// one stream seeded with key.Seed.
func (s *Simulator) generate(ctx context.Context, def scenario.Definition, key scenario.Key) (*scenario.Sample, error) {
	r, err := s.rng.SeededStream(ctx, string(def.ID), key.Seed)
	if err != nil {
		return nil, err
	}

	control, err := draw(r, def.Control, key.SampleSize)
	if err != nil {
		return nil, err
	}
	treatment, err := draw(r, def.Treatment, key.SampleSize)
	if err != nil {
		return nil, err
	}
	return scenario.NewSample(key, control, treatment), nil
}

func draw(r *rand.Rand, d scenario.Distribution, n int) ([]float64, error) {
	out := make([]float64, n)
	switch d.Family {
	case scenario.FamilyNormal:
		for i := range out {
			out[i] = r.NormFloat64()*d.StdDev + d.Mean
		}
	case scenario.FamilyExponential:
		for i := range out {
			out[i] = r.ExpFloat64() * d.Scale
		}
	default:
		return nil, errors.InternalError(fmt.Sprintf("unsupported distribution family %q", d.Family))
	}
	return out, nil
}
