package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"statdemo/domain/bayes"
	"statdemo/domain/scenario"
	"statdemo/domain/stats"
	"statdemo/internal/errors"
	"statdemo/internal/hypothesis"
	"statdemo/internal/logging"
	"statdemo/internal/metrics"
	"statdemo/internal/simulation"
)

// DemoService serves both classroom demonstrations to the presentation layers
type DemoService struct {
	simulator *simulation.Simulator
	runner    *hypothesis.Runner
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// PosteriorOutcome is a Bayes computation with its explanation
type PosteriorOutcome struct {
	Input       bayes.Input       `json:"input"`
	Result      bayes.Result      `json:"result"`
	Explanation bayes.Explanation `json:"explanation"`
}

// ComparisonRequest selects a scenario sample
type ComparisonRequest struct {
	Scenario   scenario.ID
	SampleSize int
	Seed       int64
}

// ComparisonResult is the full parametric versus non-parametric comparison
type ComparisonResult struct {
	Scenario              scenario.Definition `json:"scenario"`
	SampleSize            int                 `json:"sample_size"`
	Seed                  int64               `json:"seed"`
	Report                stats.Report        `json:"report"`
	TTestConclusion       string              `json:"t_test_conclusion"`
	MannWhitneyConclusion string              `json:"mann_whitney_conclusion"`
	Justification         string              `json:"justification"`
	RuntimeMs             int64               `json:"runtime_ms"`
}

// NewDemoService creates a demo service
func NewDemoService(simulator *simulation.Simulator, runner *hypothesis.Runner, m *metrics.Metrics, logger *zap.Logger) *DemoService {
	if m == nil {
		m = metrics.NewNop()
	}
	return &DemoService{
		simulator: simulator,
		runner:    runner,
		metrics:   m,
		logger:    logging.OrNop(logger),
	}
}

// Posterior validates the parameters and computes the posterior.
func (s *DemoService) Posterior(in bayes.Input) (*PosteriorOutcome, error) {
	result, err := bayes.Compute(in)
	s.metrics.PosteriorComputed(err == nil)
	if err != nil {
		return nil, err
	}
	return &PosteriorOutcome{
		Input:       in,
		Result:      result,
		Explanation: bayes.Explain(in, result),
	}, nil
}

// Scenarios lists the selectable scenarios.
func (s *DemoService) Scenarios() []scenario.Definition {
	return scenario.Catalog()
}

// Sample returns the (cached) generated sample for req.
func (s *DemoService) Sample(ctx context.Context, req ComparisonRequest) (*scenario.Sample, error) {
	return s.simulator.Generate(ctx, req.Scenario, req.SampleSize, req.Seed)
}

// Compare generates (or reuses) the scenario sample and analyzes it.
func (s *DemoService) Compare(ctx context.Context, req ComparisonRequest) (*ComparisonResult, error) {
	start := time.Now()

	def, ok := scenario.Lookup(req.Scenario)
	if !ok {
		return nil, errors.UnknownScenario(string(req.Scenario))
	}

	sample, err := s.Sample(ctx, req)
	if err != nil {
		return nil, err
	}

	report, err := s.runner.Analyze(sample.Control(), sample.Treatment())
	if err != nil {
		return nil, errors.Wrapf(err, "analyze scenario %s", req.Scenario)
	}

	s.logger.Info("scenario compared",
		zap.String("scenario", string(req.Scenario)),
		zap.Int("sample_size", req.SampleSize),
		zap.Int64("seed", req.Seed),
		zap.String("recommended", string(report.RecommendedTest)))

	return &ComparisonResult{
		Scenario:              def,
		SampleSize:            req.SampleSize,
		Seed:                  req.Seed,
		Report:                report,
		TTestConclusion:       report.TTestConclusion(),
		MannWhitneyConclusion: report.MannWhitneyConclusion(),
		Justification:         report.Justification(),
		RuntimeMs:             time.Since(start).Milliseconds(),
	}, nil
}

// Analyze runs the comparison on caller supplied groups.
func (s *DemoService) Analyze(control, treatment []float64) (stats.Report, error) {
	return s.runner.Analyze(control, treatment)
}
