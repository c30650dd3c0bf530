package hypothesis

import (
	stderrors "errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"statdemo/adapters/stats/inference"
	"statdemo/domain/stats"
	"statdemo/internal/errors"
	"statdemo/internal/logging"
	"statdemo/internal/metrics"
)

// Runner compares a control and a treatment group with both a t-test and
// a Mann-Whitney U test and recommends one based on Shapiro-Wilk normality.
type Runner struct {
	variant stats.TTestVariant
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Runner
type Option func(*Runner)

// WithTTestVariant selects Student (default) or Welch.
func WithTTestVariant(v stats.TTestVariant) Option {
	return func(r *Runner) {
		if v != "" {
			r.variant = v
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = logging.OrNop(l) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		if m != nil {
			r.metrics = m
		}
	}
}

// NewRunner creates a runner using Student's t-test unless configured otherwise.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		variant: stats.Student,
		logger:  zap.NewNop(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Variant reports the configured t-test variant.
func (r *Runner) Variant() stats.TTestVariant {
	return r.variant
}

// Analyze computes the full report. Every step runs regardless of the
// recommendation so both conclusions can be compared.
func (r *Runner) Analyze(control, treatment []float64) (stats.Report, error) {
	start := time.Now()

	if err := validateGroup("control", control); err != nil {
		return stats.Report{}, err
	}
	if err := validateGroup("treatment", treatment); err != nil {
		return stats.Report{}, err
	}

	cs, err := inference.Describe(control)
	if err != nil {
		return stats.Report{}, errors.Wrap(err, "describe control group")
	}
	ts, err := inference.Describe(treatment)
	if err != nil {
		return stats.Report{}, errors.Wrap(err, "describe treatment group")
	}

	report := stats.Report{
		ControlMean:     cs.Mean,
		TreatmentMean:   ts.Mean,
		ControlMedian:   cs.Median,
		TreatmentMedian: ts.Median,
		ControlStd:      cs.StdDev,
		TreatmentStd:    ts.StdDev,
		TTestVariant:    r.variant,
	}

	var warnings warningSet

	report.ShapiroWControl, report.ShapiroPValueControl, err = normality(control, &warnings)
	if err != nil {
		return stats.Report{}, errors.Wrap(err, "shapiro-wilk on control group")
	}
	report.ShapiroWTreatment, report.ShapiroPValueTreatment, err = normality(treatment, &warnings)
	if err != nil {
		return stats.Report{}, errors.Wrap(err, "shapiro-wilk on treatment group")
	}
	report.NormalityHolds = report.ShapiroPValueControl > stats.NormalityAlpha &&
		report.ShapiroPValueTreatment > stats.NormalityAlpha

	tt, err := r.tTest(control, treatment, cs.Mean, ts.Mean, &warnings)
	if err != nil {
		return stats.Report{}, errors.Wrap(err, "t-test")
	}
	report.TStatistic, report.TTestDF, report.TTestPValue = tt.T, tt.DF, tt.P

	mw, err := mannWhitney(control, treatment, &warnings)
	if err != nil {
		return stats.Report{}, errors.Wrap(err, "mann-whitney u test")
	}
	report.UStatistic, report.MannWhitneyPValue = mw.U, mw.P

	report.RecommendedTest = stats.MannWhitney
	if report.NormalityHolds {
		report.RecommendedTest = stats.TTest
	}

	report.TTestRejectsNull = report.TTestPValue < stats.SignificanceAlpha
	report.MannWhitneyRejectsNull = report.MannWhitneyPValue < stats.SignificanceAlpha
	report.TestsAgree = report.TTestRejectsNull == report.MannWhitneyRejectsNull
	report.Warnings = warnings.list()

	elapsed := time.Since(start)
	r.metrics.ObserveAnalysis(string(report.RecommendedTest), elapsed)
	r.logger.Debug("hypothesis analysis complete",
		zap.Int("control_n", len(control)),
		zap.Int("treatment_n", len(treatment)),
		zap.Bool("normality_holds", report.NormalityHolds),
		zap.String("recommended", string(report.RecommendedTest)),
		zap.Duration("elapsed", elapsed))

	return report, nil
}

func validateGroup(name string, data []float64) error {
	if len(data) < stats.MinGroupSize {
		return errors.InsufficientSampleSize(name, len(data), stats.MinGroupSize)
	}
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.InvalidParameter(name, v, fmt.Sprintf("value at index %d is not finite", i))
		}
	}
	// finite values can still overflow the range or the sum of squares
	lo, hi := bounds(data)
	if spread := hi - lo; math.IsInf(spread, 0) {
		return errors.InvalidParameter(name, spread, "value range overflows float64")
	}
	if _, variance := stat.MeanVariance(data, nil); math.IsInf(variance, 0) || math.IsNaN(variance) {
		return errors.InvalidParameter(name, variance, "variance overflows float64")
	}
	return nil
}

func bounds(data []float64) (lo, hi float64) {
	lo, hi = data[0], data[0]
	for _, v := range data[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// normality runs Shapiro-Wilk. A constant group has no defined W; it is
// reported as W=1, p=1 with a ZERO_RANGE warning.
func normality(data []float64, warnings *warningSet) (w, p float64, err error) {
	if len(data) > inference.ShapiroMaxN {
		warnings.add(stats.WarningLargeSample)
	}
	res, err := inference.ShapiroWilk(data)
	switch {
	case stderrors.Is(err, inference.ErrZeroRange):
		warnings.add(stats.WarningZeroRange)
		return 1, 1, nil
	case err != nil:
		return 0, 0, err
	}
	return res.W, res.P, nil
}

// tTest resolves zero pooled variance by policy: equal means give t=0,
// p=1; different means give t=±Inf, p=0.
func (r *Runner) tTest(control, treatment []float64, controlMean, treatmentMean float64, warnings *warningSet) (inference.TTestResult, error) {
	var (
		res inference.TTestResult
		err error
	)
	switch r.variant {
	case stats.Welch:
		res, err = inference.WelchTTest(control, treatment)
	case stats.Student:
		res, err = inference.StudentTTest(control, treatment)
	default:
		return res, errors.InvalidParameter("t_test_variant", r.variant, "must be student or welch")
	}
	if !stderrors.Is(err, inference.ErrZeroVariance) {
		return res, err
	}

	warnings.add(stats.WarningZeroVariance)
	diff := controlMean - treatmentMean
	if diff == 0 {
		return inference.TTestResult{T: 0, DF: res.DF, P: 1}, nil
	}
	return inference.TTestResult{T: math.Copysign(math.Inf(1), diff), DF: res.DF, P: 0}, nil
}

// mannWhitney reports fully tied input as U at its null mean with p=1.
func mannWhitney(control, treatment []float64, warnings *warningSet) (inference.MannWhitneyResult, error) {
	res, err := inference.MannWhitneyU(control, treatment)
	if stderrors.Is(err, inference.ErrSamplesEqual) {
		warnings.add(stats.WarningAllTied)
		return inference.MannWhitneyResult{
			U: float64(len(control)*len(treatment)) / 2,
			P: 1,
		}, nil
	}
	return res, err
}

// warningSet collects warning codes once each, in order of first occurrence
type warningSet struct {
	codes []stats.WarningCode
}

func (w *warningSet) add(code stats.WarningCode) {
	for _, c := range w.codes {
		if c == code {
			return
		}
	}
	w.codes = append(w.codes, code)
}

func (w *warningSet) list() []stats.WarningCode {
	return w.codes
}
