// Package stats holds the result types of the two-sample hypothesis comparison.
package stats

import (
	"encoding/json"
	"math"
)

// TestKind names one of the two compared hypothesis tests
type TestKind string

const (
	TTest       TestKind = "T_TEST"
	MannWhitney TestKind = "MANN_WHITNEY"
)

// TTestVariant selects how the t-test treats group variances
type TTestVariant string

const (
	Student TTestVariant = "student" // pooled variance, equal variances assumed
	Welch   TTestVariant = "welch"   // Welch-Satterthwaite degrees of freedom
)

// ParseTTestVariant maps a config string onto a variant.
func ParseTTestVariant(s string) (TTestVariant, bool) {
	switch TTestVariant(s) {
	case Student, Welch:
		return TTestVariant(s), true
	}
	return "", false
}

const (
	// NormalityAlpha is the Shapiro-Wilk threshold: both p-values must exceed it.
	NormalityAlpha = 0.05
	// SignificanceAlpha decides whether a test rejects its null hypothesis.
	SignificanceAlpha = 0.05
	// MinGroupSize is the smallest group Shapiro-Wilk accepts.
	MinGroupSize = 3
)

// WarningCode represents structured warning types
type WarningCode string

const (
	WarningZeroRange    WarningCode = "ZERO_RANGE"    // a group is constant; Shapiro-Wilk reported as W=1, p=1
	WarningZeroVariance WarningCode = "ZERO_VARIANCE" // pooled variance is zero; t-test resolved by policy
	WarningAllTied      WarningCode = "ALL_TIED"      // every value equal across groups; U at its null mean, p=1
	WarningLargeSample  WarningCode = "LARGE_SAMPLE"  // n > 5000; Shapiro-Wilk p-value may be inaccurate
)

// ============================================================================
// REPORT
// ============================================================================

// Report is the full outcome of comparing a control and a treatment group.
// INVARIANTS:
// - NormalityHolds == (ShapiroPValueControl > NormalityAlpha && ShapiroPValueTreatment > NormalityAlpha)
// - RecommendedTest == TTest iff NormalityHolds
// - both test results are always present regardless of the recommendation
type Report struct {
	ControlMean     float64 `json:"control_mean"`
	TreatmentMean   float64 `json:"treatment_mean"`
	ControlMedian   float64 `json:"control_median"`
	TreatmentMedian float64 `json:"treatment_median"`
	ControlStd      float64 `json:"control_std"`   // sample standard deviation, n-1 divisor
	TreatmentStd    float64 `json:"treatment_std"` // sample standard deviation, n-1 divisor

	ShapiroWControl        float64 `json:"shapiro_w_control"`
	ShapiroWTreatment      float64 `json:"shapiro_w_treatment"`
	ShapiroPValueControl   float64 `json:"shapiro_p_value_control"`
	ShapiroPValueTreatment float64 `json:"shapiro_p_value_treatment"`
	NormalityHolds         bool    `json:"normality_holds"`

	TTestVariant TTestVariant `json:"t_test_variant"`
	TStatistic   float64      `json:"t_statistic"`
	TTestDF      float64      `json:"t_test_df"`
	TTestPValue  float64      `json:"t_test_p_value"`

	UStatistic        float64 `json:"u_statistic"` // U for the control group
	MannWhitneyPValue float64 `json:"mann_whitney_p_value"`

	RecommendedTest TestKind `json:"recommended_test"`

	TTestRejectsNull       bool          `json:"t_test_rejects_null"`
	MannWhitneyRejectsNull bool          `json:"mann_whitney_rejects_null"`
	TestsAgree             bool          `json:"tests_agree"`
	Warnings               []WarningCode `json:"warnings,omitempty"`
}

// RecommendedPValue returns the p-value of the recommended test.
func (r Report) RecommendedPValue() float64 {
	if r.RecommendedTest == TTest {
		return r.TTestPValue
	}
	return r.MannWhitneyPValue
}

// HasWarning reports whether code was raised during the analysis.
func (r Report) HasWarning(code WarningCode) bool {
	for _, w := range r.Warnings {
		if w == code {
			return true
		}
	}
	return false
}

// MarshalJSON encodes a non-finite t statistic as null; JSON has no
// representation for infinity.
func (r Report) MarshalJSON() ([]byte, error) {
	type plain Report
	out := struct {
		plain
		TStatistic *float64 `json:"t_statistic"`
	}{plain: plain(r)}
	if !math.IsInf(r.TStatistic, 0) && !math.IsNaN(r.TStatistic) {
		out.TStatistic = &r.TStatistic
	}
	return json.Marshal(out)
}
