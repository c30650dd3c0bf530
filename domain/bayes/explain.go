package bayes

import (
	"encoding/json"
	"fmt"
	"math"
)

// Explanation summarizes why a positive result may still be unlikely to
// mean disease.
type Explanation struct {
	// FalsePositiveRatio is Pr(false positive) / Pr(true positive);
	// +Inf when no true positives are possible.
	FalsePositiveRatio     float64 `json:"false_positive_ratio"`
	FalsePositivesDominate bool    `json:"false_positives_dominate"`
	Summary                string  `json:"summary"`
}

// MarshalJSON encodes an infinite ratio as null.
func (e Explanation) MarshalJSON() ([]byte, error) {
	type plain Explanation
	out := struct {
		plain
		FalsePositiveRatio *float64 `json:"false_positive_ratio"`
	}{plain: plain(e)}
	if !math.IsInf(e.FalsePositiveRatio, 0) && !math.IsNaN(e.FalsePositiveRatio) {
		out.FalsePositiveRatio = &e.FalsePositiveRatio
	}
	return json.Marshal(out)
}

// Explain describes a computed result in plain text.
func Explain(in Input, r Result) Explanation {
	ratio := math.Inf(1)
	if r.ProbTruePositive > 0 {
		ratio = r.ProbFalsePositive / r.ProbTruePositive
	}
	dominate := r.ProbFalsePositive > r.ProbTruePositive

	summary := fmt.Sprintf(
		"Given a positive result, the probability of disease is %.2f%%; %.2f%% of positive results come from people without the disease.",
		r.PositivePredictiveValue*100, r.ProbFalseGivenPositive*100)

	if dominate {
		summary += fmt.Sprintf(
			" With a prevalence of only %.3f%%, false positives (%.2f x %.3f = %.5f) outnumber true positives (%.2f x %.3f = %.5f), so most positive tests come from the large healthy group.",
			in.Prevalence*100,
			r.FalsePositiveRate, r.TrueDiseaseFreeRate, r.ProbFalsePositive,
			in.Sensitivity, in.Prevalence, r.ProbTruePositive)
	} else {
		summary += " False positives do not outnumber true positives, so a positive result is at least as likely as not to indicate disease."
	}

	return Explanation{
		FalsePositiveRatio:     ratio,
		FalsePositivesDominate: dominate,
		Summary:                summary,
	}
}
