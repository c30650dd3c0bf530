// Package bayes computes the posterior probability of disease given a
// positive screening test.
package bayes

import (
	"statdemo/internal/errors"
)

// Input holds the three screening test parameters.
// All values must lie strictly within (0,1).
type Input struct {
	Prevalence  float64 `json:"prevalence"`
	Sensitivity float64 `json:"sensitivity"`
	Specificity float64 `json:"specificity"`
}

// Result holds the posterior and every intermediate quantity of the derivation.
type Result struct {
	FalsePositiveRate       float64 `json:"false_positive_rate"`
	TrueDiseaseFreeRate     float64 `json:"true_disease_free_rate"`
	ProbTruePositive        float64 `json:"prob_true_positive"`
	ProbFalsePositive       float64 `json:"prob_false_positive"`
	ProbPositiveTest        float64 `json:"prob_positive_test"`
	PositivePredictiveValue float64 `json:"positive_predictive_value"`
	ProbFalseGivenPositive  float64 `json:"prob_false_given_positive"`
}

// Validate checks that every parameter is strictly within (0,1).
// The error names the first offending field.
func (in Input) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"prevalence", in.Prevalence},
		{"sensitivity", in.Sensitivity},
		{"specificity", in.Specificity},
	}
	for _, f := range fields {
		// written as a negated range check so NaN is rejected too
		if !(f.value > 0 && f.value < 1) {
			return errors.InvalidParameter(f.name, f.value, "must be strictly between 0 and 1")
		}
	}
	return nil
}

// ComputePosterior applies Bayes' theorem to a positive test result.
func ComputePosterior(prevalence, sensitivity, specificity float64) (Result, error) {
	in := Input{Prevalence: prevalence, Sensitivity: sensitivity, Specificity: specificity}
	return Compute(in)
}

// Compute is ComputePosterior over an Input value.
func Compute(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	return posterior(in), nil
}

// posterior is the unchecked derivation. A zero Pr(+) yields PPV = 0.
func posterior(in Input) Result {
	falsePositiveRate := 1 - in.Specificity
	diseaseFreeRate := 1 - in.Prevalence

	probTruePositive := in.Sensitivity * in.Prevalence
	probFalsePositive := falsePositiveRate * diseaseFreeRate
	probPositiveTest := probTruePositive + probFalsePositive

	ppv := 0.0
	if probPositiveTest != 0 {
		ppv = probTruePositive / probPositiveTest
	}

	return Result{
		FalsePositiveRate:       falsePositiveRate,
		TrueDiseaseFreeRate:     diseaseFreeRate,
		ProbTruePositive:        probTruePositive,
		ProbFalsePositive:       probFalsePositive,
		ProbPositiveTest:        probPositiveTest,
		PositivePredictiveValue: ppv,
		ProbFalseGivenPositive:  1 - ppv,
	}
}
