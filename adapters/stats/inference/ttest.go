package inference

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrZeroVariance is returned when the t statistic's standard error is zero.
var ErrZeroVariance = errors.New("t-test: samples have zero variance")

// TTestResult is the outcome of a two-sided two-sample t-test
type TTestResult struct {
	T  float64
	DF float64
	P  float64
}

// StudentTTest runs the independent two-sample t-test with pooled
// variance (equal variances assumed).
func StudentTTest(x1, x2 []float64) (TTestResult, error) {
	n1, n2 := float64(len(x1)), float64(len(x2))
	if n1 < 2 || n2 < 2 {
		return TTestResult{}, ErrSampleSize
	}

	m1, v1 := stat.MeanVariance(x1, nil)
	m2, v2 := stat.MeanVariance(x2, nil)

	df := n1 + n2 - 2
	pooled := ((n1-1)*v1 + (n2-1)*v2) / df
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	if se == 0 {
		return TTestResult{DF: df}, ErrZeroVariance
	}

	t := (m1 - m2) / se
	return TTestResult{T: t, DF: df, P: twoSidedP(t, df)}, nil
}

// WelchTTest runs the two-sample t-test without assuming equal variances,
// using Welch-Satterthwaite degrees of freedom.
func WelchTTest(x1, x2 []float64) (TTestResult, error) {
	n1, n2 := float64(len(x1)), float64(len(x2))
	if n1 < 2 || n2 < 2 {
		return TTestResult{}, ErrSampleSize
	}

	m1, v1 := stat.MeanVariance(x1, nil)
	m2, v2 := stat.MeanVariance(x2, nil)

	q1, q2 := v1/n1, v2/n2
	se := math.Sqrt(q1 + q2)
	if se == 0 {
		return TTestResult{DF: n1 + n2 - 2}, ErrZeroVariance
	}

	t := (m1 - m2) / se
	df := (q1 + q2) * (q1 + q2) / (q1*q1/(n1-1) + q2*q2/(n2-1))
	return TTestResult{T: t, DF: df, P: twoSidedP(t, df)}, nil
}

func twoSidedP(t, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return math.Min(1, 2*dist.Survival(math.Abs(t)))
}
