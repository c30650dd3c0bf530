// Package inference implements the statistical tests behind the
// parametric versus non-parametric comparison.
package inference

import (
	"github.com/montanaflynn/stats"
)

// Summary holds the descriptive statistics reported for one group
type Summary struct {
	N      int
	Mean   float64
	Median float64
	StdDev float64 // sample standard deviation (n-1 divisor)
}

// Describe computes mean, median and sample standard deviation.
func Describe(data []float64) (Summary, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, err
	}
	stdDev, err := stats.StandardDeviationSample(data)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		N:      len(data),
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
	}, nil
}
