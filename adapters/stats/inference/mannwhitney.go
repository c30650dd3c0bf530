package inference

import (
	"github.com/aclements/go-moremath/stats"
)

// ErrSamplesEqual is returned when every value in both groups is equal.
var ErrSamplesEqual = stats.ErrSamplesEqual

// MannWhitneyResult is the outcome of a two-sided Mann-Whitney U test
type MannWhitneyResult struct {
	// U is the statistic for x1: R1 - n1(n1+1)/2
	U float64
	P float64
}

// MannWhitneyU tests whether x1 and x2 differ in location. Small samples
// use the exact U distribution; larger ones a normal approximation with
// tie and continuity correction.
func MannWhitneyU(x1, x2 []float64) (MannWhitneyResult, error) {
	res, err := stats.MannWhitneyUTest(x1, x2, stats.LocationDiffers)
	if err != nil {
		return MannWhitneyResult{}, err
	}
	return MannWhitneyResult{U: res.U, P: res.P}, nil
}
