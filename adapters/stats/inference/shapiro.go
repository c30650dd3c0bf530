package inference

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Shapiro-Wilk, following Royston (1995), Algorithm AS R94.

var (
	// ErrSampleSize is returned for samples with fewer than 3 values.
	ErrSampleSize = errors.New("shapiro-wilk: sample needs at least 3 values")
	// ErrZeroRange is returned when every value in the sample is equal.
	ErrZeroRange = errors.New("shapiro-wilk: sample has zero range")
	// ErrNonFiniteRange is returned when the sample range overflows float64.
	ErrNonFiniteRange = errors.New("shapiro-wilk: sample range is not finite")
)

// ShapiroMaxN is the largest n the p-value approximation is calibrated for.
const ShapiroMaxN = 5000

const rangeEpsilon = 1e-19

// polynomial coefficients from AS R94
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.5440, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// ShapiroResult is the outcome of a Shapiro-Wilk normality test
type ShapiroResult struct {
	N int
	W float64
	P float64
}

// ShapiroWilk tests the null hypothesis that data was drawn from a
// normal distribution. Small p-values reject normality.
func ShapiroWilk(data []float64) (ShapiroResult, error) {
	n := len(data)
	if n < 3 {
		return ShapiroResult{N: n}, ErrSampleSize
	}

	x := make([]float64, n)
	copy(x, data)
	sort.Float64s(x)

	spread := x[n-1] - x[0]
	if math.IsInf(spread, 0) || math.IsNaN(spread) {
		return ShapiroResult{N: n}, ErrNonFiniteRange
	}
	if spread < rangeEpsilon {
		return ShapiroResult{N: n}, ErrZeroRange
	}

	// scale by the range before summing squares
	var mean float64
	for i := range x {
		x[i] /= spread
		mean += x[i]
	}
	mean /= float64(n)

	var ss float64
	for _, v := range x {
		d := v - mean
		ss += d * d
	}

	a := shapiroCoefficients(n)
	var num float64
	for i, ai := range a {
		num += ai * (x[n-1-i] - x[i])
	}

	w := math.Min(num*num/ss, 1)
	return ShapiroResult{N: n, W: w, P: shapiroPValue(w, n)}, nil
}

// shapiroCoefficients returns the positive half of the antisymmetric
// weight vector; a[0] pairs the largest with the smallest value.
func shapiroCoefficients(n int) []float64 {
	half := n / 2
	a := make([]float64, half)
	if n == 3 {
		a[0] = math.Sqrt2 / 2
		return a
	}

	m := make([]float64, half)
	an25 := float64(n) + 0.25
	var summ2 float64
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / an25)
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(float64(n))

	a1 := poly(swC1, rsn) - m[0]/ssumm2

	first := 1
	var fac float64
	if n > 5 {
		first = 2
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	a[0] = a1
	for i := first; i < half; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func shapiroPValue(w float64, n int) float64 {
	if n == 3 {
		// exact distribution for n = 3
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Pi/3)
		return math.Max(0, math.Min(1, p))
	}

	an := float64(n)
	y := math.Log(1 - w)

	var mu, sigma float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return 0
		}
		y = -math.Log(gamma - y)
		mu = poly(swC3, an)
		sigma = math.Exp(poly(swC4, an))
	} else {
		ln := math.Log(an)
		mu = poly(swC5, ln)
		sigma = math.Exp(poly(swC6, ln))
	}
	return distuv.UnitNormal.Survival((y - mu) / sigma)
}

// poly evaluates c[0] + c[1]x + c[2]x^2 + ...
func poly(c []float64, x float64) float64 {
	var r float64
	for i := len(c) - 1; i >= 0; i-- {
		r = r*x + c[i]
	}
	return r
}
