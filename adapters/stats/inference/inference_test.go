package inference

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	s, err := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)

	assert.Equal(t, 8, s.N)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, 4.5, s.Median, 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.StdDev, 1e-12)

	_, err = Describe(nil)
	assert.Error(t, err)
}

func TestShapiroWilk_ReferenceValues(t *testing.T) {
	cases := []struct {
		name string
		data []float64
		w, p float64
	}{
		{"heights n=11", []float64{148, 154, 158, 160, 161, 162, 166, 170, 182, 195, 236}, 0.788815, 0.006704},
		{"n=3 exact", []float64{1, 2, 4}, 0.964286, 0.636887},
		{"n=4", []float64{1, 2, 3, 4}, 0.992912, 0.971877},
		{"n=5", []float64{1, 2, 3, 4, 5}, 0.986762, 0.967174},
		{"uniform grid n=30", seq(1, 30), 0.957451, 0.266233},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ShapiroWilk(tc.data)
			require.NoError(t, err)
			assert.InDelta(t, tc.w, res.W, 1e-5)
			assert.InDelta(t, tc.p, res.P, 1e-4)
		})
	}
}

func TestShapiroWilk_PerfectlySpacedTriple(t *testing.T) {
	res, err := ShapiroWilk([]float64{3, 1, 2})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.W, 1e-12)
	assert.InDelta(t, 1.0, res.P, 1e-9)
}

func TestShapiroWilk_DetectsSkew(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	data := make([]float64, 200)
	for i := range data {
		data[i] = rng.ExpFloat64()
	}

	res, err := ShapiroWilk(data)
	require.NoError(t, err)
	assert.Less(t, res.P, 1e-6)
}

func TestShapiroWilk_Errors(t *testing.T) {
	_, err := ShapiroWilk([]float64{1, 2})
	assert.ErrorIs(t, err, ErrSampleSize)

	_, err = ShapiroWilk([]float64{5, 5, 5, 5})
	assert.ErrorIs(t, err, ErrZeroRange)

	_, err = ShapiroWilk([]float64{-1e308, 0, 1e308})
	assert.ErrorIs(t, err, ErrNonFiniteRange)
}

func TestShapiroWilk_DoesNotMutateInput(t *testing.T) {
	data := []float64{3, 1, 2, 9, 4}
	_, err := ShapiroWilk(data)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2, 9, 4}, data)
}

func TestStudentTTest(t *testing.T) {
	res, err := StudentTTest([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	assert.InDelta(t, -3.674235, res.T, 1e-6)
	assert.Equal(t, 4.0, res.DF)
	assert.InDelta(t, 0.021312, res.P, 1e-5)

	res, err = StudentTTest(welchA, welchB)
	require.NoError(t, err)
	assert.InDelta(t, -1.649205, res.T, 1e-6)
	assert.Equal(t, 28.0, res.DF)
	assert.InDelta(t, 0.110282, res.P, 1e-5)
}

func TestWelchTTest(t *testing.T) {
	res, err := WelchTTest(welchA, welchB)
	require.NoError(t, err)
	assert.InDelta(t, -2.219241, res.T, 1e-6)
	assert.InDelta(t, 24.496223, res.DF, 1e-5)
	assert.InDelta(t, 0.035972, res.P, 1e-5)
}

func TestTTest_ZeroVariance(t *testing.T) {
	_, err := StudentTTest([]float64{2, 2, 2}, []float64{2, 2, 2})
	assert.ErrorIs(t, err, ErrZeroVariance)

	_, err = WelchTTest([]float64{1, 1, 1}, []float64{2, 2, 2})
	assert.ErrorIs(t, err, ErrZeroVariance)

	_, err = StudentTTest([]float64{1}, []float64{2, 3})
	assert.ErrorIs(t, err, ErrSampleSize)
}

func TestMannWhitneyU_Exact(t *testing.T) {
	res, err := MannWhitneyU([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.U)
	assert.InDelta(t, 0.1, res.P, 1e-9)

	res, err = MannWhitneyU([]float64{4, 5, 6}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 9.0, res.U)
	assert.InDelta(t, 0.1, res.P, 1e-9)
}

func TestMannWhitneyU_NormalApproximation(t *testing.T) {
	x1 := seq(0, 59)
	x2 := make([]float64, len(x1))
	for i, v := range x1 {
		x2[i] = v + 10.5
	}

	res, err := MannWhitneyU(x1, x2)
	require.NoError(t, err)
	assert.Equal(t, 1225.0, res.U)
	assert.InDelta(t, 0.00257, res.P, 1e-4)
}

func TestMannWhitneyU_AllTied(t *testing.T) {
	_, err := MannWhitneyU([]float64{7, 7, 7}, []float64{7, 7, 7})
	assert.ErrorIs(t, err, ErrSamplesEqual)
}

var (
	welchA = []float64{19.8, 20.4, 19.6, 17.8, 18.5, 18.9, 18.3, 18.9, 19.5, 22.0}
	welchB = []float64{28.2, 26.6, 20.1, 23.3, 25.2, 22.1, 17.7, 27.6, 20.6, 13.7,
		23.2, 17.5, 20.6, 18.0, 23.9, 21.6, 24.3, 20.4, 24.0, 13.2}
)

func seq(from, to int) []float64 {
	out := make([]float64, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, float64(i))
	}
	return out
}
