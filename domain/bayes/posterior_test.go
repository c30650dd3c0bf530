package bayes

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statdemo/internal/errors"
)

const tolerance = 1e-9

func TestComputePosterior_WorkedExample(t *testing.T) {
	r, err := ComputePosterior(0.001, 0.95, 0.98)
	require.NoError(t, err)

	assert.InDelta(t, 0.02, r.FalsePositiveRate, tolerance)
	assert.InDelta(t, 0.999, r.TrueDiseaseFreeRate, tolerance)
	assert.InDelta(t, 0.00095, r.ProbTruePositive, tolerance)
	assert.InDelta(t, 0.01998, r.ProbFalsePositive, tolerance)
	assert.InDelta(t, 0.02093, r.ProbPositiveTest, tolerance)
	assert.InDelta(t, 0.04539, r.PositivePredictiveValue, 1e-5)
	assert.InDelta(t, 0.95461, r.ProbFalseGivenPositive, 1e-5)
}

func TestComputePosterior_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		p := open01(rng)
		se := open01(rng)
		sp := open01(rng)

		r, err := ComputePosterior(p, se, sp)
		require.NoError(t, err)

		assert.InDelta(t, se*p+(1-sp)*(1-p), r.ProbPositiveTest, tolerance)
		assert.InDelta(t, r.ProbTruePositive+r.ProbFalsePositive, r.ProbPositiveTest, tolerance)
		assert.InDelta(t, 1.0, r.PositivePredictiveValue+r.ProbFalseGivenPositive, tolerance)
		assert.InDelta(t, r.ProbTruePositive/r.ProbPositiveTest, r.PositivePredictiveValue, tolerance)
		assert.True(t, r.PositivePredictiveValue >= 0 && r.PositivePredictiveValue <= 1)
	}
}

func TestPosterior_ZeroPositiveProbability(t *testing.T) {
	r := posterior(Input{Prevalence: 0.3, Sensitivity: 0, Specificity: 1})

	assert.Equal(t, 0.0, r.ProbPositiveTest)
	assert.Equal(t, 0.0, r.PositivePredictiveValue)
	assert.Equal(t, 1.0, r.ProbFalseGivenPositive)
	assert.False(t, math.IsNaN(r.PositivePredictiveValue))
}

func TestComputePosterior_RejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name  string
		in    Input
		field string
	}{
		{"prevalence zero", Input{0, 0.9, 0.9}, "prevalence"},
		{"prevalence one", Input{1, 0.9, 0.9}, "prevalence"},
		{"sensitivity negative", Input{0.1, -0.2, 0.9}, "sensitivity"},
		{"sensitivity zero", Input{0.1, 0, 1}, "sensitivity"},
		{"specificity above one", Input{0.1, 0.9, 1.5}, "specificity"},
		{"specificity NaN", Input{0.1, 0.9, math.NaN()}, "specificity"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.in)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidParameter(err))
			assert.Equal(t, tc.field, errors.FieldOf(err))
		})
	}
}

func TestExplain_FalsePositiveParadox(t *testing.T) {
	in := Defaults()
	r, err := Compute(in)
	require.NoError(t, err)

	e := Explain(in, r)
	assert.True(t, e.FalsePositivesDominate)
	assert.InDelta(t, 0.01998/0.00095, e.FalsePositiveRatio, 1e-9)
	assert.Contains(t, e.Summary, "4.54%")
	assert.Contains(t, e.Summary, "outnumber true positives")
}

func TestExplain_TruePositivesDominate(t *testing.T) {
	in := Input{Prevalence: 0.5, Sensitivity: 0.99, Specificity: 0.99}
	r, err := Compute(in)
	require.NoError(t, err)

	e := Explain(in, r)
	assert.False(t, e.FalsePositivesDominate)
	assert.Less(t, e.FalsePositiveRatio, 1.0)
}

func TestExplain_UnderflowingTruePositives(t *testing.T) {
	in := Input{Prevalence: 1e-200, Sensitivity: 1e-200, Specificity: 0.98}
	r, err := Compute(in)
	require.NoError(t, err)
	require.Equal(t, 0.0, r.ProbTruePositive)

	e := Explain(in, r)
	assert.True(t, math.IsInf(e.FalsePositiveRatio, 1))
	assert.True(t, e.FalsePositivesDominate)

	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "false_positive_ratio")
	assert.Nil(t, decoded["false_positive_ratio"])
	assert.Equal(t, true, decoded["false_positives_dominate"])
	assert.NotEmpty(t, decoded["summary"])
}

func TestExplanation_MarshalFiniteRatio(t *testing.T) {
	raw, err := json.Marshal(Explanation{FalsePositiveRatio: 2.5, Summary: "s"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"false_positive_ratio":2.5,"false_positives_dominate":false,"summary":"s"}`, string(raw))
}

func TestSliderRanges_Clamp(t *testing.T) {
	ranges := SliderRanges()

	clamped := ranges.Clamp(Input{Prevalence: 0.5, Sensitivity: 0.5, Specificity: math.NaN()})
	assert.Equal(t, 0.10, clamped.Prevalence)
	assert.Equal(t, 0.80, clamped.Sensitivity)
	assert.Equal(t, 0.80, clamped.Specificity)

	assert.True(t, ranges.Prevalence.Contains(DefaultPrevalence))
	assert.True(t, ranges.Sensitivity.Contains(DefaultSensitivity))
	assert.True(t, ranges.Specificity.Contains(DefaultSpecificity))
}

func open01(rng *rand.Rand) float64 {
	for {
		v := rng.Float64()
		if v > 0 {
			return v
		}
	}
}
