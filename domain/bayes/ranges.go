package bayes

import "math"

// Demo defaults: a rare disease screened with a good but imperfect test.
const (
	DefaultPrevalence  = 0.001
	DefaultSensitivity = 0.95
	DefaultSpecificity = 0.98
)

// Defaults returns the classroom example parameters.
func Defaults() Input {
	return Input{
		Prevalence:  DefaultPrevalence,
		Sensitivity: DefaultSensitivity,
		Specificity: DefaultSpecificity,
	}
}

// Range is a closed interval a presentation layer offers for one parameter.
type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Clamp pulls v into the range. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges groups the slider bounds for the three parameters.
type Ranges struct {
	Prevalence  Range `json:"prevalence"`
	Sensitivity Range `json:"sensitivity"`
	Specificity Range `json:"specificity"`
}

// SliderRanges returns the bounds the demo exposes. The calculator itself
// only enforces (0,1).
func SliderRanges() Ranges {
	return Ranges{
		Prevalence:  Range{Min: 0.001, Max: 0.10, Step: 0.001},
		Sensitivity: Range{Min: 0.80, Max: 0.999, Step: 0.001},
		Specificity: Range{Min: 0.80, Max: 0.999, Step: 0.001},
	}
}

// Clamp pulls every field of in into the slider bounds.
func (r Ranges) Clamp(in Input) Input {
	return Input{
		Prevalence:  r.Prevalence.Clamp(in.Prevalence),
		Sensitivity: r.Sensitivity.Clamp(in.Sensitivity),
		Specificity: r.Specificity.Clamp(in.Specificity),
	}
}
