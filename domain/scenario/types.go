// Package scenario defines the simulated datasets used to contrast the
// t-test with the Mann-Whitney U test.
package scenario

import (
	"fmt"
	"slices"
)

// ID names a scenario
type ID string

const (
	Symmetric ID = "symmetric"
	Skewed    ID = "skewed"
)

const (
	DefaultSampleSize       = 200
	DefaultSeed       int64 = 42
)

// Distribution describes one group's generating law
type Distribution struct {
	Family string  `json:"family"` // "normal" or "exponential"
	Mean   float64 `json:"mean,omitempty"`
	StdDev float64 `json:"std_dev,omitempty"`
	Scale  float64 `json:"scale,omitempty"` // exponential scale = 1/rate
}

func (d Distribution) String() string {
	switch d.Family {
	case FamilyNormal:
		return fmt.Sprintf("Normal(mean=%g, sd=%g)", d.Mean, d.StdDev)
	case FamilyExponential:
		return fmt.Sprintf("Exponential(scale=%g)", d.Scale)
	}
	return d.Family
}

const (
	FamilyNormal      = "normal"
	FamilyExponential = "exponential"
)

// Definition is a fixed scenario from the catalog
type Definition struct {
	ID          ID           `json:"id"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	Expected    string       `json:"expected_recommendation"`
	Control     Distribution `json:"control"`
	Treatment   Distribution `json:"treatment"`
}

var catalog = []Definition{
	{
		ID:          Symmetric,
		Label:       "Parametric (normal, symmetric)",
		Description: "Both groups are normal; the treatment mean is slightly higher. The t-test assumptions hold.",
		Expected:    "T_TEST",
		Control:     Distribution{Family: FamilyNormal, Mean: 10, StdDev: 2},
		Treatment:   Distribution{Family: FamilyNormal, Mean: 10.8, StdDev: 2.1},
	},
	{
		ID:          Skewed,
		Label:       "Non-parametric (exponential, right-skewed)",
		Description: "Both groups are exponential; the treatment median is clearly larger. Normality is violated.",
		Expected:    "MANN_WHITNEY",
		Control:     Distribution{Family: FamilyExponential, Scale: 1},
		Treatment:   Distribution{Family: FamilyExponential, Scale: 1.5},
	},
}

// Catalog returns the scenario definitions in display order.
func Catalog() []Definition {
	return slices.Clone(catalog)
}

// Lookup finds a definition by id.
func Lookup(id ID) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Key identifies one generated sample.
type Key struct {
	Scenario   ID
	SampleSize int
	Seed       int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s/n=%d/seed=%d", k.Scenario, k.SampleSize, k.Seed)
}

// Sample is an immutable control/treatment pair. Accessors return copies.
type Sample struct {
	key       Key
	control   []float64
	treatment []float64
}

// NewSample takes ownership of the given slices.
func NewSample(key Key, control, treatment []float64) *Sample {
	return &Sample{key: key, control: control, treatment: treatment}
}

// Key returns the cache key the sample was generated for.
func (s *Sample) Key() Key { return s.key }

func (s *Sample) ScenarioID() ID { return s.key.Scenario }

// Size is the per-group sample size.
func (s *Sample) Size() int { return len(s.control) }

func (s *Sample) Control() []float64 { return slices.Clone(s.control) }

func (s *Sample) Treatment() []float64 { return slices.Clone(s.treatment) }
