package surface

import (
	"fmt"
	"math"
	"strings"

	"github.com/starford/herbscope/internal/apperr"
)

// Model selects the pharmacological hypothesis used to combine two doses.
type Model string

const (
	Additivity  Model = "additivity"
	Synergy     Model = "synergy"
	Antagonism  Model = "antagonism"
	ComplexPeak Model = "complex-peak"
)

// Models returns every supported model.
func Models() []Model {
	return []Model{Additivity, Synergy, Antagonism, ComplexPeak}
}

// ParseModel maps a tag to a Model. Matching ignores case, and "_" or no
// separator is accepted in place of "-" (ComplexPeak, complex_peak).
func ParseModel(tag string) (Model, error) {
	k := strings.ToLower(strings.TrimSpace(tag))
	k = strings.NewReplacer("_", "", "-", "", " ", "").Replace(k)
	switch k {
	case "additivity":
		return Additivity, nil
	case "synergy":
		return Synergy, nil
	case "antagonism":
		return Antagonism, nil
	case "complexpeak":
		return ComplexPeak, nil
	}
	return "", fmt.Errorf("%w: %q", apperr.ErrUnknownModel, tag)
}

// Coefficients are the fixed constants of the Synergy and Antagonism formulas.
type Coefficients struct {
	SynergyK        float64
	AntagonismK     float64
	AntagonismScale float64
}

// DefaultCoefficients returns k=0.35 for Synergy, k=0.1 and scale=10 for Antagonism.
func DefaultCoefficients() Coefficients {
	return Coefficients{SynergyK: 0.35, AntagonismK: 0.1, AntagonismScale: 10}
}

// response evaluates model m at (x, y). The second return is false for
// models without a formula; callers must not reach that branch.
func (c Coefficients) response(m Model, x, y, factor float64) (float64, bool) {
	switch m {
	case Additivity:
		return (x + y) * factor, true
	case Synergy:
		return (x + y) + c.SynergyK*(x*y)*factor, true
	case Antagonism:
		return (x + y) / (1 + c.AntagonismK*(x*y)) * factor * c.AntagonismScale, true
	case ComplexPeak:
		return math.Sin(x/3) + math.Cos(y/3) + (x*y)/25*factor, true
	}
	return 0, false
}
