// Package surface computes deterministic two-herb dose-response surfaces
// under one of four interaction hypotheses.
package surface

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/herb"
	"github.com/starford/herbscope/internal/textutil"
)

// Bounds of the per-pair scaling factor.
const (
	FactorMin = 0.8
	FactorMax = 1.2
)

const maxDose = 1e6

// MaxSamples bounds the points per axis; a grid holds MaxSamples² cells at most.
const MaxSamples = 1000

// Axis describes one dose axis: Samples evenly spaced points from Min to Max.
type Axis struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Samples int     `json:"samples"`
}

// DefaultAxis is 0-15 g sampled at 50 points.
func DefaultAxis() Axis {
	return Axis{Min: 0, Max: 15, Samples: 50}
}

// Validate rejects axes that would produce NaN, Inf or empty grids.
func (a Axis) Validate() error {
	switch {
	case a.Samples < 1:
		return fmt.Errorf("%w: samples must be >= 1, got %d", apperr.ErrInvalidGrid, a.Samples)
	case a.Samples > MaxSamples:
		return fmt.Errorf("%w: samples must be <= %d, got %d", apperr.ErrInvalidGrid, MaxSamples, a.Samples)
	case math.IsNaN(a.Min) || math.IsNaN(a.Max) || math.IsInf(a.Min, 0) || math.IsInf(a.Max, 0):
		return fmt.Errorf("%w: bounds must be finite", apperr.ErrInvalidGrid)
	case a.Min < 0:
		return fmt.Errorf("%w: doses must be non-negative, got min %g", apperr.ErrInvalidGrid, a.Min)
	case a.Max < a.Min:
		return fmt.Errorf("%w: max %g below min %g", apperr.ErrInvalidGrid, a.Max, a.Min)
	case a.Max > maxDose:
		return fmt.Errorf("%w: max %g exceeds %g", apperr.ErrInvalidGrid, a.Max, float64(maxDose))
	}
	return nil
}

// Points returns the sample positions. A single sample sits at Min.
func (a Axis) Points() []float64 {
	out := make([]float64, a.Samples)
	if a.Samples == 1 {
		out[0] = a.Min
		return out
	}
	step := (a.Max - a.Min) / float64(a.Samples-1)
	for i := range out {
		out[i] = a.Min + float64(i)*step
	}
	out[a.Samples-1] = a.Max
	return out
}

// Surface is a computed response grid. Z[i][j] is the response at
// (X[j], Y[i]): rows follow herb B's axis, columns herb A's.
type Surface struct {
	HerbA  string      `json:"herb_a"`
	HerbB  string      `json:"herb_b"`
	Model  Model       `json:"model"`
	Factor float64     `json:"factor"`
	X      []float64   `json:"x"`
	Y      []float64   `json:"y"`
	Z      [][]float64 `json:"z"`
}

// Point is one grid sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Peak returns the sample with the highest response. Ties resolve to the
// first one in row-major order.
func (s *Surface) Peak() Point {
	best := Point{X: s.X[0], Y: s.Y[0], Z: s.Z[0][0]}
	for i, row := range s.Z {
		for j, z := range row {
			if z > best.Z {
				best = Point{X: s.X[j], Y: s.Y[i], Z: z}
			}
		}
	}
	return best
}

// Range returns the minimum and maximum response.
func (s *Surface) Range() (lo, hi float64) {
	lo, hi = s.Z[0][0], s.Z[0][0]
	for _, row := range s.Z {
		for _, z := range row {
			lo = math.Min(lo, z)
			hi = math.Max(hi, z)
		}
	}
	return lo, hi
}

// Engine computes surfaces. The zero value is not usable; use New.
type Engine struct {
	coef Coefficients
}

// New returns an Engine with the given coefficients.
func New(coef Coefficients) *Engine {
	return &Engine{coef: coef}
}

// Compute builds the surface for herbA (X axis) and herbB (Y axis) under
// model m. Both herbs must resolve in cat. The same axis is used for both doses.
func (e *Engine) Compute(cat herb.Catalog, herbA, herbB string, m Model, axis Axis) (*Surface, error) {
	a, ok := cat.Lookup(herbA)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnknownHerb, herbA)
	}
	b, ok := cat.Lookup(herbB)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnknownHerb, herbB)
	}
	if err := axis.Validate(); err != nil {
		return nil, err
	}
	if _, ok := e.coef.response(m, 0, 0, 1); !ok {
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnknownModel, string(m))
	}

	factor := PairFactor(a.Name, b.Name)
	xs := axis.Points()
	ys := axis.Points()
	z := make([][]float64, len(ys))
	for i, y := range ys {
		row := make([]float64, len(xs))
		for j, x := range xs {
			row[j], _ = e.coef.response(m, x, y, factor)
		}
		z[i] = row
	}

	return &Surface{
		HerbA:  a.Name,
		HerbB:  b.Name,
		Model:  m,
		Factor: factor,
		X:      xs,
		Y:      ys,
		Z:      z,
	}, nil
}

// PairFactor derives the scaling factor for an unordered herb pair. The seed
// is an FNV-1a hash of both normalised names, so swapping them or repeating
// the call yields the same value in [FactorMin, FactorMax).
func PairFactor(a, b string) float64 {
	pair := []string{textutil.Key(a), textutil.Key(b)}
	sort.Strings(pair)

	h := fnv.New64a()
	_, _ = h.Write([]byte(pair[0]))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(pair[1]))
	seed := h.Sum64()

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return FactorMin + (FactorMax-FactorMin)*r.Float64()
}
