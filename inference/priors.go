package inference

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Prior is an independent one-dimensional prior over a single parameter.
type Prior interface {
	// Rand draws one value.
	Rand() float64
	// InBounds reports whether x has non-zero prior density.
	InBounds(x float64) bool
}

// Uniform is a flat prior on [Min, Max].
type Uniform struct {
	dist distuv.Uniform
}

// NewUniform builds a flat prior on [min, max].
func NewUniform(min, max float64, src rand.Source) Uniform {
	return Uniform{dist: distuv.Uniform{Min: min, Max: max, Src: src}}
}

func (u Uniform) Rand() float64 { return u.dist.Rand() }

func (u Uniform) InBounds(x float64) bool {
	return x >= u.dist.Min && x <= u.dist.Max
}

// LogUniform is flat in log space on [Min, Max], the usual choice for
// scale-type hyperparameters. Requires 0 < min < max.
type LogUniform struct {
	dist     distuv.Uniform // over [ln min, ln max]
	min, max float64
}

// NewLogUniform builds a log-flat prior on [min, max].
func NewLogUniform(min, max float64, src rand.Source) LogUniform {
	return LogUniform{
		dist: distuv.Uniform{Min: math.Log(min), Max: math.Log(max), Src: src},
		min:  min,
		max:  max,
	}
}

func (u LogUniform) Rand() float64 { return math.Exp(u.dist.Rand()) }

func (u LogUniform) InBounds(x float64) bool {
	return x >= u.min && x <= u.max
}

// Priors is a per-parameter prior list matching an Adapter's layout.
type Priors []Prior

// Sample draws a full parameter vector.
func (ps Priors) Sample() []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Rand()
	}
	return out
}

// InBounds reports whether every component has non-zero prior density.
func (ps Priors) InBounds(theta []float64) bool {
	if len(theta) != len(ps) {
		return false
	}
	for i, p := range ps {
		if !p.InBounds(theta[i]) {
			return false
		}
	}
	return true
}
