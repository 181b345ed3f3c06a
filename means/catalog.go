package means

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/jdavidrcamacho/Tests-gprn/astro"
)

var (
	_ Mean = Constant{}
	_ Mean = Linear{}
	_ Mean = Sine{}
	_ Mean = Keplerian{}
)

// Constant is a flat offset. Parameters: c.
type Constant struct{}

func (Constant) Kind() string { return "constant" }

func (Constant) Arity() int { return 1 }

func (m Constant) Eval(pars, t []float64) (*mat.VecDense, error) {
	if err := checkArity(m, pars); err != nil {
		return nil, err
	}
	if err := checkFinite(m.Kind(), "c", pars[0]); err != nil {
		return nil, err
	}
	out := mat.NewVecDense(len(t), nil)
	for i := range t {
		out.SetVec(i, pars[0])
	}
	return out, nil
}

// Linear is a straight-line trend. Parameters: slope, intercept.
type Linear struct{}

func (Linear) Kind() string { return "linear" }

func (Linear) Arity() int { return 2 }

func (m Linear) Eval(pars, t []float64) (*mat.VecDense, error) {
	if err := checkArity(m, pars); err != nil {
		return nil, err
	}
	for i, name := range []string{"slope", "intercept"} {
		if err := checkFinite(m.Kind(), name, pars[i]); err != nil {
			return nil, err
		}
	}
	out := mat.NewVecDense(len(t), nil)
	for i, x := range t {
		out.SetVec(i, pars[0]*x+pars[1])
	}
	return out, nil
}

// Sine is a sinusoidal trend. Parameters: amp, period (> 0), phase.
type Sine struct{}

func (Sine) Kind() string { return "sine" }

func (Sine) Arity() int { return 3 }

func (m Sine) Eval(pars, t []float64) (*mat.VecDense, error) {
	if err := checkArity(m, pars); err != nil {
		return nil, err
	}
	if err := checkFinite(m.Kind(), "amp", pars[0]); err != nil {
		return nil, err
	}
	if !(pars[1] > 0) || math.IsInf(pars[1], 0) {
		return nil, fmt.Errorf("%s: period = %v must be positive and finite: %w",
			m.Kind(), pars[1], ErrInvalidParameter)
	}
	if err := checkFinite(m.Kind(), "phase", pars[2]); err != nil {
		return nil, err
	}
	out := mat.NewVecDense(len(t), nil)
	for i, x := range t {
		out.SetVec(i, pars[0]*math.Sin(2*math.Pi*x/pars[1]+pars[2]))
	}
	return out, nil
}

// Keplerian is the radial-velocity curve of a planet on a keplerian orbit.
// Parameters: P (period, > 0), K (semi-amplitude), e (eccentricity in
// [0, 1)), w (longitude of periastron), T0 (zero phase).
type Keplerian struct{}

func (Keplerian) Kind() string { return "keplerian" }

func (Keplerian) Arity() int { return 5 }

func (m Keplerian) Eval(pars, t []float64) (*mat.VecDense, error) {
	if err := checkArity(m, pars); err != nil {
		return nil, err
	}
	if !(pars[0] > 0) || math.IsInf(pars[0], 0) {
		return nil, fmt.Errorf("%s: P = %v must be positive and finite: %w",
			m.Kind(), pars[0], ErrInvalidParameter)
	}
	if err := checkFinite(m.Kind(), "K", pars[1]); err != nil {
		return nil, err
	}
	if pars[2] < 0 || pars[2] >= 1 || math.IsNaN(pars[2]) {
		return nil, fmt.Errorf("%s: e = %v must be in [0, 1): %w",
			m.Kind(), pars[2], ErrInvalidParameter)
	}
	for i, name := range []string{"w", "T0"} {
		if err := checkFinite(m.Kind(), name, pars[3+i]); err != nil {
			return nil, err
		}
	}
	rv := astro.KeplerianRV(t, pars[0], pars[1], pars[2], pars[3], pars[4], 0)
	return mat.NewVecDense(len(rv), rv), nil
}
