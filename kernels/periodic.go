package kernels

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	_ Kernel = Periodic{}
	_ Kernel = QuasiPeriodic{}
)

// Periodic is the exp-sine-squared covariance,
// K(r) = theta^2 exp(-2 sin^2(pi r / P) / ell^2).
// Parameters: theta (amplitude, > 0), P (period, > 0), ell (> 0).
type Periodic struct{}

func (Periodic) Kind() string { return "periodic" }

func (Periodic) Arity() int { return 3 }

func (k Periodic) Eval(pars, ta, tb []float64) (*mat.Dense, error) {
	if err := checkArity(k, pars); err != nil {
		return nil, err
	}
	if err := checkPositive(k.Kind(), "theta", pars[0]); err != nil {
		return nil, err
	}
	if err := checkPositive(k.Kind(), "P", pars[1]); err != nil {
		return nil, err
	}
	if err := checkPositive(k.Kind(), "ell", pars[2]); err != nil {
		return nil, err
	}
	amp2 := pars[0] * pars[0]
	period := pars[1]
	ell2 := pars[2] * pars[2]
	return evalStationary(ta, tb, func(r float64) float64 {
		s := math.Sin(math.Pi * r / period)
		return amp2 * math.Exp(-2*s*s/ell2)
	}), nil
}

// QuasiPeriodic is the activity kernel of choice for rotating stars: a
// periodic term damped by a squared-exponential decay, plus a white-noise
// term on shared grid points,
//
//	K(r) = exp(-r^2 / 2 elle^2 - 2 sin^2(pi r / P) / ellp^2) + wn^2 delta.
//
// It carries no amplitude of its own; in a network the amplitude lives in
// the weights. Parameters: elle (decay time, > 0), P (period, > 0),
// ellp (periodic scale, > 0), wn (finite, zero allowed).
type QuasiPeriodic struct{}

func (QuasiPeriodic) Kind() string { return "quasiperiodic" }

func (QuasiPeriodic) Arity() int { return 4 }

func (k QuasiPeriodic) Eval(pars, ta, tb []float64) (*mat.Dense, error) {
	if err := checkArity(k, pars); err != nil {
		return nil, err
	}
	if err := checkPositive(k.Kind(), "elle", pars[0]); err != nil {
		return nil, err
	}
	if err := checkPositive(k.Kind(), "P", pars[1]); err != nil {
		return nil, err
	}
	if err := checkPositive(k.Kind(), "ellp", pars[2]); err != nil {
		return nil, err
	}
	if err := checkFinite(k.Kind(), "wn", pars[3]); err != nil {
		return nil, err
	}
	elle2 := pars[0] * pars[0]
	period := pars[1]
	ellp2 := pars[2] * pars[2]
	out := evalStationary(ta, tb, func(r float64) float64 {
		s := math.Sin(math.Pi * r / period)
		return math.Exp(-r*r/(2*elle2) - 2*s*s/ellp2)
	})
	if wn := pars[3]; wn != 0 && len(ta) == len(tb) {
		for i := range ta {
			if ta[i] == tb[i] {
				out.Set(i, i, out.At(i, i)+wn*wn)
			}
		}
	}
	return out, nil
}
