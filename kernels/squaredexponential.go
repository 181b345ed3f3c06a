package kernels

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

var _ Kernel = SquaredExponential{}

// SquaredExponential is the classic smooth decaying covariance,
// K(r) = theta^2 exp(-r^2 / 2 ell^2).
// Parameters: theta (amplitude, > 0), ell (length scale, > 0).
type SquaredExponential struct{}

func (SquaredExponential) Kind() string { return "squaredexponential" }

func (SquaredExponential) Arity() int { return 2 }

func (k SquaredExponential) Eval(pars, ta, tb []float64) (*mat.Dense, error) {
	if err := checkArity(k, pars); err != nil {
		return nil, err
	}
	if err := checkPositive(k.Kind(), "theta", pars[0]); err != nil {
		return nil, err
	}
	if err := checkPositive(k.Kind(), "ell", pars[1]); err != nil {
		return nil, err
	}
	amp2 := pars[0] * pars[0]
	ell2 := pars[1] * pars[1]
	return evalStationary(ta, tb, func(r float64) float64 {
		return amp2 * math.Exp(-r*r/(2*ell2))
	}), nil
}
