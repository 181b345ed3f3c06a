package kernels

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	_ Kernel = Matern32{}
	_ Kernel = Matern52{}
)

// Matern32 is the Matern covariance with nu = 3/2,
// K(r) = theta^2 (1 + sqrt(3)|r|/ell) exp(-sqrt(3)|r|/ell).
// Parameters: theta (> 0), ell (> 0).
type Matern32 struct{}

func (Matern32) Kind() string { return "matern32" }

func (Matern32) Arity() int { return 2 }

func (k Matern32) Eval(pars, ta, tb []float64) (*mat.Dense, error) {
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
	a := math.Sqrt(3) / pars[1]
	return evalStationary(ta, tb, func(r float64) float64 {
		d := a * math.Abs(r)
		return amp2 * (1 + d) * math.Exp(-d)
	}), nil
}

// Matern52 is the Matern covariance with nu = 5/2,
// K(r) = theta^2 (1 + sqrt(5)|r|/ell + 5 r^2 / 3 ell^2) exp(-sqrt(5)|r|/ell).
// Parameters: theta (> 0), ell (> 0).
type Matern52 struct{}

func (Matern52) Kind() string { return "matern52" }

func (Matern52) Arity() int { return 2 }

func (k Matern52) Eval(pars, ta, tb []float64) (*mat.Dense, error) {
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
	a := math.Sqrt(5) / pars[1]
	ell2 := pars[1] * pars[1]
	return evalStationary(ta, tb, func(r float64) float64 {
		d := a * math.Abs(r)
		return amp2 * (1 + d + 5*r*r/(3*ell2)) * math.Exp(-d)
	}), nil
}
