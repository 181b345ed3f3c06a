package kernels

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

var _ Kernel = RationalQuadratic{}

// RationalQuadratic is a scale mixture of squared exponentials,
// K(r) = theta^2 (1 + r^2 / 2 alpha ell^2)^(-alpha).
// Parameters: theta (> 0), alpha (> 0), ell (> 0).
type RationalQuadratic struct{}

func (RationalQuadratic) Kind() string { return "rationalquadratic" }

func (RationalQuadratic) Arity() int { return 3 }

func (k RationalQuadratic) Eval(pars, ta, tb []float64) (*mat.Dense, error) {
	if err := checkArity(k, pars); err != nil {
		return nil, err
	}
	if err := checkPositive(k.Kind(), "theta", pars[0]); err != nil {
		return nil, err
	}
	if err := checkPositive(k.Kind(), "alpha", pars[1]); err != nil {
		return nil, err
	}
	if err := checkPositive(k.Kind(), "ell", pars[2]); err != nil {
		return nil, err
	}
	amp2 := pars[0] * pars[0]
	alpha := pars[1]
	ell2 := pars[2] * pars[2]
	return evalStationary(ta, tb, func(r float64) float64 {
		return amp2 * math.Pow(1+r*r/(2*alpha*ell2), -alpha)
	}), nil
}
