package kernels

import (
	"gonum.org/v1/gonum/mat"
)

var (
	_ Kernel = Constant{}
	_ Kernel = WhiteNoise{}
)

// Constant is a flat covariance, K(t, t') = c. It doubles as the usual
// weight function of a network with scalar per-channel amplitudes.
// Parameters: c (any finite value).
type Constant struct{}

func (Constant) Kind() string { return "constant" }

func (Constant) Arity() int { return 1 }

func (k Constant) Eval(pars, ta, tb []float64) (*mat.Dense, error) {
	if err := checkArity(k, pars); err != nil {
		return nil, err
	}
	if err := checkFinite(k.Kind(), "c", pars[0]); err != nil {
		return nil, err
	}
	c := pars[0]
	return evalStationary(ta, tb, func(float64) float64 { return c }), nil
}

// WhiteNoise is an uncorrelated jitter term, K(t, t') = wn^2 when t and t'
// are the same grid point and zero otherwise. Across two different grids it
// evaluates to the zero matrix. Parameters: wn (finite).
type WhiteNoise struct{}

func (WhiteNoise) Kind() string { return "whitenoise" }

func (WhiteNoise) Arity() int { return 1 }

func (k WhiteNoise) Eval(pars, ta, tb []float64) (*mat.Dense, error) {
	if err := checkArity(k, pars); err != nil {
		return nil, err
	}
	if err := checkFinite(k.Kind(), "wn", pars[0]); err != nil {
		return nil, err
	}
	out := mat.NewDense(len(ta), len(tb), nil)
	if len(ta) != len(tb) {
		return out, nil
	}
	v := pars[0] * pars[0]
	for i := range ta {
		if ta[i] == tb[i] {
			out.Set(i, i, v)
		}
	}
	return out, nil
}
