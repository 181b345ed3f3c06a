// Package kernels implements the covariance functions used as nodes and
// weights of a Gaussian process regression network. Every kernel is a
// stateless value: parameters are passed on each call and nothing is cached
// between evaluations, so two kernels of the same kind given the same
// parameters and grids return identical matrices.
package kernels

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrParameterArity is returned when a kernel is evaluated with the
	// wrong number of hyperparameters.
	ErrParameterArity = errors.New("kernels: wrong number of parameters")

	// ErrInvalidHyperparameter is returned when a hyperparameter is outside
	// the kernel's domain, e.g. a non-positive length scale. Out-of-domain
	// values are always rejected, never turned into NaN entries.
	ErrInvalidHyperparameter = errors.New("kernels: hyperparameter out of domain")

	// ErrUnknownKernel is returned by Lookup for an unregistered kind.
	ErrUnknownKernel = errors.New("kernels: unknown kernel kind")
)

// Kernel evaluates a covariance function on one or two time grids.
type Kernel interface {
	// Kind is the registry name of the functional form.
	Kind() string

	// Arity is the number of hyperparameters Eval expects.
	Arity() int

	// Eval returns the len(ta) x len(tb) covariance matrix. The result is
	// freshly allocated on every call.
	Eval(pars, ta, tb []float64) (*mat.Dense, error)
}

var registry = map[string]Kernel{
	Constant{}.Kind():           Constant{},
	WhiteNoise{}.Kind():         WhiteNoise{},
	SquaredExponential{}.Kind(): SquaredExponential{},
	Periodic{}.Kind():           Periodic{},
	QuasiPeriodic{}.Kind():      QuasiPeriodic{},
	Matern32{}.Kind():           Matern32{},
	Matern52{}.Kind():           Matern52{},
	RationalQuadratic{}.Kind():  RationalQuadratic{},
}

// Lookup resolves a kernel kind name to its implementation.
func Lookup(kind string) (Kernel, error) {
	k, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKernel)
	}
	return k, nil
}

// Kinds lists the registered kernel kinds.
func Kinds() []string {
	out := make([]string, 0, len(registry))
	for kind := range registry {
		out = append(out, kind)
	}
	return out
}

func checkArity(k Kernel, pars []float64) error {
	if len(pars) != k.Arity() {
		return fmt.Errorf("%s expects %d parameters, got %d: %w",
			k.Kind(), k.Arity(), len(pars), ErrParameterArity)
	}
	return nil
}

func checkPositive(kind, name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%s: %s = %v must be positive and finite: %w",
			kind, name, v, ErrInvalidHyperparameter)
	}
	return nil
}

func checkFinite(kind, name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s: %s = %v must be finite: %w",
			kind, name, v, ErrInvalidHyperparameter)
	}
	return nil
}

// evalStationary fills a dense matrix from a function of the lag
// r = ta[i] - tb[j].
func evalStationary(ta, tb []float64, f func(r float64) float64) *mat.Dense {
	out := mat.NewDense(len(ta), len(tb), nil)
	for i, a := range ta {
		for j, b := range tb {
			out.Set(i, j, f(a-b))
		}
	}
	return out
}
