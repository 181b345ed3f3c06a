// Package means implements the deterministic mean functions a network can
// attach to each output channel. Like the kernels, means are stateless and
// take their parameters on every call.
package means

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrParameterArity is returned when a mean is evaluated with the wrong
	// number of parameters.
	ErrParameterArity = errors.New("means: wrong number of parameters")

	// ErrInvalidParameter is returned for out-of-domain parameters, e.g. a
	// non-positive period.
	ErrInvalidParameter = errors.New("means: parameter out of domain")

	// ErrUnknownMean is returned by Lookup for an unregistered kind.
	ErrUnknownMean = errors.New("means: unknown mean kind")
)

// Mean evaluates a mean function on a time grid.
type Mean interface {
	Kind() string
	Arity() int
	Eval(pars, t []float64) (*mat.VecDense, error)
}

var registry = map[string]Mean{
	Constant{}.Kind():  Constant{},
	Linear{}.Kind():    Linear{},
	Sine{}.Kind():      Sine{},
	Keplerian{}.Kind(): Keplerian{},
}

// Lookup resolves a mean kind name to its implementation.
func Lookup(kind string) (Mean, error) {
	m, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownMean)
	}
	return m, nil
}

func checkArity(m Mean, pars []float64) error {
	if len(pars) != m.Arity() {
		return fmt.Errorf("%s expects %d parameters, got %d: %w",
			m.Kind(), m.Arity(), len(pars), ErrParameterArity)
	}
	return nil
}

func checkFinite(kind, name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s: %s = %v must be finite: %w",
			kind, name, v, ErrInvalidParameter)
	}
	return nil
}
