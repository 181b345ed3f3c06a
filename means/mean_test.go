package means

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var grid = []float64{0, 1, 2, 3}

func TestLookup(t *testing.T) {
	t.Parallel()
	for _, kind := range []string{"constant", "linear", "sine", "keplerian"} {
		m, err := Lookup(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, m.Kind())
	}
	_, err := Lookup("spline")
	assert.ErrorIs(t, err, ErrUnknownMean)
}

func TestArity(t *testing.T) {
	t.Parallel()
	_, err := Constant{}.Eval([]float64{1, 2}, grid)
	assert.ErrorIs(t, err, ErrParameterArity)
	_, err = Keplerian{}.Eval([]float64{1}, grid)
	assert.ErrorIs(t, err, ErrParameterArity)
}

func TestConstant(t *testing.T) {
	t.Parallel()
	v, err := Constant{}.Eval([]float64{4.2}, grid)
	require.NoError(t, err)
	require.Equal(t, len(grid), v.Len())
	for i := 0; i < v.Len(); i++ {
		assert.Equal(t, 4.2, v.AtVec(i))
	}
	_, err = Constant{}.Eval([]float64{math.NaN()}, grid)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestLinear(t *testing.T) {
	t.Parallel()
	v, err := Linear{}.Eval([]float64{2, -1}, grid)
	require.NoError(t, err)
	for i, x := range grid {
		assert.InDelta(t, 2*x-1, v.AtVec(i), 1e-15)
	}
}

func TestSine(t *testing.T) {
	t.Parallel()
	v, err := Sine{}.Eval([]float64{3, 4, 0}, grid)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, v.AtVec(0), 1e-12)
	assert.InDelta(t, 3.0, v.AtVec(1), 1e-12) // quarter period

	_, err = Sine{}.Eval([]float64{3, 0, 0}, grid)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestKeplerianDomain(t *testing.T) {
	t.Parallel()
	_, err := Keplerian{}.Eval([]float64{-5, 1, 0, 0, 0}, grid)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = Keplerian{}.Eval([]float64{5, 1, 1.2, 0, 0}, grid)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	v, err := Keplerian{}.Eval([]float64{5, 1, 0, math.Pi / 2, 0}, grid)
	require.NoError(t, err)
	assert.InDelta(t, math.Cos(math.Pi/2), v.AtVec(0), 1e-9)
}
