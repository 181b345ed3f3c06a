package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestConcatVecs(t *testing.T) {
	t.Parallel()
	a := mat.NewVecDense(2, []float64{1, 2})
	b := mat.NewVecDense(3, []float64{3, 4, 5})
	out := ConcatVecs(5, a, b)
	require.Equal(t, 5, out.Len())
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, out.RawVector().Data)
}

func TestBlockDiag(t *testing.T) {
	t.Parallel()
	a := mat.NewDense(1, 1, []float64{2})
	b := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	out := BlockDiag(3, a, b)
	want := mat.NewDense(3, 3, []float64{
		2, 0, 0,
		0, 1, 2,
		0, 3, 4,
	})
	assert.True(t, mat.Equal(want, out))
}

func TestEye(t *testing.T) {
	t.Parallel()
	out := Eye(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				assert.Equal(t, 1.0, out.At(i, j))
			} else {
				assert.Equal(t, 0.0, out.At(i, j))
			}
		}
	}
}

func TestTile(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []float64{1, 2, 1, 2, 1, 2}, Tile([]float64{1, 2}, 3))
	assert.Empty(t, Tile([]float64{1, 2}, 0))
}
