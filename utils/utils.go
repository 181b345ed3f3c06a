// Package utils holds small dense-matrix helpers shared by the network
// assembler and the inference code.
package utils

import (
	"gonum.org/v1/gonum/mat"
)

// Concatenate multiple vectors into one of length size.
func ConcatVecs(size int, vecs ...*mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(size, nil)
	offset := 0
	var slice *mat.VecDense
	for _, vec := range vecs {
		slice = out.SliceVec(offset, offset+vec.Len()).(*mat.VecDense)
		slice.CopyVec(vec)
		offset += vec.Len()
	}
	return out
}

// Make a block diagonal matrix.
func BlockDiag(size int, mats ...mat.Matrix) *mat.Dense {
	out := mat.NewDense(size, size, nil)
	offset := 0
	var r int
	var slice mat.Matrix
	for _, matrix := range mats {
		r, _ = matrix.Dims()
		slice = out.Slice(offset, offset+r, offset, offset+r)
		slice.(*mat.Dense).Copy(matrix)
		offset += r
	}
	return out
}

// Identity matrix.
func Eye(n int) *mat.Dense {
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		out.Set(i, i, 1)
	}
	return out
}

// Tile repeats x k times, the way the extended time axis of a joint
// multi-channel model is built.
func Tile(x []float64, k int) []float64 {
	out := make([]float64, 0, len(x)*k)
	for i := 0; i < k; i++ {
		out = append(out, x...)
	}
	return out
}
