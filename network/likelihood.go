package network

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const log2Pi = 1.8378770664093453

// LogLikelihood is the multivariate-Gaussian log density of the combined
// signal under the joint covariance and mean implied by p. The covariance
// is Cholesky-factorized; a factorization failure is reported as
// ErrNotPositiveDefinite so a sampler can reject the draw.
func (nw *Network) LogLikelihood(p Params) (float64, error) {
	cov, err := nw.Covariance(p)
	if err != nil {
		return 0, err
	}
	mean, err := nw.MeanVector(p)
	if err != nil {
		return 0, err
	}

	size := nw.n * len(nw.channels)
	r := mat.NewVecDense(size, nw.Signal())
	r.SubVec(r, mean)

	// The assembled matrix is symmetric by construction; hand the upper
	// triangle to the factorization.
	sym := mat.NewSymDense(size, nil)
	for i := 0; i < size; i++ {
		for j := i; j < size; j++ {
			sym.SetSym(i, j, cov.At(i, j))
		}
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return 0, ErrNotPositiveDefinite
	}

	alpha := mat.NewVecDense(size, nil)
	if err := chol.SolveVecTo(alpha, r); err != nil {
		return 0, ErrNotPositiveDefinite
	}
	quad := mat.Dot(r, alpha)
	return -0.5 * (quad + chol.LogDet() + float64(size)*log2Pi), nil
}

// GaussianLogDensity is the direct single-GP log density of residuals under
// an explicit covariance. It exists so a plain GP computation can be checked
// against the network's C=1 degenerate case.
func GaussianLogDensity(residual []float64, cov *mat.SymDense) (float64, error) {
	n := len(residual)
	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return 0, ErrNotPositiveDefinite
	}
	r := mat.NewVecDense(n, residual)
	alpha := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(alpha, r); err != nil {
		return 0, ErrNotPositiveDefinite
	}
	quad := mat.Dot(r, alpha)
	if math.IsNaN(quad) {
		return 0, ErrNotPositiveDefinite
	}
	return -0.5 * (quad + chol.LogDet() + float64(n)*log2Pi), nil
}
