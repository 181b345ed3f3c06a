package network

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/jdavidrcamacho/Tests-gprn/data"
	"github.com/jdavidrcamacho/Tests-gprn/kernels"
	"github.com/jdavidrcamacho/Tests-gprn/means"
)

func testDataset(t *testing.T) *data.Dataset {
	t.Helper()
	ds, err := data.FromArrays(
		[]float64{0, 1, 2},
		map[data.Channel][]float64{
			data.RV:   {1.0, 2.0, 3.0},
			data.FWHM: {7.0, 7.5, 8.0},
			data.BIS:  {-3.0, -3.5, -4.0},
			data.Rhk:  {-4.9, -5.0, -5.1},
		},
		map[data.Channel][]float64{
			data.RV:   {0.1, 0.1, 0.1},
			data.FWHM: {0.2, 0.2, 0.2},
			data.BIS:  {0.3, 0.3, 0.3},
			data.Rhk:  {0.4, 0.4, 0.4},
		},
	)
	require.NoError(t, err)
	return ds
}

// wrongShape is a broken evaluator used to exercise the dimension checks.
type wrongShape struct{}

func (wrongShape) Kind() string { return "wrongshape" }
func (wrongShape) Arity() int   { return 0 }
func (wrongShape) Eval(pars, ta, tb []float64) (*mat.Dense, error) {
	return mat.NewDense(len(ta)+1, len(tb), nil), nil
}

func TestBranchDimensions(t *testing.T) {
	t.Parallel()
	grid := []float64{0, 1, 2, 3}
	b, err := Branch(kernels.Constant{}, []float64{2}, kernels.SquaredExponential{}, []float64{1, 1}, grid, grid)
	require.NoError(t, err)
	r, c := b.Dims()
	assert.Equal(t, len(grid), r)
	assert.Equal(t, len(grid), c)
}

func TestBranchHadamardCommutes(t *testing.T) {
	t.Parallel()
	grid := []float64{0, 0.5, 1.7, 4}
	w := kernels.SquaredExponential{}
	n := kernels.QuasiPeriodic{}
	wpars := []float64{1.3, 2.2}
	npars := []float64{10, 25, 0.5, 0.1}

	b, err := Branch(w, wpars, n, npars, grid, grid)
	require.NoError(t, err)
	alt, err := Branch(n, npars, w, wpars, grid, grid)
	require.NoError(t, err)
	assert.True(t, mat.Equal(b, alt), "hadamard product must commute bit-identically")
}

func TestBranchDimensionMismatch(t *testing.T) {
	t.Parallel()
	grid := []float64{0, 1, 2}
	_, err := Branch(wrongShape{}, nil, kernels.Constant{}, []float64{1}, grid, grid)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestBranchPropagatesKernelErrors(t *testing.T) {
	t.Parallel()
	grid := []float64{0, 1, 2}
	_, err := Branch(kernels.Constant{}, []float64{1}, kernels.SquaredExponential{}, []float64{1, -1}, grid, grid)
	assert.ErrorIs(t, err, kernels.ErrInvalidHyperparameter)
	_, err = Branch(kernels.Constant{}, []float64{1, 2}, kernels.Constant{}, []float64{1}, grid, grid)
	assert.ErrorIs(t, err, kernels.ErrParameterArity)
}

func singleChannelNetwork(t *testing.T) *Network {
	t.Helper()
	nw, err := New(Config{
		Dataset:  testDataset(t),
		Channels: []data.Channel{data.RV},
		Nodes:    []kernels.Kernel{kernels.Constant{}},
		Weights:  [][]kernels.Kernel{{kernels.Constant{}}},
	})
	require.NoError(t, err)
	return nw
}

// The 3x3 reference case: t = [0,1,2], constant weight 2.0, constant node
// 3.0, jitter 0.1, uncertainties 0.1 everywhere. Diagonal entries must be
// 2*3 + 0.01 + 0.01 = 6.02, off-diagonal exactly 6.
func TestSingleChannelSingleNodeReference(t *testing.T) {
	t.Parallel()
	nw := singleChannelNetwork(t)
	cov, err := nw.Covariance(Params{
		Nodes:   [][]float64{{3.0}},
		Weights: [][][]float64{{{2.0}}},
		Jitters: []float64{0.1},
	})
	require.NoError(t, err)

	r, c := cov.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 3, c)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				assert.InDelta(t, 6.02, cov.At(i, j), 1e-12)
			} else {
				assert.InDelta(t, 6.0, cov.At(i, j), 1e-12)
			}
		}
	}
}

func TestZeroNodesIsNoiseOnly(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)
	nw, err := New(Config{
		Dataset:  ds,
		Channels: []data.Channel{data.RV, data.FWHM},
		Nodes:    nil,
		Weights:  [][]kernels.Kernel{{}, {}},
	})
	require.NoError(t, err)

	cov, err := nw.Covariance(Params{
		Nodes:   nil,
		Weights: [][][]float64{{}, {}},
		Jitters: []float64{0.5, 0.0},
	})
	require.NoError(t, err)

	n := ds.N()
	size := 2 * n
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if i != j {
				assert.Equal(t, 0.0, cov.At(i, j), "off-diagonal must be zero")
			}
		}
	}
	// rv block: jitter^2 + 0.1^2; fwhm block: 0.2^2 only.
	for i := 0; i < n; i++ {
		assert.InDelta(t, 0.25+0.01, cov.At(i, i), 1e-12)
		assert.InDelta(t, 0.04, cov.At(n+i, n+i), 1e-12)
	}
}

func TestJointCovarianceStructure(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)
	node := kernels.QuasiPeriodic{}
	nw, err := New(Config{
		Dataset: ds,
		Nodes:   []kernels.Kernel{node},
		Weights: [][]kernels.Kernel{
			{kernels.Constant{}},
			{kernels.Constant{}},
			{kernels.Constant{}},
			{kernels.Constant{}},
		},
	})
	require.NoError(t, err)

	npars := []float64{10, 25, 0.5, 0}
	wvals := []float64{9.31, 2, 1, 1}
	p := Params{
		Nodes: [][]float64{npars},
		Weights: [][][]float64{
			{{wvals[0]}}, {{wvals[1]}}, {{wvals[2]}}, {{wvals[3]}},
		},
		Jitters: []float64{0, 0, 0, 0},
	}
	cov, err := nw.Covariance(p)
	require.NoError(t, err)

	n := ds.N()
	size := n * 4
	r, c := cov.Dims()
	require.Equal(t, size, r)
	require.Equal(t, size, c)

	// Symmetric.
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			assert.InDelta(t, cov.At(j, i), cov.At(i, j), 1e-14)
		}
	}

	// Cross blocks of constant weights reduce to sqrt(wc*wc') * node.
	nodeMat, err := node.Eval(npars, ds.T(), ds.T())
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := math.Sqrt(wvals[0]*wvals[1]) * nodeMat.At(i, j)
			assert.InDelta(t, want, cov.At(i, n+j), 1e-12)
		}
	}

	// Positive definite with the measurement variances on the diagonal.
	sym := mat.NewSymDense(size, nil)
	for i := 0; i < size; i++ {
		for j := i; j < size; j++ {
			sym.SetSym(i, j, cov.At(i, j))
		}
	}
	var chol mat.Cholesky
	assert.True(t, chol.Factorize(sym), "joint covariance must be positive definite")
}

func TestCovarianceParamErrors(t *testing.T) {
	t.Parallel()
	nw := singleChannelNetwork(t)

	_, err := nw.Covariance(Params{
		Nodes:   [][]float64{{3.0}, {1.0}},
		Weights: [][][]float64{{{2.0}}},
		Jitters: []float64{0.1},
	})
	assert.ErrorIs(t, err, ErrBadConfig)

	_, err = nw.Covariance(Params{
		Nodes:   [][]float64{{3.0}},
		Weights: [][][]float64{{{2.0}}},
		Jitters: []float64{math.NaN()},
	})
	assert.ErrorIs(t, err, kernels.ErrInvalidHyperparameter)

	_, err = nw.Covariance(Params{
		Nodes:   [][]float64{{3.0, 4.0}},
		Weights: [][][]float64{{{2.0}}},
		Jitters: []float64{0.1},
	})
	assert.ErrorIs(t, err, kernels.ErrParameterArity)
}

func TestNewConfigValidation(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)

	_, err := New(Config{Dataset: nil})
	assert.ErrorIs(t, err, ErrBadConfig)

	_, err = New(Config{
		Dataset: ds,
		Nodes:   []kernels.Kernel{kernels.Constant{}},
		Weights: [][]kernels.Kernel{{kernels.Constant{}}}, // 1 row, 4 channels
	})
	assert.ErrorIs(t, err, ErrBadConfig)

	_, err = New(Config{
		Dataset:  ds,
		Channels: []data.Channel{data.Channel("halpha")},
		Weights:  [][]kernels.Kernel{{}},
	})
	assert.ErrorIs(t, err, ErrBadConfig)

	_, err = New(Config{
		Dataset:  ds,
		Channels: []data.Channel{data.RV},
		Nodes:    []kernels.Kernel{kernels.Constant{}},
		Weights:  [][]kernels.Kernel{{kernels.Constant{}}},
		Means:    []means.Mean{means.Constant{}, means.Constant{}},
	})
	assert.ErrorIs(t, err, ErrBadConfig)
}

func TestMeanVector(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)
	nw, err := New(Config{
		Dataset:  ds,
		Channels: []data.Channel{data.RV, data.FWHM},
		Nodes:    []kernels.Kernel{kernels.Constant{}},
		Weights:  [][]kernels.Kernel{{kernels.Constant{}}, {kernels.Constant{}}},
		Means:    []means.Mean{means.Constant{}, nil},
	})
	require.NoError(t, err)

	v, err := nw.MeanVector(Params{
		Means: [][]float64{{4.5}, nil},
	})
	require.NoError(t, err)
	require.Equal(t, 2*ds.N(), v.Len())
	for i := 0; i < ds.N(); i++ {
		assert.Equal(t, 4.5, v.AtVec(i))
		assert.Equal(t, 0.0, v.AtVec(ds.N()+i))
	}
}

func TestSignalMatchesCombinedOrder(t *testing.T) {
	t.Parallel()
	ds := testDataset(t)
	nw, err := New(Config{
		Dataset: ds,
		Nodes:   nil,
		Weights: [][]kernels.Kernel{{}, {}, {}, {}},
	})
	require.NoError(t, err)
	assert.Equal(t, ds.CombinedSignal(), nw.Signal())
	assert.Len(t, nw.Signal(), ds.N()*len(data.Channels()))
	assert.Len(t, nw.ExtendedTime(), ds.N()*len(data.Channels()))
	assert.Equal(t, ds.T(), nw.ExtendedTime()[:ds.N()])
}
