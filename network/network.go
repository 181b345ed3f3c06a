// Package network assembles Gaussian process regression networks: Q latent
// node kernels shared across channels, modulated per channel by weight
// kernels, combined into one joint covariance over every observed series.
package network

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/jdavidrcamacho/Tests-gprn/data"
	"github.com/jdavidrcamacho/Tests-gprn/kernels"
	"github.com/jdavidrcamacho/Tests-gprn/means"
	"github.com/jdavidrcamacho/Tests-gprn/utils"
)

var (
	// ErrDimensionMismatch is returned when a weight and node evaluation
	// disagree on their matrix shape.
	ErrDimensionMismatch = errors.New("network: dimension mismatch")

	// ErrBadConfig is returned for structural problems: wrong number of
	// weight rows, parameter sets that do not match the configured kernels,
	// an empty dataset. These are fatal at construction/configuration time.
	ErrBadConfig = errors.New("network: bad configuration")

	// ErrNotPositiveDefinite is returned when the joint covariance cannot
	// be factorized. Samplers treat it as a rejected proposal.
	ErrNotPositiveDefinite = errors.New("network: covariance not positive definite")
)

// Config describes a network before any parameters are drawn.
type Config struct {
	// Dataset supplies the shared time axis, signals and uncertainties.
	Dataset *data.Dataset

	// Channels to model, in joint-covariance block order. Empty means all
	// dataset channels in their canonical order.
	Channels []data.Channel

	// Nodes are the Q latent kernels shared across channels.
	Nodes []kernels.Kernel

	// Weights holds one kernel per (channel, node) pair, indexed
	// [channel][node]. Row count must equal len(Channels).
	Weights [][]kernels.Kernel

	// Means holds one mean function per channel; a nil entry is a
	// zero-mean channel. Empty means all channels are zero-mean.
	Means []means.Mean

	Logger *zap.Logger
}

// Params carries one concrete hyperparameter draw for every configured
// kernel and mean, in the same indexing as the Config.
type Params struct {
	Nodes   [][]float64   // [node]
	Weights [][][]float64 // [channel][node]
	Means   [][]float64   // [channel], ignored entries for nil means
	Jitters []float64     // [channel], extra white noise per channel
}

// Network is the assembler. It is safe for concurrent read-only use: every
// evaluation allocates its own matrices and no scratch state is shared.
type Network struct {
	ds       *data.Dataset
	t        []float64
	n        int
	channels []data.Channel
	nodes    []kernels.Kernel
	weights  [][]kernels.Kernel
	means    []means.Mean
	logger   *zap.Logger
}

// New validates the configuration and builds a Network. Structural problems
// are returned as ErrBadConfig and abort setup rather than being deferred to
// likelihood evaluations.
func New(cfg Config) (*Network, error) {
	if cfg.Dataset == nil || cfg.Dataset.N() == 0 {
		return nil, fmt.Errorf("empty dataset: %w", ErrBadConfig)
	}
	channels := cfg.Channels
	if len(channels) == 0 {
		channels = data.Channels()
	}
	for _, ch := range channels {
		if _, err := cfg.Dataset.Values(ch); err != nil {
			return nil, fmt.Errorf("channel %q not in dataset: %w", ch, ErrBadConfig)
		}
	}
	if len(cfg.Weights) != len(channels) {
		return nil, fmt.Errorf("%d weight rows for %d channels: %w",
			len(cfg.Weights), len(channels), ErrBadConfig)
	}
	for c, row := range cfg.Weights {
		if len(row) != len(cfg.Nodes) {
			return nil, fmt.Errorf("channel %d has %d weights for %d nodes: %w",
				c, len(row), len(cfg.Nodes), ErrBadConfig)
		}
		for q, w := range row {
			if w == nil {
				return nil, fmt.Errorf("nil weight kernel at [%d][%d]: %w", c, q, ErrBadConfig)
			}
		}
	}
	for q, n := range cfg.Nodes {
		if n == nil {
			return nil, fmt.Errorf("nil node kernel at %d: %w", q, ErrBadConfig)
		}
	}
	if len(cfg.Means) != 0 && len(cfg.Means) != len(channels) {
		return nil, fmt.Errorf("%d means for %d channels: %w",
			len(cfg.Means), len(channels), ErrBadConfig)
	}
	meansList := cfg.Means
	if len(meansList) == 0 {
		meansList = make([]means.Mean, len(channels))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Network{
		ds:       cfg.Dataset,
		t:        cfg.Dataset.T(),
		n:        cfg.Dataset.N(),
		channels: channels,
		nodes:    cfg.Nodes,
		weights:  cfg.Weights,
		means:    meansList,
		logger:   logger,
	}, nil
}

// N is the number of points on the shared time axis.
func (nw *Network) N() int { return nw.n }

// ChannelCount is the number of modeled output channels.
func (nw *Network) ChannelCount() int { return len(nw.channels) }

// NodeCount is the number of latent nodes Q.
func (nw *Network) NodeCount() int { return len(nw.nodes) }

// Channels returns the modeled channels in block order.
func (nw *Network) Channels() []data.Channel { return nw.channels }

// NodeKernels returns the configured node kernels.
func (nw *Network) NodeKernels() []kernels.Kernel { return nw.nodes }

// WeightKernels returns the configured weight kernels, indexed
// [channel][node].
func (nw *Network) WeightKernels() [][]kernels.Kernel { return nw.weights }

// Means returns the per-channel mean functions; nil entries are zero-mean
// channels.
func (nw *Network) Means() []means.Mean { return nw.means }

// Signal concatenates the modeled channels' observed values in block order.
func (nw *Network) Signal() []float64 {
	out := make([]float64, 0, nw.n*len(nw.channels))
	for _, ch := range nw.channels {
		v, _ := nw.ds.Values(ch)
		out = append(out, v...)
	}
	return out
}

// Branch is the elementary network combination: the Hadamard product of one
// weight evaluation and one node evaluation on shared grids. The two
// matrices must agree on their dimensions.
func Branch(w kernels.Kernel, wpars []float64, n kernels.Kernel, npars []float64, ta, tb []float64) (*mat.Dense, error) {
	weight, err := w.Eval(wpars, ta, tb)
	if err != nil {
		return nil, err
	}
	node, err := n.Eval(npars, ta, tb)
	if err != nil {
		return nil, err
	}
	wr, wc := weight.Dims()
	nr, nc := node.Dims()
	if wr != nr || wc != nc {
		return nil, fmt.Errorf("weight %dx%d vs node %dx%d: %w",
			wr, wc, nr, nc, ErrDimensionMismatch)
	}
	out := mat.NewDense(wr, wc, nil)
	out.MulElem(weight, node)
	return out, nil
}

func (nw *Network) checkParams(p Params) error {
	if len(p.Nodes) != len(nw.nodes) {
		return fmt.Errorf("%d node parameter sets for %d nodes: %w",
			len(p.Nodes), len(nw.nodes), ErrBadConfig)
	}
	if len(p.Weights) != len(nw.channels) {
		return fmt.Errorf("%d weight parameter rows for %d channels: %w",
			len(p.Weights), len(nw.channels), ErrBadConfig)
	}
	for c, row := range p.Weights {
		if len(row) != len(nw.nodes) {
			return fmt.Errorf("channel %d has %d weight parameter sets for %d nodes: %w",
				c, len(row), len(nw.nodes), ErrBadConfig)
		}
	}
	if len(p.Jitters) != len(nw.channels) {
		return fmt.Errorf("%d jitters for %d channels: %w",
			len(p.Jitters), len(nw.channels), ErrBadConfig)
	}
	for c, j := range p.Jitters {
		if math.IsNaN(j) || math.IsInf(j, 0) {
			return fmt.Errorf("jitter %d = %v: %w", c, j, kernels.ErrInvalidHyperparameter)
		}
	}
	return nil
}

// Covariance assembles the joint (N*C)x(N*C) covariance matrix, blocks
// ordered like the combined signal. Same-channel blocks are the summed
// branches plus the diagonal noise term (jitter^2 and per-point measurement
// variance); cross-channel blocks combine the node with the element-wise
// geometric mean of the two channels' weights, which keeps the joint matrix
// positive semi-definite and reduces to sqrt(wc*wc')*K for constant weights.
func (nw *Network) Covariance(p Params) (*mat.Dense, error) {
	if err := nw.checkParams(p); err != nil {
		return nil, err
	}
	var (
		n   = nw.n
		nch = len(nw.channels)
	)

	nodeMats := make([]*mat.Dense, len(nw.nodes))
	for q, node := range nw.nodes {
		m, err := node.Eval(p.Nodes[q], nw.t, nw.t)
		if err != nil {
			return nil, err
		}
		nodeMats[q] = m
	}
	weightMats := make([][]*mat.Dense, nch)
	for c := range nw.channels {
		weightMats[c] = make([]*mat.Dense, len(nw.nodes))
		for q, w := range nw.weights[c] {
			m, err := w.Eval(p.Weights[c][q], nw.t, nw.t)
			if err != nil {
				return nil, err
			}
			if wr, wc := m.Dims(); wr != n || wc != n {
				return nil, fmt.Errorf("weight [%d][%d] is %dx%d, want %dx%d: %w",
					c, q, wr, wc, n, n, ErrDimensionMismatch)
			}
			weightMats[c][q] = m
		}
	}
	for q, m := range nodeMats {
		if nr, nc := m.Dims(); nr != n || nc != n {
			return nil, fmt.Errorf("node %d is %dx%d, want %dx%d: %w",
				q, nr, nc, n, n, ErrDimensionMismatch)
		}
	}

	out := mat.NewDense(n*nch, n*nch, nil)
	tmp := mat.NewDense(n, n, nil)
	for c := 0; c < nch; c++ {
		for cp := c; cp < nch; cp++ {
			block := out.Slice(c*n, (c+1)*n, cp*n, (cp+1)*n).(*mat.Dense)
			for q := range nw.nodes {
				if c == cp {
					tmp.MulElem(weightMats[c][q], nodeMats[q])
				} else {
					crossHadamard(tmp, weightMats[c][q], weightMats[cp][q], nodeMats[q])
				}
				block.Add(block, tmp)
			}
			if c == cp {
				errs, err := nw.ds.Errors(nw.channels[c])
				if err != nil {
					return nil, fmt.Errorf("%v: %w", err, ErrBadConfig)
				}
				j2 := p.Jitters[c] * p.Jitters[c]
				for i := 0; i < n; i++ {
					block.Set(i, i, block.At(i, i)+j2+errs[i]*errs[i])
				}
			} else {
				lower := out.Slice(cp*n, (cp+1)*n, c*n, (c+1)*n).(*mat.Dense)
				lower.Copy(block.T())
			}
		}
	}
	return out, nil
}

// crossHadamard sets dst to geomean(wa, wb) hadamard node, where the
// geometric mean is taken element-wise with the sign of the product.
func crossHadamard(dst, wa, wb, node *mat.Dense) {
	r, c := node.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			p := wa.At(i, j) * wb.At(i, j)
			g := math.Copysign(math.Sqrt(math.Abs(p)), p)
			dst.Set(i, j, g*node.At(i, j))
		}
	}
}

// ExtendedTime is the time axis tiled once per channel, aligned with the
// combined signal.
func (nw *Network) ExtendedTime() []float64 {
	return utils.Tile(nw.t, len(nw.channels))
}

// MeanVector concatenates the per-channel mean evaluations in block order.
// Channels without a mean function contribute zeros.
func (nw *Network) MeanVector(p Params) (*mat.VecDense, error) {
	if len(p.Means) != 0 && len(p.Means) != len(nw.channels) {
		return nil, fmt.Errorf("%d mean parameter sets for %d channels: %w",
			len(p.Means), len(nw.channels), ErrBadConfig)
	}
	parts := make([]*mat.VecDense, len(nw.channels))
	for c, m := range nw.means {
		if m == nil {
			parts[c] = mat.NewVecDense(nw.n, nil)
			continue
		}
		if len(p.Means) == 0 {
			return nil, fmt.Errorf("mean configured for channel %d but no parameters given: %w",
				c, ErrBadConfig)
		}
		v, err := m.Eval(p.Means[c], nw.t)
		if err != nil {
			return nil, err
		}
		parts[c] = v
	}
	return utils.ConcatVecs(nw.n*len(nw.channels), parts...), nil
}
