// Package inference exposes a network to a sampler: a flat parameter vector
// in, a scalar log likelihood out, plus priors and a small ensemble sampler
// for models that do not bring their own.
package inference

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/jdavidrcamacho/Tests-gprn/kernels"
	"github.com/jdavidrcamacho/Tests-gprn/means"
	"github.com/jdavidrcamacho/Tests-gprn/network"
)

// ErrBadVector is returned when a parameter vector does not match the
// adapter's fixed layout.
var ErrBadVector = errors.New("inference: parameter vector has wrong length")

// Adapter owns the parameter vector layout of one network. The layout is
// fixed at construction: node parameters in node order, then weight
// parameters channel-major ([channel][node]), then mean parameters in
// channel order, then one jitter per channel.
type Adapter struct {
	nw     *network.Network
	dim    int
	logger *zap.Logger
}

// NewAdapter derives the parameter layout from the network's kernels.
func NewAdapter(nw *network.Network, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	dim := 0
	for _, k := range nw.NodeKernels() {
		dim += k.Arity()
	}
	for _, row := range nw.WeightKernels() {
		for _, w := range row {
			dim += w.Arity()
		}
	}
	for _, m := range nw.Means() {
		if m != nil {
			dim += m.Arity()
		}
	}
	dim += nw.ChannelCount() // jitters
	return &Adapter{nw: nw, dim: dim, logger: logger}
}

// Dim is the fixed length of the parameter vector.
func (a *Adapter) Dim() int { return a.dim }

// Split scatters a flat vector into the network's parameter groups.
func (a *Adapter) Split(theta []float64) (network.Params, error) {
	if len(theta) != a.dim {
		return network.Params{}, fmt.Errorf("got %d parameters, want %d: %w",
			len(theta), a.dim, ErrBadVector)
	}
	var p network.Params
	pos := 0
	take := func(n int) []float64 {
		out := theta[pos : pos+n]
		pos += n
		return out
	}

	nodes := a.nw.NodeKernels()
	p.Nodes = make([][]float64, len(nodes))
	for q, k := range nodes {
		p.Nodes[q] = take(k.Arity())
	}
	weights := a.nw.WeightKernels()
	p.Weights = make([][][]float64, len(weights))
	for c, row := range weights {
		p.Weights[c] = make([][]float64, len(row))
		for q, w := range row {
			p.Weights[c][q] = take(w.Arity())
		}
	}
	meansList := a.nw.Means()
	p.Means = make([][]float64, len(meansList))
	for c, m := range meansList {
		if m != nil {
			p.Means[c] = take(m.Arity())
		}
	}
	p.Jitters = take(a.nw.ChannelCount())
	return p, nil
}

// LogLike evaluates the network log likelihood at theta. Out-of-domain
// hyperparameters and non-positive-definite covariances come back as -Inf,
// so an exploring sampler simply rejects the draw; anything structural is
// logged, since it means the model was misconfigured.
func (a *Adapter) LogLike(theta []float64) float64 {
	p, err := a.Split(theta)
	if err != nil {
		a.logger.Error("parameter vector does not fit model", zap.Error(err))
		return math.Inf(-1)
	}
	ll, err := a.nw.LogLikelihood(p)
	switch {
	case err == nil:
		return ll
	case errors.Is(err, kernels.ErrInvalidHyperparameter),
		errors.Is(err, kernels.ErrParameterArity),
		errors.Is(err, means.ErrInvalidParameter),
		errors.Is(err, means.ErrParameterArity),
		errors.Is(err, network.ErrNotPositiveDefinite):
		return math.Inf(-1)
	default:
		a.logger.Error("structural failure during likelihood evaluation", zap.Error(err))
		return math.Inf(-1)
	}
}
