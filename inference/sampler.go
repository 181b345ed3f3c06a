package inference

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

// EnsembleSampler is an affine-invariant ensemble sampler using the stretch
// move of Goodman & Weare (2010). Walkers are evaluated sequentially; the
// log-probability function never sees a point outside the priors.
type EnsembleSampler struct {
	logLike func([]float64) float64
	priors  Priors
	walkers int
	stretch float64
	rng     *rand.Rand
	logger  *zap.Logger
}

// SamplerOption configures an EnsembleSampler.
type SamplerOption func(*EnsembleSampler)

// WithWalkers sets the walker count (default 2x the dimension).
func WithWalkers(n int) SamplerOption {
	return func(s *EnsembleSampler) { s.walkers = n }
}

// WithStretch sets the stretch parameter a (default 2).
func WithStretch(a float64) SamplerOption {
	return func(s *EnsembleSampler) { s.stretch = a }
}

// WithSamplerLogger attaches a logger.
func WithSamplerLogger(logger *zap.Logger) SamplerOption {
	return func(s *EnsembleSampler) { s.logger = logger }
}

// NewEnsembleSampler builds a sampler over the given log likelihood and
// priors, with a deterministic seed.
func NewEnsembleSampler(logLike func([]float64) float64, priors Priors, seed uint64, opts ...SamplerOption) (*EnsembleSampler, error) {
	if len(priors) == 0 {
		return nil, fmt.Errorf("inference: no priors given")
	}
	s := &EnsembleSampler{
		logLike: logLike,
		priors:  priors,
		walkers: 2 * len(priors),
		stretch: 2,
		rng:     rand.New(rand.NewSource(seed)),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.walkers < 2 {
		s.walkers = 2
	}
	return s, nil
}

// Chain is the flattened output of a sampler run.
type Chain struct {
	Dim     int
	Samples [][]float64 // one row per kept walker step
	LogProb []float64   // aligned with Samples
}

// logProb applies the prior support before paying for a likelihood.
func (s *EnsembleSampler) logProb(theta []float64) float64 {
	if !s.priors.InBounds(theta) {
		return math.Inf(-1)
	}
	return s.logLike(theta)
}

// Run draws burn + steps ensemble sweeps from prior-sampled initial walker
// positions and returns the production part of the chain.
func (s *EnsembleSampler) Run(burn, steps int) *Chain {
	dim := len(s.priors)
	pos := make([][]float64, s.walkers)
	lp := make([]float64, s.walkers)
	for k := range pos {
		pos[k] = s.priors.Sample()
		lp[k] = s.logProb(pos[k])
	}

	chain := &Chain{
		Dim:     dim,
		Samples: make([][]float64, 0, steps*s.walkers),
		LogProb: make([]float64, 0, steps*s.walkers),
	}
	accepted := 0
	total := 0
	proposal := make([]float64, dim)
	for step := 0; step < burn+steps; step++ {
		for k := 0; k < s.walkers; k++ {
			// Complementary walker.
			j := s.rng.Intn(s.walkers - 1)
			if j >= k {
				j++
			}
			// z ~ g(z) with g(z) proportional to 1/sqrt(z) on [1/a, a].
			u := s.rng.Float64()
			z := (u*(s.stretch-1) + 1)
			z = z * z / s.stretch

			for d := 0; d < dim; d++ {
				proposal[d] = pos[j][d] + z*(pos[k][d]-pos[j][d])
			}
			lpNew := s.logProb(proposal)
			logRatio := float64(dim-1)*math.Log(z) + lpNew - lp[k]
			total++
			if math.Log(s.rng.Float64()) < logRatio {
				copy(pos[k], proposal)
				lp[k] = lpNew
				accepted++
			}
			if step >= burn {
				sample := make([]float64, dim)
				copy(sample, pos[k])
				chain.Samples = append(chain.Samples, sample)
				chain.LogProb = append(chain.LogProb, lp[k])
			}
		}
	}
	s.logger.Debug("sampler finished",
		zap.Int("walkers", s.walkers),
		zap.Int("burn", burn),
		zap.Int("steps", steps),
		zap.Float64("acceptance", float64(accepted)/float64(total)))
	return chain
}

// Quantile returns the per-parameter q-quantile of the chain, e.g. 0.5 for
// the median or 0.16/0.84 for the usual error bars.
func (c *Chain) Quantile(q float64) []float64 {
	out := make([]float64, c.Dim)
	col := make([]float64, len(c.Samples))
	for d := 0; d < c.Dim; d++ {
		for i, s := range c.Samples {
			col[i] = s[d]
		}
		sort.Float64s(col)
		out[d] = stat.Quantile(q, stat.Empirical, col, nil)
	}
	return out
}

// Best returns the sample with the highest log probability.
func (c *Chain) Best() ([]float64, float64) {
	bestIdx := 0
	for i, lp := range c.LogProb {
		if lp > c.LogProb[bestIdx] {
			bestIdx = i
		}
	}
	return c.Samples[bestIdx], c.LogProb[bestIdx]
}
