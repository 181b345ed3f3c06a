// Package config reads a network description from YAML and builds the
// corresponding dataset, network, adapter and priors. Configuration
// problems are fatal here, before any sampling starts.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"

	"github.com/jdavidrcamacho/Tests-gprn/data"
	"github.com/jdavidrcamacho/Tests-gprn/inference"
	"github.com/jdavidrcamacho/Tests-gprn/kernels"
	"github.com/jdavidrcamacho/Tests-gprn/means"
	"github.com/jdavidrcamacho/Tests-gprn/network"
)

// ErrBadSpec is returned for any structural problem in the model file.
var ErrBadSpec = errors.New("config: bad model specification")

// DataSpec points at the tabular source.
type DataSpec struct {
	File  string `yaml:"file"`
	Units string `yaml:"units"`
	Skip  *int   `yaml:"skip"`
}

// KernelSpec names a kernel kind with its starting parameters.
type KernelSpec struct {
	Kind   string    `yaml:"kind"`
	Params []float64 `yaml:"params"`
}

// MeanSpec names a mean kind with its starting parameters.
type MeanSpec struct {
	Kind   string    `yaml:"kind"`
	Params []float64 `yaml:"params"`
}

// PriorSpec bounds one parameter; Log selects a log-uniform prior.
type PriorSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
	Log bool    `yaml:"log"`
}

// Spec is the full model file.
type Spec struct {
	Data     DataSpec       `yaml:"data"`
	Channels []string       `yaml:"channels"`
	Nodes    []KernelSpec   `yaml:"nodes"`
	Weights  [][]KernelSpec `yaml:"weights"`
	Means    []*MeanSpec    `yaml:"means"`
	Jitters  []float64      `yaml:"jitters"`
	Priors   []PriorSpec    `yaml:"priors"`
}

// Parse decodes a model file, rejecting unknown fields.
func Parse(b []byte) (*Spec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	var s Spec
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%v: %w", err, ErrBadSpec)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Spec) validate() error {
	if s.Data.File == "" {
		return fmt.Errorf("data.file is required: %w", ErrBadSpec)
	}
	if len(s.Weights) != len(s.channelList()) {
		return fmt.Errorf("%d weight rows for %d channels: %w",
			len(s.Weights), len(s.channelList()), ErrBadSpec)
	}
	for q, n := range s.Nodes {
		if err := checkKernelSpec(n, fmt.Sprintf("nodes[%d]", q)); err != nil {
			return err
		}
	}
	for c, row := range s.Weights {
		if len(row) != len(s.Nodes) {
			return fmt.Errorf("weights[%d] has %d entries for %d nodes: %w",
				c, len(row), len(s.Nodes), ErrBadSpec)
		}
		for q, w := range row {
			if err := checkKernelSpec(w, fmt.Sprintf("weights[%d][%d]", c, q)); err != nil {
				return err
			}
		}
	}
	if len(s.Means) != 0 && len(s.Means) != len(s.channelList()) {
		return fmt.Errorf("%d means for %d channels: %w",
			len(s.Means), len(s.channelList()), ErrBadSpec)
	}
	for c, m := range s.Means {
		if m == nil {
			continue
		}
		mean, err := means.Lookup(m.Kind)
		if err != nil {
			return fmt.Errorf("means[%d]: %v: %w", c, err, ErrBadSpec)
		}
		if len(m.Params) != mean.Arity() {
			return fmt.Errorf("means[%d] (%s) has %d params, want %d: %w",
				c, m.Kind, len(m.Params), mean.Arity(), ErrBadSpec)
		}
	}
	if len(s.Jitters) != 0 && len(s.Jitters) != len(s.channelList()) {
		return fmt.Errorf("%d jitters for %d channels: %w",
			len(s.Jitters), len(s.channelList()), ErrBadSpec)
	}
	return nil
}

func checkKernelSpec(ks KernelSpec, where string) error {
	k, err := kernels.Lookup(ks.Kind)
	if err != nil {
		return fmt.Errorf("%s: %v: %w", where, err, ErrBadSpec)
	}
	if len(ks.Params) != k.Arity() {
		return fmt.Errorf("%s (%s) has %d params, want %d: %w",
			where, ks.Kind, len(ks.Params), k.Arity(), ErrBadSpec)
	}
	return nil
}

func (s *Spec) channelList() []data.Channel {
	if len(s.Channels) == 0 {
		return data.Channels()
	}
	out := make([]data.Channel, len(s.Channels))
	for i, ch := range s.Channels {
		out[i] = data.Channel(ch)
	}
	return out
}

// LoadData reads the tabular source named by the spec.
func (s *Spec) LoadData(logger *zap.Logger) (*data.Dataset, error) {
	units := s.Data.Units
	if units == "" {
		units = "ms"
	}
	skip := 2
	if s.Data.Skip != nil {
		skip = *s.Data.Skip
	}
	opts := []data.Option{}
	if logger != nil {
		opts = append(opts, data.WithLogger(logger))
	}
	return data.Load(s.Data.File, units, skip, opts...)
}

// Build assembles the network and its adapter on top of ds.
func (s *Spec) Build(ds *data.Dataset, logger *zap.Logger) (*network.Network, *inference.Adapter, error) {
	nodeKernels := make([]kernels.Kernel, len(s.Nodes))
	for q, n := range s.Nodes {
		k, err := kernels.Lookup(n.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("%v: %w", err, ErrBadSpec)
		}
		nodeKernels[q] = k
	}
	weightKernels := make([][]kernels.Kernel, len(s.Weights))
	for c, row := range s.Weights {
		weightKernels[c] = make([]kernels.Kernel, len(row))
		for q, w := range row {
			k, err := kernels.Lookup(w.Kind)
			if err != nil {
				return nil, nil, fmt.Errorf("%v: %w", err, ErrBadSpec)
			}
			weightKernels[c][q] = k
		}
	}
	var meanFns []means.Mean
	if len(s.Means) != 0 {
		meanFns = make([]means.Mean, len(s.Means))
		for c, m := range s.Means {
			if m == nil {
				continue
			}
			mean, err := means.Lookup(m.Kind)
			if err != nil {
				return nil, nil, fmt.Errorf("%v: %w", err, ErrBadSpec)
			}
			meanFns[c] = mean
		}
	}
	nw, err := network.New(network.Config{
		Dataset:  ds,
		Channels: s.channelList(),
		Nodes:    nodeKernels,
		Weights:  weightKernels,
		Means:    meanFns,
		Logger:   logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return nw, inference.NewAdapter(nw, logger), nil
}

// InitialVector flattens the spec's starting parameters in the adapter's
// layout order: node params, weight params channel-major, mean params,
// jitters. Missing jitters default to zero.
func (s *Spec) InitialVector() []float64 {
	var out []float64
	for _, n := range s.Nodes {
		out = append(out, n.Params...)
	}
	for _, row := range s.Weights {
		for _, w := range row {
			out = append(out, w.Params...)
		}
	}
	for _, m := range s.Means {
		if m != nil {
			out = append(out, m.Params...)
		}
	}
	jitters := s.Jitters
	if len(jitters) == 0 {
		jitters = make([]float64, len(s.channelList()))
	}
	out = append(out, jitters...)
	return out
}

// BuildPriors turns the spec's prior list into sampler priors. The list
// must cover the adapter's full layout.
func (s *Spec) BuildPriors(dim int, src rand.Source) (inference.Priors, error) {
	if len(s.Priors) != dim {
		return nil, fmt.Errorf("%d priors for %d parameters: %w",
			len(s.Priors), dim, ErrBadSpec)
	}
	out := make(inference.Priors, dim)
	for i, p := range s.Priors {
		if !(p.Min < p.Max) {
			return nil, fmt.Errorf("priors[%d]: min %v not below max %v: %w",
				i, p.Min, p.Max, ErrBadSpec)
		}
		if p.Log {
			if p.Min <= 0 {
				return nil, fmt.Errorf("priors[%d]: log prior needs min > 0: %w", i, ErrBadSpec)
			}
			out[i] = inference.NewLogUniform(p.Min, p.Max, src)
		} else {
			out[i] = inference.NewUniform(p.Min, p.Max, src)
		}
	}
	return out, nil
}
