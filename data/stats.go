package data

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// The summary statistics below are pure functions of the current arrays and
// are recomputed on every call, so they can never go stale after a reload.

// TMin is the earliest observation time.
func (d *Dataset) TMin() float64 { return floats.Min(d.t) }

// TMax is the latest observation time.
func (d *Dataset) TMax() float64 { return floats.Max(d.t) }

// TMiddle is the midpoint of the observed baseline.
func (d *Dataset) TMiddle() float64 { return d.TMin() + 0.5*d.Timespan() }

// Timespan is the length of the observed baseline.
func (d *Dataset) Timespan() float64 { return d.TMax() - d.TMin() }

// Min of a channel's values.
func (d *Dataset) Min(ch Channel) (float64, error) {
	v, err := d.Values(ch)
	if err != nil {
		return 0, err
	}
	return floats.Min(v), nil
}

// Max of a channel's values.
func (d *Dataset) Max(ch Channel) (float64, error) {
	v, err := d.Values(ch)
	if err != nil {
		return 0, err
	}
	return floats.Max(v), nil
}

// Span is Max - Min of a channel's values.
func (d *Dataset) Span(ch Channel) (float64, error) {
	v, err := d.Values(ch)
	if err != nil {
		return 0, err
	}
	return floats.Max(v) - floats.Min(v), nil
}

// Variance is the unweighted sample variance of a channel's values.
func (d *Dataset) Variance(ch Channel) (float64, error) {
	v, err := d.Values(ch)
	if err != nil {
		return 0, err
	}
	return stat.Variance(v, nil), nil
}

// Std is the unweighted sample standard deviation of a channel's values.
func (d *Dataset) Std(ch Channel) (float64, error) {
	v, err := d.Variance(ch)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// TopSlope bounds the steepest linear trend the radial velocities could
// hide: the full RV span divided by the observed baseline.
func (d *Dataset) TopSlope() (float64, error) {
	span, err := d.Span(RV)
	if err != nil {
		return 0, err
	}
	return math.Abs(span) / (d.t[len(d.t)-1] - d.t[0]), nil
}

// CombinedSignal concatenates every channel's values in the fixed order
// given by Channels. Its length is always N times the channel count and the
// order is stable across calls within a run.
func (d *Dataset) CombinedSignal() []float64 {
	out := make([]float64, 0, len(d.t)*len(columnOrder))
	for _, ch := range columnOrder {
		out = append(out, d.channels[ch].values...)
	}
	return out
}

// CombinedError concatenates every channel's uncertainties in the same
// order as CombinedSignal.
func (d *Dataset) CombinedError() []float64 {
	out := make([]float64, 0, len(d.t)*len(columnOrder))
	for _, ch := range columnOrder {
		out = append(out, d.channels[ch].errs...)
	}
	return out
}
