// Package data holds the observed time series of one target: a shared time
// axis plus the radial velocities and ancillary activity indicators, each
// with per-point uncertainties. A Dataset is loaded once at startup and
// treated as read-only afterwards; it is passed explicitly into the network
// rather than living in a process-wide singleton.
package data

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrDataFormat is returned for a source that cannot be opened, has
	// inconsistent column counts, or carries unparsable numbers.
	ErrDataFormat = errors.New("data: malformed input")

	// ErrUnitConversion is returned for an unrecognized unit system.
	ErrUnitConversion = errors.New("data: unknown unit system")

	// ErrUnknownChannel is returned when a channel name is not part of the
	// dataset.
	ErrUnknownChannel = errors.New("data: unknown channel")
)

// Channel names one observed series sharing the common time grid.
type Channel string

const (
	RV   Channel = "rv"   // radial velocity (m/s)
	FWHM Channel = "fwhm" // full width at half maximum of the CCF
	BIS  Channel = "bis"  // bisector span
	Rhk  Channel = "rhk"  // chromospheric activity index log R'hk
)

// Channels returns the channel list in the fixed order used by the combined
// signal and by the joint covariance blocks. The order is part of the
// numeric contract and never changes within a process.
func Channels() []Channel {
	return []Channel{RV, FWHM, BIS, Rhk}
}

// columns of the tabular source, after the time column. Each channel maps
// to exactly one value column and one uncertainty column; the mapping is
// explicit so the value/error bookkeeping cannot drift apart.
var columnOrder = []Channel{RV, FWHM, BIS, Rhk}

const columnsPerRow = 1 + 2*4 // t + (value, error) per channel

// series is one channel's aligned values and uncertainties.
type series struct {
	values []float64
	errs   []float64
}

// Dataset is the observation store for one target.
type Dataset struct {
	logger   *zap.Logger
	t        []float64
	channels map[Channel]series
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithLogger attaches a logger; without it the dataset stays silent.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dataset) { d.logger = logger }
}

// New returns an empty Dataset.
func New(opts ...Option) *Dataset {
	d := &Dataset{
		logger:   zap.NewNop(),
		channels: make(map[Channel]series, len(columnOrder)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FromArrays builds a Dataset from in-memory arrays, for synthetic inputs.
// Every provided channel must align with t; channels not provided get zero
// values and zero uncertainties.
func FromArrays(t []float64, values, errs map[Channel][]float64, opts ...Option) (*Dataset, error) {
	if len(t) == 0 {
		return nil, fmt.Errorf("empty time axis: %w", ErrDataFormat)
	}
	d := New(opts...)
	d.t = append([]float64(nil), t...)
	for _, ch := range columnOrder {
		s := series{
			values: make([]float64, len(t)),
			errs:   make([]float64, len(t)),
		}
		if v, ok := values[ch]; ok {
			if len(v) != len(t) {
				return nil, fmt.Errorf("channel %q has %d values for %d times: %w",
					ch, len(v), len(t), ErrDataFormat)
			}
			copy(s.values, v)
		}
		if e, ok := errs[ch]; ok {
			if len(e) != len(t) {
				return nil, fmt.Errorf("channel %q has %d errors for %d times: %w",
					ch, len(e), len(t), ErrDataFormat)
			}
			copy(s.errs, e)
		}
		d.channels[ch] = s
	}
	return d, nil
}

// Load reads a whitespace-delimited source with columns
//
//	t rv rverr fwhm fwhmerr bis biserr rhk rhkerr
//
// skipping the first skip header lines (2 for rdb files). units selects the
// radial-velocity unit system of the source: "ms" is used as-is, "kms" is
// converted to m/s. Blank lines and lines starting with '#' are ignored.
func Load(path, units string, skip int, opts ...Option) (*Dataset, error) {
	d := New(opts...)
	if err := d.Load(path, units, skip); err != nil {
		return nil, err
	}
	return d, nil
}

// Load (re)populates the dataset from path. Reloading over existing arrays
// is permitted and fully replaces them; it is logged at warning level since
// every model built on the previous arrays is stale afterwards.
func (d *Dataset) Load(path, units string, skip int) error {
	scale, err := rvScale(units)
	if err != nil {
		return err
	}
	if len(d.t) > 0 {
		d.logger.Warn("reloading dataset over existing arrays",
			zap.String("path", path),
			zap.Int("previous_points", len(d.t)))
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %v: %w", path, err, ErrDataFormat)
	}
	defer f.Close()

	var (
		t    []float64
		cols = make([][]float64, columnsPerRow-1)
	)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if line <= skip {
			continue
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != columnsPerRow {
			return fmt.Errorf("line %d has %d columns, want %d: %w",
				line, len(fields), columnsPerRow, ErrDataFormat)
		}
		row := make([]float64, columnsPerRow)
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return fmt.Errorf("line %d column %d: %v: %w", line, i+1, err, ErrDataFormat)
			}
			row[i] = v
		}
		t = append(t, row[0])
		for i := range cols {
			cols[i] = append(cols[i], row[i+1])
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %v: %w", path, err, ErrDataFormat)
	}

	channels := make(map[Channel]series, len(columnOrder))
	for i, ch := range columnOrder {
		channels[ch] = series{values: cols[2*i], errs: cols[2*i+1]}
	}
	// The RV columns are the only ones affected by the unit system.
	if scale != 1 {
		rv := channels[RV]
		for i := range rv.values {
			rv.values[i] *= scale
			rv.errs[i] *= scale
		}
		channels[RV] = rv
	}

	d.t = t
	d.channels = channels
	d.logger.Debug("dataset loaded",
		zap.String("path", path),
		zap.Int("points", len(t)))
	return nil
}

func rvScale(units string) (float64, error) {
	switch units {
	case "ms":
		return 1, nil
	case "kms":
		return 1000, nil
	default:
		return 0, fmt.Errorf("%q: %w", units, ErrUnitConversion)
	}
}

// N is the number of points on the shared time axis.
func (d *Dataset) N() int { return len(d.t) }

// T is the shared time axis. The returned slice is a view and must not be
// mutated by callers.
func (d *Dataset) T() []float64 { return d.t }

// Values returns the observed series of a channel.
func (d *Dataset) Values(ch Channel) ([]float64, error) {
	s, ok := d.channels[ch]
	if !ok {
		return nil, fmt.Errorf("%q: %w", ch, ErrUnknownChannel)
	}
	return s.values, nil
}

// Errors returns the per-point uncertainties of a channel.
func (d *Dataset) Errors(ch Channel) ([]float64, error) {
	s, ok := d.channels[ch]
	if !ok {
		return nil, fmt.Errorf("%q: %w", ch, ErrUnknownChannel)
	}
	return s.errs, nil
}
