// Package projector turns ordered, labeled numeric samples into 2-D chart
// geometry: a padded value scale, per-series projected points, smooth curve
// paths and the area outlines drawn beneath them.
package projector

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptySeries is returned when there are no samples to project.
	ErrEmptySeries = errors.New("empty series")

	// ErrNoSeries is returned when no series definitions are given.
	ErrNoSeries = errors.New("no series definitions")

	// ErrScaleOverflow is returned when padding the observed values leaves
	// the float64 range.
	ErrScaleOverflow = errors.New("scale out of range")
)

// Sample is one labeled point along the horizontal axis.
type Sample struct {
	Label  string             `json:"label"`
	Fields map[string]float64 `json:"fields"`
}

// Value returns the sample's value for key. Missing keys and non-finite
// values read as 0.
func (s Sample) Value(key string) float64 {
	v := s.Fields[key]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SeriesDef names one field rendered as one curve.
type SeriesDef struct {
	Key   string `json:"key"`
	Color string `json:"color"`
	Label string `json:"label"`
}

// Scale is the padded value range shared by every series of a chart.
type Scale struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Range returns Max - Min.
func (s Scale) Range() float64 {
	return s.Max - s.Min
}

// Degenerate reports whether the scale has zero height.
func (s Scale) Degenerate() bool {
	return s.Max == s.Min
}

const (
	upperPad = 1.1
	lowerPad = 0.9
)

// ComputeScale derives the chart scale from every value referenced by defs
// across samples: max = 1.1 x observed max, min = 0.9 x observed min. For
// negative extremes the factors are swapped so the range still widens.
// When every value is zero the result is the degenerate scale {0, 0}.
// Values so close to the float64 limit that the padded bounds or their
// range overflow yield ErrScaleOverflow.
func ComputeScale(samples []Sample, defs []SeriesDef) (Scale, error) {
	if len(samples) == 0 {
		return Scale{}, ErrEmptySeries
	}
	if len(defs) == 0 {
		return Scale{}, ErrNoSeries
	}

	observedMax := math.Inf(-1)
	observedMin := math.Inf(1)
	for _, sample := range samples {
		for _, def := range defs {
			v := sample.Value(def.Key)
			observedMax = math.Max(observedMax, v)
			observedMin = math.Min(observedMin, v)
		}
	}

	scale := Scale{
		Min: pad(observedMin, lowerPad, upperPad),
		Max: pad(observedMax, upperPad, lowerPad),
	}
	if math.IsInf(scale.Min, 0) || math.IsInf(scale.Max, 0) || math.IsInf(scale.Range(), 0) {
		return Scale{}, fmt.Errorf("%w: observed [%g, %g]", ErrScaleOverflow, observedMin, observedMax)
	}
	return scale, nil
}

func pad(v, positive, negative float64) float64 {
	if v < 0 {
		return v * negative
	}
	return v * positive
}
