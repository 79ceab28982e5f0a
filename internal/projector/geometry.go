package projector

import "math"

// Default layout of the scientific line chart.
const (
	DefaultLeft  = 15.0 // percent of canvas width
	DefaultWidth = 80.0 // percent of canvas width
	DefaultTop   = 30.0 // px

	// verticalChrome is the space reserved above and below the plot for
	// the title, x labels and legend.
	verticalChrome = 120.0
)

// PlotGeometry places the plot area on the canvas. Left and Width are
// percentages of the canvas width; Top and Height are pixels.
type PlotGeometry struct {
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// NewPlotGeometry returns the default plot placement for a chart of the
// given pixel height.
func NewPlotGeometry(height float64) PlotGeometry {
	return PlotGeometry{
		Left:   DefaultLeft,
		Width:  DefaultWidth,
		Top:    DefaultTop,
		Height: math.Max(height-verticalChrome, 0),
	}
}

// Baseline is the y coordinate of the bottom edge of the plot.
func (g PlotGeometry) Baseline() float64 {
	return g.Top + g.Height
}

// X maps sample index i of n to a horizontal position. A single sample sits
// on the left edge.
func (g PlotGeometry) X(i, n int) float64 {
	if n <= 1 {
		return g.Left
	}
	return g.Left + float64(i)/float64(n-1)*g.Width
}

// Y maps a value to a vertical position; larger values are higher up
// (smaller y). A degenerate scale puts every value at mid-plot.
func (g PlotGeometry) Y(v float64, s Scale) float64 {
	if s.Degenerate() {
		return g.Top + g.Height/2
	}
	return g.Top + (s.Max-v)/s.Range()*g.Height
}
