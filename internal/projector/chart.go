package projector

import (
	"fmt"
	"math"
)

// SeriesGeometry is the rendered geometry of one series.
type SeriesGeometry struct {
	Def    SeriesDef        `json:"def"`
	Points []ProjectedPoint `json:"points"`
	Line   Path             `json:"line"`
	Area   Path             `json:"area"`
}

// Tick is a horizontal grid line with its axis label.
type Tick struct {
	Ratio float64 `json:"ratio"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// Chart is everything a renderer needs to draw a multi-series line chart.
type Chart struct {
	Scale    Scale            `json:"scale"`
	Geometry PlotGeometry     `json:"geometry"`
	Labels   []string         `json:"labels"`
	Ticks    []Tick           `json:"ticks"`
	Series   []SeriesGeometry `json:"series"`
}

// DefaultTickCount yields six grid lines at 0%, 20% ... 100% of the plot height.
const DefaultTickCount = 5

// Build runs scale computation, projection and path generation in order for
// every series definition.
func Build(samples []Sample, defs []SeriesDef, geom PlotGeometry) (*Chart, error) {
	scale, err := ComputeScale(samples, defs)
	if err != nil {
		return nil, fmt.Errorf("compute scale: %w", err)
	}

	labels := make([]string, len(samples))
	for i, s := range samples {
		labels[i] = s.Label
	}

	series := make([]SeriesGeometry, len(defs))
	for i, def := range defs {
		projected := Project(samples, def, scale, geom)
		line := SmoothPath(Points(projected))
		series[i] = SeriesGeometry{
			Def:    def,
			Points: projected,
			Line:   line,
			Area: AreaPath(line,
				projected[0].Point(),
				projected[len(projected)-1].Point(),
				geom.Baseline()),
		}
	}

	return &Chart{
		Scale:    scale,
		Geometry: geom,
		Labels:   labels,
		Ticks:    Ticks(scale, geom, DefaultTickCount),
		Series:   series,
	}, nil
}

// Ticks splits the plot height into n equal bands and labels each line with
// the rounded scale value at that height.
func Ticks(scale Scale, geom PlotGeometry, n int) []Tick {
	if n < 1 {
		n = 1
	}
	ticks := make([]Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		ratio := float64(i) / float64(n)
		value := scale.Max - ratio*scale.Range()
		ticks = append(ticks, Tick{
			Ratio: ratio,
			Y:     geom.Top + ratio*geom.Height,
			Label: fmt.Sprintf("%d", int64(math.Round(value))),
		})
	}
	return ticks
}
