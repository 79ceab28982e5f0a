package charts

import (
	"errors"
	"fmt"

	"ednaviz/internal/dashboard"
	"ednaviz/internal/logger"
	"ednaviz/internal/models"
	"ednaviz/internal/projector"
)

// ErrNoData is returned when a chart has nothing to draw
var ErrNoData = errors.New("chart has no data")

// Canvas defaults in pixels
const (
	DefaultWidth  = 960
	DefaultHeight = 400
)

// ChartGenerator renders dashboard charts as SVG, ECharts snippets and
// static images
type ChartGenerator struct {
	width  int
	height int
	log    *logger.Logger
}

// NewChartGenerator creates a chart generator for a canvas of the given size
func NewChartGenerator(width, height int) *ChartGenerator {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &ChartGenerator{
		width:  width,
		height: height,
		log:    logger.Component("charts"),
	}
}

// Size returns the canvas width and height
func (cg *ChartGenerator) Size() (int, int) {
	return cg.width, cg.height
}

// canvasHeight prefers the dataset's own height
func (cg *ChartGenerator) canvasHeight(ds models.LineDataset) float64 {
	if ds.Height > 0 {
		return ds.Height
	}
	return float64(cg.height)
}

// BuildLine projects a line dataset onto the plot area
func (cg *ChartGenerator) BuildLine(ds models.LineDataset) (*projector.Chart, error) {
	chart, err := projector.Build(ds.Data, ds.Series, projector.NewPlotGeometry(cg.canvasHeight(ds)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoData, ds.Title, err)
	}
	return chart, nil
}

// Geometry is the JSON description of a chart. Line charts carry their
// projected geometry, bar and pie charts their raw values.
type Geometry struct {
	Kind        string                       `json:"kind"`
	Title       string                       `json:"title"`
	YLabel      string                       `json:"y_label,omitempty"`
	Line        *projector.Chart             `json:"line,omitempty"`
	Performance []models.PerformanceMetric   `json:"performance,omitempty"`
	Taxonomy    *models.TaxonomyDistribution `json:"taxonomy,omitempty"`
}

// Geometry describes kind
func (cg *ChartGenerator) Geometry(kind dashboard.ChartKind) (Geometry, error) {
	g := Geometry{Kind: kind.ID(), Title: kind.Title()}

	switch k := kind.(type) {
	case dashboard.PerformanceChart:
		g.Performance = k.Metrics
	case dashboard.TaxonomyChart:
		dist := k.Distribution
		g.Taxonomy = &dist
	case dashboard.NoveltyChart, dashboard.PipelineChart:
		ds, _ := dashboard.LineDataset(k)
		chart, err := cg.BuildLine(ds)
		if err != nil {
			return Geometry{}, err
		}
		g.Title = ds.Title
		g.YLabel = ds.YLabel
		g.Line = chart
	default:
		return Geometry{}, fmt.Errorf("%w: %T", dashboard.ErrUnknownChart, kind)
	}
	return g, nil
}
