package charts

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ednaviz/internal/dashboard"
	"ednaviz/internal/models"
)

var (
	scoreColor     = drawing.ColorFromHex("14b8a6")
	benchmarkColor = drawing.ColorFromHex("94a3b8")
)

// hexColor parses a CSS hex color, falling back to gray on malformed input
func hexColor(hex string) drawing.Color {
	h := hex
	if len(h) > 0 && h[0] == '#' {
		h = h[1:]
	}
	if len(h) != 3 && len(h) != 6 {
		return benchmarkColor
	}
	return drawing.ColorFromHex(h)
}

// RenderPNG writes kind as a static PNG image
func (cg *ChartGenerator) RenderPNG(kind dashboard.ChartKind, w io.Writer) error {
	return cg.renderStatic(kind, chart.PNG, w)
}

// RenderStaticSVG writes kind as a static SVG image
func (cg *ChartGenerator) RenderStaticSVG(kind dashboard.ChartKind, w io.Writer) error {
	return cg.renderStatic(kind, chart.SVG, w)
}

func (cg *ChartGenerator) renderStatic(kind dashboard.ChartKind, rp chart.RendererProvider, w io.Writer) error {
	var err error
	switch k := kind.(type) {
	case dashboard.PerformanceChart:
		err = cg.performanceImage(k.Metrics).Render(rp, w)
	case dashboard.TaxonomyChart:
		err = cg.taxonomyImage(k.Distribution).Render(rp, w)
	case dashboard.NoveltyChart:
		err = cg.renderLineImage(k.Dataset, rp, w)
	case dashboard.PipelineChart:
		err = cg.renderLineImage(k.Dataset, rp, w)
	default:
		return fmt.Errorf("%w: %T", dashboard.ErrUnknownChart, kind)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s chart: %w", kind.ID(), err)
	}
	return nil
}

func (cg *ChartGenerator) performanceImage(metrics []models.PerformanceMetric) chart.BarChart {
	bars := make([]chart.Value, 0, 2*len(metrics))
	for _, m := range metrics {
		bars = append(bars,
			chart.Value{
				Value: float64(m.Value),
				Label: m.Name,
				Style: chart.Style{FillColor: scoreColor, StrokeColor: scoreColor},
			},
			chart.Value{
				Value: float64(m.Benchmark),
				Label: "benchmark",
				Style: chart.Style{FillColor: benchmarkColor, StrokeColor: benchmarkColor},
			},
		)
	}

	return chart.BarChart{
		Title: "Model Performance",
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Width:      cg.width,
		Height:     cg.height,
		BarWidth:   40,
		BarSpacing: 12,
		XAxis:      chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Name:  "Percent",
			Style: chart.Style{FontSize: 10},
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Bars: bars,
	}
}

func (cg *ChartGenerator) taxonomyImage(dist models.TaxonomyDistribution) chart.PieChart {
	values := make([]chart.Value, len(dist.Shares))
	for i, s := range dist.Shares {
		c := hexColor(s.Color)
		values[i] = chart.Value{
			Value: float64(s.Value),
			Label: fmt.Sprintf("%s %d%%", s.Name, s.Value),
			Style: chart.Style{FillColor: c, StrokeColor: drawing.ColorWhite},
		}
	}

	size := cg.height
	if cg.width < size {
		size = cg.width
	}
	return chart.PieChart{
		Title:  fmt.Sprintf("Taxonomic Distribution (%d species)", dist.TotalSpecies),
		Width:  size,
		Height: size,
		Values: values,
	}
}

func (cg *ChartGenerator) renderLineImage(ds models.LineDataset, rp chart.RendererProvider, w io.Writer) error {
	if len(ds.Data) < 2 || len(ds.Series) == 0 {
		return fmt.Errorf("%w: %s needs at least two samples", ErrNoData, ds.Title)
	}

	xs := make([]float64, len(ds.Data))
	ticks := make([]chart.Tick, len(ds.Data))
	for i, s := range ds.Data {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: s.Label}
	}

	series := make([]chart.Series, 0, len(ds.Series))
	for _, def := range ds.Series {
		ys := make([]float64, len(ds.Data))
		for i, s := range ds.Data {
			ys[i] = s.Value(def.Key)
		}
		c := hexColor(def.Color)
		series = append(series, chart.ContinuousSeries{
			Name: def.Label,
			Style: chart.Style{
				StrokeColor: c,
				StrokeWidth: 3,
				DotColor:    c,
				DotWidth:    4,
				FillColor:   c.WithAlpha(30),
			},
			XValues: xs,
			YValues: ys,
		})
	}

	graph := chart.Chart{
		Title: ds.Title,
		TitleStyle: chart.Style{
			FontSize:  16,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 70, Right: 20, Bottom: 60},
		},
		Width:  cg.width,
		Height: int(cg.canvasHeight(ds)),
		XAxis: chart.XAxis{
			Style: chart.Style{FontSize: 9},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:      ds.YLabel,
			NameStyle: chart.Style{FontSize: 12},
			Style:     chart.Style{FontSize: 10},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(rp, w)
}
