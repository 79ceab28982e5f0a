package charts

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"ednaviz/internal/dashboard"
	"ednaviz/internal/models"
	"ednaviz/internal/projector"
)

// echartsChart is what every go-echarts chart type offers
type echartsChart interface {
	Render(w io.Writer) error
	JSON() map[string]interface{}
	Validate()
}

func (cg *ChartGenerator) init(id string) opts.Initialization {
	return opts.Initialization{
		ChartID: id,
		Theme:   types.ThemeWesteros,
		Width:   fmt.Sprintf("%dpx", cg.width),
		Height:  fmt.Sprintf("%dpx", cg.height),
	}
}

func (cg *ChartGenerator) performanceBar(metrics []models.PerformanceMetric) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cg.init("chart-performance")),
		charts.WithTitleOpts(opts.Title{
			Title:    "Model Performance",
			Subtitle: "Score vs benchmark (%)",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Percent",
			Max:  100,
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithColorsOpts(opts.Colors{"#14b8a6", "#94a3b8"}),
	)

	names := make([]string, len(metrics))
	values := make([]opts.BarData, len(metrics))
	benchmarks := make([]opts.BarData, len(metrics))
	for i, m := range metrics {
		names[i] = m.Name
		values[i] = opts.BarData{Name: m.Name, Value: m.Value}
		benchmarks[i] = opts.BarData{Name: m.Name, Value: m.Benchmark}
	}

	bar.SetXAxis(names).
		AddSeries("Score", values).
		AddSeries("Benchmark", benchmarks)
	return bar
}

func (cg *ChartGenerator) taxonomyPie(dist models.TaxonomyDistribution) *charts.Pie {
	pie := charts.NewPie()

	colors := make(opts.Colors, len(dist.Shares))
	data := make([]opts.PieData, len(dist.Shares))
	for i, s := range dist.Shares {
		colors[i] = s.Color
		data[i] = opts.PieData{Name: s.Name, Value: s.Value}
	}

	pie.SetGlobalOptions(
		charts.WithInitializationOpts(cg.init("chart-taxonomy")),
		charts.WithTitleOpts(opts.Title{
			Title:    "Taxonomic Distribution",
			Subtitle: fmt.Sprintf("%d species identified", dist.TotalSpecies),
		}),
		charts.WithLegendOpts(opts.Legend{Show: true, Bottom: "0"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "item", Formatter: "{b}: {c}%"}),
		charts.WithColorsOpts(colors),
	)

	pie.AddSeries("Phylum", data, charts.WithPieChartOpts(opts.PieChart{
		Radius: []string{"40%", "70%"},
	}))
	return pie
}

func (cg *ChartGenerator) smoothLine(id string, ds models.LineDataset) *charts.Line {
	line := charts.NewLine()

	colors := make(opts.Colors, len(ds.Series))
	for i, s := range ds.Series {
		colors[i] = s.Color
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(cg.init(id)),
		charts.WithTitleOpts(opts.Title{Title: ds.Title}),
		charts.WithYAxisOpts(opts.YAxis{Name: ds.YLabel}),
		charts.WithLegendOpts(opts.Legend{Show: true, Bottom: "0"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithColorsOpts(colors),
	)

	labels := make([]string, len(ds.Data))
	for i, s := range ds.Data {
		labels[i] = s.Label
	}
	line.SetXAxis(labels)

	for _, def := range ds.Series {
		points := make([]opts.LineData, len(ds.Data))
		for i, s := range ds.Data {
			points[i] = opts.LineData{Value: s.Value(def.Key)}
		}
		line.AddSeries(def.Label, points)
	}
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{Smooth: true}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.15}),
	)
	return line
}

// echartsFor builds the go-echarts chart of kind
func (cg *ChartGenerator) echartsFor(kind dashboard.ChartKind) (echartsChart, error) {
	switch k := kind.(type) {
	case dashboard.PerformanceChart:
		return cg.performanceBar(k.Metrics), nil
	case dashboard.TaxonomyChart:
		return cg.taxonomyPie(k.Distribution), nil
	case dashboard.NoveltyChart:
		return cg.smoothLine("chart-novelty-echarts", k.Dataset), nil
	case dashboard.PipelineChart:
		return cg.smoothLine("chart-pipeline-echarts", k.Dataset), nil
	default:
		return nil, fmt.Errorf("%w: %T", dashboard.ErrUnknownChart, kind)
	}
}

// echartsOption returns the option object go-echarts would hand to
// echarts.setOption
func echartsOption(c echartsChart) map[string]interface{} {
	c.Validate()
	return c.JSON()
}

// RenderPage writes kind as a standalone go-echarts HTML page
func (cg *ChartGenerator) RenderPage(kind dashboard.ChartKind, w io.Writer) error {
	c, err := cg.echartsFor(kind)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return fmt.Errorf("failed to render %s page: %w", kind.ID(), err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// GenerateSnippet renders the dashboard fragment of kind. Bar and pie
// charts are ECharts snippets; line charts are inline SVG followed by the
// matching interactive ECharts script.
func (cg *ChartGenerator) GenerateSnippet(kind dashboard.ChartKind, hover *projector.HoverState) (ChartSnippet, error) {
	c, err := cg.echartsFor(kind)
	if err != nil {
		return ChartSnippet{}, err
	}

	var hl *highlight
	if hover != nil {
		if sel, ok := hover.Selected(); ok {
			hl = &highlight{series: sel.Series, sample: sel.Sample}
		}
	}

	id := "chart-" + kind.ID()
	switch k := kind.(type) {
	case dashboard.PerformanceChart, dashboard.TaxonomyChart:
		return echartsSnippet(id, k.Title(), cg.height, echartsOption(c), hl)
	case dashboard.NoveltyChart, dashboard.PipelineChart:
		ds, _ := dashboard.LineDataset(k)
		svg := svgSnippet(id, ds.Title, cg.RenderLineSVG(ds, hover))
		interactive, err := echartsSnippet(id+"-echarts", ds.Title, cg.height, echartsOption(c), hl)
		if err != nil {
			return ChartSnippet{}, err
		}
		svg.Script = interactive.Script
		svg.HTML += "\n" + interactive.Div + "\n" + interactive.Script
		return svg, nil
	default:
		return ChartSnippet{}, fmt.Errorf("%w: %T", dashboard.ErrUnknownChart, kind)
	}
}

// GenerateAllSnippets renders every chart kind in navigation order
func (cg *ChartGenerator) GenerateAllSnippets() ([]ChartSnippet, error) {
	var snippets []ChartSnippet
	for _, k := range dashboard.ChartKinds() {
		s, err := cg.GenerateSnippet(k, nil)
		if err != nil {
			return nil, err
		}
		snippets = append(snippets, s)
	}
	return snippets, nil
}
