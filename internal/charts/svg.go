package charts

import (
	"fmt"
	"html"
	"strings"

	"ednaviz/internal/models"
	"ednaviz/internal/projector"
)

// Colors of the scientific line chart
const (
	plotFill      = "rgba(248, 250, 252, 0.5)"
	gridColor     = "#e2e8f0"
	vGridColor    = "#f1f5f9"
	axisColor     = "#64748b"
	labelColor    = "#334155"
	tickTextColor = "#64748b"
)

// legendHeight is the strip below the plot that carries the legend
const legendHeight = 40

// RenderLineSVG draws a line dataset as a standalone SVG document. The
// hovered point, if any, is enlarged and labelled with its value. A dataset
// without samples or series yields the empty-state placeholder.
func (cg *ChartGenerator) RenderLineSVG(ds models.LineDataset, hover *projector.HoverState) string {
	chart, err := cg.BuildLine(ds)
	if err != nil {
		cg.log.Debug("rendering placeholder", map[string]interface{}{"title": ds.Title, "reason": err.Error()})
		return cg.placeholderSVG(ds.Title)
	}

	width := float64(cg.width)
	height := cg.canvasHeight(ds)
	px := func(pct float64) float64 { return pct / 100 * width }
	num := projector.FormatNumber
	geom := chart.Geometry
	left, right := px(geom.Left), px(geom.Left+geom.Width)
	bottom := geom.Baseline()

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%s" viewBox="0 0 %d %s" font-family="sans-serif">`,
		cg.width, num(height+legendHeight), cg.width, num(height+legendHeight))
	b.WriteString("\n")

	writeDefs(&b, chart.Series)

	fmt.Fprintf(&b, `<text x="%s" y="18" font-size="16" font-weight="bold" fill="#1e293b">%s</text>`+"\n",
		num(left), html.EscapeString(ds.Title))

	// plot background
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="1" rx="4"/>`+"\n",
		num(left), num(geom.Top), num(right-left), num(geom.Height), plotFill, gridColor)

	for _, t := range chart.Ticks {
		fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1" stroke-dasharray="3,3" opacity="0.7"/>`+"\n",
			num(left), num(t.Y), num(right), num(t.Y), gridColor)
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="end" font-size="12" fill="%s">%s</text>`+"\n",
			num(px(geom.Left-1)), num(t.Y+4), tickTextColor, t.Label)
	}

	n := len(chart.Labels)
	for i := range chart.Labels {
		x := num(px(geom.X(i, n)))
		fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1" opacity="0.5"/>`+"\n",
			x, num(geom.Top), x, num(bottom), vGridColor)
	}

	// axes
	fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2"/>`+"\n",
		num(left), num(geom.Top), num(left), num(bottom), axisColor)
	fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2"/>`+"\n",
		num(left), num(bottom), num(right), num(bottom), axisColor)

	ly := geom.Top + geom.Height/2
	lx := px(3)
	fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-size="14" font-weight="600" fill="%s" transform="rotate(-90, %s, %s)">%s</text>`+"\n",
		num(lx), num(ly), labelColor, num(lx), num(ly), html.EscapeString(ds.YLabel))

	for si, s := range chart.Series {
		writeSeries(&b, si, s, px, hover)
	}

	for i, label := range chart.Labels {
		x := num(px(geom.X(i, n)))
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" font-size="14" fill="%s">%s</text>`+"\n",
			x, num(height-35), labelColor, html.EscapeString(label))
		fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2"/>`+"\n",
			x, num(bottom), x, num(bottom+5), axisColor)
	}

	writeLegend(&b, chart.Series, width, height)

	b.WriteString("</svg>\n")
	return b.String()
}

func writeDefs(b *strings.Builder, series []projector.SeriesGeometry) {
	b.WriteString("<defs>\n")
	for _, s := range series {
		key, color := s.Def.Key, s.Def.Color
		fmt.Fprintf(b, `<linearGradient id="gradient-%s" x1="0%%" y1="0%%" x2="0%%" y2="100%%">`+
			`<stop offset="0%%" stop-color="%s" stop-opacity="0.4"/>`+
			`<stop offset="100%%" stop-color="%s" stop-opacity="0.05"/></linearGradient>`+"\n", key, color, color)
		fmt.Fprintf(b, `<filter id="glow-%s" x="-50%%" y="-50%%" width="200%%" height="200%%">`+
			`<feGaussianBlur stdDeviation="2" result="coloredBlur"/>`+
			`<feMerge><feMergeNode in="coloredBlur"/><feMergeNode in="SourceGraphic"/></feMerge></filter>`+"\n", key)
		fmt.Fprintf(b, `<filter id="shadow-%s" x="-50%%" y="-50%%" width="200%%" height="200%%">`+
			`<feDropShadow dx="0" dy="2" stdDeviation="2" flood-color="%s" flood-opacity="0.3"/></filter>`+"\n", key, color)
	}
	b.WriteString("</defs>\n")
}

func writeSeries(b *strings.Builder, si int, s projector.SeriesGeometry, px func(float64) float64, hover *projector.HoverState) {
	num := projector.FormatNumber
	key, color := s.Def.Key, s.Def.Color

	fmt.Fprintf(b, `<g class="series" data-series="%d">`+"\n", si)
	if !s.Area.Empty() {
		fmt.Fprintf(b, `<path d="%s" fill="url(#gradient-%s)"/>`+"\n", s.Area.MapX(px), key)
	}
	if !s.Line.Empty() {
		fmt.Fprintf(b, `<path d="%s" fill="none" stroke="%s" stroke-width="3" filter="url(#glow-%s)"/>`+"\n",
			s.Line.MapX(px), color, key)
	}

	for _, p := range s.Points {
		hovered := hover != nil && hover.IsHovered(si, p.SampleIndex)
		shadowR, pointR := 6, 4
		if hovered {
			shadowR, pointR = 8, 6
		}
		x, y := num(px(p.X)), num(p.Y)
		fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%d" fill="%s" opacity="0.2"/>`+"\n", x, y, shadowR, color)
		fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%d" fill="%s" stroke="white" stroke-width="2" filter="url(#shadow-%s)" data-series="%d" data-sample="%d"/>`+"\n",
			x, y, pointR, color, key, si, p.SampleIndex)
		if hovered {
			fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="20" fill="rgba(0,0,0,0.8)" rx="4"/>`+"\n",
				num(px(p.X-3)), num(p.Y-25), num(px(6)))
			fmt.Fprintf(b, `<text x="%s" y="%s" text-anchor="middle" font-size="12" font-weight="bold" fill="white">%s</text>`+"\n",
				x, num(p.Y-10), num(p.Value))
		}
	}
	b.WriteString("</g>\n")
}

func writeLegend(b *strings.Builder, series []projector.SeriesGeometry, width, height float64) {
	if len(series) == 0 {
		return
	}
	num := projector.FormatNumber
	slot := width / float64(len(series))
	y := height + legendHeight/2
	for i, s := range series {
		x := slot*float64(i) + 24
		fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="8" fill="%s"/>`+"\n", num(x), num(y), s.Def.Color)
		fmt.Fprintf(b, `<text x="%s" y="%s" font-size="14" fill="%s">%s</text>`+"\n",
			num(x+14), num(y+5), labelColor, html.EscapeString(s.Def.Label))
	}
}

// placeholderSVG is the empty state of a line chart
func (cg *ChartGenerator) placeholderSVG(title string) string {
	if title == "" {
		title = "Chart"
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">
<rect x="0" y="0" width="%d" height="%d" fill="%s" stroke="%s" rx="4"/>
<text x="%d" y="%d" text-anchor="middle" font-size="14" fill="%s">%s: no data</text>
</svg>
`, cg.width, cg.height, cg.width, cg.height, cg.width, cg.height, plotFill, gridColor,
		cg.width/2, cg.height/2, tickTextColor, html.EscapeString(title))
}
