package charts

import (
	"encoding/json"
	"fmt"
	"html"
)

// EChartsCDN is the script the snippets expect on the page
const EChartsCDN = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"

// ChartSnippet represents an embeddable chart fragment.
// Div should contain a single root <div id="..." style="..."></div>
// Script should contain the <script>...</script> block that initializes the chart in that div.
// HTML contains the complete snippet with div + script combined for template substitution.
// SVG charts leave Script empty and put the drawing in Div.
type ChartSnippet struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Div    string `json:"div"`
	Script string `json:"script,omitempty"`
	HTML   string `json:"html"`
}

// highlight marks a data point for the ECharts highlight action
type highlight struct {
	series, sample int
}

// echartsSnippet wraps an ECharts option in the div/script pair used on the
// dashboard
func echartsSnippet(id, title string, height int, option interface{}, hl *highlight) (ChartSnippet, error) {
	optJSON, err := json.Marshal(option)
	if err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to marshal %s option: %w", id, err)
	}

	action := ""
	if hl != nil {
		action = fmt.Sprintf("c.dispatchAction({type:'highlight',seriesIndex:%d,dataIndex:%d});", hl.series, hl.sample)
	}

	div := fmt.Sprintf("<div id=\"%s\" style=\"width:100%%;height:%dpx;\"></div>", id, height)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;var c=echarts.init(el);var option=%s;c.setOption(option);%swindow.addEventListener('resize',function(){c.resize();});})();</script>`,
		id, string(optJSON), action)

	completeHTML := fmt.Sprintf(`<div class="chart-item">
	<h4>%s</h4>
	%s
</div>
%s`, html.EscapeString(title), div, script)

	return ChartSnippet{ID: id, Title: title, Div: div, Script: script, HTML: completeHTML}, nil
}

// svgSnippet embeds an inline SVG drawing
func svgSnippet(id, title, svg string) ChartSnippet {
	div := fmt.Sprintf("<div id=\"%s\" class=\"svg-chart\">%s</div>", id, svg)
	completeHTML := fmt.Sprintf(`<div class="chart-item">
	<h4>%s</h4>
	%s
</div>`, html.EscapeString(title), div)
	return ChartSnippet{ID: id, Title: title, Div: div, HTML: completeHTML}
}
