package reports

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"ednaviz/internal/charts"
	"ednaviz/internal/dashboard"
	"ednaviz/internal/logger"
	"ednaviz/internal/models"
)

//go:embed templates/*.html templates/*.css
var templateFS embed.FS

// HTMLBuilder handles HTML generation with goldmark
type HTMLBuilder struct {
	goldmark  goldmark.Markdown
	templates *template.Template
	css       template.CSS
	version   string
	log       *logger.Logger
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder(version string) (*HTMLBuilder, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)

	tmpl, err := template.New("pages").Funcs(template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
		"lower": strings.ToLower,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	css, err := templateFS.ReadFile("templates/styles.css")
	if err != nil {
		return nil, fmt.Errorf("failed to load CSS: %w", err)
	}

	return &HTMLBuilder{
		goldmark:  md,
		templates: tmpl,
		css:       template.CSS(css),
		version:   version,
		log:       logger.Component("pages"),
	}, nil
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// LandingData is the data of the landing page template
type LandingData struct {
	Version     string
	GeneratedAt string
	CSS         template.CSS
	Hero        template.HTML
	Features    template.HTML
	Pipeline    template.HTML
	ChartTabs   []ChartTab
}

// ChartTab is one entry of the analytics navigation
type ChartTab struct {
	ID     string
	Title  string
	Active bool
}

// BuildLanding renders the marketing landing page
func (h *HTMLBuilder) BuildLanding() (string, error) {
	sections := make([]template.HTML, 3)
	for i, md := range []string{
		heroMarkdown,
		featuresMarkdown(models.Features()),
		pipelineMarkdown(models.Stages()),
	} {
		out, err := h.ConvertMarkdownToHTML(md)
		if err != nil {
			return "", err
		}
		sections[i] = template.HTML(out)
	}

	data := LandingData{
		Version:     h.version,
		GeneratedAt: time.Now().UTC().Format(time.RFC1123),
		CSS:         h.css,
		Hero:        sections[0],
		Features:    sections[1],
		Pipeline:    sections[2],
		ChartTabs:   chartTabs(dashboard.DefaultChart),
	}
	return h.execute("landing.html", data)
}

func chartTabs(active string) []ChartTab {
	kinds := dashboard.ChartKinds()
	tabs := make([]ChartTab, len(kinds))
	for i, k := range kinds {
		tabs[i] = ChartTab{ID: k.ID(), Title: k.Title(), Active: k.ID() == active}
	}
	return tabs
}

// CounterView is an animated counter placeholder. The page animates from
// zero to Target over Duration milliseconds.
type CounterView struct {
	Label    string
	Target   int
	Suffix   string
	Duration int64
}

// DashboardData is the data of the dashboard page template
type DashboardData struct {
	Version         string
	CSS             template.CSS
	Session         dashboard.Snapshot
	Clock           string
	ChartTabs       []ChartTab
	Chart           template.HTML
	Counters        []CounterView
	Metrics         models.LiveMetrics
	Analyses        []models.Analysis
	Steps           []models.PipelineStep
	Projects        []ProjectCard
	SelectedProject ProjectCard
	ShowNewProject  bool
	Environments    []string
	EChartsCDN      string
}

// BuildDashboard renders the dashboard page for a session
func (h *HTMLBuilder) BuildDashboard(s *dashboard.Session, cg *charts.ChartGenerator, counterDuration time.Duration) (string, error) {
	snap := s.Snapshot()
	active := s.Analytics.Active()

	snippet, err := cg.GenerateSnippet(active, s.Analytics.Hover())
	if err != nil {
		h.log.Error("chart snippet failed", err, logger.Fields{"chart": active.ID()})
		snippet = charts.ChartSnippet{HTML: fmt.Sprintf("<p>%s chart unavailable</p>", template.HTMLEscapeString(active.Title()))}
	}

	projects := models.Projects()
	cards := make([]ProjectCard, len(projects))
	for i, p := range projects {
		cards[i] = NewProjectCard(p, p.ID == snap.SelectedProject)
	}

	data := DashboardData{
		Version:         h.version,
		CSS:             h.css,
		Session:         snap,
		Clock:           snap.Clock.Format("15:04:05"),
		ChartTabs:       chartTabs(active.ID()),
		Chart:           template.HTML(snippet.HTML),
		Counters:        counterViews(active, counterDuration),
		Metrics:         models.Metrics(),
		Analyses:        models.RecentAnalyses(),
		Steps:           models.PipelineSteps(),
		Projects:        cards,
		SelectedProject: NewProjectCard(s.Projects.Selected(), true),
		ShowNewProject:  snap.ShowNewProject,
		Environments:    models.Environments(),
		EChartsCDN:      charts.EChartsCDN,
	}
	return h.execute("dashboard.html", data)
}

// counterViews lists the animated numbers shown next to a chart
func counterViews(kind dashboard.ChartKind, d time.Duration) []CounterView {
	ms := d.Milliseconds()
	switch k := kind.(type) {
	case dashboard.PerformanceChart:
		out := make([]CounterView, len(k.Metrics))
		for i, m := range k.Metrics {
			out[i] = CounterView{Label: m.Name, Target: m.Value, Suffix: "%", Duration: ms}
		}
		return out
	case dashboard.TaxonomyChart:
		out := make([]CounterView, 0, len(k.Distribution.Shares)+1)
		for _, s := range k.Distribution.Shares {
			out = append(out, CounterView{Label: s.Name, Target: s.Value, Suffix: "%", Duration: ms})
		}
		return append(out, CounterView{Label: "Total Species", Target: k.Distribution.TotalSpecies, Duration: ms})
	case dashboard.NoveltyChart, dashboard.PipelineChart:
		return nil
	default:
		return nil
	}
}

func (h *HTMLBuilder) execute(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	h.log.Debug("page built", logger.Fields{"template": name, "bytes": buf.Len()})
	return buf.String(), nil
}
