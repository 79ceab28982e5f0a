package reports

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ednaviz/internal/animation"
	"ednaviz/internal/charts"
	"ednaviz/internal/dashboard"
	"ednaviz/internal/models"
	"ednaviz/internal/storage"
)

type idleClock struct{}

func (idleClock) Schedule(func(time.Time) bool) animation.CancelFunc { return func() {} }

func newTestSession(t *testing.T) *dashboard.Session {
	t.Helper()
	store := dashboard.NewSessionStore(dashboard.StoreConfig{
		Monitor: func() dashboard.MonitorConfig {
			return dashboard.MonitorConfig{
				Clock: idleClock{},
				After: func(time.Duration, func()) func() bool { return func() bool { return true } },
			}
		},
	})
	s := store.Create()
	t.Cleanup(func() { store.Close(s.ID) })
	return s
}

func TestConvertMarkdownToHTML(t *testing.T) {
	h, err := NewHTMLBuilder("1.0.0")
	if err != nil {
		t.Fatalf("NewHTMLBuilder failed: %v", err)
	}

	out, err := h.ConvertMarkdownToHTML(pipelineMarkdown(models.Stages()))
	if err != nil {
		t.Fatalf("ConvertMarkdownToHTML failed: %v", err)
	}
	if !strings.Contains(out, `<h2 id="pipeline">Pipeline</h2>`) {
		t.Errorf("Expected heading with auto id, got %s", out)
	}
	if !strings.Contains(out, "<table>") || !strings.Contains(out, "<td>BERTax Classification</td>") {
		t.Error("Expected GFM table of stages")
	}
}

func TestBuildLanding(t *testing.T) {
	h, err := NewHTMLBuilder("1.0.0")
	if err != nil {
		t.Fatalf("NewHTMLBuilder failed: %v", err)
	}

	page, err := h.BuildLanding()
	if err != nil {
		t.Fatalf("BuildLanding failed: %v", err)
	}

	for _, want := range []string{
		"Deep Sea to Discovery",
		"<strong>Novel Taxa Discovery</strong>",
		"DNABERT-S Novelty Detection",
		`href="/dashboard?chart=performance" class="active"`,
		"Pipeline Performance",
		"v1.0.0",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("Expected %q in landing page", want)
		}
	}
}

func TestBuildDashboard(t *testing.T) {
	h, err := NewHTMLBuilder("1.0.0")
	if err != nil {
		t.Fatalf("NewHTMLBuilder failed: %v", err)
	}
	s := newTestSession(t)
	s.Projects.Select(3)
	s.Projects.OpenNewProject()

	page, err := h.BuildDashboard(s, charts.NewChartGenerator(960, 400), 2*time.Second)
	if err != nil {
		t.Fatalf("BuildDashboard failed: %v", err)
	}

	for _, want := range []string{
		`data-session="` + s.ID + `"`,
		`id="chart-performance"`,
		`data-counter-target="94" data-counter-duration="2000"`,
		"Mariana Trench Expedition",
		"<em>novel species</em>",
		"bg-yellow-100",
		`class="modal"`,
		"Hydrothermal Vent",
		"Start New Analysis",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("Expected %q in dashboard page", want)
		}
	}
}

func TestBuildDashboardLineChart(t *testing.T) {
	h, err := NewHTMLBuilder("1.0.0")
	if err != nil {
		t.Fatalf("NewHTMLBuilder failed: %v", err)
	}
	s := newTestSession(t)
	s.Analytics.Select("pipeline")
	s.Monitor.StartAnalysis()

	page, err := h.BuildDashboard(s, charts.NewChartGenerator(960, 400), time.Second)
	if err != nil {
		t.Fatalf("BuildDashboard failed: %v", err)
	}
	if !strings.Contains(page, "<svg") {
		t.Error("Expected inline SVG chart")
	}
	if strings.Contains(page, "data-counter-target") {
		t.Error("Line charts carry no counters")
	}
	if !strings.Contains(page, "Analysis running") {
		t.Error("Expected processing indicator")
	}
}

func TestNewProjectCard(t *testing.T) {
	p, _ := models.FindProject(1)
	card := NewProjectCard(p, true)

	if !strings.Contains(string(card.Description), "<strong>Pacific hydrothermal vents</strong>") {
		t.Errorf("Expected rendered markdown, got %s", card.Description)
	}
	if card.Palette.Background != "bg-green-100" {
		t.Errorf("Expected active palette, got %+v", card.Palette)
	}
	if !card.Selected || card.Name != p.Name {
		t.Error("Expected selected card carrying the project")
	}
}

func TestMarkdownLinksOpenInNewTab(t *testing.T) {
	out := markdownToHTML("see [site](https://example.org)")
	if !strings.Contains(out, `target="_blank"`) {
		t.Errorf("Expected target=_blank, got %s", out)
	}
}

func TestExporter(t *testing.T) {
	sc, err := storage.NewLocalStorageClient(filepath.Join(t.TempDir(), "exports"))
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	e := NewExporter(sc, charts.NewChartGenerator(640, 320), "1.0.0")
	e.now = func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	m, err := e.Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if m.Folder != "2024/03/01/ChartExport-2024-03-01-10-30-00" {
		t.Errorf("Unexpected folder %s", m.Folder)
	}
	if len(m.Artifacts) != len(dashboard.ChartIDs)*4 {
		t.Errorf("Expected %d artifacts, got %d", len(dashboard.ChartIDs)*4, len(m.Artifacts))
	}
	for _, a := range m.Artifacts {
		if a.Bytes == 0 {
			t.Errorf("Artifact %s is empty", a.Path)
		}
		if ok, _ := sc.FileExists(ctx, a.Path); !ok {
			t.Errorf("Artifact %s not stored", a.Path)
		}
	}

	e.now = func() time.Time { return time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC) }
	if _, err := e.Export(ctx); err != nil {
		t.Fatalf("Second export failed: %v", err)
	}

	folders, err := e.ListExports(ctx, 0)
	if err != nil {
		t.Fatalf("ListExports failed: %v", err)
	}
	if len(folders) != 2 || !strings.HasPrefix(folders[0], "2024/03/02") {
		t.Errorf("Expected newest export first, got %v", folders)
	}

	loaded, err := e.LoadManifest(ctx, m.Folder)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if loaded.Version != "1.0.0" || len(loaded.Artifacts) != len(m.Artifacts) {
		t.Errorf("Unexpected manifest %+v", loaded)
	}
}

func TestExporterCancelled(t *testing.T) {
	sc, err := storage.NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	e := NewExporter(sc, charts.NewChartGenerator(640, 320), "1.0.0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Export(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
