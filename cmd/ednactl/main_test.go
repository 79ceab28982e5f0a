package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"ednaviz/internal/animation"
	"ednaviz/internal/config"
	"ednaviz/internal/server"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderFormats(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		prefix string
	}{
		{"line svg", []string{"render", "--kind", "novelty", "--format", "svg"}, "<svg"},
		{"bar png", []string{"render", "--kind", "performance", "--format", "png"}, "\x89PNG"},
		{"pie html", []string{"render", "--kind", "taxonomy", "--format", "html"}, ""},
		{"json", []string{"render", "--kind", "pipeline", "--format", "json"}, "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("render failed: %v", err)
			}
			if len(out) == 0 || !strings.HasPrefix(out, tt.prefix) {
				t.Errorf("Expected output starting with %q, got %d bytes", tt.prefix, len(out))
			}
		})
	}
}

func TestRenderToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.json")
	if _, err := execute(t, "render", "--kind", "novelty", "--format", "json", "-o", path, "--height", "300"); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	var g struct {
		Kind string `json:"kind"`
		Line struct {
			Geometry struct {
				Height float64 `json:"height"`
			} `json:"geometry"`
		} `json:"line"`
	}
	if err := json.Unmarshal(data, &g); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if g.Kind != "novelty" {
		t.Errorf("Expected novelty, got %s", g.Kind)
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := execute(t, "render", "--kind", "bogus"); err == nil {
		t.Error("Expected error for unknown kind")
	}
	if _, err := execute(t, "render", "--format", "gif"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestServerCommands(t *testing.T) {
	cfg := &config.Config{
		StorageMode:      config.StorageLocal,
		LocalExportDir:   t.TempDir(),
		ChartHeight:      400,
		ChartWidth:       960,
		CounterDuration:  time.Second,
		AnalysisDuration: time.Second,
		ClockInterval:    time.Hour,
		FrameInterval:    16 * time.Millisecond,
		SessionTTL:       time.Minute,
	}
	srv, err := server.NewServer(context.Background(), cfg, "test")
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	ts := httptest.NewServer(srv.SetupRoutes())
	defer ts.Close()
	defer srv.Close()

	out, err := execute(t, "geometry", "--server", ts.URL, "--kind", "taxonomy")
	if err != nil {
		t.Fatalf("geometry failed: %v", err)
	}
	if !strings.Contains(out, `"Arthropoda"`) {
		t.Errorf("Expected taxonomy shares, got %s", out)
	}

	out, err = execute(t, "geometry", "--server", ts.URL, "--kind", "all")
	if err != nil {
		t.Fatalf("geometry all failed: %v", err)
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &all); err != nil || len(all) != 4 {
		t.Errorf("Expected 4 charts, got %d (%v)", len(all), err)
	}

	out, err = execute(t, "export", "--server", ts.URL)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.HasPrefix(out, "exported 16 files to ") {
		t.Errorf("Unexpected export output %q", out)
	}

	out, err = execute(t, "export", "--server", ts.URL, "--list")
	if err != nil {
		t.Fatalf("export --list failed: %v", err)
	}
	if !strings.Contains(out, "ChartExport-") || !strings.Contains(out, "16 files") {
		t.Errorf("Unexpected list output %q", out)
	}
}

// stepScheduler ticks synchronously every step until the tick asks to stop
type stepScheduler struct {
	step time.Duration
}

func (s stepScheduler) Schedule(tick func(time.Time) bool) animation.CancelFunc {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for tick(now) {
		now = now.Add(s.step)
	}
	return func() {}
}

// idleScheduler never ticks
type idleScheduler struct{}

func (idleScheduler) Schedule(func(time.Time) bool) animation.CancelFunc { return func() {} }

func TestPlayCounter(t *testing.T) {
	var out bytes.Buffer
	c := animation.Counter{Target: 100, Duration: time.Second}
	if err := playCounter(context.Background(), &out, c, stepScheduler{step: 50 * time.Millisecond}); err != nil {
		t.Fatalf("playCounter failed: %v", err)
	}

	lines := strings.Fields(out.String())
	if len(lines) < 2 {
		t.Fatalf("Expected several frames, got %q", out.String())
	}
	prev := -1
	for _, line := range lines {
		v, err := strconv.Atoi(line)
		if err != nil {
			t.Fatalf("Expected integer frame, got %q", line)
		}
		if v <= prev {
			t.Errorf("Expected strictly increasing values, got %d after %d", v, prev)
		}
		prev = v
	}
	if lines[0] != "0" || lines[len(lines)-1] != "100" {
		t.Errorf("Expected 0 through 100, got %s..%s", lines[0], lines[len(lines)-1])
	}
}

func TestPlayCounterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := playCounter(ctx, &out, animation.Counter{Target: 10, Duration: time.Second}, idleScheduler{})
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}
}

func TestCounterCommand(t *testing.T) {
	out, err := execute(t, "counter", "--target", "50", "--duration", "20ms", "--interval", "1ms")
	if err != nil {
		t.Fatalf("counter failed: %v", err)
	}
	lines := strings.Fields(out)
	if len(lines) == 0 || lines[len(lines)-1] != "50" {
		t.Errorf("Expected final value 50, got %q", out)
	}

	if _, err := execute(t, "counter", "--target", "-1"); err == nil {
		t.Error("Expected error for negative target")
	}
}
