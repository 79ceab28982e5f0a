package models

import (
	"math"
	"testing"

	"ednaviz/internal/projector"
)

func TestLineDatasetsProject(t *testing.T) {
	tests := []struct {
		name    string
		dataset LineDataset
		series  int
		minWant float64
		maxWant float64
	}{
		{"novelty", NoveltyDataset(), 3, 12 * 0.9, 124 * 1.1},
		{"pipeline", PipelineDataset(), 4, 23 * 0.9, 256 * 1.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.dataset.Data) != 6 {
				t.Errorf("Expected 6 samples, got %d", len(tt.dataset.Data))
			}
			if len(tt.dataset.Series) != tt.series {
				t.Errorf("Expected %d series, got %d", tt.series, len(tt.dataset.Series))
			}
			scale, err := projector.ComputeScale(tt.dataset.Data, tt.dataset.Series)
			if err != nil {
				t.Fatalf("ComputeScale failed: %v", err)
			}
			if math.Abs(scale.Min-tt.minWant) > 1e-9 || math.Abs(scale.Max-tt.maxWant) > 1e-9 {
				t.Errorf("Expected scale %v..%v, got %+v", tt.minWant, tt.maxWant, scale)
			}
		})
	}
}

func TestDatasetsAreCopies(t *testing.T) {
	ds := NoveltyDataset()
	ds.Data[0].Fields["novelSpecies"] = 9999
	ds.Series[0].Color = "#000000"

	fresh := NoveltyDataset()
	if fresh.Data[0].Fields["novelSpecies"] != 12 {
		t.Error("Mutating a returned dataset changed the shared content")
	}
	if fresh.Series[0].Color != "#ef4444" {
		t.Error("Mutating returned series changed the shared content")
	}

	p := Projects()
	p[0].Name = "changed"
	if Projects()[0].Name != "Deep-Sea Vent Study 2024" {
		t.Error("Mutating returned projects changed the shared content")
	}
}

func TestTaxonomySharesSumToHundred(t *testing.T) {
	total := 0
	for _, s := range Taxonomy().Shares {
		total += s.Value
	}
	if total != 100 {
		t.Errorf("Expected shares to sum to 100, got %d", total)
	}
	if Taxonomy().TotalSpecies != 1247 {
		t.Errorf("Expected 1247 species, got %d", Taxonomy().TotalSpecies)
	}
}

func TestPerformanceMetricDelta(t *testing.T) {
	for _, m := range Performance() {
		if m.Delta() != m.Value-m.Benchmark {
			t.Errorf("%s: unexpected delta %d", m.Name, m.Delta())
		}
		if !m.BeatsBenchmark() {
			t.Errorf("%s: expected to beat benchmark", m.Name)
		}
	}
	below := PerformanceMetric{Value: 70, Benchmark: 80}
	if below.BeatsBenchmark() || below.Delta() != -10 {
		t.Errorf("Unexpected comparison for %+v", below)
	}
}

func TestFindProject(t *testing.T) {
	p, ok := FindProject(3)
	if !ok || p.Name != "Mariana Trench Expedition" {
		t.Errorf("Expected Mariana Trench Expedition, got %+v ok=%v", p, ok)
	}
	if _, ok := FindProject(42); ok {
		t.Error("Expected unknown project lookup to fail")
	}
}

func TestPalette(t *testing.T) {
	if got := Palette(ProjectActive).Background; got != "bg-green-100" {
		t.Errorf("Expected bg-green-100, got %s", got)
	}
	if got := Palette("archived"); got != Palette(ProjectPaused) {
		t.Errorf("Expected unknown status to fall back to paused, got %+v", got)
	}
}
