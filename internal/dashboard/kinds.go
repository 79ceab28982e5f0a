package dashboard

import (
	"errors"
	"fmt"

	"ednaviz/internal/models"
)

var (
	ErrUnknownChart   = errors.New("unknown chart kind")
	ErrUnknownProject = errors.New("unknown project")
	ErrOutOfRange     = errors.New("point out of range")
)

// ChartKind is one of the analytics charts. The set is closed: every
// implementation lives in this package, so a type switch over the four
// variants is exhaustive.
type ChartKind interface {
	ID() string
	Title() string
	// Bounds returns how many series and samples the chart draws, which
	// limits the hover selection.
	Bounds() (series, samples int)
	sealed()
}

// PerformanceChart compares model scores with their benchmarks
type PerformanceChart struct {
	Metrics []models.PerformanceMetric
}

// TaxonomyChart shows species shares per phylum
type TaxonomyChart struct {
	Distribution models.TaxonomyDistribution
}

// NoveltyChart plots novel species detection by depth
type NoveltyChart struct {
	Dataset models.LineDataset
}

// PipelineChart plots pipeline performance over weeks
type PipelineChart struct {
	Dataset models.LineDataset
}

func (PerformanceChart) ID() string    { return "performance" }
func (PerformanceChart) Title() string { return "Model Performance" }
func (c PerformanceChart) Bounds() (int, int) {
	return 1, len(c.Metrics)
}
func (PerformanceChart) sealed() {}

func (TaxonomyChart) ID() string    { return "taxonomy" }
func (TaxonomyChart) Title() string { return "Taxonomic Distribution" }
func (c TaxonomyChart) Bounds() (int, int) {
	return 1, len(c.Distribution.Shares)
}
func (TaxonomyChart) sealed() {}

func (NoveltyChart) ID() string    { return "novelty" }
func (NoveltyChart) Title() string { return "Novelty Detection" }
func (c NoveltyChart) Bounds() (int, int) {
	return len(c.Dataset.Series), len(c.Dataset.Data)
}
func (NoveltyChart) sealed() {}

func (PipelineChart) ID() string    { return "pipeline" }
func (PipelineChart) Title() string { return "Pipeline Performance" }
func (c PipelineChart) Bounds() (int, int) {
	return len(c.Dataset.Series), len(c.Dataset.Data)
}
func (PipelineChart) sealed() {}

// DefaultChart is the chart shown before any selection
const DefaultChart = "performance"

// ChartIDs lists the chart kinds in navigation order
var ChartIDs = []string{"performance", "taxonomy", "novelty", "pipeline"}

// ParseChartKind returns the chart for id, loaded with its dataset
func ParseChartKind(id string) (ChartKind, error) {
	switch id {
	case "performance":
		return PerformanceChart{Metrics: models.Performance()}, nil
	case "taxonomy":
		return TaxonomyChart{Distribution: models.Taxonomy()}, nil
	case "novelty":
		return NoveltyChart{Dataset: models.NoveltyDataset()}, nil
	case "pipeline":
		return PipelineChart{Dataset: models.PipelineDataset()}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, id)
	}
}

// ChartKinds returns every chart in navigation order
func ChartKinds() []ChartKind {
	kinds := make([]ChartKind, 0, len(ChartIDs))
	for _, id := range ChartIDs {
		k, _ := ParseChartKind(id)
		kinds = append(kinds, k)
	}
	return kinds
}

// LineDataset returns the dataset behind a line chart. Bar and pie charts
// have none.
func LineDataset(k ChartKind) (models.LineDataset, bool) {
	switch c := k.(type) {
	case NoveltyChart:
		return c.Dataset, true
	case PipelineChart:
		return c.Dataset, true
	case PerformanceChart, TaxonomyChart:
		return models.LineDataset{}, false
	default:
		panic(fmt.Sprintf("dashboard: unhandled chart kind %T", k))
	}
}
