package models

import "ednaviz/internal/projector"

// LineDataset is an ordered sample sequence with the series drawn from it
type LineDataset struct {
	Title  string                `json:"title"`
	YLabel string                `json:"y_label"`
	Height float64               `json:"height"` // canvas height in px
	Series []projector.SeriesDef `json:"series"`
	Data   []projector.Sample    `json:"data"`
}

// PerformanceMetric is a model score compared against its benchmark
type PerformanceMetric struct {
	Name      string `json:"name"`
	Value     int    `json:"value"`     // percent
	Benchmark int    `json:"benchmark"` // percent
}

// Delta returns the signed distance to the benchmark
func (m PerformanceMetric) Delta() int {
	return m.Value - m.Benchmark
}

// BeatsBenchmark reports whether the score is above its benchmark
func (m PerformanceMetric) BeatsBenchmark() bool {
	return m.Value > m.Benchmark
}

// TaxonShare is one phylum's share of identified species
type TaxonShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"` // percent of total species
	Color string `json:"color"`
}

// TaxonomyDistribution groups taxon shares with the overall species count
type TaxonomyDistribution struct {
	Shares       []TaxonShare `json:"shares"`
	TotalSpecies int          `json:"total_species"`
}

// ProjectStatus is the lifecycle state of a research project
type ProjectStatus string

const (
	ProjectActive     ProjectStatus = "active"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectProcessing ProjectStatus = "processing"
	ProjectPaused     ProjectStatus = "paused"
)

// StatusPalette is the badge coloring of a project status
type StatusPalette struct {
	Background string `json:"bg"`
	Text       string `json:"text"`
	Border     string `json:"border"`
}

// Project is a research project shown in project management
type Project struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"` // markdown
	Status        ProjectStatus `json:"status"`
	Progress      int           `json:"progress"` // percent
	StartDate     string        `json:"start_date"`
	Location      string        `json:"location"`
	Collaborators int           `json:"collaborators"`
	Samples       int           `json:"samples"`
	NovelTaxa     int           `json:"novel_taxa"`
	Environment   string        `json:"environment"`
	LastActivity  string        `json:"last_activity"`
}

// AnalysisStatus is the queue state of a sample analysis
type AnalysisStatus string

const (
	AnalysisCompleted  AnalysisStatus = "completed"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisQueued     AnalysisStatus = "queued"
)

// Analysis is one entry of the recent analyses table
type Analysis struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Status     AnalysisStatus `json:"status"`
	Species    int            `json:"species"`
	Novel      int            `json:"novel"`
	Confidence int            `json:"confidence"` // percent
}

// StepStatus is the progress state of a pipeline step
type StepStatus string

const (
	StepCompleted  StepStatus = "completed"
	StepProcessing StepStatus = "processing"
	StepPending    StepStatus = "pending"
)

// PipelineStep is one stage of the classification run shown on the dashboard
type PipelineStep struct {
	Name        string     `json:"name"`
	Status      StepStatus `json:"status"`
	Time        string     `json:"time"`
	Description string     `json:"description"`
}

// Stage is one step of the marketing pipeline overview
type Stage struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Details     string `json:"details"`
}

// Feature is a product capability card
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LiveMetrics are the headline numbers of the monitor dashboard
type LiveMetrics struct {
	TotalSamples      int     `json:"total_samples"`
	SpeciesIdentified int     `json:"species_identified"`
	NovelSpecies      int     `json:"novel_species"`
	AvgConfidence     float64 `json:"avg_confidence"`
	ProcessingTime    float64 `json:"processing_time"` // seconds
	ActiveAnalyses    int     `json:"active_analyses"`
}
