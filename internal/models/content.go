package models

import (
	"slices"

	"ednaviz/internal/projector"
)

func sample(label string, fields map[string]float64) projector.Sample {
	return projector.Sample{Label: label, Fields: fields}
}

var noveltyDataset = LineDataset{
	Title:  "Novel Species Detection by Depth",
	YLabel: "Count / Accuracy (%)",
	Height: 400,
	Series: []projector.SeriesDef{
		{Key: "novelSpecies", Color: "#ef4444", Label: "Novel Species"},
		{Key: "clusteringAccuracy", Color: "#10b981", Label: "Clustering Accuracy (%)"},
		{Key: "classificationTime", Color: "#3b82f6", Label: "Classification Time (s)"},
	},
	Data: []projector.Sample{
		sample("0-1km", map[string]float64{"depth": 1000, "novelSpecies": 12, "classificationTime": 45, "clusteringAccuracy": 89, "totalSpecies": 156}),
		sample("1-2km", map[string]float64{"depth": 2000, "novelSpecies": 28, "classificationTime": 52, "clusteringAccuracy": 91, "totalSpecies": 203}),
		sample("2-3km", map[string]float64{"depth": 3000, "novelSpecies": 45, "classificationTime": 67, "clusteringAccuracy": 94, "totalSpecies": 287}),
		sample("3-4km", map[string]float64{"depth": 4000, "novelSpecies": 67, "classificationTime": 78, "clusteringAccuracy": 96, "totalSpecies": 342}),
		sample("4-5km", map[string]float64{"depth": 5000, "novelSpecies": 89, "classificationTime": 85, "clusteringAccuracy": 97, "totalSpecies": 398}),
		sample("5km+", map[string]float64{"depth": 6000, "novelSpecies": 124, "classificationTime": 92, "clusteringAccuracy": 98, "totalSpecies": 456}),
	},
}

var pipelineDataset = LineDataset{
	Title:  "BERTax → DNABERT-S Pipeline Performance Over Time",
	YLabel: "Performance Metrics",
	Height: 400,
	Series: []projector.SeriesDef{
		{Key: "bertaxSpeed", Color: "#8b5cf6", Label: "BERTax Speed (seq/min)"},
		{Key: "dnabertAccuracy", Color: "#06b6d4", Label: "DNABERT-S Accuracy (%)"},
		{Key: "noveltyDetection", Color: "#f59e0b", Label: "Novelty Detection (%)"},
		{Key: "throughput", Color: "#10b981", Label: "Throughput (samples/day)"},
	},
	Data: []projector.Sample{
		sample("Week 1", map[string]float64{"week": 1, "bertaxSpeed": 23, "dnabertAccuracy": 87, "noveltyDetection": 78, "throughput": 145}),
		sample("Week 2", map[string]float64{"week": 2, "bertaxSpeed": 28, "dnabertAccuracy": 89, "noveltyDetection": 82, "throughput": 167}),
		sample("Week 3", map[string]float64{"week": 3, "bertaxSpeed": 34, "dnabertAccuracy": 92, "noveltyDetection": 85, "throughput": 189}),
		sample("Week 4", map[string]float64{"week": 4, "bertaxSpeed": 41, "dnabertAccuracy": 94, "noveltyDetection": 88, "throughput": 212}),
		sample("Week 5", map[string]float64{"week": 5, "bertaxSpeed": 47, "dnabertAccuracy": 96, "noveltyDetection": 91, "throughput": 234}),
		sample("Week 6", map[string]float64{"week": 6, "bertaxSpeed": 52, "dnabertAccuracy": 97, "noveltyDetection": 94, "throughput": 256}),
	},
}

var taxonomy = TaxonomyDistribution{
	Shares: []TaxonShare{
		{Name: "Arthropoda", Value: 35, Color: "#3b82f6"},
		{Name: "Mollusca", Value: 28, Color: "#10b981"},
		{Name: "Cnidaria", Value: 22, Color: "#f59e0b"},
		{Name: "Porifera", Value: 15, Color: "#ef4444"},
	},
	TotalSpecies: 1247,
}

var performance = []PerformanceMetric{
	{Name: "BERTax Speed", Value: 94, Benchmark: 85},
	{Name: "DNABERT-S Accuracy", Value: 97, Benchmark: 90},
	{Name: "Novelty Detection", Value: 91, Benchmark: 80},
	{Name: "Clustering Precision", Value: 96, Benchmark: 88},
}

var projects = []Project{
	{
		ID:            1,
		Name:          "Deep-Sea Vent Study 2024",
		Description:   "Comprehensive biodiversity analysis of **Pacific hydrothermal vents**",
		Status:        ProjectActive,
		Progress:      75,
		StartDate:     "1/15/2024",
		Location:      "Pacific Ocean • 2000-3500m",
		Collaborators: 4,
		Samples:       12,
		NovelTaxa:     7,
		Environment:   "Hydrothermal Vent",
		LastActivity:  "2 hours ago",
	},
	{
		ID:            2,
		Name:          "Abyssal Plain Monitoring",
		Description:   "Long-term monitoring of deep-sea plain ecosystems",
		Status:        ProjectCompleted,
		Progress:      100,
		StartDate:     "11/20/2023",
		Location:      "Atlantic Ocean • 4000-5000m",
		Collaborators: 6,
		Samples:       24,
		NovelTaxa:     3,
		Environment:   "Abyssal Plain",
		LastActivity:  "1 week ago",
	},
	{
		ID:            3,
		Name:          "Mariana Trench Expedition",
		Description:   "Extreme depth biodiversity assessment and *novel species* discovery",
		Status:        ProjectProcessing,
		Progress:      45,
		StartDate:     "3/10/2024",
		Location:      "Mariana Trench • 8000-11000m",
		Collaborators: 8,
		Samples:       18,
		NovelTaxa:     15,
		Environment:   "Ocean Trench",
		LastActivity:  "30 minutes ago",
	},
}

var statusPalettes = map[ProjectStatus]StatusPalette{
	ProjectActive:     {Background: "bg-green-100", Text: "text-green-800", Border: "border-green-200"},
	ProjectCompleted:  {Background: "bg-blue-100", Text: "text-blue-800", Border: "border-blue-200"},
	ProjectProcessing: {Background: "bg-yellow-100", Text: "text-yellow-800", Border: "border-yellow-200"},
	ProjectPaused:     {Background: "bg-gray-100", Text: "text-gray-800", Border: "border-gray-200"},
}

var environments = []string{"Hydrothermal Vent", "Abyssal Plain", "Mid-Ocean Ridge", "Ocean Trench"}

var recentAnalyses = []Analysis{
	{ID: 1, Name: "Mariana Trench Sample A1", Status: AnalysisCompleted, Species: 47, Novel: 8, Confidence: 94},
	{ID: 2, Name: "Abyssal Plain B2", Status: AnalysisProcessing, Species: 23, Novel: 3, Confidence: 89},
	{ID: 3, Name: "Hadal Zone C3", Status: AnalysisQueued},
	{ID: 4, Name: "Deep Trench D4", Status: AnalysisCompleted, Species: 62, Novel: 12, Confidence: 96},
}

var pipelineSteps = []PipelineStep{
	{Name: "Data Upload", Status: StepCompleted, Time: "2.3s", Description: "eDNA sequences uploaded and validated"},
	{Name: "BERTax Classification", Status: StepCompleted, Time: "45.2s", Description: "Fast taxonomic classification using BERTax model"},
	{Name: "DNABERT-S Novelty Detection", Status: StepProcessing, Time: "127.8s", Description: "Deep-sea creature novelty detection with DNABERT-S"},
	{Name: "Confidence Scoring", Status: StepPending, Time: "--", Description: "Statistical confidence analysis"},
	{Name: "Report Generation", Status: StepPending, Time: "--", Description: "Comprehensive analysis report"},
}

var stages = []Stage{
	{Title: "eDNA Upload", Description: "Upload FASTA/FASTQ files with deep-sea eDNA sequences", Details: "Supports FASTA, FASTQ, Multi-FASTA formats"},
	{Title: "BERTax Classification", Description: "Fast taxonomic classification using BERTax model", Details: "Rapid species identification and taxonomic assignment"},
	{Title: "DNABERT-S Novelty Detection", Description: "Deep-sea creature novelty detection with DNABERT-S", Details: "Specialized model for discovering unknown deep-sea species"},
	{Title: "Confidence Analysis", Description: "Statistical confidence scoring and validation", Details: "Confidence scores and biodiversity metrics"},
	{Title: "Results & Insights", Description: "Comprehensive reports with novel species discoveries", Details: "Deep-sea biodiversity analysis with visualizations"},
}

var features = []Feature{
	{Title: "Deep Learning Classification", Description: "Transformer models for accurate taxonomic classification"},
	{Title: "Novel Taxa Discovery", Description: "Identify previously unknown species in deep-sea environments"},
	{Title: "Optimized Workflows", Description: "Efficient pipeline design with parallel processing"},
	{Title: "Abundance Estimation", Description: "Quantitative biodiversity metrics with confidence intervals"},
	{Title: "Minimal Database Reliance", Description: "Reduced dependency on incomplete reference databases"},
	{Title: "Validated Results", Description: "High accuracy and reliability of taxonomic assignments"},
}

var liveMetrics = LiveMetrics{
	TotalSamples:      1247,
	SpeciesIdentified: 3892,
	NovelSpecies:      156,
	AvgConfidence:     94.2,
	ProcessingTime:    89.3,
	ActiveAnalyses:    7,
}

// NoveltyDataset returns novel species detection by depth
func NoveltyDataset() LineDataset {
	return cloneDataset(noveltyDataset)
}

// PipelineDataset returns weekly pipeline performance
func PipelineDataset() LineDataset {
	return cloneDataset(pipelineDataset)
}

// Taxonomy returns the phylum distribution of identified species
func Taxonomy() TaxonomyDistribution {
	return TaxonomyDistribution{
		Shares:       slices.Clone(taxonomy.Shares),
		TotalSpecies: taxonomy.TotalSpecies,
	}
}

// Performance returns model scores against their benchmarks
func Performance() []PerformanceMetric {
	return slices.Clone(performance)
}

// Projects returns the research projects in display order
func Projects() []Project {
	return slices.Clone(projects)
}

// FindProject looks up a project by ID
func FindProject(id int) (Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// Palette returns the badge coloring for a project status
func Palette(status ProjectStatus) StatusPalette {
	if p, ok := statusPalettes[status]; ok {
		return p
	}
	return statusPalettes[ProjectPaused]
}

// Environments returns the environment types offered for new projects
func Environments() []string {
	return slices.Clone(environments)
}

// RecentAnalyses returns the recent sample analyses
func RecentAnalyses() []Analysis {
	return slices.Clone(recentAnalyses)
}

// PipelineSteps returns the dashboard pipeline run steps
func PipelineSteps() []PipelineStep {
	return slices.Clone(pipelineSteps)
}

// Stages returns the marketing pipeline overview
func Stages() []Stage {
	return slices.Clone(stages)
}

// Features returns the product capability cards
func Features() []Feature {
	return slices.Clone(features)
}

// Metrics returns the headline dashboard numbers
func Metrics() LiveMetrics {
	return liveMetrics
}

func cloneDataset(ds LineDataset) LineDataset {
	out := ds
	out.Series = slices.Clone(ds.Series)
	out.Data = make([]projector.Sample, len(ds.Data))
	for i, s := range ds.Data {
		fields := make(map[string]float64, len(s.Fields))
		for k, v := range s.Fields {
			fields[k] = v
		}
		out.Data[i] = projector.Sample{Label: s.Label, Fields: fields}
	}
	return out
}
