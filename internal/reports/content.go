package reports

import (
	"fmt"
	"strings"

	"ednaviz/internal/models"
)

const heroMarkdown = `# Deep Sea to Discovery

AI-powered eDNA analysis for identifying marine species and assessing deep-sea biodiversity.

` + "```" + `
# Deep-Sea eDNA Analysis
>Sample_001_sequence_1
ATGCGATCGATCGATCGATCGATCGATCGATCGATC
Processing with AI model...
✓ Novel species identified: 3
` + "```" + `
`

// featuresMarkdown lists the product capabilities as a markdown section
func featuresMarkdown(features []models.Feature) string {
	var b strings.Builder
	b.WriteString("## Features\n\n")
	for _, f := range features {
		fmt.Fprintf(&b, "- **%s**: %s\n", f.Title, f.Description)
	}
	return b.String()
}

// pipelineMarkdown renders the pipeline stages as a numbered table
func pipelineMarkdown(stages []models.Stage) string {
	var b strings.Builder
	b.WriteString("## Pipeline\n\n")
	b.WriteString("| # | Stage | What it does | Details |\n")
	b.WriteString("|---|---|---|---|\n")
	for i, s := range stages {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", i+1, s.Title, s.Description, s.Details)
	}
	return b.String()
}
