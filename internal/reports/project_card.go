package reports

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"ednaviz/internal/models"
)

// ProjectCard is a project prepared for display
type ProjectCard struct {
	models.Project
	Palette     models.StatusPalette
	Description template.HTML
	Selected    bool
}

// NewProjectCard renders the project's markdown description
func NewProjectCard(p models.Project, selected bool) ProjectCard {
	return ProjectCard{
		Project:     p,
		Palette:     models.Palette(p.Status),
		Description: template.HTML(markdownToHTML(p.Description)),
		Selected:    selected,
	}
}

// markdownToHTML converts short markdown snippets; links open in a new tab
func markdownToHTML(markdownText string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(markdownText))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	opts := html.RendererOptions{Flags: htmlFlags}
	renderer := html.NewRenderer(opts)

	return string(markdown.Render(doc, renderer))
}
