package dashboard

import (
	"fmt"
	"sync"

	"ednaviz/internal/models"
	"ednaviz/internal/projector"
)

// AnalyticsView owns the active chart and its hover state.
type AnalyticsView struct {
	mu     sync.RWMutex
	active ChartKind
	hover  projector.HoverState
}

func NewAnalyticsView() *AnalyticsView {
	k, _ := ParseChartKind(DefaultChart)
	return &AnalyticsView{active: k}
}

// Select switches the active chart. Any hover selection is dropped since
// its indices refer to the previous chart.
func (v *AnalyticsView) Select(id string) error {
	k, err := ParseChartKind(id)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.active = k
	v.hover.Leave()
	return nil
}

// Active returns the active chart
func (v *AnalyticsView) Active() ChartKind {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.active
}

// Enter hovers the point (series, sample) of the active chart
func (v *AnalyticsView) Enter(series, sample int) error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	ns, nd := v.active.Bounds()
	if series < 0 || series >= ns || sample < 0 || sample >= nd {
		return fmt.Errorf("%w: (%d, %d) on %s", ErrOutOfRange, series, sample, v.active.ID())
	}
	v.hover.Enter(series, sample)
	return nil
}

// Leave clears the hover selection
func (v *AnalyticsView) Leave() {
	v.hover.Leave()
}

// Hover exposes the hover state for rendering
func (v *AnalyticsView) Hover() *projector.HoverState {
	return &v.hover
}

// ProjectsView owns the selected project and the new-project dialog.
type ProjectsView struct {
	mu             sync.RWMutex
	selected       models.Project
	showNewProject bool
}

func NewProjectsView() *ProjectsView {
	v := &ProjectsView{}
	if projects := models.Projects(); len(projects) > 0 {
		v.selected = projects[0]
	}
	return v
}

// Select makes the project with id the selected one
func (v *ProjectsView) Select(id int) error {
	p, ok := models.FindProject(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownProject, id)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected = p
	return nil
}

func (v *ProjectsView) Selected() models.Project {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selected
}

func (v *ProjectsView) OpenNewProject() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.showNewProject = true
}

func (v *ProjectsView) CloseNewProject() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.showNewProject = false
}

// ShowNewProject reports whether the new-project dialog is open
func (v *ProjectsView) ShowNewProject() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.showNewProject
}
