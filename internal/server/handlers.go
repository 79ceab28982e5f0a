package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"ednaviz/internal/animation"
	"ednaviz/internal/dashboard"
	"ednaviz/internal/logger"
	"ednaviz/internal/models"
	"ednaviz/internal/projector"
)

// HandleRoot serves the landing page
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page, err := s.Pages.BuildLanding()
	if err != nil {
		s.log.Error("failed to build landing page", err)
		http.Error(w, "Failed to build page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

// HandleDashboard serves the dashboard for the caller's session. A chart
// query parameter switches the active chart first.
func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := s.session(w, r)
	if id := r.URL.Query().Get("chart"); id != "" {
		if err := sess.Analytics.Select(id); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	page, err := s.Pages.BuildDashboard(sess, s.Charts, s.Config.CounterDuration)
	if err != nil {
		s.log.Error("failed to build dashboard", err, logger.Fields{"session": sess.ID})
		http.Error(w, "Failed to build page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   s.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"sessions":  s.Sessions.Len(),
		"checks": map[string]string{
			"storage": string(s.Config.StorageMode),
			"config":  "ok",
		},
	})
}

type chartInfo struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Series  int    `json:"series"`
	Samples int    `json:"samples"`
}

// HandleListCharts lists the available chart kinds
func (s *Server) HandleListCharts(w http.ResponseWriter, r *http.Request) {
	kinds := dashboard.ChartKinds()
	out := make([]chartInfo, len(kinds))
	for i, k := range kinds {
		series, samples := k.Bounds()
		out[i] = chartInfo{ID: k.ID(), Title: k.Title(), Series: series, Samples: samples}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"charts":  out,
		"default": dashboard.DefaultChart,
	})
}

// HandleChartGeometry returns the projected geometry of one chart
func (s *Server) HandleChartGeometry(w http.ResponseWriter, r *http.Request) {
	kind, err := dashboard.ParseChartKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	g, err := s.Charts.Geometry(kind)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleChartRender renders one chart as svg, png or a standalone html page
func (s *Server) HandleChartRender(w http.ResponseWriter, r *http.Request) {
	kind, err := dashboard.ParseChartKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, err)
		return
	}

	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format := r.PathValue("format"); format {
	case "svg":
		contentType = "image/svg+xml"
		if ds, ok := dashboard.LineDataset(kind); ok {
			buf.WriteString(s.Charts.RenderLineSVG(ds, nil))
		} else {
			err = s.Charts.RenderStaticSVG(kind, &buf)
		}
	case "png":
		contentType = "image/png"
		err = s.Charts.RenderPNG(kind, &buf)
	case "html":
		contentType = "text/html; charset=utf-8"
		err = s.Charts.RenderPage(kind, &buf)
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(buf.Bytes())
}

// maxCounterDuration bounds the frames a single request can ask for
const maxCounterDuration = time.Minute

type counterFrame struct {
	ElapsedMillis int64 `json:"elapsed_ms"`
	Value         int   `json:"value"`
}

// HandleCounter evaluates an animated counter. With t (milliseconds) it
// returns the value at that instant, otherwise every frame.
func (s *Server) HandleCounter(w http.ResponseWriter, r *http.Request) {
	target, err := queryInt(r, "target", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	durationMs, err := queryInt(r, "duration", int(s.Config.CounterDuration.Milliseconds()))
	if err != nil {
		writeError(w, err)
		return
	}
	duration := time.Duration(durationMs) * time.Millisecond
	if duration < 0 || duration > maxCounterDuration {
		writeError(w, fmt.Errorf("%w: duration must be between 0 and %dms", errBadRequest, maxCounterDuration.Milliseconds()))
		return
	}
	counter := animation.Counter{Target: target, Duration: duration}

	if r.URL.Query().Has("t") {
		t, err := queryInt(r, "t", 0)
		if err != nil {
			writeError(w, err)
			return
		}
		elapsed := time.Duration(t) * time.Millisecond
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"target":      target,
			"duration_ms": durationMs,
			"elapsed_ms":  t,
			"value":       counter.ValueAt(elapsed),
			"done":        counter.Done(elapsed),
		})
		return
	}

	stepMs, err := queryInt(r, "step", int(s.Config.FrameInterval.Milliseconds()))
	if err != nil {
		writeError(w, err)
		return
	}
	if stepMs <= 0 {
		writeError(w, fmt.Errorf("%w: step must be positive", errBadRequest))
		return
	}

	frames := counter.Frames(time.Duration(stepMs) * time.Millisecond)
	out := make([]counterFrame, len(frames))
	for i, f := range frames {
		out[i] = counterFrame{ElapsedMillis: f.ElapsedMillis(), Value: f.Value}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"target":      target,
		"duration_ms": durationMs,
		"frames":      out,
	})
}

// ProjectRequest is an ad-hoc dataset to project
type ProjectRequest struct {
	Samples []projector.Sample    `json:"samples"`
	Series  []projector.SeriesDef `json:"series"`
	Height  float64               `json:"height"`
}

// HandleProject projects a caller-supplied dataset and returns its geometry
func (s *Server) HandleProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	height := req.Height
	if height <= 0 {
		height = float64(s.Config.ChartHeight)
	}

	chart, err := projector.Build(req.Samples, req.Series, projector.NewPlotGeometry(height))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

// HandleProjects lists the research projects
func (s *Server) HandleProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projects":     models.Projects(),
		"environments": models.Environments(),
	})
}

// HandleAnalyses lists recent sample analyses and the pipeline steps
func (s *Server) HandleAnalyses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": models.RecentAnalyses(),
		"steps":    models.PipelineSteps(),
	})
}

// HandleMetrics returns the headline metrics
func (s *Server) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"metrics":     models.Metrics(),
		"performance": models.Performance(),
	})
}

// HandleExport writes every chart to storage
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Try to acquire the mutex - if already locked, return error immediately
	if !s.exportMutex.TryLock() {
		s.log.Warn("export already in progress, rejecting new request")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "Export already in progress",
			"message": "Another export is currently running. Please wait for it to complete before starting a new one.",
			"status":  "conflict",
		})
		return
	}
	defer s.exportMutex.Unlock()

	s.log.Info("starting chart export")
	manifest, err := s.Exporter.Export(r.Context())
	if err != nil {
		s.log.Error("export failed", err)
		http.Error(w, "Export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, manifest)
}

// HandleListExports lists recent exports
func (s *Server) HandleListExports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, err := queryInt(r, "limit", 10)
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	folders, err := s.Exporter.ListExports(r.Context(), limit)
	if err != nil {
		s.log.Error("failed to list exports", err)
		http.Error(w, "Failed to list exports: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exports":   folders,
		"count":     len(folders),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleFileProxy serves stored export files
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, contentType, err := s.Files.Load(r.Context(), r.URL.Path, "/files/")
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.log.Error("failed to get file from storage", err, logger.Fields{"path": r.URL.Path})
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
