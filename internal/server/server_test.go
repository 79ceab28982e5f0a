package server

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ednaviz/internal/config"
	"ednaviz/internal/dashboard"
	"ednaviz/internal/storage"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	return newTestServerWith(t, func(*config.Config) {})
}

func newTestServerWith(t *testing.T, adjust func(*config.Config)) (*Server, http.Handler) {
	t.Helper()
	cfg := &config.Config{
		Port:             "0",
		Environment:      "test",
		StorageMode:      config.StorageLocal,
		LocalExportDir:   t.TempDir(),
		ChartHeight:      400,
		ChartWidth:       960,
		CounterDuration:  2 * time.Second,
		AnalysisDuration: time.Hour,
		ClockInterval:    time.Hour,
		FrameInterval:    16 * time.Millisecond,
		SessionTTL:       30 * time.Minute,
		MaxSessions:      100,
	}
	adjust(cfg)
	s, err := NewServer(context.Background(), cfg, "1.2.3")
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s.Sessions.Run(ctx, time.Hour)
		s.Close()
	})
	return s, s.SetupRoutes()
}

// client replays the session cookie between requests
type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (c *client) do(method, target, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == SessionCookie {
			if ck.MaxAge < 0 {
				c.cookie = nil
			} else {
				c.cookie = ck
			}
		}
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	c := &client{t: t, handler: h}

	rec := c.do(http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	decode(t, rec, &body)
	if body["status"] != "healthy" || body["version"] != "1.2.3" {
		t.Errorf("Unexpected health body %v", body)
	}

	if rec := c.do(http.MethodPost, "/health", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestPages(t *testing.T) {
	_, h := newTestServer(t)
	c := &client{t: t, handler: h}

	rec := c.do(http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Deep Sea to Discovery") {
		t.Errorf("Expected landing page, got %d", rec.Code)
	}
	if rec := c.do(http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown page, got %d", rec.Code)
	}

	rec = c.do(http.MethodGet, "/dashboard?chart=novelty", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if c.cookie == nil {
		t.Fatal("Expected a session cookie")
	}
	if !strings.Contains(rec.Body.String(), "Novel Species Detection by Depth") {
		t.Error("Expected novelty chart on dashboard")
	}

	// the session remembers the chart
	rec = c.do(http.MethodGet, "/api/session", "")
	var snap dashboard.Snapshot
	decode(t, rec, &snap)
	if snap.ActiveChart != "novelty" {
		t.Errorf("Expected novelty, got %s", snap.ActiveChart)
	}

	if rec := c.do(http.MethodGet, "/dashboard?chart=bogus", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown chart, got %d", rec.Code)
	}
}

func TestChartEndpoints(t *testing.T) {
	_, h := newTestServer(t)
	c := &client{t: t, handler: h}

	rec := c.do(http.MethodGet, "/api/charts", "")
	var list struct {
		Charts  []chartInfo `json:"charts"`
		Default string      `json:"default"`
	}
	decode(t, rec, &list)
	if len(list.Charts) != 4 || list.Default != "performance" {
		t.Errorf("Unexpected chart list %+v", list)
	}

	rec = c.do(http.MethodGet, "/api/charts/novelty", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var geom struct {
		Kind string `json:"kind"`
		Line struct {
			Series []struct {
				Line string `json:"line"`
			} `json:"series"`
		} `json:"line"`
	}
	decode(t, rec, &geom)
	if geom.Kind != "novelty" || len(geom.Line.Series) != 3 {
		t.Errorf("Unexpected geometry %+v", geom)
	}
	if !strings.HasPrefix(geom.Line.Series[0].Line, "M ") {
		t.Errorf("Expected path string, got %q", geom.Line.Series[0].Line)
	}

	if rec := c.do(http.MethodGet, "/api/charts/bogus", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown kind, got %d", rec.Code)
	}

	tests := []struct {
		path        string
		status      int
		contentType string
		prefix      string
	}{
		{"/api/charts/pipeline/svg", http.StatusOK, "image/svg+xml", "<svg"},
		{"/api/charts/taxonomy/svg", http.StatusOK, "image/svg+xml", ""},
		{"/api/charts/performance/png", http.StatusOK, "image/png", "\x89PNG"},
		{"/api/charts/novelty/html", http.StatusOK, "text/html; charset=utf-8", ""},
		{"/api/charts/novelty/gif", http.StatusNotFound, "", ""},
		{"/api/charts/bogus/svg", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := c.do(http.MethodGet, tt.path, "")
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d", tt.status, rec.Code)
			}
			if tt.contentType != "" && rec.Header().Get("Content-Type") != tt.contentType {
				t.Errorf("Expected %s, got %s", tt.contentType, rec.Header().Get("Content-Type"))
			}
			if !strings.HasPrefix(rec.Body.String(), tt.prefix) {
				t.Errorf("Expected body to start with %q", tt.prefix)
			}
		})
	}
}

func TestCounter(t *testing.T) {
	_, h := newTestServer(t)
	c := &client{t: t, handler: h}

	rec := c.do(http.MethodGet, "/api/counter?target=100&duration=2000&t=1000", "")
	var at struct {
		Value int  `json:"value"`
		Done  bool `json:"done"`
	}
	decode(t, rec, &at)
	if at.Value != 93 || at.Done {
		t.Errorf("Expected 93 not done, got %+v", at)
	}

	rec = c.do(http.MethodGet, "/api/counter?target=100&duration=2000&t=5000", "")
	decode(t, rec, &at)
	if at.Value != 100 || !at.Done {
		t.Errorf("Expected 100 done, got %+v", at)
	}

	rec = c.do(http.MethodGet, "/api/counter?target=100&duration=2000&step=500", "")
	var frames struct {
		Frames []counterFrame `json:"frames"`
	}
	decode(t, rec, &frames)
	if len(frames.Frames) != 5 {
		t.Fatalf("Expected 5 frames, got %d", len(frames.Frames))
	}
	last := frames.Frames[4]
	if last.Value != 100 || last.ElapsedMillis != 2000 {
		t.Errorf("Expected final frame 100 at 2000ms, got %+v", last)
	}

	for _, q := range []string{"target=x", "duration=-1", "duration=999999", "step=0", "t=abc"} {
		if rec := c.do(http.MethodGet, "/api/counter?"+q, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestProject(t *testing.T) {
	_, h := newTestServer(t)
	c := &client{t: t, handler: h}

	body := `{"height":220,"series":[{"key":"v","color":"#000","label":"V"}],
		"samples":[{"label":"a","fields":{"v":10}},{"label":"b","fields":{"v":20}}]}`
	rec := c.do(http.MethodPost, "/api/project", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var chart struct {
		Scale struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"scale"`
		Labels []string `json:"labels"`
	}
	decode(t, rec, &chart)
	if math.Abs(chart.Scale.Min-9) > 1e-9 || math.Abs(chart.Scale.Max-22) > 1e-9 {
		t.Errorf("Expected scale 9..22, got %+v", chart.Scale)
	}
	if len(chart.Labels) != 2 {
		t.Errorf("Expected 2 labels, got %v", chart.Labels)
	}

	tests := []struct {
		name       string
		body       string
		status     int
		emptyState bool
	}{
		{"no samples", `{"series":[{"key":"v"}],"samples":[]}`, http.StatusUnprocessableEntity, true},
		{"no series", `{"samples":[{"label":"a","fields":{"v":1}}]}`, http.StatusUnprocessableEntity, true},
		{"bad json", `{`, http.StatusBadRequest, false},
		{"values near float64 limit", `{"series":[{"key":"v"}],
			"samples":[{"label":"a","fields":{"v":1e308}},{"label":"b","fields":{"v":1.7e308}}]}`,
			http.StatusUnprocessableEntity, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.do(http.MethodPost, "/api/project", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d", tt.status, rec.Code)
			}
			var e map[string]interface{}
			decode(t, rec, &e)
			if e["error"] == nil {
				t.Errorf("Expected error body, got %v", e)
			}
			if tt.emptyState && e["empty_state"] != EmptyState {
				t.Errorf("Expected empty state body, got %v", e)
			}
			if !tt.emptyState && e["empty_state"] != nil {
				t.Errorf("Expected no empty state, got %v", e["empty_state"])
			}
		})
	}
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]float64{"y": math.NaN()})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("Expected an error body")
	}
	if ct := rec.Header().Get("Content-Type"); strings.HasPrefix(ct, "application/json") {
		t.Errorf("Expected plain text error, got %s", ct)
	}

	rec = httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]int{"n": 1})
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"n":1}` {
		t.Errorf("Expected {\"n\":1}, got %s", rec.Body.String())
	}
}

func TestSessionFlow(t *testing.T) {
	s, h := newTestServer(t)
	c := &client{t: t, handler: h}

	rec := c.do(http.MethodPost, "/api/session", "")
	if rec.Code != http.StatusCreated || c.cookie == nil {
		t.Fatalf("Expected 201 with cookie, got %d", rec.Code)
	}
	var snap dashboard.Snapshot
	decode(t, rec, &snap)
	if snap.ActiveChart != dashboard.DefaultChart || snap.SelectedProject != 1 {
		t.Errorf("Unexpected initial snapshot %+v", snap)
	}

	steps := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"select chart", "/api/session/chart", `{"chart":"pipeline"}`, http.StatusOK},
		{"unknown chart", "/api/session/chart", `{"chart":"bogus"}`, http.StatusNotFound},
		{"hover", "/api/session/hover", `{"series":3,"sample":5}`, http.StatusOK},
		{"hover out of range", "/api/session/hover", `{"series":4,"sample":0}`, http.StatusUnprocessableEntity},
		{"select project", "/api/session/project", `{"id":3}`, http.StatusOK},
		{"unknown project", "/api/session/project", `{"id":42}`, http.StatusNotFound},
		{"open modal", "/api/session/modal", `{"open":true}`, http.StatusOK},
		{"select sample", "/api/session/sample", `{"id":2}`, http.StatusOK},
		{"unknown sample", "/api/session/sample", `{"id":9}`, http.StatusUnprocessableEntity},
		{"analysis", "/api/session/analysis", `{}`, http.StatusAccepted},
	}
	for _, st := range steps {
		if rec := c.do(http.MethodPost, st.path, st.body); rec.Code != st.status {
			t.Errorf("%s: expected %d, got %d (%s)", st.name, st.status, rec.Code, rec.Body.String())
		}
	}

	rec = c.do(http.MethodGet, "/api/session", "")
	decode(t, rec, &snap)
	if snap.ActiveChart != "pipeline" {
		t.Errorf("Expected pipeline, got %s", snap.ActiveChart)
	}
	if snap.Hover == nil || snap.Hover.Series != 3 || snap.Hover.Sample != 5 {
		t.Errorf("Expected hover 3/5, got %+v", snap.Hover)
	}
	if snap.SelectedProject != 3 || !snap.ShowNewProject || snap.SelectedSample != 2 || !snap.Processing {
		t.Errorf("Unexpected snapshot %+v", snap)
	}

	if rec := c.do(http.MethodPost, "/api/session/hover", `{"leave":true}`); rec.Code != http.StatusOK {
		t.Errorf("Expected leave to succeed, got %d", rec.Code)
	}

	if rec := c.do(http.MethodDelete, "/api/session", ""); rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}
	if s.Sessions.Len() != 0 {
		t.Errorf("Expected no sessions, got %d", s.Sessions.Len())
	}
	if rec := c.do(http.MethodDelete, "/api/session", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rec.Code)
	}
}

func TestCookielessRequestsStayBounded(t *testing.T) {
	s, h := newTestServerWith(t, func(cfg *config.Config) { cfg.MaxSessions = 3 })

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/session", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		var snap dashboard.Snapshot
		decode(t, rec, &snap)
		if snap.Clock.IsZero() {
			t.Error("Expected clock in snapshot")
		}
	}
	if n := s.Sessions.Len(); n != 3 {
		t.Errorf("Expected session count capped at 3, got %d", n)
	}
}

func TestStartAnalysisFormRedirects(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/session/analysis", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("Expected redirect to /dashboard, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
}

func TestCatalogEndpoints(t *testing.T) {
	_, h := newTestServer(t)
	c := &client{t: t, handler: h}

	for path, key := range map[string]string{
		"/api/projects": "projects",
		"/api/analyses": "analyses",
		"/api/metrics":  "metrics",
	} {
		rec := c.do(http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
			continue
		}
		var body map[string]json.RawMessage
		decode(t, rec, &body)
		if _, ok := body[key]; !ok {
			t.Errorf("%s: missing %q", path, key)
		}
	}
}

func TestExportAndFiles(t *testing.T) {
	s, h := newTestServer(t)
	c := &client{t: t, handler: h}

	if rec := c.do(http.MethodGet, "/export", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}

	rec := c.do(http.MethodPost, "/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var manifest struct {
		Folder    string `json:"folder"`
		Artifacts []struct {
			Path        string `json:"path"`
			ContentType string `json:"content_type"`
		} `json:"artifacts"`
	}
	decode(t, rec, &manifest)
	if len(manifest.Artifacts) != 16 {
		t.Fatalf("Expected 16 artifacts, got %d", len(manifest.Artifacts))
	}

	rec = c.do(http.MethodGet, "/exports?limit=5", "")
	var list struct {
		Exports []string `json:"exports"`
		Count   int      `json:"count"`
	}
	decode(t, rec, &list)
	if list.Count != 1 || list.Exports[0] != manifest.Folder {
		t.Errorf("Expected export %s, got %+v", manifest.Folder, list)
	}

	rec = c.do(http.MethodGet, "/exports.atom", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for feed, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<entry>") || !strings.Contains(rec.Body.String(), `rel="enclosure"`) {
		t.Errorf("Expected feed entry with enclosures, got %s", rec.Body.String())
	}

	a := manifest.Artifacts[0]
	rec = c.do(http.MethodGet, "/files/"+a.Path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != a.ContentType {
		t.Errorf("Expected %s, got %s", a.ContentType, rec.Header().Get("Content-Type"))
	}

	if rec := c.do(http.MethodGet, "/files/missing.json", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}

	s.exportMutex.Lock()
	rec = c.do(http.MethodPost, "/export", "")
	s.exportMutex.Unlock()
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 while exporting, got %d", rec.Code)
	}
}

func TestFileProxyRejectsEscapes(t *testing.T) {
	s, _ := newTestServer(t)

	for _, p := range []string{"/files/a/../../secret", "/files/", "/files//etc/passwd"} {
		req := httptest.NewRequest(http.MethodGet, "/files/x", nil)
		req.URL.Path = p
		rec := httptest.NewRecorder()
		s.HandleFileProxy(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", p, rec.Code)
		}
	}

	_, _, err := s.Files.Load(context.Background(), "/files/../x", "/files/")
	if !errors.Is(err, storage.ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath, got %v", err)
	}
}
