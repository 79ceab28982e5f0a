package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"ednaviz/internal/charts"
	"ednaviz/internal/config"
	"ednaviz/internal/dashboard"
	"ednaviz/internal/logger"
	"ednaviz/internal/reports"
	"ednaviz/internal/storage"
)

// Server represents the main application server
type Server struct {
	Config   *config.Config
	Version  string
	Storage  storage.StorageClient
	Sessions *dashboard.SessionStore
	Charts   *charts.ChartGenerator
	Pages    *reports.HTMLBuilder
	Exporter *reports.Exporter
	Files    *FileManager

	exportMutex sync.Mutex
	log         *logger.Logger
}

// NewServer creates a server, opening the storage configured in cfg
func NewServer(ctx context.Context, cfg *config.Config, version string) (*Server, error) {
	sc, err := storage.NewStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	s, err := NewServerWithStorage(cfg, sc, version)
	if err != nil {
		sc.Close()
		return nil, err
	}
	return s, nil
}

// NewServerWithStorage creates a server on an already opened storage client
func NewServerWithStorage(cfg *config.Config, sc storage.StorageClient, version string) (*Server, error) {
	pages, err := reports.NewHTMLBuilder(version)
	if err != nil {
		return nil, err
	}
	cg := charts.NewChartGenerator(cfg.ChartWidth, cfg.ChartHeight)

	sessions := dashboard.NewSessionStore(dashboard.StoreConfig{
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.MaxSessions,
		Monitor: func() dashboard.MonitorConfig {
			return dashboard.MonitorConfig{
				ClockInterval:    cfg.ClockInterval,
				AnalysisDuration: cfg.AnalysisDuration,
			}
		},
	})

	s := &Server{
		Config:   cfg,
		Version:  version,
		Storage:  sc,
		Sessions: sessions,
		Charts:   cg,
		Pages:    pages,
		Exporter: reports.NewExporter(sc, cg, version),
		Files:    NewFileManager(sc),
		log:      logger.Component("server"),
	}
	s.log.Info("server initialized", logger.Fields{
		"storage": string(cfg.StorageMode),
		"version": version,
		"chart":   fmt.Sprintf("%dx%d", cfg.ChartWidth, cfg.ChartHeight),
	})
	return s, nil
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/dashboard", s.HandleDashboard)
	mux.HandleFunc("/export", s.HandleExport)
	mux.HandleFunc("/exports", s.HandleListExports)
	mux.HandleFunc("/exports.atom", s.HandleExportFeed)
	mux.HandleFunc("/files/", s.HandleFileProxy)

	mux.HandleFunc("GET /api/charts", s.HandleListCharts)
	mux.HandleFunc("GET /api/charts/{kind}", s.HandleChartGeometry)
	mux.HandleFunc("GET /api/charts/{kind}/{format}", s.HandleChartRender)
	mux.HandleFunc("GET /api/counter", s.HandleCounter)
	mux.HandleFunc("POST /api/project", s.HandleProject)

	mux.HandleFunc("POST /api/session", s.HandleNewSession)
	mux.HandleFunc("GET /api/session", s.HandleGetSession)
	mux.HandleFunc("DELETE /api/session", s.HandleDeleteSession)
	mux.HandleFunc("POST /api/session/chart", s.HandleSelectChart)
	mux.HandleFunc("POST /api/session/hover", s.HandleHover)
	mux.HandleFunc("POST /api/session/project", s.HandleSelectProject)
	mux.HandleFunc("POST /api/session/modal", s.HandleModal)
	mux.HandleFunc("POST /api/session/analysis", s.HandleStartAnalysis)
	mux.HandleFunc("POST /api/session/sample", s.HandleSelectSample)

	mux.HandleFunc("GET /api/projects", s.HandleProjects)
	mux.HandleFunc("GET /api/analyses", s.HandleAnalyses)
	mux.HandleFunc("GET /api/metrics", s.HandleMetrics)

	// catch-all
	mux.HandleFunc("/", s.HandleRoot)

	return mux
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
