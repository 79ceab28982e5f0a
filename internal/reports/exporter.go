package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"ednaviz/internal/charts"
	"ednaviz/internal/dashboard"
	"ednaviz/internal/logger"
	"ednaviz/internal/storage"
)

// ManifestFile is the name of the index written into every export folder
const ManifestFile = "manifest.json"

// Artifact is one file of an export
type Artifact struct {
	Chart       string `json:"chart"`
	Format      string `json:"format"`
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Bytes       int    `json:"bytes"`
}

// Manifest describes a finished export
type Manifest struct {
	Folder      string     `json:"folder"`
	GeneratedAt time.Time  `json:"generated_at"`
	Version     string     `json:"version"`
	Artifacts   []Artifact `json:"artifacts"`
}

// Exporter writes every chart in every format to storage
type Exporter struct {
	storage storage.StorageClient
	charts  *charts.ChartGenerator
	version string
	now     func() time.Time
	log     *logger.Logger
}

func NewExporter(sc storage.StorageClient, cg *charts.ChartGenerator, version string) *Exporter {
	return &Exporter{
		storage: sc,
		charts:  cg,
		version: version,
		now:     time.Now,
		log:     logger.Component("exporter"),
	}
}

type renderFunc func(kind dashboard.ChartKind) ([]byte, error)

func (e *Exporter) formats() []struct {
	ext    string
	render renderFunc
} {
	return []struct {
		ext    string
		render renderFunc
	}{
		{"svg", func(k dashboard.ChartKind) ([]byte, error) {
			var buf bytes.Buffer
			err := e.charts.RenderStaticSVG(k, &buf)
			return buf.Bytes(), err
		}},
		{"png", func(k dashboard.ChartKind) ([]byte, error) {
			var buf bytes.Buffer
			err := e.charts.RenderPNG(k, &buf)
			return buf.Bytes(), err
		}},
		{"html", func(k dashboard.ChartKind) ([]byte, error) {
			var buf bytes.Buffer
			err := e.charts.RenderPage(k, &buf)
			return buf.Bytes(), err
		}},
		{"json", func(k dashboard.ChartKind) ([]byte, error) {
			g, err := e.charts.Geometry(k)
			if err != nil {
				return nil, err
			}
			return json.MarshalIndent(g, "", "  ")
		}},
	}
}

// Export renders all charts into a fresh timestamped folder and writes the
// manifest last, so a folder with a manifest is complete.
func (e *Exporter) Export(ctx context.Context) (*Manifest, error) {
	ts := e.now().UTC()
	folder := storage.GenerateExportFolderPath(ts)

	if err := e.storage.CreateDir(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to create export folder: %w", err)
	}

	m := &Manifest{Folder: folder, GeneratedAt: ts, Version: e.version}
	for _, kind := range dashboard.ChartKinds() {
		for _, f := range e.formats() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			data, err := f.render(kind)
			if err != nil {
				return nil, fmt.Errorf("failed to render %s as %s: %w", kind.ID(), f.ext, err)
			}
			name := path.Join(folder, kind.ID()+"."+f.ext)
			if err := e.storage.StoreFile(ctx, name, data); err != nil {
				return nil, fmt.Errorf("failed to store %s: %w", name, err)
			}
			m.Artifacts = append(m.Artifacts, Artifact{
				Chart:       kind.ID(),
				Format:      f.ext,
				Path:        name,
				ContentType: storage.GetContentType(name),
				Bytes:       len(data),
			})
		}
	}

	manifest, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := e.storage.StoreFile(ctx, path.Join(folder, ManifestFile), manifest); err != nil {
		return nil, fmt.Errorf("failed to store manifest: %w", err)
	}

	e.log.Info("export complete", logger.Fields{"folder": folder, "artifacts": len(m.Artifacts)})
	return m, nil
}

// ListExports returns completed export folders, newest first
func (e *Exporter) ListExports(ctx context.Context, limit int) ([]string, error) {
	files, err := e.storage.ListDir(ctx, "", true)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}

	var folders []string
	for _, f := range files {
		if path.Base(f) == ManifestFile {
			folders = append(folders, strings.TrimSuffix(f, "/"+ManifestFile))
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(folders)))
	if limit > 0 && limit < len(folders) {
		folders = folders[:limit]
	}
	return folders, nil
}

// LoadManifest reads the manifest of an export folder
func (e *Exporter) LoadManifest(ctx context.Context, folder string) (*Manifest, error) {
	data, err := e.storage.GetFile(ctx, path.Join(folder, ManifestFile))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest in %s: %w", folder, err)
	}
	return &m, nil
}
