// Package fetchers is the HTTP client of the dashboard API.
package fetchers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"

	"ednaviz/internal/charts"
	"ednaviz/internal/logger"
	"ednaviz/internal/projector"
	"ednaviz/internal/reports"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmptyInput = errors.New("nothing to draw")
	ErrBusy       = errors.New("export already in progress")
)

// ChartInfo describes one chart kind offered by the server
type ChartInfo struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Series  int    `json:"series"`
	Samples int    `json:"samples"`
}

// ChartFetcher talks to a running dashboard server
type ChartFetcher struct {
	client *resty.Client
	parser *gofeed.Parser
	log    *logger.Logger
}

// NewChartFetcher creates a fetcher for the server at baseURL
func NewChartFetcher(baseURL string) *ChartFetcher {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)

	return &ChartFetcher{
		client: client,
		parser: gofeed.NewParser(),
		log:    logger.Component("fetcher"),
	}
}

// statusError maps a non-2xx response onto a sentinel error
func statusError(resp *resty.Response, what string) error {
	switch resp.StatusCode() {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrEmptyInput, what)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrBusy, what)
	default:
		return fmt.Errorf("%s returned status %d: %s", what, resp.StatusCode(), resp.String())
	}
}

// getJSON issues a GET and decodes a 200 response into v
func (f *ChartFetcher) getJSON(ctx context.Context, url, what string, v interface{}) error {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", what, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return statusError(resp, what)
	}
	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", what, err)
	}
	return nil
}

// FetchCharts lists the chart kinds
func (f *ChartFetcher) FetchCharts(ctx context.Context) ([]ChartInfo, error) {
	var out struct {
		Charts []ChartInfo `json:"charts"`
	}
	if err := f.getJSON(ctx, "/api/charts", "chart list", &out); err != nil {
		return nil, err
	}
	return out.Charts, nil
}

// FetchGeometry fetches the projected geometry of one chart
func (f *ChartFetcher) FetchGeometry(ctx context.Context, kind string) (*charts.Geometry, error) {
	var g charts.Geometry
	if err := f.getJSON(ctx, "/api/charts/"+kind, "chart "+kind, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

type geometryResult struct {
	kind     string
	geometry *charts.Geometry
}

// FetchAllGeometry fetches several charts concurrently. Charts that fail are
// left out of the result and reported in the joined error.
func (f *ChartFetcher) FetchAllGeometry(ctx context.Context, kinds []string) (map[string]*charts.Geometry, error) {
	resultChan := make(chan geometryResult, len(kinds))
	errChan := make(chan error, len(kinds))

	for _, kind := range kinds {
		go func(kind string) {
			g, err := f.FetchGeometry(ctx, kind)
			if err != nil {
				errChan <- fmt.Errorf("%s fetch failed: %w", kind, err)
				return
			}
			resultChan <- geometryResult{kind: kind, geometry: g}
		}(kind)
	}

	out := make(map[string]*charts.Geometry, len(kinds))
	var errs []error
	for completed := 0; completed < len(kinds); completed++ {
		select {
		case r := <-resultChan:
			out[r.kind] = r.geometry
		case err := <-errChan:
			f.log.Warn("chart fetch error", logger.Fields{"error": err.Error()})
			errs = append(errs, err)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, errors.Join(errs...)
}

// Project asks the server to project an ad-hoc dataset
func (f *ChartFetcher) Project(ctx context.Context, samples []projector.Sample, series []projector.SeriesDef, height float64) (*projector.Chart, error) {
	body := map[string]interface{}{
		"samples": samples,
		"series":  series,
		"height":  height,
	}
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/api/project")
	if err != nil {
		return nil, fmt.Errorf("failed to project dataset: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusError(resp, "projection")
	}

	var chart projector.Chart
	if err := json.Unmarshal(resp.Body(), &chart); err != nil {
		return nil, fmt.Errorf("failed to parse projection: %w", err)
	}
	return &chart, nil
}

// Export triggers a server-side export of every chart
func (f *ChartFetcher) Export(ctx context.Context) (*reports.Manifest, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Post("/export")
	if err != nil {
		return nil, fmt.Errorf("failed to trigger export: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusError(resp, "export")
	}

	var m reports.Manifest
	if err := json.Unmarshal(resp.Body(), &m); err != nil {
		return nil, fmt.Errorf("failed to parse export manifest: %w", err)
	}
	return &m, nil
}

// FetchExportFeed reads the Atom feed of recent exports
func (f *ChartFetcher) FetchExportFeed(ctx context.Context) ([]*gofeed.Item, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get("/exports.atom")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch export feed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, statusError(resp, "export feed")
	}

	feed, err := f.parser.ParseString(string(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse export feed: %w", err)
	}
	return feed.Items, nil
}
