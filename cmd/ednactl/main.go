// Command ednactl renders dashboard charts and talks to a running dashboard
// server.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ednaviz/internal/animation"
	"ednaviz/internal/charts"
	"ednaviz/internal/dashboard"
	"ednaviz/internal/fetchers"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ednactl",
		Short:        "Render eDNA dashboard charts",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRenderCmd(), newGeometryCmd(), newExportCmd(), newCounterCmd())
	return rootCmd
}

func newRenderCmd() *cobra.Command {
	var (
		kind, format, outputPath string
		width, height            int
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart locally",
		Long: `render draws one dashboard chart without a server.
Formats: svg, png, html (standalone ECharts page) and json (geometry).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := dashboard.ParseChartKind(kind)
			if err != nil {
				return err
			}
			data, err := render(charts.NewChartGenerator(width, height), k, format)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outputPath, data)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", dashboard.DefaultChart, "Chart kind: "+strings.Join(dashboard.ChartIDs, ", "))
	cmd.Flags().StringVar(&format, "format", "svg", "Output format: svg, png, html, json")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().IntVar(&width, "width", charts.DefaultWidth, "Canvas width in pixels")
	cmd.Flags().IntVar(&height, "height", charts.DefaultHeight, "Canvas height in pixels")
	return cmd
}

func render(cg *charts.ChartGenerator, kind dashboard.ChartKind, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "svg":
		if ds, ok := dashboard.LineDataset(kind); ok {
			buf.WriteString(cg.RenderLineSVG(ds, nil))
		} else {
			err = cg.RenderStaticSVG(kind, &buf)
		}
	case "png":
		err = cg.RenderPNG(kind, &buf)
	case "html":
		err = cg.RenderPage(kind, &buf)
	case "json":
		var g charts.Geometry
		if g, err = cg.Geometry(kind); err == nil {
			return json.MarshalIndent(g, "", "  ")
		}
	default:
		return nil, fmt.Errorf("invalid format: %s (must be svg, png, html or json)", format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s failed: %w", kind.ID(), err)
	}
	return buf.Bytes(), nil
}

func writeOutput(stdout io.Writer, outputPath string, data []byte) error {
	if outputPath == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newGeometryCmd() *cobra.Command {
	var serverURL, kind string
	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Fetch chart geometry from a server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := fetchers.NewChartFetcher(serverURL)
			ctx := cmdContext(cmd)

			var out interface{}
			if kind == "all" {
				all, err := f.FetchAllGeometry(ctx, dashboard.ChartIDs)
				if err != nil {
					return err
				}
				out = all
			} else {
				g, err := f.FetchGeometry(ctx, kind)
				if err != nil {
					return err
				}
				out = g
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8090", "Dashboard server URL")
	cmd.Flags().StringVar(&kind, "kind", dashboard.DefaultChart, "Chart kind or \"all\"")
	return cmd
}

func newExportCmd() *cobra.Command {
	var serverURL string
	var list bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Trigger a server-side export, or list recent ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := fetchers.NewChartFetcher(serverURL)
			ctx := cmdContext(cmd)
			w := cmd.OutOrStdout()

			if list {
				items, err := f.FetchExportFeed(ctx)
				if err != nil {
					return err
				}
				for _, item := range items {
					fmt.Fprintf(w, "%s\t%s\t%d files\n", item.Title, item.Updated, len(item.Enclosures))
				}
				return nil
			}

			m, err := f.Export(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "exported %d files to %s\n", len(m.Artifacts), m.Folder)
			return nil
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8090", "Dashboard server URL")
	cmd.Flags().BoolVar(&list, "list", false, "List recent exports instead of creating one")
	return cmd
}

func newCounterCmd() *cobra.Command {
	var (
		target             int
		duration, interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "counter",
		Short: "Play the metric reveal animation in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if target < 0 {
				return fmt.Errorf("invalid target: %d (must not be negative)", target)
			}
			return playCounter(cmdContext(cmd), cmd.OutOrStdout(),
				animation.Counter{Target: target, Duration: duration},
				animation.NewTickerScheduler(interval))
		},
	}
	cmd.Flags().IntVar(&target, "target", 1247, "Value to count up to")
	cmd.Flags().DurationVar(&duration, "duration", 2*time.Second, "Length of the reveal")
	cmd.Flags().DurationVar(&interval, "interval", animation.DefaultFrameInterval, "Frame interval")
	return cmd
}

// playCounter writes each newly displayed value on its own line until the
// counter lands on its target or ctx is cancelled.
func playCounter(ctx context.Context, w io.Writer, c animation.Counter, sched animation.Scheduler) error {
	anim := animation.NewAnimator(sched)
	done := make(chan struct{})
	last := -1

	anim.Start(c, func(v int) {
		if v == last {
			return
		}
		last = v
		fmt.Fprintln(w, v)
		if v == c.Target {
			close(done)
		}
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		anim.Stop()
		return ctx.Err()
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
