package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/spektr-org/marquee/dashboard"
	"github.com/spektr-org/marquee/di"
	"github.com/spektr-org/marquee/engine"
	"github.com/spektr-org/marquee/render"
	"github.com/spektr-org/marquee/server"
)

// selectionFlags are the sidebar widgets as command-line flags.
type selectionFlags struct {
	genres []string
	ranges []string
	mode   string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.genres, "genre", nil, "genres to include, repeatable (default: all)")
	cmd.Flags().StringArrayVar(&f.ranges, "range", nil, "numeric range Column:low:high, repeatable")
}

func (f *selectionFlags) selection(cmd *cobra.Command) (dashboard.Selection, error) {
	var sel dashboard.Selection
	if cmd.Flags().Changed("genre") {
		sel.Genres = append([]string{}, f.genres...)
	}
	for _, raw := range f.ranges {
		col, r, err := server.ParseRange(raw)
		if err != nil {
			return sel, err
		}
		if sel.Ranges == nil {
			sel.Ranges = make(map[string]engine.Range)
		}
		sel.Ranges[col] = r
	}
	if f.mode != "" {
		mode, err := engine.ParsePlotMode(f.mode)
		if err != nil {
			return sel, err
		}
		sel.Mode = mode
	}
	return sel, nil
}

// loadService builds the dashboard over the configured dataset.
func loadService(ctx context.Context) (*dashboard.Service, error) {
	injector := di.NewContainer(cfg)
	if _, err := di.LoadDataset(ctx, injector); err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return do.MustInvoke[*dashboard.Service](injector), nil
}

var (
	renderSel      selectionFlags
	renderOut      string
	renderHeatmap  bool
	renderPairplot bool
	renderWidth    int
	renderHeight   int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one dashboard figure to PNG",
	Example: `  marquee render --mode joint-hex --genre Comedy --range CriticRating:70:100 --out fig.png
  marquee render --heatmap --out heatmap.png
  marquee render --pairplot --out - > pairplot.png`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderSel.register(renderCmd)
	renderCmd.Flags().StringVar(&renderSel.mode, "mode", "lm", "plot mode key or label (see 'marquee modes')")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "figure.png", "output file, - for stdout")
	renderCmd.Flags().BoolVar(&renderHeatmap, "heatmap", false, "render the correlation heatmap instead of the chart")
	renderCmd.Flags().BoolVar(&renderPairplot, "pairplot", false, "render the pairplot instead of the chart")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "figure width in pixels (default from config)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "figure height in pixels (default from config)")
	renderCmd.MarkFlagsMutuallyExclusive("heatmap", "pairplot")
}

func runRender(cmd *cobra.Command, _ []string) error {
	sel, err := renderSel.selection(cmd)
	if err != nil {
		return err
	}
	panel := dashboard.PanelChart
	switch {
	case renderHeatmap:
		panel = dashboard.PanelHeatmap
	case renderPairplot:
		panel = dashboard.PanelPairplot
		sel.Pairplot = true
	}
	sel.Panels = []dashboard.Panel{panel}

	svc, err := loadService(cmd.Context())
	if err != nil {
		return err
	}
	resp, err := svc.Handle(cmd.Context(), sel)
	if err != nil {
		return err
	}

	chart := resp.Chart
	switch panel {
	case dashboard.PanelHeatmap:
		chart = resp.Heatmap
	case dashboard.PanelPairplot:
		chart = resp.Pairplot
	}

	width, height := cfg.Plot.Width, cfg.Plot.Height
	if renderWidth > 0 {
		width = renderWidth
	}
	if renderHeight > 0 {
		height = renderHeight
	}

	var w io.Writer = cmd.OutOrStdout()
	if renderOut != "-" {
		f, err := os.Create(renderOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := render.PNG(w, chart, render.WithSize(width, height)); err != nil {
		return err
	}
	if renderOut != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s (%s)\n", renderOut, resp.Summary.Message)
	}
	return nil
}
