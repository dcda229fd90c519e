package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/nicemap/internal/mapview"
	"github.com/roach88/nicemap/internal/report"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Database    string
	Period      int
	Limit       int
	Output      string
	Zoom        int
	MetricsFile string
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the top-ranked children as an HTML map",
		Long: `Query the top-ranked children for a period, print the ranking and write
an interactive Leaflet map with one marker per child.

The map is centered on the highest-ranked child. An existing output file
is overwritten. Nothing is written when no child qualifies.

Example:
  nicemap render
  nicemap render --db ./kids.db --period 2024 --limit 10 --output top10.html
  nicemap render --db postgres://santa@localhost/north --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "kids.db", "SQLite path or postgres:// URL")
	cmd.Flags().IntVar(&opts.Period, "period", 2025, "period (year) to rank")
	cmd.Flags().IntVar(&opts.Limit, "limit", 3, "number of children to rank")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "top3_sages_map.html", "output HTML file")
	cmd.Flags().IntVar(&opts.Zoom, "zoom", mapview.DefaultZoom, "initial map zoom level")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")

	return cmd
}

func runRender(opts *RenderOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	cfg, err := loadConfig(opts.RootOptions, cmd)
	if err != nil {
		return configError(formatter, err)
	}

	logger, runID := newLogger(cfg.Log, opts.Verbose, cmd.ErrOrStderr())
	formatter.RunID = runID
	if cfg.Source != "" {
		logger.Debug("config loaded", "file", cfg.Source)
	}

	// Console lines would corrupt the JSON envelope.
	var console io.Writer = formatter.Writer
	if formatter.Format == "json" {
		console = io.Discard
	}

	pipeline := report.NewPipeline(console, logger)

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := pipeline.Run(ctx, report.Config{
		Database:    cfg.Database,
		Period:      cfg.Period,
		Limit:       cfg.Limit,
		OutputPath:  cfg.Output,
		Zoom:        cfg.Zoom,
		MetricsFile: cfg.MetricsFile,
	})
	if err != nil {
		return formatter.Fail("report failed", err)
	}

	formatter.VerboseLog("Digest: %s", res.Digest)

	if formatter.Format == "json" {
		return formatter.Success(res)
	}
	return nil
}
