package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/nicemap/internal/report"
)

// TopOptions holds flags for the top command.
type TopOptions struct {
	*RootOptions
	Database string
	Period   int
	Limit    int
}

// NewTopCommand creates the top command.
func NewTopCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TopOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the top-ranked children without rendering a map",
		Long: `Query the top-ranked children for a period and print the ranking.
No coordinates are converted and no file is written.

Example:
  nicemap top --period 2024 --limit 10
  nicemap top --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "kids.db", "SQLite path or postgres:// URL")
	cmd.Flags().IntVar(&opts.Period, "period", 2025, "period (year) to rank")
	cmd.Flags().IntVar(&opts.Limit, "limit", 3, "number of children to rank")

	return cmd
}

func runTop(opts *TopOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := loadConfig(opts.RootOptions, cmd)
	if err != nil {
		return configError(formatter, err)
	}

	logger, runID := newLogger(cfg.Log, opts.Verbose, cmd.ErrOrStderr())
	formatter.RunID = runID

	ctx, cancel := commandContext(cmd)
	defer cancel()

	pipeline := report.NewPipeline(formatter.Writer, logger)
	records, err := pipeline.Query(ctx, cfg.Database, cfg.Period, cfg.Limit)
	if err != nil {
		return formatter.Fail("query failed", err)
	}
	formatter.VerboseLog("%d record(s) for period %d", len(records), cfg.Period)

	if formatter.Format == "json" {
		return formatter.Success(records)
	}
	return report.PrintRanking(formatter.Writer, records)
}
