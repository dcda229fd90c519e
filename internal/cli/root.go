package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/roach88/nicemap/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the nicemap CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "nicemap",
		Short: "nicemap - the best-behaved children on a world map",
		Long: `Query the top-ranked children for a period by nice score, convert their
Web Mercator positions to latitude/longitude and render an interactive
Leaflet map as a single HTML file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintf(cmd.ErrOrStderr(), "Error [%s]: %s\n", ErrCodeConfig, msg)
				return NewExitError(ExitCommandError, msg)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: nicemap.yaml in . or ./configs)")

	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewTopCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// flagKeys maps config keys to the flag names that override them.
var flagKeys = map[string]string{
	"database":     "db",
	"period":       "period",
	"limit":        "limit",
	"output":       "output",
	"zoom":         "zoom",
	"metrics_file": "metrics-file",
}

// loadConfig reads the configuration with the command's flags bound on top.
// Flags a command does not define are skipped.
func loadConfig(opts *RootOptions, cmd *cobra.Command) (*config.Config, error) {
	flags := make(map[string]*pflag.Flag, len(flagKeys))
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			flags[key] = f
		}
	}
	return config.Load(opts.ConfigFile, flags)
}

// newLogger builds the run logger on w. --verbose forces debug level.
// Every line carries the run id.
func newLogger(cfg config.LogConfig, verbose bool, w io.Writer) (*slog.Logger, string) {
	level := parseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	runID := uuid.Must(uuid.NewV7()).String()
	return slog.New(handler).With("run_id", runID), runID
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// commandContext returns the command's context, cancelled on SIGINT/SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// configError reports an invalid configuration.
func configError(f *OutputFormatter, err error) error {
	_ = f.Error(ErrCodeConfig, err.Error(), nil)
	return WrapExitError(ExitCommandError, "invalid configuration", err)
}
