// Package report runs the top-N ranking report end to end: query the
// store, print the ranking, project coordinates and render the map.
//
// A run is synchronous and fully materialized between stages. Any stage
// error aborts the run before the map file is written.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/roach88/nicemap/internal/mapview"
	"github.com/roach88/nicemap/internal/metrics"
	"github.com/roach88/nicemap/internal/projection"
	"github.com/roach88/nicemap/internal/ranking"
	"github.com/roach88/nicemap/internal/store"
)

// NoDataNotice is printed instead of rendering when nothing can be mapped.
const NoDataNotice = "No valid data to generate the map."

// Config parameterizes a run.
type Config struct {
	Database    string
	Period      int
	Limit       int
	OutputPath  string
	Zoom        int
	MetricsFile string // optional Prometheus textfile
}

// Result describes a finished run.
type Result struct {
	Records    []ranking.GeoRecord `json:"records"`
	OutputPath string              `json:"output_path,omitempty"`
	Rendered   bool                `json:"rendered"`
	Digest     string              `json:"digest,omitempty"`
}

// Pipeline wires the report stages together. The exported fields may be
// replaced before Run; NewPipeline fills them with production defaults.
type Pipeline struct {
	Out         io.Writer
	Logger      *slog.Logger
	Clock       clockwork.Clock
	Transformer projection.Transformer
	IDs         mapview.IDGenerator
	Metrics     *metrics.Recorder
}

// NewPipeline creates a pipeline printing its console lines to out.
// A nil logger discards log output.
func NewPipeline(out io.Writer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		Out:         out,
		Logger:      logger,
		Clock:       clockwork.NewRealClock(),
		Transformer: projection.NewWebMercator(),
		IDs:         mapview.UUIDGenerator{},
		Metrics:     metrics.New(),
	}
}

// Run executes every stage for cfg.
//
// An empty ranking fails with store.ErrEmptyResult and a coordinate
// outside the projection domain fails with projection.ErrCoordinateTransform;
// in both cases no file is written.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (*Result, error) {
	log := p.Logger.With("period", cfg.Period, "limit", cfg.Limit)
	log.Info("report starting", "database", cfg.Database, "output", cfg.OutputPath)

	res, err := p.run(ctx, cfg, log)

	outcome := metrics.OutcomeFailed
	if err == nil {
		outcome = metrics.OutcomeNoData
		if res.Rendered {
			outcome = metrics.OutcomeRendered
		}
	}
	p.Metrics.RunFinished(outcome, p.Clock.Now())
	p.flushMetrics(cfg.MetricsFile, log)

	if err != nil {
		log.Error("report failed", "error", err)
		return nil, err
	}
	log.Info("report finished", "records", len(res.Records), "rendered", res.Rendered, "digest", res.Digest)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, cfg Config, log *slog.Logger) (*Result, error) {
	records, err := p.Query(ctx, cfg.Database, cfg.Period, cfg.Limit)
	if err != nil {
		return nil, err
	}

	if err := PrintRanking(p.Out, records); err != nil {
		return nil, fmt.Errorf("print ranking: %w", err)
	}

	start := p.Clock.Now()
	geo, err := projection.TransformAll(p.Transformer, records)
	p.Metrics.ObserveStage(metrics.StageTransform, p.Clock.Since(start))
	if err != nil {
		return nil, err
	}
	log.Debug("coordinates projected", "records", len(geo))

	return p.Render(geo, cfg)
}

// Query opens the store, reads the ranking and closes the store again.
func (p *Pipeline) Query(ctx context.Context, database string, period, limit int) ([]ranking.Record, error) {
	start := p.Clock.Now()

	st, err := store.Open(database)
	if err != nil {
		return nil, err
	}
	records, err := st.TopRanked(ctx, period, limit)
	if closeErr := st.Close(); closeErr != nil {
		p.Logger.Warn("error closing database", "error", closeErr)
	}

	p.Metrics.ObserveStage(metrics.StageQuery, p.Clock.Since(start))
	if err != nil {
		return nil, err
	}

	p.Metrics.SetRecords(len(records))
	p.Logger.Debug("ranking loaded", "records", len(records))
	return records, nil
}

// Render writes the map for geo to cfg.OutputPath and prints the outcome.
// With no records it prints NoDataNotice and writes nothing.
func (p *Pipeline) Render(geo []ranking.GeoRecord, cfg Config) (*Result, error) {
	if len(geo) == 0 {
		fmt.Fprintln(p.Out, NoDataNotice)
		p.Metrics.SetMarkers(0)
		return &Result{Records: []ranking.GeoRecord{}}, nil
	}

	start := p.Clock.Now()
	m, err := mapview.FromRecords(geo, cfg.Zoom, p.IDs)
	if err != nil {
		return nil, err
	}
	m.Title = fmt.Sprintf("Top %d for %d", cfg.Limit, cfg.Period)

	digest, err := m.Digest()
	if err != nil {
		return nil, err
	}
	if err := m.Save(cfg.OutputPath); err != nil {
		return nil, err
	}
	p.Metrics.ObserveStage(metrics.StageRender, p.Clock.Since(start))
	p.Metrics.SetMarkers(len(m.Markers()))

	fmt.Fprintf(p.Out, "Map generated: %s\n", cfg.OutputPath)
	return &Result{
		Records:    geo,
		OutputPath: cfg.OutputPath,
		Rendered:   true,
		Digest:     digest,
	}, nil
}

// PrintRanking writes one line per record:
//
//	First Last from City, Country - Score: 20
func PrintRanking(w io.Writer, records []ranking.Record) error {
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s from %s, %s - Score: %s\n",
			r.FullName(), r.City, r.Country, ranking.FormatScore(r.Score)); err != nil {
			return err
		}
	}
	return nil
}

// flushMetrics writes the textfile when one is configured. A failure is
// logged and does not change the run's outcome.
func (p *Pipeline) flushMetrics(path string, log *slog.Logger) {
	if path == "" {
		return
	}
	if err := p.Metrics.WriteTextfile(path); err != nil {
		log.Warn("metrics not written", "error", err)
		return
	}
	log.Debug("metrics written", "path", path)
}
