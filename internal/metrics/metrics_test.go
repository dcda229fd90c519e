package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func family(t *testing.T, r *Recorder, name string) *dto.MetricFamily {
	t.Helper()
	families, err := r.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %q not gathered", name)
	return nil
}

func TestRecorder_Counts(t *testing.T) {
	r := New()
	r.SetRecords(3)
	r.SetMarkers(2)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.records))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.markers))
}

func TestRecorder_ObserveStage(t *testing.T) {
	r := New()
	r.ObserveStage(StageQuery, 1500*time.Millisecond)
	r.ObserveStage(StageRender, 250*time.Millisecond)

	assert.Equal(t, 1.5, testutil.ToFloat64(r.stageDuration.WithLabelValues(StageQuery)))
	assert.Equal(t, 0.25, testutil.ToFloat64(r.stageDuration.WithLabelValues(StageRender)))

	mf := family(t, r, "nicemap_stage_duration_seconds")
	assert.Len(t, mf.GetMetric(), 2)
}

func TestRecorder_RunFinished(t *testing.T) {
	r := New()
	at := time.Date(2025, time.December, 24, 23, 0, 0, 0, time.UTC)

	r.RunFinished(OutcomeRendered, at)
	r.RunFinished(OutcomeRendered, at)
	r.RunFinished(OutcomeFailed, at)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runs.WithLabelValues(OutcomeRendered)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(r.lastRun))
}

func TestRecorder_GatherAndCompare(t *testing.T) {
	r := New()
	r.SetRecords(3)

	expected := `
# HELP nicemap_records Ranked records returned by the last query.
# TYPE nicemap_records gauge
nicemap_records 3
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "nicemap_records"))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.SetRecords(3)
	r.SetMarkers(3)
	r.ObserveStage(StageTransform, time.Millisecond)
	r.RunFinished(OutcomeRendered, time.Unix(1766617200, 0))

	path := filepath.Join(t.TempDir(), "nicemap.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, "nicemap_records 3")
	assert.Contains(t, body, "nicemap_markers 3")
	assert.Contains(t, body, `nicemap_stage_duration_seconds{stage="transform"} 0.001`)
	assert.Contains(t, body, `nicemap_runs_total{outcome="rendered"} 1`)
}

func TestRecorder_WriteTextfile_MissingDirectory(t *testing.T) {
	r := New()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "nicemap.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write metrics")
}
