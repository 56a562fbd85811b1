package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveJobDuration("note", 150*time.Millisecond)
	pr.IncJobResult("note", ResultExecuted)
	pr.IncJobResult("note", ResultSkipped)
	pr.IncJobResult("note", ResultSkipped)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.SetLastBuildTimestamp(time.Unix(1700000000, 0))

	mfs, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				labels := ""
				for _, lp := range m.GetLabel() {
					labels += lp.GetName() + "=" + lp.GetValue() + ","
				}
				values[mf.GetName()+"{"+labels+"}"] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	require.InDelta(t, 2, values["tinypub_jobs_total{kind=note,result=skipped,}"], 0)
	require.InDelta(t, 1, values["tinypub_jobs_total{kind=note,result=executed,}"], 0)
	require.InDelta(t, 1700000000, values["tinypub_last_build_timestamp_seconds"], 0)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncBuildOutcome(BuildOutcomeFailed)

	path := filepath.Join(t.TempDir(), "collector", "tinypub.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `tinypub_build_outcomes_total{outcome="failed"} 1`)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncJobResult("webfinger", ResultExecuted)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "tinypub_jobs_total")
}
