package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testRecorder struct {
	jobDurations   map[string]int
	jobResults     map[string]map[ResultLabel]int
	buildDurations int
	buildOutcomes  map[BuildOutcomeLabel]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		jobDurations:  map[string]int{},
		jobResults:    map[string]map[ResultLabel]int{},
		buildOutcomes: map[BuildOutcomeLabel]int{},
	}
}

func (t *testRecorder) ObserveJobDuration(kind string, _ time.Duration) { t.jobDurations[kind]++ }
func (t *testRecorder) IncJobResult(kind string, result ResultLabel) {
	m, ok := t.jobResults[kind]
	if !ok {
		m = map[ResultLabel]int{}
		t.jobResults[kind] = m
	}
	m[result]++
}
func (t *testRecorder) ObserveBuildDuration(time.Duration)        { t.buildDurations++ }
func (t *testRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) { t.buildOutcomes[outcome]++ }
func (t *testRecorder) SetLastBuildTimestamp(time.Time)           {}

func TestRecorderImplementations(t *testing.T) {
	var _ Recorder = NoopRecorder{}
	var _ Recorder = (*PrometheusRecorder)(nil)

	rec := newTestRecorder()
	var r Recorder = rec
	r.IncJobResult("note", ResultSkipped)
	r.IncJobResult("note", ResultSkipped)
	r.ObserveJobDuration("note", time.Millisecond)
	r.IncBuildOutcome(BuildOutcomeSuccess)
	require.Equal(t, 2, rec.jobResults["note"][ResultSkipped])
	require.Equal(t, 1, rec.jobDurations["note"])
	require.Equal(t, 1, rec.buildOutcomes[BuildOutcomeSuccess])
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var p *PrometheusRecorder
	p.IncJobResult("note", ResultExecuted)
	p.ObserveBuildDuration(time.Second)
	p.SetLastBuildTimestamp(time.Now())
}
