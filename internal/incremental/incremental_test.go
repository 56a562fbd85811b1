package incremental

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
)

func TestConfigChanged_Deterministic(t *testing.T) {
	a, err := ConfigChanged(map[string]any{"b": 2, "a": "x"})
	require.NoError(t, err)
	b, err := ConfigChanged(map[string]any{"a": "x", "b": 2})
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Len(t, a, 64)
}

func TestConfigChanged_SensitiveToValues(t *testing.T) {
	a, err := ConfigChanged(map[int]string{1: "hello", 2: "Title"})
	require.NoError(t, err)
	b, err := ConfigChanged(map[int]string{1: "hello", 2: "Other"})
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestConfigChanged_UnencodableValue(t *testing.T) {
	_, err := ConfigChanged(map[string]any{"ch": make(chan int)})
	require.Error(t, err)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileFingerprint(t *testing.T) {
	dir := t.TempDir()
	withFM := writeFile(t, dir, "a.md", "---\ntitle: A\n---\nbody\n")
	plain := writeFile(t, dir, "b.md", "just text\n")

	fp1, err := FileFingerprint(withFM)
	require.NoError(t, err)
	require.NotEmpty(t, fp1)

	fp2, err := FileFingerprint(plain)
	require.NoError(t, err)
	require.NotEqual(t, fp1, fp2)

	again, err := FileFingerprint(withFM)
	require.NoError(t, err)
	require.Equal(t, fp1, again)

	require.NoError(t, os.WriteFile(withFM, []byte("---\ntitle: B\n---\nbody\n"), 0o600))
	changed, err := FileFingerprint(withFM)
	require.NoError(t, err)
	require.NotEqual(t, fp1, changed)
}

func TestFileFingerprint_Missing(t *testing.T) {
	_, err := FileFingerprint(filepath.Join(t.TempDir(), "nope.md"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryContent))
}

func TestFingerprints_Dedupes(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.md", "x")
	fps, err := Fingerprints([]string{p, p})
	require.NoError(t, err)
	require.Len(t, fps, 1)
}

func TestCheck(t *testing.T) {
	prev := &JobRecord{Key: "k", Deps: map[string]string{"a.md": "fp"}}
	deps := map[string]string{"a.md": "fp"}

	tests := []struct {
		name    string
		prev    *JobRecord
		key     string
		deps    map[string]string
		missing bool
		want    string
	}{
		{"never run", nil, "k", deps, false, ReasonNeverRun},
		{"key changed", prev, "k2", deps, false, ReasonKeyChanged},
		{"dep changed", prev, "k", map[string]string{"a.md": "other"}, false, ReasonDepChanged},
		{"dep added", prev, "k", map[string]string{"a.md": "fp", "b.md": "fp"}, false, ReasonDepChanged},
		{"target missing", prev, "k", deps, true, ReasonTargetMissing},
		{"up to date", prev, "k", deps, false, ReasonUpToDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Check(tt.prev, tt.key, tt.deps, tt.missing))
		})
	}
}

func TestJobRecordJSON(t *testing.T) {
	rec := &JobRecord{
		Job:       "tinypub:webfinger",
		Key:       "abc",
		Targets:   []string{"out/.well-known/webfinger"},
		RunID:     "run-1",
		Timestamp: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	data, err := rec.ToJSON()
	require.NoError(t, err)
	got, err := RecordFromJSON(data)
	require.NoError(t, err)
	require.Equal(t, rec.Key, got.Key)
	require.Equal(t, rec.Targets, got.Targets)
	require.True(t, rec.Timestamp.Equal(got.Timestamp))

	_, err = RecordFromJSON([]byte("{"))
	require.Error(t, err)
}
