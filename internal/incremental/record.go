package incremental

import (
	"encoding/json"
	"fmt"
	"time"
)

// JobRecord is what the state store remembers about the last successful run of a job.
type JobRecord struct {
	Job       string            `json:"job"`
	Key       string            `json:"key"`
	Deps      map[string]string `json:"deps,omitempty"` // path -> fingerprint
	Targets   []string          `json:"targets"`
	RunID     string            `json:"run_id"`
	Timestamp time.Time         `json:"timestamp"`
}

// ToJSON serializes the record.
func (r *JobRecord) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// RecordFromJSON deserializes a record.
func RecordFromJSON(data []byte) (*JobRecord, error) {
	var r JobRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job record: %w", err)
	}
	return &r, nil
}

// Staleness reasons reported by Check.
const (
	ReasonNeverRun      = "never_run"
	ReasonKeyChanged    = "key_changed"
	ReasonDepChanged    = "dependency_changed"
	ReasonTargetMissing = "target_missing"
	ReasonUpToDate      = ""
)

// Check compares the current key and dependency fingerprints with the previous
// record. missingTarget reports whether any declared target is absent on disk.
// It returns ReasonUpToDate when the job can be skipped.
func Check(prev *JobRecord, key string, deps map[string]string, missingTarget bool) string {
	switch {
	case prev == nil:
		return ReasonNeverRun
	case prev.Key != key:
		return ReasonKeyChanged
	case !sameFingerprints(prev.Deps, deps):
		return ReasonDepChanged
	case missingTarget:
		return ReasonTargetMissing
	default:
		return ReasonUpToDate
	}
}

func sameFingerprints(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for path, fp := range a {
		if b[path] != fp {
			return false
		}
	}
	return true
}
