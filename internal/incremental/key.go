// Package incremental decides whether a build job has to run again: it hashes
// the values a job depends on into a staleness key, fingerprints declared file
// dependencies, and compares both against the record of the previous run.
package incremental

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ConfigChanged hashes values into a staleness key. values must be JSON
// encodable; map keys are sorted by the encoder so the key is deterministic.
func ConfigChanged(values any) (string, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to marshal staleness values: %w", err)
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
