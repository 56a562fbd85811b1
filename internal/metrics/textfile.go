package metrics

import (
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
)

// WriteTextfile writes the registry in the node exporter textfile format.
// The file is replaced atomically.
func WriteTextfile(path string, reg *prom.Registry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return ferrors.FileSystemError("failed to create metrics directory").
			WithContext("path", path).
			WithCause(err).
			Build()
	}
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return ferrors.FileSystemError("failed to write metrics textfile").
			WithContext("path", path).
			WithCause(err).
			Build()
	}
	return nil
}
