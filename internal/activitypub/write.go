package activitypub

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
)

// Marshal encodes doc as compact JSON. HTML characters in post content are
// kept verbatim and no trailing newline is written.
func Marshal(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteDocument serializes doc and writes it to path, creating parent
// directories on demand. The whole file is replaced.
func WriteDocument(path string, doc any) error {
	data, err := Marshal(doc)
	if err != nil {
		return ferrors.InternalError("encode document").
			WithContext("path", path).
			WithCause(err).
			Build()
	}

	// #nosec G301 - published site output must be world-readable
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ferrors.FileSystemError("create output directory").
			WithContext("path", filepath.Dir(path)).
			WithCause(err).
			Build()
	}
	// #nosec G306 - published site output must be world-readable
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.FileSystemError("write document").
			WithContext("path", path).
			WithCause(err).
			Build()
	}
	return nil
}
