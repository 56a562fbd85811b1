package incremental

import (
	"os"

	"github.com/inful/mdfp"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
	"git.home.luguber.info/inful/tinypub/internal/frontmatter"
)

// FileFingerprint computes the content fingerprint of a dependency file.
// Markdown sources are fingerprinted over front matter and body separately;
// files without front matter are fingerprinted as a plain body.
func FileFingerprint(path string) (string, error) {
	// #nosec G304 - dependency paths come from the content tree
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ferrors.ContentError("read dependency").
			WithContext("path", path).
			WithCause(err).
			Build()
	}

	fm, body, had, splitErr := frontmatter.Split(data)
	if splitErr != nil || !had {
		return mdfp.CalculateFingerprintFromParts("", string(data)), nil
	}
	return mdfp.CalculateFingerprintFromParts(string(fm), string(body)), nil
}

// Fingerprints fingerprints every path in deps.
func Fingerprints(deps []string) (map[string]string, error) {
	out := make(map[string]string, len(deps))
	for _, dep := range deps {
		if _, seen := out[dep]; seen {
			continue
		}
		fp, err := FileFingerprint(dep)
		if err != nil {
			return nil, err
		}
		out[dep] = fp
	}
	return out, nil
}
