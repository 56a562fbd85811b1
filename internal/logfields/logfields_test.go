package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Job", KeyJob, "tinypub:webfinger", Job("tinypub:webfinger")},
		{"Target", KeyTarget, "out/x.jsonld", Target("out/x.jsonld")},
		{"Lang", KeyLang, "en", Lang("en")},
		{"Post", KeyPost, "posts/a.md", Post("posts/a.md")},
		{"RunID", KeyRunID, "abc", RunID("abc")},
		{"Reason", KeyReason, "key changed", Reason("key changed")},
		{"Stage", KeyStage, "enumerate", Stage("enumerate")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Backend", KeyBackend, "sqlite", Backend("sqlite")},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Errorf("%s: expected key %q, got %q", c.name, c.attrKey, c.attr.Key)
		}
		if c.attr.Value.String() != c.attrVal {
			t.Errorf("%s: expected value %q, got %q", c.name, c.attrVal, c.attr.Value.String())
		}
	}
}

func TestNumericAndErrorHelpers(t *testing.T) {
	if v := Error(nil).Value.String(); v != "" {
		t.Errorf("expected empty error value, got %q", v)
	}
	if v := Error(errors.New("boom")).Value.String(); v != "boom" {
		t.Errorf("expected boom, got %q", v)
	}
	if v := Targets(5).Value.Int64(); v != 5 {
		t.Errorf("expected 5 targets, got %d", v)
	}
	if v := DurationMS(1.5).Value.Float64(); v != 1.5 {
		t.Errorf("expected 1.5ms, got %v", v)
	}
}
