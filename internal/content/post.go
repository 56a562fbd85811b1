// Package content provides the site timeline: the ordered list of published
// posts with their per-language titles, rendered bodies, permalinks and
// destination paths.
package content

import (
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
)

// Post is one content item of the site timeline, already localized for every
// active language.
type Post interface {
	// Title returns the rendered title for lang.
	Title(lang string) string
	// Text returns the rendered HTML body for lang.
	Text(lang string) string
	// Permalink returns the URL of the post page. A non-empty ext replaces the
	// page extension.
	Permalink(lang string, absolute bool, ext string) string
	// DestinationPath returns the slash-separated output path relative to the
	// output folder. A non-empty ext replaces the page extension.
	DestinationPath(lang, ext string) string
	Date() PublishDate
	// FragmentDeps lists the files the rendered content for lang depends on.
	FragmentDeps(lang string) []string
	SourcePath() string
}

// PublishDate is a post timestamp as written by the author. Date-only values
// and values without a zone are interpreted in the site timezone.
type PublishDate struct {
	Time     time.Time
	DateOnly bool
	Naive    bool
}

// In resolves the timestamp in loc when it carries no zone of its own.
func (d PublishDate) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	if !d.DateOnly && !d.Naive {
		return d.Time
	}
	t := d.Time
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

// String returns the timestamp as written, without site timezone resolution.
func (d PublishDate) String() string {
	switch {
	case d.DateOnly:
		return d.Time.Format(time.DateOnly)
	case d.Naive:
		return d.Time.Format("2006-01-02T15:04:05.999999999")
	default:
		return d.Time.Format(time.RFC3339Nano)
	}
}

var (
	dateOnlyLayouts = []string{time.DateOnly}
	naiveLayouts    = []string{
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
	}
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05 Z07:00",
		"2006-01-02 15:04:05 -0700",
		"2006-01-02 15:04:05 MST",
		time.RFC1123Z,
		time.RFC1123,
	}
)

// ParseDate parses a front matter date. It accepts ISO dates, naive and zoned
// date-times, and the "UTC+01:00" suffix style used by several static site
// generators.
func ParseDate(raw string) (PublishDate, error) {
	value := normalizeUTCOffset(strings.TrimSpace(raw))
	if value == "" {
		return PublishDate{}, ferrors.ContentError("empty date").Build()
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return PublishDate{Time: t, DateOnly: true, Naive: true}, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return PublishDate{Time: t, Naive: true}, nil
		}
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return PublishDate{Time: t}, nil
		}
	}
	return PublishDate{}, ferrors.ContentError("unrecognized date format").
		WithContext("date", raw).
		Build()
}

// normalizeUTCOffset rewrites "2024-01-05 10:00:00 UTC+01:00" to
// "2024-01-05 10:00:00 +01:00" and a bare trailing "UTC" to "Z".
func normalizeUTCOffset(value string) string {
	idx := strings.LastIndex(value, " UTC")
	if idx < 0 {
		return value
	}
	suffix := value[idx+len(" UTC"):]
	switch {
	case suffix == "":
		return value[:idx] + "Z"
	case suffix[0] == '+' || suffix[0] == '-':
		return value[:idx] + suffix
	default:
		return value
	}
}
