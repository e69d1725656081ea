package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/dataquill/memberaudit/pkg/feed"
)

const parseErrorPreview = 3

// timestampLayouts cover the ISO-8601 shapes the feed emits. A trailing "Z"
// is normalized to an explicit UTC offset before these are tried.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseTimestamp(raw string) (time.Time, error) {
	normalized := raw
	if strings.HasSuffix(normalized, "Z") {
		normalized = strings.TrimSuffix(normalized, "Z") + "+00:00"
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, normalized)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// checkTimestamps parses every present timestamp, reports the unparseable
// ones, prints the observed date range, and counts instants later than now.
//
// "now" is taken once, in the location of the first parsed timestamp, so the
// future comparison is offset-aware. Batches mixing zones share that single
// reference instant; this is a documented limitation, kept for consistency
// within one report. Future timestamps are an observation, not corruption —
// feeds legitimately carry scheduled events.
func (r *run) checkTimestamps() {
	r.section(4, "Timestamp Analysis")

	var parsed []time.Time
	var parseErrors []string
	present := 0
	for _, rec := range r.batch.Items {
		raw, ok := rec.Display(feed.FieldTimestamp)
		if !ok {
			continue
		}
		present++
		t, err := parseTimestamp(raw)
		if err != nil {
			parseErrors = append(parseErrors, raw)
			continue
		}
		parsed = append(parsed, t)
	}

	if len(parseErrors) > 0 {
		r.fail("Failed to parse %d timestamps", len(parseErrors))
		for i, raw := range parseErrors {
			if i == parseErrorPreview {
				break
			}
			fmt.Fprintf(r.out, "  %s\n", raw)
		}
		r.addFinding("%d unparseable timestamps", len(parseErrors))
	} else {
		r.pass("All %d timestamps parsed successfully", present)
	}

	if len(parsed) > 0 {
		earliest, latest := parsed[0], parsed[0]
		for _, t := range parsed[1:] {
			if t.Before(earliest) {
				earliest = t
			}
			if t.After(latest) {
				latest = t
			}
		}
		fmt.Fprintln(r.out, "\nDate range:")
		fmt.Fprintf(r.out, "  Earliest: %s\n", earliest.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(r.out, "  Latest: %s\n", latest.Format("2006-01-02 15:04:05"))

		now := r.now().In(parsed[0].Location())
		future := 0
		for _, t := range parsed {
			if t.After(now) {
				future++
			}
		}
		fmt.Fprintln(r.out)
		if future > 0 {
			r.fail("Found %d messages with future timestamps", future)
			r.addFinding("%d future timestamps", future)
		} else {
			r.pass("No future timestamps detected")
		}
	}

	r.endSection()
}
