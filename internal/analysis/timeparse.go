package analysis

import (
	"time"

	dps "github.com/markusmobius/go-dateparser"
)

// parseTimestamp parses an anomaly record timestamp. Upstream detectors are
// contracted to send RFC3339, but field deployments have shipped bare dates
// and locale-formatted strings, so anything RFC3339 rejects gets a second
// chance with the lenient parser. A false return means the timestamp is
// unusable; scoring then treats the record as stale rather than failing.
func parseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}

	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, true
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts, true
	}

	parser := dps.Parser{}
	parsed, err := parser.Parse(nil, raw)
	if err != nil || parsed.IsZero() {
		return time.Time{}, false
	}

	return parsed.Time, true
}
