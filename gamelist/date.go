package gamelist

import "time"

const esDateFormat = "20060102T150405"

// FormatESDate converts an ISO-8601 timestamp to the compact
// YYYYMMDDThhmmss form EmulationStation expects. A bare "Z" designator is
// accepted as UTC. Any parse failure yields an empty string so a bad date
// never fails the whole entry.
func FormatESDate(value string) string {
	if value == "" {
		return ""
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05", value)
	}
	if err != nil {
		return ""
	}

	return t.Format(esDateFormat)
}
