package sqlite

import "time"

// Timestamps are stored as RFC 3339 text so they survive round-trips
// without driver-specific DATETIME handling.
const timeFormat = time.RFC3339Nano

func timeToDB(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func timeFromDB(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
