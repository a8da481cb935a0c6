package utils

import "time"

// TimeNowUTC returns the current time in UTC. All pipeline timestamps
// are stored in UTC; timezone-naive values read back from the database
// are interpreted as UTC.
func TimeNowUTC() time.Time {
	return time.Now().UTC()
}

// AsUTC reinterprets a timestamp read from a zone-less column as UTC,
// keeping the stored wall-clock value.
func AsUTC(t time.Time) time.Time {
	if t.Location() == time.UTC {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
