package domain

import "time"

// CreatedDateLayout is the timestamp layout used for history entry identity.
// ISO 8601 with milliseconds, e.g. 2026-10-15T12:30:00.000Z.
const CreatedDateLayout = "2006-01-02T15:04:05.000Z07:00"

// HistoryEntry represents a previously selected search term
type HistoryEntry struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	CreatedDate string `json:"createdDate" yaml:"createdDate" toml:"createdDate"` // unique within a history list
}

// FormatCreatedDate renders t as a createdDate value (UTC, millisecond precision)
func FormatCreatedDate(t time.Time) string {
	return t.UTC().Format(CreatedDateLayout)
}

// ParseCreatedDate parses a createdDate value
func ParseCreatedDate(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// NewHistoryEntry creates an entry stamped with the given time
func NewHistoryEntry(name string, at time.Time) HistoryEntry {
	return HistoryEntry{
		Name:        name,
		CreatedDate: FormatCreatedDate(at),
	}
}
