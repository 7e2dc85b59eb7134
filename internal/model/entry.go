package model

import "time"

// Entry represents a single tracked time entry.
type Entry struct {
	ID              string           `json:"id"`
	Assignment      *Assignment      `json:"assignment,omitempty"`
	Comment         *string          `json:"comment,omitempty"`
	Tags            []string         `json:"tags"`
	Start           time.Time        `json:"start"`
	End             *time.Time       `json:"end,omitempty"`
	DurationSeconds *int64           `json:"duration_seconds,omitempty"`
	Activity        []ActivitySample `json:"activity,omitempty"`
	Source          string           `json:"source"`
	// ExternalID is the calendar event ID for imported entries.
	ExternalID string `json:"external_id,omitempty"`
	// TempoWorklogID is set once the entry has been pushed to Tempo.
	TempoWorklogID int64 `json:"tempo_worklog_id,omitempty"`
}

// ActivitySample records foreground-window activity captured while an
// entry was running. Samples below the configured threshold are dropped
// on export.
type ActivitySample struct {
	Label   string `json:"label"`
	Seconds int64  `json:"seconds"`
}

// Closed reports whether the entry has been stopped.
func (e *Entry) Closed() bool {
	return e.End != nil
}

// DayFile is the top-level structure stored in each daily JSON file.
type DayFile struct {
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
}
