package google

import (
	"fmt"
	"strings"
	"time"

	"tracky/internal/model"
	"tracky/internal/storage"
	"tracky/internal/timecalc"
)

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	Base   string
	DryRun bool
	// Assignment is attached to every imported entry (the default bucket).
	Assignment *model.Assignment
}

// parseEventTime parses a Calendar event time. Timed events carry an
// RFC 3339 dateTime with offset; all-day events only carry a date and are
// skipped before this is called.
func parseEventTime(et EventTime) (time.Time, error) {
	if et.DateTime == "" {
		return time.Time{}, fmt.Errorf("event has no dateTime")
	}
	t, err := time.Parse(time.RFC3339, et.DateTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse event time %q: %w", et.DateTime, err)
	}
	return t, nil
}

// buildComment combines description and location into a comment string.
func buildComment(event Event) *string {
	parts := []string{}
	if event.Description != "" {
		parts = append(parts, event.Description)
	}
	if event.Location != "" {
		parts = append(parts, event.Location)
	}
	if len(parts) == 0 {
		return nil
	}
	s := strings.Join(parts, "\n")
	return &s
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event Event) bool {
	if event.Status == "cancelled" {
		return true
	}
	// All-day events carry a date instead of a dateTime.
	if event.Start.Date != "" || event.Start.DateTime == "" {
		return true
	}
	if event.End.DateTime == "" {
		return true
	}
	if event.Transparency == "transparent" {
		return true
	}
	if event.Visibility == "private" || event.Visibility == "confidential" {
		return true
	}
	return false
}

// MapEventToEntry converts a Calendar event into a tracky Entry.
func MapEventToEntry(event Event, assignment *model.Assignment) (model.Entry, time.Time, error) {
	startTime, err := parseEventTime(event.Start)
	if err != nil {
		return model.Entry{}, time.Time{}, fmt.Errorf("parsing start time: %w", err)
	}
	endTime, err := parseEventTime(event.End)
	if err != nil {
		return model.Entry{}, time.Time{}, fmt.Errorf("parsing end time: %w", err)
	}

	dur := int64(endTime.Sub(startTime).Seconds())
	summary := event.Summary
	comment := buildComment(event)
	if summary != "" {
		if comment == nil {
			comment = &summary
		} else {
			merged := summary + "\n" + *comment
			comment = &merged
		}
	}

	entry := model.Entry{
		ID:              timecalc.GenerateID(startTime),
		ExternalID:      event.ID,
		Assignment:      assignment,
		Comment:         comment,
		Tags:            []string{"gcal"},
		Start:           startTime,
		End:             &endTime,
		DurationSeconds: &dur,
		Source:          "gcal",
	}
	return entry, startTime, nil
}

// findByExternalID searches loaded entries for one with the given external_id.
func findByExternalID(entries []model.Entry, externalID string) *model.Entry {
	for i := range entries {
		if entries[i].ExternalID == externalID {
			return &entries[i]
		}
	}
	return nil
}

// SyncEvents processes a slice of Calendar events and persists them to
// storage. It prints progress to stdout and returns a SyncResult.
func SyncEvents(events []Event, opts SyncOptions) (SyncResult, error) {
	var result SyncResult

	for _, event := range events {
		if shouldSkip(event) {
			continue
		}

		entry, startTime, err := MapEventToEntry(event, opts.Assignment)
		if err != nil {
			fmt.Printf("  ! Error mapping event %q: %v\n", event.Summary, err)
			result.Errors++
			continue
		}

		existing, loadErr := storage.LoadDay(opts.Base, startTime)
		if loadErr != nil {
			fmt.Printf("  ! Error loading day for %q: %v\n", event.Summary, loadErr)
			result.Errors++
			continue
		}

		found := findByExternalID(existing.Entries, event.ID)
		if found != nil {
			// Already imported — check if it needs updating.
			if sameComment(found.Comment, entry.Comment) &&
				found.Start.Equal(entry.Start) && found.End != nil && entry.End != nil && found.End.Equal(*entry.End) {
				fmt.Printf("  – Skipped:  %s (already exists)\n", event.Summary)
				result.Skipped++
				continue
			}
			// Update in place: keep the original ID, any pushed worklog,
			// and a reassignment the user made after the import.
			entry.ID = found.ID
			entry.TempoWorklogID = found.TempoWorklogID
			if found.Assignment != nil {
				entry.Assignment = found.Assignment
			}
			if !opts.DryRun {
				if err := storage.UpdateEntry(opts.Base, startTime, entry); err != nil {
					fmt.Printf("  ! Error updating %q: %v\n", event.Summary, err)
					result.Errors++
					continue
				}
			}
			fmt.Printf("  ↑ Updated:  %s%s\n", event.Summary, durationTag(entry))
			result.Updated++
			continue
		}

		if !opts.DryRun {
			if err := storage.UpdateEntry(opts.Base, startTime, entry); err != nil {
				fmt.Printf("  ! Error saving %q: %v\n", event.Summary, err)
				result.Errors++
				continue
			}
		}
		fmt.Printf("  ✓ Imported: %s%s\n", event.Summary, durationTag(entry))
		result.Imported++
	}

	return result, nil
}

func sameComment(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func durationTag(entry model.Entry) string {
	if entry.DurationSeconds == nil {
		return ""
	}
	return fmt.Sprintf(" (%s)", timecalc.FormatDuration(*entry.DurationSeconds))
}
