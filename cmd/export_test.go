package cmd

import (
	"testing"
	"time"

	"tracky/internal/model"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func entryAt(id string, start time.Time, a *model.Assignment) model.Entry {
	return model.Entry{ID: id, Assignment: a, Tags: []string{}, Start: start, Source: "manual"}
}

func TestFilterEntriesByDateRange(t *testing.T) {
	from := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 25, 23, 59, 59, 0, time.UTC)

	entries := []model.Entry{
		entryAt("before", from.Add(-time.Hour), nil),
		entryAt("inside", from.Add(26*time.Hour), nil),
		entryAt("edge", to, nil),
		entryAt("after", to.Add(time.Second), nil),
	}

	got := filterEntries(entries, from, to, "")
	if len(got) != 2 {
		t.Fatalf("filtered = %d entries, want 2", len(got))
	}
	if got[0].ID != "inside" || got[1].ID != "edge" {
		t.Errorf("filtered IDs = %q, %q", got[0].ID, got[1].ID)
	}
}

func TestFilterEntriesByBucket(t *testing.T) {
	day := time.Date(2026, 2, 24, 9, 0, 0, 0, time.UTC)
	from := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 25, 23, 59, 59, 0, time.UTC)

	entries := []model.Entry{
		entryAt("b1-entry", day, model.NewBucketAssignment("b1")),
		entryAt("b2-entry", day, model.NewBucketAssignment("b2")),
		entryAt("issue-entry", day, model.NewIssueAssignment("PROJ-1")),
		entryAt("unassigned", day, nil),
	}

	got := filterEntries(entries, from, to, "b1")
	if len(got) != 1 {
		t.Fatalf("filtered = %d entries, want 1", len(got))
	}
	if got[0].ID != "b1-entry" {
		t.Errorf("filtered ID = %q, want b1-entry", got[0].ID)
	}

	// No bucket filter keeps everything in range.
	if got := filterEntries(entries, from, to, ""); len(got) != 4 {
		t.Errorf("unfiltered = %d entries, want 4", len(got))
	}
}

func TestDropShortActivity(t *testing.T) {
	entries := []model.Entry{
		{ID: "mixed", Activity: []model.ActivitySample{
			{Label: "editor", Seconds: 120},
			{Label: "blip", Seconds: 2},
			{Label: "browser", Seconds: 5},
		}},
		{ID: "all-short", Activity: []model.ActivitySample{
			{Label: "blip", Seconds: 1},
		}},
		{ID: "none"},
	}

	dropShortActivity(entries, 5)

	if len(entries[0].Activity) != 2 {
		t.Fatalf("mixed entry kept %d samples, want 2", len(entries[0].Activity))
	}
	if entries[0].Activity[0].Label != "editor" || entries[0].Activity[1].Label != "browser" {
		t.Errorf("kept labels = %q, %q", entries[0].Activity[0].Label, entries[0].Activity[1].Label)
	}
	if entries[1].Activity != nil {
		t.Errorf("all-short entry should have nil activity, got %v", entries[1].Activity)
	}
	if entries[2].Activity != nil {
		t.Errorf("empty entry should stay nil")
	}
}
