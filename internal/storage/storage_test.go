package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tracky/internal/model"
	"tracky/internal/storage"
)

func TestLoadDayNotExist(t *testing.T) {
	base := t.TempDir()
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	df, err := storage.LoadDay(base, day)
	if err != nil {
		t.Fatalf("LoadDay on missing file: %v", err)
	}
	if df.Date != "2026-02-27" {
		t.Errorf("LoadDay date = %q, want %q", df.Date, "2026-02-27")
	}
	if len(df.Entries) != 0 {
		t.Errorf("LoadDay entries = %d, want 0", len(df.Entries))
	}
}

func TestSaveDayAndLoadDay(t *testing.T) {
	base := t.TempDir()
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

	df := model.DayFile{
		Date: "2026-02-27",
		Entries: []model.Entry{
			{
				ID:         "test-id-1",
				Assignment: model.NewIssueAssignment("PROJ-42"),
				Tags:       []string{},
				Start:      day,
				Source:     "manual",
			},
		},
	}

	if err := storage.SaveDay(base, day, df); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}

	loaded, err := storage.LoadDay(base, day)
	if err != nil {
		t.Fatalf("LoadDay after save: %v", err)
	}
	if len(loaded.Entries) != 1 {
		t.Fatalf("LoadDay entries = %d, want 1", len(loaded.Entries))
	}
	got := loaded.Entries[0]
	if got.Assignment == nil || got.Assignment.Type != model.AssignIssue || got.Assignment.IssueKey != "PROJ-42" {
		t.Errorf("LoadDay assignment = %+v, want issue PROJ-42", got.Assignment)
	}
}

func TestLoadDayCorruptBackup(t *testing.T) {
	base := t.TempDir()
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

	path := filepath.Join(base, "2026", "02", "27.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := storage.LoadDay(base, day)
	if err == nil {
		t.Fatal("expected error for corrupt JSON, got nil")
	}

	if _, statErr := os.Stat(path + ".corrupt"); statErr != nil {
		t.Errorf("corrupt file was not backed up: %v", statErr)
	}
}

func TestLoadDayBackfillsSource(t *testing.T) {
	base := t.TempDir()
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

	// A day file written before the source field existed.
	path := filepath.Join(base, "2026", "02", "27.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	old := `{"date":"2026-02-27","entries":[{"id":"e1","start":"2026-02-27T09:00:00Z"}]}`
	if err := os.WriteFile(path, []byte(old), 0o600); err != nil {
		t.Fatal(err)
	}

	df, err := storage.LoadDay(base, day)
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if df.Entries[0].Source != "manual" {
		t.Errorf("Source = %q, want backfilled %q", df.Entries[0].Source, "manual")
	}
	if df.Entries[0].Tags == nil {
		t.Error("Tags = nil, want backfilled empty slice")
	}
}

func TestUpdateEntryReplacesByID(t *testing.T) {
	base := t.TempDir()
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

	entry := model.Entry{ID: "e1", Tags: []string{}, Start: day, Source: "manual"}
	if err := storage.UpdateEntry(base, day, entry); err != nil {
		t.Fatalf("UpdateEntry append: %v", err)
	}

	end := day.Add(time.Hour)
	dur := int64(3600)
	entry.End = &end
	entry.DurationSeconds = &dur
	if err := storage.UpdateEntry(base, day, entry); err != nil {
		t.Fatalf("UpdateEntry replace: %v", err)
	}

	df, err := storage.LoadDay(base, day)
	if err != nil {
		t.Fatalf("LoadDay: %v", err)
	}
	if len(df.Entries) != 1 {
		t.Fatalf("entries = %d, want 1 (replace, not append)", len(df.Entries))
	}
	if df.Entries[0].DurationSeconds == nil || *df.Entries[0].DurationSeconds != 3600 {
		t.Errorf("DurationSeconds = %v, want 3600", df.Entries[0].DurationSeconds)
	}
}

func TestFindEntry(t *testing.T) {
	base := t.TempDir()
	day := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)

	entry := model.Entry{ID: "e-find", Tags: []string{}, Start: day.Add(9 * time.Hour), Source: "manual"}
	if err := storage.UpdateEntry(base, day, entry); err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}

	from := day.AddDate(0, 0, -3)
	to := day.AddDate(0, 0, 3)

	found, foundDay, err := storage.FindEntry(base, from, to, "e-find")
	if err != nil {
		t.Fatalf("FindEntry: %v", err)
	}
	if found == nil {
		t.Fatal("FindEntry returned nil for existing entry")
	}
	if !foundDay.Equal(day) {
		t.Errorf("FindEntry day = %v, want %v", foundDay, day)
	}

	missing, _, err := storage.FindEntry(base, from, to, "nope")
	if err != nil {
		t.Fatalf("FindEntry: %v", err)
	}
	if missing != nil {
		t.Error("FindEntry returned an entry for unknown id")
	}
}

func TestLoadRange(t *testing.T) {
	base := t.TempDir()
	d1 := time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC)

	for i, d := range []time.Time{d1, d2} {
		entry := model.Entry{ID: string(rune('a' + i)), Tags: []string{}, Start: d, Source: "manual"}
		if err := storage.UpdateEntry(base, d, entry); err != nil {
			t.Fatalf("UpdateEntry: %v", err)
		}
	}

	entries, err := storage.LoadRange(base, d1, d2)
	if err != nil {
		t.Fatalf("LoadRange: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("LoadRange entries = %d, want 2", len(entries))
	}
}
