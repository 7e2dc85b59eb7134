package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"tracky/internal/model"
	"tracky/internal/storage"
)

func TestLoadBucketsNotExist(t *testing.T) {
	base := t.TempDir()
	bf, err := storage.LoadBuckets(base)
	if err != nil {
		t.Fatalf("LoadBuckets on missing file: %v", err)
	}
	if len(bf.Buckets) != 0 {
		t.Errorf("buckets = %d, want 0", len(bf.Buckets))
	}
}

func TestSaveAndLoadBuckets(t *testing.T) {
	base := t.TempDir()

	bf := model.BucketFile{Buckets: []model.Bucket{
		{ID: "b1", Name: "Meetings", Color: "#ff8800"},
		{ID: "b2", Name: "Support", Color: "#00ff88", IssueKey: "SUP-1"},
	}}
	if err := storage.SaveBuckets(base, bf); err != nil {
		t.Fatalf("SaveBuckets: %v", err)
	}

	loaded, err := storage.LoadBuckets(base)
	if err != nil {
		t.Fatalf("LoadBuckets: %v", err)
	}
	if len(loaded.Buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(loaded.Buckets))
	}
	if loaded.Buckets[1].IssueKey != "SUP-1" {
		t.Errorf("IssueKey = %q, want %q", loaded.Buckets[1].IssueKey, "SUP-1")
	}
}

func TestLoadBucketsBackfillsColor(t *testing.T) {
	base := t.TempDir()

	// A buckets file written before colors existed.
	old := `{"buckets":[{"id":"b1","name":"Meetings"}]}`
	if err := os.WriteFile(filepath.Join(base, "buckets.json"), []byte(old), 0o600); err != nil {
		t.Fatal(err)
	}

	bf, err := storage.LoadBuckets(base)
	if err != nil {
		t.Fatalf("LoadBuckets: %v", err)
	}
	if bf.Buckets[0].Color != model.DefaultBucketColor {
		t.Errorf("Color = %q, want backfilled %q", bf.Buckets[0].Color, model.DefaultBucketColor)
	}
}

func TestFindBucket(t *testing.T) {
	bf := model.BucketFile{Buckets: []model.Bucket{
		{ID: "id-1", Name: "Meetings", Color: "#ff8800"},
		{ID: "Meetings", Name: "Trap", Color: "#000000"},
	}}

	// ID match wins over name match.
	if got := storage.FindBucket(bf, "Meetings"); got == nil || got.Name != "Trap" {
		t.Errorf("FindBucket by id = %+v, want the bucket whose ID is %q", got, "Meetings")
	}
	if got := storage.FindBucket(bf, "id-1"); got == nil || got.Name != "Meetings" {
		t.Errorf("FindBucket(%q) = %+v", "id-1", got)
	}
	if got := storage.FindBucket(bf, "nope"); got != nil {
		t.Errorf("FindBucket(%q) = %+v, want nil", "nope", got)
	}
}
