package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tracky/internal/model"
)

// bucketFilePath returns the path to the single buckets file.
func bucketFilePath(base string) string {
	return filepath.Join(base, "buckets.json")
}

// LoadBuckets reads all buckets. Returns an empty file if none exists.
func LoadBuckets(base string) (model.BucketFile, error) {
	path := bucketFilePath(base)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.BucketFile{Buckets: []model.Bucket{}}, nil
	}
	if err != nil {
		return model.BucketFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var bf model.BucketFile
	if err := json.Unmarshal(data, &bf); err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.BucketFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}

	// Buckets written by old versions may lack a color.
	for i := range bf.Buckets {
		if bf.Buckets[i].Color == "" {
			bf.Buckets[i].Color = model.DefaultBucketColor
		}
	}
	return bf, nil
}

// SaveBuckets atomically writes the buckets file.
func SaveBuckets(base string, bf model.BucketFile) error {
	if err := os.MkdirAll(base, 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	return writeJSONAtomic(bucketFilePath(base), bf)
}

// FindBucket looks a bucket up by ID or name (ID wins). Returns nil if absent.
func FindBucket(bf model.BucketFile, idOrName string) *model.Bucket {
	for i := range bf.Buckets {
		if bf.Buckets[i].ID == idOrName {
			return &bf.Buckets[i]
		}
	}
	for i := range bf.Buckets {
		if bf.Buckets[i].Name == idOrName {
			return &bf.Buckets[i]
		}
	}
	return nil
}
