package model

// DefaultBucketColor is assigned to buckets stored without a color.
const DefaultBucketColor = "#808080"

// Bucket is a user-defined category for grouping time entries.
type Bucket struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	// IssueKey optionally links the bucket to a Jira issue; entries
	// assigned to the bucket are pushed to Tempo against that issue.
	IssueKey string `json:"issue_key,omitempty"`
}

// BucketFile is the on-disk container for all buckets.
type BucketFile struct {
	Buckets []Bucket `json:"buckets"`
}
