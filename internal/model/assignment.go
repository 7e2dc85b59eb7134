package model

import (
	"encoding/json"
	"fmt"
)

// Assignment kinds.
const (
	AssignBucket = "bucket"
	AssignIssue  = "issue"
)

// Assignment associates an entry with either a bucket or a Jira issue.
// Exactly one of BucketID / IssueKey is set, discriminated by Type.
type Assignment struct {
	Type     string
	BucketID string
	IssueKey string
}

// NewBucketAssignment returns an assignment pointing at a bucket.
func NewBucketAssignment(bucketID string) *Assignment {
	return &Assignment{Type: AssignBucket, BucketID: bucketID}
}

// NewIssueAssignment returns an assignment pointing at a Jira issue.
func NewIssueAssignment(issueKey string) *Assignment {
	return &Assignment{Type: AssignIssue, IssueKey: issueKey}
}

type assignmentJSON struct {
	Type   string `json:"type"`
	Bucket string `json:"bucket,omitempty"`
	Issue  string `json:"issue,omitempty"`
}

// MarshalJSON encodes the assignment in its tagged form.
func (a Assignment) MarshalJSON() ([]byte, error) {
	switch a.Type {
	case AssignBucket:
		return json.Marshal(assignmentJSON{Type: AssignBucket, Bucket: a.BucketID})
	case AssignIssue:
		return json.Marshal(assignmentJSON{Type: AssignIssue, Issue: a.IssueKey})
	default:
		return nil, fmt.Errorf("assignment has unknown type %q", a.Type)
	}
}

// UnmarshalJSON decodes the tagged form and validates the discriminator.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var raw assignmentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case AssignBucket:
		if raw.Bucket == "" {
			return fmt.Errorf("bucket assignment missing bucket id")
		}
		*a = Assignment{Type: AssignBucket, BucketID: raw.Bucket}
	case AssignIssue:
		if raw.Issue == "" {
			return fmt.Errorf("issue assignment missing issue key")
		}
		*a = Assignment{Type: AssignIssue, IssueKey: raw.Issue}
	default:
		return fmt.Errorf("assignment has unknown type %q", raw.Type)
	}
	return nil
}
