package cmd

import (
	"fmt"

	"tracky/internal/model"
	"tracky/internal/storage"
)

// resolveAssignment turns the --bucket / --issue flag pair into an
// Assignment. The flags are mutually exclusive; both empty means no
// assignment.
func resolveAssignment(base, bucketFlag, issueFlag string) (*model.Assignment, error) {
	if bucketFlag != "" && issueFlag != "" {
		return nil, fmt.Errorf("--bucket and --issue are mutually exclusive")
	}
	if issueFlag != "" {
		return model.NewIssueAssignment(issueFlag), nil
	}
	if bucketFlag != "" {
		bf, err := storage.LoadBuckets(base)
		if err != nil {
			return nil, err
		}
		b := storage.FindBucket(bf, bucketFlag)
		if b == nil {
			return nil, fmt.Errorf("no bucket named %q (create it with: tracky bucket add %s)", bucketFlag, bucketFlag)
		}
		return model.NewBucketAssignment(b.ID), nil
	}
	return nil, nil
}

// assignmentLabel renders an assignment for list/status output. Bucket
// references are resolved to names; dangling references show the raw id.
func assignmentLabel(a *model.Assignment, buckets model.BucketFile) string {
	if a == nil {
		return "(unassigned)"
	}
	switch a.Type {
	case model.AssignIssue:
		return a.IssueKey
	case model.AssignBucket:
		if b := storage.FindBucket(buckets, a.BucketID); b != nil {
			return b.Name
		}
		return a.BucketID
	}
	return "(unassigned)"
}
