package cmd

import (
	"testing"

	"tracky/internal/model"
)

func TestAssignmentLabel(t *testing.T) {
	buckets := model.BucketFile{Buckets: []model.Bucket{
		{ID: "b1", Name: "Meetings", Color: "#ff8800"},
	}}

	tests := []struct {
		name string
		a    *model.Assignment
		want string
	}{
		{"nil", nil, "(unassigned)"},
		{"issue", model.NewIssueAssignment("PROJ-7"), "PROJ-7"},
		{"bucket", model.NewBucketAssignment("b1"), "Meetings"},
		{"dangling bucket", model.NewBucketAssignment("gone"), "gone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assignmentLabel(tt.a, buckets); got != tt.want {
				t.Errorf("assignmentLabel = %q, want %q", got, tt.want)
			}
		})
	}
}
