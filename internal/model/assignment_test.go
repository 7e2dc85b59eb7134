package model_test

import (
	"encoding/json"
	"testing"

	"tracky/internal/model"
)

func TestAssignmentJSONBucket(t *testing.T) {
	a := model.NewBucketAssignment("b1")
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"type":"bucket","bucket":"b1"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back model.Assignment
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Type != model.AssignBucket || back.BucketID != "b1" {
		t.Errorf("Unmarshal = %+v", back)
	}
}

func TestAssignmentJSONIssue(t *testing.T) {
	a := model.NewIssueAssignment("PROJ-7")
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back model.Assignment
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Type != model.AssignIssue || back.IssueKey != "PROJ-7" {
		t.Errorf("Unmarshal = %+v", back)
	}
}

func TestAssignmentJSONInvalid(t *testing.T) {
	cases := []string{
		`{"type":"sprint","sprint":"s1"}`,
		`{"type":"bucket"}`,
		`{"type":"issue"}`,
	}
	for _, c := range cases {
		var a model.Assignment
		if err := json.Unmarshal([]byte(c), &a); err == nil {
			t.Errorf("Unmarshal(%s) accepted invalid assignment", c)
		}
	}
}
