package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuePayload(id, key, project, summary, status string) map[string]any {
	return map[string]any{
		"id":  id,
		"key": key,
		"fields": map[string]any{
			"summary":   summary,
			"status":    map[string]any{"name": status},
			"issuetype": map[string]any{"name": "Task"},
			"project":   map[string]any{"key": project},
		},
	}
}

func TestGetIssue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/issue/PROJ-7", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "me@example.com", user)
		assert.Equal(t, "tok", pass)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(issuePayload("10007", "PROJ-7", "PROJ", "Fix the flux", "In Progress"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "me@example.com", "tok", nil)
	issue, err := client.GetIssue(context.Background(), "PROJ-7")
	require.NoError(t, err)

	assert.Equal(t, int64(10007), issue.ID)
	assert.Equal(t, "PROJ-7", issue.Key)
	assert.Equal(t, "PROJ", issue.ProjectKey)
	assert.Equal(t, "Fix the flux", issue.Summary)
	assert.Equal(t, "In Progress", issue.Status)
}

func TestGetIssueNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["Issue does not exist"]}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "me@example.com", "tok", nil)
	_, err := client.GetIssue(context.Background(), "PROJ-999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetIssueServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "me@example.com", "tok", nil)
	_, err := client.GetIssue(context.Background(), "PROJ-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	// The status text must reach the user.
	assert.Contains(t, err.Error(), "500")
}
