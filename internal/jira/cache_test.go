package jira

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracky/internal/db"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewCache(database)
}

func TestCachePutAndGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	issue := &Issue{
		ID:         10007,
		Key:        "PROJ-7",
		ProjectKey: "PROJ",
		Summary:    "Fix the flux",
		Status:     "In Progress",
		IssueType:  "Task",
	}
	require.NoError(t, cache.Put(ctx, issue, time.Now()))

	got, err := cache.Get(ctx, "PROJ-7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, issue.ID, got.ID)
	assert.Equal(t, issue.Summary, got.Summary)
	assert.Equal(t, issue.Status, got.Status)
}

func TestCacheGetAbsent(t *testing.T) {
	cache := newTestCache(t)

	got, err := cache.Get(context.Background(), "PROJ-404")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCachePutUpserts(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	issue := &Issue{ID: 1, Key: "PROJ-1", ProjectKey: "PROJ", Summary: "Old", Status: "Open"}
	require.NoError(t, cache.Put(ctx, issue, time.Now()))

	issue.Summary = "New"
	issue.Status = "Done"
	require.NoError(t, cache.Put(ctx, issue, time.Now()))

	got, err := cache.Get(ctx, "PROJ-1")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Summary)
	assert.Equal(t, "Done", got.Status)

	all, err := cache.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCacheListFiltersByProject(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	issues := []*Issue{
		{ID: 3, Key: "A-3", ProjectKey: "A", Summary: "a3", Status: "Open"},
		{ID: 1, Key: "A-1", ProjectKey: "A", Summary: "a1", Status: "Open"},
		{ID: 2, Key: "B-2", ProjectKey: "B", Summary: "b2", Status: "Open"},
	}
	for _, issue := range issues {
		require.NoError(t, cache.Put(ctx, issue, time.Now()))
	}

	onlyA, err := cache.List(ctx, "A")
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	// Ordered by issue number.
	assert.Equal(t, "A-1", onlyA[0].Key)
	assert.Equal(t, "A-3", onlyA[1].Key)

	all, err := cache.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
