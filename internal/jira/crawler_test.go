package jira

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves issues from a fixed set of existing numbers and
// records every key it was asked for. Safe for concurrent use.
type fakeFetcher struct {
	mu       sync.Mutex
	existing map[int]bool
	asked    map[int]bool
	failAt   int // non-zero: return a non-404 error for this number
}

func (f *fakeFetcher) GetIssue(ctx context.Context, key string) (*Issue, error) {
	_, num, err := splitKey(key)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.asked[num] = true
	f.mu.Unlock()

	if f.failAt != 0 && num == f.failAt {
		return nil, errors.New("jira API error: 503 Service Unavailable")
	}
	if !f.existing[num] {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return &Issue{
		ID:         int64(10000 + num),
		Key:        key,
		ProjectKey: "PROJ",
		Summary:    fmt.Sprintf("Issue %d", num),
		Status:     "Open",
	}, nil
}

func (f *fakeFetcher) maxAsked() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for n := range f.asked {
		if n > max {
			max = n
		}
	}
	return max
}

// fakeRecorder collects recorded issues. Safe for concurrent use.
type fakeRecorder struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (r *fakeRecorder) Put(ctx context.Context, issue *Issue, crawledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[issue.Key] = true
	return nil
}

func newFakes(existing ...int) (*fakeFetcher, *fakeRecorder) {
	e := map[int]bool{}
	for _, n := range existing {
		e[n] = true
	}
	return &fakeFetcher{existing: e, asked: map[int]bool{}},
		&fakeRecorder{keys: map[string]bool{}}
}

func TestCrawlRecordsFoundIssues(t *testing.T) {
	fetcher, recorder := newFakes(8, 9, 10, 12)

	crawler := NewCrawler(fetcher, recorder, nil)
	result, err := crawler.Crawl(context.Background(), "PROJ-10")
	require.NoError(t, err)

	assert.Equal(t, 4, result.Found)
	for _, key := range []string{"PROJ-8", "PROJ-9", "PROJ-10", "PROJ-12"} {
		assert.True(t, recorder.keys[key], "expected %s recorded", key)
	}
	assert.False(t, recorder.keys["PROJ-11"])
}

func TestCrawlStopsAfterFiftyConsecutiveMisses(t *testing.T) {
	// Only the seed exists; going up must stop after exactly 50 misses.
	fetcher, recorder := newFakes(10)

	crawler := NewCrawler(fetcher, recorder, nil)
	result, err := crawler.Crawl(context.Background(), "PROJ-10")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Found)
	// Upward direction asks 11..60 and stops; 61 must never be requested.
	assert.True(t, fetcher.asked[60], "expected PROJ-60 to be probed")
	assert.False(t, fetcher.asked[61], "PROJ-61 probed past the miss budget")
	assert.Equal(t, 60, fetcher.maxAsked())
	// Downward direction asks 9..1 (9 misses), bounded by number 1.
	assert.Equal(t, 50+9, result.Missed)
}

func TestCrawlMissCounterResetsOnHit(t *testing.T) {
	// A hit 40 misses up from the seed extends the crawl past number 60.
	fetcher, recorder := newFakes(10, 50)

	crawler := NewCrawler(fetcher, recorder, nil)
	result, err := crawler.Crawl(context.Background(), "PROJ-10")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Found)
	assert.True(t, recorder.keys["PROJ-50"])
	// After the hit at 50 the budget restarts: probes continue to 100.
	assert.True(t, fetcher.asked[100])
	assert.False(t, fetcher.asked[101])
}

func TestCrawlAbortsOnServerError(t *testing.T) {
	fetcher, recorder := newFakes(10)
	fetcher.failAt = 12

	crawler := NewCrawler(fetcher, recorder, nil)
	_, err := crawler.Crawl(context.Background(), "PROJ-10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestCrawlInvalidSeed(t *testing.T) {
	fetcher, recorder := newFakes()
	crawler := NewCrawler(fetcher, recorder, nil)

	for _, seed := range []string{"PROJ", "PROJ-", "-12", "PROJ-abc", "PROJ-0"} {
		_, err := crawler.Crawl(context.Background(), seed)
		assert.Error(t, err, "seed %q", seed)
	}
}

func TestSplitKey(t *testing.T) {
	project, num, err := splitKey("AB-12")
	require.NoError(t, err)
	assert.Equal(t, "AB", project)
	assert.Equal(t, 12, num)

	// Project keys may themselves contain a dash.
	project, num, err = splitKey("AB-CD-3")
	require.NoError(t, err)
	assert.Equal(t, "AB-CD", project)
	assert.Equal(t, 3, num)
}
