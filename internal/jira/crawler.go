package jira

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxConsecutiveMisses ends a crawl direction after this many 404s in a row.
const MaxConsecutiveMisses = 50

// IssueFetcher is the part of Client the crawler needs.
type IssueFetcher interface {
	GetIssue(ctx context.Context, key string) (*Issue, error)
}

// IssueRecorder persists discovered issues.
type IssueRecorder interface {
	Put(ctx context.Context, issue *Issue, crawledAt time.Time) error
}

// CrawlResult holds counters for one crawl run.
type CrawlResult struct {
	Found  int
	Missed int
}

// Crawler discovers issues around a seed key by enumerating issue numbers.
type Crawler struct {
	fetcher  IssueFetcher
	recorder IssueRecorder
	log      *zap.Logger

	mu     sync.Mutex
	result CrawlResult
}

// NewCrawler wires a crawler to a fetcher and a recorder.
func NewCrawler(fetcher IssueFetcher, recorder IssueRecorder, log *zap.Logger) *Crawler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Crawler{fetcher: fetcher, recorder: recorder, log: log}
}

// splitKey splits "PROJ-123" into its project prefix and number.
func splitKey(key string) (string, int, error) {
	idx := strings.LastIndex(key, "-")
	if idx <= 0 || idx == len(key)-1 {
		return "", 0, fmt.Errorf("invalid issue key %q (want PROJECT-NUMBER)", key)
	}
	n, err := strconv.Atoi(key[idx+1:])
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("invalid issue number in key %q", key)
	}
	return key[:idx], n, nil
}

// Crawl walks issue numbers upward and downward from the seed key, both
// directions concurrently. A 404 counts as a miss; a direction stops after
// MaxConsecutiveMisses misses in a row, and any miss counter resets when an
// issue is found. Errors other than 404 abort the whole crawl.
func (c *Crawler) Crawl(ctx context.Context, seed string) (CrawlResult, error) {
	project, num, err := splitKey(seed)
	if err != nil {
		return CrawlResult{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.walk(gctx, project, num, +1) })
	g.Go(func() error { return c.walk(gctx, project, num-1, -1) })

	if err := g.Wait(); err != nil {
		return CrawlResult{}, err
	}
	return c.result, nil
}

// walk enumerates keys in one direction until the miss budget is exhausted
// or the numbers run out.
func (c *Crawler) walk(ctx context.Context, project string, start, step int) error {
	misses := 0
	for n := start; n >= 1 && misses < MaxConsecutiveMisses; n += step {
		key := fmt.Sprintf("%s-%d", project, n)

		issue, err := c.fetcher.GetIssue(ctx, key)
		switch {
		case errors.Is(err, ErrNotFound):
			misses++
			c.mu.Lock()
			c.result.Missed++
			c.mu.Unlock()
			continue
		case err != nil:
			return err
		}

		misses = 0
		if err := c.recorder.Put(ctx, issue, time.Now()); err != nil {
			return fmt.Errorf("recording %s: %w", key, err)
		}
		c.log.Debug("crawled issue", zap.String("key", key), zap.String("status", issue.Status))
		c.mu.Lock()
		c.result.Found++
		c.mu.Unlock()
	}
	return nil
}
