package tempo

import (
	"context"
	"fmt"
	"time"

	"tracky/internal/model"
	"tracky/internal/storage"
)

// WorklogCreator is the part of Client the push needs.
type WorklogCreator interface {
	CreateWorklog(ctx context.Context, req CreateWorklogRequest) (int64, error)
}

// IssueResolver maps a Jira issue key to its numeric ID.
type IssueResolver interface {
	ResolveIssueID(ctx context.Context, key string) (int64, error)
}

// PushOptions configures a push run.
type PushOptions struct {
	Base   string
	From   time.Time
	To     time.Time
	DryRun bool
}

// PushResult holds counters for a push run.
type PushResult struct {
	Pushed  int
	Skipped int
	Errors  int
}

// issueKeyFor resolves the Jira issue key an entry should be logged against:
// a direct issue assignment wins; a bucket assignment contributes its linked
// issue if any. Returns "" when the entry has no pushable target.
func issueKeyFor(entry model.Entry, buckets model.BucketFile) string {
	if entry.Assignment == nil {
		return ""
	}
	switch entry.Assignment.Type {
	case model.AssignIssue:
		return entry.Assignment.IssueKey
	case model.AssignBucket:
		if b := storage.FindBucket(buckets, entry.Assignment.BucketID); b != nil {
			return b.IssueKey
		}
	}
	return ""
}

// PushEntries submits closed, issue-assigned, not-yet-pushed entries in the
// range as Tempo worklogs and records the returned worklog ID on each entry
// so re-pushes are idempotent. It prints progress to stdout.
func PushEntries(ctx context.Context, creator WorklogCreator, resolver IssueResolver, opts PushOptions) (PushResult, error) {
	var result PushResult

	buckets, err := storage.LoadBuckets(opts.Base)
	if err != nil {
		return result, err
	}

	for d := opts.From; !d.After(opts.To); d = d.AddDate(0, 0, 1) {
		df, err := storage.LoadDay(opts.Base, d)
		if err != nil {
			return result, err
		}

		for _, entry := range df.Entries {
			if !entry.Closed() || entry.DurationSeconds == nil {
				continue
			}
			if entry.TempoWorklogID != 0 {
				result.Skipped++
				continue
			}
			key := issueKeyFor(entry, buckets)
			if key == "" {
				continue
			}

			issueID, err := resolver.ResolveIssueID(ctx, key)
			if err != nil {
				fmt.Printf("  ! Error resolving %s: %v\n", key, err)
				result.Errors++
				continue
			}

			desc := ""
			if entry.Comment != nil {
				desc = *entry.Comment
			}
			req := CreateWorklogRequest{
				IssueID:          issueID,
				TimeSpentSeconds: *entry.DurationSeconds,
				StartDate:        entry.Start.Format("2006-01-02"),
				StartTime:        entry.Start.Format("15:04:05"),
				Description:      desc,
			}

			if opts.DryRun {
				fmt.Printf("  ~ Would push: %s %s (%ds)\n", key, req.StartDate, req.TimeSpentSeconds)
				result.Pushed++
				continue
			}

			worklogID, err := creator.CreateWorklog(ctx, req)
			if err != nil {
				fmt.Printf("  ! Error pushing %s: %v\n", key, err)
				result.Errors++
				continue
			}

			entry.TempoWorklogID = worklogID
			if err := storage.UpdateEntry(opts.Base, d, entry); err != nil {
				fmt.Printf("  ! Error saving entry %s: %v\n", entry.ID, err)
				result.Errors++
				continue
			}
			fmt.Printf("  ✓ Pushed: %s %s (%ds)\n", key, req.StartDate, req.TimeSpentSeconds)
			result.Pushed++
		}
	}
	return result, nil
}
