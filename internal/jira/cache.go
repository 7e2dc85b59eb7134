package jira

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Cache stores crawled issues in the local SQLite database so lookups and
// listings work offline.
type Cache struct {
	db *sql.DB
}

// NewCache creates a Cache over an opened database.
func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

// Put inserts or replaces an issue.
func (c *Cache) Put(ctx context.Context, issue *Issue, crawledAt time.Time) error {
	query := `INSERT INTO issues (issue_key, issue_id, project_key, summary, status, issue_type, crawled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(issue_key) DO UPDATE SET
			issue_id = excluded.issue_id,
			project_key = excluded.project_key,
			summary = excluded.summary,
			status = excluded.status,
			issue_type = excluded.issue_type,
			crawled_at = excluded.crawled_at`
	_, err := c.db.ExecContext(ctx, query,
		issue.Key,
		issue.ID,
		issue.ProjectKey,
		issue.Summary,
		issue.Status,
		issue.IssueType,
		crawledAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting issue %s: %w", issue.Key, err)
	}
	return nil
}

// Get returns a cached issue by key, or nil when absent.
func (c *Cache) Get(ctx context.Context, key string) (*Issue, error) {
	query := `SELECT issue_key, issue_id, project_key, summary, status, issue_type
		FROM issues WHERE issue_key = ?`
	row := c.db.QueryRowContext(ctx, query, key)

	var issue Issue
	err := row.Scan(&issue.Key, &issue.ID, &issue.ProjectKey, &issue.Summary, &issue.Status, &issue.IssueType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading issue %s: %w", key, err)
	}
	return &issue, nil
}

// List returns cached issues, optionally filtered by project key, ordered
// by issue number.
func (c *Cache) List(ctx context.Context, projectKey string) ([]Issue, error) {
	query := `SELECT issue_key, issue_id, project_key, summary, status, issue_type
		FROM issues`
	args := []any{}
	if projectKey != "" {
		query += ` WHERE project_key = ?`
		args = append(args, projectKey)
	}
	query += ` ORDER BY project_key, issue_id`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	defer rows.Close()

	var issues []Issue
	for rows.Next() {
		var issue Issue
		if err := rows.Scan(&issue.Key, &issue.ID, &issue.ProjectKey, &issue.Summary, &issue.Status, &issue.IssueType); err != nil {
			return nil, fmt.Errorf("scanning issue row: %w", err)
		}
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}
