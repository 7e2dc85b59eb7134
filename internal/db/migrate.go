package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrations are run in order on every open. Statements must be idempotent;
// ALTER TABLE duplicates are tolerated below.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS issues (
		issue_key   TEXT PRIMARY KEY,
		issue_id    INTEGER NOT NULL,
		project_key TEXT NOT NULL,
		summary     TEXT NOT NULL,
		status      TEXT NOT NULL,
		issue_type  TEXT NOT NULL DEFAULT '',
		crawled_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project_key)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration list re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
