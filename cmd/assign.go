package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tracky/internal/storage"
)

var (
	assignBucket string
	assignIssue  string
)

var assignCmd = &cobra.Command{
	Use:   "assign <entry-id>",
	Short: "Reassign a time entry to a bucket or Jira issue",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssign,
}

func init() {
	assignCmd.Flags().StringVar(&assignBucket, "bucket", "", "Assign to a bucket")
	assignCmd.Flags().StringVar(&assignIssue, "issue", "", "Assign to a Jira issue key")
}

func runAssign(cmd *cobra.Command, args []string) error {
	id := args[0]

	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if assignBucket == "" && assignIssue == "" {
		fmt.Fprintln(os.Stderr, "one of --bucket or --issue is required")
		os.Exit(1)
	}
	assignment, err := resolveAssignment(base, assignBucket, assignIssue)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Entry IDs start with the entry's date, so the search window only
	// needs to cover the recent past; a year is generous.
	now := time.Now()
	entry, day, err := storage.FindEntry(base, now.AddDate(-1, 0, 0), now, id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if entry == nil {
		fmt.Fprintf(os.Stderr, "no entry with id %q in the last year\n", id)
		os.Exit(1)
	}

	entry.Assignment = assignment
	if err := storage.UpdateEntry(base, day, *entry); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	bf, err := storage.LoadBuckets(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("Entry %s assigned to %s\n", id, assignmentLabel(assignment, bf))
	return nil
}
