package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tracky/internal/model"
	"tracky/internal/storage"
	"tracky/internal/timecalc"
)

var (
	startBucket  string
	startIssue   string
	startComment string
	startTags    string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new time entry",
	Args:  cobra.NoArgs,
	RunE:  runStart,
}

func init() {
	startCmd.Flags().StringVar(&startBucket, "bucket", "", "Assign the entry to a bucket")
	startCmd.Flags().StringVar(&startIssue, "issue", "", "Assign the entry to a Jira issue key")
	startCmd.Flags().StringVar(&startComment, "comment", "", "Optional comment")
	startCmd.Flags().StringVar(&startTags, "tags", "", "Comma-separated tags")
}

func runStart(cmd *cobra.Command, args []string) error {
	now := time.Now()

	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	assignment, err := resolveAssignment(base, startBucket, startIssue)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Check for an existing active timer and auto-stop it.
	active, activeDay, err := storage.FindActiveEntry(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if active != nil {
		fmt.Fprintln(os.Stderr, "Warning: auto-stopping the running timer")
		if err := stopEntry(base, active, activeDay, now, nil); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	// Build new entry.
	entry := model.Entry{
		ID:         timecalc.GenerateID(now),
		Assignment: assignment,
		Tags:       []string{},
		Start:      now,
		Source:     "manual",
	}
	if startComment != "" {
		entry.Comment = &startComment
	}
	if startTags != "" {
		parts := strings.Split(startTags, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		entry.Tags = parts
	}

	if err := storage.UpdateEntry(base, now, entry); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	bf, err := storage.LoadBuckets(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("Started timer (%s) at %s\n", assignmentLabel(assignment, bf), now.Format("15:04:05"))
	return nil
}

// stopEntry closes an entry, handling midnight crossover by splitting if necessary.
func stopEntry(base string, entry *model.Entry, entryDay time.Time, stopTime time.Time, comment *string) error {
	if comment != nil && *comment != "" {
		if entry.Comment != nil {
			merged := *entry.Comment + "\n" + *comment
			entry.Comment = &merged
		} else {
			entry.Comment = comment
		}
	}

	// Check for midnight crossover.
	if !timecalc.SameDay(entry.Start, stopTime) {
		return splitAcrossMidnight(base, entry, entryDay, stopTime)
	}

	end := stopTime
	dur := int64(stopTime.Sub(entry.Start).Seconds())
	entry.End = &end
	entry.DurationSeconds = &dur
	return storage.UpdateEntry(base, entryDay, *entry)
}

// splitAcrossMidnight splits a cross-midnight entry into two entries.
func splitAcrossMidnight(base string, entry *model.Entry, entryDay time.Time, stopTime time.Time) error {
	// First segment ends at 23:59:59 of the start day.
	endOfFirst := timecalc.EndOfDay(entry.Start)
	dur1 := int64(endOfFirst.Sub(entry.Start).Seconds())
	entry.End = &endOfFirst
	entry.DurationSeconds = &dur1
	if err := storage.UpdateEntry(base, entryDay, *entry); err != nil {
		return err
	}

	// Second segment starts at 00:00:00 of the stop day.
	startOfSecond := timecalc.StartOfDay(stopTime)
	dur2 := int64(stopTime.Sub(startOfSecond).Seconds())
	second := model.Entry{
		ID:              timecalc.GenerateID(startOfSecond),
		Assignment:      entry.Assignment,
		Comment:         entry.Comment,
		Tags:            entry.Tags,
		Start:           startOfSecond,
		End:             &stopTime,
		DurationSeconds: &dur2,
		Source:          entry.Source,
	}
	return storage.UpdateEntry(base, stopTime, second)
}
