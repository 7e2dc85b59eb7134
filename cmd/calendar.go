package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tracky/internal/config"
	"tracky/internal/google"
	"tracky/internal/model"
	"tracky/internal/storage"
	"tracky/internal/timecalc"
)

var (
	calSyncFrom   string
	calSyncTo     string
	calSyncDate   string
	calSyncDryRun bool
	calSyncBucket string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Google Calendar integration",
}

var calendarAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate against Google Calendar",
	Args:  cobra.NoArgs,
	RunE:  runCalendarAuth,
}

var calendarSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Google Calendar events as time entries",
	Args:  cobra.NoArgs,
	RunE:  runCalendarSync,
}

func init() {
	calendarSyncCmd.Flags().StringVar(&calSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	calendarSyncCmd.Flags().StringVar(&calSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	calendarSyncCmd.Flags().StringVar(&calSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	calendarSyncCmd.Flags().BoolVar(&calSyncDryRun, "dry-run", false, "Print planned operations without writing")
	calendarSyncCmd.Flags().StringVar(&calSyncBucket, "bucket", "", "Bucket for imported events (default from config)")
	calendarCmd.AddCommand(calendarAuthCmd)
	calendarCmd.AddCommand(calendarSyncCmd)
}

// googleOAuthConfig loads config and validates the Google credentials.
func googleOAuthConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if cfg.Google.ClientID == "" || cfg.Google.ClientSecret == "" {
		return cfg, fmt.Errorf("google client credentials missing; fill in the google section of ~/.tracky/config.json")
	}
	return cfg, nil
}

func runCalendarAuth(cmd *cobra.Command, args []string) error {
	cfg, err := googleOAuthConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	oc := google.OAuth2Config(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectPort)
	if err := google.Authorize(context.Background(), oc, cfg.Google.RedirectPort); err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(1)
	}
	return nil
}

// syncBucketAssignment resolves (creating if needed) the bucket imported
// entries are assigned to.
func syncBucketAssignment(base, name string) (*model.Assignment, error) {
	bf, err := storage.LoadBuckets(base)
	if err != nil {
		return nil, err
	}
	if b := storage.FindBucket(bf, name); b != nil {
		return model.NewBucketAssignment(b.ID), nil
	}
	bucket := model.Bucket{
		ID:    uuid.NewString(),
		Name:  name,
		Color: model.DefaultBucketColor,
	}
	bf.Buckets = append(bf.Buckets, bucket)
	if err := storage.SaveBuckets(base, bf); err != nil {
		return nil, err
	}
	return model.NewBucketAssignment(bucket.ID), nil
}

func runCalendarSync(cmd *cobra.Command, args []string) error {
	now := time.Now()
	var from, to time.Time

	switch {
	case calSyncDate != "":
		d, err := timecalc.ParseDate(calSyncDate)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		from = timecalc.StartOfDay(d)
		to = timecalc.EndOfDay(d)

	case calSyncFrom != "" || calSyncTo != "":
		if calSyncTo != "" && calSyncFrom == "" {
			fmt.Fprintln(os.Stderr, "--from is required when --to is specified")
			os.Exit(1)
		}
		d, err := timecalc.ParseDate(calSyncFrom)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		from = timecalc.StartOfDay(d)

		if calSyncTo != "" {
			t, err := timecalc.ParseDate(calSyncTo)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			to = timecalc.EndOfDay(t)
		} else {
			to = timecalc.EndOfDay(now)
		}

	default:
		// Default: today.
		from = timecalc.StartOfDay(now)
		to = timecalc.EndOfDay(now)
	}

	cfg, err := googleOAuthConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	bucketName := calSyncBucket
	if bucketName == "" {
		bucketName = cfg.Google.DefaultBucket
	}
	assignment, err := syncBucketAssignment(base, bucketName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	dryTag := ""
	if calSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing calendar events (%s → %s)%s...\n",
		from.Format("2006-01-02"), to.Format("2006-01-02"), dryTag)
	fmt.Println()

	ctx := context.Background()

	oc := google.OAuth2Config(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectPort)
	tok, err := google.GetToken(ctx, oc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		os.Exit(1)
	}

	client := google.NewClient(ctx, tok, oc)

	events, err := client.ListEvents(ctx, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch calendar events: %v\n", err)
		os.Exit(1)
	}

	opts := google.SyncOptions{
		Base:       base,
		DryRun:     calSyncDryRun,
		Assignment: assignment,
	}

	result, err := google.SyncEvents(events, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sync error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", result.Imported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	fmt.Printf("  %d updated\n", result.Updated)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		os.Exit(2)
	}
	return nil
}
