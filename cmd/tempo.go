package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tracky/internal/config"
	"tracky/internal/jira"
	"tracky/internal/storage"
	"tracky/internal/tempo"
	"tracky/internal/timecalc"
)

var (
	tempoPushFrom   string
	tempoPushTo     string
	tempoPushDryRun bool
)

var tempoCmd = &cobra.Command{
	Use:   "tempo",
	Short: "Tempo Timesheets integration",
}

var tempoPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push closed, issue-assigned entries as Tempo worklogs",
	Args:  cobra.NoArgs,
	RunE:  runTempoPush,
}

func init() {
	tempoPushCmd.Flags().StringVar(&tempoPushFrom, "from", "", "Start date (YYYY-MM-DD); defaults to this week's Monday")
	tempoPushCmd.Flags().StringVar(&tempoPushTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	tempoPushCmd.Flags().BoolVar(&tempoPushDryRun, "dry-run", false, "Print planned worklogs without submitting")
	tempoCmd.AddCommand(tempoPushCmd)
}

// cachingResolver resolves issue keys to numeric IDs via the local cache,
// falling back to the Jira API and caching the result.
type cachingResolver struct {
	cache  *jira.Cache
	client *jira.Client
}

func (r *cachingResolver) ResolveIssueID(ctx context.Context, key string) (int64, error) {
	if issue, err := r.cache.Get(ctx, key); err != nil {
		return 0, err
	} else if issue != nil {
		return issue.ID, nil
	}

	issue, err := r.client.GetIssue(ctx, key)
	if err != nil {
		return 0, err
	}
	if err := r.cache.Put(ctx, issue, time.Now()); err != nil {
		return 0, err
	}
	return issue.ID, nil
}

func runTempoPush(cmd *cobra.Command, args []string) error {
	now := time.Now()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.Tempo.APIToken == "" {
		fmt.Fprintln(os.Stderr, "tempo api token missing; fill in the tempo section of ~/.tracky/config.json")
		os.Exit(1)
	}

	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	from, _ := timecalc.WeekRange(now)
	to := timecalc.EndOfDay(now)
	if tempoPushFrom != "" {
		d, err := timecalc.ParseDate(tempoPushFrom)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		from = timecalc.StartOfDay(d)
	}
	if tempoPushTo != "" {
		d, err := timecalc.ParseDate(tempoPushTo)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		to = timecalc.EndOfDay(d)
	}

	jiraClient, err := jiraClientFromConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cache, closeDB, err := openIssueCache()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeDB()

	client := tempo.NewClient(cfg.Tempo.BaseURL, cfg.Tempo.APIToken, logger)
	resolver := &cachingResolver{cache: cache, client: jiraClient}

	dryTag := ""
	if tempoPushDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Pushing worklogs (%s → %s)%s...\n",
		from.Format("2006-01-02"), to.Format("2006-01-02"), dryTag)
	fmt.Println()

	opts := tempo.PushOptions{
		Base:   base,
		From:   from,
		To:     to,
		DryRun: tempoPushDryRun,
	}
	result, err := tempo.PushEntries(context.Background(), client, resolver, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Push error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d pushed\n", result.Pushed)
	fmt.Printf("  %d skipped (already pushed)\n", result.Skipped)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		os.Exit(2)
	}
	return nil
}
