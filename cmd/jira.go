package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tracky/internal/config"
	"tracky/internal/db"
	"tracky/internal/jira"
)

var jiraIssuesProject string

var jiraCmd = &cobra.Command{
	Use:   "jira",
	Short: "Jira integration",
}

var jiraCrawlCmd = &cobra.Command{
	Use:   "crawl <seed-key>",
	Short: "Discover issues around a seed key and cache them locally",
	Long: `Walks issue numbers upward and downward from the seed key (e.g. PROJ-120),
treats HTTP 404 as "issue absent", stops a direction after 50 consecutive
absences, and records found issues into the local cache.`,
	Args: cobra.ExactArgs(1),
	RunE: runJiraCrawl,
}

var jiraIssuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List locally cached issues",
	Args:  cobra.NoArgs,
	RunE:  runJiraIssues,
}

func init() {
	jiraIssuesCmd.Flags().StringVar(&jiraIssuesProject, "project", "", "Only issues of this project key")
	jiraCmd.AddCommand(jiraCrawlCmd)
	jiraCmd.AddCommand(jiraIssuesCmd)
}

// jiraClientFromConfig loads config and validates the Jira credentials.
func jiraClientFromConfig() (*jira.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Jira.BaseURL == "" || cfg.Jira.Email == "" || cfg.Jira.APIToken == "" {
		return nil, fmt.Errorf("jira credentials missing; fill in the jira section of ~/.tracky/config.json")
	}
	return jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIToken, logger), nil
}

// openIssueCache opens the issue-cache database.
func openIssueCache() (*jira.Cache, func(), error) {
	path, err := db.DefaultPath()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.OpenDB(path)
	if err != nil {
		return nil, nil, err
	}
	return jira.NewCache(database), func() { database.Close() }, nil
}

func runJiraCrawl(cmd *cobra.Command, args []string) error {
	seed := args[0]

	client, err := jiraClientFromConfig()
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

	fmt.Printf("Crawling issues around %s...\n", seed)

	crawler := jira.NewCrawler(client, cache, logger)
	result, err := crawler.Crawl(context.Background(), seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crawl failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done: %d issues found, %d keys absent.\n", result.Found, result.Missed)
	return nil
}

func runJiraIssues(cmd *cobra.Command, args []string) error {
	cache, closeDB, err := openIssueCache()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeDB()

	issues, err := cache.List(context.Background(), jiraIssuesProject)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if len(issues) == 0 {
		fmt.Println("No cached issues. Run: tracky jira crawl <seed-key>")
		return nil
	}

	for _, issue := range issues {
		fmt.Printf("%-12s %-12s %s\n", issue.Key, issue.Status, issue.Summary)
	}
	return nil
}
