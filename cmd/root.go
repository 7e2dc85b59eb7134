package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tracky/internal/logging"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tracky",
	Short: "tracky – a file-based CLI time tracker",
	Long: `tracky is a single-binary, file-based command-line time tracker with
bucket/Jira work assignments, Google Calendar import and Tempo worklog push.
All data is stored as human-readable JSON files in ~/.tracky/.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(verbose)
		if err != nil {
			return fmt.Errorf("initialising logger: %w", err)
		}
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(bucketCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(jiraCmd)
	rootCmd.AddCommand(tempoCmd)
}
