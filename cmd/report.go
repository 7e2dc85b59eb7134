package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"tracky/internal/storage"
	"tracky/internal/timecalc"
)

var (
	reportWeek   bool
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show aggregated time report per assignment",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportWeek, "week", false, "Report for this week (default)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

func runReport(cmd *cobra.Command, args []string) error {
	now := time.Now()

	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	from, to := timecalc.WeekRange(now)
	label := timecalc.ISOWeekLabel(now)

	entries, err := storage.LoadRange(base, from, to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	bf, err := storage.LoadBuckets(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Aggregate by assignment display name.
	totals := map[string]int64{}
	var order []string
	for _, e := range entries {
		if e.DurationSeconds == nil {
			continue
		}
		key := assignmentLabel(e.Assignment, bf)
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] += *e.DurationSeconds
	}
	sort.Strings(order)

	var grandTotal int64
	for _, sec := range totals {
		grandTotal += sec
	}

	switch reportFormat {
	case "csv":
		fmt.Println("assignment,duration_minutes")
		for _, k := range order {
			fmt.Printf("%s,%d\n", csvEscape(k), totals[k]/60)
		}
	case "json":
		fmt.Println("{")
		fmt.Printf("  \"week\": %q,\n", label)
		fmt.Println("  \"assignments\": [")
		for i, k := range order {
			comma := ","
			if i == len(order)-1 {
				comma = ""
			}
			fmt.Printf("    {\"assignment\": %q, \"duration_minutes\": %d}%s\n",
				k, totals[k]/60, comma)
		}
		fmt.Println("  ],")
		fmt.Printf("  \"total_minutes\": %d\n", grandTotal/60)
		fmt.Println("}")
	default: // md
		fmt.Printf("Week %s\n", label)
		fmt.Println("--------------------------------")
		for _, k := range order {
			fmt.Printf("%-20s%s\n", k, timecalc.FormatDuration(totals[k]))
		}
		fmt.Println("--------------------------------")
		fmt.Printf("%-20s%s\n", "Total", timecalc.FormatDuration(grandTotal))
	}

	return nil
}
