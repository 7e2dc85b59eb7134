package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tracky/internal/config"
	"tracky/internal/model"
	"tracky/internal/storage"
	"tracky/internal/timecalc"
)

var (
	exportFormat string
	exportFrom   string
	exportTo     string
	exportBucket string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export time entries to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Start date (YYYY-MM-DD); defaults to this week's Monday")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "End date (YYYY-MM-DD); defaults to this week's Sunday")
	exportCmd.Flags().StringVar(&exportBucket, "bucket", "", "Only entries assigned to this bucket")
}

func runExport(cmd *cobra.Command, args []string) error {
	now := time.Now()

	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	from, to := timecalc.WeekRange(now)
	if exportFrom != "" {
		d, err := timecalc.ParseDate(exportFrom)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		from = timecalc.StartOfDay(d)
	}
	if exportTo != "" {
		d, err := timecalc.ParseDate(exportTo)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		to = timecalc.EndOfDay(d)
	}

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

	var bucketID string
	if exportBucket != "" {
		b := storage.FindBucket(bf, exportBucket)
		if b == nil {
			fmt.Fprintf(os.Stderr, "no bucket named %q\n", exportBucket)
			os.Exit(1)
		}
		bucketID = b.ID
	}

	entries = filterEntries(entries, from, to, bucketID)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	dropShortActivity(entries, cfg.Activity.MinSeconds)

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	case "md":
		printList(entries, bf)
	default: // csv
		printCSV(entries, bf)
	}

	return nil
}

// filterEntries keeps entries starting within [from, to] and, when bucketID
// is set, only those assigned to that bucket.
func filterEntries(entries []model.Entry, from, to time.Time, bucketID string) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if e.Start.Before(from) || e.Start.After(to) {
			continue
		}
		if bucketID != "" {
			if e.Assignment == nil || e.Assignment.Type != model.AssignBucket || e.Assignment.BucketID != bucketID {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// dropShortActivity removes activity samples shorter than minSeconds
// from each entry.
func dropShortActivity(entries []model.Entry, minSeconds int64) {
	for i := range entries {
		if len(entries[i].Activity) == 0 {
			continue
		}
		kept := entries[i].Activity[:0]
		for _, s := range entries[i].Activity {
			if s.Seconds >= minSeconds {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			entries[i].Activity = nil
		} else {
			entries[i].Activity = kept
		}
	}
}

func printCSV(entries []model.Entry, buckets model.BucketFile) {
	fmt.Println("date,assignment,comment,start,end,duration_minutes")
	for _, e := range entries {
		date := e.Start.Format("2006-01-02")
		comment := ""
		if e.Comment != nil {
			comment = *e.Comment
		}
		startStr := e.Start.Format(time.RFC3339)
		endStr := ""
		if e.End != nil {
			endStr = e.End.Format(time.RFC3339)
		}
		durMin := int64(0)
		if e.DurationSeconds != nil {
			durMin = *e.DurationSeconds / 60
		}
		fmt.Printf("%s,%s,%s,%s,%s,%d\n",
			csvEscape(date),
			csvEscape(assignmentLabel(e.Assignment, buckets)),
			csvEscape(comment),
			csvEscape(startStr),
			csvEscape(endStr),
			durMin,
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
