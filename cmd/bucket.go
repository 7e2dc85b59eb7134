package cmd

import (
	"fmt"
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tracky/internal/model"
	"tracky/internal/storage"
)

var (
	bucketAddColor string
	bucketAddIssue string
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Manage time buckets",
}

var bucketAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a bucket",
	Args:  cobra.ExactArgs(1),
	RunE:  runBucketAdd,
}

var bucketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List buckets",
	Args:  cobra.NoArgs,
	RunE:  runBucketList,
}

var bucketRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a bucket (entries keep their reference)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBucketRemove,
}

func init() {
	bucketAddCmd.Flags().StringVar(&bucketAddColor, "color", model.DefaultBucketColor, "Hex color like #ff8800")
	bucketAddCmd.Flags().StringVar(&bucketAddIssue, "issue", "", "Link the bucket to a Jira issue key")
	bucketCmd.AddCommand(bucketAddCmd)
	bucketCmd.AddCommand(bucketListCmd)
	bucketCmd.AddCommand(bucketRemoveCmd)
}

func runBucketAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	if !hexColorRe.MatchString(bucketAddColor) {
		fmt.Fprintf(os.Stderr, "invalid color %q (want #rrggbb)\n", bucketAddColor)
		os.Exit(1)
	}

	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	bf, err := storage.LoadBuckets(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if storage.FindBucket(bf, name) != nil {
		fmt.Fprintf(os.Stderr, "bucket %q already exists\n", name)
		os.Exit(1)
	}

	bucket := model.Bucket{
		ID:       uuid.NewString(),
		Name:     name,
		Color:    bucketAddColor,
		IssueKey: bucketAddIssue,
	}
	bf.Buckets = append(bf.Buckets, bucket)

	if err := storage.SaveBuckets(base, bf); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("Created bucket %q\n", name)
	return nil
}

func runBucketList(cmd *cobra.Command, args []string) error {
	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	bf, err := storage.LoadBuckets(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if len(bf.Buckets) == 0 {
		fmt.Println("No buckets defined.")
		return nil
	}

	for _, b := range bf.Buckets {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render("■")
		issue := ""
		if b.IssueKey != "" {
			issue = fmt.Sprintf("  → %s", b.IssueKey)
		}
		fmt.Printf("%s %-20s%s\n", swatch, b.Name, issue)
	}
	return nil
}

func runBucketRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	base, err := storage.BaseDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	bf, err := storage.LoadBuckets(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	kept := bf.Buckets[:0]
	removed := false
	for _, b := range bf.Buckets {
		if b.Name == name || b.ID == name {
			removed = true
			continue
		}
		kept = append(kept, b)
	}
	if !removed {
		fmt.Fprintf(os.Stderr, "no bucket named %q\n", name)
		os.Exit(1)
	}
	bf.Buckets = kept

	if err := storage.SaveBuckets(base, bf); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	fmt.Printf("Removed bucket %q\n", name)
	return nil
}
