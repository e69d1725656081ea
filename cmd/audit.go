package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dataquill/memberaudit/pkg/analyzer"
	"github.com/dataquill/memberaudit/pkg/feed"
	"github.com/dataquill/memberaudit/pkg/report"
)

var (
	auditURL    string
	auditFormat string
	auditSave   string
	auditSkip   int
	auditLimit  int
)

func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit member messages for data-quality defects",
		Long: `Fetch member messages and run the data-quality checks: schema and type
consistency, identity analysis, timestamp analysis, content analysis, and
duplicate detection.

Examples:
  # Audit the default feed and print the console report
  memberaudit audit

  # Audit a specific window of messages
  memberaudit audit --skip 100 --limit 100

  # Machine-readable report, persisted to a file
  memberaudit audit -o json --save data_analysis_results.json`,
		Args: cobra.NoArgs,
		RunE: runAudit,
	}

	cmd.Flags().StringVar(&auditURL, "url", feed.DefaultAPIURL, "Member-message API URL")
	cmd.Flags().StringVarP(&auditFormat, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().StringVar(&auditSave, "save", "", "Also save the report JSON to this path")
	cmd.Flags().IntVar(&auditSkip, "skip", 0, "Offset into the feed")
	cmd.Flags().IntVar(&auditLimit, "limit", 0, "Page size (0 uses the feed default)")

	return cmd
}

func runAudit(cmd *cobra.Command, args []string) error {
	printFetchHeader(auditURL)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Fetching member messages..."
	s.Start()

	batch, err := fetchBatch()
	if err != nil {
		s.Stop()
		return err
	}
	s.Stop()
	printSuccess(fmt.Sprintf("Fetched %d of %d messages", len(batch.Items), batch.Total))

	if len(batch.Items) == 0 {
		printWarning("No messages found in the response")
	}
	fmt.Println()

	// The sectioned console report belongs to the human format only.
	var out io.Writer = os.Stdout
	if auditFormat != "human" {
		out = io.Discard
	}

	a := analyzer.New(analyzer.DefaultConfig(), analyzer.WithOutput(out))
	rep, err := a.Analyze(batch)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if err := report.Render(rep, auditFormat); err != nil {
		return err
	}

	if auditSave != "" {
		if err := report.Save(rep, auditSave); err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("Analysis results saved to %s", auditSave))
	}

	return nil
}

func fetchBatch() (*feed.Batch, error) {
	client := feed.NewClient(auditURL)
	if auditSkip > 0 || auditLimit > 0 {
		limit := auditLimit
		if limit == 0 {
			limit = 100
		}
		return client.FetchPage(auditSkip, limit)
	}
	return client.Fetch()
}

func printFetchHeader(url string) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("Member Message Audit")
	fmt.Printf("Feed: %s\n\n", url)
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}

func printWarning(msg string) {
	yellow := color.New(color.FgYellow)
	yellow.Printf("⚠ %s\n", msg)
}
