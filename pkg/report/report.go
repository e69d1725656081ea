// Package report renders and persists analysis reports in the formats the
// CLI exposes: a short human summary, JSON, and YAML.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/dataquill/memberaudit/pkg/analyzer"
)

// Render writes the report to stdout in the requested format. The "human"
// format is a compact closing card; the full sectioned console report is
// printed by the analyzer itself.
func Render(rep *analyzer.Report, format string) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "yaml":
		out, err := yaml.Marshal(rep)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	case "human", "":
		renderHuman(rep)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	return nil
}

func renderHuman(rep *analyzer.Report) {
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Println()
	cyan.Println("AUDIT SUMMARY")
	fmt.Printf("  Messages analyzed: %d of %d declared\n", rep.MessagesAnalyzed, rep.TotalMessages)
	fmt.Printf("  Unique members: %d\n", rep.UniqueMembers)

	if len(rep.Findings) > 0 {
		color.New(color.FgRed).Printf("  Observations: %d\n", len(rep.Findings))
	} else {
		color.New(color.FgGreen).Println("  Observations: none")
	}

	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("%s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
}

// Save persists the report as an indented JSON document.
func Save(rep *analyzer.Report, path string) error {
	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}
