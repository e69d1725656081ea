package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dataquill/memberaudit/cmd"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	// API keys are commonly kept in a local .env; absence is fine.
	_ = godotenv.Load()

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memberaudit",
		Short: "Data-quality auditing for member messages",
		Long: `memberaudit inspects member-authored message records for data-quality
defects (schema drift, type inconsistency, identity ambiguity, timestamp and
content anomalies, duplication) and answers questions about the messages
using an LLM.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		cmd.NewAuditCmd(),
		cmd.NewAskCmd(),
		cmd.NewServeCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("memberaudit version %s\n", version)
		},
	}
}
