package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/dataquill/memberaudit/pkg/feed"
	"github.com/dataquill/memberaudit/pkg/llm"
	"github.com/dataquill/memberaudit/pkg/prompts"
)

var (
	askURL      string
	askProvider string
	askModel    string
)

func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask a question about the member messages",
		Long: `Fetch member messages and answer a natural-language question about them
using an LLM.

Examples:
  # Ask with the default provider (Claude, via ANTHROPIC_API_KEY)
  memberaudit ask "When is Layla planning her trip to London?"

  # Use a different provider or model
  memberaudit ask "What are Amira's favorite restaurants?" --provider openai
  memberaudit ask "How many cars does Vikram Desai have?" --model claude-sonnet-4-20250514`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVar(&askURL, "url", feed.DefaultAPIURL, "Member-message API URL")
	cmd.Flags().StringVar(&askProvider, "provider", "", "LLM provider (claude, openai); defaults to LLM_PROVIDER or claude")
	cmd.Flags().StringVar(&askModel, "model", "", "Model override for the chosen provider")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	chat, err := llm.FromEnv(askProvider, askModel)
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Fetching member messages..."
	s.Start()

	batch, err := feed.NewClient(askURL).Fetch()
	if err != nil {
		s.Stop()
		return err
	}
	s.Stop()
	printSuccess(fmt.Sprintf("Fetched %d of %d messages", len(batch.Items), batch.Total))

	prompt, err := prompts.BuildAnswerPrompt(question, batch)
	if err != nil {
		return err
	}

	s.Suffix = " Thinking..."
	s.Start()
	answer, err := chat.Chat(prompt)
	if err != nil {
		s.Stop()
		return fmt.Errorf("LLM chat: %w", err)
	}
	s.Stop()

	fmt.Printf("\n%s\n", answer)
	return nil
}
