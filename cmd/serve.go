package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dataquill/memberaudit/pkg/feed"
	"github.com/dataquill/memberaudit/pkg/llm"
	"github.com/dataquill/memberaudit/pkg/server"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the member QA HTTP service",
		Long: `Start the HTTP service exposing question answering (POST /ask), the
data-quality audit (GET /audit), a health check (GET /health), and Prometheus
metrics (GET /metrics).

Configuration comes from flags, MEMBERAUDIT_* environment variables, or an
optional config file:
  MEMBERAUDIT_ADDR      listen address (default :8080)
  MEMBERAUDIT_FEED_URL  member-message API URL
  MEMBERAUDIT_PROVIDER  LLM provider (claude, openai)
  MEMBERAUDIT_MODEL     model override`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().String("feed-url", feed.DefaultAPIURL, "Member-message API URL")
	cmd.Flags().String("provider", "", "LLM provider (claude, openai)")
	cmd.Flags().String("model", "", "Model override for the chosen provider")
	cmd.Flags().String("config", "", "Optional config file (yaml)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	v := viper.New()
	v.SetEnvPrefix("MEMBERAUDIT")
	v.AutomaticEnv()
	if err := v.BindPFlag("addr", cmd.Flags().Lookup("addr")); err != nil {
		return err
	}
	if err := v.BindPFlag("feed_url", cmd.Flags().Lookup("feed-url")); err != nil {
		return err
	}
	if err := v.BindPFlag("provider", cmd.Flags().Lookup("provider")); err != nil {
		return err
	}
	if err := v.BindPFlag("model", cmd.Flags().Lookup("model")); err != nil {
		return err
	}
	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	chat, err := llm.FromEnv(v.GetString("provider"), v.GetString("model"))
	if err != nil {
		return err
	}

	fetcher := feed.NewClient(v.GetString("feed_url"))
	srv := server.New(fetcher, chat, logger)

	addr := v.GetString("addr")
	logger.Info("starting member QA service", zap.String("addr", addr))
	return srv.Router().Run(addr)
}
