package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/floatai/internal/config"
	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
	"github.com/abdul-hamid-achik/floatai/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show or test the configured models",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the configured provider and models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := loadOptions()
		opts.WriteDefault = false
		opts.SkipAPIKey = true
		cfg, err := config.LoadWithOptions(opts)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		modelsList(cmd.OutOrStdout(), cfg)
		return nil
	},
}

var modelsTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a short prompt to each configured model and time the reply",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := loadOptions()
		opts.WriteDefault = false
		cfg, err := config.LoadWithOptions(opts)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		client, err := llm.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		modelsTest(cmd.Context(), cmd.OutOrStdout(), client, cfg.ModelList())
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsTestCmd)
}

// modelsList shows the configured models
func modelsList(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "Provider: %s\n", cfg.Provider)
	if cfg.Provider == config.ProviderOpenAI {
		fmt.Fprintf(w, "Base URL: %s\n", cfg.GetBaseURL())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Models:")
	for i, m := range cfg.ModelList() {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %d. %s\n", marker, i+1, m)
	}
	if cfg.ConfigPath() != "" {
		fmt.Fprintf(w, "\nConfig: %s\n", cfg.ConfigPath())
	}
}

// modelsTest benchmarks each configured model
func modelsTest(ctx context.Context, w io.Writer, client llm.Client, models []string) {
	fmt.Fprintln(w, "Testing models (simple prompt: 'What is 2+2?')...")
	fmt.Fprintln(w)

	for _, m := range models {
		fmt.Fprintf(w, "Testing %s... ", m)
		client.SetModel(m)

		start := time.Now()
		resp, err := client.Chat(ctx, []llm.Message{
			{Role: llm.RoleUser, Content: "What is 2+2? Answer with just the number."},
		}, "")
		elapsed := time.Since(start)

		if err != nil {
			fmt.Fprintf(w, "ERROR: %s\n", firstLine(apperrors.GetUserMessage(err)))
			continue
		}

		fmt.Fprintf(w, "%.2fs - %q\n", elapsed.Seconds(), truncate(firstLine(resp.Content), 50))
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
