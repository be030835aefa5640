package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/floatai/internal/config"
	"github.com/abdul-hamid-achik/floatai/internal/llm"
	"github.com/abdul-hamid-achik/floatai/internal/logger"
	"github.com/abdul-hamid-achik/floatai/internal/repl"
	"github.com/abdul-hamid-achik/floatai/internal/router"
	"github.com/abdul-hamid-achik/floatai/internal/store"
	"github.com/abdul-hamid-achik/floatai/internal/tui"
	"github.com/abdul-hamid-achik/floatai/internal/ui"
)

var Version = "dev"

// stateDir holds logs, the default config and line-mode input history
const stateDir = ".floatai"

// logLevelEnv sets the line-mode console level (debug, info, warn, error)
const logLevelEnv = "FLOATAI_LOG_LEVEL"

var (
	cfgFile  string
	model    string
	provider string
	dataDir  string
	plain    bool
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "floatai",
	Short: "A small terminal chat client with persistent memory",
	Long: `floatai - chat with an LLM from your terminal.

Notes, chat history and a personality are kept in plain text files
(memory.txt, history.txt, personality.txt) under the data directory.
Type "help" inside the chat for the list of commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runChat,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "floatai version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./floatai.yaml or ./.floatai/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&model, "model", "m", "", "model to start with")
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "backend: openai, anthropic or gemini")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for memory.txt, history.txt and personality.txt")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (line mode)")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "line mode instead of the full-screen interface")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(modelsCmd)
}

func main() {
	// Ensure log file is closed on exit
	defer logger.CloseLogFile()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.CloseLogFile()
		os.Exit(1)
	}
}

func loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFile:   cfgFile,
		Provider:     config.Provider(provider),
		Model:        model,
		DataDir:      dataDir,
		WriteDefault: true,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	lineMode := plain || !tui.IsTTYAvailable()

	// Console logging would corrupt the full-screen interface
	opts := logger.Options{Dir: logger.DefaultLogDir, Level: logger.LevelWarn}
	if lineMode {
		opts.Console = os.Stderr
	}
	if err := logger.Init(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if lineMode {
		applyConsoleLevel(verbose, os.Getenv(logLevelEnv))
	}
	logger.Debug("floatai %s session started, line mode=%v", Version, lineMode)

	cfg, err := config.LoadWithOptions(loadOptions())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("config loaded from %q, provider=%s", cfg.ConfigPath(), cfg.Provider)

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := llm.New(ctx, cfg)
	if err != nil {
		return err
	}

	r := router.New(st, client, router.Options{
		Models:             cfg.ModelList(),
		MemoryContextChars: cfg.MemoryContextChars,
	})

	if lineMode {
		return runLineMode(ctx, r, client)
	}

	watcher, err := st.Watch()
	if err != nil {
		logger.Warn("not watching %s: %v", st.Dir(), err)
		watcher = nil
	} else {
		defer watcher.Close()
	}

	return tui.Run(ctx, tui.RunConfig{
		Router:    r,
		Watcher:   watcher,
		SessionID: logger.SessionID(),
	})
}

// applyConsoleLevel picks the console level: --verbose wins over the environment
func applyConsoleLevel(verbose bool, envLevel string) {
	switch {
	case verbose:
		logger.SetLevel(logger.LevelDebug)
	case envLevel != "":
		logger.SetLevelFromString(strings.ToLower(strings.TrimSpace(envLevel)))
	}
}

func runLineMode(ctx context.Context, r *router.Router, client llm.Client) error {
	out := ui.NewOutputHandler()
	if path := logger.LogPath(); path != "" && logger.DebugEnabled() {
		out.Info("Session log: " + path)
	}
	session := repl.New(r, out, repl.Options{
		HistoryFile: filepath.Join(stateDir, "input_history"),
	})
	if limited, ok := client.(*llm.RateLimitedClient); ok {
		limited.SetWaitCallback(session.WaitCallback)
	}
	return session.Run(ctx)
}
