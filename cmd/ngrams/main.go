package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhache/Markov-model/pkg/ngram"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var (
	configPath string
	orderFlag  int
	seedFlag   uint64
	streamFlag bool
	noHistory  bool
	logLevel   string
)

// rootCmd runs the interactive random writer.
var rootCmd = &cobra.Command{
	Use:     "ngrams [corpus-file]",
	Short:   "Generate random text from an n-gram model of a document",
	Long:    "Builds an n-gram model of a text file and prints excerpts of random text that follow its word patterns.",
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
	Args:    cobra.MaximumNArgs(1),
	RunE:    runSession,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./ngrams.json", "Path to the JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	rootCmd.Flags().IntVarP(&orderFlag, "order", "n", 0, "Words per window (at least 2; asked interactively when unset)")
	rootCmd.Flags().Uint64Var(&seedFlag, "seed", 0, "Random seed for reproducible output (0 picks one)")
	rootCmd.Flags().BoolVar(&streamFlag, "stream", false, "Print excerpts word by word")
	rootCmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record excerpts in the history database")

	rootCmd.AddCommand(historyCmd, statsCmd)
}

// setup loads the config, applies the log level override and builds the logger.
func setup(cmd *cobra.Command) (*Config, *slog.Logger, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))
	return config, logger, nil
}

// newRand returns the session's random source. A zero seed draws one from
// the runtime generator.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func runSession(cmd *cobra.Command, args []string) error {
	config, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("order") {
		config.Order = orderFlag
	}
	if cmd.Flags().Changed("seed") {
		config.Seed = seedFlag
	}
	if config.Order != 0 && config.Order < ngram.MinOrder {
		return fmt.Errorf("order must be at least %d, got %d", ngram.MinOrder, config.Order)
	}

	var corpus string
	if len(args) > 0 {
		corpus = args[0]
	}

	session := NewSession(cmd.InOrStdin(), cmd.OutOrStdout(), logger, config, newRand(config.Seed), nil)
	session.SetStreaming(streamFlag)

	if config.HistoryEnabled && !noHistory {
		store, closeStore, err := openHistory(config.HistoryDatabasePath, logger)
		if err != nil {
			// History is optional; the session still runs without it.
			logger.Warn("History disabled", "error", err)
		} else {
			defer closeStore()
			session.history = store
		}
	}

	return session.Run(cmd.Context(), corpus, config.Order)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
