package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nhache/Markov-model/pkg/ngram"
)

var statsOrder int

var statsCmd = &cobra.Command{
	Use:   "stats corpus-file",
	Short: "Build a model and print its statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVarP(&statsOrder, "order", "n", ngram.MinOrder, "Words per window (at least 2)")
}

func runStats(cmd *cobra.Command, args []string) error {
	config, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	order := statsOrder
	if order < ngram.MinOrder {
		return fmt.Errorf("order must be at least %d, got %d", ngram.MinOrder, order)
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	info, err := file.Stat()
	if err != nil {
		return err
	}

	tokenizer := ngram.NewWhitespaceTokenizer(ngram.WithMaxTokenSize(config.MaxTokenSize))
	model, err := ngram.Train(cmd.Context(), file, order, tokenizer)
	if err != nil {
		return fmt.Errorf("failed to build model from %s: %w", args[0], err)
	}
	stats := model.Stats()
	logger.Debug("Model built", "corpus", args[0], "windows", stats.Windows)

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Corpus:        %s (%s)\n", args[0], humanize.Bytes(uint64(info.Size())))
	_, _ = fmt.Fprintf(out, "Order:         %d\n", stats.Order)
	_, _ = fmt.Fprintf(out, "Words:         %s\n", humanize.Comma(int64(stats.Transitions)))
	_, _ = fmt.Fprintf(out, "Vocabulary:    %s\n", humanize.Comma(int64(stats.Vocabulary)))
	_, _ = fmt.Fprintf(out, "Windows:       %s\n", humanize.Comma(int64(stats.Windows)))
	_, _ = fmt.Fprintf(out, "Max followers: %s\n", humanize.Comma(int64(stats.MaxFollowers)))
	return nil
}
