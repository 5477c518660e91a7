package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/nhache/Markov-model/pkg/history"
)

var (
	historyLimit  int
	historyFormat string
	historyClear  bool
	historyStats  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously generated excerpts",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum number of entries to show (0 for all)")
	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", "text", "Output format: text or json")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete every recorded excerpt")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "Print totals instead of listing excerpts")
	historyCmd.MarkFlagsMutuallyExclusive("clear", "stats")
}

// openHistory opens the history database, creating its directory and schema
// when needed. The returned func closes the statements and the database.
func openHistory(path string, logger *slog.Logger) (*history.Store, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := openHistoryDB(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err = history.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to setup history schema: %w", err)
	}
	store, err := history.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to prepare history store: %w", err)
	}
	store.SetLogger(logger)

	return store, func() {
		store.Close()
		if err := db.Close(); err != nil {
			logger.Error("Failed to close history database", "error", err)
		}
	}, nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	config, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := openHistory(config.HistoryDatabasePath, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if historyClear {
		removed, err := store.Clear(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Removed %d entries.\n", removed)
		return nil
	}

	if historyStats {
		stats, err := store.GetStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to read history stats: %w", err)
		}
		return printHistoryStats(out, historyFormat, stats)
	}

	entries, err := store.List(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	switch historyFormat {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "text":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "CREATED\tCORPUS\tN\tWORDS\tEXCERPT")
		for _, e := range entries {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
				e.CreatedAt.Local().Format(time.DateTime), e.Corpus, e.Order, e.Requested, e.Excerpt)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q: want text or json", historyFormat)
	}
}

func printHistoryStats(out io.Writer, format string, stats history.Stats) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(stats)
	case "text":
		_, _ = fmt.Fprintf(out, "Excerpts:        %s\n", humanize.Comma(int64(stats.Entries)))
		_, _ = fmt.Fprintf(out, "Corpora:         %s\n", humanize.Comma(int64(stats.Corpora)))
		_, _ = fmt.Fprintf(out, "Words requested: %s\n", humanize.Comma(int64(stats.Words)))
		return nil
	default:
		return fmt.Errorf("unknown format %q: want text or json", format)
	}
}
