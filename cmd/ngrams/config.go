package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/natefinch/atomic"

	"github.com/nhache/Markov-model/pkg/ngram"
)

// Config is the on-disk configuration for the ngrams command.
type Config struct {
	LogLevel            string `json:"log_level"`
	Order               int    `json:"order"` // 0 asks interactively.
	Seed                uint64 `json:"seed"`  // 0 seeds from the runtime.
	MaxTokenSize        int    `json:"max_token_size"`
	FrameOpen           string `json:"frame_open"`
	FrameClose          string `json:"frame_close"`
	HistoryEnabled      bool   `json:"history_enabled"`
	HistoryDatabasePath string `json:"history_database_path"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:            "warn",
		Order:               0,
		Seed:                0,
		MaxTokenSize:        64 * 1024,
		FrameOpen:           ngram.DefaultFrameOpen,
		FrameClose:          ngram.DefaultFrameClose,
		HistoryEnabled:      true,
		HistoryDatabasePath: "./data/ngrams_history.db",
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// The command still works with defaults, so only warn.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Order != 0 && config.Order < ngram.MinOrder {
		return nil, fmt.Errorf("invalid order %d in config: must be 0 or at least %d", config.Order, ngram.MinOrder)
	}

	return config, nil
}

// parseLogLevel maps a config string to a slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
