package main

import (
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/CTAG07/markovcomplete/pkg/markov"
)

func main() {
	logLevel := flag.String("log-level", "warn", "Log level for stderr: debug, info, warn or error")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))

	wc := markov.NewCompleter(markov.WithLogger(logger))
	if err := Serve(os.Stdin, os.Stdout, wc, logger); err != nil {
		logger.Error("Serving completions failed", "error", err)
		os.Exit(1)
	}
}

// parseLevel maps a level name to a slog.Level, falling back to warn.
func parseLevel(name string) slog.Level {
	var level slog.Level
	switch strings.ToLower(name) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	return level
}
