package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/CTAG07/markovcomplete/pkg/markov"
	"github.com/natefinch/atomic"
)

func main() {
	configPath := flag.String("config", "", "Path to a JSON configuration file (created with defaults if missing)")
	lines := flag.Int("lines", 0, "Number of lines to generate (overrides config)")
	seed := flag.Uint64("seed", 0, "Random seed for reproducible output (overrides config)")
	dumpPath := flag.String("dump", "", "Write a text dump of the learned chain to this file")
	snapshotPath := flag.String("snapshot", "", "Write a SQLite snapshot of the learned chain to this file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] ORDER\n\nORDER is 1-5 for a word chain or c1-c9 for a character chain.\nText is learned from stdin and generated to stdout.\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	config := DefaultConfig()
	if *configPath != "" {
		var err error
		if config, err = LoadConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	if *lines > 0 {
		config.Lines = *lines
	}
	if *seed != 0 {
		config.Seed = *seed
	}
	if *dumpPath != "" {
		config.DumpPath = *dumpPath
	}
	if *snapshotPath != "" {
		config.SnapshotPath = *snapshotPath
	}

	logger := newLogger(config.LogLevel)
	if err := run(config, flag.Arg(0), os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("Generation failed", "error", err)
		os.Exit(1)
	}
}

// run learns everything from in, writes the optional dump and snapshot, and
// generates config.Lines lines of text to out.
func run(config *Config, orderArg string, in io.Reader, out io.Writer, logger *slog.Logger) error {
	opts := []markov.ModelOption{markov.WithLogger(logger)}
	if config.Seed != 0 {
		opts = append(opts, markov.WithRand(rand.New(rand.NewPCG(config.Seed, config.Seed))))
	}
	model, err := newModel(orderArg, opts...)
	if err != nil {
		return err
	}

	if err = model.Learn(in); err != nil {
		return fmt.Errorf("failed to learn input: %w", err)
	}
	stats := model.Stats()
	logger.Info("Training completed",
		slog.Int("order", stats.Order),
		slog.Int("contexts", stats.Contexts),
		slog.Int("edges", stats.TotalEdges),
		slog.Int("vocabulary", stats.Vocabulary),
		slog.Int("starting_tokens", stats.StartingTokens),
	)

	if config.DumpPath != "" {
		var buf bytes.Buffer
		if err = model.Dump(&buf); err != nil {
			return fmt.Errorf("failed to dump model: %w", err)
		}
		if err = atomic.WriteFile(config.DumpPath, &buf); err != nil {
			return fmt.Errorf("failed to write dump file: %w", err)
		}
		logger.Info("Dump written", "path", config.DumpPath)
	}

	if config.SnapshotPath != "" {
		if err = writeSnapshot(config.SnapshotPath, config.SnapshotName, model); err != nil {
			return err
		}
	}

	generator := markov.NewGenerator(model)
	generator.SetLogger(logger)

	bw := bufio.NewWriter(out)
	if err = generator.Generate(bw, config.Lines); err != nil {
		_ = bw.Flush()
		return err
	}
	return bw.Flush()
}

func writeSnapshot(path, name string, model *markov.Model) error {
	db, err := openSnapshotDB(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err = markov.SetupSchema(db); err != nil {
		return fmt.Errorf("failed to setup snapshot schema: %w", err)
	}
	if err = markov.WriteSnapshot(context.Background(), db, name, model); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
