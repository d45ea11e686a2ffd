package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/CTAG07/markovcomplete/pkg/markov"
)

// maxRequestLine bounds a single request line.
const maxRequestLine = 1 << 20

// Serve answers requests read from in until it is exhausted:
//
//	LEARN <text>        learns text, no reply
//	COMPLETE <word>     followed by a line holding the line prefix; replies
//	                    with up to three completions of word on one line
//
// Anything else is answered with a diagnostic line.
func Serve(in io.Reader, out io.Writer, wc *markov.Completer, logger *slog.Logger) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestLine)
	w := bufio.NewWriter(out)

	var learned, completed int
	for scanner.Scan() {
		command, rest, _ := strings.Cut(strings.TrimLeft(scanner.Text(), " \t"), " ")

		switch command {
		case "LEARN":
			wc.Learn(rest)
			learned++
			continue
		case "COMPLETE":
			if !scanner.Scan() {
				_, _ = fmt.Fprintf(w, "Missing line prefix after COMPLETE %s\n", rest)
				break
			}
			_, _ = fmt.Fprintln(w, wc.CompleteWord(scanner.Text(), rest))
			completed++
		default:
			logger.Debug("Unknown command", slog.String("command", command))
			_, _ = fmt.Fprintf(w, "Unknown command '%s'\n", command)
		}

		// Replies are flushed at once so interactive clients are not kept waiting.
		if err := w.Flush(); err != nil {
			return fmt.Errorf("failed to write reply: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write reply: %w", err)
	}

	logger.Info("Input exhausted",
		slog.Int("lines_learned", learned),
		slog.Int("completions", completed),
	)

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	return nil
}
