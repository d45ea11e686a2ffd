package markov

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ErrEmptyModel is returned when generation is asked of a model that cannot
// produce a single line of text.
var ErrEmptyModel = errors.New("model has no text to generate from")

// Generator walks a Model and renders the sampled tokens into text.
type Generator struct {
	model  *Model
	prev   Token
	logger *slog.Logger
}

// NewGenerator returns a Generator positioned at the start of a sequence.
func NewGenerator(model *Model) *Generator {
	model.Reset()
	return &Generator{
		model:  model,
		prev:   BOS,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Generator. By default, all logs are discarded.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// Seed positions the generator as if prefix had just been generated. The
// prefix itself is not written anywhere.
func (g *Generator) Seed(prefix string) {
	g.prev = g.model.Reseed(prefix)
}

// Next samples one token and returns it with its rendered fragment.
// ErrorToken means the live context was never learned; the model has then
// been reset and the next fragment starts a new line.
func (g *Generator) Next() (Token, string) {
	t := g.model.Sample()
	if t == ErrorToken {
		g.logger.Debug("Generation reset after unseen context")
		g.prev = EOS
		return t, ""
	}
	fragment := g.model.tokenizer.Render(g.prev, t)
	g.prev = t
	return t, fragment
}

// Generate writes generated text to w until lines fragments carrying a
// newline were produced. The last of them is cut after its newline, so the
// output ends on a line boundary.
func (g *Generator) Generate(w io.Writer, lines int) error {
	if lines <= 0 {
		return nil
	}
	if !g.model.canStart() {
		return ErrEmptyModel
	}

	var tokenCount int
	remaining := lines
	for remaining > 0 {
		_, fragment := g.Next()
		tokenCount++
		if i := strings.LastIndexByte(fragment, '\n'); i >= 0 {
			remaining--
			if remaining == 0 {
				fragment = fragment[:i+1]
			}
		}
		if fragment == "" {
			continue
		}
		if _, err := io.WriteString(w, fragment); err != nil {
			return fmt.Errorf("failed to write generated text: %w", err)
		}
	}

	g.logger.Debug("Generation terminated by reaching line budget",
		slog.Int("lines", lines),
		slog.Int("tokens_sampled", tokenCount),
	)
	return nil
}
