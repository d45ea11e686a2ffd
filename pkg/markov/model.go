package markov

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
)

// MaxOrder is the largest supported window length.
const MaxOrder = 9

// ErrInvalidOrder is returned for a window length outside 1..MaxOrder.
var ErrInvalidOrder = errors.New("invalid chain order")

// Context is the window of the last K tokens, oldest first. Slots past K are
// always ErrorToken, so two contexts of one model are equal exactly when
// their windows are.
type Context [MaxOrder]Token

// Model is a K-order Markov chain. Every context maps to the successors
// observed after it, one entry per observation, so a token seen N times
// after a context is N times as likely to be sampled.
//
// A Model is not safe for concurrent use.
type Model struct {
	order     int
	tokenizer Tokenizer
	edges     map[Context][]Token
	current   Context
	edgeCount int
	rng       *rand.Rand
	logger    *slog.Logger
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithRand sets the random source used for sampling.
func WithRand(rng *rand.Rand) ModelOption {
	return func(m *Model) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// WithSeed makes sampling reproducible by seeding a PCG source.
func WithSeed(seed uint64) ModelOption {
	return func(m *Model) {
		m.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets the logger. By default, all logs are discarded.
func WithLogger(logger *slog.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewModel returns an empty model of the given order reading text through tokenizer.
func NewModel(order int, tokenizer Tokenizer, opts ...ModelOption) (*Model, error) {
	if order < 1 || order > MaxOrder {
		return nil, fmt.Errorf("order %d not in 1..%d: %w", order, MaxOrder, ErrInvalidOrder)
	}
	m := &Model{
		order:     order,
		tokenizer: tokenizer,
		edges:     make(map[Context][]Token),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.current = m.bos()
	return m, nil
}

// SetLogger sets the logger for the Model.
func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Order returns the window length K.
func (m *Model) Order() int {
	return m.order
}

// Tokenizer returns the tokenizer the model learns and reseeds through.
func (m *Model) Tokenizer() Tokenizer {
	return m.tokenizer
}

// Context returns the live window, oldest token first.
func (m *Model) Context() []Token {
	return slices.Clone(m.current[:m.order])
}

// Reset moves the model back to the start-of-sequence state.
func (m *Model) Reset() {
	m.current = m.bos()
}

func (m *Model) bos() Context {
	var c Context
	for i := 0; i < m.order; i++ {
		c[i] = BOS
	}
	return c
}

// advance slides the window over t. EOS ends the sequence.
func (m *Model) advance(t Token) {
	if t == EOS {
		m.current = m.bos()
		return
	}
	copy(m.current[:m.order-1], m.current[1:m.order])
	m.current[m.order-1] = t
}

func (m *Model) addEdge(t Token) {
	m.edges[m.current] = append(m.edges[m.current], t)
	m.edgeCount++
	m.advance(t)
}

// LearnStream adds every token of stream to the model, starting from the
// start-of-sequence state. A trailing fragment without EOS is closed with a
// synthetic EOS. An error from the stream stops learning; tokens read before
// it stay learned.
func (m *Model) LearnStream(stream TokenStream) error {
	m.current = m.bos()
	var tokenCount int
	var err error
	for {
		var t Token
		t, err = stream.Next()
		if err != nil {
			break
		}
		m.addEdge(t)
		tokenCount++
	}

	if m.current != m.bos() {
		m.addEdge(EOS)
	}

	m.logger.Debug("Learning completed",
		slog.Int("order", m.order),
		slog.Int("tokens_learned", tokenCount),
		slog.Int("contexts", len(m.edges)),
		slog.Int("edges", m.edgeCount),
	)

	if errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("tokenizer error: %w", err)
}

// Learn tokenizes r and learns it.
func (m *Model) Learn(r io.Reader) error {
	return m.LearnStream(m.tokenizer.NewStream(r))
}

// LearnString learns text. It never fails: any input produces some tokens
// or none at all.
func (m *Model) LearnString(text string) {
	// Reading from a strings.Reader only ever ends in io.EOF.
	_ = m.Learn(strings.NewReader(text))
}

// Sample picks the next token uniformly over the recorded successors of the
// live context and advances past it. An unseen context yields ErrorToken and
// resets the model to the start-of-sequence state.
func (m *Model) Sample() Token {
	choices, ok := m.edges[m.current]
	if !ok {
		m.logger.Debug("Sampling from unseen context, resetting",
			slog.String("context", m.contextText(m.current)),
		)
		m.current = m.bos()
		return ErrorToken
	}

	choice := 0
	if len(choices) > 1 {
		choice = m.rng.IntN(len(choices))
	}
	t := choices[choice]
	m.advance(t)
	return t
}

// Successors returns a copy of the successor multiset of the live context
// without changing any state. It is empty for an unseen context.
func (m *Model) Successors() []Token {
	return slices.Clone(m.edges[m.current])
}

// Reseed moves the live context to the state reached after reading text from
// the start of a sequence. Line breaks in text end a sequence; the end of text
// does not. Neither the learned edges nor the alphabet change: a word that was
// never learned enters the context as ErrorToken, which no learned context
// contains. Reseed returns the last token read, EOS after a trailing line
// break and BOS for empty text.
func (m *Model) Reseed(text string) Token {
	m.current = m.bos()
	last := BOS
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		for _, t := range m.tokenizer.FeedLine(strings.TrimSuffix(line, "\r")) {
			m.advance(t)
			last = t
		}
		if i < len(lines)-1 {
			m.advance(EOS)
			last = EOS
		}
	}
	return last
}

// canStart reports whether a walk from the start state can produce text.
func (m *Model) canStart() bool {
	for _, t := range m.edges[m.bos()] {
		if t != EOS {
			return true
		}
	}
	return false
}

func (m *Model) contextText(c Context) string {
	a := m.tokenizer.Alphabet()
	parts := make([]string, m.order)
	for i, t := range c[:m.order] {
		parts[i] = a.mustTranslate(t)
	}
	return strings.Join(parts, " ")
}
