package markov

import (
	"strings"
)

// completionCount is how many candidates Complete returns at most.
const completionCount = 3

// ChainToken is a distinct successor of a context together with the number
// of times it was observed there.
type ChainToken struct {
	Id   Token
	Freq int
}

// NextTokens returns the distinct successors of the live context ordered by
// descending frequency, ties broken by ascending token id. It is nil for an
// unseen context.
func (m *Model) NextTokens() []ChainToken {
	successors, ok := m.edges[m.current]
	if !ok {
		return nil
	}
	return frequencies(successors)
}

// Completer ranks likely next words after a line prefix. It owns a
// first-order word model that only ever grows.
type Completer struct {
	model *Model
}

// NewCompleter returns an empty Completer.
func NewCompleter(opts ...ModelOption) *Completer {
	// Order 1 is always valid.
	model, _ := NewModel(1, NewWordTokenizer(nil), opts...)
	return &Completer{model: model}
}

// Model returns the underlying model.
func (c *Completer) Model() *Model {
	return c.model
}

// Learn adds one line of text to the model.
func (c *Completer) Learn(line string) {
	c.model.LearnString(line)
}

// Complete returns up to three words most often seen after linePrefix,
// most frequent first and separated by spaces. Equally frequent words are
// ordered by when they were first learned. An unseen prefix yields "".
func (c *Completer) Complete(linePrefix string) string {
	return c.CompleteWord(linePrefix, "")
}

// CompleteWord is Complete restricted to words starting with partial, the
// part of the current word already typed. linePrefix excludes partial.
func (c *Completer) CompleteWord(linePrefix, partial string) string {
	c.model.Reseed(linePrefix)
	alphabet := c.model.tokenizer.Alphabet()

	words := make([]string, 0, completionCount)
	for _, candidate := range c.model.NextTokens() {
		// Quote, Unquote and Hyphen markers are punctuation, not words.
		if IsSpecial(candidate.Id) {
			continue
		}
		text := alphabet.mustTranslate(candidate.Id)
		if !strings.HasPrefix(text, partial) {
			continue
		}
		words = append(words, text)
		if len(words) == completionCount {
			break
		}
	}
	return strings.Join(words, " ")
}
