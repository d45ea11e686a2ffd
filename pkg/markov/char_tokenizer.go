package markov

import (
	"io"
	"unicode"
)

// CharTokenizer turns every printable character of a line, spaces included,
// into its own token.
type CharTokenizer struct {
	alphabet *Alphabet
}

// NewCharTokenizer returns a CharTokenizer interning into alphabet. A nil
// alphabet gets a fresh one.
func NewCharTokenizer(alphabet *Alphabet) *CharTokenizer {
	if alphabet == nil {
		alphabet = NewAlphabet()
	}
	return &CharTokenizer{alphabet: alphabet}
}

// Alphabet returns the alphabet tokens are interned in.
func (t *CharTokenizer) Alphabet() *Alphabet {
	return t.alphabet
}

// NewStream returns a stream of character tokens read from r.
func (t *CharTokenizer) NewStream(r io.Reader) TokenStream {
	return newLineStream(r, func(line string, out []Token) []Token {
		return t.lexLine(line, out, t.alphabet.Intern)
	})
}

// FeedLine tokenizes line without appending EOS or interning new tokens.
func (t *CharTokenizer) FeedLine(line string) []Token {
	return t.lexLine(line, nil, t.alphabet.known)
}

// Render emits characters verbatim; only line breaks are reconstructed.
func (t *CharTokenizer) Render(prev, cur Token) string {
	return renderChar(t.alphabet, prev, cur)
}

func (t *CharTokenizer) lexLine(line string, out []Token, token tokenFunc) []Token {
	for _, r := range line {
		if !unicode.IsPrint(r) {
			continue
		}
		out = append(out, token(string(r)))
	}
	return out
}
