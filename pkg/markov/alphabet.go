package markov

import (
	"errors"
	"fmt"
)

// Token identifies a learned word, a learned character, or a structural marker.
// Token ids are never reused for a different string.
type Token uint32

// Special tokens. They are allocated before any learned token, so every
// learned token id is >= firstLearned.
const (
	ErrorToken Token = iota
	BOS
	EOS
	Quote
	Unquote
	Hyphen

	firstLearned
)

// ErrUnknownToken is returned when translating a token that was never interned.
var ErrUnknownToken = errors.New("unknown token")

var specialTexts = [firstLearned]string{
	ErrorToken: "<ERROR>",
	BOS:        "<BOS>",
	EOS:        "<EOS>",
	Quote:      `"`,
	Unquote:    `"`,
	Hyphen:     "-",
}

// Alphabet interns strings to tokens and back. Growth is append-only.
type Alphabet struct {
	ids   map[string]Token
	texts []string
}

// NewAlphabet returns an alphabet holding only the special tokens.
func NewAlphabet() *Alphabet {
	texts := make([]string, firstLearned, 64)
	copy(texts, specialTexts[:])
	return &Alphabet{
		ids:   make(map[string]Token),
		texts: texts,
	}
}

// Intern returns the token for word, allocating a new one the first time the
// word is seen. Special tokens are never returned: a learned "-" is distinct
// from Hyphen.
func (a *Alphabet) Intern(word string) Token {
	if id, ok := a.ids[word]; ok {
		return id
	}
	id := Token(len(a.texts))
	a.ids[word] = id
	a.texts = append(a.texts, word)
	return id
}

// Lookup returns the token for an already interned word without allocating.
func (a *Alphabet) Lookup(word string) (Token, bool) {
	id, ok := a.ids[word]
	return id, ok
}

// known returns the token for word, or ErrorToken if word was never interned.
func (a *Alphabet) known(word string) Token {
	if id, ok := a.ids[word]; ok {
		return id
	}
	return ErrorToken
}

// Translate returns the text of a token.
func (a *Alphabet) Translate(t Token) (string, error) {
	if int(t) >= len(a.texts) {
		return "", fmt.Errorf("token %d: %w", t, ErrUnknownToken)
	}
	return a.texts[t], nil
}

// mustTranslate is used where an unknown token can only mean broken bookkeeping.
func (a *Alphabet) mustTranslate(t Token) string {
	text, err := a.Translate(t)
	if err != nil {
		panic(err)
	}
	return text
}

// Len returns the number of tokens, special tokens included.
func (a *Alphabet) Len() int {
	return len(a.texts)
}

// IsSpecial reports whether t is one of the pre-allocated special tokens.
func IsSpecial(t Token) bool {
	return t < firstLearned
}

// IsStructural reports whether t is ERROR, BOS or EOS, which carry no visible text.
func IsStructural(t Token) bool {
	return t == ErrorToken || t == BOS || t == EOS
}
