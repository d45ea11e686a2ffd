package markov

import (
	"io"
	"strings"
	"unicode"
)

type lexState int

const (
	stateNoWord lexState = iota
	stateEndWord
	stateWord
	stateURL
)

// WordTokenizer splits lines into words and punctuation. Quotes and hyphens
// that touch a word become the Quote, Unquote and Hyphen markers, and
// http(s) URLs are dropped.
type WordTokenizer struct {
	alphabet *Alphabet
}

// NewWordTokenizer returns a WordTokenizer interning into alphabet. A nil
// alphabet gets a fresh one.
func NewWordTokenizer(alphabet *Alphabet) *WordTokenizer {
	if alphabet == nil {
		alphabet = NewAlphabet()
	}
	return &WordTokenizer{alphabet: alphabet}
}

// Alphabet returns the alphabet tokens are interned in.
func (t *WordTokenizer) Alphabet() *Alphabet {
	return t.alphabet
}

// NewStream returns a stream of word tokens read from r.
func (t *WordTokenizer) NewStream(r io.Reader) TokenStream {
	return newLineStream(r, func(line string, out []Token) []Token {
		return t.lexLine(line, out, t.alphabet.Intern)
	})
}

// FeedLine tokenizes line without appending EOS or interning new tokens.
func (t *WordTokenizer) FeedLine(line string) []Token {
	return t.lexLine(line, nil, t.alphabet.known)
}

// Render applies the word spacing rules.
func (t *WordTokenizer) Render(prev, cur Token) string {
	return renderWord(t.alphabet, prev, cur)
}

func (t *WordTokenizer) lexLine(line string, out []Token, token tokenFunc) []Token {
	l := wordLexer{token: token, out: out}
	for _, r := range line {
		if !unicode.IsPrint(r) {
			continue
		}
		l.feed(r)
	}
	// A trailing boundary closes the last word of the line.
	l.feed(' ')
	return l.out
}

type wordLexer struct {
	token    tokenFunc
	state    lexState
	word     strings.Builder
	out      []Token
}

func (l *wordLexer) emit(t Token) {
	l.out = append(l.out, t)
}

// feed runs r through the state machine. A state may hand r on to another
// state instead of consuming it.
func (l *wordLexer) feed(r rune) {
	for {
		switch l.state {
		case stateWord:
			if isWordRune(r) {
				l.word.WriteRune(r)
				return
			}
			word := l.word.String()
			l.word.Reset()
			if r == ':' && (word == "http" || word == "https") {
				l.state = stateURL
				return
			}
			l.emit(l.token(word))
			l.state = stateEndWord

		case stateEndWord:
			switch {
			case r == '"':
				l.emit(Unquote)
				l.state = stateNoWord
				return
			case r == '-':
				l.emit(Hyphen)
				l.state = stateNoWord
				return
			case isTerminalPunct(r):
				// Runs like "..." or "?!" stay glued to the word.
				l.emit(l.token(string(r)))
				return
			}
			l.state = stateNoWord

		case stateNoWord:
			switch {
			case r == '"':
				l.emit(Quote)
			case isWordRune(r) || r == ':':
				l.word.WriteRune(r)
				l.state = stateWord
			case unicode.IsSpace(r):
			default:
				l.emit(l.token(string(r)))
			}
			return

		case stateURL:
			if r != ' ' {
				return
			}
			l.state = stateNoWord
		}
	}
}

func isWordRune(r rune) bool {
	return r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isTerminalPunct(r rune) bool {
	switch r {
	case ',', '!', '?', '.', ':', ';':
		return true
	}
	return false
}
