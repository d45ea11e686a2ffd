package markov

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Tokenizer is the contract the Model depends on. It splits text into tokens
// interned in its Alphabet and knows how to render a token back into text
// given the token that preceded it.
type Tokenizer interface {
	// NewStream returns a stateful TokenStream reading r line by line. Every
	// line, including the last one, is followed by an EOS token.
	NewStream(r io.Reader) TokenStream
	// FeedLine tokenizes a single line without appending EOS. It never grows
	// the alphabet: words that were not learned come back as ErrorToken.
	FeedLine(line string) []Token
	// Render returns the text fragment for cur, including any leading
	// separator, given the previously rendered token prev.
	Render(prev, cur Token) string
	// Alphabet returns the alphabet tokens are interned in.
	Alphabet() *Alphabet
}

// TokenStream produces tokens on demand.
type TokenStream interface {
	// Next returns the next token from the stream. It returns io.EOF as the
	// error when the stream is fully consumed.
	Next() (Token, error)
}

// lineLexer appends the tokens of one line, without EOS, to out.
type lineLexer func(line string, out []Token) []Token

// tokenFunc maps a word or character to its token.
type tokenFunc func(text string) Token

// lineStream buffers the tokens of one line at a time.
type lineStream struct {
	reader *bufio.Reader
	lex    lineLexer
	buffer []Token
	done   bool
}

func newLineStream(r io.Reader, lex lineLexer) *lineStream {
	return &lineStream{
		reader: bufio.NewReader(r),
		lex:    lex,
	}
}

// Next returns the next token from the stream. When the stream is exhausted,
// it returns io.EOF. Any other error comes from the underlying reader.
func (s *lineStream) Next() (Token, error) {
	for len(s.buffer) == 0 { // Loop until a line produced tokens
		if s.done {
			return ErrorToken, io.EOF
		}
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return ErrorToken, err
			}
			s.done = true
			if line == "" {
				continue
			}
		}
		line = strings.TrimRight(line, "\r\n")
		s.buffer = append(s.lex(line, s.buffer[:0]), EOS)
	}

	token := s.buffer[0]
	s.buffer = s.buffer[1:]
	return token, nil
}

// Tokenize is a convenience helper returning every token of text, one EOS
// per line.
func Tokenize(t Tokenizer, text string) []Token {
	var out []Token
	stream := t.NewStream(strings.NewReader(text))
	for {
		token, err := stream.Next()
		if err != nil {
			// A strings.Reader only ever fails with io.EOF.
			return out
		}
		out = append(out, token)
	}
}
