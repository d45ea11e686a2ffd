package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CTAG07/markovcomplete/pkg/markov"
)

const (
	maxWordOrder = 5
	maxCharOrder = markov.MaxOrder
)

// parseOrder reads the chain selector: "1".."5" picks a word chain of that
// order, "c1".."c9" a character chain.
func parseOrder(arg string) (chars bool, order int, err error) {
	limit := maxWordOrder
	digits := arg
	if rest, ok := strings.CutPrefix(arg, "c"); ok {
		chars = true
		limit = maxCharOrder
		digits = rest
	}
	order, err = strconv.Atoi(digits)
	if err != nil || order < 1 || order > limit {
		return false, 0, fmt.Errorf("chain selector %q: %w", arg, markov.ErrInvalidOrder)
	}
	return chars, order, nil
}

// newModel builds the model selected by arg.
func newModel(arg string, opts ...markov.ModelOption) (*markov.Model, error) {
	chars, order, err := parseOrder(arg)
	if err != nil {
		return nil, err
	}
	var tokenizer markov.Tokenizer = markov.NewWordTokenizer(nil)
	if chars {
		tokenizer = markov.NewCharTokenizer(nil)
	}
	return markov.NewModel(order, tokenizer, opts...)
}
