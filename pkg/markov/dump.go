package markov

import (
	"bufio"
	"cmp"
	"io"
	"slices"
	"strings"
)

// sortedContexts returns every recorded context in token-id order.
func (m *Model) sortedContexts() []Context {
	contexts := make([]Context, 0, len(m.edges))
	for c := range m.edges {
		contexts = append(contexts, c)
	}
	slices.SortFunc(contexts, func(a, b Context) int {
		return slices.Compare(a[:], b[:])
	})
	return contexts
}

// Dump writes every context and its successors, one context per line:
//
//	[<BOS>, a] = {b, b, e}
func (m *Model) Dump(w io.Writer) error {
	a := m.tokenizer.Alphabet()
	bw := bufio.NewWriter(w)
	for _, c := range m.sortedContexts() {
		ctxParts := make([]string, m.order)
		for i, t := range c[:m.order] {
			ctxParts[i] = a.mustTranslate(t)
		}
		successors := m.edges[c]
		succParts := make([]string, len(successors))
		for i, t := range successors {
			succParts[i] = a.mustTranslate(t)
		}
		_, _ = bw.WriteString("[" + strings.Join(ctxParts, ", ") + "] = {" + strings.Join(succParts, ", ") + "}\n")
	}
	return bw.Flush()
}

// frequencies tallies a successor multiset. The result is ordered by
// descending count, then ascending token id.
func frequencies(successors []Token) []ChainToken {
	counts := make(map[Token]int, len(successors))
	for _, t := range successors {
		counts[t]++
	}
	tokens := make([]ChainToken, 0, len(counts))
	for id, freq := range counts {
		tokens = append(tokens, ChainToken{Id: id, Freq: freq})
	}
	slices.SortFunc(tokens, func(x, y ChainToken) int {
		if c := cmp.Compare(y.Freq, x.Freq); c != 0 {
			return c
		}
		return cmp.Compare(x.Id, y.Id)
	})
	return tokens
}
