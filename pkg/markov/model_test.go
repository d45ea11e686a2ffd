package markov

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"
)

func TestNewModelOrder(t *testing.T) {
	for _, order := range []int{0, -1, MaxOrder + 1} {
		if _, err := NewModel(order, NewWordTokenizer(nil)); !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("NewModel(%d): expected ErrInvalidOrder, got %v", order, err)
		}
	}
	for _, order := range []int{1, MaxOrder} {
		m, err := NewModel(order, NewCharTokenizer(nil))
		if err != nil {
			t.Fatalf("NewModel(%d) error = %v", order, err)
		}
		if got := m.Context(); len(got) != order {
			t.Errorf("context has %d entries, want %d", len(got), order)
		}
	}
}

func TestLearn(t *testing.T) {
	m := newTestModel(t, 2, "a b c")
	a := m.Tokenizer().Alphabet()

	stats := m.Stats()
	if stats.TotalEdges != 4 {
		t.Errorf("expected 4 edges, got %d", stats.TotalEdges)
	}
	if stats.Contexts != 4 {
		t.Errorf("expected 4 contexts, got %d", stats.Contexts)
	}
	if !reflect.DeepEqual(m.Context(), []Token{BOS, BOS}) {
		t.Errorf("context after learning = %v, want BOS BOS", m.Context())
	}

	m.Reseed("a b")
	if got := describe(a, m.Successors()); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("successors of 'a b' = %q", got)
	}
	m.Reseed("b c")
	if got := describe(a, m.Successors()); !reflect.DeepEqual(got, []string{"EOS"}) {
		t.Errorf("successors of 'b c' = %q", got)
	}
}

func TestLearnClosesDanglingFragment(t *testing.T) {
	m := newTestModel(t, 1)
	a := m.Tokenizer().Alphabet()
	x, y := a.Intern("x"), a.Intern("y")

	if err := m.LearnStream(&sliceStream{tokens: []Token{x, y}}); err != nil {
		t.Fatalf("LearnStream() error = %v", err)
	}
	if got := m.Stats().TotalEdges; got != 3 {
		t.Errorf("expected 3 edges including the synthetic EOS, got %d", got)
	}
	m.Reseed("y")
	if got := m.Successors(); !reflect.DeepEqual(got, []Token{EOS}) {
		t.Errorf("successors of 'y' = %v, want [EOS]", got)
	}

	// A stream that already ends on EOS gets no extra edge.
	before := m.Stats().TotalEdges
	_ = m.LearnStream(&sliceStream{tokens: []Token{x, EOS}})
	if got := m.Stats().TotalEdges - before; got != 2 {
		t.Errorf("expected 2 new edges, got %d", got)
	}
}

func TestLearnIsAdditive(t *testing.T) {
	forward := newTestModel(t, 1, "a b", "a c", "a b")
	backward := newTestModel(t, 1, "a b", "a b", "a c")

	for _, m := range []*Model{forward, backward} {
		m.Reseed("a")
		a := m.Tokenizer().Alphabet()
		b, _ := a.Lookup("b")
		c, _ := a.Lookup("c")
		expected := []ChainToken{{Id: b, Freq: 2}, {Id: c, Freq: 1}}
		if got := m.NextTokens(); !reflect.DeepEqual(got, expected) {
			t.Errorf("NextTokens() = %+v, want %+v", got, expected)
		}
	}

	twice := newTestModel(t, 1, "x y", "x y")
	twice.Reseed("x")
	if got := len(twice.Successors()); got != 2 {
		t.Errorf("replaying a line should double its weight, got %d successors", got)
	}
}

func TestLearnReaderError(t *testing.T) {
	m := newTestModel(t, 1)
	err := m.Learn(iotest.ErrReader(iotest.ErrTimeout))
	if !errors.Is(err, iotest.ErrTimeout) {
		t.Errorf("expected reader error, got %v", err)
	}
	if !reflect.DeepEqual(m.Context(), []Token{BOS}) {
		t.Error("model must be back at the start state after a failed learn")
	}
}

func TestSample(t *testing.T) {
	m := newTestModel(t, 1, "a b")
	a := m.Tokenizer().Alphabet()

	var got []string
	for i := 0; i < 6; i++ {
		got = append(got, describe(a, []Token{m.Sample()})...)
	}
	expected := []string{"a", "b", "EOS", "a", "b", "EOS"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("samples = %q, want %q", got, expected)
	}
}

func TestSampleUnseenContext(t *testing.T) {
	m := newTestModel(t, 2, "a b")

	m.Reseed("never seen")
	if got := m.Sample(); got != ErrorToken {
		t.Fatalf("expected ErrorToken from unseen context, got %d", got)
	}
	if !reflect.DeepEqual(m.Context(), []Token{BOS, BOS}) {
		t.Errorf("context after reset = %v", m.Context())
	}
	first, _ := m.Tokenizer().Alphabet().Lookup("a")
	if got := m.Sample(); got != first {
		t.Errorf("expected generation to resume with 'a', got %d", got)
	}
}

func TestSampleIsFrequencyWeighted(t *testing.T) {
	m := newTestModel(t, 1, "x a", "x a", "x a", "x b")
	aID, _ := m.Tokenizer().Alphabet().Lookup("a")

	const draws = 4000
	var hits int
	for i := 0; i < draws; i++ {
		m.Reseed("x")
		if m.Sample() == aID {
			hits++
		}
	}
	ratio := float64(hits) / draws
	if ratio < 0.65 || ratio > 0.85 {
		t.Errorf("'a' drawn with ratio %.3f, want about 0.75", ratio)
	}
}

func TestSuccessorsDoesNotMutate(t *testing.T) {
	m := newTestModel(t, 1, "a b", "a c")
	m.Reseed("a")
	ctx := m.Context()

	first := m.Successors()
	first[0] = ErrorToken
	second := m.Successors()
	if second[0] == ErrorToken {
		t.Error("Successors() exposed the model's internal slice")
	}
	if !reflect.DeepEqual(ctx, m.Context()) {
		t.Error("Successors() moved the context")
	}

	m.Reseed("unseen")
	if got := m.Successors(); len(got) != 0 {
		t.Errorf("expected no successors for an unseen context, got %v", got)
	}
}

func TestReseedAcrossLines(t *testing.T) {
	m := newTestModel(t, 2, "a b", "c d")
	a := m.Tokenizer().Alphabet()

	m.Reseed("a b\nc")
	if got := describe(a, m.Context()); !reflect.DeepEqual(got, []string{"BOS", "c"}) {
		t.Errorf("context = %q, want [BOS c]", got)
	}
	if got := describe(a, m.Successors()); !reflect.DeepEqual(got, []string{"d"}) {
		t.Errorf("successors = %q, want [d]", got)
	}

	edges := m.Stats().TotalEdges
	m.Reseed("c d e f")
	if m.Stats().TotalEdges != edges {
		t.Error("Reseed changed the learned edges")
	}
}

func TestReseedKeepsAlphabet(t *testing.T) {
	m := newTestModel(t, 1, "a b")
	a := m.Tokenizer().Alphabet()
	vocabulary := m.Stats().Vocabulary

	testCases := []struct {
		text     string
		expected string
	}{
		{text: "", expected: "BOS"},
		{text: "a", expected: "a"},
		{text: "a zzz", expected: "ERROR"},
		{text: "a b\n", expected: "EOS"},
		{text: "x\ny b", expected: "b"},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%q", tc.text), func(t *testing.T) {
			last := m.Reseed(tc.text)
			if got := describe(a, []Token{last}); got[0] != tc.expected {
				t.Errorf("Reseed(%q) = %s, want %s", tc.text, got[0], tc.expected)
			}
		})
	}

	m.Reseed("zzz")
	if got := m.Successors(); len(got) != 0 {
		t.Errorf("expected no successors after an unknown word, got %v", got)
	}
	if got := m.Stats().Vocabulary; got != vocabulary {
		t.Errorf("Reseed changed the vocabulary from %d to %d", vocabulary, got)
	}
}

func TestStats(t *testing.T) {
	m := newTestModel(t, 1, "a b\nc d")
	expected := ModelStats{
		Order:          1,
		Contexts:       5,
		TotalEdges:     6,
		Vocabulary:     4,
		StartingTokens: 2,
	}
	if got := m.Stats(); got != expected {
		t.Errorf("Stats() = %+v, want %+v", got, expected)
	}
}

func TestDump(t *testing.T) {
	m := newTestModel(t, 1, "a b", "a e")

	var buf bytes.Buffer
	if err := m.Dump(&buf); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	expected := strings.Join([]string{
		"[<BOS>] = {a, a}",
		"[a] = {b, e}",
		"[b] = {<EOS>}",
		"[e] = {<EOS>}",
	}, "\n") + "\n"
	if buf.String() != expected {
		t.Errorf("Dump() =\n%s\nwant\n%s", buf.String(), expected)
	}
}

func BenchmarkLearn(b *testing.B) {
	corpus := createBenchmarkCorpus()

	for _, order := range []int{1, 2, 3, 4, 5} {
		b.Run(fmt.Sprintf("Order%d", order), func(b *testing.B) {
			b.SetBytes(int64(len(corpus)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				m, _ := NewModel(order, NewWordTokenizer(nil))
				if err := m.Learn(strings.NewReader(corpus)); err != nil {
					b.Fatalf("Learn() failed: %v", err)
				}
			}
		})
	}
}
