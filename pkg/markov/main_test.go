package markov

import (
	"database/sql"
	"go/build"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	_ "modernc.org/sqlite"
)

// setupTestDB creates a new SQLite database with the snapshot schema.
// It uses t.Cleanup to ensure resources are released.
func setupTestDB(t *testing.T) *sql.DB {
	dbFile := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbFile)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := SetupSchema(db); err != nil {
		t.Fatalf("failed to set up schema: %v", err)
	}
	return db
}

// newTestModel returns a seeded word model of the given order trained on lines.
func newTestModel(t testing.TB, order int, lines ...string) *Model {
	m, err := NewModel(order, NewWordTokenizer(nil), WithSeed(42))
	if err != nil {
		t.Fatalf("NewModel(%d) error = %v", order, err)
	}
	for _, line := range lines {
		m.LearnString(line)
	}
	return m
}

// describe turns tokens into readable strings, naming the special tokens.
func describe(a *Alphabet, tokens []Token) []string {
	names := map[Token]string{
		ErrorToken: "ERROR",
		BOS:        "BOS",
		EOS:        "EOS",
		Quote:      "QUOTE",
		Unquote:    "UNQUOTE",
		Hyphen:     "HYPHEN",
	}
	out := make([]string, len(tokens))
	for i, t := range tokens {
		if name, ok := names[t]; ok {
			out[i] = name
			continue
		}
		text, err := a.Translate(t)
		if err != nil {
			text = "?"
		}
		out[i] = text
	}
	return out
}

// sliceStream is a TokenStream over a fixed slice.
type sliceStream struct {
	tokens []Token
}

func (s *sliceStream) Next() (Token, error) {
	if len(s.tokens) == 0 {
		return ErrorToken, io.EOF
	}
	t := s.tokens[0]
	s.tokens = s.tokens[1:]
	return t, nil
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
