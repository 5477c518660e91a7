package ngram

import (
	"go/build"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// catCorpus is small enough to reason about by hand.
var catCorpus = []string{"the", "cat", "sat", "on", "the", "mat", "the", "cat", "ran"}

// newTestRand returns a seeded random source so walks are reproducible.
func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// setupTestModel builds a model over tokens and fails the test on error.
func setupTestModel(t *testing.T, tokens []string, n int) *Model {
	t.Helper()
	m, err := Build(tokens, n)
	if err != nil {
		t.Fatalf("setup: Build() failed: %v", err)
	}
	return m
}

// setupTestGenerator is a convenience helper that also creates a Generator.
func setupTestGenerator(t *testing.T, tokens []string, n int, seed uint64) (*Model, *Generator) {
	t.Helper()
	m := setupTestModel(t, tokens, n)
	g, err := NewGenerator(m, newTestRand(seed))
	if err != nil {
		t.Fatalf("setup: NewGenerator() failed: %v", err)
	}
	return m, g
}

// snapshot copies every window and its followers so a model can be compared
// before and after an operation.
func snapshot(t *testing.T, m *Model) map[string][]string {
	t.Helper()
	out := make(map[string][]string, m.Len())
	for _, w := range m.Windows() {
		followers, err := m.FollowersOf(w)
		if err != nil {
			t.Fatalf("snapshot: FollowersOf(%q) failed: %v", w.String(), err)
		}
		out[w.String()] = followers
	}
	return out
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
