package trigram

import (
	"go/build"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const catCorpus = "the cat sat on the mat"

// setupTestModel returns a model trained on the given texts, one Fit call each.
func setupTestModel(t testing.TB, texts ...string) *Model {
	t.Helper()
	m := NewModel()
	for _, text := range texts {
		m.Fit(text)
	}
	return m
}

// fixedRand replays a fixed list of draws, for predictable seed pairs.
type fixedRand struct {
	draws []int
}

func (r *fixedRand) IntN(n int) int {
	v := r.draws[0] % n
	r.draws = r.draws[1:]
	return v
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12
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
