package trigram

import (
	"io"
	"log/slog"
	"slices"
	"sync"
)

type (
	bigramKey  [2]string
	trigramKey [3]string
)

// Model is a trigram language model. The zero value is not usable; create
// models with NewModel.
//
// The vocabulary is the key set of the unigram table, so the vocabulary size
// always equals the number of distinct unigrams.
type Model struct {
	mu          sync.RWMutex
	unigrams    map[string]int
	bigrams     map[bigramKey]int
	trigrams    map[trigramKey]int
	totalTokens int
	logger      *slog.Logger
}

// NewModel returns an empty model with all count tables empty and a total
// token count of zero.
func NewModel() *Model {
	return &Model{
		unigrams: make(map[string]int),
		bigrams:  make(map[bigramKey]int),
		trigrams: make(map[trigramKey]int),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Model. By default, all logs are discarded.
func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.mu.Lock()
		m.logger = logger
		m.mu.Unlock()
	}
}

// VocabSize returns the number of distinct tokens seen during training.
func (m *Model) VocabSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.unigrams)
}

// Vocabulary returns the distinct training tokens in lexicographic order.
func (m *Model) Vocabulary() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedVocab()
}

// UnigramCount returns how many times w was seen. Unknown tokens count zero.
func (m *Model) UnigramCount(w string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.unigrams[w]
}

// BigramCount returns how many times w2 directly followed w1.
func (m *Model) BigramCount(w1, w2 string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bigrams[bigramKey{w1, w2}]
}

// TrigramCount returns how many times the sequence w1 w2 w3 was seen.
func (m *Model) TrigramCount(w1, w2, w3 string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trigrams[trigramKey{w1, w2, w3}]
}

// TotalTokens returns the number of tokens consumed across all Fit calls,
// repeats included.
func (m *Model) TotalTokens() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalTokens
}

// sortedVocab must be called with m.mu held.
func (m *Model) sortedVocab() []string {
	vocab := make([]string, 0, len(m.unigrams))
	for w := range m.unigrams {
		vocab = append(vocab, w)
	}
	slices.Sort(vocab)
	return vocab
}
