package trigram

import (
	"log/slog"
	"math/rand/v2"
	"strings"
)

// DefaultMaxLength is the number of tokens Generate produces when no
// WithMaxLength option is given.
const DefaultMaxLength = 50

// Rand is the source of randomness used to draw the seed pair. *rand.Rand
// from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand draws from the math/rand/v2 top-level source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	maxLength int
	rng       Rand
}

// GenerateOption is a function that configures generation parameters.
type GenerateOption func(*generateOptions)

// WithMaxLength sets the total number of tokens to produce, seed pair
// included. Values below 3 still yield the two seed tokens.
func WithMaxLength(n int) GenerateOption {
	return func(o *generateOptions) { o.maxLength = n }
}

// WithRand sets the randomness source for the seed pair draw. A nil source
// keeps the default.
func WithRand(r Rand) GenerateOption {
	return func(o *generateOptions) {
		if r != nil {
			o.rng = r
		}
	}
}

func newGenerateOptions(opts []GenerateOption) *generateOptions {
	options := &generateOptions{
		maxLength: DefaultMaxLength,
		rng:       globalRand{},
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Generate draws two distinct vocabulary tokens uniformly at random and
// greedily extends them, as GenerateFrom does. An empty model yields "", and a
// model with a single token yields that token.
func (m *Model) Generate(opts ...GenerateOption) string {
	options := newGenerateOptions(opts)

	m.mu.RLock()
	defer m.mu.RUnlock()

	vocab := m.sortedVocab()
	if len(vocab) < 2 {
		return strings.Join(vocab, " ")
	}

	i := options.rng.IntN(len(vocab))
	j := options.rng.IntN(len(vocab) - 1)
	if j >= i {
		j++
	}
	return m.generateChain(vocab, vocab[i], vocab[j], options)
}

// GenerateFrom extends the seed pair (w1, w2) greedily: at each step every
// vocabulary token is scored with Prob against the last two tokens and the
// most probable one is appended. Equal probabilities go to the
// lexicographically largest token. The seed tokens are used verbatim and need
// not be in the vocabulary. The empty and single-token vocabulary cases behave
// as in Generate.
func (m *Model) GenerateFrom(w1, w2 string, opts ...GenerateOption) string {
	options := newGenerateOptions(opts)

	m.mu.RLock()
	defer m.mu.RUnlock()

	vocab := m.sortedVocab()
	if len(vocab) < 2 {
		return strings.Join(vocab, " ")
	}
	return m.generateChain(vocab, w1, w2, options)
}

// generateChain contains the main greedy loop. It must be called with m.mu held.
func (m *Model) generateChain(vocab []string, w1, w2 string, options *generateOptions) string {
	sentence := make([]string, 0, max(options.maxLength, 2))
	sentence = append(sentence, w1, w2)

	for step := 0; step < options.maxLength-2; step++ {
		s := m.newScorer(w1, w2)
		best, bestProb := "", -1.0
		// vocab is ascending, so >= hands ties to the later, larger token.
		for _, w3 := range vocab {
			if p := s.prob(m, w3); p >= bestProb {
				best, bestProb = w3, p
			}
		}
		sentence = append(sentence, best)
		w1, w2 = w2, best
	}

	m.logger.Debug("Generation completed",
		slog.String("seed_w1", sentence[0]),
		slog.String("seed_w2", sentence[1]),
		slog.Int("max_length", options.maxLength),
		slog.Int("generated_length", len(sentence)),
	)

	return strings.Join(sentence, " ")
}
