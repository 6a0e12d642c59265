package trigram

import "math"

// ModelStats holds aggregated statistics for a Model.
type ModelStats struct {
	VocabSize      int // The number of distinct tokens.
	TotalTokens    int // The number of tokens trained on, repeats included.
	UniqueBigrams  int // The number of distinct adjacent token pairs.
	UniqueTrigrams int // The number of distinct adjacent token triples.
}

// Stats returns a consistent snapshot of the model's counts.
func (m *Model) Stats() ModelStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ModelStats{
		VocabSize:      len(m.unigrams),
		TotalTokens:    m.totalTokens,
		UniqueBigrams:  len(m.bigrams),
		UniqueTrigrams: len(m.trigrams),
	}
}

// Score is the result of scoring a text against a Model.
type Score struct {
	LogProb  float64 // Sum of LogProb over every adjacent triple in the text.
	Trigrams int     // The number of triples scored.
}

// Perplexity returns exp(-LogProb/Trigrams), or 1 when nothing was scored.
func (s Score) Perplexity() float64 {
	if s.Trigrams == 0 {
		return 1
	}
	return math.Exp(-s.LogProb / float64(s.Trigrams))
}

// Score tokenizes text the same way Fit does and sums the log-probability of
// each token given the two before it. Texts shorter than three tokens score
// zero triples.
func (m *Model) Score(text string) Score {
	tokens := Tokenize(text)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var score Score
	for i := 0; i+2 < len(tokens); i++ {
		p := m.newScorer(tokens[i], tokens[i+1]).prob(m, tokens[i+2])
		score.LogProb += math.Log(p)
		score.Trigrams++
	}
	return score
}
