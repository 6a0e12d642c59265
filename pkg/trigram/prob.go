package trigram

import "math"

// backoff identifies which n-gram order a probability was estimated from.
type backoff int

const (
	levelTrigram backoff = iota
	levelBigram
	levelUnigram
)

// scorer holds everything Prob needs that depends only on the (w1, w2)
// context, so a generation step can resolve the backoff level and the
// denominator once and then score every candidate.
type scorer struct {
	level  backoff
	w1, w2 string
	denom  float64
}

// newScorer must be called with m.mu held.
func (m *Model) newScorer(w1, w2 string) scorer {
	v := len(m.unigrams)
	if v == 0 {
		v = 1
	}
	if c := m.bigrams[bigramKey{w1, w2}]; c > 0 {
		return scorer{level: levelTrigram, w1: w1, w2: w2, denom: float64(c + v)}
	}
	if c := m.unigrams[w2]; c > 0 {
		return scorer{level: levelBigram, w1: w1, w2: w2, denom: float64(c + v)}
	}
	return scorer{level: levelUnigram, w1: w1, w2: w2, denom: float64(m.totalTokens + v)}
}

// prob must be called with m.mu held.
func (s scorer) prob(m *Model, w3 string) float64 {
	var n int
	switch s.level {
	case levelTrigram:
		n = m.trigrams[trigramKey{s.w1, s.w2, w3}]
	case levelBigram:
		n = m.bigrams[bigramKey{s.w2, w3}]
	default:
		n = m.unigrams[w3]
	}
	return float64(n+1) / s.denom
}

// Prob returns the add-one smoothed probability of w3 following w1 w2.
//
// If the context pair (w1, w2) was seen, the trigram estimate
// (c(w1,w2,w3)+1) / (c(w1,w2)+V) is used. Otherwise, if w2 was seen, the
// bigram estimate (c(w2,w3)+1) / (c(w2)+V). Otherwise the unigram estimate
// (c(w3)+1) / (N+V), where N is the total token count. V is the vocabulary
// size, or 1 for an empty model. The result is always in (0, 1].
func (m *Model) Prob(w1, w2, w3 string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.newScorer(w1, w2).prob(m, w3)
}

// LogProb returns the natural logarithm of Prob(w1, w2, w3). It is always
// finite and never positive.
func (m *Model) LogProb(w1, w2, w3 string) float64 {
	return math.Log(m.Prob(w1, w2, w3))
}
