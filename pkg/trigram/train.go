package trigram

import "log/slog"

// Fit tokenizes text and adds its unigram, bigram and trigram counts to the
// model. Counts accumulate across calls, but n-grams never span two calls:
// the last tokens of one text are not joined with the first tokens of the next.
// The whole update happens under a single write lock.
func (m *Model) Fit(text string) {
	tokens := Tokenize(text)

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range tokens {
		m.unigrams[t]++
		m.totalTokens++
	}

	for i := 0; i+1 < len(tokens); i++ {
		m.bigrams[bigramKey{tokens[i], tokens[i+1]}]++
	}

	for i := 0; i+2 < len(tokens); i++ {
		m.trigrams[trigramKey{tokens[i], tokens[i+1], tokens[i+2]}]++
	}

	m.logger.Debug("Training completed",
		slog.Int("tokens_processed", len(tokens)),
		slog.Int("vocab_size", len(m.unigrams)),
		slog.Int("total_tokens", m.totalTokens),
	)
}
