/*
Package trigram provides an in-memory trigram language model for Go.

A Model counts unigrams, bigrams and trigrams over lowercase whitespace-split
text, estimates add-one smoothed probabilities with a three-level backoff
(trigram, then bigram, then unigram), and generates text by greedily picking
the most probable continuation at each step. All methods are safe for
concurrent use.

	m := trigram.NewModel()
	m.Fit("the cat sat on the mat")
	p := m.Prob("the", "cat", "sat")
	s := m.Generate(trigram.WithMaxLength(10))
*/
package trigram
