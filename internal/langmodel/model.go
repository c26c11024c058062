// Package langmodel builds the character bigram model used to score
// candidate decryptions.
package langmodel

import (
	"errors"
	"fmt"
	"math"

	"github.com/domino14/cipher_breaker/internal/alphabet"
)

const n = alphabet.Size

// ErrEmptyCorpus means the corpus is too short to contain a bigram.
var ErrEmptyCorpus = errors.New("corpus needs at least two symbols to observe a bigram")

// Model is a bigram transition matrix Q and a unigram prior P over the
// alphabet. It is immutable once built, so one Model can be shared by any
// number of concurrent searches.
type Model struct {
	q    [n][n]float64
	p    [n]float64
	logQ [n][n]float64
	logP [n]float64

	corpusLen int
}

// Build counts every adjacent symbol pair and every symbol in corpus.
// Bigrams that never occur get a count of 1 before each row is normalized,
// so no transition has zero probability.
func Build(corpus string) (*Model, error) {
	if len(corpus) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrEmptyCorpus, len(corpus))
	}
	idx, err := alphabet.Indices(corpus)
	if err != nil {
		return nil, fmt.Errorf("corpus is not normalized: %w", err)
	}

	var bigrams [n][n]int
	var unigrams [n]int
	unigrams[idx[0]]++
	for i := 1; i < len(idx); i++ {
		bigrams[idx[i-1]][idx[i]]++
		unigrams[idx[i]]++
	}

	m := &Model{corpusLen: len(idx)}
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			bigrams[i][j] = max(bigrams[i][j], 1)
			sum += float64(bigrams[i][j])
		}
		for j := 0; j < n; j++ {
			m.q[i][j] = float64(bigrams[i][j]) / sum
			m.logQ[i][j] = math.Log(m.q[i][j])
		}
	}
	for i := 0; i < n; i++ {
		m.p[i] = float64(unigrams[i]) / float64(len(idx))
		// A symbol the corpus never uses gets log(0) = -Inf here, so a
		// decode starting with it has infinite energy.
		m.logP[i] = math.Log(m.p[i])
	}
	return m, nil
}

// Q is the probability that symbol j follows symbol i.
func (m *Model) Q(i, j int) float64 { return m.q[i][j] }

// P is the prior probability of symbol i.
func (m *Model) P(i int) float64 { return m.p[i] }

func (m *Model) LogQ(i, j int) float64 { return m.logQ[i][j] }

func (m *Model) LogP(i int) float64 { return m.logP[i] }

// CorpusLen is the number of symbols the model was trained on.
func (m *Model) CorpusLen() int { return m.corpusLen }
