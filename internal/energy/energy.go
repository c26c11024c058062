// Package energy scores a candidate key by how probable its decryption of
// the ciphertext is under a language model. Energy is the negative
// log-likelihood, so lower is better.
package energy

import (
	"fmt"

	"github.com/domino14/cipher_breaker/internal/alphabet"
	"github.com/domino14/cipher_breaker/internal/langmodel"
	"github.com/domino14/cipher_breaker/internal/permutation"
)

// Decode applies key to every symbol of ciphertext. Bytes outside the
// alphabet pass through unchanged.
func Decode(key permutation.Permutation, ciphertext string) string {
	return Transition(key, ciphertext, len(ciphertext))
}

// Transition decodes only the first n symbols of ciphertext. n larger than
// the text, or negative, decodes all of it.
func Transition(key permutation.Permutation, ciphertext string, n int) string {
	if n < 0 || n > len(ciphertext) {
		n = len(ciphertext)
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := ciphertext[i]
		if idx, ok := alphabet.Index(c); ok {
			c = key.At(idx)
		}
		out[i] = c
	}
	return string(out)
}

// Evaluator scores keys against one ciphertext. The ciphertext is indexed
// once up front; only the first Limit symbols count toward the score.
type Evaluator struct {
	model *langmodel.Model
	text  []uint8
	limit int
}

// New returns an Evaluator for ciphertext. A limit of 0 (or anything past
// the end of the text) scores the whole text.
func New(model *langmodel.Model, ciphertext string, limit int) (*Evaluator, error) {
	if limit < 0 {
		return nil, fmt.Errorf("negative score limit %d", limit)
	}
	text, err := alphabet.Indices(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("ciphertext: %w", err)
	}
	if limit == 0 || limit > len(text) {
		limit = len(text)
	}
	return &Evaluator{model: model, text: text, limit: limit}, nil
}

// Limit is the number of symbols actually scored.
func (e *Evaluator) Limit() int { return e.limit }

// decoded returns the alphabet index of the plaintext symbol that key maps
// ciphertext index c to.
func decoded(key *permutation.Permutation, c uint8) int {
	idx, _ := alphabet.Index(key[c])
	return idx
}

// Energy is -log P[x0] - sum log Q[x(j-1)][x(j)] over the scored prefix of
// the decryption x.
func (e *Evaluator) Energy(key permutation.Permutation) float64 {
	if e.limit == 0 {
		return 0
	}
	prev := decoded(&key, e.text[0])
	energy := -e.model.LogP(prev)
	for j := 1; j < e.limit; j++ {
		cur := decoded(&key, e.text[j])
		energy -= e.model.LogQ(prev, cur)
		prev = cur
	}
	return energy
}

// Delta is Energy(a) - Energy(b), computed in a single pass over both
// decryptions. The one difference: when a and b decode the first symbol
// the same way, its prior term is skipped, so Delta stays finite where
// the subtraction would be -Inf - -Inf = NaN.
func (e *Evaluator) Delta(a, b permutation.Permutation) float64 {
	if e.limit == 0 {
		return 0
	}
	pa := decoded(&a, e.text[0])
	pb := decoded(&b, e.text[0])
	var d float64
	if pa != pb {
		d = -e.model.LogP(pa) + e.model.LogP(pb)
	}
	for j := 1; j < e.limit; j++ {
		ca := decoded(&a, e.text[j])
		cb := decoded(&b, e.text[j])
		d += -e.model.LogQ(pa, ca) + e.model.LogQ(pb, cb)
		pa, pb = ca, cb
	}
	return d
}
