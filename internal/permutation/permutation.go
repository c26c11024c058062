// Package permutation holds the substitution key type and the machinery
// for proposing new keys during a search.
package permutation

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/domino14/cipher_breaker/internal/alphabet"
)

// ErrInvalidPermutation means a key does not hold every alphabet symbol
// exactly once.
var ErrInvalidPermutation = errors.New("not a permutation of the alphabet")

// Permutation is a substitution key. Position i holds the plaintext symbol
// that ciphertext symbol i (alphabet index i) decodes to. It is a value
// type; nothing in this package modifies one in place.
type Permutation [alphabet.Size]byte

// Identity returns the key that decodes every symbol to itself.
func Identity() Permutation {
	var p Permutation
	copy(p[:], alphabet.Symbols)
	return p
}

// Random returns a uniformly random key drawn from rng.
func Random(rng *rand.Rand) Permutation {
	p := Identity()
	rng.Shuffle(len(p), func(i, j int) {
		p[i], p[j] = p[j], p[i]
	})
	return p
}

// Parse reads a key from its 27-symbol string form.
func Parse(s string) (Permutation, error) {
	var p Permutation
	if len(s) != alphabet.Size {
		return p, fmt.Errorf("%w: length %d, want %d", ErrInvalidPermutation, len(s), alphabet.Size)
	}
	copy(p[:], s)
	if err := p.validate(); err != nil {
		return Permutation{}, err
	}
	return p, nil
}

// MustParse is Parse for keys known to be good, i.e. in tests.
func MustParse(s string) Permutation {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Permutation) validate() error {
	var seen [alphabet.Size]bool
	for i, c := range p {
		idx, ok := alphabet.Index(c)
		if !ok {
			return fmt.Errorf("%w: %q at position %d", ErrInvalidPermutation, c, i)
		}
		if seen[idx] {
			return fmt.Errorf("%w: %q repeated", ErrInvalidPermutation, c)
		}
		seen[idx] = true
	}
	return nil
}

// Valid reports whether p holds every alphabet symbol exactly once.
func (p Permutation) Valid() bool {
	return p.validate() == nil
}

func (p Permutation) String() string {
	return string(p[:])
}

// Inverse returns the key that undoes p.
func (p Permutation) Inverse() Permutation {
	var inv Permutation
	for i, c := range p {
		idx, _ := alphabet.Index(c)
		inv[idx] = alphabet.Symbol(i)
	}
	return inv
}

// Swap returns a copy of p with positions i and j exchanged.
func (p Permutation) Swap(i, j int) Permutation {
	p[i], p[j] = p[j], p[i]
	return p
}

// At returns the plaintext symbol for the ciphertext symbol at index i.
func (p Permutation) At(i int) byte {
	return p[i]
}
