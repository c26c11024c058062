package permutation

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrInvalidProposal = errors.New("invalid proposal")
	// ErrNoNovelProposal means every key the proposer generated in a row
	// was already visited, so the neighbourhood of the base key is used up.
	ErrNoNovelProposal = errors.New("no unvisited proposal found")
)

// DefaultMaxAttempts bounds how many duplicates in a row Propose tolerates.
const DefaultMaxAttempts = 1 << 16

// Proposer generates candidate keys by random transpositions.
type Proposer struct {
	rng         *rand.Rand
	MaxAttempts int
}

func NewProposer(rng *rand.Rand) *Proposer {
	return &Proposer{rng: rng, MaxAttempts: DefaultMaxAttempts}
}

// SwapCount picks how many transpositions to apply for one proposal. With
// a variance, 10% of proposals use swaps+variance and another 10% use
// swaps-variance.
func (pr *Proposer) SwapCount(swaps, variance int) int {
	if variance == 0 {
		return swaps
	}
	pct := pr.rng.Float64() * 100
	switch {
	case pct < 10:
		return swaps + variance
	case pct < 20:
		return swaps - variance
	}
	return swaps
}

// Propose returns a key that differs from base by up to n random
// transpositions and is not in visited. A nil visited set accepts any key.
func (pr *Proposer) Propose(base Permutation, swaps int, visited *VisitedSet, variance int) (Permutation, error) {
	if swaps < 1 {
		return base, fmt.Errorf("%w: swap count %d", ErrInvalidProposal, swaps)
	}
	if variance < 0 || variance >= swaps {
		return base, fmt.Errorf("%w: variance %d with swap count %d", ErrInvalidProposal, variance, swaps)
	}
	n := pr.SwapCount(swaps, variance)

	for attempt := 0; attempt < pr.MaxAttempts; attempt++ {
		p := base
		for i := 0; i < n; i++ {
			a := pr.rng.IntN(len(p))
			b := pr.rng.IntN(len(p) - 1)
			// Two distinct positions, each uniform over the whole key.
			if b >= a {
				b++
			}
			p[a], p[b] = p[b], p[a]
		}
		if visited == nil || !visited.Contains(p) {
			return p, nil
		}
	}
	return base, fmt.Errorf("%w after %d attempts", ErrNoNovelProposal, pr.MaxAttempts)
}
