package permutation

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func differingPositions(a, b Permutation) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}

func TestProposeIsPermutation(t *testing.T) {
	is := is.New(t)
	pr := NewProposer(testRand(1))
	base := Random(testRand(2))
	for i := 0; i < 2000; i++ {
		p, err := pr.Propose(base, 3, nil, 1)
		is.NoErr(err)
		is.True(p.Valid())
		// At most 4 transpositions touch at most 8 positions.
		is.True(differingPositions(base, p) <= 8)
	}
}

func TestProposeSingleSwap(t *testing.T) {
	is := is.New(t)
	pr := NewProposer(testRand(4))
	base := Identity()
	for i := 0; i < 500; i++ {
		p, err := pr.Propose(base, 1, nil, 0)
		is.NoErr(err)
		// Positions are always distinct, so one swap changes exactly two.
		is.Equal(differingPositions(base, p), 2)
	}
}

func TestProposeSkipsVisited(t *testing.T) {
	is := is.New(t)
	pr := NewProposer(testRand(5))
	base := Identity()
	visited := NewVisitedSet()
	// A single swap has only 351 possible outcomes; walk through all of them.
	for i := 0; i < 351; i++ {
		p, err := pr.Propose(base, 1, visited, 0)
		is.NoErr(err)
		is.True(!visited.Contains(p))
		visited.Add(p)
	}
	is.Equal(visited.Len(), 351)

	pr.MaxAttempts = 5000
	_, err := pr.Propose(base, 1, visited, 0)
	is.True(errors.Is(err, ErrNoNovelProposal))
}

func TestProposeInvalid(t *testing.T) {
	is := is.New(t)
	pr := NewProposer(testRand(6))
	_, err := pr.Propose(Identity(), 0, nil, 0)
	is.True(errors.Is(err, ErrInvalidProposal))
	_, err = pr.Propose(Identity(), 2, nil, -1)
	is.True(errors.Is(err, ErrInvalidProposal))
	// swaps-variance would be zero swaps, returning base unchanged.
	for i := 0; i < 50; i++ {
		_, err = pr.Propose(Identity(), 2, nil, 2)
		is.True(errors.Is(err, ErrInvalidProposal))
	}
	_, err = pr.Propose(Identity(), 1, nil, 3)
	is.True(errors.Is(err, ErrInvalidProposal))
}

func TestSwapCountVariance(t *testing.T) {
	is := is.New(t)
	pr := NewProposer(testRand(7))
	is.Equal(pr.SwapCount(3, 0), 3)

	counts := map[int]int{}
	const trials = 100000
	for i := 0; i < trials; i++ {
		counts[pr.SwapCount(3, 2)]++
	}
	is.Equal(len(counts), 3)
	frac := func(n int) float64 { return float64(counts[n]) / trials }
	is.True(frac(5) > 0.09 && frac(5) < 0.11)
	is.True(frac(1) > 0.09 && frac(1) < 0.11)
	is.True(frac(3) > 0.79 && frac(3) < 0.81)
}
