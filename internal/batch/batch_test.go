package batch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"

	"github.com/domino14/cipher_breaker/internal/alphabet"
	"github.com/domino14/cipher_breaker/internal/energy"
	"github.com/domino14/cipher_breaker/internal/ingest"
	"github.com/domino14/cipher_breaker/internal/langmodel"
	"github.com/domino14/cipher_breaker/internal/permutation"
	"github.com/domino14/cipher_breaker/internal/search"
)

func testRunner(t *testing.T, parallel int) *Runner {
	m, err := langmodel.Build(strings.Repeat("the quick brown fox jumps over the lazy dog ", 20))
	require.NoError(t, err)
	cfg := search.DefaultConfig()
	cfg.EpochLimit = 500
	return &Runner{Model: m, Config: cfg, Seed: 40, Parallel: parallel}
}

func testTargets() []ingest.Target {
	key := permutation.MustParse("qwertyuiopasdfghjklzxcvbnm ")
	return []ingest.Target{
		{Name: "a.txt", Ciphertext: energy.Decode(key, "the lazy dog ")},
		{Name: "b.txt", Ciphertext: energy.Decode(key, "over the fox ")},
		{Name: "c.txt", Ciphertext: energy.Decode(key, "quick brown ")},
		{Name: "d.txt", Ciphertext: energy.Decode(key, "jumps ")},
	}
}

func TestSeedFor(t *testing.T) {
	is := is.New(t)
	is.Equal(SeedFor(10, 0), uint64(10))
	is.Equal(SeedFor(10, 3), uint64(13))
}

func TestRunIsReproducibleAcrossParallelism(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	seq, err := testRunner(t, 1).Run(ctx, testTargets())
	is.NoErr(err)
	par, err := testRunner(t, 3).Run(ctx, testTargets())
	is.NoErr(err)

	is.Equal(len(seq), 4)
	is.Equal(len(par), 4)
	for i := range seq {
		is.NoErr(seq[i].Err)
		is.Equal(seq[i].Target.Name, testTargets()[i].Name)
		is.Equal(seq[i].Seed, uint64(40+i))
		is.Equal(seq[i].Result, par[i].Result)
	}
}

func TestRunMatchesSingleDecipher(t *testing.T) {
	is := is.New(t)
	r := testRunner(t, 2)
	targets := testTargets()
	outcomes, err := r.Run(context.Background(), targets)
	is.NoErr(err)

	want, err := search.Decipher(context.Background(), r.Config, r.Model, targets[2].Ciphertext,
		search.NewRand(SeedFor(r.Seed, 2)), nil)
	is.NoErr(err)
	is.Equal(outcomes[2].Result, want)
}

func TestRunKeepsGoingPastBadTarget(t *testing.T) {
	is := is.New(t)
	targets := testTargets()
	targets[1].Ciphertext = "Not Normalized!"

	outcomes, err := testRunner(t, 2).Run(context.Background(), targets)
	is.NoErr(err)
	is.True(errors.Is(outcomes[1].Err, alphabet.ErrInvalidSymbol))
	for _, i := range []int{0, 2, 3} {
		is.NoErr(outcomes[i].Err)
		is.True(outcomes[i].Result.State != search.Running)
	}
}

func TestRunObserver(t *testing.T) {
	is := is.New(t)
	r := testRunner(t, 4)
	var mu sync.Mutex
	seen := map[string]int{}
	r.Observer = func(tg ingest.Target) search.Observer {
		return func(s search.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			if s.Accepted {
				seen[tg.Name]++
			}
		}
	}
	outcomes, err := r.Run(context.Background(), testTargets())
	is.NoErr(err)
	for _, o := range outcomes {
		is.Equal(seen[o.Target.Name], o.Result.Accepted)
	}
}

func TestRunCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcomes, err := testRunner(t, 2).Run(ctx, testTargets())
	is.True(errors.Is(err, context.Canceled))
	for _, o := range outcomes {
		is.True(errors.Is(o.Err, context.Canceled))
	}
}
