// Package batch decodes many ciphertexts against one shared language
// model.
package batch

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/cipher_breaker/internal/ingest"
	"github.com/domino14/cipher_breaker/internal/langmodel"
	"github.com/domino14/cipher_breaker/internal/search"
)

// Outcome is what one target produced. Err is set when that target
// could not be decoded; the rest of the batch is unaffected.
type Outcome struct {
	Target  ingest.Target
	Seed    uint64
	Result  search.Result
	Elapsed time.Duration
	Err     error
}

type Runner struct {
	Model  *langmodel.Model
	Config search.Config
	// Seed is the base seed; target i runs with Seed+i.
	Seed uint64
	// Parallel bounds how many chains run at once. Values below 1 mean
	// one at a time.
	Parallel int
	// Observer, if not nil, supplies the observer for each target.
	Observer func(ingest.Target) search.Observer
}

// SeedFor is the seed used for the target at index i.
func SeedFor(base uint64, i int) uint64 {
	return base + uint64(i)
}

func (r *Runner) decode(ctx context.Context, t ingest.Target, seed uint64) Outcome {
	var observe search.Observer
	if r.Observer != nil {
		observe = r.Observer(t)
	}
	start := time.Now()
	res, err := search.Decipher(ctx, r.Config, r.Model, t.Ciphertext, search.NewRand(seed), observe)
	return Outcome{Target: t, Seed: seed, Result: res, Elapsed: time.Since(start), Err: err}
}

// Run decodes every target and returns outcomes in target order. It only
// returns an error if ctx is cancelled, in which case the outcomes of
// targets that never finished carry the context error.
func (r *Runner) Run(ctx context.Context, targets []ingest.Target) ([]Outcome, error) {
	outcomes := make([]Outcome, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Parallel, 1))

	for i, t := range targets {
		seed := SeedFor(r.Seed, i)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = Outcome{Target: t, Seed: seed, Err: err}
				return err
			}
			o := r.decode(gctx, t, seed)
			outcomes[i] = o
			if errors.Is(o.Err, context.Canceled) || errors.Is(o.Err, context.DeadlineExceeded) {
				return o.Err
			}
			if o.Err != nil {
				log.Err(o.Err).Str("target", t.Name).Msg("target-failed")
				return nil
			}
			log.Debug().Str("target", t.Name).Str("state", o.Result.State.String()).
				Int("epochs", o.Result.Epochs).Dur("elapsed", o.Elapsed).Msg("target-decoded")
			return nil
		})
	}
	return outcomes, g.Wait()
}
