// Package search runs the Metropolis-Hastings walk over substitution keys.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/domino14/cipher_breaker/internal/energy"
	"github.com/domino14/cipher_breaker/internal/langmodel"
	"github.com/domino14/cipher_breaker/internal/permutation"
)

// PreviewLen is how many decoded symbols a Snapshot carries.
const PreviewLen = 80

// ReportEvery is how often Run emits a progress snapshot when nothing has
// been accepted in between.
const ReportEvery = 500

type State int

const (
	Running State = iota
	Converged
	Exhausted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Snapshot is a progress report from a running chain.
type Snapshot struct {
	Epoch    int
	Accepted bool
	Preview  string
	Energy   float64
}

// Observer receives snapshots from Run. It is called on the chain's
// goroutine, so it should return quickly.
type Observer func(Snapshot)

type Result struct {
	Key       permutation.Permutation
	Plaintext string
	State     State
	Epochs    int
	Accepted  int
	Rejected  int
	Energy    float64
}

// NewRand returns a PCG-backed random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Chain is a single Metropolis chain decoding one ciphertext. It is not
// safe for concurrent use; run independent chains for independent texts.
type Chain struct {
	cfg        Config
	ciphertext string
	eval       *energy.Evaluator
	rng        *rand.Rand
	proposer   *permutation.Proposer
	visited    *permutation.VisitedSet

	current permutation.Permutation
	epoch   int
	stall   int
	state   State

	accepted int
	rejected int
}

// NewChain validates cfg and starts a chain at a uniformly random key drawn
// from rng.
func NewChain(cfg Config, model *langmodel.Model, ciphertext string, rng *rand.Rand) (*Chain, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	eval, err := energy.New(model, ciphertext, cfg.ScoreLimit)
	if err != nil {
		return nil, err
	}
	return &Chain{
		cfg:        cfg,
		ciphertext: ciphertext,
		eval:       eval,
		rng:        rng,
		proposer:   permutation.NewProposer(rng),
		visited:    permutation.NewVisitedSet(),
		current:    permutation.Random(rng),
		state:      Running,
	}, nil
}

func (c *Chain) State() State { return c.state }

func (c *Chain) Epoch() int { return c.epoch }

func (c *Chain) Current() permutation.Permutation { return c.current }

// accept is the Metropolis criterion. Improvements never consume a draw.
func accept(delta, beta float64, rng *rand.Rand) bool {
	return delta < 0 || rng.Float64() < math.Exp(-beta*delta)
}

// Step runs one epoch and reports whether the proposal was accepted. Once
// the chain has converged or exhausted its epochs, Step does nothing.
func (c *Chain) Step() (bool, error) {
	if c.state != Running {
		return false, nil
	}
	c.epoch++

	candidate, err := c.proposer.Propose(c.current, c.cfg.Swaps, c.visited, c.cfg.Variance)
	if errors.Is(err, permutation.ErrNoNovelProposal) {
		// Every neighbour of current has been tried.
		c.state = Converged
		return false, nil
	}
	if err != nil {
		return false, err
	}
	c.visited.Add(candidate)

	d := c.eval.Delta(candidate, c.current)
	accepted := accept(d, c.cfg.Beta, c.rng)
	if accepted {
		c.current = candidate
		c.visited.Clear()
		c.stall = 0
		c.accepted++
	} else {
		c.stall++
		c.rejected++
	}

	switch {
	case c.stall >= c.cfg.StallLimit:
		c.state = Converged
	case c.epoch >= c.cfg.EpochLimit:
		c.state = Exhausted
	}
	return accepted, nil
}

func (c *Chain) Snapshot(accepted bool) Snapshot {
	return Snapshot{
		Epoch:    c.epoch,
		Accepted: accepted,
		Preview:  energy.Transition(c.current, c.ciphertext, PreviewLen),
		Energy:   c.eval.Energy(c.current),
	}
}

// Result decodes the ciphertext with the current key. Metropolis keeps no
// best-ever key, so this is the last accepted one.
func (c *Chain) Result() Result {
	return Result{
		Key:       c.current,
		Plaintext: energy.Decode(c.current, c.ciphertext),
		State:     c.state,
		Epochs:    c.epoch,
		Accepted:  c.accepted,
		Rejected:  c.rejected,
		Energy:    c.eval.Energy(c.current),
	}
}

// Run steps the chain until it stops or ctx is done. observe, if not nil,
// sees every accepted move and a periodic snapshot every ReportEvery
// epochs. On cancellation the partial result comes back with ctx.Err().
func (c *Chain) Run(ctx context.Context, observe Observer) (Result, error) {
	for c.state == Running {
		if err := ctx.Err(); err != nil {
			return c.Result(), err
		}
		accepted, err := c.Step()
		if err != nil {
			return c.Result(), err
		}
		if observe != nil && (accepted || c.epoch%ReportEvery == 0) {
			observe(c.Snapshot(accepted))
		}
	}
	return c.Result(), nil
}

// Decipher is NewChain followed by Run.
func Decipher(ctx context.Context, cfg Config, model *langmodel.Model, ciphertext string,
	rng *rand.Rand, observe Observer) (Result, error) {

	c, err := NewChain(cfg, model, ciphertext, rng)
	if err != nil {
		return Result{}, err
	}
	return c.Run(ctx, observe)
}
