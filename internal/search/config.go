package search

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid search config")

// Config holds the tunables of one Metropolis run.
type Config struct {
	// Beta is the inverse temperature. Higher is greedier.
	Beta float64 `json:"beta"`
	// Swaps is how many transpositions make up one proposal.
	Swaps int `json:"swaps"`
	// Variance widens or narrows Swaps on 10% of proposals each.
	Variance int `json:"variance"`
	// ScoreLimit caps how many ciphertext symbols are scored; 0 scores
	// the whole text.
	ScoreLimit int `json:"score_limit"`
	StallLimit int `json:"stall_limit"`
	EpochLimit int `json:"epoch_limit"`
}

func DefaultConfig() Config {
	return Config{
		Beta:       0.63,
		Swaps:      2,
		Variance:   0,
		ScoreLimit: 0,
		StallLimit: 2000,
		EpochLimit: 25000,
	}
}

func (c Config) Validate() error {
	switch {
	case !(c.Beta > 0):
		return fmt.Errorf("%w: beta must be positive, got %v", ErrInvalidConfig, c.Beta)
	case c.Swaps < 1:
		return fmt.Errorf("%w: swaps must be at least 1, got %d", ErrInvalidConfig, c.Swaps)
	case c.Variance < 0 || c.Variance >= c.Swaps:
		return fmt.Errorf("%w: variance must be in [0, %d), got %d", ErrInvalidConfig, c.Swaps, c.Variance)
	case c.ScoreLimit < 0:
		return fmt.Errorf("%w: score limit must not be negative, got %d", ErrInvalidConfig, c.ScoreLimit)
	case c.StallLimit < 1:
		return fmt.Errorf("%w: stall limit must be at least 1, got %d", ErrInvalidConfig, c.StallLimit)
	case c.EpochLimit < 1:
		return fmt.Errorf("%w: epoch limit must be at least 1, got %d", ErrInvalidConfig, c.EpochLimit)
	}
	return nil
}
