package search

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestValidate(t *testing.T) {
	is := is.New(t)
	is.NoErr(DefaultConfig().Validate())

	for _, mutate := range []func(*Config){
		func(c *Config) { c.Beta = 0 },
		func(c *Config) { c.Beta = -1 },
		func(c *Config) { c.Swaps = 0 },
		func(c *Config) { c.Variance = -1 },
		func(c *Config) { c.Variance = c.Swaps },
		func(c *Config) { c.ScoreLimit = -5 },
		func(c *Config) { c.StallLimit = 0 },
		func(c *Config) { c.EpochLimit = 0 },
	} {
		cfg := DefaultConfig()
		mutate(&cfg)
		err := cfg.Validate()
		is.True(errors.Is(err, ErrInvalidConfig))
	}

	cfg := DefaultConfig()
	cfg.Swaps = 3
	cfg.Variance = 2
	is.NoErr(cfg.Validate())
}
