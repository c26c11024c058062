package config

import (
	"errors"
	"fmt"

	"github.com/namsral/flag"

	"github.com/domino14/cipher_breaker/internal/search"
)

type Config struct {
	TextDir    string
	EncodedDir string
	DecodedDir string
	Only       string
	// StripHeader drops each ciphertext file's leading "title:" header.
	StripHeader bool
	Save        bool
	DBPath      string

	Search search.Config
	// Seed 0 means pick one at random; the chosen seed is logged.
	Seed     uint64
	Parallel int

	Interactive bool
	Pause       bool
	Verbose     bool

	PrettyLog bool
	LogLevel  string
}

// Load loads the configs from the given arguments. Every flag can also be
// set through a DECIPHER_-prefixed environment variable or a -config file.
func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSetWithEnvPrefix("decipher", "DECIPHER", flag.ContinueOnError)
	fs.String(flag.DefaultConfigFlagname, "", "path to a key/value config file")

	fs.StringVar(&c.TextDir, "text-dir", "./text_data", "directory of reference documents (.txt, .pdf)")
	fs.StringVar(&c.EncodedDir, "encoded-dir", "./encoded_text", "directory of ciphertext files")
	fs.StringVar(&c.DecodedDir, "decoded-dir", "./decoded_text", "where decoded text is written")
	fs.StringVar(&c.Only, "only", "", "decode only this file from the encoded dir")
	fs.BoolVar(&c.StripHeader, "strip-header", true, "drop everything up to the first ':' of each ciphertext")
	fs.BoolVar(&c.Save, "save", true, "write <name>_decoded.txt for every target")
	fs.StringVar(&c.DBPath, "db", "", "sqlite file to record run history in (empty disables)")

	def := search.DefaultConfig()
	fs.Float64Var(&c.Search.Beta, "beta", def.Beta, "inverse temperature; higher is greedier")
	fs.IntVar(&c.Search.Swaps, "swaps", def.Swaps, "transpositions per proposal")
	fs.IntVar(&c.Search.Variance, "variance", def.Variance, "swap count variance, applied to 20% of proposals")
	fs.IntVar(&c.Search.ScoreLimit, "score-limit", def.ScoreLimit, "score only this many ciphertext symbols (0 = all)")
	fs.IntVar(&c.Search.StallLimit, "stall-limit", def.StallLimit, "consecutive rejections before convergence")
	fs.IntVar(&c.Search.EpochLimit, "epoch-limit", def.EpochLimit, "maximum epochs per target")
	fs.Uint64Var(&c.Seed, "seed", 0, "base random seed (0 = random)")
	fs.IntVar(&c.Parallel, "parallel", 1, "targets decoded at once")

	fs.BoolVar(&c.Interactive, "interactive", false, "show a progress display for each target")
	fs.BoolVar(&c.Pause, "pause", true, "with -interactive, wait for a key after each target")
	fs.BoolVar(&c.Verbose, "verbose", false, "log every accepted move")

	fs.BoolVar(&c.PrettyLog, "pretty-log", true, "human-readable console logging")
	fs.StringVar(&c.LogLevel, "log-level", "info", "log level")
	return fs.Parse(args)
}

func (c *Config) Validate() error {
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}
	if c.TextDir == "" || c.EncodedDir == "" {
		return errors.New("text-dir and encoded-dir are required")
	}
	if c.Save && c.DecodedDir == "" {
		return errors.New("decoded-dir is required with -save")
	}
	return nil
}
