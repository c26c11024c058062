// encipher normalizes a plaintext file and encrypts it with a random
// substitution key, writing a ciphertext file decipher can read.
package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/namsral/flag"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/cipher_breaker/internal/energy"
	"github.com/domino14/cipher_breaker/internal/ingest"
	"github.com/domino14/cipher_breaker/internal/permutation"
	"github.com/domino14/cipher_breaker/internal/search"
)

type Config struct {
	in     string
	out    string
	title  string
	seed   uint64
	key    string
	header bool
}

func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSetWithEnvPrefix("encipher", "ENCIPHER", flag.ContinueOnError)
	fs.StringVar(&c.in, "in", "", "plaintext file (.txt or .pdf)")
	fs.StringVar(&c.out, "out", "", "ciphertext file to write (default: stdout)")
	fs.StringVar(&c.title, "title", "", "header written before the ciphertext (default: input stem)")
	fs.Uint64Var(&c.seed, "seed", 0, "seed for the random key (0 = random)")
	fs.StringVar(&c.key, "key", "", "use this 27-symbol key instead of a random one")
	fs.BoolVar(&c.header, "header", true, "prefix the ciphertext with a \"title:\" header")
	return fs.Parse(args)
}

// encipher encrypts normalized plaintext with key. A non-empty title is
// written first as a "title:" header. Nothing may follow the colon: the
// header strip keeps every byte after it, and a space there would become
// a ciphertext symbol.
func encipher(key permutation.Permutation, title, plaintext string) string {
	ciphertext := energy.Decode(key, plaintext)
	if title == "" {
		return ciphertext
	}
	return title + ":" + ciphertext
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	cfg := &Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("bad-arguments")
	}
	if cfg.in == "" {
		log.Fatal().Msg("-in is required")
	}
	plaintext, err := ingest.ReadFile(cfg.in, false)
	if err != nil {
		log.Fatal().Err(err).Msg("read-plaintext")
	}

	var key permutation.Permutation
	if cfg.key != "" {
		key, err = permutation.Parse(cfg.key)
		if err != nil {
			log.Fatal().Err(err).Msg("bad-key")
		}
	} else {
		if cfg.seed == 0 {
			cfg.seed = rand.Uint64()
		}
		key = permutation.Random(search.NewRand(cfg.seed))
	}

	title := ""
	if cfg.header {
		title = cfg.title
		if title == "" {
			title, _, _ = strings.Cut(filepath.Base(cfg.in), ".")
		}
	}
	out := encipher(key, title, plaintext)

	if cfg.out == "" {
		fmt.Println(out)
	} else if err := os.WriteFile(cfg.out, []byte(out), 0644); err != nil {
		log.Fatal().Err(err).Msg("write-ciphertext")
	}
	log.Info().
		Uint64("seed", cfg.seed).
		Str("key", key.String()).
		Str("decoding-key", key.Inverse().String()).
		Int("symbols", len(plaintext)).
		Msg("enciphered")
}
