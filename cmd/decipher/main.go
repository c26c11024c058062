// decipher trains a bigram model on a directory of reference text and
// breaks every substitution ciphertext in another directory.
package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/namsral/flag"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/cipher_breaker/config"
	"github.com/domino14/cipher_breaker/internal/batch"
	"github.com/domino14/cipher_breaker/internal/display"
	"github.com/domino14/cipher_breaker/internal/ingest"
	"github.com/domino14/cipher_breaker/internal/langmodel"
	"github.com/domino14/cipher_breaker/internal/results"
	"github.com/domino14/cipher_breaker/internal/search"
)

func setupLogging(cfg *config.Config) {
	if cfg.PrettyLog {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load(".env")

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("bad-arguments")
	}
	setupLogging(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid-config")
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}
	log.Info().Interface("config", cfg).Msg("decipher-started")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("got quit signal...")
			return
		}
		log.Fatal().Err(err).Msg("decipher-failed")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log.Info().Str("dir", cfg.TextDir).Msg("building-language-model")
	tr, err := ingest.LoadCorpus(cfg.TextDir)
	if err != nil {
		return err
	}
	model, err := tr.Compile()
	if err != nil {
		return err
	}
	log.Info().Int("docs", tr.Docs()).Int("symbols", model.CorpusLen()).Msg("language-model-built")

	targets, err := ingest.LoadTargets(cfg.EncodedDir, cfg.Only, cfg.StripHeader)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		log.Warn().Str("dir", cfg.EncodedDir).Msg("no-targets")
		return nil
	}

	var store *results.Store
	if cfg.DBPath != "" {
		store, err = results.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	var outcomes []batch.Outcome
	if cfg.Interactive {
		outcomes, err = decodeInteractive(ctx, cfg, model, targets)
	} else {
		outcomes, err = decodeBatch(ctx, cfg, model, targets)
	}
	for _, o := range outcomes {
		report(ctx, cfg, store, o)
	}
	return err
}

func decodeBatch(ctx context.Context, cfg *config.Config, model *langmodel.Model,
	targets []ingest.Target) ([]batch.Outcome, error) {

	r := &batch.Runner{
		Model:    model,
		Config:   cfg.Search,
		Seed:     cfg.Seed,
		Parallel: cfg.Parallel,
	}
	if cfg.Verbose {
		r.Observer = func(t ingest.Target) search.Observer {
			return func(s search.Snapshot) {
				if !s.Accepted {
					return
				}
				log.Info().Str("target", t.Name).Int("epoch", s.Epoch).
					Float64("energy", s.Energy).Str("preview", s.Preview).Msg("accepted")
			}
		}
	}
	return r.Run(ctx, targets)
}

// decodeInteractive runs one target at a time behind the progress
// display. It stops at the first cancellation.
func decodeInteractive(ctx context.Context, cfg *config.Config, model *langmodel.Model,
	targets []ingest.Target) ([]batch.Outcome, error) {

	var outcomes []batch.Outcome
	for i, t := range targets {
		seed := batch.SeedFor(cfg.Seed, i)
		start := time.Now()
		res, err := display.Run(ctx, t.Name, cfg.Search.EpochLimit, cfg.Pause,
			func(ctx context.Context, observe search.Observer) (search.Result, error) {
				return search.Decipher(ctx, cfg.Search, model, t.Ciphertext, search.NewRand(seed), observe)
			})
		outcomes = append(outcomes, batch.Outcome{
			Target: t, Seed: seed, Result: res, Elapsed: time.Since(start), Err: err})
		if errors.Is(err, context.Canceled) {
			return outcomes, err
		}
	}
	return outcomes, nil
}

func report(ctx context.Context, cfg *config.Config, store *results.Store, o batch.Outcome) {
	if o.Err != nil {
		log.Err(o.Err).Str("target", o.Target.Name).Msg("not-decoded")
		return
	}
	res := o.Result
	preview := res.Plaintext
	if len(preview) > search.PreviewLen {
		preview = preview[:search.PreviewLen]
	}
	log.Info().
		Str("target", o.Target.Name).
		Str("key", res.Key.String()).
		Str("state", res.State.String()).
		Int("epochs", res.Epochs).
		Float64("energy", res.Energy).
		Uint64("seed", o.Seed).
		Dur("elapsed", o.Elapsed).
		Str("preview", preview).
		Msg("decoded")

	if cfg.Save {
		path, err := results.WriteDecoded(cfg.DecodedDir, o.Target.Name, res.Plaintext)
		if err != nil {
			log.Err(err).Str("target", o.Target.Name).Msg("write-decoded-failed")
		} else {
			log.Debug().Str("path", path).Msg("decoded-written")
		}
	}
	if store != nil {
		// Record the run even if the process is shutting down.
		rec, err := store.Save(context.WithoutCancel(ctx), results.NewRecord(o.Target.Name, o.Seed, cfg.Search, res))
		if err != nil {
			log.Err(err).Str("target", o.Target.Name).Msg("store-run-failed")
		} else {
			log.Debug().Str("id", rec.ID).Msg("run-stored")
		}
	}
}
