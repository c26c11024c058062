// Package results records what each decipher run produced, both as
// decoded text files and as rows in a sqlite run history.
package results

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/domino14/cipher_breaker/internal/search"
)

//go:embed migrations/*.sql
var migrations embed.FS

type nower interface {
	Now() time.Time
}

type RealNower struct{}

func (r RealNower) Now() time.Time {
	return time.Now()
}

// Record is one finished run against one ciphertext.
type Record struct {
	ID        string
	Target    string
	Seed      uint64
	Key       string
	State     string
	Epochs    int
	Accepted  int
	Rejected  int
	Energy    float64
	Config    search.Config
	Plaintext string
	CreatedAt time.Time
}

// NewRecord fills a Record from a search result.
func NewRecord(target string, seed uint64, cfg search.Config, res search.Result) Record {
	return Record{
		Target:    target,
		Seed:      seed,
		Key:       res.Key.String(),
		State:     res.State.String(),
		Epochs:    res.Epochs,
		Accepted:  res.Accepted,
		Rejected:  res.Rejected,
		Energy:    res.Energy,
		Config:    cfg,
		Plaintext: res.Plaintext,
	}
}

type Store struct {
	db    *sql.DB
	Nower nower
}

func migrateUp(path string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+path)
	if err != nil {
		return fmt.Errorf("on-new: %w", err)
	}
	defer func() {
		e1, e2 := m.Close()
		if e1 != nil || e2 != nil {
			log.Warn().AnErr("source", e1).AnErr("database", e2).Msg("migrate-close")
		}
	}()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("on-up: %w", err)
	}
	return nil
}

// Open migrates the sqlite database at path to the latest schema and
// returns a Store on it.
func Open(path string) (*Store, error) {
	if err := migrateUp(path); err != nil {
		return nil, fmt.Errorf("migrating %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	return &Store{db: db, Nower: RealNower{}}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts rec, assigning an ID and timestamp if it has none, and
// returns the stored record.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.Nower.Now().UTC()
	}
	cfg, err := json.Marshal(rec.Config)
	if err != nil {
		return rec, err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO runs (id, target, seed, key, state, epochs, accepted, rejected,
            energy, config, plaintext, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Target, int64(rec.Seed), rec.Key, rec.State, rec.Epochs, rec.Accepted,
		rec.Rejected, rec.Energy, string(cfg), rec.Plaintext, rec.CreatedAt)
	if err != nil {
		return rec, fmt.Errorf("failed to insert run: %w", err)
	}
	return rec, nil
}

// Runs lists the history for one target, newest first.
func (s *Store) Runs(ctx context.Context, target string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, target, seed, key, state, epochs, accepted, rejected,
            energy, config, plaintext, created_at
        FROM runs
        WHERE target = ?
        ORDER BY created_at DESC, rowid DESC`, target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var (
			rec  Record
			seed int64
			cfg  string
		)
		if err := rows.Scan(&rec.ID, &rec.Target, &seed, &rec.Key, &rec.State, &rec.Epochs,
			&rec.Accepted, &rec.Rejected, &rec.Energy, &cfg, &rec.Plaintext, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Seed = uint64(seed)
		if err := json.Unmarshal([]byte(cfg), &rec.Config); err != nil {
			return nil, fmt.Errorf("run %s: bad config: %w", rec.ID, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
