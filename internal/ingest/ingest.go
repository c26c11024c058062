// Package ingest turns documents on disk into normalized text over the
// cipher alphabet.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"github.com/domino14/cipher_breaker/internal/alphabet"
	"github.com/domino14/cipher_breaker/internal/langmodel"
)

var ErrUnsupportedInput = errors.New("unsupported input")

// Normalize lower-cases raw, folds newlines into spaces and drops every
// byte outside the alphabet. The result always ends in a single trailing
// space so that documents can be concatenated.
//
// With stripHeader, everything up to and including the first ':' is
// dropped (ciphertext files start with a "title:" line). Text with no ':'
// is kept whole.
func Normalize(raw string, stripHeader bool) string {
	t := strings.ToLower(raw)
	if stripHeader {
		if i := strings.IndexByte(t, ':'); i >= 0 {
			t = strings.ReplaceAll(t[i+1:], ":", " ")
		}
	}
	t = strings.ReplaceAll(t, "\n", " ")
	t = strings.ReplaceAll(t, " .", ".")
	return alphabet.Filter(t) + " "
}

// ReadFile loads and normalizes a .txt or .pdf document. PDF pages are
// normalized one at a time, so each page contributes its own trailing
// space.
func ReadFile(path string, stripHeader bool) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		bts, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return Normalize(string(bts), stripHeader), nil
	case ".pdf":
		return readPDF(path, stripHeader)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedInput, filepath.Base(path))
}

func readPDF(path string, stripHeader bool) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return "", fmt.Errorf("%w: %s: %v", ErrUnsupportedInput, filepath.Base(path), err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d of %s: %w", i, filepath.Base(path), err)
		}
		sb.WriteString(Normalize(text, stripHeader))
	}
	return sb.String(), nil
}

// listFiles returns the regular files in dir sorted by name.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadCorpus folds every readable document in dir, in name order, into one
// training corpus. A document that can't be read is logged and skipped, so
// it contributes nothing.
func LoadCorpus(dir string) (*langmodel.Trainer, error) {
	names, err := listFiles(dir)
	if err != nil {
		return nil, err
	}
	tr := langmodel.NewTrainer()
	for _, name := range names {
		text, err := ReadFile(filepath.Join(dir, name), false)
		if err != nil {
			log.Err(err).Str("file", name).Msg("corpus-document-skipped")
			continue
		}
		tr.Add(text)
		log.Debug().Str("file", name).Int("symbols", len(text)).Msg("corpus-document-loaded")
	}
	return tr, nil
}

// Target is one ciphertext waiting to be broken.
type Target struct {
	Name       string
	Ciphertext string
}

// LoadTargets reads the ciphertext files in dir. If only is not empty,
// just that file is loaded. Unreadable files are logged and skipped.
func LoadTargets(dir, only string, stripHeader bool) ([]Target, error) {
	names, err := listFiles(dir)
	if err != nil {
		return nil, err
	}
	var targets []Target
	for _, name := range names {
		if only != "" && name != only {
			continue
		}
		text, err := ReadFile(filepath.Join(dir, name), stripHeader)
		if err != nil {
			log.Err(err).Str("file", name).Msg("target-skipped")
			continue
		}
		targets = append(targets, Target{Name: name, Ciphertext: text})
	}
	if only != "" && len(targets) == 0 {
		return nil, fmt.Errorf("%s was not found in %s", only, dir)
	}
	return targets, nil
}
