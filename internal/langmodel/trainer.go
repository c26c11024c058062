package langmodel

import (
	"strings"
)

// Trainer folds reference documents, in order, into a single corpus.
type Trainer struct {
	sb   strings.Builder
	docs int
}

func NewTrainer() *Trainer {
	return &Trainer{}
}

// Add appends one normalized document. Empty documents are ignored.
func (t *Trainer) Add(doc string) {
	if doc == "" {
		return
	}
	t.sb.WriteString(doc)
	t.docs++
}

// Docs returns how many non-empty documents were added.
func (t *Trainer) Docs() int { return t.docs }

// Len returns the corpus length so far.
func (t *Trainer) Len() int { return t.sb.Len() }

// Corpus returns the concatenated corpus.
func (t *Trainer) Corpus() string { return t.sb.String() }

// Compile builds a Model from everything added so far.
func (t *Trainer) Compile() (*Model, error) {
	return Build(t.sb.String())
}
