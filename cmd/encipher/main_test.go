package main

import (
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/cipher_breaker/internal/energy"
	"github.com/domino14/cipher_breaker/internal/ingest"
	"github.com/domino14/cipher_breaker/internal/permutation"
	"github.com/domino14/cipher_breaker/internal/search"
)

func TestEncipherRoundTrip(t *testing.T) {
	is := is.New(t)
	plaintext := ingest.Normalize("The quick brown fox.\nJumps over: the lazy dog", false)
	for seed := uint64(1); seed <= 20; seed++ {
		key := permutation.Random(search.NewRand(seed))
		file := encipher(key, "sample", plaintext)
		is.True(strings.HasPrefix(file, "sample:"))

		ciphertext := ingest.Normalize(file, true)
		decoded := energy.Decode(key.Inverse(), ciphertext)
		// Normalize appends one space in cipher space; everything before
		// it is the plaintext, starting at the first symbol.
		is.Equal(len(decoded), len(plaintext)+1)
		is.Equal(decoded[:len(plaintext)], plaintext)
	}
}

func TestEncipherWithoutHeader(t *testing.T) {
	is := is.New(t)
	key := permutation.MustParse("qwertyuiopasdfghjklzxcvbnm ")
	file := encipher(key, "", "abc ")
	is.Equal(file, "werq")
	// With no colon to strip, the header rule keeps the whole text.
	is.Equal(ingest.Normalize(file, true), "werq ")
}
