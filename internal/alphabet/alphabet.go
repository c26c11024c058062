// Package alphabet defines the fixed 27-symbol alphabet every other package
// indexes into: the space character followed by the lowercase letters.
package alphabet

import (
	"errors"
	"fmt"
)

const (
	// Symbols is the alphabet in index order. Index 0 is the space.
	Symbols = " abcdefghijklmnopqrstuvwxyz"
	// Size is the number of symbols in the alphabet.
	Size = len(Symbols)
)

// ErrInvalidSymbol means text contained a byte outside the alphabet.
var ErrInvalidSymbol = errors.New("symbol not in alphabet")

// indexOf maps a byte to its index, or -1 if the byte isn't a symbol.
var indexOf [256]int8

func init() {
	for i := range indexOf {
		indexOf[i] = -1
	}
	for i := 0; i < Size; i++ {
		indexOf[Symbols[i]] = int8(i)
	}
}

// Index returns the index of c and whether c is in the alphabet at all.
func Index(c byte) (int, bool) {
	i := indexOf[c]
	return int(i), i >= 0
}

// Symbol returns the symbol at index i. It panics if i is out of range.
func Symbol(i int) byte {
	return Symbols[i]
}

// Contains reports whether c is an alphabet symbol.
func Contains(c byte) bool {
	return indexOf[c] >= 0
}

// Indices converts s into alphabet indices.
func Indices(s string) ([]uint8, error) {
	idx := make([]uint8, len(s))
	for i := 0; i < len(s); i++ {
		n := indexOf[s[i]]
		if n < 0 {
			return nil, fmt.Errorf("%w: %q at position %d", ErrInvalidSymbol, s[i], i)
		}
		idx[i] = uint8(n)
	}
	return idx, nil
}

// Valid returns an error for the first byte of s outside the alphabet.
func Valid(s string) error {
	for i := 0; i < len(s); i++ {
		if indexOf[s[i]] < 0 {
			return fmt.Errorf("%w: %q at position %d", ErrInvalidSymbol, s[i], i)
		}
	}
	return nil
}

// Filter drops every byte of s that isn't in the alphabet.
func Filter(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if indexOf[s[i]] >= 0 {
			out = append(out, s[i])
		}
	}
	return string(out)
}
