package alphabet

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestIndexRoundTrip(t *testing.T) {
	is := is.New(t)
	is.Equal(Size, 27)
	for i := 0; i < Size; i++ {
		idx, ok := Index(Symbol(i))
		is.True(ok)
		is.Equal(idx, i)
	}
	idx, ok := Index(' ')
	is.True(ok)
	is.Equal(idx, 0)
}

func TestNotInAlphabet(t *testing.T) {
	is := is.New(t)
	for _, c := range []byte{'A', 'Z', '.', '\n', ':', '0', 0xff} {
		_, ok := Index(c)
		is.True(!ok)
		is.True(!Contains(c))
	}
}

func TestIndices(t *testing.T) {
	is := is.New(t)
	idx, err := Indices("ab z")
	is.NoErr(err)
	is.Equal(idx, []uint8{1, 2, 0, 26})

	_, err = Indices("abC")
	is.True(errors.Is(err, ErrInvalidSymbol))
	is.True(errors.Is(Valid("hello, world"), ErrInvalidSymbol))
	is.NoErr(Valid("hello world"))
}

func TestFilter(t *testing.T) {
	is := is.New(t)
	is.Equal(Filter("it's 4 o'clock, Bob!"), "its  oclock ob")
}
