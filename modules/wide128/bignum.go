// Package wide128 binds the repository's own signed 128-bit integer
// (internal/wide) to the bnfuzz operation model. All arithmetic is checked:
// a result outside the int128 range fails rather than wrapping.
package wide128

import (
	"sync"

	"github.com/cockroachdb/errors"
	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
	"github.com/shabbyrobe/go-bnfuzz/internal/wide"
)

const name = "wide128"

var pool = sync.Pool{New: func() interface{} { return new(wide.I128) }}

// Bignum owns a pooled wide.I128 until Release.
type Bignum struct {
	v *wide.I128
}

var _ bnfuzz.Handle = (*Bignum)(nil)

func NewBignum() *Bignum {
	v := pool.Get().(*wide.I128)
	*v = wide.I128{}
	return &Bignum{v: v}
}

func (b *Bignum) Clone() *Bignum {
	c := NewBignum()
	*c.v = *b.v
	return c
}

func (b *Bignum) Native() *wide.I128 { return b.v }

func (b *Bignum) Release() {
	if b.v != nil {
		pool.Put(b.v)
		b.v = nil
	}
}

func (b *Bignum) Set(src *bnfuzz.Source, v bnfuzz.Value) error {
	base, text := 10, v.String()
	if hex, _ := src.Bool(); hex {
		base, text = 16, v.Hex()
	}
	i, err := wide.ParseI128(text, base)
	if errors.Is(err, wide.ErrRange) {
		return &bnfuzz.OverflowError{Bits: v.BitLen(), Target: "int128"}
	} else if err != nil {
		return &bnfuzz.ParseError{Input: text, Base: base, Module: name}
	}
	*b.v = i
	return nil
}

func (b *Bignum) Get(src *bnfuzz.Source) (bnfuzz.Value, error) {
	if hex, _ := src.Bool(); hex {
		return bnfuzz.ParseValueText(b.v.Text(16), 16)
	}
	return bnfuzz.ParseValue(b.v.String())
}

func uint32Of(x wide.I128) (uint32, bool) {
	if !x.IsUint64() {
		return 0, false
	}
	return bnfuzz.Narrow[uint32](x.AsUint64())
}

func overflow(op string) error {
	return &bnfuzz.OverflowError{Bits: 128, Target: "int128 " + op}
}
