// Package mathbig binds the standard library's math/big to the bnfuzz
// operation model. It is the reference module.
package mathbig

import (
	"math/big"
	"sync"

	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
)

const name = "mathbig"

var pool = sync.Pool{New: func() interface{} { return new(big.Int) }}

// Bignum owns a pooled big.Int until Release.
type Bignum struct {
	v *big.Int
}

var _ bnfuzz.Handle = (*Bignum)(nil)

func NewBignum() *Bignum {
	v := pool.Get().(*big.Int)
	v.SetInt64(0)
	return &Bignum{v: v}
}

// Clone returns a deep copy of b.
func (b *Bignum) Clone() *Bignum {
	c := NewBignum()
	c.v.Set(b.v)
	return c
}

// Native returns the borrowed big.Int. It is invalid after Release.
func (b *Bignum) Native() *big.Int { return b.v }

func (b *Bignum) Release() {
	if b.v != nil {
		pool.Put(b.v)
		b.v = nil
	}
}

// Set loads v as hex or decimal text, as the Source decides.
func (b *Bignum) Set(src *bnfuzz.Source, v bnfuzz.Value) error {
	base, text := 10, v.String()
	if hex, _ := src.Bool(); hex {
		base, text = 16, v.Hex()
	}
	if _, ok := b.v.SetString(text, base); !ok {
		return &bnfuzz.ParseError{Input: text, Base: base, Module: name}
	}
	return nil
}

// Get formats b as hex or decimal text, as the Source decides, and reads
// it back as a Value.
func (b *Bignum) Get(src *bnfuzz.Source) (bnfuzz.Value, error) {
	if hex, _ := src.Bool(); hex {
		return bnfuzz.ParseValueText(b.v.Text(16), 16)
	}
	return bnfuzz.ParseValue(b.v.String())
}

// Uint64 returns b if it is non-negative and fits in a uint64.
func (b *Bignum) Uint64() (uint64, bool) { return uint64Of(b.v) }

func uint64Of(x *big.Int) (uint64, bool) {
	if x.Sign() < 0 || !x.IsUint64() {
		return 0, false
	}
	return x.Uint64(), true
}

func uint32Of(x *big.Int) (uint32, bool) {
	u, ok := uint64Of(x)
	if !ok {
		return 0, false
	}
	return bnfuzz.Narrow[uint32](u)
}

func int64Of(x *big.Int) (int64, bool) {
	if !x.IsInt64() {
		return 0, false
	}
	return x.Int64(), true
}
