// Package u256 binds github.com/holiman/uint256, a fixed-width 256-bit
// unsigned integer, to the bnfuzz operation model. Values outside
// [0, 2^256) cannot be loaded, and any result that would leave that range
// fails instead of wrapping.
package u256

import (
	"strings"
	"sync"

	"github.com/holiman/uint256"
	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
)

const (
	name = "u256"
	bits = 256
)

var pool = sync.Pool{New: func() interface{} { return new(uint256.Int) }}

// Bignum owns a pooled uint256.Int until Release. neg is only set by ops
// whose result is a sign, like Cmp; the library itself has no sign.
type Bignum struct {
	v   *uint256.Int
	neg bool
}

var _ bnfuzz.Handle = (*Bignum)(nil)

func NewBignum() *Bignum {
	v := pool.Get().(*uint256.Int)
	v.Clear()
	return &Bignum{v: v}
}

func (b *Bignum) Clone() *Bignum {
	c := NewBignum()
	c.v.Set(b.v)
	c.neg = b.neg
	return c
}

func (b *Bignum) Native() *uint256.Int { return b.v }

func (b *Bignum) Release() {
	if b.v != nil {
		pool.Put(b.v)
		b.v = nil
	}
}

func (b *Bignum) Set(src *bnfuzz.Source, v bnfuzz.Value) error {
	if v.Sign() < 0 || v.BitLen() > bits {
		return &bnfuzz.OverflowError{Bits: v.BitLen(), Target: "uint256"}
	}
	b.neg = false

	hex, _ := src.Bool()
	if hex {
		text := "0x" + v.Hex()
		if err := b.v.SetFromHex(text); err != nil {
			return &bnfuzz.ParseError{Input: text, Base: 16, Module: name}
		}
		return nil
	}
	if err := b.v.SetFromDecimal(v.String()); err != nil {
		return &bnfuzz.ParseError{Input: v.String(), Base: 10, Module: name}
	}
	return nil
}

func (b *Bignum) Get(src *bnfuzz.Source) (out bnfuzz.Value, err error) {
	if hex, _ := src.Bool(); hex {
		out, err = bnfuzz.ParseValueText(strings.TrimPrefix(b.v.Hex(), "0x"), 16)
	} else {
		out, err = bnfuzz.ParseValue(b.v.Dec())
	}
	if b.neg {
		out = out.Neg()
	}
	return out, err
}

// setSign stores a comparison result.
func (b *Bignum) setSign(c int) {
	b.neg = c < 0
	if c == 0 {
		b.v.Clear()
	} else {
		b.v.SetOne()
	}
}

func (b *Bignum) setFlag(f bool) {
	b.neg = false
	b.v.SetUint64(uint64(bnfuzz.Flag(f)))
}

func uint64Of(x *uint256.Int) (uint64, bool) {
	if !x.IsUint64() {
		return 0, false
	}
	return x.Uint64(), true
}

func uint32Of(x *uint256.Int) (uint32, bool) {
	u, ok := uint64Of(x)
	if !ok {
		return 0, false
	}
	return bnfuzz.Narrow[uint32](u)
}
