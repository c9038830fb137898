// Package apdbig binds the BigInt type of github.com/cockroachdb/apd/v3 to
// the bnfuzz operation model. apd's BigInt reimplements the big.Int API
// with an inline small-value representation, so it is differentially
// tested against math/big op for op.
package apdbig

import (
	"sync"

	"github.com/cockroachdb/apd/v3"
	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
)

const name = "apdbig"

var pool = sync.Pool{New: func() interface{} { return new(apd.BigInt) }}

// Bignum owns a pooled apd.BigInt until Release.
type Bignum struct {
	v *apd.BigInt
}

var _ bnfuzz.Handle = (*Bignum)(nil)

func NewBignum() *Bignum {
	v := pool.Get().(*apd.BigInt)
	v.SetInt64(0)
	return &Bignum{v: v}
}

func (b *Bignum) Clone() *Bignum {
	c := NewBignum()
	c.v.Set(b.v)
	return c
}

func (b *Bignum) Native() *apd.BigInt { return b.v }

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
	if _, ok := b.v.SetString(text, base); !ok {
		return &bnfuzz.ParseError{Input: text, Base: base, Module: name}
	}
	return nil
}

func (b *Bignum) Get(src *bnfuzz.Source) (bnfuzz.Value, error) {
	if hex, _ := src.Bool(); hex {
		return bnfuzz.ParseValueText(b.v.Text(16), 16)
	}
	return bnfuzz.ParseValue(b.v.String())
}

func (b *Bignum) Uint64() (uint64, bool) { return uint64Of(b.v) }

func uint64Of(x *apd.BigInt) (uint64, bool) {
	if x.Sign() < 0 || !x.IsUint64() {
		return 0, false
	}
	return x.Uint64(), true
}

func uint32Of(x *apd.BigInt) (uint32, bool) {
	u, ok := uint64Of(x)
	if !ok {
		return 0, false
	}
	return bnfuzz.Narrow[uint32](u)
}

func int64Of(x *apd.BigInt) (int64, bool) {
	if !x.IsInt64() {
		return 0, false
	}
	return x.Int64(), true
}
