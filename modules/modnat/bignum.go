// Package modnat binds filippo.io/bigmod, a constant-time modular natural
// number library, to the bnfuzz operation model.
//
// bigmod only works inside a modulus, so ops that are defined as "compute
// the raw result, then reduce" compute the raw result in a wide odd modulus
// W = 2^k+1 chosen so the raw result is below W, and then reduce it into
// the real modulus with Nat.Mod. Negative values can be loaded but no op
// accepts them.
package modnat

import (
	"bytes"
	"sync"

	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
)

const name = "modnat"

// natural is the native form: a sign and a big-endian magnitude. bigmod
// Nats are always bound to a modulus, so they are built per op from this.
type natural struct {
	neg bool
	mag []byte // Big-endian, possibly with leading zero bytes.
}

func (n *natural) trimmed() []byte {
	return bytes.TrimLeft(n.mag, "\x00")
}

func (n *natural) isZero() bool { return len(n.trimmed()) == 0 }

func (n *natural) bitLen() int {
	return bnfuzz.ValueFromBinary(n.mag).BitLen()
}

func (n *natural) value() bnfuzz.Value {
	v := bnfuzz.ValueFromBinary(n.mag)
	if n.neg {
		v = v.Neg()
	}
	return v
}

var pool = sync.Pool{New: func() interface{} { return new(natural) }}

// Bignum owns a pooled natural until Release.
type Bignum struct {
	v *natural
}

var _ bnfuzz.Handle = (*Bignum)(nil)

func NewBignum() *Bignum {
	v := pool.Get().(*natural)
	v.neg, v.mag = false, v.mag[:0]
	return &Bignum{v: v}
}

func (b *Bignum) Clone() *Bignum {
	c := NewBignum()
	c.v.neg = b.v.neg
	c.v.mag = append(c.v.mag, b.v.mag...)
	return c
}

func (b *Bignum) native() *natural { return b.v }

func (b *Bignum) Release() {
	if b.v != nil {
		pool.Put(b.v)
		b.v = nil
	}
}

// Set loads v as either its minimal big-endian bytes or the same bytes
// padded with a zero limb, as the Source decides; bigmod must treat both
// the same.
func (b *Bignum) Set(src *bnfuzz.Source, v bnfuzz.Value) error {
	b.v.neg = v.Sign() < 0
	b.v.mag = b.v.mag[:0]
	if pad, _ := src.Bool(); pad {
		b.v.mag = append(b.v.mag, make([]byte, 8)...)
	}
	b.v.mag = append(b.v.mag, v.Bytes()...)
	return nil
}

func (b *Bignum) Get(src *bnfuzz.Source) (bnfuzz.Value, error) {
	return b.v.value(), nil
}

func (b *Bignum) setBytes(mag []byte) {
	b.v.neg = false
	b.v.mag = append(b.v.mag[:0], mag...)
}
