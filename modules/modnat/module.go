package modnat

import (
	"bytes"
	"math/big"

	"filippo.io/bigmod"
	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
)

type (
	cluster = bnfuzz.Cluster[*natural]
	opFunc  = func(ds *bnfuzz.Source, res *Bignum, bn *cluster) error
)

var big1 = big.NewInt(1)

// Module is the bigmod module.
type Module struct{}

var _ bnfuzz.Module = Module{}

func (Module) Name() string { return name }

func (Module) Supports(op bnfuzz.Op) bool { return lookup(op) != nil }

func (Module) Run(src *bnfuzz.Source, op bnfuzz.Op, operands [bnfuzz.ClusterSize]bnfuzz.Value) (bnfuzz.Value, error) {
	fn := lookup(op)
	if fn == nil {
		return bnfuzz.Value{}, bnfuzz.Unsupported(name, op)
	}
	return bnfuzz.Execute(src, operands, NewBignum, (*Bignum).native, equal, fn)
}

func equal(a, b *natural) bool {
	return a.neg == b.neg && bytes.Equal(a.trimmed(), b.trimmed())
}

func lookup(op bnfuzz.Op) opFunc {
	// NEWOP: add a handler here if bigmod can express it.
	switch op {
	case bnfuzz.OpExpMod:
		return opExpMod
	case bnfuzz.OpMulMod:
		return opMulMod
	case bnfuzz.OpAddMod:
		return opAddMod
	case bnfuzz.OpSubMod:
		return opSubMod
	case bnfuzz.OpSqrMod:
		return opSqrMod
	case bnfuzz.OpMod:
		return opMod
	case bnfuzz.OpSet:
		return opSet
	}
	return nil
}

func native(call string, err error) error {
	return &bnfuzz.NativeError{Module: name, Call: call, Err: err}
}

// modulus builds the op's modulus. bigmod's Montgomery arithmetic needs it
// odd, and 1 is excluded as degenerate.
func modulus(op string, m *natural) (*bigmod.Modulus, error) {
	if m.neg || m.isZero() {
		return nil, bnfuzz.Inapplicable("%s: non-positive modulus", op)
	}
	mb := new(big.Int).SetBytes(m.mag)
	if mb.Bit(0) == 0 || mb.Cmp(big1) == 0 {
		return nil, bnfuzz.Inapplicable("%s: modulus must be odd and > 1", op)
	}
	mod, err := bigmod.NewModulusFromBig(mb)
	if err != nil {
		return nil, native("NewModulusFromBig", err)
	}
	return mod, nil
}

// wide returns W = 2^k+1 for k >= bits, rounded up to whole bytes. Any
// value of at most k bits, including leading zero bytes, loads into W.
func wide(bits int) (*bigmod.Modulus, error) {
	if bits < 8 {
		bits = 8
	}
	bits = (bits + 7) / 8 * 8
	w := new(big.Int).Lsh(big1, uint(bits))
	w.Add(w, big1)
	mod, err := bigmod.NewModulusFromBig(w)
	if err != nil {
		return nil, native("NewModulusFromBig", err)
	}
	return mod, nil
}

func load(x *natural, m *bigmod.Modulus) (*bigmod.Nat, error) {
	n, err := bigmod.NewNat().SetBytes(x.mag, m)
	if err != nil {
		return nil, native("Nat.SetBytes", err)
	}
	return n, nil
}

func nonNegative(op string, xs ...*natural) error {
	for _, x := range xs {
		if x.neg {
			return bnfuzz.Inapplicable("%s: negative operand", op)
		}
	}
	return nil
}

// raw computes a binary op exactly in a wide modulus of the given size,
// then reduces the result into m.
func raw(res *Bignum, a, b *natural, bits int, m *bigmod.Modulus, fn func(x, y *bigmod.Nat, w *bigmod.Modulus)) error {
	w, err := wide(bits)
	if err != nil {
		return err
	}
	x, err := load(a, w)
	if err != nil {
		return err
	}
	y, err := load(b, w)
	if err != nil {
		return err
	}
	fn(x, y, w)
	res.setBytes(bigmod.NewNat().Mod(x, m).Bytes(m))
	return nil
}

func opExpMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, e, m := bn.At(0), bn.At(1), bn.At(2)
	if err := nonNegative("expmod", a, e); err != nil {
		return err
	}
	mod, err := modulus("expmod", m)
	if err != nil {
		return err
	}
	w, err := wide(len(a.mag) * 8)
	if err != nil {
		return err
	}
	x, err := load(a, w)
	if err != nil {
		return err
	}
	base := bigmod.NewNat().Mod(x, mod)
	res.setBytes(bigmod.NewNat().Exp(base, e.trimmed(), mod).Bytes(mod))
	return nil
}

func opMulMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := bn.At(0), bn.At(1), bn.At(2)
	if err := nonNegative("mulmod", a, b); err != nil {
		return err
	}
	mod, err := modulus("mulmod", m)
	if err != nil {
		return err
	}
	bits := 8 * (len(a.mag) + len(b.mag))
	return raw(res, a, b, bits, mod, func(x, y *bigmod.Nat, w *bigmod.Modulus) {
		x.Mul(y, w)
	})
}

func opAddMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := bn.At(0), bn.At(1), bn.At(2)
	if err := nonNegative("addmod", a, b); err != nil {
		return err
	}
	mod, err := modulus("addmod", m)
	if err != nil {
		return err
	}
	bits := 8*maxInt(len(a.mag), len(b.mag)) + 1
	return raw(res, a, b, bits, mod, func(x, y *bigmod.Nat, w *bigmod.Modulus) {
		x.Add(y, w)
	})
}

func opSubMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := bn.At(0), bn.At(1), bn.At(2)
	if err := nonNegative("submod", a, b); err != nil {
		return err
	}
	if bnfuzz.ValueFromBinary(a.mag).Cmp(bnfuzz.ValueFromBinary(b.mag)) < 0 {
		return bnfuzz.Inapplicable("submod: negative raw difference")
	}
	mod, err := modulus("submod", m)
	if err != nil {
		return err
	}
	bits := 8 * maxInt(len(a.mag), len(b.mag))
	return raw(res, a, b, bits, mod, func(x, y *bigmod.Nat, w *bigmod.Modulus) {
		x.Sub(y, w)
	})
}

func opSqrMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, m := bn.At(0), bn.At(1)
	if err := nonNegative("sqrmod", a); err != nil {
		return err
	}
	mod, err := modulus("sqrmod", m)
	if err != nil {
		return err
	}
	// A second Nat holds the same value; bigmod does not document Mul with
	// the receiver as its own argument.
	return raw(res, a, a, 16*len(a.mag), mod, func(x, y *bigmod.Nat, w *bigmod.Modulus) {
		x.Mul(y, w)
	})
}

func opMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, m := bn.At(0), bn.At(1)
	if err := nonNegative("mod", a); err != nil {
		return err
	}
	mod, err := modulus("mod", m)
	if err != nil {
		return err
	}
	w, err := wide(len(a.mag) * 8)
	if err != nil {
		return err
	}
	x, err := load(a, w)
	if err != nil {
		return err
	}
	res.setBytes(bigmod.NewNat().Mod(x, mod).Bytes(mod))
	return nil
}

func opSet(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	res.v.neg = a.neg
	res.v.mag = append(res.v.mag[:0], a.mag...)
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
