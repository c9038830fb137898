package wide128

import (
	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
	"github.com/shabbyrobe/go-bnfuzz/internal/wide"
)

type (
	cluster = bnfuzz.Cluster[*wide.I128]
	opFunc  = func(ds *bnfuzz.Source, res *Bignum, bn *cluster) error
)

var (
	zero   = wide.I128{}
	one    = wide.I128From64(1)
	negOne = wide.I128From64(-1)
)

// Module is the int128 module.
type Module struct{}

var _ bnfuzz.Module = Module{}

func (Module) Name() string { return name }

func (Module) Supports(op bnfuzz.Op) bool { return lookup(op) != nil }

func (Module) Run(src *bnfuzz.Source, op bnfuzz.Op, operands [bnfuzz.ClusterSize]bnfuzz.Value) (bnfuzz.Value, error) {
	fn := lookup(op)
	if fn == nil {
		return bnfuzz.Value{}, bnfuzz.Unsupported(name, op)
	}
	return bnfuzz.Execute(src, operands, NewBignum, (*Bignum).Native, equal, fn)
}

func equal(a, b *wide.I128) bool { return a.Equal(*b) }

func lookup(op bnfuzz.Op) opFunc {
	// NEWOP: add a handler here.
	switch op {
	case bnfuzz.OpAdd:
		return opAdd
	case bnfuzz.OpSub:
		return opSub
	case bnfuzz.OpMul:
		return opMul
	case bnfuzz.OpDiv:
		return opDiv
	case bnfuzz.OpSqr:
		return opSqr
	case bnfuzz.OpGCD:
		return opGCD
	case bnfuzz.OpCmp:
		return opCmp
	case bnfuzz.OpAbs:
		return opAbs
	case bnfuzz.OpNeg:
		return opNeg
	case bnfuzz.OpRShift:
		return opRShift
	case bnfuzz.OpLShift1:
		return opLShift1
	case bnfuzz.OpIsNeg:
		return opIsNeg
	case bnfuzz.OpIsEq:
		return opIsEq
	case bnfuzz.OpIsZero:
		return opIsZero
	case bnfuzz.OpIsOne:
		return opIsOne
	case bnfuzz.OpMulMod:
		return opMulMod
	case bnfuzz.OpAddMod:
		return opAddMod
	case bnfuzz.OpSubMod:
		return opSubMod
	case bnfuzz.OpSqrMod:
		return opSqrMod
	case bnfuzz.OpBit:
		return opBit
	case bnfuzz.OpCmpAbs:
		return opCmpAbs
	case bnfuzz.OpSetBit:
		return opSetBit
	case bnfuzz.OpLCM:
		return opLCM
	case bnfuzz.OpMod:
		return opMod
	case bnfuzz.OpIsEven:
		return opIsEven
	case bnfuzz.OpIsOdd:
		return opIsOdd
	case bnfuzz.OpMSB:
		return opMSB
	case bnfuzz.OpNumBits:
		return opNumBits
	case bnfuzz.OpSet:
		return opSet
	case bnfuzz.OpExp2:
		return opExp2
	case bnfuzz.OpNumLSZeroBits:
		return opNumLSZeroBits
	case bnfuzz.OpMulAdd:
		return opMulAdd
	case bnfuzz.OpCondSet:
		return opCondSet
	case bnfuzz.OpRand:
		return opRand

	case bnfuzz.OpExpMod, bnfuzz.OpInvMod, bnfuzz.OpJacobi:
		return nil
	}
	return nil
}

// Add, Sub and Mul choose between the full operand and an int64 operand
// widened back through I128From64.

func smallOperand(op string, x wide.I128) (wide.I128, error) {
	if !x.IsInt64() {
		return zero, bnfuzz.Inapplicable("%s: operand is not a small int", op)
	}
	return wide.I128From64(x.AsInt64()), nil
}

func opAdd(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b := *bn.At(0), *bn.At(1)
	if ds.Choose(2) == 1 {
		var err error
		if b, err = smallOperand("add", b); err != nil {
			return err
		}
	}
	v, over := a.AddOverflow(b)
	if over {
		return overflow("add")
	}
	*res.v = v
	return nil
}

func opSub(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b := *bn.At(0), *bn.At(1)
	if ds.Choose(2) == 1 {
		var err error
		if b, err = smallOperand("sub", b); err != nil {
			return err
		}
	}
	v, over := a.SubOverflow(b)
	if over {
		return overflow("sub")
	}
	*res.v = v
	return nil
}

func opMul(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b := *bn.At(0), *bn.At(1)
	if ds.Choose(2) == 1 {
		var err error
		if b, err = smallOperand("mul", b); err != nil {
			return err
		}
	}
	v, over := a.MulOverflow(b)
	if over {
		return overflow("mul")
	}
	*res.v = v
	return nil
}

func opDiv(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b := *bn.At(0), *bn.At(1)
	if b.IsZero() {
		return bnfuzz.Inapplicable("div: division by zero")
	}
	if a == wide.MinI128 && b == negOne {
		return overflow("div")
	}
	*res.v, _ = a.QuoRem(b)
	return nil
}

func opSqr(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	v, over := a.MulOverflow(*a)
	if over {
		return overflow("sqr")
	}
	*res.v = v
	return nil
}

func gcd(a, b wide.U128) wide.U128 {
	for !b.IsZero() {
		_, r := a.QuoRem(b)
		a, b = b, r
	}
	return a
}

// fromU128 converts a non-negative magnitude, failing if it needs the
// sign bit.
func fromU128(op string, u wide.U128) (wide.I128, error) {
	hi, lo := u.Raw()
	v := wide.I128FromRaw(hi, lo)
	if v.Sign() < 0 {
		return zero, overflow(op)
	}
	return v, nil
}

func opGCD(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b := *bn.At(0), *bn.At(1)
	if a.IsZero() || b.IsZero() {
		return bnfuzz.Inapplicable("gcd: zero operand")
	}
	v, err := fromU128("gcd", gcd(a.AbsU128(), b.AbsU128()))
	if err != nil {
		return err
	}
	*res.v = v
	return nil
}

func opLCM(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b := *bn.At(0), *bn.At(1)
	if a.IsZero() || b.IsZero() {
		return bnfuzz.Inapplicable("lcm: zero operand")
	}
	am, bm := a.AbsU128(), b.AbsU128()
	q, _ := am.QuoRem(gcd(am, bm))
	l, over := q.MulOverflow(bm)
	if over {
		return overflow("lcm")
	}
	v, err := fromU128("lcm", l)
	if err != nil {
		return err
	}
	*res.v = v
	return nil
}

func opCmp(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	*res.v = wide.I128From64(int64(bn.At(0).Cmp(*bn.At(1))))
	return nil
}

func opCmpAbs(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b := bn.At(0), bn.At(1)
	*res.v = wide.I128From64(int64(a.AbsU128().Cmp(b.AbsU128())))
	return nil
}

func opAbs(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := *bn.At(0)
	var v wide.I128
	var over bool
	if a.Sign() < 0 {
		v, over = zero.SubOverflow(a)
	} else {
		v, over = zero.AddOverflow(a)
	}
	if over {
		return overflow("abs")
	}
	*res.v = v
	return nil
}

func opNeg(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	v, over := zero.SubOverflow(*bn.At(0))
	if over {
		return overflow("neg")
	}
	*res.v = v
	return nil
}

func opRShift(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := *bn.At(0)
	n, ok := uint32Of(*bn.At(1))
	if !ok {
		return bnfuzz.Inapplicable("rshift: count is not a uint32")
	}
	*res.v = a.Rsh(uint(n))
	return nil
}

func opLShift1(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := *bn.At(0)
	v := a.Lsh(1)
	if v.Rsh(1) != a {
		return overflow("lshift1")
	}
	*res.v = v
	return nil
}

func setFlag(res *Bignum, f bool) {
	*res.v = wide.I128From64(bnfuzz.Flag(f))
}

func opIsNeg(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	setFlag(res, bn.At(0).Sign() < 0)
	return nil
}

func opIsEq(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	setFlag(res, bn.At(0).Equal(*bn.At(1)))
	return nil
}

func opIsZero(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	setFlag(res, bn.At(0).IsZero())
	return nil
}

func opIsOne(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	setFlag(res, *bn.At(0) == one)
	return nil
}

// reduce returns v mod m in [0, m) for positive m.
func reduce(v, m wide.I128) wide.I128 {
	_, r := v.QuoRem(m)
	if r.Sign() < 0 {
		r = r.Add(m)
	}
	return r
}

func checkModulus(op string, m wide.I128) error {
	if m.Sign() <= 0 {
		return bnfuzz.Inapplicable("%s: non-positive modulus", op)
	}
	return nil
}

func opMulMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := *bn.At(0), *bn.At(1), *bn.At(2)
	if err := checkModulus("mulmod", m); err != nil {
		return err
	}
	v, over := a.MulOverflow(b)
	if over {
		return overflow("mulmod")
	}
	*res.v = reduce(v, m)
	return nil
}

func opAddMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := *bn.At(0), *bn.At(1), *bn.At(2)
	if err := checkModulus("addmod", m); err != nil {
		return err
	}
	v, over := a.AddOverflow(b)
	if over {
		return overflow("addmod")
	}
	*res.v = reduce(v, m)
	return nil
}

func opSubMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := *bn.At(0), *bn.At(1), *bn.At(2)
	if err := checkModulus("submod", m); err != nil {
		return err
	}
	v, over := a.SubOverflow(b)
	if over {
		return overflow("submod")
	}
	*res.v = reduce(v, m)
	return nil
}

func opSqrMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, m := *bn.At(0), *bn.At(1)
	if err := checkModulus("sqrmod", m); err != nil {
		return err
	}
	v, over := a.MulOverflow(a)
	if over {
		return overflow("sqrmod")
	}
	*res.v = reduce(v, m)
	return nil
}

func opMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, m := *bn.At(0), *bn.At(1)
	if err := checkModulus("mod", m); err != nil {
		return err
	}
	*res.v = reduce(a, m)
	return nil
}

func opBit(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := *bn.At(0)
	n, ok := uint32Of(*bn.At(1))
	if !ok {
		return bnfuzz.Inapplicable("bit: index is not a uint32")
	}
	*res.v = wide.I128FromU64(uint64(a.Bit(uint(n))))
	return nil
}

func opSetBit(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := *bn.At(0)
	n, ok := uint32Of(*bn.At(1))
	if !ok || n > bnfuzz.MaxBits {
		return bnfuzz.Inapplicable("setbit: index out of range")
	}
	switch {
	case n < 127:
		*res.v = a.SetBit(uint(n))
	case a.Sign() < 0:
		// Bits from 127 up are already set in a negative value.
		*res.v = a
	default:
		return overflow("setbit")
	}
	return nil
}

func opIsEven(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	setFlag(res, bn.At(0).Bit(0) == 0)
	return nil
}

func opIsOdd(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	setFlag(res, bn.At(0).Bit(0) == 1)
	return nil
}

func opMSB(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	n := bn.At(0).BitLen()
	setFlag(res, n > 0 && n%8 == 0)
	return nil
}

func opNumBits(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	*res.v = wide.I128From64(int64(bn.At(0).BitLen()))
	return nil
}

func opSet(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	*res.v = *bn.At(0)
	return nil
}

func opExp2(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	n, ok := uint32Of(*bn.At(0))
	if !ok || n > bnfuzz.MaxBits {
		return bnfuzz.Inapplicable("exp2: exponent out of range")
	}
	if n >= 127 {
		return overflow("exp2")
	}
	*res.v = one.Lsh(uint(n))
	return nil
}

func opNumLSZeroBits(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := *bn.At(0)
	if a.IsZero() {
		*res.v = zero
		return nil
	}
	*res.v = wide.I128FromU64(uint64(a.TrailingZeros()))
	return nil
}

func opMulAdd(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, c := *bn.At(0), *bn.At(1), *bn.At(2)
	p, over := a.MulOverflow(b)
	if over {
		return overflow("muladd")
	}
	v, over := p.AddOverflow(c)
	if over {
		return overflow("muladd")
	}
	*res.v = v
	return nil
}

func opCondSet(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, cond := *bn.At(0), *bn.At(1)
	*res.v = zero
	if !cond.IsZero() {
		*res.v = a
	}
	return nil
}

func opRand(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := *bn.At(0)
	if a.Sign() <= 0 {
		return bnfuzz.Inapplicable("rand: non-positive bound")
	}
	hi, _ := ds.Uint64()
	lo, _ := ds.Uint64()
	_, r := wide.U128FromRaw(hi, lo).QuoRem(a.AbsU128())
	*res.v, _ = fromU128("rand", r)
	return nil
}
