package apdbig

import (
	"math/rand"

	"github.com/cockroachdb/apd/v3"
	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
)

type (
	cluster = bnfuzz.Cluster[*apd.BigInt]
	opFunc  = func(ds *bnfuzz.Source, res *Bignum, bn *cluster) error
)

var apd1 = apd.NewBigInt(1)

// Module is the apd BigInt module.
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

func equal(a, b *apd.BigInt) bool { return a.Cmp(b) == 0 }

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
	case bnfuzz.OpExpMod:
		return opExpMod
	case bnfuzz.OpSqr:
		return opSqr
	case bnfuzz.OpGCD:
		return opGCD
	case bnfuzz.OpInvMod:
		return opInvMod
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
	case bnfuzz.OpJacobi:
		return opJacobi
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
	}
	return nil
}

func opAdd(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	switch ds.Choose(3) {
	case 0:
		res.v.Add(bn.At(0), bn.At(1))
	case 1:
		a := bn.At(0)
		b, ok := int64Of(bn.At(1))
		if !ok {
			return bnfuzz.Inapplicable("add: operand is not a small int")
		}
		res.v.Add(a, apd.NewBigInt(b))
	case 2:
		res.v.Set(bn.At(0))
		res.v.Add(res.v, bn.At(1))
	}
	return nil
}

func opSub(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	switch ds.Choose(3) {
	case 0:
		res.v.Sub(bn.At(0), bn.At(1))
	case 1:
		a := bn.At(0)
		b, ok := int64Of(bn.At(1))
		if !ok {
			return bnfuzz.Inapplicable("sub: operand is not a small int")
		}
		res.v.Sub(a, apd.NewBigInt(b))
	case 2:
		res.v.Set(bn.At(0))
		res.v.Sub(res.v, bn.At(1))
	}
	return nil
}

func opMul(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	switch ds.Choose(3) {
	case 0:
		res.v.Mul(bn.At(0), bn.At(1))
	case 1:
		a := bn.At(0)
		b, ok := uint64Of(bn.At(1))
		if !ok {
			return bnfuzz.Inapplicable("mul: operand is not a small uint")
		}
		res.v.Mul(a, new(apd.BigInt).SetUint64(b))
	case 2:
		res.v.Set(bn.At(0))
		res.v.Mul(res.v, bn.At(1))
	}
	return nil
}

func opDiv(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b := bn.At(0), bn.At(1)
	if b.Sign() == 0 {
		return bnfuzz.Inapplicable("div: division by zero")
	}
	switch ds.Choose(3) {
	case 0:
		res.v.Quo(a, b)
	case 1:
		res.v.QuoRem(a, b, new(apd.BigInt))
	case 2:
		d, ok := int64Of(b)
		if !ok {
			return bnfuzz.Inapplicable("div: divisor is not a small int")
		}
		res.v.Quo(a, apd.NewBigInt(d))
	}
	return nil
}

func opExpMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := bn.At(0), bn.At(1), bn.At(2)
	if b.Sign() < 0 {
		return bnfuzz.Inapplicable("expmod: negative exponent")
	}
	if m.Sign() <= 0 {
		return bnfuzz.Inapplicable("expmod: non-positive modulus")
	}
	res.v.Exp(a, b, m)
	return nil
}

func opSqr(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	res.v.Mul(a, a)
	return nil
}

func opGCD(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b := bn.At(0), bn.At(1)
	if a.Sign() == 0 || b.Sign() == 0 {
		return bnfuzz.Inapplicable("gcd: zero operand")
	}
	res.v.GCD(nil, nil, a, b)
	return nil
}

func opInvMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, m := bn.At(0), bn.At(1)
	if m.Cmp(apd1) <= 0 {
		return bnfuzz.Inapplicable("invmod: modulus <= 1")
	}
	if res.v.ModInverse(a, m) == nil {
		return bnfuzz.Inapplicable("invmod: not invertible")
	}
	return nil
}

func opCmp(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	var c int
	switch ds.Choose(2) {
	case 0:
		c = bn.At(0).Cmp(bn.At(1))
	case 1:
		a := bn.At(0)
		b, ok := int64Of(bn.At(1))
		if !ok {
			return bnfuzz.Inapplicable("cmp: operand is not a small int")
		}
		c = a.Cmp(apd.NewBigInt(b))
	}
	res.v.SetInt64(int64(c))
	return nil
}

func opAbs(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	res.v.SetInt64(0)
	if a.Sign() < 0 {
		res.v.Sub(res.v, a)
	} else {
		res.v.Add(res.v, a)
	}
	return nil
}

func opNeg(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	res.v.SetInt64(0)
	res.v.Sub(res.v, a)
	return nil
}

func opRShift(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	n, ok := uint32Of(bn.At(1))
	if !ok {
		return bnfuzz.Inapplicable("rshift: count is not a uint32")
	}
	res.v.Set(a)
	res.v.Rsh(res.v, uint(n))
	return nil
}

func opLShift1(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.v.Set(bn.At(0))
	res.v.Lsh(res.v, 1)
	return nil
}

func opIsNeg(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.v.SetInt64(bnfuzz.Flag(bn.At(0).Sign() < 0))
	return nil
}

func opIsEq(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.v.SetInt64(bnfuzz.Flag(bn.At(0).Cmp(bn.At(1)) == 0))
	return nil
}

func opIsZero(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.v.SetInt64(bnfuzz.Flag(bn.At(0).Sign() == 0))
	return nil
}

func opIsOne(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.v.SetInt64(bnfuzz.Flag(bn.At(0).Cmp(apd1) == 0))
	return nil
}

func modulus(op string, m *apd.BigInt) error {
	if m.Sign() <= 0 {
		return bnfuzz.Inapplicable("%s: non-positive modulus", op)
	}
	return nil
}

func opMulMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := bn.At(0), bn.At(1), bn.At(2)
	if err := modulus("mulmod", m); err != nil {
		return err
	}
	res.v.Mul(a, b)
	res.v.Mod(res.v, m)
	return nil
}

func opAddMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := bn.At(0), bn.At(1), bn.At(2)
	if err := modulus("addmod", m); err != nil {
		return err
	}
	res.v.Add(a, b)
	res.v.Mod(res.v, m)
	return nil
}

func opSubMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := bn.At(0), bn.At(1), bn.At(2)
	if err := modulus("submod", m); err != nil {
		return err
	}
	res.v.Sub(a, b)
	res.v.Mod(res.v, m)
	return nil
}

func opSqrMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, m := bn.At(0), bn.At(1)
	if err := modulus("sqrmod", m); err != nil {
		return err
	}
	res.v.Mul(a, a)
	res.v.Mod(res.v, m)
	return nil
}

func opBit(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	n, ok := uint32Of(bn.At(1))
	if !ok {
		return bnfuzz.Inapplicable("bit: index is not a uint32")
	}
	res.v.SetUint64(uint64(a.Bit(int(n))))
	return nil
}

func opCmpAbs(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.v.SetInt64(int64(bn.At(0).CmpAbs(bn.At(1))))
	return nil
}

func opSetBit(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	n, ok := uint32Of(bn.At(1))
	if !ok || n > bnfuzz.MaxBits {
		return bnfuzz.Inapplicable("setbit: index out of range")
	}
	res.v.SetBit(a, int(n), 1)
	return nil
}

func opLCM(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b := bn.At(0), bn.At(1)
	if a.Sign() == 0 || b.Sign() == 0 {
		return bnfuzz.Inapplicable("lcm: zero operand")
	}
	var g apd.BigInt
	g.GCD(nil, nil, a, b)
	res.v.Mul(a, b)
	res.v.Abs(res.v)
	res.v.Quo(res.v, &g)
	return nil
}

func opMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, m := bn.At(0), bn.At(1)
	if err := modulus("mod", m); err != nil {
		return err
	}
	res.v.Mod(a, m)
	return nil
}

func opIsEven(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.v.SetInt64(bnfuzz.Flag(bn.At(0).Bit(0) == 0))
	return nil
}

func opIsOdd(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.v.SetInt64(bnfuzz.Flag(bn.At(0).Bit(0) == 1))
	return nil
}

func opMSB(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	n := bn.At(0).BitLen()
	res.v.SetInt64(bnfuzz.Flag(n > 0 && n%8 == 0))
	return nil
}

func opNumBits(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.v.SetInt64(int64(bn.At(0).BitLen()))
	return nil
}

func opSet(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.v.Set(bn.At(0))
	return nil
}

func opJacobi(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, n := bn.At(0), bn.At(1)
	if n.Sign() <= 0 || n.Bit(0) == 0 {
		return bnfuzz.Inapplicable("jacobi: modulus must be odd and positive")
	}
	res.v.SetInt64(int64(jacobi(a, n)))
	return nil
}

// jacobi computes the Jacobi symbol (a/n) for odd positive n using only
// BigInt arithmetic, by the binary algorithm.
func jacobi(a, n *apd.BigInt) int {
	var xv, yv apd.BigInt
	x, y := &xv, &yv
	x.Mod(a, n)
	y.Set(n)

	j := 1
	for x.Sign() != 0 {
		if tz := x.TrailingZeroBits(); tz > 0 {
			x.Rsh(x, tz)
			// (2/y) = -1 iff y = 3 or 5 mod 8.
			if r := mod8(y); tz&1 == 1 && (r == 3 || r == 5) {
				j = -j
			}
		}
		x, y = y, x
		if mod8(x)&3 == 3 && mod8(y)&3 == 3 {
			j = -j
		}
		x.Mod(x, y)
	}
	if y.Cmp(apd1) != 0 {
		return 0
	}
	return j
}

func mod8(x *apd.BigInt) uint {
	return x.Bit(0) | x.Bit(1)<<1 | x.Bit(2)<<2
}

func opExp2(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	n, ok := uint32Of(bn.At(0))
	if !ok || n > bnfuzz.MaxBits {
		return bnfuzz.Inapplicable("exp2: exponent out of range")
	}
	switch ds.Choose(2) {
	case 0:
		res.v.Lsh(apd1, uint(n))
	case 1:
		res.v.SetInt64(0)
		res.v.SetBit(res.v, int(n), 1)
	}
	return nil
}

func opNumLSZeroBits(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.v.SetUint64(uint64(bn.At(0).TrailingZeroBits()))
	return nil
}

func opMulAdd(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, c := bn.At(0), bn.At(1), bn.At(2)
	res.v.Mul(a, b)
	res.v.Add(res.v, c)
	return nil
}

func opCondSet(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, cond := bn.At(0), bn.At(1)
	res.v.SetInt64(0)
	if cond.Sign() != 0 {
		res.v.Set(a)
	}
	return nil
}

func opRand(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	if a.Sign() <= 0 {
		return bnfuzz.Inapplicable("rand: non-positive bound")
	}
	seed, _ := ds.Uint64()
	res.v.Rand(rand.New(rand.NewSource(int64(seed))), a)
	return nil
}
