package u256

import (
	mbits "math/bits"

	"github.com/holiman/uint256"
	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
)

type (
	cluster = bnfuzz.Cluster[*uint256.Int]
	opFunc  = func(ds *bnfuzz.Source, res *Bignum, bn *cluster) error
)

var u1 = uint256.NewInt(1)

// Module is the uint256 module.
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

func equal(a, b *uint256.Int) bool { return a.Eq(b) }

func overflow(op string) error {
	return &bnfuzz.OverflowError{Bits: bits + 1, Target: "uint256 " + op}
}

func underflow(op string) error {
	return &bnfuzz.OverflowError{Bits: 1, Target: "uint256 " + op + " (negative result)"}
}

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

	case bnfuzz.OpInvMod, bnfuzz.OpJacobi:
		// Both need signed intermediates the library does not have.
		return nil
	}
	return nil
}

func opAdd(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	var over bool
	switch ds.Choose(3) {
	case 0:
		_, over = res.v.AddOverflow(bn.At(0), bn.At(1))
	case 1:
		a := bn.At(0)
		b, ok := uint64Of(bn.At(1))
		if !ok {
			return bnfuzz.Inapplicable("add: operand is not a small uint")
		}
		res.v.AddUint64(a, b)
		over = res.v.Lt(a)
	case 2:
		res.v.Set(bn.At(0))
		_, over = res.v.AddOverflow(res.v, bn.At(1))
	}
	if over {
		return overflow("add")
	}
	return nil
}

func opSub(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	var under bool
	switch ds.Choose(3) {
	case 0:
		_, under = res.v.SubOverflow(bn.At(0), bn.At(1))
	case 1:
		a := bn.At(0)
		b, ok := uint64Of(bn.At(1))
		if !ok {
			return bnfuzz.Inapplicable("sub: operand is not a small uint")
		}
		under = a.IsUint64() && a.Uint64() < b
		res.v.SubUint64(a, b)
	case 2:
		res.v.Set(bn.At(0))
		_, under = res.v.SubOverflow(res.v, bn.At(1))
	}
	if under {
		return underflow("sub")
	}
	return nil
}

func opMul(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	var over bool
	switch ds.Choose(3) {
	case 0:
		_, over = res.v.MulOverflow(bn.At(0), bn.At(1))
	case 1:
		a := bn.At(0)
		b, ok := uint64Of(bn.At(1))
		if !ok {
			return bnfuzz.Inapplicable("mul: operand is not a small uint")
		}
		_, over = res.v.MulOverflow(a, uint256.NewInt(b))
	case 2:
		res.v.Set(bn.At(0))
		_, over = res.v.MulOverflow(res.v, bn.At(1))
	}
	if over {
		return overflow("mul")
	}
	return nil
}

func opDiv(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b := bn.At(0), bn.At(1)
	// The library returns 0 for x/0.
	if b.IsZero() {
		return bnfuzz.Inapplicable("div: division by zero")
	}
	switch ds.Choose(2) {
	case 0:
		res.v.Div(a, b)
	case 1:
		res.v.Set(a)
		res.v.Div(res.v, b)
	}
	return nil
}

// expMod is square-and-multiply over the library's MulMod, which reduces
// the full 512-bit product.
func expMod(z, base, e, m *uint256.Int) {
	var b uint256.Int
	b.Mod(base, m)
	z.SetOne()
	z.Mod(z, m)
	for i := e.BitLen() - 1; i >= 0; i-- {
		z.MulMod(z, z, m)
		if e[i/64]>>(uint(i)%64)&1 == 1 {
			z.MulMod(z, &b, m)
		}
	}
}

func opExpMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := bn.At(0), bn.At(1), bn.At(2)
	if m.IsZero() {
		return bnfuzz.Inapplicable("expmod: zero modulus")
	}
	expMod(res.v, a, b, m)
	return nil
}

func opSqr(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	if _, over := res.v.MulOverflow(a, a); over {
		return overflow("sqr")
	}
	return nil
}

// gcd is Euclid's algorithm over the library's Mod.
func gcd(z, a, b *uint256.Int) {
	var x, y uint256.Int
	x.Set(a)
	y.Set(b)
	for !y.IsZero() {
		x.Mod(&x, &y)
		x, y = y, x
	}
	z.Set(&x)
}

func opGCD(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b := bn.At(0), bn.At(1)
	if a.IsZero() || b.IsZero() {
		return bnfuzz.Inapplicable("gcd: zero operand")
	}
	gcd(res.v, a, b)
	return nil
}

func opCmp(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	var c int
	switch ds.Choose(2) {
	case 0:
		c = bn.At(0).Cmp(bn.At(1))
	case 1:
		a, b := bn.At(0), bn.At(1)
		switch {
		case a.Lt(b):
			c = -1
		case a.Gt(b):
			c = 1
		}
	}
	res.setSign(c)
	return nil
}

func opAbs(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	res.v.Clear()
	res.v.Add(res.v, a)
	return nil
}

func opNeg(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	res.v.Clear()
	if _, under := res.v.SubOverflow(res.v, a); under {
		return underflow("neg")
	}
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
	a := bn.At(0)
	if a.BitLen() >= bits {
		return overflow("lshift1")
	}
	res.v.Set(a)
	res.v.Lsh(res.v, 1)
	return nil
}

func opIsNeg(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	bn.At(0) // Read for its oracle draw only.
	res.setFlag(false)
	return nil
}

func opIsEq(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.setFlag(bn.At(0).Eq(bn.At(1)))
	return nil
}

func opIsZero(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.setFlag(bn.At(0).IsZero())
	return nil
}

func opIsOne(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.setFlag(bn.At(0).Eq(u1))
	return nil
}

// Raw-then-reduce ops compute the exact result first and fail if it does
// not fit 256 bits, rather than using the library's fused forms.

func opMulMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := bn.At(0), bn.At(1), bn.At(2)
	if m.IsZero() {
		return bnfuzz.Inapplicable("mulmod: zero modulus")
	}
	if _, over := res.v.MulOverflow(a, b); over {
		return overflow("mulmod")
	}
	res.v.Mod(res.v, m)
	return nil
}

func opAddMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := bn.At(0), bn.At(1), bn.At(2)
	if m.IsZero() {
		return bnfuzz.Inapplicable("addmod: zero modulus")
	}
	if _, over := res.v.AddOverflow(a, b); over {
		return overflow("addmod")
	}
	res.v.Mod(res.v, m)
	return nil
}

func opSubMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, m := bn.At(0), bn.At(1), bn.At(2)
	if m.IsZero() {
		return bnfuzz.Inapplicable("submod: zero modulus")
	}
	if _, under := res.v.SubOverflow(a, b); under {
		return underflow("submod")
	}
	res.v.Mod(res.v, m)
	return nil
}

func opSqrMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, m := bn.At(0), bn.At(1)
	if m.IsZero() {
		return bnfuzz.Inapplicable("sqrmod: zero modulus")
	}
	if _, over := res.v.MulOverflow(a, a); over {
		return overflow("sqrmod")
	}
	res.v.Mod(res.v, m)
	return nil
}

func opBit(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	n, ok := uint32Of(bn.At(1))
	if !ok {
		return bnfuzz.Inapplicable("bit: index is not a uint32")
	}
	res.setFlag(n < bits && a[n/64]>>(n%64)&1 == 1)
	return nil
}

func opCmpAbs(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.setSign(bn.At(0).Cmp(bn.At(1)))
	return nil
}

func opSetBit(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	n, ok := uint32Of(bn.At(1))
	if !ok || n > bnfuzz.MaxBits {
		return bnfuzz.Inapplicable("setbit: index out of range")
	}
	if n >= bits {
		return overflow("setbit")
	}
	var mask uint256.Int
	mask.Lsh(u1, uint(n))
	res.v.Or(a, &mask)
	return nil
}

func opLCM(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b := bn.At(0), bn.At(1)
	if a.IsZero() || b.IsZero() {
		return bnfuzz.Inapplicable("lcm: zero operand")
	}
	var g uint256.Int
	gcd(&g, a, b)
	res.v.Div(a, &g)
	if _, over := res.v.MulOverflow(res.v, b); over {
		return overflow("lcm")
	}
	return nil
}

func opMod(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, m := bn.At(0), bn.At(1)
	if m.IsZero() {
		return bnfuzz.Inapplicable("mod: zero modulus")
	}
	res.v.Mod(a, m)
	return nil
}

func opIsEven(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.setFlag(bn.At(0)[0]&1 == 0)
	return nil
}

func opIsOdd(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.setFlag(bn.At(0)[0]&1 == 1)
	return nil
}

func opMSB(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	n := bn.At(0).BitLen()
	res.setFlag(n > 0 && n%8 == 0)
	return nil
}

func opNumBits(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.v.SetUint64(uint64(bn.At(0).BitLen()))
	return nil
}

func opSet(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	res.v.Set(bn.At(0))
	return nil
}

func opExp2(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	n, ok := uint32Of(a)
	if !ok || n > bnfuzz.MaxBits {
		return bnfuzz.Inapplicable("exp2: exponent out of range")
	}
	if n >= bits {
		return overflow("exp2")
	}
	res.v.Lsh(u1, uint(n))
	return nil
}

func opNumLSZeroBits(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	var n int
	for _, w := range a {
		if w != 0 {
			n += mbits.TrailingZeros64(w)
			res.v.SetUint64(uint64(n))
			return nil
		}
		n += 64
	}
	res.v.Clear()
	return nil
}

func opMulAdd(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, b, c := bn.At(0), bn.At(1), bn.At(2)
	if _, over := res.v.MulOverflow(a, b); over {
		return overflow("muladd")
	}
	if _, over := res.v.AddOverflow(res.v, c); over {
		return overflow("muladd")
	}
	return nil
}

func opCondSet(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a, cond := bn.At(0), bn.At(1)
	res.v.Clear()
	if !cond.IsZero() {
		res.v.Set(a)
	}
	return nil
}

func opRand(ds *bnfuzz.Source, res *Bignum, bn *cluster) error {
	a := bn.At(0)
	if a.IsZero() {
		return bnfuzz.Inapplicable("rand: zero bound")
	}
	r, err := ds.Bytes(32)
	if err != nil {
		r = make([]byte, 32)
	}
	res.v.SetBytes(r)
	res.v.Mod(res.v, a)
	return nil
}
