package wide128

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
	"github.com/shabbyrobe/go-bnfuzz/internal/moduletest"
	"github.com/shabbyrobe/go-bnfuzz/internal/wide"
	"github.com/shabbyrobe/golib/assert"
)

var (
	minI128 = bnfuzz.MustParseValue("-170141183460469231731687303715884105728")
	maxI128 = bnfuzz.MustParseValue("170141183460469231731687303715884105727")
)

func TestVectors(t *testing.T) {
	moduletest.RunVectors(t, Module{})
}

func TestAllOps(t *testing.T) {
	moduletest.CheckAllOps(t, Module{}, rand.New(rand.NewSource(7)), 200)
}

func TestExhausted(t *testing.T) {
	moduletest.CheckExhausted(t, Module{})
}

func isOverflow(err error) bool {
	var oerr *bnfuzz.OverflowError
	return errors.As(err, &oerr)
}

func run(op bnfuzz.Op, operands ...bnfuzz.Value) (bnfuzz.Value, error) {
	var cl [bnfuzz.ClusterSize]bnfuzz.Value
	copy(cl[:], operands)
	return Module{}.Run(bnfuzz.NewSource(nil), op, cl)
}

func TestSetLimits(t *testing.T) {
	tt := assert.WrapTB(t)
	for _, v := range []bnfuzz.Value{minI128, maxI128} {
		for _, data := range [][]byte{{0, 0}, {1, 1}} {
			b := NewBignum()
			src := bnfuzz.NewSource(data)
			tt.MustOK(b.Set(src, v))
			out, err := b.Get(src)
			b.Release()
			tt.MustOK(err)
			tt.MustEqual(v, out)
		}
	}

	for _, v := range []bnfuzz.Value{minI128.Neg(), bnfuzz.MustParseValue("-170141183460469231731687303715884105729")} {
		b := NewBignum()
		err := b.Set(bnfuzz.NewSource(nil), v)
		b.Release()
		tt.MustAssert(isOverflow(err), "%s: %v", v, err)
	}
}

func TestCheckedEdges(t *testing.T) {
	for idx, tc := range []struct {
		op       bnfuzz.Op
		operands []bnfuzz.Value
	}{
		{bnfuzz.OpAdd, []bnfuzz.Value{maxI128, bnfuzz.One}},
		{bnfuzz.OpSub, []bnfuzz.Value{minI128, bnfuzz.One}},
		{bnfuzz.OpMul, []bnfuzz.Value{maxI128, bnfuzz.ValueFromInt64(2)}},
		{bnfuzz.OpDiv, []bnfuzz.Value{minI128, bnfuzz.ValueFromInt64(-1)}},
		{bnfuzz.OpNeg, []bnfuzz.Value{minI128}},
		{bnfuzz.OpAbs, []bnfuzz.Value{minI128}},
		{bnfuzz.OpLShift1, []bnfuzz.Value{maxI128}},
		{bnfuzz.OpExp2, []bnfuzz.Value{bnfuzz.ValueFromInt64(127)}},
		{bnfuzz.OpSetBit, []bnfuzz.Value{bnfuzz.One, bnfuzz.ValueFromInt64(127)}},
		{bnfuzz.OpSqr, []bnfuzz.Value{maxI128}},
	} {
		tt := assert.WrapTB(t)
		_, err := run(tc.op, tc.operands...)
		tt.MustAssert(isOverflow(err), "%d: %s: %v", idx, tc.op, err)
	}
}

func TestSetBitHighOnNegative(t *testing.T) {
	tt := assert.WrapTB(t)
	out, err := run(bnfuzz.OpSetBit, bnfuzz.ValueFromInt64(-5), bnfuzz.ValueFromInt64(500))
	tt.MustOK(err)
	tt.MustEqual(bnfuzz.ValueFromInt64(-5), out)

	out, err = run(bnfuzz.OpExp2, bnfuzz.ValueFromInt64(126))
	tt.MustOK(err)
	tt.MustEqual(bnfuzz.ValueFromBig(new(big.Int).Lsh(big.NewInt(1), 126)), out)
}

func TestAgainstBig(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	r := moduletest.NewRando(rng)
	lo, hi := minI128.Big(), maxI128.Big()
	fits := func(b *big.Int) bool { return b.Cmp(lo) >= 0 && b.Cmp(hi) <= 0 }

	for _, op := range []bnfuzz.Op{bnfuzz.OpAdd, bnfuzz.OpSub, bnfuzz.OpMul, bnfuzz.OpDiv, bnfuzz.OpMod, bnfuzz.OpGCD, bnfuzz.OpLCM, bnfuzz.OpMulMod} {
		for i := 0; i < 1000; i++ {
			tt := assert.WrapTB(t)
			a, b, m := r.Value(126), r.Value(126), r.Value(126)

			var exp *big.Int
			x, y, z := a.Big(), b.Big(), m.Big()
			switch op {
			case bnfuzz.OpAdd:
				exp = new(big.Int).Add(x, y)
			case bnfuzz.OpSub:
				exp = new(big.Int).Sub(x, y)
			case bnfuzz.OpMul:
				exp = new(big.Int).Mul(x, y)
			case bnfuzz.OpDiv:
				if y.Sign() != 0 {
					exp = new(big.Int).Quo(x, y)
				}
			case bnfuzz.OpMod:
				if y.Sign() > 0 {
					exp = new(big.Int).Mod(x, y)
				}
			case bnfuzz.OpGCD:
				if x.Sign() != 0 && y.Sign() != 0 {
					exp = new(big.Int).GCD(nil, nil, x, y)
				}
			case bnfuzz.OpLCM:
				if x.Sign() != 0 && y.Sign() != 0 {
					g := new(big.Int).GCD(nil, nil, x, y)
					exp = new(big.Int).Quo(x, g)
					exp.Mul(exp, y).Abs(exp)
				}
			case bnfuzz.OpMulMod:
				p := new(big.Int).Mul(x, y)
				if z.Sign() > 0 && fits(p) {
					exp = p.Mod(p, z)
				} else if z.Sign() > 0 {
					exp = p // Raw product overflows; only the failure is checked.
				}
			}

			out, err := run(op, a, b, m)
			switch {
			case exp == nil:
				tt.MustAssert(bnfuzz.IsFailure(err), "%s: %v", op.Print(a, b, m), err)
			case !fits(exp):
				tt.MustAssert(isOverflow(err), "%s: %v", op.Print(a, b, m), err)
			default:
				tt.MustOK(err)
				tt.MustEqual(bnfuzz.ValueFromBig(exp), out, "%s", op.Print(a, b, m))
			}
		}
	}
}

func TestGCDOfMinimum(t *testing.T) {
	// |MinI128| does not fit, so a GCD equal to it cannot be returned.
	tt := assert.WrapTB(t)
	_, err := run(bnfuzz.OpGCD, minI128, minI128)
	tt.MustAssert(isOverflow(err), "%v", err)

	out, err := run(bnfuzz.OpGCD, minI128, bnfuzz.ValueFromInt64(6))
	tt.MustOK(err)
	tt.MustEqual(bnfuzz.ValueFromInt64(2), out)
}

func TestNativeIsWide(t *testing.T) {
	tt := assert.WrapTB(t)
	b := NewBignum()
	defer b.Release()
	tt.MustOK(b.Set(bnfuzz.NewSource(nil), maxI128))
	tt.MustEqual(wide.MaxI128, *b.Native())
}
