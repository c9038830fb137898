package modnat

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
	"github.com/shabbyrobe/go-bnfuzz/internal/moduletest"
	"github.com/shabbyrobe/golib/assert"
)

func TestVectors(t *testing.T) {
	moduletest.RunVectors(t, Module{})
}

func TestAllOps(t *testing.T) {
	moduletest.CheckAllOps(t, Module{}, rand.New(rand.NewSource(9)), 200)
}

func TestExhausted(t *testing.T) {
	moduletest.CheckExhausted(t, Module{})
}

func TestSupports(t *testing.T) {
	tt := assert.WrapTB(t)
	var n int
	for _, op := range bnfuzz.AllOps {
		if (Module{}).Supports(op) {
			n++
		}
	}
	tt.MustEqual(7, n)
	tt.MustAssert(!Module{}.Supports(bnfuzz.OpAdd))
}

func TestModulusDomain(t *testing.T) {
	for _, m := range []int64{-7, 0, 1, 2, 1 << 20} {
		tt := assert.WrapTB(t)
		_, err := Module{}.Run(bnfuzz.NewSource(nil), bnfuzz.OpMod, [bnfuzz.ClusterSize]bnfuzz.Value{
			bnfuzz.ValueFromInt64(100), bnfuzz.ValueFromInt64(m),
		})
		tt.MustAssert(errors.Is(err, bnfuzz.ErrInapplicable), "%d: %v", m, err)
	}
}

// opPadding returns oracle data that pads or does not pad each of the first
// three slots.
func opPadding(mask int) []byte {
	data := make([]byte, bnfuzz.ClusterSize)
	for i := 0; i < 3; i++ {
		data[i] = byte(mask >> i & 1)
	}
	return data
}

func TestAgainstBig(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	r := moduletest.NewRando(rng)

	for _, op := range []bnfuzz.Op{bnfuzz.OpExpMod, bnfuzz.OpMulMod, bnfuzz.OpAddMod, bnfuzz.OpSubMod, bnfuzz.OpSqrMod, bnfuzz.OpMod} {
		for i := 0; i < 300; i++ {
			tt := assert.WrapTB(t)
			a, b, m := r.Value(1024).Abs(), r.Value(1024).Abs(), r.Value(1024).Abs()
			mb := m.Big()
			mb.SetBit(mb, 0, 1)
			if mb.BitLen() < 2 {
				mb.SetInt64(3)
			}
			m = bnfuzz.ValueFromBig(mb)

			x, y := a.Big(), b.Big()
			exp := new(big.Int)
			operands := [bnfuzz.ClusterSize]bnfuzz.Value{a, b, m}
			switch op {
			case bnfuzz.OpExpMod:
				exp.Exp(x, y, mb)
			case bnfuzz.OpMulMod:
				exp.Mul(x, y).Mod(exp, mb)
			case bnfuzz.OpAddMod:
				exp.Add(x, y).Mod(exp, mb)
			case bnfuzz.OpSubMod:
				if x.Cmp(y) < 0 {
					x, y = y, x
					operands[0], operands[1] = b, a
				}
				exp.Sub(x, y).Mod(exp, mb)
			case bnfuzz.OpSqrMod:
				operands[1] = m
				exp.Mul(x, x).Mod(exp, mb)
			case bnfuzz.OpMod:
				operands[1] = m
				exp.Mod(x, mb)
			}

			out, err := Module{}.Run(bnfuzz.NewSource(opPadding(i)), op, operands)
			tt.MustOK(err)
			tt.MustEqual(bnfuzz.ValueFromBig(exp), out, "%s", op.Print(operands[:]...))
		}
	}
}

func TestNegativeOperands(t *testing.T) {
	tt := assert.WrapTB(t)
	neg := bnfuzz.ValueFromInt64(-3)
	for _, op := range []bnfuzz.Op{bnfuzz.OpMulMod, bnfuzz.OpAddMod, bnfuzz.OpSubMod, bnfuzz.OpExpMod} {
		_, err := Module{}.Run(bnfuzz.NewSource(nil), op, [bnfuzz.ClusterSize]bnfuzz.Value{
			neg, bnfuzz.ValueFromInt64(1), bnfuzz.ValueFromInt64(11),
		})
		tt.MustAssert(errors.Is(err, bnfuzz.ErrInapplicable), "%s: %v", op, err)
	}

	out, err := Module{}.Run(bnfuzz.NewSource(nil), bnfuzz.OpSet, [bnfuzz.ClusterSize]bnfuzz.Value{neg})
	tt.MustOK(err)
	tt.MustEqual(neg, out)
}

func TestPaddedZero(t *testing.T) {
	tt := assert.WrapTB(t)
	b := NewBignum()
	defer b.Release()
	tt.MustOK(b.Set(bnfuzz.NewSource([]byte{1}), bnfuzz.Zero))
	tt.MustEqual(8, len(b.v.mag))
	tt.MustAssert(b.v.isZero())

	out, err := b.Get(bnfuzz.NewSource(nil))
	tt.MustOK(err)
	tt.MustEqual(bnfuzz.Zero, out)
}
