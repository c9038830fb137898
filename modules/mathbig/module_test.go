package mathbig

import (
	"math/big"
	"math/rand"
	"testing"

	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
	"github.com/shabbyrobe/go-bnfuzz/internal/moduletest"
	"github.com/shabbyrobe/golib/assert"
)

func TestVectors(t *testing.T) {
	moduletest.RunVectors(t, Module{})
}

func TestAllOps(t *testing.T) {
	moduletest.CheckAllOps(t, Module{}, rand.New(rand.NewSource(1)), 200)
}

func TestExhausted(t *testing.T) {
	moduletest.CheckExhausted(t, Module{})
}

func TestSupportsEverything(t *testing.T) {
	tt := assert.WrapTB(t)
	for _, op := range bnfuzz.AllOps {
		tt.MustAssert(Module{}.Supports(op), "%s", op)
	}
}

func TestBignumSetGet(t *testing.T) {
	for idx, tc := range []struct {
		in   string
		data []byte
	}{
		{"0", nil},
		{"-1", []byte{1, 1}},
		{"123456789012345678901234567890", []byte{0, 1}},
		{"-340282366920938463463374607431768211456", []byte{1, 0}},
	} {
		t.Run("", func(t *testing.T) {
			tt := assert.WrapTB(t)
			v := bnfuzz.MustParseValue(tc.in)
			b := NewBignum()
			defer b.Release()

			src := bnfuzz.NewSource(tc.data)
			tt.MustOK(b.Set(src, v))
			out, err := b.Get(src)
			tt.MustOK(err)
			tt.MustEqual(v, out, "%d", idx)
		})
	}
}

func TestBignumClone(t *testing.T) {
	tt := assert.WrapTB(t)
	b := NewBignum()
	defer b.Release()
	tt.MustOK(b.Set(bnfuzz.NewSource(nil), bnfuzz.ValueFromInt64(99)))

	c := b.Clone()
	defer c.Release()
	c.Native().Add(c.Native(), big1)

	tt.MustEqual(int64(99), b.Native().Int64())
	tt.MustEqual(int64(100), c.Native().Int64())
}

func TestPaths(t *testing.T) {
	// Every call path of an op gives the same answer. Four zero bytes are
	// the Set draws, then the path byte.
	operands := [bnfuzz.ClusterSize]bnfuzz.Value{
		bnfuzz.ValueFromInt64(-1000),
		bnfuzz.ValueFromInt64(7),
	}
	for _, tc := range []struct {
		op     bnfuzz.Op
		paths  int
		expect int64
	}{
		{bnfuzz.OpAdd, 3, -993},
		{bnfuzz.OpSub, 3, -1007},
		{bnfuzz.OpDiv, 3, -142},
		{bnfuzz.OpCmp, 2, -1},
	} {
		for path := 0; path < tc.paths; path++ {
			tt := assert.WrapTB(t)
			src := bnfuzz.NewSource([]byte{0, 0, 0, 0, byte(path)})
			out, err := Module{}.Run(src, tc.op, operands)
			tt.MustOK(err)
			tt.MustEqual(bnfuzz.ValueFromInt64(tc.expect), out, "%s path %d", tc.op, path)
		}
	}

	// Mul's small path takes an unsigned operand.
	tt := assert.WrapTB(t)
	_, err := Module{}.Run(bnfuzz.NewSource([]byte{0, 0, 0, 0, 1}), bnfuzz.OpMul, [bnfuzz.ClusterSize]bnfuzz.Value{
		bnfuzz.ValueFromInt64(3), bnfuzz.ValueFromInt64(-3),
	})
	tt.MustAssert(bnfuzz.IsFailure(err))
}

func TestRandBelowBound(t *testing.T) {
	tt := assert.WrapTB(t)
	bound := bnfuzz.MustParseValue("1000000007")
	for seed := 0; seed < 50; seed++ {
		data := []byte{0, 0, 0, 0, 0, byte(seed), 0, 0, 0, 0, 0, 0, 0}
		out, err := Module{}.Run(bnfuzz.NewSource(data), bnfuzz.OpRand, [bnfuzz.ClusterSize]bnfuzz.Value{bound})
		tt.MustOK(err)
		tt.MustAssert(out.Sign() >= 0 && out.Cmp(bound) < 0, "%s", out)
	}
}

func TestInvModAgreesWithDefinition(t *testing.T) {
	tt := assert.WrapTB(t)
	m := big.NewInt(1000003)
	for a := int64(1); a < 200; a++ {
		out, err := Module{}.Run(bnfuzz.NewSource(nil), bnfuzz.OpInvMod, [bnfuzz.ClusterSize]bnfuzz.Value{
			bnfuzz.ValueFromInt64(a), bnfuzz.ValueFromBig(m),
		})
		tt.MustOK(err)
		p := new(big.Int).Mul(out.Big(), big.NewInt(a))
		tt.MustEqual(int64(1), p.Mod(p, m).Int64())
	}
}
