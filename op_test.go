package bnfuzz

import (
	"testing"

	"github.com/shabbyrobe/golib/assert"
)

func TestAllOps(t *testing.T) {
	tt := assert.WrapTB(t)
	tt.MustEqual(37, len(AllOps))

	seen := map[Op]bool{}
	for _, op := range AllOps {
		tt.MustAssert(!seen[op], "duplicate op %s", op)
		seen[op] = true
		tt.MustAssert(op.Valid())

		n := op.Arity()
		tt.MustAssert(n >= 1 && n <= 3, "%s arity %d", op, n)

		// Print must not index past the arity.
		operands := make([]Value, n)
		tt.MustAssert(op.Print(operands...) != "")
	}
}

func TestParseOp(t *testing.T) {
	tt := assert.WrapTB(t)

	op, err := ParseOp("expmod")
	tt.MustOK(err)
	tt.MustEqual(OpExpMod, op)

	op, err = ParseOp("NumLSZeroBits")
	tt.MustOK(err)
	tt.MustEqual(OpNumLSZeroBits, op)

	_, err = ParseOp("Pow")
	tt.MustAssert(err != nil)
	tt.MustAssert(!Op("Pow").Valid())
}

func TestOpArity(t *testing.T) {
	for op, arity := range map[Op]int{
		OpAdd: 2, OpExpMod: 3, OpSqr: 1, OpMulAdd: 3, OpCondSet: 2,
		OpJacobi: 2, OpRand: 1, OpSet: 1, OpSqrMod: 2, OpExp2: 1,
	} {
		tt := assert.WrapTB(t)
		tt.MustEqual(arity, op.Arity(), "%s", op)
	}
}

func TestOpComparable(t *testing.T) {
	tt := assert.WrapTB(t)
	for _, op := range AllOps {
		tt.MustEqual(op != OpRand, op.Comparable(), "%s", op)
	}
}

func TestOpPrint(t *testing.T) {
	tt := assert.WrapTB(t)
	two, three := ValueFromInt64(2), ValueFromInt64(3)
	tt.MustEqual("2 + 3", OpAdd.Print(two, three))
	tt.MustEqual("2^3 mod 3", OpExpMod.Print(two, three, three))
	tt.MustEqual("GCD(2, 3)", OpGCD.Print(two, three))
	tt.MustEqual("IsZero(2)", OpIsZero.Print(two))
	tt.MustEqual("-(-3)", OpNeg.Print(three.Neg()))
}
