package apdbig

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/cockroachdb/apd/v3"
	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
	"github.com/shabbyrobe/go-bnfuzz/internal/moduletest"
	"github.com/shabbyrobe/golib/assert"
)

func TestVectors(t *testing.T) {
	moduletest.RunVectors(t, Module{})
}

func TestAllOps(t *testing.T) {
	moduletest.CheckAllOps(t, Module{}, rand.New(rand.NewSource(2)), 200)
}

func TestExhausted(t *testing.T) {
	moduletest.CheckExhausted(t, Module{})
}

func TestJacobiAgainstBig(t *testing.T) {
	tt := assert.WrapTB(t)
	rng := rand.New(rand.NewSource(3))
	r := moduletest.NewRando(rng)

	for i := 0; i < 2000; i++ {
		a := r.Value(200).Big()
		n := r.Value(200).Big()
		n.Abs(n)
		n.SetBit(n, 0, 1)

		var aa, na apd.BigInt
		aa.SetString(a.String(), 10)
		na.SetString(n.String(), 10)
		tt.MustEqual(big.Jacobi(a, n), jacobi(&aa, &na), "(%s/%s)", a, n)
	}
}

// Values either side of the inline representation's limit take different
// code paths inside the library.
func TestInlineBoundary(t *testing.T) {
	edges := []string{
		"18446744073709551615",
		"18446744073709551616",
		"-18446744073709551616",
		"340282366920938463463374607431768211455",
		"340282366920938463463374607431768211456",
		"-340282366920938463463374607431768211457",
	}
	for _, op := range []bnfuzz.Op{bnfuzz.OpAdd, bnfuzz.OpSub, bnfuzz.OpMul, bnfuzz.OpDiv, bnfuzz.OpGCD, bnfuzz.OpMod} {
		for _, x := range edges {
			for _, y := range edges {
				tt := assert.WrapTB(t)
				a, b := bnfuzz.MustParseValue(x), bnfuzz.MustParseValue(y)
				operands := [bnfuzz.ClusterSize]bnfuzz.Value{a, b}
				out, err := Module{}.Run(bnfuzz.NewSource(nil), op, operands)
				if op == bnfuzz.OpMod && b.Sign() <= 0 {
					tt.MustAssert(bnfuzz.IsFailure(err))
					continue
				}
				tt.MustOK(err)
				tt.MustEqual(expect(op, a.Big(), b.Big()), out, "%s", op.Print(a, b))
			}
		}
	}
}

func expect(op bnfuzz.Op, a, b *big.Int) bnfuzz.Value {
	z := new(big.Int)
	switch op {
	case bnfuzz.OpAdd:
		z.Add(a, b)
	case bnfuzz.OpSub:
		z.Sub(a, b)
	case bnfuzz.OpMul:
		z.Mul(a, b)
	case bnfuzz.OpDiv:
		z.Quo(a, b)
	case bnfuzz.OpGCD:
		z.GCD(nil, nil, a, b)
	case bnfuzz.OpMod:
		z.Mod(a, b)
	}
	return bnfuzz.ValueFromBig(z)
}
