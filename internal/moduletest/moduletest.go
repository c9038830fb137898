// Package moduletest holds the checks every bnfuzz module's tests run, and
// the random operand source shared with the cross-module fuzzer.
package moduletest

import (
	"math/big"
	"math/rand"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cockroachdb/errors"
	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
	"github.com/shabbyrobe/go-bnfuzz/vectors"
	"github.com/shabbyrobe/golib/assert"
)

// VectorsFile is the path of the repository's known-answer vectors.
func VectorsFile() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "testdata", "vectors.yaml")
}

// RunVectors runs every known-answer vector that applies to m as a subtest.
func RunVectors(t *testing.T, m bnfuzz.Module) {
	tt := assert.WrapTB(t)
	vs, err := vectors.LoadFile(VectorsFile())
	tt.MustOK(err)
	tt.MustAssert(len(vs) > 0)

	for _, v := range vs {
		v := v
		t.Run(v.Name, func(t *testing.T) {
			r := v.Run(m)
			if r.Skipped != "" {
				t.Skip(r.Skipped)
			}
			if !r.Pass {
				t.Fatal(r)
			}
		})
	}
}

// CheckAllOps runs every op against m with random operands and oracles.
// Unsupported ops must say so without attempting anything, and supported
// ops must either succeed or fail with an ordinary failure. The same
// operands and oracle must give the same answer twice.
func CheckAllOps(t *testing.T, m bnfuzz.Module, rng *rand.Rand, iterations int) {
	r := NewRando(rng)
	for _, op := range bnfuzz.AllOps {
		op := op
		t.Run(string(op), func(t *testing.T) {
			tt := assert.WrapTB(t)
			if !m.Supports(op) {
				_, err := m.Run(bnfuzz.NewSource(nil), op, [bnfuzz.ClusterSize]bnfuzz.Value{})
				tt.MustAssert(errors.Is(err, bnfuzz.ErrUnsupported), "%s: %v", op, err)
				tt.MustAssert(!bnfuzz.IsFailure(err))
				return
			}

			for i := 0; i < iterations; i++ {
				operands := r.Operands(op, 300)
				data := r.Oracle(64)

				out1, err1 := m.Run(bnfuzz.NewSource(data), op, operands)
				tt.MustAssert(err1 == nil || bnfuzz.IsFailure(err1),
					"%s: unexpected error class: %v", op.Print(operands[:]...), err1)

				if !op.Comparable() {
					continue
				}
				out2, err2 := m.Run(bnfuzz.NewSource(data), op, operands)
				tt.MustAssert((err1 == nil) == (err2 == nil), "%s: %v != %v", op.Print(operands[:]...), err1, err2)
				tt.MustEqual(out1, out2)
			}
		})
	}
}

// CheckExhausted runs every supported op with an empty oracle and with a
// single byte of oracle, which must behave like any other oracle.
func CheckExhausted(t *testing.T, m bnfuzz.Module) {
	tt := assert.WrapTB(t)
	operands := [bnfuzz.ClusterSize]bnfuzz.Value{
		bnfuzz.ValueFromInt64(12),
		bnfuzz.ValueFromInt64(7),
		bnfuzz.ValueFromInt64(5),
	}
	for _, op := range bnfuzz.AllOps {
		if !m.Supports(op) {
			continue
		}
		for _, data := range [][]byte{nil, {0xff}} {
			src := bnfuzz.NewSource(data)
			_, err := m.Run(src, op, operands)
			tt.MustAssert(err == nil || bnfuzz.IsFailure(err), "%s: %v", op, err)
			tt.MustEqual(0, src.Remaining())
		}
	}
}

// Rando draws random operands. Bit lengths are spread evenly rather than
// clustered at the top of the range, and operands of multi-operand ops are
// sometimes the same value, which would almost never happen by chance.
type Rando struct {
	rng *rand.Rand
}

func NewRando(rng *rand.Rand) *Rando {
	return &Rando{rng: rng}
}

// Value returns a random integer of up to maxBits bits. Negative values are
// as likely as positive ones.
func (r *Rando) Value(maxBits int) bnfuzz.Value {
	bits := r.rng.Intn(maxBits+1) - 1 // +1 for "0 bits"
	if bits < 0 {
		return bnfuzz.Zero
	}
	v := new(big.Int)
	for i := 0; i < bits; i++ {
		if r.rng.Intn(2) == 1 {
			v.SetBit(v, i, 1)
		}
	}
	v.SetBit(v, bits, 1)
	if r.rng.Intn(2) == 1 {
		v.Neg(v)
	}
	return bnfuzz.ValueFromBig(v)
}

// Small returns a random non-negative integer below n, for shift counts and
// bit indexes.
func (r *Rando) Small(n int) bnfuzz.Value {
	return bnfuzz.ValueFromInt64(int64(r.rng.Intn(n)))
}

// samesies returns the number of arguments up to n - 1 that should be the
// same as the first.
func (r *Rando) samesies(n int) int {
	const samesiesChance = 0.05
	if n > 1 && r.rng.Float64() < samesiesChance {
		return r.rng.Intn(n)
	}
	return 0
}

// Operands fills the slots op reads with random values of up to maxBits
// bits. Operands that are counts or indexes are kept small, and the rest
// of the cluster stays zero.
func (r *Rando) Operands(op bnfuzz.Op, maxBits int) (out [bnfuzz.ClusterSize]bnfuzz.Value) {
	n := op.Arity()
	for i := 0; i < n; i++ {
		out[i] = r.Value(maxBits)
	}
	for i := 1; i <= r.samesies(n); i++ {
		out[i] = out[0]
	}

	switch op {
	case bnfuzz.OpRShift, bnfuzz.OpBit, bnfuzz.OpSetBit:
		out[1] = r.Small(maxBits + 16)
	case bnfuzz.OpExp2:
		out[0] = r.Small(maxBits + 16)
	case bnfuzz.OpExpMod:
		if out[1].Sign() < 0 {
			out[1] = out[1].Abs()
		}
	}
	return out
}

// Oracle returns up to n random bytes.
func (r *Rando) Oracle(n int) []byte {
	b := make([]byte, r.rng.Intn(n+1))
	r.rng.Read(b)
	return b
}
