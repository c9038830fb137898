package modules

import (
	"testing"

	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
	"github.com/shabbyrobe/golib/assert"
)

func TestNamesUnique(t *testing.T) {
	tt := assert.WrapTB(t)
	seen := map[string]bool{}
	for _, n := range Names() {
		tt.MustAssert(!seen[n], "duplicate module %q", n)
		seen[n] = true
	}
	tt.MustEqual(Reference.Name(), Names()[0])
}

func TestByName(t *testing.T) {
	tt := assert.WrapTB(t)
	m, err := ByName("U256")
	tt.MustOK(err)
	tt.MustEqual("u256", m.Name())

	_, err = ByName("gmp")
	tt.MustAssert(err != nil)
}

func TestSelect(t *testing.T) {
	tt := assert.WrapTB(t)
	ms, err := Select(nil)
	tt.MustOK(err)
	tt.MustEqual(len(All()), len(ms))

	ms, err = Select([]string{"modnat", "mathbig"})
	tt.MustOK(err)
	tt.MustEqual(2, len(ms))
	tt.MustEqual("modnat", ms[0].Name())

	_, err = Select([]string{"mathbig", "nope"})
	tt.MustAssert(err != nil)
}

// Every module answers every op with a result, an ordinary failure or
// ErrUnsupported, and Supports agrees with which.
func TestEveryOpAnswered(t *testing.T) {
	operands := [bnfuzz.ClusterSize]bnfuzz.Value{
		bnfuzz.ValueFromInt64(21), bnfuzz.ValueFromInt64(5), bnfuzz.ValueFromInt64(13),
	}
	for _, m := range All() {
		for _, op := range bnfuzz.AllOps {
			tt := assert.WrapTB(t)
			_, err := m.Run(bnfuzz.NewSource(nil), op, operands)
			if m.Supports(op) {
				tt.MustAssert(err == nil || bnfuzz.IsFailure(err), "%s %s: %v", m.Name(), op, err)
			} else {
				tt.MustAssert(err != nil && !bnfuzz.IsFailure(err), "%s %s: %v", m.Name(), op, err)
			}
		}
	}
}

func TestReferenceSupportsEverything(t *testing.T) {
	tt := assert.WrapTB(t)
	for _, op := range bnfuzz.AllOps {
		tt.MustAssert(Reference.Supports(op), "%s", op)
	}
}
