package bnfuzz

import (
	"golang.org/x/exp/constraints"
)

// MaxBits bounds every shift count or bit index that grows a result, so a
// fuzzer cannot ask for a 4 GiB integer.
const MaxBits = 1 << 16

// Module is one library adapter.
type Module interface {
	// Name is the short name the module is selected by.
	Name() string

	// Supports reports whether op is implemented at all. Run returns
	// ErrUnsupported for the others.
	Supports(op Op) bool

	// Run loads operands into four library handles, applies op, and
	// converts the result back. Every random choice is drawn from src.
	// Slots beyond op.Arity() are still loaded and should normally be 0.
	Run(src *Source, op Op, operands [ClusterSize]Value) (Value, error)
}

// Handle is the owned side of a library bignum: the adapter's Bignum type.
// The storage it holds is returned by Release and must not be used after.
type Handle interface {
	Set(src *Source, v Value) error
	Get(src *Source) (Value, error)
	Release()
}

// Execute runs one op invocation for an adapter. It allocates four operand
// handles and a result handle with alloc, sets the operands in slot order,
// builds the cluster over the native objects returned by native, calls fn,
// and reads the result back. Every handle is released before Execute
// returns, on every path.
func Execute[H Handle, N any](
	src *Source,
	operands [ClusterSize]Value,
	alloc func() H,
	native func(H) N,
	equal func(a, b N) bool,
	fn func(ds *Source, res H, bn *Cluster[N]) error,
) (Value, error) {
	var slots [ClusterSize]N
	for i, v := range operands {
		h := alloc()
		defer h.Release()
		if err := h.Set(src, v); err != nil {
			return Value{}, err
		}
		slots[i] = native(h)
	}

	res := alloc()
	defer res.Release()

	if err := fn(src, res, NewCluster(src, equal, slots)); err != nil {
		return Value{}, err
	}
	return res.Get(src)
}

// Narrow converts v to a smaller unsigned type, reporting false if it does
// not fit.
func Narrow[T constraints.Unsigned](v uint64) (T, bool) {
	t := T(v)
	return t, uint64(t) == v
}

// NarrowInt converts v to a smaller signed type, reporting false if it does
// not fit.
func NarrowInt[T constraints.Signed](v int64) (T, bool) {
	t := T(v)
	return t, int64(t) == v
}

// Flag returns 1 for true and 0 for false, for ops with boolean results.
func Flag(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
