package bnfuzz

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/shabbyrobe/golib/assert"
)

type execLog struct {
	allocs, releases int
	sets             []Value
	failSet          Value
}

type testHandle struct {
	log *execLog
	v   Value
}

func (h *testHandle) Set(src *Source, v Value) error {
	if !h.log.failSet.IsZero() && v == h.log.failSet {
		return Inapplicable("set %s", v)
	}
	h.log.sets = append(h.log.sets, v)
	h.v = v
	return nil
}

func (h *testHandle) Get(src *Source) (Value, error) { return h.v, nil }
func (h *testHandle) Release()                       { h.log.releases++ }

func execTest(log *execLog, operands [ClusterSize]Value, fn func(ds *Source, res *testHandle, bn *Cluster[Value]) error) (Value, error) {
	return Execute(NewSource(nil), operands,
		func() *testHandle { log.allocs++; return &testHandle{log: log} },
		func(h *testHandle) Value { return h.v },
		func(a, b Value) bool { return a == b },
		fn,
	)
}

var execOperands = [ClusterSize]Value{ValueFromInt64(1), ValueFromInt64(2), ValueFromInt64(3), ValueFromInt64(4)}

func TestExecute(t *testing.T) {
	tt := assert.WrapTB(t)
	log := &execLog{}
	out, err := execTest(log, execOperands, func(ds *Source, res *testHandle, bn *Cluster[Value]) error {
		res.v = bn.At(1)
		return nil
	})
	tt.MustOK(err)
	tt.MustEqual(ValueFromInt64(2), out)
	tt.MustEqual(execOperands[:], log.sets[:ClusterSize])
	tt.MustEqual(5, log.allocs)
	tt.MustEqual(5, log.releases)
}

func TestExecuteSetFailure(t *testing.T) {
	tt := assert.WrapTB(t)
	log := &execLog{failSet: ValueFromInt64(3)}
	called := false
	_, err := execTest(log, execOperands, func(ds *Source, res *testHandle, bn *Cluster[Value]) error {
		called = true
		return nil
	})
	tt.MustAssert(errors.Is(err, ErrInapplicable))
	tt.MustAssert(!called)
	tt.MustEqual(3, log.allocs)
	tt.MustEqual(3, log.releases)
}

func TestExecuteOpFailure(t *testing.T) {
	tt := assert.WrapTB(t)
	log := &execLog{}
	_, err := execTest(log, execOperands, func(ds *Source, res *testHandle, bn *Cluster[Value]) error {
		return Inapplicable("nope")
	})
	tt.MustAssert(IsFailure(err))
	tt.MustEqual(5, log.allocs)
	tt.MustEqual(5, log.releases)
}

func TestNarrow(t *testing.T) {
	tt := assert.WrapTB(t)

	u8, ok := Narrow[uint8](255)
	tt.MustAssert(ok)
	tt.MustEqual(uint8(255), u8)

	_, ok = Narrow[uint8](256)
	tt.MustAssert(!ok)

	_, ok = Narrow[uint32](1 << 40)
	tt.MustAssert(!ok)

	i8, ok := NarrowInt[int8](-128)
	tt.MustAssert(ok)
	tt.MustEqual(int8(-128), i8)

	_, ok = NarrowInt[int8](-129)
	tt.MustAssert(!ok)
}

func TestFlag(t *testing.T) {
	tt := assert.WrapTB(t)
	tt.MustEqual(int64(1), Flag(true))
	tt.MustEqual(int64(0), Flag(false))
}
