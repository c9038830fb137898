package bnfuzz

import (
	"testing"

	"github.com/shabbyrobe/golib/assert"
)

func intEqual(a, b *int) bool { return *a == *b }

func intSlots(vs ...int) (slots [ClusterSize]*int) {
	for i := range slots {
		v := vs[i]
		slots[i] = &v
	}
	return slots
}

func TestClusterExhaustedNeverRewires(t *testing.T) {
	tt := assert.WrapTB(t)
	slots := intSlots(7, 7, 7, 7)
	c := NewCluster(NewSource(nil), intEqual, slots)
	for i := 0; i < ClusterSize; i++ {
		tt.MustAssert(c.At(i) == slots[i])
	}
	tt.MustEqual(0, c.Rewired())
}

func TestClusterNilSource(t *testing.T) {
	tt := assert.WrapTB(t)
	slots := intSlots(7, 7, 7, 7)
	c := NewCluster[*int](nil, intEqual, slots)
	tt.MustAssert(c.At(2) == slots[2])
	tt.MustEqual(0, c.Rewired())
}

func TestClusterRewiresEqualSlot(t *testing.T) {
	tt := assert.WrapTB(t)
	slots := intSlots(7, 7, 0, 0)
	src := NewSource([]byte{1, 1})
	c := NewCluster(src, intEqual, slots)

	got := c.At(0)
	tt.MustAssert(got == slots[1], "slot 1 should have been substituted")
	tt.MustEqual(7, *got)
	tt.MustEqual(1, c.Rewired())
	tt.MustEqual(2, src.Consumed())
}

func TestClusterNeverRewiresUnequalSlot(t *testing.T) {
	tt := assert.WrapTB(t)
	slots := intSlots(1, 2, 3, 4)
	src := NewSource([]byte{1, 1, 1, 2, 1, 3, 1, 0})
	c := NewCluster(src, intEqual, slots)
	for i := 0; i < ClusterSize; i++ {
		tt.MustAssert(c.At(i) == slots[i])
	}
	tt.MustEqual(0, c.Rewired())
	tt.MustEqual(8, src.Consumed())
}

func TestClusterSameIndex(t *testing.T) {
	tt := assert.WrapTB(t)
	slots := intSlots(5, 5, 5, 5)
	c := NewCluster(NewSource([]byte{1, 4, 1, 6}), intEqual, slots)
	tt.MustAssert(c.At(0) == slots[0])
	tt.MustEqual(0, c.Rewired())
	tt.MustAssert(c.At(1) == slots[2])
	tt.MustEqual(1, c.Rewired())
}

func TestClusterFalseDrawsOneByte(t *testing.T) {
	tt := assert.WrapTB(t)
	slots := intSlots(3, 3, 3, 3)
	src := NewSource([]byte{0, 1, 3})
	c := NewCluster(src, intEqual, slots)

	tt.MustAssert(c.At(0) == slots[0])
	tt.MustEqual(1, src.Consumed())

	tt.MustAssert(c.At(0) == slots[3])
	tt.MustEqual(3, src.Consumed())
}

func TestClusterShortRewireByte(t *testing.T) {
	tt := assert.WrapTB(t)
	slots := intSlots(3, 3, 3, 3)
	src := NewSource([]byte{1})
	c := NewCluster(src, intEqual, slots)
	tt.MustAssert(c.At(1) == slots[1])
	tt.MustEqual(0, c.Rewired())
}

func TestClusterSlotDoesNotDraw(t *testing.T) {
	tt := assert.WrapTB(t)
	slots := intSlots(3, 3, 3, 3)
	src := NewSource([]byte{1, 1})
	c := NewCluster(src, intEqual, slots)
	tt.MustAssert(c.Slot(0) == slots[0])
	tt.MustEqual(0, src.Consumed())
}

func TestClusterIndexOutOfRange(t *testing.T) {
	tt := assert.WrapTB(t)
	c := NewCluster(NewSource(nil), intEqual, intSlots(0, 0, 0, 0))
	tt.MustAssert(panics(func() { c.At(-1) }))
	tt.MustAssert(panics(func() { c.At(ClusterSize) }))
	tt.MustAssert(panics(func() { c.Slot(ClusterSize) }))
}
