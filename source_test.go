package bnfuzz

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/shabbyrobe/golib/assert"
)

func TestSourceReads(t *testing.T) {
	tt := assert.WrapTB(t)
	src := NewSource([]byte{
		0x01,
		0x02,
		0x03, 0x04,
		0x05, 0x06, 0x07, 0x08,
		0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
		0x11, 0x12,
	})

	b, err := src.Bool()
	tt.MustOK(err)
	tt.MustAssert(b)

	u8, err := src.Uint8()
	tt.MustOK(err)
	tt.MustEqual(uint8(0x02), u8)

	u16, err := src.Uint16()
	tt.MustOK(err)
	tt.MustEqual(uint16(0x0403), u16)

	u32, err := src.Uint32()
	tt.MustOK(err)
	tt.MustEqual(uint32(0x08070605), u32)

	u64, err := src.Uint64()
	tt.MustOK(err)
	tt.MustEqual(uint64(0x100f0e0d0c0b0a09), u64)

	tt.MustEqual(16, src.Consumed())
	tt.MustEqual(2, src.Remaining())

	bts, err := src.Bytes(2)
	tt.MustOK(err)
	tt.MustEqual([]byte{0x11, 0x12}, bts)
	tt.MustEqual(0, src.Remaining())
}

func TestSourceBoolIsLowBit(t *testing.T) {
	tt := assert.WrapTB(t)
	src := NewSource([]byte{0x02, 0xff, 0x00})
	for _, exp := range []bool{false, true, false} {
		b, err := src.Bool()
		tt.MustOK(err)
		tt.MustEqual(exp, b)
	}
}

func TestSourceOutOfDataConsumesNothing(t *testing.T) {
	tt := assert.WrapTB(t)
	src := NewSource([]byte{1, 2})

	_, err := src.Uint32()
	tt.MustAssert(errors.Is(err, ErrOutOfData))
	tt.MustEqual(0, src.Consumed())

	_, err = src.Uint64()
	tt.MustAssert(errors.Is(err, ErrOutOfData))

	_, err = src.Bytes(3)
	tt.MustAssert(errors.Is(err, ErrOutOfData))
	tt.MustEqual(2, src.Remaining())

	u16, err := src.Uint16()
	tt.MustOK(err)
	tt.MustEqual(uint16(0x0201), u16)

	_, err = src.Bool()
	tt.MustAssert(errors.Is(err, ErrOutOfData))
	_, err = src.Uint8()
	tt.MustAssert(errors.Is(err, ErrOutOfData))
}

func TestSourceData(t *testing.T) {
	tt := assert.WrapTB(t)

	src := NewSource([]byte{2, 0, 0, 0, 'a', 'b', 'c'})
	d, err := src.Data()
	tt.MustOK(err)
	tt.MustEqual([]byte("ab"), d)
	tt.MustEqual(1, src.Remaining())

	// The length stays consumed when the body is short.
	src = NewSource([]byte{5, 0, 0, 0, 'a'})
	_, err = src.Data()
	tt.MustAssert(errors.Is(err, ErrOutOfData))
	tt.MustEqual(4, src.Consumed())

	src = NewSource([]byte{0, 0, 0, 0})
	d, err = src.Data()
	tt.MustOK(err)
	tt.MustEqual(0, len(d))
}

func TestSourceBytesCopies(t *testing.T) {
	tt := assert.WrapTB(t)
	data := []byte{1, 2, 3}
	bts, err := NewSource(data).Bytes(3)
	tt.MustOK(err)
	bts[0] = 9
	tt.MustEqual(byte(1), data[0])
}

func TestSourceChoose(t *testing.T) {
	tt := assert.WrapTB(t)
	src := NewSource([]byte{7, 3, 255})
	tt.MustEqual(1, src.Choose(3))
	tt.MustEqual(0, src.Choose(3))
	tt.MustEqual(0, src.Choose(1))

	// Exhausted.
	tt.MustEqual(0, src.Choose(3))
	tt.MustEqual(0, src.Choose(200))
	tt.MustEqual(3, src.Consumed())

	tt.MustAssert(panics(func() { src.Choose(0) }))
}

func TestSourceDeterministic(t *testing.T) {
	tt := assert.WrapTB(t)
	data := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02, 0x03}

	read := func(src *Source) (out []interface{}) {
		b, _ := src.Bool()
		c := src.Choose(5)
		u, _ := src.Uint16()
		d, err := src.Uint32()
		return append(out, b, c, u, d, err)
	}
	tt.MustEqual(read(NewSource(data)), read(NewSource(data)))
}

func panics(fn func()) (did bool) {
	defer func() {
		if r := recover(); r != nil {
			did = true
		}
	}()
	fn()
	return false
}
