package wide

import (
	"math/bits"

	"github.com/cockroachdb/errors"
)

var (
	MaxI128 = I128{hi: signMask, lo: maxUint64}
	MinI128 = I128{hi: signBit, lo: 0}

	minI128Abs = U128{hi: signBit}
)

// I128 is a signed 128-bit two's complement integer. It is a value type;
// all operations return new values. Plain arithmetic wraps; the *Overflow
// variants report when the exact result does not fit.
type I128 struct {
	hi, lo uint64
}

// I128FromRaw is the complement to I128.Raw(); it creates an I128 from two
// uint64s representing the hi and lo bits.
func I128FromRaw(hi, lo uint64) I128 { return I128{hi: hi, lo: lo} }

func I128From64(v int64) I128 {
	var hi uint64
	if v < 0 {
		hi = maxUint64
	}
	return I128{hi: hi, lo: uint64(v)}
}

func I128FromU64(v uint64) I128 { return I128{lo: v} }

// ParseI128 reads an optionally signed integer in base 2 to 36, without
// prefix. Values outside [MinI128, MaxI128] return ErrRange.
func ParseI128(s string, base int) (I128, error) {
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	m, err := ParseU128(s, base)
	if err != nil {
		return I128{}, err
	}
	i, overflow := fromMagnitude(m, neg)
	if overflow {
		return I128{}, errors.Wrapf(ErrRange, "%q", s)
	}
	return i, nil
}

// fromMagnitude applies a sign to a magnitude.
func fromMagnitude(m U128, neg bool) (I128, bool) {
	i := I128{hi: m.hi, lo: m.lo}
	if neg {
		return i.Neg(), m.Cmp(minI128Abs) > 0
	}
	return i, m.hi&signBit != 0
}

func (i I128) Raw() (hi, lo uint64) { return i.hi, i.lo }

func (i I128) IsZero() bool { return i.hi|i.lo == 0 }

func (i I128) Sign() int {
	switch {
	case i.hi&signBit != 0:
		return -1
	case i.hi|i.lo == 0:
		return 0
	}
	return 1
}

func (i I128) Equal(n I128) bool { return i == n }

func (i I128) Cmp(n I128) int {
	if i.hi == n.hi {
		switch {
		case i.lo == n.lo:
			return 0
		case i.lo < n.lo:
			return -1
		}
		return 1
	}
	if int64(i.hi) < int64(n.hi) {
		return -1
	}
	return 1
}

// IsInt64 reports whether i can be represented as an int64.
func (i I128) IsInt64() bool {
	if i.hi&signBit != 0 {
		return i.hi == maxUint64 && i.lo >= 0x8000000000000000
	}
	return i.hi == 0 && i.lo <= signMask
}

// AsInt64 truncates i to an int64.
func (i I128) AsInt64() int64 { return int64(i.lo) }

// IsUint64 reports whether i is non-negative and fits in a uint64.
func (i I128) IsUint64() bool { return i.hi == 0 }

func (i I128) AsUint64() uint64 { return i.lo }

// Neg returns -i. Neg(MinI128) is MinI128.
func (i I128) Neg() I128 {
	lo, borrow := bits.Sub64(0, i.lo, 0)
	hi, _ := bits.Sub64(0, i.hi, borrow)
	return I128{hi: hi, lo: lo}
}

// AbsU128 returns |i| as an unsigned value, which always fits.
func (i I128) AbsU128() U128 {
	if i.hi&signBit != 0 {
		n := i.Neg()
		return U128{hi: n.hi, lo: n.lo}
	}
	return U128{hi: i.hi, lo: i.lo}
}

func (i I128) Add(n I128) I128 {
	lo, carry := bits.Add64(i.lo, n.lo, 0)
	hi, _ := bits.Add64(i.hi, n.hi, carry)
	return I128{hi: hi, lo: lo}
}

// AddOverflow returns i+n, wrapped, and whether the exact sum did not fit.
func (i I128) AddOverflow(n I128) (I128, bool) {
	s := i.Add(n)
	return s, (i.hi^s.hi)&(n.hi^s.hi)&signBit != 0
}

func (i I128) Sub(n I128) I128 {
	lo, borrow := bits.Sub64(i.lo, n.lo, 0)
	hi, _ := bits.Sub64(i.hi, n.hi, borrow)
	return I128{hi: hi, lo: lo}
}

// SubOverflow returns i-n, wrapped, and whether the exact difference did
// not fit.
func (i I128) SubOverflow(n I128) (I128, bool) {
	d := i.Sub(n)
	return d, (i.hi^n.hi)&(i.hi^d.hi)&signBit != 0
}

// Mul returns the low 128 bits of i*n.
func (i I128) Mul(n I128) I128 {
	hi, lo := bits.Mul64(i.lo, n.lo)
	hi += i.hi*n.lo + i.lo*n.hi
	return I128{hi: hi, lo: lo}
}

// MulOverflow returns i*n, wrapped, and whether the exact product did not
// fit.
func (i I128) MulOverflow(n I128) (I128, bool) {
	m, overflow := i.AbsU128().MulOverflow(n.AbsU128())
	if overflow {
		return i.Mul(n), true
	}
	p, overflow := fromMagnitude(m, (i.hi^n.hi)&signBit != 0)
	if overflow {
		return i.Mul(n), true
	}
	return p, false
}

// QuoRem returns the quotient truncated towards zero and the remainder,
// which has the sign of i. It panics if by is 0. MinI128 / -1 wraps to
// MinI128.
func (i I128) QuoRem(by I128) (q, r I128) {
	if by.IsZero() {
		panic("i128: division by zero")
	}
	qm, rm := i.AbsU128().QuoRem(by.AbsU128())
	q = I128{hi: qm.hi, lo: qm.lo}
	r = I128{hi: rm.hi, lo: rm.lo}
	if (i.hi^by.hi)&signBit != 0 {
		q = q.Neg()
	}
	if i.hi&signBit != 0 {
		r = r.Neg()
	}
	return q, r
}

// Lsh returns i<<n, wrapping.
func (i I128) Lsh(n uint) I128 {
	u := U128{hi: i.hi, lo: i.lo}.Lsh(n)
	return I128{hi: u.hi, lo: u.lo}
}

// Rsh returns i>>n as an arithmetic shift, rounding towards negative
// infinity.
func (i I128) Rsh(n uint) I128 {
	switch {
	case n == 0:
		return i
	case n >= 128:
		s := uint64(int64(i.hi) >> 63)
		return I128{hi: s, lo: s}
	case n >= 64:
		return I128{hi: uint64(int64(i.hi) >> 63), lo: uint64(int64(i.hi) >> (n - 64))}
	}
	return I128{hi: uint64(int64(i.hi) >> n), lo: i.lo>>n | i.hi<<(64-n)}
}

// Bit returns bit n of the two's complement form of i. Bits past 127 repeat
// the sign bit.
func (i I128) Bit(n uint) uint {
	if n >= 128 {
		return uint(i.hi >> 63)
	}
	return U128{hi: i.hi, lo: i.lo}.Bit(n)
}

// SetBit returns i with bit n set. n must be less than 128.
func (i I128) SetBit(n uint) I128 {
	if n >= 128 {
		panic("i128: bit index out of range")
	}
	if n >= 64 {
		return I128{hi: i.hi | 1<<(n-64), lo: i.lo}
	}
	return I128{hi: i.hi, lo: i.lo | 1<<n}
}

// BitLen returns the bit length of |i|.
func (i I128) BitLen() int { return i.AbsU128().BitLen() }

// TrailingZeros returns the number of trailing zero bits; 128 for 0.
func (i I128) TrailingZeros() uint {
	return U128{hi: i.hi, lo: i.lo}.TrailingZeros()
}

// Text returns i in base 2 to 36: an optional '-', then lower case digits.
func (i I128) Text(base int) string {
	if i.hi&signBit != 0 {
		return "-" + i.AbsU128().Text(base)
	}
	return U128{hi: i.hi, lo: i.lo}.Text(base)
}

func (i I128) String() string { return i.Text(10) }
