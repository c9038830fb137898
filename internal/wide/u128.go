package wide

import (
	"math/bits"

	"github.com/cockroachdb/errors"
)

const (
	maxUint64 = 1<<64 - 1
	signBit   = 0x8000000000000000
	signMask  = 0x7FFFFFFFFFFFFFFF

	digits = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var (
	// ErrRange is returned when parsed text does not fit the type.
	ErrRange = errors.New("wide: value out of range")

	// ErrSyntax is returned for text that is not an integer in the base.
	ErrSyntax = errors.New("wide: invalid syntax")
)

var MaxU128 = U128{hi: maxUint64, lo: maxUint64}

// U128 is an unsigned 128-bit integer. It is a value type; all operations
// return new values.
type U128 struct {
	hi, lo uint64
}

func U128FromRaw(hi, lo uint64) U128 { return U128{hi: hi, lo: lo} }
func U128From64(v uint64) U128       { return U128{lo: v} }

// ParseU128 reads an unsigned integer in base 2 to 36, without prefix.
func ParseU128(s string, base int) (U128, error) {
	if base < 2 || base > len(digits) {
		return U128{}, errors.Newf("wide: invalid base %d", base)
	}
	if s == "" {
		return U128{}, errors.Wrapf(ErrSyntax, "%q", s)
	}

	var u U128
	b := U128From64(uint64(base))
	for i := 0; i < len(s); i++ {
		d := digitVal(s[i])
		if d >= uint64(base) {
			return U128{}, errors.Wrapf(ErrSyntax, "%q", s)
		}
		var over1, over2 bool
		u, over1 = u.MulOverflow(b)
		u, over2 = u.AddOverflow(U128From64(d))
		if over1 || over2 {
			return U128{}, errors.Wrapf(ErrRange, "%q", s)
		}
	}
	return u, nil
}

func digitVal(c byte) uint64 {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0')
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return uint64(c-'A') + 10
	}
	return maxUint64
}

// Raw returns the hi and lo words of u.
func (u U128) Raw() (hi, lo uint64) { return u.hi, u.lo }

func (u U128) IsZero() bool   { return u.hi|u.lo == 0 }
func (u U128) IsUint64() bool { return u.hi == 0 }

func (u U128) Cmp(n U128) int {
	switch {
	case u == n:
		return 0
	case u.hi < n.hi || (u.hi == n.hi && u.lo < n.lo):
		return -1
	default:
		return 1
	}
}

// Add returns u+n, wrapping on overflow.
func (u U128) Add(n U128) U128 {
	v, _ := u.AddOverflow(n)
	return v
}

// AddOverflow returns u+n, wrapped, and whether it overflowed.
func (u U128) AddOverflow(n U128) (v U128, overflow bool) {
	var carry uint64
	v.lo, carry = bits.Add64(u.lo, n.lo, 0)
	v.hi, carry = bits.Add64(u.hi, n.hi, carry)
	return v, carry != 0
}

// Sub returns u-n, wrapping on underflow.
func (u U128) Sub(n U128) U128 {
	v, _ := u.SubOverflow(n)
	return v
}

// SubOverflow returns u-n, wrapped, and whether it underflowed.
func (u U128) SubOverflow(n U128) (v U128, overflow bool) {
	var borrow uint64
	v.lo, borrow = bits.Sub64(u.lo, n.lo, 0)
	v.hi, borrow = bits.Sub64(u.hi, n.hi, borrow)
	return v, borrow != 0
}

// Mul returns the low 128 bits of u*n.
func (u U128) Mul(n U128) U128 {
	hi, lo := bits.Mul64(u.lo, n.lo)
	hi += u.hi*n.lo + u.lo*n.hi
	return U128{hi: hi, lo: lo}
}

// MulOverflow returns the low 128 bits of u*n and whether any higher bit
// was set.
func (u U128) MulOverflow(n U128) (U128, bool) {
	if u.hi != 0 && n.hi != 0 {
		return u.Mul(n), true
	}
	hi, lo := bits.Mul64(u.lo, n.lo)
	c1hi, c1 := bits.Mul64(u.hi, n.lo)
	c2hi, c2 := bits.Mul64(u.lo, n.hi)

	var k1, k2 uint64
	hi, k1 = bits.Add64(hi, c1, 0)
	hi, k2 = bits.Add64(hi, c2, 0)
	return U128{hi: hi, lo: lo}, c1hi|c2hi|k1|k2 != 0
}

// QuoRem returns the quotient and remainder of u/by. It panics if by is 0.
func (u U128) QuoRem(by U128) (q, r U128) {
	if by.IsZero() {
		panic("u128: division by zero")
	}

	if by.hi == 0 {
		var rem uint64
		q, rem = u.quoRem64(by.lo)
		return q, U128{lo: rem}
	}

	// Estimate from the top word of the normalised divisor; the estimate is
	// at most one too large after the decrement, corrected below.
	sh := uint(bits.LeadingZeros64(by.hi))
	v1 := by.Lsh(sh)
	u1 := u.Rsh(1)

	tq, _ := bits.Div64(u1.hi, u1.lo, v1.hi)
	tq >>= 63 - sh
	if tq != 0 {
		tq--
	}
	q = U128{lo: tq}
	r = u.Sub(by.Mul(q))
	if r.Cmp(by) >= 0 {
		q = q.Add(U128{lo: 1})
		r = r.Sub(by)
	}
	return q, r
}

func (u U128) quoRem64(v uint64) (q U128, r uint64) {
	q.hi, r = bits.Div64(0, u.hi, v)
	q.lo, r = bits.Div64(r, u.lo, v)
	return q, r
}

func (u U128) Lsh(n uint) U128 {
	switch {
	case n == 0:
		return u
	case n >= 128:
		return U128{}
	case n >= 64:
		return U128{hi: u.lo << (n - 64)}
	}
	return U128{hi: u.hi<<n | u.lo>>(64-n), lo: u.lo << n}
}

func (u U128) Rsh(n uint) U128 {
	switch {
	case n == 0:
		return u
	case n >= 128:
		return U128{}
	case n >= 64:
		return U128{lo: u.hi >> (n - 64)}
	}
	return U128{hi: u.hi >> n, lo: u.lo>>n | u.hi<<(64-n)}
}

// Bit returns bit n of u; bits past 127 are 0.
func (u U128) Bit(n uint) uint {
	switch {
	case n >= 128:
		return 0
	case n >= 64:
		return uint(u.hi>>(n-64)) & 1
	}
	return uint(u.lo>>n) & 1
}

// BitLen returns the number of bits needed to represent u.
func (u U128) BitLen() int {
	if u.hi != 0 {
		return 64 + bits.Len64(u.hi)
	}
	return bits.Len64(u.lo)
}

// TrailingZeros returns the number of trailing zero bits; 128 for 0.
func (u U128) TrailingZeros() uint {
	if u.lo != 0 {
		return uint(bits.TrailingZeros64(u.lo))
	}
	if u.hi != 0 {
		return 64 + uint(bits.TrailingZeros64(u.hi))
	}
	return 128
}

// Text returns u in base 2 to 36, lower case, without prefix.
func (u U128) Text(base int) string {
	if base < 2 || base > len(digits) {
		panic("u128: invalid base")
	}
	if u.IsZero() {
		return "0"
	}
	var buf [128]byte
	i := len(buf)
	for !u.IsZero() {
		var d uint64
		u, d = u.quoRem64(uint64(base))
		i--
		buf[i] = digits[d]
	}
	return string(buf[i:])
}

func (u U128) String() string { return u.Text(10) }
