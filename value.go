package bnfuzz

import (
	"math/big"
	"strconv"
	"strings"
)

// Value is the library-neutral form of an arbitrary-precision signed
// integer, held as canonical decimal text. The zero Value is 0, and two
// Values are equal under == exactly when the integers are equal.
type Value struct {
	s string // "" for zero, otherwise decimal with no leading zeros or '+'.
}

var (
	Zero = Value{}
	One  = Value{s: "1"}
)

// ParseValue reads a decimal integer. A leading '+' or '-' and leading
// zeros are accepted; "-0" is 0.
func ParseValue(s string) (Value, error) {
	return ParseValueText(s, 10)
}

// MustParseValue is ParseValue for literals known to be valid.
func MustParseValue(s string) Value {
	v, err := ParseValue(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseValueText reads an integer in the given base, which follows the
// rules of big.Int.SetString: 2 to 62, or 0 to detect a "0x", "0o" or "0b"
// prefix.
func ParseValueText(s string, base int) (Value, error) {
	b, ok := new(big.Int).SetString(s, base)
	if !ok {
		return Value{}, &ParseError{Input: s, Base: base}
	}
	return ValueFromBig(b), nil
}

func ValueFromInt64(v int64) Value {
	if v == 0 {
		return Value{}
	}
	return Value{s: strconv.FormatInt(v, 10)}
}

func ValueFromUint64(v uint64) Value {
	if v == 0 {
		return Value{}
	}
	return Value{s: strconv.FormatUint(v, 10)}
}

// ValueFromBig copies b into a Value. A nil b is 0.
func ValueFromBig(b *big.Int) Value {
	if b == nil || b.Sign() == 0 {
		return Value{}
	}
	return Value{s: b.String()}
}

// ValueFromBinary decodes an unsigned big-endian magnitude. Empty input is 0.
func ValueFromBinary(b []byte) Value {
	return ValueFromBig(new(big.Int).SetBytes(b))
}

// Big returns v as a newly allocated big.Int.
func (v Value) Big() *big.Int {
	return v.IntoBig(new(big.Int))
}

// IntoBig writes v into b and returns it, to save allocations.
func (v Value) IntoBig(b *big.Int) *big.Int {
	if v.s == "" {
		return b.SetInt64(0)
	}
	if _, ok := b.SetString(v.s, 10); !ok {
		panic("bnfuzz: corrupt value " + strconv.Quote(v.s))
	}
	return b
}

func (v Value) String() string {
	if v.s == "" {
		return "0"
	}
	return v.s
}

// Text returns v in the given base: an optional '-', then lower case
// digits with no prefix.
func (v Value) Text(base int) string {
	if base == 10 {
		return v.String()
	}
	return v.Big().Text(base)
}

func (v Value) Hex() string { return v.Text(16) }

func (v Value) Sign() int {
	switch {
	case v.s == "":
		return 0
	case v.s[0] == '-':
		return -1
	default:
		return 1
	}
}

func (v Value) IsZero() bool { return v.s == "" }

func (v Value) Neg() Value {
	switch v.Sign() {
	case 0:
		return v
	case -1:
		return Value{s: v.s[1:]}
	default:
		return Value{s: "-" + v.s}
	}
}

func (v Value) Abs() Value {
	if v.Sign() < 0 {
		return Value{s: v.s[1:]}
	}
	return v
}

// Cmp compares v and n and returns -1, 0 or 1.
func (v Value) Cmp(n Value) int {
	vs, ns := v.Sign(), n.Sign()
	if vs != ns {
		if vs < ns {
			return -1
		}
		return 1
	}
	c := cmpDigits(v.Abs().s, n.Abs().s)
	if vs < 0 {
		return -c
	}
	return c
}

// CmpAbs compares |v| and |n|.
func (v Value) CmpAbs(n Value) int {
	return cmpDigits(v.Abs().s, n.Abs().s)
}

func cmpDigits(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func (v Value) Equal(n Value) bool { return v.s == n.s }

// Int64 returns v and true if v fits in an int64.
func (v Value) Int64() (int64, bool) {
	if v.s == "" {
		return 0, true
	}
	i, err := strconv.ParseInt(v.s, 10, 64)
	return i, err == nil
}

// Uint64 returns v and true if v is non-negative and fits in a uint64.
func (v Value) Uint64() (uint64, bool) {
	if v.s == "" {
		return 0, true
	}
	u, err := strconv.ParseUint(v.s, 10, 64)
	return u, err == nil
}

// BitLen returns the length of |v| in bits. The bit length of 0 is 0.
func (v Value) BitLen() int {
	if v.s == "" {
		return 0
	}
	return v.Big().BitLen()
}

// Bytes returns the minimal big-endian magnitude of v, empty for 0.
func (v Value) Bytes() []byte {
	return v.Big().Bytes()
}

// ToBinary returns |v| as exactly width big-endian bytes, zero padded on the
// left. The sign is dropped.
func (v Value) ToBinary(width int) ([]byte, error) {
	b := v.Big()
	if width < 0 || (b.BitLen()+7)/8 > width {
		return nil, &OverflowError{Bits: b.BitLen(), Target: strconv.Itoa(width) + " bytes"}
	}
	return b.FillBytes(make([]byte, width)), nil
}

// PairToBinary writes a and b into the two halves of a size-byte buffer.
// size must be even.
func PairToBinary(a, b Value, size int) ([]byte, error) {
	if size%2 != 0 {
		panic("bnfuzz: odd pair size")
	}
	half := size / 2
	ab, err := a.ToBinary(half)
	if err != nil {
		return nil, err
	}
	bb, err := b.ToBinary(half)
	if err != nil {
		return nil, err
	}
	return append(ab, bb...), nil
}

// PairFromBinary splits buf into two equal halves and decodes each.
// len(buf) must be even.
func PairFromBinary(buf []byte) (a, b Value) {
	if len(buf)%2 != 0 {
		panic("bnfuzz: odd pair size")
	}
	half := len(buf) / 2
	return ValueFromBinary(buf[:half]), ValueFromBinary(buf[half:])
}

func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Value) UnmarshalText(bts []byte) (err error) {
	*v, err = ParseValue(string(bts))
	return err
}

func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted decimal string or a bare JSON integer.
func (v *Value) UnmarshalJSON(bts []byte) (err error) {
	if len(bts) >= 2 && bts[0] == '"' {
		ln := len(bts)
		if bts[ln-1] != '"' {
			return &ParseError{Input: string(bts), Base: 10}
		}
		bts = bts[1 : ln-1]
	}
	*v, err = ParseValue(string(bts))
	return err
}
