package bnfuzz

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrOutOfData is returned by a Source when a request needs more bytes
	// than remain. Nothing is consumed by a failed request.
	ErrOutOfData = errors.New("bnfuzz: out of data")

	// ErrUnsupported is returned by a Module for an Op its library cannot
	// express.
	ErrUnsupported = errors.New("bnfuzz: unsupported op")

	// ErrInapplicable is returned when an operand lies outside an Op's
	// domain: a zero divisor, a non-positive modulus, a shift count that is
	// not a small integer, and so on.
	ErrInapplicable = errors.New("bnfuzz: op inapplicable to operands")
)

// ParseError reports a numeric string that could not be read in the given
// base.
type ParseError struct {
	Input  string
	Base   int
	Module string
}

func (e *ParseError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("bnfuzz: %s: invalid base %d integer %q", e.Module, e.Base, e.Input)
	}
	return fmt.Sprintf("bnfuzz: invalid base %d integer %q", e.Base, e.Input)
}

// OverflowError reports a value that does not fit its destination.
type OverflowError struct {
	Bits   int    // Bit length of the magnitude that did not fit.
	Target string // What it did not fit into, i.e. "uint256" or "32 bytes".
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("bnfuzz: %d-bit value overflows %s", e.Bits, e.Target)
}

// NativeError wraps a failure reported by a library call.
type NativeError struct {
	Module string
	Call   string
	Err    error
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("bnfuzz: %s: %s failed: %v", e.Module, e.Call, e.Err)
}

func (e *NativeError) Unwrap() error { return e.Err }

// Inapplicable returns an error wrapping ErrInapplicable.
func Inapplicable(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInapplicable, format, args...)
}

// Unsupported returns an error wrapping ErrUnsupported, naming the module
// and op.
func Unsupported(module string, op Op) error {
	return errors.Wrapf(ErrUnsupported, "%s: %s", module, op)
}

// IsFailure reports whether err is an ordinary operation failure: the
// operation ran, or tried to, and did not produce a result. ErrUnsupported
// is not a failure; the operation was never attempted.
func IsFailure(err error) bool {
	if err == nil || errors.Is(err, ErrUnsupported) {
		return false
	}
	if errors.Is(err, ErrInapplicable) || errors.Is(err, ErrOutOfData) {
		return true
	}
	var perr *ParseError
	var oerr *OverflowError
	var nerr *NativeError
	return errors.As(err, &perr) || errors.As(err, &oerr) || errors.As(err, &nerr)
}
