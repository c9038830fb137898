/*
Package bnfuzz provides the shared operation model for differential fuzzing
of arbitrary-precision integer libraries.

Several bignum implementations are driven with the same operands and the
same stream of fuzzer bytes, and the results are compared. For that to be
sound every library adapter (a Module) follows the same contract:

	- a Source (the "oracle") hands out typed values from a finite byte
	  stream; every random choice an adapter makes comes from it, so a run
	  is replayable from its bytes;
	- a Value is the library-neutral form of a signed integer, in canonical
	  decimal;
	- an Op names one operation with fixed operand slots and a fixed
	  success/failure meaning.

Simple example:

	src := bnfuzz.NewSource(data)
	out, err := mod.Run(src, bnfuzz.OpDiv, [bnfuzz.ClusterSize]bnfuzz.Value{
		bnfuzz.ValueFromInt64(10),
		bnfuzz.ValueFromInt64(3),
	})
	fmt.Println(out, err)
	// Output: 3 <nil>

Operands are held in a Cluster of four slots. Reading a slot may, at the
oracle's whim, hand back a different slot holding an equal value, which
exercises the library's handling of aliased arguments without changing
what the operation means.

Values support the following formatting and marshalling interfaces:

	- fmt.Stringer
	- json.Marshaler
	- json.Unmarshaler
	- encoding.TextMarshaler
	- encoding.TextUnmarshaler

*/
package bnfuzz
