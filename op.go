package bnfuzz

import (
	"fmt"
	"strings"
)

// Op names one operation of the closed operation set. The string value is
// the op's canonical name.
type Op string

// If you add a new op, search for the string 'NEWOP' in this package and in
// every module package for all the places you need to update.
const (
	OpAdd           Op = "Add"
	OpSub           Op = "Sub"
	OpMul           Op = "Mul"
	OpDiv           Op = "Div"
	OpExpMod        Op = "ExpMod"
	OpSqr           Op = "Sqr"
	OpGCD           Op = "GCD"
	OpInvMod        Op = "InvMod"
	OpCmp           Op = "Cmp"
	OpAbs           Op = "Abs"
	OpNeg           Op = "Neg"
	OpRShift        Op = "RShift"
	OpLShift1       Op = "LShift1"
	OpIsNeg         Op = "IsNeg"
	OpIsEq          Op = "IsEq"
	OpIsZero        Op = "IsZero"
	OpIsOne         Op = "IsOne"
	OpMulMod        Op = "MulMod"
	OpAddMod        Op = "AddMod"
	OpSubMod        Op = "SubMod"
	OpSqrMod        Op = "SqrMod"
	OpBit           Op = "Bit"
	OpCmpAbs        Op = "CmpAbs"
	OpSetBit        Op = "SetBit"
	OpLCM           Op = "LCM"
	OpMod           Op = "Mod"
	OpIsEven        Op = "IsEven"
	OpIsOdd         Op = "IsOdd"
	OpMSB           Op = "MSB"
	OpNumBits       Op = "NumBits"
	OpSet           Op = "Set"
	OpJacobi        Op = "Jacobi"
	OpExp2          Op = "Exp2"
	OpNumLSZeroBits Op = "NumLSZeroBits"
	OpMulAdd        Op = "MulAdd"
	OpCondSet       Op = "CondSet"
	OpRand          Op = "Rand"
)

// AllOps lists every Op.
//
// NEWOP: Update this list if a NEW op is added otherwise it won't be
// dispatched or tested.
var AllOps = []Op{
	OpAdd, OpSub, OpMul, OpDiv, OpExpMod, OpSqr, OpGCD, OpInvMod, OpCmp,
	OpAbs, OpNeg, OpRShift, OpLShift1, OpIsNeg, OpIsEq, OpIsZero, OpIsOne,
	OpMulMod, OpAddMod, OpSubMod, OpSqrMod, OpBit, OpCmpAbs, OpSetBit,
	OpLCM, OpMod, OpIsEven, OpIsOdd, OpMSB, OpNumBits, OpSet, OpJacobi,
	OpExp2, OpNumLSZeroBits, OpMulAdd, OpCondSet, OpRand,
}

// ParseOp finds an Op by name, ignoring case.
func ParseOp(s string) (Op, error) {
	for _, op := range AllOps {
		if strings.EqualFold(string(op), s) {
			return op, nil
		}
	}
	return "", fmt.Errorf("bnfuzz: unknown op %q", s)
}

// Valid reports whether op is a member of AllOps.
func (op Op) Valid() bool {
	_, err := ParseOp(string(op))
	return err == nil
}

// Arity returns the number of leading cluster slots op reads.
func (op Op) Arity() int {
	// NEWOP: ops read slots 0..Arity()-1 and nothing else.
	switch op {
	case OpExpMod, OpMulMod, OpAddMod, OpSubMod, OpMulAdd:
		return 3

	case OpAdd, OpSub, OpMul, OpDiv, OpGCD, OpInvMod, OpCmp, OpRShift,
		OpIsEq, OpSqrMod, OpBit, OpCmpAbs, OpSetBit, OpLCM, OpMod,
		OpJacobi, OpCondSet:
		return 2

	default:
		return 1
	}
}

// Comparable reports whether two modules that both succeed at op must
// agree on the result. Rand is the only op whose result depends on the
// library's own randomness.
func (op Op) Comparable() bool {
	return op != OpRand
}

func (op Op) String() string { return string(op) }

// Print formats op applied to operands for failure reports, i.e. "2 + 2".
// It is safe to assume at least Arity() operands are passed.
func (op Op) Print(operands ...Value) string {
	// NEWOP: please add a human-readable format for your op here.
	switch op {
	case OpAdd:
		return fmt.Sprintf("%s + %s", operands[0], operands[1])
	case OpSub:
		return fmt.Sprintf("%s - %s", operands[0], operands[1])
	case OpMul:
		return fmt.Sprintf("%s * %s", operands[0], operands[1])
	case OpDiv:
		return fmt.Sprintf("%s / %s", operands[0], operands[1])
	case OpMod:
		return fmt.Sprintf("%s mod %s", operands[0], operands[1])
	case OpRShift:
		return fmt.Sprintf("%s >> %s", operands[0], operands[1])
	case OpLShift1:
		return fmt.Sprintf("%s << 1", operands[0])
	case OpSqr:
		return fmt.Sprintf("%s^2", operands[0])
	case OpAbs:
		return fmt.Sprintf("|%s|", operands[0])
	case OpNeg:
		return fmt.Sprintf("-(%s)", operands[0])
	case OpExp2:
		return fmt.Sprintf("2^%s", operands[0])
	case OpExpMod:
		return fmt.Sprintf("%s^%s mod %s", operands[0], operands[1], operands[2])
	case OpMulMod:
		return fmt.Sprintf("%s * %s mod %s", operands[0], operands[1], operands[2])
	case OpAddMod:
		return fmt.Sprintf("%s + %s mod %s", operands[0], operands[1], operands[2])
	case OpSubMod:
		return fmt.Sprintf("%s - %s mod %s", operands[0], operands[1], operands[2])
	case OpSqrMod:
		return fmt.Sprintf("%s^2 mod %s", operands[0], operands[1])
	case OpMulAdd:
		return fmt.Sprintf("%s * %s + %s", operands[0], operands[1], operands[2])
	case OpSetBit:
		return fmt.Sprintf("%s|(1<<%s)", operands[0], operands[1])
	case OpBit:
		return fmt.Sprintf("(%s>>%s)&1", operands[0], operands[1])
	case OpCondSet:
		return fmt.Sprintf("%s ? %s : 0", operands[1], operands[0])
	}

	args := make([]string, op.Arity())
	for i := range args {
		args[i] = operands[i].String()
	}
	return fmt.Sprintf("%s(%s)", op, strings.Join(args, ", "))
}
