// Package vectors loads known-answer cases for bnfuzz modules from YAML and
// runs them.
//
// A file is a list of vectors:
//
//	- name: div-truncates
//	  op: Div
//	  operands: [10, 3]
//	  expect: 3
//
//	- name: gcd-of-zero
//	  op: GCD
//	  operands: [0, 5]
//	  fail: true
//
// data is the oracle as hex; an empty oracle takes every default path.
// modules restricts a vector to the named modules, skip excludes them.
package vectors

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
	"gopkg.in/yaml.v3"
)

type Vector struct {
	Name     string         `yaml:"name"`
	Op       bnfuzz.Op      `yaml:"op"`
	Operands []bnfuzz.Value `yaml:"operands"`
	Data     string         `yaml:"data,omitempty"`
	Expect   *bnfuzz.Value  `yaml:"expect,omitempty"`
	Fail     bool           `yaml:"fail,omitempty"`
	Modules  []string       `yaml:"modules,omitempty"`
	Skip     []string       `yaml:"skip,omitempty"`
}

// Result is the outcome of one vector against one module.
type Result struct {
	Vector  string
	Module  string
	Output  bnfuzz.Value
	Err     error
	Skipped string // Reason the vector was not checked, if it was not.
	Pass    bool
}

func (r Result) String() string {
	switch {
	case r.Skipped != "":
		return fmt.Sprintf("SKIP %s/%s: %s", r.Module, r.Vector, r.Skipped)
	case r.Pass && r.Err != nil:
		return fmt.Sprintf("PASS %s/%s: failed as expected", r.Module, r.Vector)
	case r.Pass:
		return fmt.Sprintf("PASS %s/%s: %s", r.Module, r.Vector, r.Output)
	case r.Err != nil:
		return fmt.Sprintf("FAIL %s/%s: %v", r.Module, r.Vector, r.Err)
	default:
		return fmt.Sprintf("FAIL %s/%s: got %s", r.Module, r.Vector, r.Output)
	}
}

func Load(rdr io.Reader) ([]Vector, error) {
	var vs []Vector
	dec := yaml.NewDecoder(rdr)
	dec.KnownFields(true)
	if err := dec.Decode(&vs); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "vectors: decode")
	}
	for i, v := range vs {
		if err := v.validate(); err != nil {
			return nil, errors.Wrapf(err, "vectors: entry %d (%q)", i, v.Name)
		}
	}
	return vs, nil
}

func LoadFile(path string) ([]Vector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	return Load(f)
}

func (v Vector) validate() error {
	if v.Name == "" {
		return errors.New("missing name")
	}
	op, err := bnfuzz.ParseOp(string(v.Op))
	if err != nil {
		return err
	}
	if len(v.Operands) > bnfuzz.ClusterSize {
		return errors.Newf("%d operands, at most %d allowed", len(v.Operands), bnfuzz.ClusterSize)
	}
	if len(v.Operands) < op.Arity() {
		return errors.Newf("%s needs %d operands, got %d", op, op.Arity(), len(v.Operands))
	}
	if (v.Expect == nil) == !v.Fail {
		return errors.New("exactly one of expect and fail must be set")
	}
	if v.Expect != nil && !op.Comparable() {
		return errors.Newf("%s results are not comparable, expect cannot be set", op)
	}
	if _, err := hex.DecodeString(v.Data); err != nil {
		return errors.Wrap(err, "data")
	}
	return nil
}

// Applies reports whether the vector should be run against the module.
func (v Vector) Applies(module string) bool {
	for _, s := range v.Skip {
		if strings.EqualFold(s, module) {
			return false
		}
	}
	if len(v.Modules) == 0 {
		return true
	}
	for _, s := range v.Modules {
		if strings.EqualFold(s, module) {
			return true
		}
	}
	return false
}

// Run checks the vector against m. A module that does not support the op,
// or cannot hold an operand or result in its native width, is skipped
// rather than failed.
func (v Vector) Run(m bnfuzz.Module) Result {
	r := Result{Vector: v.Name, Module: m.Name()}
	if !v.Applies(m.Name()) {
		r.Skipped = "excluded"
		return r
	}

	op, err := bnfuzz.ParseOp(string(v.Op))
	if err != nil {
		r.Err = err
		return r
	}
	if !m.Supports(op) {
		r.Skipped = "unsupported"
		return r
	}

	data, err := hex.DecodeString(v.Data)
	if err != nil {
		r.Err = err
		return r
	}

	var operands [bnfuzz.ClusterSize]bnfuzz.Value
	copy(operands[:], v.Operands)

	r.Output, r.Err = m.Run(bnfuzz.NewSource(data), op, operands)

	var oerr *bnfuzz.OverflowError
	switch {
	case errors.Is(r.Err, bnfuzz.ErrUnsupported):
		r.Skipped = "unsupported"
	case errors.As(r.Err, &oerr) && !v.Fail:
		r.Skipped = oerr.Error()
	case v.Fail:
		r.Pass = bnfuzz.IsFailure(r.Err)
	default:
		r.Pass = r.Err == nil && r.Output == *v.Expect
	}
	return r
}

// RunAll runs every vector against every module, in order.
func RunAll(vs []Vector, ms []bnfuzz.Module) []Result {
	out := make([]Result, 0, len(vs)*len(ms))
	for _, v := range vs {
		for _, m := range ms {
			out = append(out, v.Run(m))
		}
	}
	return out
}
