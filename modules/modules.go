// Package modules lists every library module built into bnfuzz.
package modules

import (
	"fmt"
	"strings"

	bnfuzz "github.com/shabbyrobe/go-bnfuzz"
	"github.com/shabbyrobe/go-bnfuzz/modules/apdbig"
	"github.com/shabbyrobe/go-bnfuzz/modules/mathbig"
	"github.com/shabbyrobe/go-bnfuzz/modules/modnat"
	"github.com/shabbyrobe/go-bnfuzz/modules/u256"
	"github.com/shabbyrobe/go-bnfuzz/modules/wide128"
)

// Reference is the module other modules are compared against.
var Reference bnfuzz.Module = mathbig.Module{}

// All returns every module, reference first.
func All() []bnfuzz.Module {
	return []bnfuzz.Module{
		Reference,
		apdbig.Module{},
		u256.Module{},
		wide128.Module{},
		modnat.Module{},
	}
}

// Names returns the names of All, in order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.Name()
	}
	return names
}

// ByName finds a module by name, ignoring case.
func ByName(name string) (bnfuzz.Module, error) {
	for _, m := range All() {
		if strings.EqualFold(m.Name(), name) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("bnfuzz: unknown module %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Select returns the named modules in the order given, or All if names is
// empty.
func Select(names []string) ([]bnfuzz.Module, error) {
	if len(names) == 0 {
		return All(), nil
	}
	out := make([]bnfuzz.Module, 0, len(names))
	for _, name := range names {
		m, err := ByName(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
