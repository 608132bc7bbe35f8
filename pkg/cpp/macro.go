// macro.go implements the macro table shared by the scanner and the
// directive parser.
package cpp

import (
	"sort"
	"strings"
)

// MacroKind distinguishes object-like from function-like macros.
type MacroKind int

const (
	MacroObject   MacroKind = iota // #define NAME text
	MacroFunction                  // #define NAME(params) text
)

func (k MacroKind) String() string {
	if k == MacroFunction {
		return "function"
	}
	return "object"
}

// Macro is one #define. Function-like macros are recorded but never
// expanded.
type Macro struct {
	Name     string
	Kind     MacroKind
	Params   []string
	Variadic bool
	Body     string
}

// MacroTable maps macro names to definitions. A later #define replaces an
// earlier one; #undef removes it.
type MacroTable struct {
	macros map[string]*Macro
}

// NewMacroTable creates an empty macro table.
func NewMacroTable() *MacroTable {
	return &MacroTable{macros: make(map[string]*Macro)}
}

// Define records an object-like macro.
func (mt *MacroTable) Define(name, body string) {
	mt.macros[name] = &Macro{Name: name, Kind: MacroObject, Body: body}
}

// DefineFunction records a function-like macro.
func (mt *MacroTable) DefineFunction(name string, params []string, variadic bool, body string) {
	mt.macros[name] = &Macro{
		Name:     name,
		Kind:     MacroFunction,
		Params:   append([]string(nil), params...),
		Variadic: variadic,
		Body:     body,
	}
}

// Undefine removes name. Unknown names are ignored.
func (mt *MacroTable) Undefine(name string) {
	delete(mt.macros, name)
}

// Lookup returns the replacement text of an object-like macro.
func (mt *MacroTable) Lookup(name string) (string, bool) {
	m, ok := mt.macros[name]
	if !ok || m.Kind != MacroObject {
		return "", false
	}
	return m.Body, true
}

// Macro returns the definition of name, or nil.
func (mt *MacroTable) Macro(name string) *Macro {
	return mt.macros[name]
}

// IsDefined reports whether name is defined, whatever its kind.
func (mt *MacroTable) IsDefined(name string) bool {
	_, ok := mt.macros[name]
	return ok
}

// Len returns the number of defined macros.
func (mt *MacroTable) Len() int {
	return len(mt.macros)
}

// Names returns the defined macro names in sorted order.
func (mt *MacroTable) Names() []string {
	names := make([]string, 0, len(mt.macros))
	for name := range mt.macros {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyCmdlineDefines applies -D and -U options in order: defines first,
// then undefines. "NAME" defines NAME as 1, "NAME=VALUE" as VALUE.
func (mt *MacroTable) ApplyCmdlineDefines(defines, undefines []string) {
	for _, def := range defines {
		name, value, found := strings.Cut(def, "=")
		if !found {
			value = "1"
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		mt.Define(name, value)
	}
	for _, name := range undefines {
		mt.Undefine(strings.TrimSpace(name))
	}
}
