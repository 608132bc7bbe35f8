package lexer

import "sort"

// StddefTypes are the type names a C header may use without including
// <stddef.h>.
var StddefTypes = []string{"wchar_t", "ptrdiff_t", "size_t"}

// TypeNames is the set of identifiers declared by typedef. Names are only
// ever added; a name is scanned as TokenTypeName from the moment it is added.
type TypeNames struct {
	names map[string]bool
}

// NewTypeNames returns a registry holding names.
func NewTypeNames(names ...string) *TypeNames {
	t := &TypeNames{names: make(map[string]bool)}
	for _, name := range names {
		t.Add(name)
	}
	return t
}

// Add registers name. It reports whether name was new.
func (t *TypeNames) Add(name string) bool {
	if t.names[name] {
		return false
	}
	t.names[name] = true
	return true
}

// Contains reports whether name is a registered type name.
func (t *TypeNames) Contains(name string) bool {
	return t.names[name]
}

// Len returns the number of registered names.
func (t *TypeNames) Len() int {
	return len(t.names)
}

// Names returns the registered names in sorted order.
func (t *TypeNames) Names() []string {
	names := make([]string, 0, len(t.names))
	for name := range t.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
