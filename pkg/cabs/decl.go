package cabs

// Type is the specifier part of a declaration, in source order and without
// any folding: "unsigned long int" stays three specifiers. A struct, union
// or enum specifier is one string such as "struct point".
type Type struct {
	Qualifiers []string
	Specifiers []string
}

// Clone returns a copy that shares no slices with t.
func (t Type) Clone() Type {
	return Type{
		Qualifiers: append([]string(nil), t.Qualifiers...),
		Specifiers: append([]string(nil), t.Specifiers...),
	}
}

// Array is one dimension of an array declarator. Array links to the next
// dimension to the right: x[2][3] is [2] -> [3].
type Array struct {
	Size  Expr // nil for []
	Array *Array
}

// Parameter is one entry of a parameter list.
type Parameter struct {
	Type       Type
	Storage    string
	Declarator *Declarator // nil for a parameter given only by its type
}

// Declarator is a node of the declarator tree. A node with a non-nil Pointer
// is a pointer node: Pointer is what it points to and Qualifiers qualify the
// pointer itself. Array and parameter suffixes attach to the node they
// follow in the source, so int *p[3] is a pointer node whose target p has
// [3], while int (*p)[3] is a pointer node with [3] whose target is p.
type Declarator struct {
	Identifier  string
	Pointer     *Declarator
	Qualifiers  []string
	Array       *Array
	Parameters  []*Parameter // nil unless a function; empty for () and (void)
	Variadic    bool
	Initializer Expr
}

// IsPointer reports whether d is a pointer node.
func (d *Declarator) IsPointer() bool {
	return d != nil && d.Pointer != nil
}

// IsFunction reports whether d carries a parameter list.
func (d *Declarator) IsFunction() bool {
	return d != nil && d.Parameters != nil
}

// Name returns the declared identifier, found by following the pointer
// chain to its end. Abstract declarators have no name.
func (d *Declarator) Name() string {
	for d != nil && d.Pointer != nil {
		d = d.Pointer
	}
	if d == nil {
		return ""
	}
	return d.Identifier
}

// Dimensions returns the array sizes of d, leftmost first.
func (d *Declarator) Dimensions() []Expr {
	var dims []Expr
	for a := d.Array; a != nil; a = a.Array {
		dims = append(dims, a.Size)
	}
	return dims
}

// AppendArray adds a dimension to the right of the existing ones.
func (d *Declarator) AppendArray(a *Array) {
	if d.Array == nil {
		d.Array = a
		return
	}
	tail := d.Array
	for tail.Array != nil {
		tail = tail.Array
	}
	tail.Array = a
}

// Declaration is one declarator of a declaration statement together with
// the specifiers it was declared with.
type Declaration struct {
	Declarator *Declarator // nil for "struct s;" and similar
	Type       Type
	Storage    string // typedef, extern, static, auto, register or ""
	Inline     bool
	Line       int
}

// Name returns the declared identifier, or "".
func (d *Declaration) Name() string {
	return d.Declarator.Name()
}

// IsTypedef reports whether d declares a type name.
func (d *Declaration) IsTypedef() bool {
	return d.Storage == "typedef"
}
