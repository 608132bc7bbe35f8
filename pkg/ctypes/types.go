// Package ctypes resolves parsed declarations into C types and describes
// them in words.
package ctypes

import (
	"fmt"
	"slices"
	"strings"
)

// Type is the interface for all C types
type Type interface {
	implType()
	String() string
}

// Signedness represents signed/unsigned for integer types
type Signedness int

const (
	Signed Signedness = iota
	Unsigned
)

// IntSize represents the size of integer types
type IntSize int

const (
	I8 IntSize = iota
	I16
	I32
	IBool
)

// FloatSize represents the size of floating-point types
type FloatSize int

const (
	F32 FloatSize = iota
	F64
	FLongDouble
)

// Tvoid represents the void type
type Tvoid struct{}

// Tint represents integer types (char, short, int, _Bool)
type Tint struct {
	Size IntSize
	Sign Signedness
}

// Tlong represents long and long long
type Tlong struct {
	Sign     Signedness
	LongLong bool
}

// Tfloat represents floating-point types (float, double, long double)
type Tfloat struct {
	Size FloatSize
}

// Tpointer represents pointer types. Qualifiers qualify the pointer itself.
type Tpointer struct {
	Elem       Type
	Qualifiers []string
}

// Tarray represents array types
type Tarray struct {
	Elem     Type
	Size     int64  // -1 for incomplete array or a size that is not constant
	SizeExpr string // the size as written when it is not constant
}

// Tfunction represents function types
type Tfunction struct {
	Params []Type
	Return Type
	VarArg bool
}

// Tstruct represents struct types, known by tag only
type Tstruct struct {
	Name string
}

// Tunion represents union types, known by tag only
type Tunion struct {
	Name string
}

// Tenum represents enum types, known by tag only
type Tenum struct {
	Name string
}

// Tnamed is a reference to a typedef name
type Tnamed struct {
	Name string
}

// Tqualified is a qualified base type such as const char
type Tqualified struct {
	Elem       Type
	Qualifiers []string
}

// Marker methods for Type interface
func (Tvoid) implType()      {}
func (Tint) implType()       {}
func (Tlong) implType()      {}
func (Tfloat) implType()     {}
func (Tpointer) implType()   {}
func (Tarray) implType()     {}
func (Tfunction) implType()  {}
func (Tstruct) implType()    {}
func (Tunion) implType()     {}
func (Tenum) implType()      {}
func (Tnamed) implType()     {}
func (Tqualified) implType() {}

// String methods render types in C-like syntax
func (Tvoid) String() string { return "void" }

func (t Tint) String() string {
	sign := ""
	if t.Sign == Unsigned {
		sign = "unsigned "
	}
	switch t.Size {
	case I8:
		return sign + "char"
	case I16:
		return sign + "short"
	case I32:
		return sign + "int"
	case IBool:
		return "_Bool"
	}
	return sign + "int"
}

func (t Tlong) String() string {
	name := "long"
	if t.LongLong {
		name = "long long"
	}
	if t.Sign == Unsigned {
		return "unsigned " + name
	}
	return name
}

func (t Tfloat) String() string {
	switch t.Size {
	case F32:
		return "float"
	case FLongDouble:
		return "long double"
	}
	return "double"
}

func (t Tpointer) String() string {
	elem := "void"
	if t.Elem != nil {
		elem = t.Elem.String()
	}
	s := elem + " *"
	if len(t.Qualifiers) > 0 {
		s += strings.Join(t.Qualifiers, " ")
	}
	return s
}

func (t Tarray) String() string {
	if t.Elem == nil {
		return "?[]"
	}
	switch {
	case t.SizeExpr != "":
		return t.Elem.String() + "[" + t.SizeExpr + "]"
	case t.Size < 0:
		return t.Elem.String() + "[]"
	}
	return fmt.Sprintf("%s[%d]", t.Elem, t.Size)
}

func (t Tfunction) String() string {
	params := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		params = append(params, p.String())
	}
	if t.VarArg {
		params = append(params, "...")
	}
	ret := "void"
	if t.Return != nil {
		ret = t.Return.String()
	}
	return ret + " (" + strings.Join(params, ", ") + ")"
}

func (t Tstruct) String() string {
	if t.Name == "" {
		return "struct <anonymous>"
	}
	return "struct " + t.Name
}

func (t Tunion) String() string {
	if t.Name == "" {
		return "union <anonymous>"
	}
	return "union " + t.Name
}

func (t Tenum) String() string {
	if t.Name == "" {
		return "enum <anonymous>"
	}
	return "enum " + t.Name
}

func (t Tnamed) String() string { return t.Name }

func (t Tqualified) String() string {
	return strings.Join(t.Qualifiers, " ") + " " + t.Elem.String()
}

// Common type constructors

// Int returns a signed 32-bit int type
func Int() Type {
	return Tint{Size: I32, Sign: Signed}
}

// UInt returns an unsigned 32-bit int type
func UInt() Type {
	return Tint{Size: I32, Sign: Unsigned}
}

// Char returns a signed char type
func Char() Type {
	return Tint{Size: I8, Sign: Signed}
}

// UChar returns an unsigned char type
func UChar() Type {
	return Tint{Size: I8, Sign: Unsigned}
}

// Short returns a signed short type
func Short() Type {
	return Tint{Size: I16, Sign: Signed}
}

// Long returns a signed long type
func Long() Type {
	return Tlong{Sign: Signed}
}

// ULong returns an unsigned long type
func ULong() Type {
	return Tlong{Sign: Unsigned}
}

// Bool returns the _Bool type
func Bool() Type {
	return Tint{Size: IBool, Sign: Unsigned}
}

// Float returns a float (32-bit) type
func Float() Type {
	return Tfloat{Size: F32}
}

// Double returns a double (64-bit) type
func Double() Type {
	return Tfloat{Size: F64}
}

// Void returns the void type
func Void() Type {
	return Tvoid{}
}

// Pointer returns a pointer to the given type
func Pointer(elem Type) Type {
	return Tpointer{Elem: elem}
}

// Qualified returns elem with qualifiers, or elem itself if there are none.
func Qualified(elem Type, qualifiers ...string) Type {
	if len(qualifiers) == 0 {
		return elem
	}
	return Tqualified{Elem: elem, Qualifiers: qualifiers}
}

// Array returns an array type
func Array(elem Type, size int64) Type {
	return Tarray{Elem: elem, Size: size}
}

// Equal checks if two types are equal
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch ta := a.(type) {
	case Tvoid:
		_, ok := b.(Tvoid)
		return ok
	case Tint:
		tb, ok := b.(Tint)
		return ok && ta.Size == tb.Size && ta.Sign == tb.Sign
	case Tlong:
		tb, ok := b.(Tlong)
		return ok && ta.Sign == tb.Sign && ta.LongLong == tb.LongLong
	case Tfloat:
		tb, ok := b.(Tfloat)
		return ok && ta.Size == tb.Size
	case Tpointer:
		tb, ok := b.(Tpointer)
		return ok && slices.Equal(ta.Qualifiers, tb.Qualifiers) && Equal(ta.Elem, tb.Elem)
	case Tarray:
		tb, ok := b.(Tarray)
		return ok && ta.Size == tb.Size && ta.SizeExpr == tb.SizeExpr && Equal(ta.Elem, tb.Elem)
	case Tstruct:
		tb, ok := b.(Tstruct)
		return ok && ta.Name == tb.Name
	case Tunion:
		tb, ok := b.(Tunion)
		return ok && ta.Name == tb.Name
	case Tenum:
		tb, ok := b.(Tenum)
		return ok && ta.Name == tb.Name
	case Tnamed:
		tb, ok := b.(Tnamed)
		return ok && ta.Name == tb.Name
	case Tqualified:
		tb, ok := b.(Tqualified)
		return ok && slices.Equal(ta.Qualifiers, tb.Qualifiers) && Equal(ta.Elem, tb.Elem)
	case Tfunction:
		tb, ok := b.(Tfunction)
		if !ok || ta.VarArg != tb.VarArg || len(ta.Params) != len(tb.Params) {
			return false
		}
		if !Equal(ta.Return, tb.Return) {
			return false
		}
		for i, p := range ta.Params {
			if !Equal(p, tb.Params[i]) {
				return false
			}
		}
		return true
	}
	return false
}
