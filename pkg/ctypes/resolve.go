package ctypes

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/raymyers/cdecl/pkg/cabs"
)

// ErrInvalidSpecifiers is returned when a specifier list does not name a type.
var ErrInvalidSpecifiers = errors.New("invalid type specifiers")

// Resolve folds the specifiers and qualifiers of t into a Type. An empty
// specifier list is an implicit int.
func Resolve(t cabs.Type) (Type, error) {
	base, err := resolveSpecifiers(t.Specifiers)
	if err != nil {
		return nil, err
	}
	return Qualified(base, t.Qualifiers...), nil
}

func resolveSpecifiers(specs []string) (Type, error) {
	invalid := func() error {
		return fmt.Errorf("%q: %w", strings.Join(specs, " "), ErrInvalidSpecifiers)
	}

	count := map[string]int{}
	var named Type
	for _, s := range specs {
		switch {
		case strings.HasPrefix(s, "struct "), s == "struct":
			named = Tstruct{Name: tagName(s)}
		case strings.HasPrefix(s, "union "), s == "union":
			named = Tunion{Name: tagName(s)}
		case strings.HasPrefix(s, "enum "), s == "enum":
			named = Tenum{Name: tagName(s)}
		case isBasicSpecifier(s):
			count[s]++
		default:
			named = Tnamed{Name: s}
		}
	}
	if named != nil {
		if len(specs) != 1 {
			return nil, invalid()
		}
		return named, nil
	}

	signed, unsigned := count["signed"], count["unsigned"]
	if signed+unsigned > 1 {
		return nil, invalid()
	}
	sign := Signed
	if unsigned > 0 {
		sign = Unsigned
	}
	for s, n := range count {
		if n > 1 && s != "long" {
			return nil, invalid()
		}
	}
	// only reports whether every specifier seen is one of allowed
	only := func(allowed ...string) bool {
		for s := range count {
			if !slices.Contains(allowed, s) {
				return false
			}
		}
		return true
	}

	switch {
	case count["void"] > 0:
		if len(specs) != 1 {
			return nil, invalid()
		}
		return Tvoid{}, nil
	case count["_Bool"] > 0:
		if len(specs) != 1 {
			return nil, invalid()
		}
		return Bool(), nil
	case count["float"] > 0:
		if len(specs) != 1 {
			return nil, invalid()
		}
		return Float(), nil
	case count["double"] > 0:
		switch {
		case len(specs) == 1:
			return Double(), nil
		case len(specs) == 2 && count["long"] == 1:
			return Tfloat{Size: FLongDouble}, nil
		}
		return nil, invalid()
	case count["char"] > 0:
		if !only("char", "signed", "unsigned") {
			return nil, invalid()
		}
		return Tint{Size: I8, Sign: sign}, nil
	case count["short"] > 0:
		if !only("short", "int", "signed", "unsigned") {
			return nil, invalid()
		}
		return Tint{Size: I16, Sign: sign}, nil
	case count["long"] > 0:
		if count["long"] > 2 || !only("long", "int", "signed", "unsigned") {
			return nil, invalid()
		}
		return Tlong{Sign: sign, LongLong: count["long"] == 2}, nil
	}
	if !only("int", "signed", "unsigned") {
		return nil, invalid()
	}
	return Tint{Size: I32, Sign: sign}, nil
}

func isBasicSpecifier(s string) bool {
	switch s {
	case "void", "char", "short", "int", "long", "float", "double",
		"signed", "unsigned", "_Bool":
		return true
	}
	return false
}

func tagName(spec string) string {
	_, name, _ := strings.Cut(spec, " ")
	return name
}

// Converter turns declarators into types. Array sizes are evaluated with
// Context; a size that does not evaluate keeps its source text.
type Converter struct {
	Context cabs.EvaluationContext
}

// Declaration returns the name and type declared by d.
func (c *Converter) Declaration(d *cabs.Declaration) (string, Type, error) {
	base, err := Resolve(d.Type)
	if err != nil {
		return "", nil, err
	}
	return c.Declarator(base, d.Declarator)
}

// Declarator applies d to base. The suffixes of each node bind tighter than
// the pointer the node stands for, so they are applied first.
func (c *Converter) Declarator(base Type, d *cabs.Declarator) (string, Type, error) {
	t := base
	for d != nil {
		var err error
		t, err = c.suffixes(t, d)
		if err != nil {
			return "", nil, err
		}
		if d.Pointer == nil {
			return d.Identifier, t, nil
		}
		t = Tpointer{Elem: t, Qualifiers: d.Qualifiers}
		d = d.Pointer
	}
	return "", t, nil
}

func (c *Converter) suffixes(t Type, d *cabs.Declarator) (Type, error) {
	if d.Parameters != nil {
		fn := Tfunction{Return: t, VarArg: d.Variadic, Params: []Type{}}
		for _, p := range d.Parameters {
			pt, err := c.parameter(p)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, pt)
		}
		t = fn
	}
	dims := d.Dimensions()
	for i := len(dims) - 1; i >= 0; i-- {
		t = c.array(t, dims[i])
	}
	return t, nil
}

func (c *Converter) parameter(p *cabs.Parameter) (Type, error) {
	base, err := Resolve(p.Type)
	if err != nil {
		return nil, err
	}
	_, t, err := c.Declarator(base, p.Declarator)
	return t, err
}

func (c *Converter) array(elem Type, size cabs.Expr) Type {
	if size == nil {
		return Tarray{Elem: elem, Size: -1}
	}
	n, err := cabs.Evaluate(size, c.Context)
	if err != nil || n < 0 {
		return Tarray{Elem: elem, Size: -1, SizeExpr: cabs.ExprString(size)}
	}
	return Tarray{Elem: elem, Size: n}
}
