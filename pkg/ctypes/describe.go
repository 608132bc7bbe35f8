package ctypes

import (
	"fmt"
	"strings"

	"github.com/raymyers/cdecl/pkg/cabs"
)

// Describe renders t in words, e.g. "array[3] of pointer to const char".
func Describe(t Type) string {
	switch t := t.(type) {
	case nil:
		return "<nil>"
	case Tpointer:
		s := "pointer to " + Describe(t.Elem)
		if len(t.Qualifiers) > 0 {
			s = strings.Join(t.Qualifiers, " ") + " " + s
		}
		return s
	case Tarray:
		switch {
		case t.SizeExpr != "":
			return fmt.Sprintf("array[%s] of %s", t.SizeExpr, Describe(t.Elem))
		case t.Size < 0:
			return "array of " + Describe(t.Elem)
		}
		return fmt.Sprintf("array[%d] of %s", t.Size, Describe(t.Elem))
	case Tfunction:
		params := make([]string, 0, len(t.Params)+1)
		for _, p := range t.Params {
			params = append(params, Describe(p))
		}
		if t.VarArg {
			params = append(params, "...")
		}
		return fmt.Sprintf("function(%s) returning %s", strings.Join(params, ", "), Describe(t.Return))
	case Tqualified:
		return strings.Join(t.Qualifiers, " ") + " " + Describe(t.Elem)
	}
	return t.String()
}

// Explain describes the declaration d, e.g. "x: pointer to int" or
// "typedef size_t: unsigned long". ctx evaluates array sizes and may be nil.
func Explain(d *cabs.Declaration, ctx cabs.EvaluationContext) (string, error) {
	c := Converter{Context: ctx}
	name, t, err := c.Declaration(d)
	if err != nil {
		return "", err
	}
	if d.Declarator == nil {
		return Describe(t), nil
	}
	if name == "" {
		name = "<abstract>"
	}
	var sb strings.Builder
	if d.Storage != "" {
		sb.WriteString(d.Storage)
		sb.WriteByte(' ')
	}
	if d.Inline {
		sb.WriteString("inline ")
	}
	fmt.Fprintf(&sb, "%s: %s", name, Describe(t))
	return sb.String(), nil
}
