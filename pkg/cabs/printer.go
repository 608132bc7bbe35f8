// Package cabs provides printing of declarations and expressions
package cabs

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes declarations in a compact, fully parenthesized form:
//
//	Declaration(declarator=POINTER(p[3]), type=int)
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintDeclaration prints d followed by a newline.
func (p *Printer) PrintDeclaration(d *Declaration) {
	p.printDeclaration(d)
	fmt.Fprintln(p.w)
}

// PrintExpr prints e without a trailing newline.
func (p *Printer) PrintExpr(e Expr) {
	p.printExpr(e)
}

func (p *Printer) printDeclaration(d *Declaration) {
	fmt.Fprint(p.w, "Declaration(declarator=")
	p.printDeclarator(d.Declarator)
	fmt.Fprintf(p.w, ", type=%s", d.Type)
	if d.Storage != "" {
		fmt.Fprintf(p.w, ", storage=%q", d.Storage)
	}
	if d.Inline {
		fmt.Fprint(p.w, ", inline")
	}
	fmt.Fprint(p.w, ")")
}

func (p *Printer) printDeclarator(d *Declarator) {
	if d == nil {
		fmt.Fprint(p.w, "nil")
		return
	}
	if d.Pointer != nil {
		fmt.Fprint(p.w, "POINTER")
		if len(d.Qualifiers) > 0 {
			fmt.Fprintf(p.w, "<%s>", strings.Join(d.Qualifiers, " "))
		}
		fmt.Fprint(p.w, "(")
		p.printDeclarator(d.Pointer)
		fmt.Fprint(p.w, ")")
	}
	fmt.Fprint(p.w, d.Identifier)
	for a := d.Array; a != nil; a = a.Array {
		fmt.Fprint(p.w, "[")
		if a.Size != nil {
			p.printExpr(a.Size)
		}
		fmt.Fprint(p.w, "]")
	}
	if d.Initializer != nil {
		fmt.Fprint(p.w, " = ")
		p.printExpr(d.Initializer)
	}
	if d.Parameters != nil {
		fmt.Fprint(p.w, "(")
		for i, param := range d.Parameters {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printParameter(param)
		}
		if d.Variadic {
			if len(d.Parameters) > 0 {
				fmt.Fprint(p.w, ", ")
			}
			fmt.Fprint(p.w, "...")
		}
		fmt.Fprint(p.w, ")")
	}
}

func (p *Printer) printParameter(param *Parameter) {
	fmt.Fprintf(p.w, "Parameter(type=%s", param.Type)
	if param.Declarator != nil {
		fmt.Fprint(p.w, ", declarator=")
		p.printDeclarator(param.Declarator)
	}
	if param.Storage != "" {
		fmt.Fprintf(p.w, ", storage=%q", param.Storage)
	}
	fmt.Fprint(p.w, ")")
}

func (p *Printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case Constant:
		fmt.Fprint(p.w, e.Text)
	case Identifier:
		fmt.Fprint(p.w, e.Name)
	case Unary:
		p.printUnary(e)
	case Binary:
		p.printBinary(e)
	case LogicalAnd:
		p.printInfix(e.Left, "&&", e.Right)
	case LogicalOr:
		p.printInfix(e.Left, "||", e.Right)
	case Conditional:
		fmt.Fprint(p.w, "(")
		p.printExpr(e.Cond)
		fmt.Fprint(p.w, " ? ")
		p.printExpr(e.Then)
		fmt.Fprint(p.w, " : ")
		p.printExpr(e.Else)
		fmt.Fprint(p.w, ")")
	case Call:
		p.printExpr(e.Func)
		fmt.Fprint(p.w, "(")
		p.printList(e.Args)
		fmt.Fprint(p.w, ")")
	case Index:
		p.printExpr(e.Array)
		fmt.Fprint(p.w, "[")
		p.printExpr(e.Index)
		fmt.Fprint(p.w, "]")
	case Member:
		p.printExpr(e.Expr)
		if e.IsArrow {
			fmt.Fprint(p.w, "->")
		} else {
			fmt.Fprint(p.w, ".")
		}
		fmt.Fprint(p.w, e.Name)
	case SizeofExpr:
		fmt.Fprint(p.w, "sizeof(")
		p.printExpr(e.Expr)
		fmt.Fprint(p.w, ")")
	case SizeofType:
		fmt.Fprintf(p.w, "sizeof(%s)", e.TypeName)
	case Cast:
		fmt.Fprintf(p.w, "((%s) ", e.TypeName)
		p.printExpr(e.Expr)
		fmt.Fprint(p.w, ")")
	case InitList:
		fmt.Fprint(p.w, "{")
		p.printList(e.Items)
		fmt.Fprint(p.w, "}")
	case nil:
	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", expr)
	}
}

func (p *Printer) printList(items []Expr) {
	for i, item := range items {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		p.printExpr(item)
	}
}

func (p *Printer) printUnary(u Unary) {
	switch u.Op {
	case OpPostInc, OpPostDec:
		fmt.Fprint(p.w, "(")
		p.printExpr(u.Expr)
		fmt.Fprintf(p.w, " %s)", u.Op)
	default:
		fmt.Fprintf(p.w, "(%s ", u.Op)
		p.printExpr(u.Expr)
		fmt.Fprint(p.w, ")")
	}
}

func (p *Printer) printBinary(b Binary) {
	if b.Op == OpComma {
		fmt.Fprint(p.w, "(")
		p.printExpr(b.Left)
		fmt.Fprint(p.w, ", ")
		p.printExpr(b.Right)
		fmt.Fprint(p.w, ")")
		return
	}
	p.printInfix(b.Left, b.Op.String(), b.Right)
}

func (p *Printer) printInfix(left Expr, op string, right Expr) {
	fmt.Fprint(p.w, "(")
	p.printExpr(left)
	fmt.Fprintf(p.w, " %s ", op)
	p.printExpr(right)
	fmt.Fprint(p.w, ")")
}

// ExprString renders e the way Printer does.
func ExprString(e Expr) string {
	var sb strings.Builder
	NewPrinter(&sb).printExpr(e)
	return sb.String()
}

func (t Type) String() string {
	return strings.Join(append(append([]string(nil), t.Qualifiers...), t.Specifiers...), " ")
}

func (d *Declarator) String() string {
	var sb strings.Builder
	NewPrinter(&sb).printDeclarator(d)
	return sb.String()
}

func (d *Declaration) String() string {
	var sb strings.Builder
	NewPrinter(&sb).printDeclaration(d)
	return sb.String()
}
