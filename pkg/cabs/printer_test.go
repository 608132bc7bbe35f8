package cabs

import (
	"bytes"
	"testing"
)

func TestPrintDeclaration(t *testing.T) {
	tests := []struct {
		name string
		decl *Declaration
		want string
	}{
		{
			name: "simple",
			decl: &Declaration{
				Declarator: &Declarator{Identifier: "x"},
				Type:       Type{Specifiers: []string{"int"}},
			},
			want: "Declaration(declarator=x, type=int)\n",
		},
		{
			name: "array of pointers",
			decl: &Declaration{
				Declarator: &Declarator{Pointer: &Declarator{Identifier: "p", Array: &Array{Size: Constant{Text: "3"}}}},
				Type:       Type{Specifiers: []string{"int"}},
			},
			want: "Declaration(declarator=POINTER(p[3]), type=int)\n",
		},
		{
			name: "pointer to array",
			decl: &Declaration{
				Declarator: &Declarator{Pointer: &Declarator{Identifier: "p"}, Array: &Array{Size: Constant{Text: "3"}}},
				Type:       Type{Specifiers: []string{"int"}},
			},
			want: "Declaration(declarator=POINTER(p)[3], type=int)\n",
		},
		{
			name: "qualified pointer with storage",
			decl: &Declaration{
				Declarator: &Declarator{Pointer: &Declarator{Identifier: "names", Array: &Array{}}, Qualifiers: []string{"const"}},
				Type:       Type{Qualifiers: []string{"const"}, Specifiers: []string{"char"}},
				Storage:    "static",
			},
			want: `Declaration(declarator=POINTER<const>(names[]), type=const char, storage="static")` + "\n",
		},
		{
			name: "variadic function",
			decl: &Declaration{
				Declarator: &Declarator{
					Identifier: "printf",
					Parameters: []*Parameter{{
						Type:       Type{Qualifiers: []string{"const"}, Specifiers: []string{"char"}},
						Declarator: &Declarator{Pointer: &Declarator{}},
					}},
					Variadic: true,
				},
				Type: Type{Specifiers: []string{"int"}},
			},
			want: "Declaration(declarator=printf(Parameter(type=const char, declarator=POINTER()), ...), type=int)\n",
		},
		{
			name: "inline with register parameter",
			decl: &Declaration{
				Declarator: &Declarator{
					Identifier: "f",
					Parameters: []*Parameter{{Type: Type{Specifiers: []string{"int"}}, Storage: "register"}},
				},
				Type:   Type{Specifiers: []string{"int"}},
				Inline: true,
			},
			want: `Declaration(declarator=f(Parameter(type=int, storage="register")), type=int, inline)` + "\n",
		},
		{
			name: "initializer",
			decl: &Declaration{
				Declarator: &Declarator{Identifier: "n", Initializer: Binary{Op: OpAdd, Left: Constant{Text: "1"}, Right: Identifier{Name: "K"}}},
				Type:       Type{Specifiers: []string{"int"}},
			},
			want: "Declaration(declarator=n = (1 + K), type=int)\n",
		},
		{
			name: "tag only",
			decl: &Declaration{Type: Type{Specifiers: []string{"struct point"}}},
			want: "Declaration(declarator=nil, type=struct point)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintDeclaration(tt.decl)
			if got := buf.String(); got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	x := Identifier{Name: "x"}
	one := Constant{Text: "1"}
	tests := []struct {
		expr Expr
		want string
	}{
		{one, "1"},
		{Unary{Op: OpNeg, Expr: x}, "(- x)"},
		{Unary{Op: OpPostInc, Expr: x}, "(x ++)"},
		{Binary{Op: OpShl, Left: one, Right: x}, "(1 << x)"},
		{Binary{Op: OpComma, Left: one, Right: x}, "(1, x)"},
		{LogicalAnd{Left: x, Right: one}, "(x && 1)"},
		{LogicalOr{Left: x, Right: one}, "(x || 1)"},
		{Conditional{Cond: x, Then: one, Else: Constant{Text: "2"}}, "(x ? 1 : 2)"},
		{Call{Func: Identifier{Name: "defined"}, Args: []Expr{x}}, "defined(x)"},
		{Call{Func: Identifier{Name: "f"}, Args: []Expr{one, x}}, "f(1, x)"},
		{Index{Array: x, Index: one}, "x[1]"},
		{Member{Expr: x, Name: "y", IsArrow: true}, "x->y"},
		{Member{Expr: x, Name: "y"}, "x.y"},
		{SizeofExpr{Expr: x}, "sizeof(x)"},
		{SizeofType{TypeName: "unsigned long"}, "sizeof(unsigned long)"},
		{Cast{TypeName: "char *", Expr: x}, "((char *) x)"},
		{InitList{Items: []Expr{one, x}}, "{1, x}"},
		{Constant{Text: `"hello" "world"`}, `"hello" "world"`},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := ExprString(tt.expr); got != tt.want {
			t.Errorf("ExprString(%#v) = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

func TestOperatorStrings(t *testing.T) {
	if OpShr.String() != ">>" || OpNe.String() != "!=" || BinaryOp(99).String() != "?" {
		t.Error("unexpected BinaryOp strings")
	}
	if OpBitNot.String() != "~" || OpPostDec.String() != "--" || UnaryOp(99).String() != "?" {
		t.Error("unexpected UnaryOp strings")
	}
}
