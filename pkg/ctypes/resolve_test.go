package ctypes

import (
	"errors"
	"testing"

	"github.com/raymyers/cdecl/pkg/cabs"
	"github.com/raymyers/cdecl/pkg/cpp"
	"github.com/raymyers/cdecl/pkg/parser"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		typ  cabs.Type
		want Type
	}{
		{"implicit int", cabs.Type{}, Int()},
		{"int", cabs.Type{Specifiers: []string{"int"}}, Int()},
		{"unsigned", cabs.Type{Specifiers: []string{"unsigned"}}, UInt()},
		{"signed char", cabs.Type{Specifiers: []string{"signed", "char"}}, Char()},
		{"unsigned char", cabs.Type{Specifiers: []string{"unsigned", "char"}}, UChar()},
		{"short int", cabs.Type{Specifiers: []string{"short", "int"}}, Short()},
		{"unsigned long int", cabs.Type{Specifiers: []string{"unsigned", "long", "int"}}, ULong()},
		{"long long", cabs.Type{Specifiers: []string{"long", "long"}}, Tlong{LongLong: true}},
		{"long double", cabs.Type{Specifiers: []string{"long", "double"}}, Tfloat{Size: FLongDouble}},
		{"_Bool", cabs.Type{Specifiers: []string{"_Bool"}}, Bool()},
		{"void", cabs.Type{Specifiers: []string{"void"}}, Void()},
		{"struct", cabs.Type{Specifiers: []string{"struct point"}}, Tstruct{Name: "point"}},
		{"anonymous union", cabs.Type{Specifiers: []string{"union"}}, Tunion{}},
		{"enum", cabs.Type{Specifiers: []string{"enum color"}}, Tenum{Name: "color"}},
		{"typedef name", cabs.Type{Specifiers: []string{"size_t"}}, Tnamed{Name: "size_t"}},
		{"const char", cabs.Type{Qualifiers: []string{"const"}, Specifiers: []string{"char"}}, Qualified(Char(), "const")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.typ)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	tests := [][]string{
		{"signed", "unsigned"},
		{"int", "int"},
		{"long", "long", "long"},
		{"void", "int"},
		{"float", "long"},
		{"char", "short"},
		{"struct s", "int"},
		{"size_t", "long"},
	}
	for _, specs := range tests {
		_, err := Resolve(cabs.Type{Specifiers: specs})
		if !errors.Is(err, ErrInvalidSpecifiers) {
			t.Errorf("Resolve(%v) error = %v, want ErrInvalidSpecifiers", specs, err)
		}
	}
}

// parseOne parses src and returns its single declaration.
func parseOne(t *testing.T, src string) (*cabs.Declaration, *parser.Parser) {
	t.Helper()
	var c parser.Collector
	p := parser.New(&c, parser.Options{StddefTypes: true})
	p.Parse(src)
	if len(c.Errors) > 0 {
		t.Fatalf("parse %q: %v", src, c.Errors)
	}
	if len(c.Declarations) == 0 {
		t.Fatalf("parse %q: no declarations", src)
	}
	return c.Declarations[len(c.Declarations)-1], p
}

func TestExplain(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"int x;", "x: int"},
		{"int *p;", "p: pointer to int"},
		{"int **pp;", "pp: pointer to pointer to int"},
		{"char *const cp;", "cp: const pointer to char"},
		{"const char *s;", "s: pointer to const char"},
		{"int *a[3];", "a: array[3] of pointer to int"},
		{"int (*pa)[3];", "pa: pointer to array[3] of int"},
		{"int m[2][3];", "m: array[2] of array[3] of int"},
		{"int v[];", "v: array of int"},
		{"int f(void);", "f: function() returning int"},
		{"int (*fp)(int, char *);", "fp: pointer to function(int, pointer to char) returning int"},
		{"int printf(const char *, ...);", "printf: function(pointer to const char, ...) returning int"},
		{"void (*signal(int, void (*)(int)))(int);",
			"signal: function(int, pointer to function(int) returning void) returning pointer to function(int) returning void"},
		{"typedef unsigned long ulong;", "typedef ulong: unsigned long"},
		{"static inline int g();", "static inline g: function() returning int"},
		{"size_t n;", "n: size_t"},
		{"int b[2 * 4];", "b: array[8] of int"},
		{"struct point;", "struct point"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			d, _ := parseOne(t, tt.src)
			got, err := Explain(d, nil)
			if err != nil {
				t.Fatalf("Explain: %v", err)
			}
			if got != tt.want {
				t.Errorf("Explain(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestExplainMacroSizes(t *testing.T) {
	d, p := parseOne(t, "#define N 4\n#define M (N + 1)\nchar buf[N][M][K];\n")
	ctx := parser.NewEvaluator(p.Macros()).Constants()
	got, err := Explain(d, ctx)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	want := "buf: array[4] of array[5] of array[K] of char"
	if got != want {
		t.Errorf("Explain = %q, want %q", got, want)
	}
}

func TestConverterDeclarator(t *testing.T) {
	d, _ := parseOne(t, "int *(*x)[3];")
	c := Converter{}
	name, got, err := c.Declaration(d)
	if err != nil {
		t.Fatal(err)
	}
	if name != "x" {
		t.Errorf("name = %q, want x", name)
	}
	want := Pointer(Array(Pointer(Int()), 3))
	if !Equal(got, want) {
		t.Errorf("type = %v, want %v", got, want)
	}
}

func TestExplainInvalidSpecifiers(t *testing.T) {
	d := &cabs.Declaration{
		Type:       cabs.Type{Specifiers: []string{"signed", "unsigned", "int"}},
		Declarator: &cabs.Declarator{Identifier: "x"},
	}
	if _, err := Explain(d, cpp.NewEvaluator(cpp.NewMacroTable(), nil)); !errors.Is(err, ErrInvalidSpecifiers) {
		t.Errorf("err = %v, want ErrInvalidSpecifiers", err)
	}
}
