package cpp

import (
	"slices"
	"testing"
)

func TestMacroTable(t *testing.T) {
	mt := NewMacroTable()
	mt.Define("N", "10")
	mt.DefineFunction("MAX", []string{"a", "b"}, false, "((a) > (b) ? (a) : (b))")
	mt.DefineFunction("LOG", []string{"fmt"}, true, "printf(fmt, __VA_ARGS__)")

	if body, ok := mt.Lookup("N"); !ok || body != "10" {
		t.Errorf("Lookup(N) = %q, %v; want 10, true", body, ok)
	}
	if _, ok := mt.Lookup("MAX"); ok {
		t.Error("Lookup should not return function-like macros")
	}
	if !mt.IsDefined("MAX") {
		t.Error("IsDefined(MAX) should be true")
	}

	m := mt.Macro("LOG")
	if m == nil || m.Kind != MacroFunction || !m.Variadic || !slices.Equal(m.Params, []string{"fmt"}) {
		t.Errorf("Macro(LOG) = %+v", m)
	}
	if m.Kind.String() != "function" || mt.Macro("N").Kind.String() != "object" {
		t.Errorf("kind strings = %q, %q", m.Kind, mt.Macro("N").Kind)
	}

	if got := mt.Names(); !slices.Equal(got, []string{"LOG", "MAX", "N"}) {
		t.Errorf("Names() = %v", got)
	}

	mt.Define("N", "20")
	if body, _ := mt.Lookup("N"); body != "20" {
		t.Errorf("redefined N = %q, want 20", body)
	}

	mt.Undefine("N")
	mt.Undefine("NEVER_DEFINED")
	if mt.IsDefined("N") || mt.Len() != 2 {
		t.Errorf("after Undefine: IsDefined(N) = %v, Len() = %d", mt.IsDefined("N"), mt.Len())
	}
}

func TestDefineFunctionCopiesParams(t *testing.T) {
	params := []string{"x"}
	mt := NewMacroTable()
	mt.DefineFunction("F", params, false, "x")
	params[0] = "y"
	if got := mt.Macro("F").Params[0]; got != "x" {
		t.Errorf("Params[0] = %q, want x", got)
	}
}

func TestApplyCmdlineDefines(t *testing.T) {
	tests := []struct {
		name      string
		defines   []string
		undefines []string
		want      map[string]string
		absent    []string
	}{
		{
			name:    "simple define",
			defines: []string{"DEBUG"},
			want:    map[string]string{"DEBUG": "1"},
		},
		{
			name:    "define with value",
			defines: []string{"LEVEL=3", "EMPTY="},
			want:    map[string]string{"LEVEL": "3", "EMPTY": ""},
		},
		{
			name:      "undefine wins",
			defines:   []string{"A", "B=2"},
			undefines: []string{"A"},
			want:      map[string]string{"B": "2"},
			absent:    []string{"A"},
		},
		{
			name:    "empty name ignored",
			defines: []string{"=1"},
			want:    map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt := NewMacroTable()
			mt.ApplyCmdlineDefines(tt.defines, tt.undefines)
			if mt.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", mt.Len(), len(tt.want))
			}
			for name, value := range tt.want {
				if got, ok := mt.Lookup(name); !ok || got != value {
					t.Errorf("Lookup(%s) = %q, %v; want %q", name, got, ok, value)
				}
			}
			for _, name := range tt.absent {
				if mt.IsDefined(name) {
					t.Errorf("%s should not be defined", name)
				}
			}
		})
	}
}
