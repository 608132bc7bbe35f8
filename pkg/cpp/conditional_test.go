package cpp_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/raymyers/cdecl/pkg/cabs"
	. "github.com/raymyers/cdecl/pkg/cpp"
	"github.com/raymyers/cdecl/pkg/parser"
)

// parse parses a conditional expression the way the directive parser does.
func parse(t *testing.T, text string) cabs.Expr {
	t.Helper()
	expr, err := parser.ParseExpression(text)
	if err != nil {
		t.Fatalf("ParseExpression(%q): %v", text, err)
	}
	return expr
}

func newProcessor(mt *MacroTable) *ConditionalProcessor {
	return NewConditionalProcessor(parser.NewEvaluator(mt))
}

// step is one directive fed to a ConditionalProcessor, with the state
// expected after it.
type step struct {
	directive string // "if EXPR", "elif EXPR", "ifdef NAME", "ifndef NAME", "else", "endif"
	active    bool
	depth     int
}

func run(t *testing.T, cp *ConditionalProcessor, steps []step) {
	t.Helper()
	for i, s := range steps {
		kind, arg, _ := strings.Cut(s.directive, " ")
		var err error
		switch kind {
		case "if":
			err = cp.ProcessIf(parse(t, arg))
		case "elif":
			err = cp.ProcessElif(parse(t, arg))
		case "ifdef":
			err = cp.ProcessIfdef(arg)
		case "ifndef":
			err = cp.ProcessIfndef(arg)
		case "else":
			err = cp.ProcessElse()
		case "endif":
			err = cp.ProcessEndif()
		default:
			t.Fatalf("step %d: unknown directive %q", i, s.directive)
		}
		if err != nil {
			t.Fatalf("step %d (#%s): %v", i, s.directive, err)
		}
		if cp.IsActive() != s.active {
			t.Errorf("step %d (#%s): IsActive() = %v, want %v", i, s.directive, cp.IsActive(), s.active)
		}
		if cp.Depth() != s.depth {
			t.Errorf("step %d (#%s): Depth() = %d, want %d", i, s.directive, cp.Depth(), s.depth)
		}
	}
}

func TestConditionalSequences(t *testing.T) {
	tests := []struct {
		name    string
		defines map[string]string
		steps   []step
	}{
		{
			name:    "ifdef defined",
			defines: map[string]string{"FOO": "1"},
			steps:   []step{{"ifdef FOO", true, 1}, {"endif", true, 0}},
		},
		{
			name:  "ifdef undefined",
			steps: []step{{"ifdef FOO", false, 1}, {"endif", true, 0}},
		},
		{
			name:    "ifdef empty macro",
			defines: map[string]string{"FOO": ""},
			steps:   []step{{"ifdef FOO", true, 1}, {"endif", true, 0}},
		},
		{
			name:  "ifndef undefined",
			steps: []step{{"ifndef GUARD", true, 1}, {"endif", true, 0}},
		},
		{
			name:    "ifndef defined",
			defines: map[string]string{"GUARD": "1"},
			steps:   []step{{"ifndef GUARD", false, 1}, {"endif", true, 0}},
		},
		{
			name:  "else after false branch",
			steps: []step{{"ifdef UNDEFINED", false, 1}, {"else", true, 1}, {"endif", true, 0}},
		},
		{
			name:  "else after true branch",
			steps: []step{{"if 1", true, 1}, {"else", false, 1}, {"endif", true, 0}},
		},
		{
			name:    "elif taken",
			defines: map[string]string{"X": "2"},
			steps: []step{
				{"if X == 1", false, 1},
				{"elif X == 2", true, 1},
				{"elif X > 0", false, 1},
				{"else", false, 1},
				{"endif", true, 0},
			},
		},
		{
			name: "no branch taken",
			steps: []step{
				{"if 0", false, 1},
				{"elif 0", false, 1},
				{"else", true, 1},
				{"endif", true, 0},
			},
		},
		{
			name:    "nested",
			defines: map[string]string{"OUTER": "1"},
			steps: []step{
				{"ifdef OUTER", true, 1},
				{"ifdef INNER", false, 2},
				{"endif", true, 1},
				{"endif", true, 0},
			},
		},
		{
			name:    "nested inside inactive",
			defines: map[string]string{"ANYTHING": "1"},
			steps: []step{
				{"ifdef UNDEFINED", false, 1},
				{"ifdef ANYTHING", false, 2},
				{"else", false, 2},
				{"endif", false, 1},
				{"else", true, 1},
				{"endif", true, 0},
			},
		},
		{
			name: "elif inside inactive parent",
			steps: []step{
				{"if 0", false, 1},
				{"if 0", false, 2},
				{"elif 1", false, 2},
				{"endif", false, 1},
				{"endif", true, 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt := NewMacroTable()
			for name, val := range tt.defines {
				mt.Define(name, val)
			}
			run(t, newProcessor(mt), tt.steps)
		})
	}
}

func TestConditionalIf(t *testing.T) {
	tests := []struct {
		name    string
		defines map[string]string
		expr    string
		expect  bool
	}{
		{"literal", nil, "1", true},
		{"zero", nil, "0", false},
		{"macro value", map[string]string{"X": "42"}, "X > 0", true},
		{"undefined is zero", nil, "UNDEFINED", false},
		{"defined", map[string]string{"FOO": "1"}, "defined(FOO)", true},
		{"not defined", nil, "defined(FOO)", false},
		{"range", map[string]string{"X": "5"}, "X >= 5 && X < 10", true},
		{"version check", map[string]string{"V": "0x0207"}, "V >= 0x0200 && !defined(LEGACY)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt := NewMacroTable()
			for name, val := range tt.defines {
				mt.Define(name, val)
			}
			run(t, newProcessor(mt), []step{{"if " + tt.expr, tt.expect, 1}, {"endif", true, 0}})
		})
	}
}

func TestConditionalErrors(t *testing.T) {
	tests := []struct {
		name   string
		action func(cp *ConditionalProcessor) error
		errMsg string
	}{
		{
			name: "else without if",
			action: func(cp *ConditionalProcessor) error {
				return cp.ProcessElse()
			},
			errMsg: "without matching #if",
		},
		{
			name: "endif without if",
			action: func(cp *ConditionalProcessor) error {
				return cp.ProcessEndif()
			},
			errMsg: "without matching #if",
		},
		{
			name: "elif without if",
			action: func(cp *ConditionalProcessor) error {
				return cp.ProcessElif(cabs.Constant{Text: "1"})
			},
			errMsg: "without matching #if",
		},
		{
			name: "duplicate else",
			action: func(cp *ConditionalProcessor) error {
				cp.ProcessIfdef("X")
				cp.ProcessElse()
				return cp.ProcessElse()
			},
			errMsg: "duplicate #else",
		},
		{
			name: "elif after else",
			action: func(cp *ConditionalProcessor) error {
				cp.ProcessIfdef("X")
				cp.ProcessElse()
				return cp.ProcessElif(cabs.Constant{Text: "1"})
			},
			errMsg: "after #else",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt := NewMacroTable()
			cp := newProcessor(mt)
			err := tt.action(cp)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.errMsg)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestConditionalCheckBalanced(t *testing.T) {
	mt := NewMacroTable()
	cp := newProcessor(mt)

	// Start nested
	cp.ProcessIfdef("X")
	cp.ProcessIfdef("Y")

	err := cp.CheckBalanced()
	if err == nil {
		t.Fatal("expected error for unbalanced conditionals")
	}

	// Balance it
	cp.ProcessEndif()
	cp.ProcessEndif()

	err = cp.CheckBalanced()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExpressionValues(t *testing.T) {
	tests := []struct {
		expr string
		want int64
	}{
		{"0x2A", 42},
		{"052", 42},
		{"+5", 5},
		{"!1", 0},
		{"~0", -1},
		{"10 - 3", 7},
		{"16 >> 2", 4},
		{"5 != 5", 0},
		{"0xFF & 0x0F", 15},
		{"0xFF ^ 0x0F", 240},
		{"1 && 0", 0},
		{"0 || 0", 0},
		{"0 ? 2 : 3", 3},
		{"(2 + 3) * 4", 20},
		{"'a'", 97},
		{"'\\n'", 10},
		{"(long) 7", 7},
	}

	eval := parser.NewEvaluator(NewMacroTable())
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := cabs.Evaluate(parse(t, tt.expr), eval)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if got != tt.want {
				t.Errorf("%s = %d, want %d", tt.expr, got, tt.want)
			}
		})
	}
}

func TestDefinedOperator(t *testing.T) {
	tests := []struct {
		name    string
		defined []string
		expr    string
		expect  bool
	}{
		{"defined(X) true", []string{"X"}, "defined(X)", true},
		{"defined(X) false", []string{}, "defined(X)", false},
		{"defined X true", []string{"X"}, "defined X", true},
		{"defined X false", []string{}, "defined X", false},
		{"!defined(X)", []string{}, "!defined(X)", true},
		{"defined(X) && defined(Y)", []string{"X", "Y"}, "defined(X) && defined(Y)", true},
		{"defined(X) || defined(Y)", []string{"X"}, "defined(X) || defined(Y)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt := NewMacroTable()
			for _, name := range tt.defined {
				mt.Define(name, "1")
			}

			eval := parser.NewEvaluator(mt)
			result, err := eval.Condition(parse(t, tt.expr))
			if err != nil {
				t.Fatalf("Condition error: %v", err)
			}

			if result != tt.expect {
				t.Errorf("result = %v, want %v", result, tt.expect)
			}
		})
	}
}

func TestMacroBodiesEvaluated(t *testing.T) {
	mt := NewMacroTable()
	mt.Define("VERSION", "(MAJOR * 100 + MINOR)")
	mt.Define("MAJOR", "2")
	mt.Define("MINOR", "7")
	mt.Define("LOOP", "LOOP + 1")
	mt.Define("EMPTY", "")
	eval := parser.NewEvaluator(mt)

	tests := []struct {
		name string
		want int64
	}{
		{"VERSION", 207},
		{"LOOP", 1},
		{"EMPTY", 0},
		{"UNDEFINED", 0},
	}
	for _, tt := range tests {
		got, err := eval.EvaluateIdentifier(tt.name)
		if err != nil {
			t.Fatalf("EvaluateIdentifier(%s): %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("EvaluateIdentifier(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestEvaluatorErrors(t *testing.T) {
	mt := NewMacroTable()
	mt.Define("TEXT", "\"not a number\"")
	mt.Define("BROKEN", "1 +")
	mt.DefineFunction("F", []string{"x"}, false, "x")

	eval := parser.NewEvaluator(mt)
	if _, err := eval.EvaluateIdentifier("TEXT"); !errors.Is(err, cabs.ErrNotConstant) {
		t.Errorf("TEXT: err = %v, want ErrNotConstant", err)
	}
	if _, err := eval.EvaluateIdentifier("BROKEN"); !errors.Is(err, parser.ErrSyntax) {
		t.Errorf("BROKEN: err = %v, want ErrSyntax", err)
	}
	if _, err := eval.Condition(parse(t, "F(1)")); !errors.Is(err, cabs.ErrNotConstant) {
		t.Errorf("F(1): err = %v, want ErrNotConstant", err)
	}
	if _, err := eval.Condition(parse(t, "1 / 0")); !errors.Is(err, cabs.ErrDivisionByZero) {
		t.Errorf("1 / 0: err = %v, want ErrDivisionByZero", err)
	}

	// integer bodies work without an expression parser
	mt.Define("N", "0x10")
	plain := NewEvaluator(mt, nil)
	if v, err := plain.EvaluateIdentifier("N"); err != nil || v != 16 {
		t.Errorf("N = %d, %v; want 16", v, err)
	}
	if _, err := plain.EvaluateIdentifier("BROKEN"); !errors.Is(err, cabs.ErrNotConstant) {
		t.Errorf("BROKEN without parser: err = %v, want ErrNotConstant", err)
	}
}

func TestConstantsEvaluator(t *testing.T) {
	mt := NewMacroTable()
	mt.Define("N", "4")
	eval := parser.NewEvaluator(mt).Constants()

	if eval.IsPreprocessor() {
		t.Error("Constants() should not be a preprocessor context")
	}
	if v, err := eval.EvaluateIdentifier("N"); err != nil || v != 4 {
		t.Errorf("N = %d, %v; want 4", v, err)
	}
	if _, err := eval.EvaluateIdentifier("M"); !errors.Is(err, cabs.ErrNotConstant) {
		t.Errorf("M: err = %v, want ErrNotConstant", err)
	}
}

func TestConditionalUnevaluableIf(t *testing.T) {
	cp := newProcessor(NewMacroTable())
	if err := cp.ProcessIf(parse(t, "sizeof(int) > 2")); err == nil {
		t.Error("expected an error for sizeof in #if")
	}
	if cp.IsActive() {
		t.Error("an unevaluable #if should open an inactive branch")
	}
	if err := cp.ProcessElse(); err != nil {
		t.Fatal(err)
	}
	if !cp.IsActive() {
		t.Error("#else after an unevaluable #if should be active")
	}
}
