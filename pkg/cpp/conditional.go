// conditional.go implements evaluation of conditional directives for
// consumers that want to know which branches are live.
package cpp

import (
	"fmt"
	"strings"

	"github.com/raymyers/cdecl/pkg/cabs"
)

// ExprParser parses macro replacement text as a C expression.
type ExprParser func(text string) (cabs.Expr, error)

// Evaluator is a preprocessor evaluation context: defined(X) consults the
// macro table, identifiers evaluate to their macro value or 0.
type Evaluator struct {
	macros *MacroTable
	parse  ExprParser
	active map[string]bool // macros being evaluated
	strict bool
}

// NewEvaluator creates an evaluator over macros. parse is used for macro
// bodies that are not plain integers; nil limits macros to integer bodies.
func NewEvaluator(macros *MacroTable, parse ExprParser) *Evaluator {
	return &Evaluator{macros: macros, parse: parse, active: make(map[string]bool)}
}

// Constants returns an evaluator over the same macros for ordinary constant
// expressions such as array sizes: undefined names are errors rather than
// 0, and defined(X) is not recognized.
func (e *Evaluator) Constants() *Evaluator {
	return &Evaluator{macros: e.macros, parse: e.parse, active: make(map[string]bool), strict: true}
}

func (e *Evaluator) IsPreprocessor() bool { return !e.strict }

func (e *Evaluator) IsDefined(name string) bool {
	return e.macros.IsDefined(name)
}

// EvaluateIdentifier returns the value of an object-like macro. Undefined
// names and macros referring back to themselves evaluate to 0.
func (e *Evaluator) EvaluateIdentifier(name string) (int64, error) {
	body, ok := e.macros.Lookup(name)
	if !ok && e.strict {
		return 0, fmt.Errorf("identifier %s: %w", name, cabs.ErrNotConstant)
	}
	if !ok || e.active[name] {
		return 0, nil
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return 0, nil
	}
	if v, err := cabs.ParseInteger(body); err == nil {
		return v, nil
	}
	if e.parse == nil {
		return 0, fmt.Errorf("macro %s: %w", name, cabs.ErrNotConstant)
	}
	expr, err := e.parse(body)
	if err != nil {
		return 0, fmt.Errorf("macro %s: %w", name, err)
	}
	e.active[name] = true
	defer delete(e.active, name)
	v, err := cabs.Evaluate(expr, e)
	if err != nil {
		return 0, fmt.Errorf("macro %s: %w", name, err)
	}
	return v, nil
}

// EvaluateFunction fails: function-like macros are never expanded.
func (e *Evaluator) EvaluateFunction(name string, args []int64) (int64, error) {
	return 0, fmt.Errorf("function-like macro %s: %w", name, cabs.ErrNotConstant)
}

// Condition evaluates the expression of an #if or #elif.
func (e *Evaluator) Condition(expr cabs.Expr) (bool, error) {
	v, err := cabs.Evaluate(expr, e)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// ConditionState tracks the state of nested conditional compilation.
type ConditionState struct {
	active    bool // true if current branch is active (included)
	seenElse  bool // true if #else has been seen for this level
	anyActive bool // true if any branch at this level was active
}

// ConditionalProcessor follows #if/#elif/#else/#endif events and tracks
// whether the current position is in a live branch.
type ConditionalProcessor struct {
	eval  *Evaluator
	stack []ConditionState // stack of nested conditions
}

// NewConditionalProcessor creates a new conditional processor.
func NewConditionalProcessor(eval *Evaluator) *ConditionalProcessor {
	return &ConditionalProcessor{
		eval:  eval,
		stack: []ConditionState{},
	}
}

// IsActive returns true if the current location is active (should be included).
func (cp *ConditionalProcessor) IsActive() bool {
	for _, state := range cp.stack {
		if !state.active {
			return false
		}
	}
	return true
}

func (cp *ConditionalProcessor) parentActive() bool {
	for i := 0; i < len(cp.stack)-1; i++ {
		if !cp.stack[i].active {
			return false
		}
	}
	return true
}

func (cp *ConditionalProcessor) push(active bool) {
	cp.stack = append(cp.stack, ConditionState{active: active, anyActive: active})
}

// ProcessIf handles #if directive. A condition that cannot be evaluated
// opens an inactive branch and is reported.
func (cp *ConditionalProcessor) ProcessIf(expr cabs.Expr) error {
	if !cp.IsActive() {
		cp.push(false)
		return nil
	}
	result, err := cp.eval.Condition(expr)
	cp.push(result)
	if err != nil {
		return fmt.Errorf("#if: %w", err)
	}
	return nil
}

// ProcessIfdef handles #ifdef directive.
func (cp *ConditionalProcessor) ProcessIfdef(name string) error {
	cp.push(cp.IsActive() && cp.eval.IsDefined(name))
	return nil
}

// ProcessIfndef handles #ifndef directive.
func (cp *ConditionalProcessor) ProcessIfndef(name string) error {
	cp.push(cp.IsActive() && !cp.eval.IsDefined(name))
	return nil
}

// ProcessElif handles #elif directive.
func (cp *ConditionalProcessor) ProcessElif(expr cabs.Expr) error {
	if len(cp.stack) == 0 {
		return fmt.Errorf("#elif without matching #if")
	}

	state := &cp.stack[len(cp.stack)-1]
	if state.seenElse {
		return fmt.Errorf("#elif after #else")
	}
	if state.anyActive || !cp.parentActive() {
		state.active = false
		return nil
	}

	result, err := cp.eval.Condition(expr)
	state.active = result
	if result {
		state.anyActive = true
	}
	if err != nil {
		return fmt.Errorf("#elif: %w", err)
	}
	return nil
}

// ProcessElse handles #else directive.
func (cp *ConditionalProcessor) ProcessElse() error {
	if len(cp.stack) == 0 {
		return fmt.Errorf("#else without matching #if")
	}

	state := &cp.stack[len(cp.stack)-1]
	if state.seenElse {
		return fmt.Errorf("duplicate #else")
	}
	state.seenElse = true

	// #else is active only if parent is active and no previous branch was active
	state.active = cp.parentActive() && !state.anyActive
	if state.active {
		state.anyActive = true
	}
	return nil
}

// ProcessEndif handles #endif directive.
func (cp *ConditionalProcessor) ProcessEndif() error {
	if len(cp.stack) == 0 {
		return fmt.Errorf("#endif without matching #if")
	}
	cp.stack = cp.stack[:len(cp.stack)-1]
	return nil
}

// Depth returns the nesting depth of conditionals.
func (cp *ConditionalProcessor) Depth() int {
	return len(cp.stack)
}

// CheckBalanced returns an error if there are unclosed conditionals.
func (cp *ConditionalProcessor) CheckBalanced() error {
	if len(cp.stack) > 0 {
		return fmt.Errorf("unterminated conditional directive, %d level(s) unclosed", len(cp.stack))
	}
	return nil
}
