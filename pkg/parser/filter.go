package parser

import (
	"github.com/raymyers/cdecl/pkg/cabs"
	"github.com/raymyers/cdecl/pkg/cpp"
)

// BranchFilter evaluates conditional directives against a macro table and
// passes declarations and macro events to Next only from live branches.
// Conditional events themselves are consumed; errors are passed through.
//
// The scanner still sees every branch, so typedef names and macros from dead
// branches stay registered.
type BranchFilter struct {
	Next Handler

	cp   *cpp.ConditionalProcessor
	errs []error
}

// NewBranchFilter wraps next, evaluating conditions against macros.
func NewBranchFilter(next Handler, macros *cpp.MacroTable) *BranchFilter {
	return &BranchFilter{
		Next: next,
		cp:   cpp.NewConditionalProcessor(NewEvaluator(macros)),
	}
}

// Errors returns the conditions that could not be evaluated. Such branches
// are treated as false.
func (f *BranchFilter) Errors() []error {
	return f.errs
}

// Active reports whether the current position is in a live branch.
func (f *BranchFilter) Active() bool {
	return f.cp.IsActive()
}

func (f *BranchFilter) check(err error) {
	if err != nil {
		f.errs = append(f.errs, err)
	}
}

func (f *BranchFilter) HandleError(msg string, line int) {
	f.Next.HandleError(msg, line)
}

func (f *BranchFilter) HandleDefine(name, value string) {
	if f.cp.IsActive() {
		f.Next.HandleDefine(name, value)
	}
}

func (f *BranchFilter) HandleDefineFunction(name string, params []string, variadic bool, value string) {
	if fh, ok := f.Next.(FunctionMacroHandler); ok && f.cp.IsActive() {
		fh.HandleDefineFunction(name, params, variadic, value)
	}
}

func (f *BranchFilter) HandleUndef(name string) {
	if f.cp.IsActive() {
		f.Next.HandleUndef(name)
	}
}

func (f *BranchFilter) HandleIf(expr cabs.Expr) {
	f.check(f.cp.ProcessIf(expr))
}

func (f *BranchFilter) HandleIfdef(name string) {
	f.check(f.cp.ProcessIfdef(name))
}

func (f *BranchFilter) HandleIfndef(name string) {
	f.check(f.cp.ProcessIfndef(name))
}

func (f *BranchFilter) HandleElif(expr cabs.Expr) {
	f.check(f.cp.ProcessElif(expr))
}

func (f *BranchFilter) HandleElse() {
	f.check(f.cp.ProcessElse())
}

func (f *BranchFilter) HandleEndif() {
	f.check(f.cp.ProcessEndif())
}

func (f *BranchFilter) HandleDeclaration(decl *cabs.Declaration) {
	if f.cp.IsActive() {
		f.Next.HandleDeclaration(decl)
	}
}
