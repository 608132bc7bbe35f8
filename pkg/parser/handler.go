package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/raymyers/cdecl/pkg/cabs"
)

// Handler receives parse events in source order.
type Handler interface {
	HandleError(msg string, line int)
	HandleDefine(name, value string)
	HandleUndef(name string)
	HandleIf(expr cabs.Expr)
	HandleIfdef(name string)
	HandleIfndef(name string)
	HandleEndif()
	HandleDeclaration(decl *cabs.Declaration)
}

// FunctionMacroHandler is implemented by handlers that want function-like
// #define directives. Other handlers never see them.
type FunctionMacroHandler interface {
	HandleDefineFunction(name string, params []string, variadic bool, value string)
}

// BranchHandler is implemented by handlers that want #elif and #else.
type BranchHandler interface {
	HandleElif(expr cabs.Expr)
	HandleElse()
}

// NopHandler ignores every event. Embed it to implement only some methods.
type NopHandler struct{}

func (NopHandler) HandleError(msg string, line int)         {}
func (NopHandler) HandleDefine(name, value string)          {}
func (NopHandler) HandleUndef(name string)                  {}
func (NopHandler) HandleIf(expr cabs.Expr)                  {}
func (NopHandler) HandleIfdef(name string)                  {}
func (NopHandler) HandleIfndef(name string)                 {}
func (NopHandler) HandleEndif()                             {}
func (NopHandler) HandleDeclaration(decl *cabs.Declaration) {}

// Collector keeps the declarations and errors it receives.
type Collector struct {
	NopHandler
	Declarations []*cabs.Declaration
	Errors       []string // "line: message"
}

func (c *Collector) HandleError(msg string, line int) {
	c.Errors = append(c.Errors, fmt.Sprintf("%d: %s", line, msg))
}

func (c *Collector) HandleDeclaration(decl *cabs.Declaration) {
	c.Declarations = append(c.Declarations, decl)
}

// DebugHandler prints every event, declarations with cabs.Printer and
// errors as "line: message" on errOut.
type DebugHandler struct {
	out     io.Writer
	errOut  io.Writer
	printer *cabs.Printer
}

// NewDebugHandler creates a DebugHandler writing to out and errOut.
func NewDebugHandler(out, errOut io.Writer) *DebugHandler {
	return &DebugHandler{out: out, errOut: errOut, printer: cabs.NewPrinter(out)}
}

func (h *DebugHandler) HandleError(msg string, line int) {
	fmt.Fprintf(h.errOut, "%d: %s\n", line, msg)
}

func (h *DebugHandler) HandleDefine(name, value string) {
	fmt.Fprintf(h.out, "#define name=%q, value=%q\n", name, value)
}

func (h *DebugHandler) HandleDefineFunction(name string, params []string, variadic bool, value string) {
	if variadic {
		params = append(params[:len(params):len(params)], "...")
	}
	fmt.Fprintf(h.out, "#define name=%q, params=(%s), value=%q\n", name, strings.Join(params, ", "), value)
}

func (h *DebugHandler) HandleUndef(name string) {
	fmt.Fprintf(h.out, "#undef name=%q\n", name)
}

func (h *DebugHandler) HandleIf(expr cabs.Expr) {
	fmt.Fprintf(h.out, "#if expr=%s\n", cabs.ExprString(expr))
}

func (h *DebugHandler) HandleIfdef(name string) {
	fmt.Fprintf(h.out, "#ifdef name=%q\n", name)
}

func (h *DebugHandler) HandleIfndef(name string) {
	fmt.Fprintf(h.out, "#ifndef name=%q\n", name)
}

func (h *DebugHandler) HandleElif(expr cabs.Expr) {
	fmt.Fprintf(h.out, "#elif expr=%s\n", cabs.ExprString(expr))
}

func (h *DebugHandler) HandleElse() {
	fmt.Fprintln(h.out, "#else")
}

func (h *DebugHandler) HandleEndif() {
	fmt.Fprintln(h.out, "#endif")
}

func (h *DebugHandler) HandleDeclaration(decl *cabs.Declaration) {
	h.printer.PrintDeclaration(decl)
}
