// Package parser implements a single-pass recursive descent parser for C
// declarations with an interleaved preprocessor.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raymyers/cdecl/pkg/cabs"
	"github.com/raymyers/cdecl/pkg/cpp"
	"github.com/raymyers/cdecl/pkg/lexer"
)

// ErrSyntax is returned by ParseExpression for malformed input.
var ErrSyntax = errors.New("syntax error")

// Condition describes an #if, #ifdef or #ifndef being opened.
type Condition struct {
	Directive string    // "if", "ifdef" or "ifndef"
	Name      string    // macro name of #ifdef and #ifndef
	Expr      cabs.Expr // expression of #if, nil if it did not parse
	Line      int
}

// SkipFunc decides whether the scanner discards a conditional region up to
// its balancing #endif, #else and #elif branches included.
type SkipFunc func(c Condition) bool

// SkipCPlusPlus skips #ifdef __cplusplus regions.
func SkipCPlusPlus(c Condition) bool {
	return c.Directive == "ifdef" && c.Name == "__cplusplus"
}

// SkipNone never skips.
func SkipNone(Condition) bool {
	return false
}

// Options configures a Parser.
type Options struct {
	FileName    string       // name used in positions, default "<input>"
	StddefTypes bool         // predeclare wchar_t, ptrdiff_t and size_t
	Skip        SkipFunc     // default SkipCPlusPlus
	Logger      *slog.Logger // nil disables logging

	// Macros is the macro table to start from, shared rather than copied.
	// Nil starts with an empty table.
	Macros *cpp.MacroTable
}

// Parser parses C declarations and reports them to a Handler. Macros and
// type names persist across calls to Parse.
type Parser struct {
	handler Handler
	opts    Options
	logger  *slog.Logger

	macros *cpp.MacroTable
	types  *lexer.TypeNames
	conds  *lexer.Conditionals

	l      *lexer.Lexer
	tok    lexer.Token
	errors []string

	braces      int       // unclosed { consumed by the current declaration
	inDirective bool      // parsing a directive line
	record      *[]string // receives consumed token literals when set
	declared    int
}

// New creates a Parser reporting to h.
func New(h Handler, opts Options) *Parser {
	if h == nil {
		h = NopHandler{}
	}
	if opts.Skip == nil {
		opts.Skip = SkipCPlusPlus
	}
	if opts.FileName == "" {
		opts.FileName = "<input>"
	}
	var names []string
	if opts.StddefTypes {
		names = lexer.StddefTypes
	}
	macros := opts.Macros
	if macros == nil {
		macros = cpp.NewMacroTable()
	}
	return &Parser{
		handler: h,
		opts:    opts,
		logger:  opts.Logger,
		macros:  macros,
		types:   lexer.NewTypeNames(names...),
		conds:   lexer.NewConditionals(),
	}
}

// Macros returns the macro table.
func (p *Parser) Macros() *cpp.MacroTable {
	return p.macros
}

// TypeNames returns the type-name registry.
func (p *Parser) TypeNames() *lexer.TypeNames {
	return p.types
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []string {
	return p.errors
}

// Parse parses src, named by Options.FileName.
func (p *Parser) Parse(src string) {
	p.ParseFile(p.opts.FileName, src)
}

// ParseFile parses src as the contents of name.
func (p *Parser) ParseFile(name, src string) {
	if strings.TrimSpace(src) == "" {
		return
	}
	p.conds.Reset()
	p.braces = 0
	p.l = lexer.New(name, src, p.macros, p.types, p.conds)
	declared, errs := p.declared, len(p.errors)
	p.log(slog.LevelDebug, "parsing file", slog.String("file", name), slog.Int("bytes", len(src)))

	p.next()
	for p.tok.Type != lexer.TokenEOF {
		p.parseExternalDeclaration()
	}
	for _, line := range p.conds.Open() {
		p.reportLine(line, 0, "unterminated conditional directive")
	}

	p.log(slog.LevelDebug, "parsed file",
		slog.String("file", name),
		slog.Int("declarations", p.declared-declared),
		slog.Int("errors", len(p.errors)-errs),
		slog.Int("macros", p.macros.Len()),
		slog.Int("types", p.types.Len()))
}

// ParseExpression parses text as the expression of an #if: defined X is
// recognized and identifiers are not macro-expanded.
func ParseExpression(text string) (cabs.Expr, error) {
	p := New(nil, Options{FileName: "<expr>", Skip: SkipNone})
	p.l = lexer.New(p.opts.FileName, text, p.macros, p.types, p.conds)
	p.inDirective = true
	p.next()
	expr, ok := p.parseConditional()
	if ok && p.tok.Type != lexer.TokenEOF {
		p.syntaxError()
		ok = false
	}
	if !ok {
		msg := "invalid expression"
		if len(p.errors) > 0 {
			msg = p.errors[0]
		}
		return nil, fmt.Errorf("%q: %s: %w", text, msg, ErrSyntax)
	}
	return expr, nil
}

// NewEvaluator returns a preprocessor evaluation context over macros.
func NewEvaluator(macros *cpp.MacroTable) *cpp.Evaluator {
	return cpp.NewEvaluator(macros, ParseExpression)
}

func (p *Parser) log(level slog.Level, msg string, attrs ...slog.Attr) {
	if p.logger == nil {
		return
	}
	p.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// next advances to the next token. Directives are parsed as soon as their
// # is scanned, so they may appear between any two tokens.
func (p *Parser) next() {
	if p.record != nil {
		*p.record = append(*p.record, p.tok.Literal)
	}
	for {
		p.tok = p.l.NextToken()
		if p.tok.Type != lexer.TokenPPHash {
			return
		}
		p.parseDirective()
	}
}

func (p *Parser) at(t lexer.TokenType) bool {
	return p.tok.Type == t
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.at(t) {
		p.next()
		return true
	}
	p.syntaxError()
	return false
}

// syntaxError reports the current token as unexpected.
func (p *Parser) syntaxError() {
	if p.at(lexer.TokenEOF) {
		p.report(p.tok, "Syntax error at end of file")
		return
	}
	p.report(p.tok, fmt.Sprintf("Syntax error at %q", p.tok.Literal))
}

func (p *Parser) report(tok lexer.Token, msg string) {
	p.reportLine(tok.Line, p.l.Position(tok.Pos).Column, msg)
}

func (p *Parser) reportLine(line, col int, msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d, col %d: %s", line, col, msg))
	p.log(slog.LevelDebug, "error", slog.Int("line", line), slog.String("message", msg))
	p.handler.HandleError(msg, line)
}

// synchronize discards tokens up to and including the ; that ends the
// declaration in error. A } closing the outermost brace also ends it,
// together with a ; directly after it.
func (p *Parser) synchronize() {
	depth := p.braces
	p.braces = 0
	for !p.at(lexer.TokenEOF) {
		switch p.tok.Type {
		case lexer.TokenLBrace:
			depth++
		case lexer.TokenRBrace:
			if depth > 0 {
				depth--
				if depth == 0 {
					p.next()
					if p.at(lexer.TokenSemicolon) {
						p.next()
					}
					return
				}
			}
		case lexer.TokenSemicolon:
			if depth == 0 {
				p.next()
				return
			}
		}
		p.next()
	}
}
