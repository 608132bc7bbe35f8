package parser

import (
	"log/slog"
	"strings"

	"github.com/raymyers/cdecl/pkg/cabs"
	"github.com/raymyers/cdecl/pkg/lexer"
)

// parseDirective parses a directive line after its #. It returns with the
// directive's PP_NEWLINE as the current token, so that the effects of the
// directive are in place before the next token is scanned.
func (p *Parser) parseDirective() {
	line := p.tok.Line
	p.inDirective = true
	defer func() { p.inDirective = false }()

	p.next()
	switch p.tok.Type {
	case lexer.TokenPPNewline:
		// null directive
	case lexer.TokenPPDefine:
		p.parseDefine()
	case lexer.TokenPPUndef:
		p.next()
		if !p.at(lexer.TokenIdent) {
			p.syntaxError()
			p.skipLine()
			return
		}
		name := p.tok.Literal
		p.next()
		if !p.endDirective() {
			return
		}
		p.macros.Undefine(name)
		p.log(slog.LevelDebug, "undef", slog.String("name", name), slog.Int("line", line))
		p.handler.HandleUndef(name)
	case lexer.TokenPPIf:
		p.next()
		expr := p.parseDirectiveExpr()
		p.handler.HandleIf(expr)
		p.openConditional(Condition{Directive: "if", Expr: expr, Line: line})
	case lexer.TokenPPIfdef, lexer.TokenPPIfndef:
		directive := p.tok.Literal
		p.next()
		name := ""
		if p.at(lexer.TokenIdent) {
			name = p.tok.Literal
			p.next()
			p.endDirective()
		} else {
			p.syntaxError()
			p.skipLine()
		}
		if directive == "ifdef" {
			p.handler.HandleIfdef(name)
		} else {
			p.handler.HandleIfndef(name)
		}
		p.openConditional(Condition{Directive: directive, Name: name, Line: line})
	case lexer.TokenPPElif:
		tok := p.tok
		p.next()
		expr := p.parseDirectiveExpr()
		if p.conds.Depth() == 0 {
			p.report(tok, "#elif without matching #if")
			return
		}
		if bh, ok := p.handler.(BranchHandler); ok {
			bh.HandleElif(expr)
		}
	case lexer.TokenPPElse:
		tok := p.tok
		p.next()
		if !p.endDirective() {
			return
		}
		if p.conds.Depth() == 0 {
			p.report(tok, "#else without matching #if")
			return
		}
		if bh, ok := p.handler.(BranchHandler); ok {
			bh.HandleElse()
		}
	case lexer.TokenPPEndif:
		tok := p.tok
		p.next()
		p.endDirective()
		if !p.l.EndConditional() {
			p.report(tok, "#endif without matching #if")
			return
		}
		p.handler.HandleEndif()
	case lexer.TokenPPInclude, lexer.TokenPPLine:
		// Accepted but not acted on; file inclusion is the caller's job.
		directive := p.tok.Literal
		p.next()
		if p.at(lexer.TokenPPNewline) {
			p.syntaxError()
			return
		}
		p.log(slog.LevelDebug, "directive ignored",
			slog.String("directive", directive),
			slog.String("operand", p.collectLine()),
			slog.Int("line", line))
	case lexer.TokenPPNumber:
		// # 12 "file.h" line marker from an external preprocessor
		p.log(slog.LevelDebug, "line marker", slog.String("operand", p.collectLine()), slog.Int("line", line))
	case lexer.TokenPPError, lexer.TokenPPPragma:
		directive := p.tok.Literal
		p.next()
		p.log(slog.LevelDebug, "directive ignored",
			slog.String("directive", directive),
			slog.String("operand", p.collectLine()),
			slog.Int("line", line))
	default:
		p.syntaxError()
		p.skipLine()
	}
}

func (p *Parser) parseDefine() {
	line := p.tok.Line
	p.next()
	if !p.at(lexer.TokenIdent) {
		p.syntaxError()
		p.skipLine()
		return
	}
	name := p.tok.Literal
	p.next()

	if !p.at(lexer.TokenPPLParen) {
		value := p.collectLine()
		p.macros.Define(name, value)
		p.log(slog.LevelDebug, "define",
			slog.String("name", name),
			slog.String("value", value),
			slog.Int("line", line))
		p.handler.HandleDefine(name, value)
		return
	}

	params, variadic, ok := p.parseMacroParams()
	if !ok {
		p.skipLine()
		return
	}
	value := p.collectLine()
	p.macros.DefineFunction(name, params, variadic, value)
	p.log(slog.LevelDebug, "define function",
		slog.String("name", name),
		slog.Int("params", len(params)),
		slog.String("value", value),
		slog.Int("line", line))
	if fh, ok := p.handler.(FunctionMacroHandler); ok {
		fh.HandleDefineFunction(name, params, variadic, value)
	}
}

// parseMacroParams parses the parameter list of a function-like macro,
// starting at its PP_LPAREN.
func (p *Parser) parseMacroParams() ([]string, bool, bool) {
	p.next()
	params := []string{}
	variadic := false
	if p.at(lexer.TokenRParen) {
		p.next()
		return params, false, true
	}
	for {
		switch {
		case p.at(lexer.TokenIdent):
			params = append(params, p.tok.Literal)
			p.next()
		case p.at(lexer.TokenEllipsis):
			variadic = true
			p.next()
		default:
			p.syntaxError()
			return nil, false, false
		}
		if variadic || !p.at(lexer.TokenComma) {
			break
		}
		p.next()
	}
	if !p.expect(lexer.TokenRParen) {
		return nil, false, false
	}
	return params, variadic, true
}

// parseDirectiveExpr parses the expression of #if or #elif and the end of
// the line. It returns nil if the expression is malformed.
func (p *Parser) parseDirectiveExpr() cabs.Expr {
	expr, ok := p.parseExpression()
	if !ok {
		p.skipLine()
		return nil
	}
	if !p.endDirective() {
		return nil
	}
	return expr
}

// openConditional pushes a conditional once its directive line is complete.
func (p *Parser) openConditional(c Condition) {
	skip := p.opts.Skip(c)
	if skip {
		p.log(slog.LevelDebug, "skipping conditional",
			slog.String("directive", c.Directive),
			slog.String("name", c.Name),
			slog.Int("line", c.Line))
	}
	p.l.BeginConditional(c.Line, skip)
}

// endDirective checks that the directive line ends at the current token.
func (p *Parser) endDirective() bool {
	if p.at(lexer.TokenPPNewline) {
		return true
	}
	p.syntaxError()
	p.skipLine()
	return false
}

// skipLine discards the rest of a directive line.
func (p *Parser) skipLine() {
	for !p.at(lexer.TokenPPNewline) && !p.at(lexer.TokenEOF) {
		p.next()
	}
}

// collectLine returns the remaining tokens of the directive line as text,
// separated by a space where the source had whitespace.
func (p *Parser) collectLine() string {
	var sb strings.Builder
	for !p.at(lexer.TokenPPNewline) && !p.at(lexer.TokenEOF) {
		if sb.Len() > 0 && p.tok.Space {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.tok.Literal)
		p.next()
	}
	return sb.String()
}
