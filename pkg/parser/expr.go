package parser

import (
	"github.com/raymyers/cdecl/pkg/cabs"
	"github.com/raymyers/cdecl/pkg/lexer"
)

// binaryLevels lists the binary operators from the loosest to the tightest
// binding, below && and ||.
var binaryLevels = []map[lexer.TokenType]cabs.BinaryOp{
	{lexer.TokenPipe: cabs.OpBitOr},
	{lexer.TokenCaret: cabs.OpBitXor},
	{lexer.TokenAmpersand: cabs.OpBitAnd},
	{lexer.TokenEq: cabs.OpEq, lexer.TokenNe: cabs.OpNe},
	{lexer.TokenLt: cabs.OpLt, lexer.TokenLe: cabs.OpLe, lexer.TokenGt: cabs.OpGt, lexer.TokenGe: cabs.OpGe},
	{lexer.TokenShl: cabs.OpShl, lexer.TokenShr: cabs.OpShr},
	{lexer.TokenPlus: cabs.OpAdd, lexer.TokenMinus: cabs.OpSub},
	{lexer.TokenStar: cabs.OpMul, lexer.TokenSlash: cabs.OpDiv, lexer.TokenPercent: cabs.OpMod},
}

// assignOps maps assignment tokens to the operation they combine with; =
// itself maps to OpAssign.
var assignOps = map[lexer.TokenType]cabs.BinaryOp{
	lexer.TokenAssign:        cabs.OpAssign,
	lexer.TokenStarAssign:    cabs.OpMul,
	lexer.TokenSlashAssign:   cabs.OpDiv,
	lexer.TokenPercentAssign: cabs.OpMod,
	lexer.TokenPlusAssign:    cabs.OpAdd,
	lexer.TokenMinusAssign:   cabs.OpSub,
	lexer.TokenShlAssign:     cabs.OpShl,
	lexer.TokenShrAssign:     cabs.OpShr,
	lexer.TokenAndAssign:     cabs.OpBitAnd,
	lexer.TokenXorAssign:     cabs.OpBitXor,
	lexer.TokenOrAssign:      cabs.OpBitOr,
}

var unaryOps = map[lexer.TokenType]cabs.UnaryOp{
	lexer.TokenAmpersand: cabs.OpAddrOf,
	lexer.TokenStar:      cabs.OpDeref,
	lexer.TokenPlus:      cabs.OpPlus,
	lexer.TokenMinus:     cabs.OpNeg,
	lexer.TokenTilde:     cabs.OpBitNot,
	lexer.TokenNot:       cabs.OpNot,
}

// parseExpression parses a comma expression.
func (p *Parser) parseExpression() (cabs.Expr, bool) {
	left, ok := p.parseAssignment()
	for ok && p.at(lexer.TokenComma) {
		p.next()
		var right cabs.Expr
		right, ok = p.parseAssignment()
		left = cabs.Binary{Op: cabs.OpComma, Left: left, Right: right}
	}
	return left, ok
}

func (p *Parser) parseAssignment() (cabs.Expr, bool) {
	left, ok := p.parseConditional()
	if !ok {
		return nil, false
	}
	op, isAssign := assignOps[p.tok.Type]
	if !isAssign {
		return left, true
	}
	p.next()
	right, ok := p.parseAssignment()
	if !ok {
		return nil, false
	}
	if op != cabs.OpAssign {
		right = cabs.Binary{Op: op, Left: left, Right: right}
	}
	return cabs.Binary{Op: cabs.OpAssign, Left: left, Right: right}, true
}

// parseConditional parses a constant expression: a ? b : c and everything
// binding tighter.
func (p *Parser) parseConditional() (cabs.Expr, bool) {
	cond, ok := p.parseLogicalOr()
	if !ok || !p.at(lexer.TokenQuestion) {
		return cond, ok
	}
	p.next()
	then, ok := p.parseExpression()
	if !ok || !p.expect(lexer.TokenColon) {
		return nil, false
	}
	els, ok := p.parseConditional()
	if !ok {
		return nil, false
	}
	return cabs.Conditional{Cond: cond, Then: then, Else: els}, true
}

func (p *Parser) parseLogicalOr() (cabs.Expr, bool) {
	left, ok := p.parseLogicalAnd()
	for ok && p.at(lexer.TokenOr) {
		p.next()
		var right cabs.Expr
		right, ok = p.parseLogicalAnd()
		left = cabs.LogicalOr{Left: left, Right: right}
	}
	return left, ok
}

func (p *Parser) parseLogicalAnd() (cabs.Expr, bool) {
	left, ok := p.parseBinary(0)
	for ok && p.at(lexer.TokenAnd) {
		p.next()
		var right cabs.Expr
		right, ok = p.parseBinary(0)
		left = cabs.LogicalAnd{Left: left, Right: right}
	}
	return left, ok
}

func (p *Parser) parseBinary(level int) (cabs.Expr, bool) {
	if level == len(binaryLevels) {
		return p.parseCast()
	}
	left, ok := p.parseBinary(level + 1)
	for ok {
		op, found := binaryLevels[level][p.tok.Type]
		if !found {
			break
		}
		p.next()
		var right cabs.Expr
		right, ok = p.parseBinary(level + 1)
		left = cabs.Binary{Op: op, Left: left, Right: right}
	}
	return left, ok
}

// parseCast parses a cast or, when the parenthesis holds an expression, a
// parenthesized primary with its postfix operators.
func (p *Parser) parseCast() (cabs.Expr, bool) {
	if !p.at(lexer.TokenLParen) && !p.at(lexer.TokenPPLParen) {
		return p.parseUnary()
	}
	p.next()
	if p.isTypeStart() {
		name, ok := p.parseTypeName()
		if !ok || !p.expect(lexer.TokenRParen) {
			return nil, false
		}
		operand, ok := p.parseCast()
		if !ok {
			return nil, false
		}
		return cabs.Cast{TypeName: name, Expr: operand}, true
	}
	inner, ok := p.parseExpression()
	if !ok || !p.expect(lexer.TokenRParen) {
		return nil, false
	}
	return p.parsePostfixOps(inner)
}

func (p *Parser) parseUnary() (cabs.Expr, bool) {
	switch p.tok.Type {
	case lexer.TokenIncrement, lexer.TokenDecrement:
		op := cabs.OpPreInc
		if p.at(lexer.TokenDecrement) {
			op = cabs.OpPreDec
		}
		p.next()
		operand, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return cabs.Unary{Op: op, Expr: operand}, true
	case lexer.TokenSizeof:
		return p.parseSizeof()
	}
	if op, ok := unaryOps[p.tok.Type]; ok {
		p.next()
		operand, ok := p.parseCast()
		if !ok {
			return nil, false
		}
		return cabs.Unary{Op: op, Expr: operand}, true
	}
	return p.parsePostfix()
}

func (p *Parser) parseSizeof() (cabs.Expr, bool) {
	p.next()
	if !p.at(lexer.TokenLParen) && !p.at(lexer.TokenPPLParen) {
		operand, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return cabs.SizeofExpr{Expr: operand}, true
	}
	p.next()
	if p.isTypeStart() {
		name, ok := p.parseTypeName()
		if !ok || !p.expect(lexer.TokenRParen) {
			return nil, false
		}
		return cabs.SizeofType{TypeName: name}, true
	}
	inner, ok := p.parseExpression()
	if !ok || !p.expect(lexer.TokenRParen) {
		return nil, false
	}
	operand, ok := p.parsePostfixOps(inner)
	if !ok {
		return nil, false
	}
	return cabs.SizeofExpr{Expr: operand}, true
}

func (p *Parser) parsePostfix() (cabs.Expr, bool) {
	primary, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	return p.parsePostfixOps(primary)
}

func (p *Parser) parsePostfixOps(expr cabs.Expr) (cabs.Expr, bool) {
	for {
		switch p.tok.Type {
		case lexer.TokenLBracket:
			p.next()
			index, ok := p.parseExpression()
			if !ok || !p.expect(lexer.TokenRBracket) {
				return nil, false
			}
			expr = cabs.Index{Array: expr, Index: index}
		case lexer.TokenLParen, lexer.TokenPPLParen:
			p.next()
			args := []cabs.Expr{}
			for !p.at(lexer.TokenRParen) {
				arg, ok := p.parseAssignment()
				if !ok {
					return nil, false
				}
				args = append(args, arg)
				if !p.at(lexer.TokenComma) {
					break
				}
				p.next()
			}
			if !p.expect(lexer.TokenRParen) {
				return nil, false
			}
			expr = cabs.Call{Func: expr, Args: args}
		case lexer.TokenDot, lexer.TokenArrow:
			arrow := p.at(lexer.TokenArrow)
			p.next()
			if !p.at(lexer.TokenIdent) && !p.at(lexer.TokenTypeName) {
				p.syntaxError()
				return nil, false
			}
			expr = cabs.Member{Expr: expr, Name: p.tok.Literal, IsArrow: arrow}
			p.next()
		case lexer.TokenIncrement:
			p.next()
			expr = cabs.Unary{Op: cabs.OpPostInc, Expr: expr}
		case lexer.TokenDecrement:
			p.next()
			expr = cabs.Unary{Op: cabs.OpPostDec, Expr: expr}
		default:
			return expr, true
		}
	}
}

func (p *Parser) parsePrimary() (cabs.Expr, bool) {
	switch p.tok.Type {
	case lexer.TokenIdent:
		name := p.tok.Literal
		p.next()
		if name == "defined" && p.inDirective && p.at(lexer.TokenIdent) {
			arg := cabs.Identifier{Name: p.tok.Literal}
			p.next()
			return cabs.Call{Func: cabs.Identifier{Name: name}, Args: []cabs.Expr{arg}}, true
		}
		return cabs.Identifier{Name: name}, true
	case lexer.TokenConstant, lexer.TokenCharConst, lexer.TokenPPNumber:
		c := cabs.Constant{Text: p.tok.Literal}
		p.next()
		return c, true
	case lexer.TokenString:
		text := p.tok.Literal
		p.next()
		for p.at(lexer.TokenString) {
			text += " " + p.tok.Literal
			p.next()
		}
		return cabs.Constant{Text: text}, true
	case lexer.TokenLParen, lexer.TokenPPLParen:
		p.next()
		inner, ok := p.parseExpression()
		if !ok || !p.expect(lexer.TokenRParen) {
			return nil, false
		}
		return inner, true
	}
	p.syntaxError()
	return nil, false
}
