package parser

import (
	"log/slog"
	"strings"

	"github.com/raymyers/cdecl/pkg/cabs"
	"github.com/raymyers/cdecl/pkg/lexer"
)

// specifiers collects the declaration specifiers of one declaration.
type specifiers struct {
	typ     cabs.Type
	storage string
	inline  bool
	hasType bool // a type specifier was seen
}

func (s *specifiers) empty() bool {
	return s.storage == "" && !s.inline && len(s.typ.Qualifiers) == 0 && len(s.typ.Specifiers) == 0
}

// parseExternalDeclaration parses one declaration up to and including its
// ;, or recovers from a syntax error.
func (p *Parser) parseExternalDeclaration() {
	line := p.tok.Line
	specs, ok := p.parseSpecifiers()
	if ok && specs.empty() {
		p.syntaxError()
		ok = false
	}
	var declarators []*cabs.Declarator
	if ok && !p.at(lexer.TokenSemicolon) {
		declarators, ok = p.parseInitDeclarators()
		if ok && !p.at(lexer.TokenSemicolon) {
			p.syntaxError()
			ok = false
		}
	}
	if !ok {
		p.synchronize()
		return
	}
	// Deliver before scanning past the ; so that a new typedef name is
	// classified correctly in the very next token.
	p.emit(specs, declarators, line)
	p.next()
}

func (p *Parser) emit(specs *specifiers, declarators []*cabs.Declarator, line int) {
	if len(declarators) == 0 {
		if specs.storage == "typedef" {
			return
		}
		declarators = []*cabs.Declarator{nil}
	}
	for _, d := range declarators {
		decl := &cabs.Declaration{
			Declarator: d,
			Type:       specs.typ.Clone(),
			Storage:    specs.storage,
			Inline:     specs.inline,
			Line:       line,
		}
		if decl.IsTypedef() {
			if name := decl.Name(); name != "" && p.types.Add(name) {
				p.log(slog.LevelDebug, "type name", slog.String("name", name), slog.Int("line", line))
			}
		}
		p.declared++
		p.handler.HandleDeclaration(decl)
	}
}

// parseSpecifiers parses declaration specifiers. It stops at the first
// token that is not a specifier, and at a type name following another type
// specifier, which is then the declarator's identifier.
func (p *Parser) parseSpecifiers() (*specifiers, bool) {
	s := &specifiers{}
	for {
		switch p.tok.Type {
		case lexer.TokenTypedef, lexer.TokenExtern, lexer.TokenStatic, lexer.TokenAuto, lexer.TokenRegister:
			if s.storage != "" {
				p.report(p.tok, "Declaration has more than one storage class")
			} else {
				s.storage = p.tok.Literal
			}
			p.next()
		case lexer.TokenConst, lexer.TokenVolatile, lexer.TokenRestrict:
			s.typ.Qualifiers = append(s.typ.Qualifiers, p.tok.Literal)
			p.next()
		case lexer.TokenInline:
			s.inline = true
			p.next()
		case lexer.TokenVoid, lexer.TokenChar, lexer.TokenShort, lexer.TokenInt, lexer.TokenLong,
			lexer.TokenFloat, lexer.TokenDouble, lexer.TokenSigned, lexer.TokenUnsigned, lexer.TokenBool:
			s.typ.Specifiers = append(s.typ.Specifiers, p.tok.Literal)
			s.hasType = true
			p.next()
		case lexer.TokenStruct, lexer.TokenUnion:
			spec, ok := p.parseStructOrUnion()
			if !ok {
				return nil, false
			}
			s.typ.Specifiers = append(s.typ.Specifiers, spec)
			s.hasType = true
		case lexer.TokenEnum:
			spec, ok := p.parseEnum()
			if !ok {
				return nil, false
			}
			s.typ.Specifiers = append(s.typ.Specifiers, spec)
			s.hasType = true
		case lexer.TokenTypeName:
			if s.hasType {
				return s, true
			}
			s.typ.Specifiers = append(s.typ.Specifiers, p.tok.Literal)
			s.hasType = true
			p.next()
		default:
			return s, true
		}
	}
}

// isTypeStart reports whether the current token can begin a type name.
func (p *Parser) isTypeStart() bool {
	switch p.tok.Type {
	case lexer.TokenConst, lexer.TokenVolatile, lexer.TokenRestrict,
		lexer.TokenVoid, lexer.TokenChar, lexer.TokenShort, lexer.TokenInt, lexer.TokenLong,
		lexer.TokenFloat, lexer.TokenDouble, lexer.TokenSigned, lexer.TokenUnsigned, lexer.TokenBool,
		lexer.TokenStruct, lexer.TokenUnion, lexer.TokenEnum, lexer.TokenTypeName:
		return true
	}
	return false
}

// isSpecifierStart reports whether the current token can begin declaration
// specifiers.
func (p *Parser) isSpecifierStart() bool {
	switch p.tok.Type {
	case lexer.TokenTypedef, lexer.TokenExtern, lexer.TokenStatic, lexer.TokenAuto,
		lexer.TokenRegister, lexer.TokenInline:
		return true
	}
	return p.isTypeStart()
}

// parseStructOrUnion parses a struct or union specifier. The body, if any,
// is checked and discarded.
func (p *Parser) parseStructOrUnion() (string, bool) {
	spec := p.tok.Literal
	p.next()
	tagged := false
	if p.at(lexer.TokenIdent) || p.at(lexer.TokenTypeName) {
		spec += " " + p.tok.Literal
		tagged = true
		p.next()
	}
	if !p.at(lexer.TokenLBrace) {
		if !tagged {
			p.syntaxError()
			return "", false
		}
		return spec, true
	}
	p.braces++
	p.next()
	for !p.at(lexer.TokenRBrace) {
		if p.at(lexer.TokenEOF) {
			p.syntaxError()
			return "", false
		}
		if !p.parseStructDeclaration() {
			return "", false
		}
	}
	p.braces--
	p.next()
	return spec, true
}

func (p *Parser) parseStructDeclaration() bool {
	specs, ok := p.parseSpecifiers()
	if !ok {
		return false
	}
	if specs.empty() {
		p.syntaxError()
		return false
	}
	for !p.at(lexer.TokenSemicolon) {
		if !p.at(lexer.TokenColon) {
			if _, ok := p.parseDeclarator(false); !ok {
				return false
			}
		}
		if p.at(lexer.TokenColon) {
			p.next()
			if _, ok := p.parseConditional(); !ok {
				return false
			}
		}
		if !p.at(lexer.TokenComma) {
			break
		}
		p.next()
	}
	return p.expect(lexer.TokenSemicolon)
}

// parseEnum parses an enum specifier, discarding the enumerator list.
func (p *Parser) parseEnum() (string, bool) {
	spec := p.tok.Literal
	p.next()
	tagged := false
	if p.at(lexer.TokenIdent) || p.at(lexer.TokenTypeName) {
		spec += " " + p.tok.Literal
		tagged = true
		p.next()
	}
	if !p.at(lexer.TokenLBrace) {
		if !tagged {
			p.syntaxError()
			return "", false
		}
		return spec, true
	}
	p.braces++
	p.next()
	for !p.at(lexer.TokenRBrace) {
		if !p.at(lexer.TokenIdent) && !p.at(lexer.TokenTypeName) {
			p.syntaxError()
			return "", false
		}
		p.next()
		if p.at(lexer.TokenAssign) {
			p.next()
			if _, ok := p.parseConditional(); !ok {
				return "", false
			}
		}
		if !p.at(lexer.TokenComma) {
			break
		}
		p.next()
	}
	if !p.expect(lexer.TokenRBrace) {
		return "", false
	}
	p.braces--
	return spec, true
}

func (p *Parser) parseInitDeclarators() ([]*cabs.Declarator, bool) {
	var list []*cabs.Declarator
	for {
		d, ok := p.parseDeclarator(false)
		if !ok {
			return nil, false
		}
		if p.at(lexer.TokenAssign) {
			p.next()
			init, ok := p.parseInitializer()
			if !ok {
				return nil, false
			}
			d.Initializer = init
		}
		list = append(list, d)
		if !p.at(lexer.TokenComma) {
			return list, true
		}
		p.next()
	}
}

func (p *Parser) parseInitializer() (cabs.Expr, bool) {
	if !p.at(lexer.TokenLBrace) {
		return p.parseAssignment()
	}
	p.braces++
	p.next()
	list := cabs.InitList{}
	for !p.at(lexer.TokenRBrace) {
		item, ok := p.parseInitializer()
		if !ok {
			return nil, false
		}
		list.Items = append(list.Items, item)
		if !p.at(lexer.TokenComma) {
			break
		}
		p.next()
	}
	if !p.expect(lexer.TokenRBrace) {
		return nil, false
	}
	p.braces--
	return list, true
}

// parseDeclarator parses a declarator. With abstract set the identifier may
// be omitted, as in parameters and type names.
//
// The pointer prefix is parsed into a chain of pointer nodes, outermost *
// first, and the direct declarator becomes the target of the innermost one.
func (p *Parser) parseDeclarator(abstract bool) (*cabs.Declarator, bool) {
	if !p.at(lexer.TokenStar) {
		return p.parseDirectDeclarator(abstract)
	}
	var head, tail *cabs.Declarator
	for p.at(lexer.TokenStar) {
		p.next()
		ptr := &cabs.Declarator{}
		for p.at(lexer.TokenConst) || p.at(lexer.TokenVolatile) || p.at(lexer.TokenRestrict) {
			ptr.Qualifiers = append(ptr.Qualifiers, p.tok.Literal)
			p.next()
		}
		if head == nil {
			head = ptr
		} else {
			tail.Pointer = ptr
		}
		tail = ptr
	}
	direct, ok := p.parseDirectDeclarator(abstract)
	if !ok {
		return nil, false
	}
	tail.Pointer = direct
	return head, true
}

func (p *Parser) parseDirectDeclarator(abstract bool) (*cabs.Declarator, bool) {
	var d *cabs.Declarator
	switch {
	case p.at(lexer.TokenIdent) || p.at(lexer.TokenTypeName):
		d = &cabs.Declarator{Identifier: p.tok.Literal}
		p.next()
	case p.at(lexer.TokenLParen):
		p.next()
		if abstract && p.isParameterListStart() {
			d = &cabs.Declarator{}
			if !p.parseParameterSuffix(d) {
				return nil, false
			}
			break
		}
		inner, ok := p.parseDeclarator(abstract)
		if !ok {
			return nil, false
		}
		if !p.expect(lexer.TokenRParen) {
			return nil, false
		}
		d = inner
	case abstract:
		d = &cabs.Declarator{}
	default:
		p.syntaxError()
		return nil, false
	}

	for {
		switch p.tok.Type {
		case lexer.TokenLBracket:
			p.next()
			arr := &cabs.Array{}
			if !p.at(lexer.TokenRBracket) {
				size, ok := p.parseConditional()
				if !ok {
					return nil, false
				}
				arr.Size = size
			}
			if !p.expect(lexer.TokenRBracket) {
				return nil, false
			}
			d.AppendArray(arr)
		case lexer.TokenLParen:
			p.next()
			if !p.parseParameterSuffix(d) {
				return nil, false
			}
		default:
			return d, true
		}
	}
}

// isParameterListStart reports whether the token after ( in an abstract
// declarator begins a parameter list rather than a nested declarator.
func (p *Parser) isParameterListStart() bool {
	return p.at(lexer.TokenRParen) || p.at(lexer.TokenEllipsis) || p.isSpecifierStart()
}

// parseParameterSuffix parses a parameter list after its ( and the closing
// ), storing it on d. A lone void parameter means no parameters.
func (p *Parser) parseParameterSuffix(d *cabs.Declarator) bool {
	params := []*cabs.Parameter{}
	variadic := false
	switch {
	case p.at(lexer.TokenRParen):
	case p.at(lexer.TokenIdent):
		for {
			if !p.at(lexer.TokenIdent) {
				p.syntaxError()
				return false
			}
			params = append(params, &cabs.Parameter{Declarator: &cabs.Declarator{Identifier: p.tok.Literal}})
			p.next()
			if !p.at(lexer.TokenComma) {
				break
			}
			p.next()
		}
	default:
		for {
			if p.at(lexer.TokenEllipsis) {
				variadic = true
				p.next()
				break
			}
			param, ok := p.parseParameter()
			if !ok {
				return false
			}
			params = append(params, param)
			if !p.at(lexer.TokenComma) {
				break
			}
			p.next()
		}
	}
	if !p.expect(lexer.TokenRParen) {
		return false
	}
	if len(params) == 1 && params[0].Declarator == nil && !variadic &&
		len(params[0].Type.Specifiers) == 1 && params[0].Type.Specifiers[0] == "void" {
		params = params[:0]
	}
	d.Parameters = params
	d.Variadic = variadic
	return true
}

func (p *Parser) parseParameter() (*cabs.Parameter, bool) {
	specs, ok := p.parseSpecifiers()
	if !ok {
		return nil, false
	}
	if specs.empty() {
		p.syntaxError()
		return nil, false
	}
	param := &cabs.Parameter{Type: specs.typ, Storage: specs.storage}
	if p.at(lexer.TokenComma) || p.at(lexer.TokenRParen) {
		return param, true
	}
	d, ok := p.parseDeclarator(true)
	if !ok {
		return nil, false
	}
	param.Declarator = d
	return param, true
}

// parseTypeName parses a type name as in casts and sizeof and returns its
// text.
func (p *Parser) parseTypeName() (string, bool) {
	saved := p.record
	var text []string
	p.record = &text
	defer func() { p.record = saved }()

	specs, ok := p.parseSpecifiers()
	if !ok {
		return "", false
	}
	if specs.empty() {
		p.syntaxError()
		return "", false
	}
	if !p.at(lexer.TokenRParen) {
		if _, ok := p.parseDeclarator(true); !ok {
			return "", false
		}
	}
	return strings.Join(text, " "), true
}
