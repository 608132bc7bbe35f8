package lexer

import (
	"github.com/raymyers/cdecl/pkg/cpp"
	"modernc.org/token"
)

// Mode is a scanner state. The current mode is the top of the mode stack.
type Mode int

const (
	ModeNormal  Mode = iota // C tokens, macros expanded
	ModePPBegin             // after a line-start #
	ModePPLine              // rest of a directive line
	ModeSkipText            // inside a discarded conditional region
)

var modeNames = [...]string{"Normal", "PreprocessorBegin", "PreprocessorLine", "SkipText"}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "UNKNOWN"
}

// Lexer tokenizes C source code. Identifiers are classified against the
// macro table and the type-name registry at the moment they are scanned, so
// the parser sees the effect of a #define or typedef on the very next token.
type Lexer struct {
	src     *source
	modes   []Mode
	atBOL   bool // nothing but whitespace since the last newline of the file
	space   bool // whitespace or a comment precedes the next token
	include bool // the current directive is #include
	depth   int  // nested conditionals seen while skipping

	macros *cpp.MacroTable
	types  *TypeNames
	conds  *Conditionals
}

// New creates a Lexer for input. The macro table, type-name registry and
// conditional stack are shared with the caller; nil values get fresh ones.
func New(filename, input string, macros *cpp.MacroTable, types *TypeNames, conds *Conditionals) *Lexer {
	if macros == nil {
		macros = cpp.NewMacroTable()
	}
	if types == nil {
		types = NewTypeNames()
	}
	if conds == nil {
		conds = NewConditionals()
	}
	return &Lexer{
		src:    newSource(input, token.NewFile(filename, len(input))),
		modes:  []Mode{ModeNormal},
		atBOL:  true,
		macros: macros,
		types:  types,
		conds:  conds,
	}
}

// File returns the line table of the scanned input.
func (l *Lexer) File() *token.File {
	return l.src.file
}

// Position converts a token position into a file position.
func (l *Lexer) Position(pos token.Pos) token.Position {
	if !pos.IsValid() {
		return token.Position{}
	}
	return l.src.file.PositionFor(pos, true)
}

// Mode returns the current scanner mode.
func (l *Lexer) Mode() Mode {
	return l.modes[len(l.modes)-1]
}

func (l *Lexer) setMode(m Mode) {
	l.modes[len(l.modes)-1] = m
}

func (l *Lexer) pushMode(m Mode) {
	l.modes = append(l.modes, m)
}

func (l *Lexer) popMode() {
	if len(l.modes) > 1 {
		l.modes = l.modes[:len(l.modes)-1]
	}
}

// BeginConditional opens a conditional at line. When skip is true the
// scanner discards input up to the balancing #endif.
func (l *Lexer) BeginConditional(line int, skip bool) {
	l.conds.Push(l.Mode(), line)
	if skip {
		l.depth = 0
		l.setMode(ModeSkipText)
	}
}

// EndConditional closes the innermost conditional and restores the mode
// saved when it was opened. It reports false when no conditional is open.
func (l *Lexer) EndConditional() bool {
	mode, ok := l.conds.Pop()
	if ok {
		l.setMode(mode)
	}
	return ok
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	for {
		var (
			tok Token
			ok  bool
		)
		switch l.Mode() {
		case ModeSkipText:
			l.skipText()
			if l.src.eof() {
				return l.eofToken()
			}
			continue
		case ModePPBegin, ModePPLine:
			tok, ok = l.scanDirective()
		default:
			tok, ok = l.scanNormal()
		}
		if ok {
			return tok
		}
	}
}

func (l *Lexer) eofToken() Token {
	pos, line := l.src.location()
	return Token{Type: TokenEOF, Line: line, Pos: pos}
}

// scanNormal scans one C token. ok is false when nothing was produced: a
// macro frame was pushed or popped, or an unrecognized character skipped.
func (l *Lexer) scanNormal() (Token, bool) {
	l.skipWhitespace(true)
	if l.src.exhausted() {
		if l.src.pop() {
			l.space = true
			return Token{}, false
		}
		return l.eofToken(), true
	}

	ch := l.src.peek()
	if ch == '#' && l.atBOL && l.src.inFile() {
		tok := l.start(TokenPPHash)
		tok.Literal = "#"
		l.src.advance()
		l.atBOL = false
		l.pushMode(ModePPBegin)
		return l.finish(tok), true
	}
	l.atBOL = false

	switch {
	case isWidePrefix(ch, l.src.peekAt(1)):
		return l.readQuoted(l.src.peekAt(1), 1)
	case isLetter(ch):
		tok := l.start(TokenIdent)
		ident := l.readIdentifier()
		tok.Literal = ident
		if text, ok := l.macros.Lookup(ident); ok && !l.src.expanding(ident) {
			l.src.push(ident, text, tok.Pos, tok.Line)
			return Token{}, false
		}
		tok.Type = LookupIdent(ident)
		if tok.Type == TokenIdent && l.types.Contains(ident) {
			tok.Type = TokenTypeName
		}
		return l.finish(tok), true
	case isDigit(ch) || ch == '.' && isDigit(l.src.peekAt(1)):
		tok := l.start(TokenConstant)
		tok.Literal = l.readNumber()
		return l.finish(tok), true
	case ch == '\'' || ch == '"':
		return l.readQuoted(ch, 0)
	}
	return l.readPunctuator()
}

// scanDirective scans one token of a directive line.
func (l *Lexer) scanDirective() (Token, bool) {
	l.skipWhitespace(false)
	if l.src.exhausted() || l.src.peek() == '\n' {
		tok := l.start(TokenPPNewline)
		tok.Literal = "\n"
		l.src.advance()
		l.atBOL = true
		l.include = false
		l.popMode()
		l.space = false
		return tok, true
	}

	begin := l.Mode() == ModePPBegin
	l.setMode(ModePPLine)

	ch := l.src.peek()
	switch {
	case isLetter(ch) && !isWidePrefix(ch, l.src.peekAt(1)):
		tok := l.start(TokenIdent)
		ident := l.readIdentifier()
		tok.Literal = ident
		if begin {
			if typ, ok := LookupDirective(ident); ok {
				tok.Type = typ
				l.include = typ == TokenPPInclude
			}
		}
		return l.finish(tok), true
	case isDigit(ch) || ch == '.' && isDigit(l.src.peekAt(1)):
		tok := l.start(TokenPPNumber)
		tok.Literal = l.readNumber()
		return l.finish(tok), true
	case ch == '\'' || ch == '"':
		return l.readQuoted(ch, 0)
	case isWidePrefix(ch, l.src.peekAt(1)):
		return l.readQuoted(l.src.peekAt(1), 1)
	case begin:
		// Only names, numbers and literals may follow the #.
		l.src.advance()
		return Token{}, false
	case ch == '<' && l.include:
		if tok, ok := l.readHeaderName(); ok {
			return tok, true
		}
	case ch == '(' && !l.space:
		tok := l.start(TokenPPLParen)
		tok.Literal = "("
		l.src.advance()
		return l.finish(tok), true
	}
	return l.readPunctuator()
}

// skipText discards input until the #endif balancing the conditional that
// started the skip, leaving the cursor on its #.
func (l *Lexer) skipText() {
	for !l.src.exhausted() {
		ch := l.src.peek()
		switch {
		case ch == '\n':
			l.src.advance()
			l.atBOL = true
		case isSpace(ch):
			l.src.advance()
		case ch == '\\' && l.src.peekAt(1) == '\n':
			l.src.advance()
			l.src.advance()
		case ch == '/' && (l.src.peekAt(1) == '*' || l.src.peekAt(1) == '/'):
			l.skipComment()
			l.atBOL = false
		case ch == '#' && l.atBOL:
			hash := l.src.offset()
			l.src.advance()
			for isSpace(l.src.peek()) {
				l.src.advance()
			}
			switch l.readIdentifier() {
			case "if", "ifdef", "ifndef":
				l.depth++
			case "endif":
				if l.depth == 0 {
					l.src.rewind(hash)
					l.setMode(ModeNormal)
					return
				}
				l.depth--
			}
			l.atBOL = false
		default:
			l.src.advance()
			l.atBOL = false
		}
	}
}

// skipWhitespace skips blanks and comments. Newlines are skipped only when
// newlines is true; a skipped newline of the file marks a line start.
func (l *Lexer) skipWhitespace(newlines bool) {
	for !l.src.exhausted() {
		ch := l.src.peek()
		switch {
		case isSpace(ch):
			l.src.advance()
		case ch == '\n' && newlines:
			l.src.advance()
			if l.src.inFile() {
				l.atBOL = true
			}
		case ch == '\\' && l.src.peekAt(1) == '\n':
			l.src.advance()
			l.src.advance()
		case ch == '\\' && l.src.peekAt(1) == '\r' && l.src.peekAt(2) == '\n':
			l.src.advance()
			l.src.advance()
			l.src.advance()
		case ch == '/' && (l.src.peekAt(1) == '*' || l.src.peekAt(1) == '/'):
			l.skipComment()
		default:
			return
		}
		l.space = true
	}
}

// skipComment skips a /* */ or // comment. A // comment stops before the
// newline so that a directive line still ends there.
func (l *Lexer) skipComment() {
	l.src.advance()
	if l.src.peek() == '/' {
		for !l.src.exhausted() && l.src.peek() != '\n' {
			l.src.advance()
		}
		return
	}
	l.src.advance()
	for !l.src.exhausted() {
		if l.src.peek() == '*' && l.src.peekAt(1) == '/' {
			l.src.advance()
			l.src.advance()
			return
		}
		l.src.advance()
	}
}

// start begins a token at the cursor.
func (l *Lexer) start(typ TokenType) Token {
	pos, line := l.src.location()
	return Token{Type: typ, Line: line, Pos: pos, Space: l.space}
}

// finish completes a token and clears the pending whitespace flag.
func (l *Lexer) finish(tok Token) Token {
	l.space = false
	return tok
}

func (l *Lexer) readIdentifier() string {
	start := l.src.offset()
	for isLetter(l.src.peek()) || isDigit(l.src.peek()) {
		l.src.advance()
	}
	return l.src.text(start)
}

// readNumber reads a preprocessing number: digits, letters, underscores,
// dots and signed exponents. It covers decimal, octal, hex and floating
// constants with their suffixes.
func (l *Lexer) readNumber() string {
	start := l.src.offset()
	for {
		ch := l.src.peek()
		switch {
		case (ch == 'e' || ch == 'E' || ch == 'p' || ch == 'P') &&
			(l.src.peekAt(1) == '+' || l.src.peekAt(1) == '-'):
			l.src.advance()
			l.src.advance()
		case isDigit(ch) || isLetter(ch) || ch == '.':
			l.src.advance()
		default:
			return l.src.text(start)
		}
	}
}

// readQuoted reads a character constant or string literal delimited by
// quote, after skip prefix bytes. An unterminated literal is dropped by
// skipping its opening byte.
func (l *Lexer) readQuoted(quote byte, skip int) (Token, bool) {
	typ := TokenString
	if quote == '\'' {
		typ = TokenCharConst
	}
	tok := l.start(typ)
	start := l.src.offset()
	for i := 0; i <= skip; i++ {
		l.src.advance()
	}
	for {
		ch := l.src.peek()
		switch {
		case l.src.exhausted() || ch == '\n':
			l.src.rewind(start + 1)
			return Token{}, false
		case ch == '\\' && l.src.peekAt(1) != '\n':
			l.src.advance()
			l.src.advance()
		case ch == quote:
			l.src.advance()
			tok.Literal = l.src.text(start)
			return l.finish(tok), true
		default:
			l.src.advance()
		}
	}
}

// readHeaderName reads <...> after #include.
func (l *Lexer) readHeaderName() (Token, bool) {
	tok := l.start(TokenPPHeaderName)
	start := l.src.offset()
	for i := 1; ; i++ {
		switch l.src.peekAt(i) {
		case '>':
			for j := 0; j <= i; j++ {
				l.src.advance()
			}
			tok.Literal = l.src.text(start)
			l.include = false
			return l.finish(tok), true
		case '\n', 0:
			return Token{}, false
		}
	}
}

// readPunctuator reads an operator or delimiter, longest match first.
// Unrecognized characters are skipped.
func (l *Lexer) readPunctuator() (Token, bool) {
	for n := 4; n > 0; n-- {
		text := l.peekString(n)
		if len(text) < n {
			continue
		}
		if typ, ok := punctuators[text]; ok {
			tok := l.start(typ)
			for i := 0; i < n; i++ {
				l.src.advance()
			}
			tok.Literal = text
			return l.finish(tok), true
		}
	}
	l.src.advance()
	return Token{}, false
}

func (l *Lexer) peekString(n int) string {
	f := l.src.top()
	end := f.pos + n
	if end > len(f.text) {
		end = len(f.text)
	}
	return f.text[f.pos:end]
}

var punctuators = map[string]TokenType{
	"%:%:": TokenHashHash,
	"...":  TokenEllipsis,
	"<<=":  TokenShlAssign,
	">>=":  TokenShrAssign,
	"+=":   TokenPlusAssign,
	"-=":   TokenMinusAssign,
	"*=":   TokenStarAssign,
	"/=":   TokenSlashAssign,
	"%=":   TokenPercentAssign,
	"&=":   TokenAndAssign,
	"|=":   TokenOrAssign,
	"^=":   TokenXorAssign,
	"<<":   TokenShl,
	">>":   TokenShr,
	"++":   TokenIncrement,
	"--":   TokenDecrement,
	"->":   TokenArrow,
	"&&":   TokenAnd,
	"||":   TokenOr,
	"<=":   TokenLe,
	">=":   TokenGe,
	"==":   TokenEq,
	"!=":   TokenNe,
	"##":   TokenHashHash,
	"<:":   TokenLBracket,
	":>":   TokenRBracket,
	"<%":   TokenLBrace,
	"%>":   TokenRBrace,
	"%:":   TokenHash,
	";":    TokenSemicolon,
	"{":    TokenLBrace,
	"}":    TokenRBrace,
	",":    TokenComma,
	":":    TokenColon,
	"=":    TokenAssign,
	"(":    TokenLParen,
	")":    TokenRParen,
	"[":    TokenLBracket,
	"]":    TokenRBracket,
	".":    TokenDot,
	"&":    TokenAmpersand,
	"!":    TokenNot,
	"~":    TokenTilde,
	"-":    TokenMinus,
	"+":    TokenPlus,
	"*":    TokenStar,
	"/":    TokenSlash,
	"%":    TokenPercent,
	"<":    TokenLt,
	">":    TokenGt,
	"^":    TokenCaret,
	"|":    TokenPipe,
	"?":    TokenQuestion,
	"#":    TokenHash,
}

func isWidePrefix(ch, next byte) bool {
	return ch == 'L' && (next == '\'' || next == '"')
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\v' || ch == '\f'
}
