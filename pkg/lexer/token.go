package lexer

import "modernc.org/token"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota

	// Literals
	TokenIdent     // foo
	TokenTypeName  // identifier registered by a typedef
	TokenConstant  // 42, 0x1F, 1.5f
	TokenCharConst // 'a'
	TokenString    // "hello"

	// Preprocessor tokens
	TokenPPHash       // # at the start of a line
	TokenPPNewline    // end of a directive line
	TokenPPLParen     // ( directly after an identifier in a directive
	TokenPPNumber     // number inside a directive
	TokenPPHeaderName // <stdio.h> after #include
	TokenPPIf         // if
	TokenPPIfdef      // ifdef
	TokenPPIfndef     // ifndef
	TokenPPElif       // elif
	TokenPPElse       // else
	TokenPPEndif      // endif
	TokenPPInclude    // include
	TokenPPDefine     // define
	TokenPPUndef      // undef
	TokenPPLine       // line
	TokenPPError      // error
	TokenPPPragma     // pragma

	// Keywords
	TokenAuto     // auto
	TokenBreak    // break
	TokenCase     // case
	TokenChar     // char
	TokenConst    // const
	TokenContinue // continue
	TokenDefault  // default
	TokenDo       // do
	TokenDouble   // double
	TokenElse     // else
	TokenEnum     // enum
	TokenExtern   // extern
	TokenFloat    // float
	TokenFor      // for
	TokenGoto     // goto
	TokenIf       // if
	TokenInline   // inline
	TokenInt      // int
	TokenLong     // long
	TokenRegister // register
	TokenRestrict // restrict
	TokenReturn   // return
	TokenShort    // short
	TokenSigned   // signed
	TokenSizeof   // sizeof
	TokenStatic   // static
	TokenStruct   // struct
	TokenSwitch   // switch
	TokenTypedef  // typedef
	TokenUnion    // union
	TokenUnsigned // unsigned
	TokenVoid     // void
	TokenVolatile // volatile
	TokenWhile    // while
	TokenBool     // _Bool

	// Operators
	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenPercent   // %
	TokenAssign    // =
	TokenEq        // ==
	TokenNe        // !=
	TokenLt        // <
	TokenLe        // <=
	TokenGt        // >
	TokenGe        // >=
	TokenAnd       // &&
	TokenOr        // ||
	TokenNot       // !
	TokenAmpersand // &
	TokenPipe      // |
	TokenCaret     // ^
	TokenTilde     // ~
	TokenShl       // <<
	TokenShr       // >>
	TokenQuestion  // ?
	TokenColon     // :
	TokenHash      // # (not at line start)
	TokenHashHash  // ##
	TokenEllipsis  // ...

	// Compound assignment operators
	TokenPlusAssign    // +=
	TokenMinusAssign   // -=
	TokenStarAssign    // *=
	TokenSlashAssign   // /=
	TokenPercentAssign // %=
	TokenAndAssign     // &=
	TokenOrAssign      // |=
	TokenXorAssign     // ^=
	TokenShlAssign     // <<=
	TokenShrAssign     // >>=

	// Increment/decrement
	TokenIncrement // ++
	TokenDecrement // --

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenLBracket  // [
	TokenRBracket  // ]
	TokenSemicolon // ;
	TokenComma     // ,
	TokenDot       // .
	TokenArrow     // ->
)

var tokenNames = map[TokenType]string{
	TokenEOF:           "EOF",
	TokenIdent:         "IDENT",
	TokenTypeName:      "TYPE_NAME",
	TokenConstant:      "CONSTANT",
	TokenCharConst:     "CHARACTER_CONSTANT",
	TokenString:        "STRING_LITERAL",
	TokenPPHash:        "PP_HASH",
	TokenPPNewline:     "PP_NEWLINE",
	TokenPPLParen:      "PP_LPAREN",
	TokenPPNumber:      "PP_NUMBER",
	TokenPPHeaderName:  "PP_HEADER_NAME",
	TokenPPIf:          "PP_IF",
	TokenPPIfdef:       "PP_IFDEF",
	TokenPPIfndef:      "PP_IFNDEF",
	TokenPPElif:        "PP_ELIF",
	TokenPPElse:        "PP_ELSE",
	TokenPPEndif:       "PP_ENDIF",
	TokenPPInclude:     "PP_INCLUDE",
	TokenPPDefine:      "PP_DEFINE",
	TokenPPUndef:       "PP_UNDEF",
	TokenPPLine:        "PP_LINE",
	TokenPPError:       "PP_ERROR",
	TokenPPPragma:      "PP_PRAGMA",
	TokenAuto:          "auto",
	TokenBreak:         "break",
	TokenCase:          "case",
	TokenChar:          "char",
	TokenConst:         "const",
	TokenContinue:      "continue",
	TokenDefault:       "default",
	TokenDo:            "do",
	TokenDouble:        "double",
	TokenElse:          "else",
	TokenEnum:          "enum",
	TokenExtern:        "extern",
	TokenFloat:         "float",
	TokenFor:           "for",
	TokenGoto:          "goto",
	TokenIf:            "if",
	TokenInline:        "inline",
	TokenInt:           "int",
	TokenLong:          "long",
	TokenRegister:      "register",
	TokenRestrict:      "restrict",
	TokenReturn:        "return",
	TokenShort:         "short",
	TokenSigned:        "signed",
	TokenSizeof:        "sizeof",
	TokenStatic:        "static",
	TokenStruct:        "struct",
	TokenSwitch:        "switch",
	TokenTypedef:       "typedef",
	TokenUnion:         "union",
	TokenUnsigned:      "unsigned",
	TokenVoid:          "void",
	TokenVolatile:      "volatile",
	TokenWhile:         "while",
	TokenBool:          "_Bool",
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenAssign:        "=",
	TokenEq:            "==",
	TokenNe:            "!=",
	TokenLt:            "<",
	TokenLe:            "<=",
	TokenGt:            ">",
	TokenGe:            ">=",
	TokenAnd:           "&&",
	TokenOr:            "||",
	TokenNot:           "!",
	TokenAmpersand:     "&",
	TokenPipe:          "|",
	TokenCaret:         "^",
	TokenTilde:         "~",
	TokenShl:           "<<",
	TokenShr:           ">>",
	TokenQuestion:      "?",
	TokenColon:         ":",
	TokenHash:          "#",
	TokenHashHash:      "##",
	TokenEllipsis:      "...",
	TokenPlusAssign:    "+=",
	TokenMinusAssign:   "-=",
	TokenStarAssign:    "*=",
	TokenSlashAssign:   "/=",
	TokenPercentAssign: "%=",
	TokenAndAssign:     "&=",
	TokenOrAssign:      "|=",
	TokenXorAssign:     "^=",
	TokenShlAssign:     "<<=",
	TokenShrAssign:     ">>=",
	TokenIncrement:     "++",
	TokenDecrement:     "--",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenArrow:         "->",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Pos     token.Pos
	Space   bool // preceded by whitespace or a comment
}

// keywords maps keyword strings to token types
var keywords = map[string]TokenType{
	"auto":     TokenAuto,
	"break":    TokenBreak,
	"case":     TokenCase,
	"char":     TokenChar,
	"const":    TokenConst,
	"continue": TokenContinue,
	"default":  TokenDefault,
	"do":       TokenDo,
	"double":   TokenDouble,
	"else":     TokenElse,
	"enum":     TokenEnum,
	"extern":   TokenExtern,
	"float":    TokenFloat,
	"for":      TokenFor,
	"goto":     TokenGoto,
	"if":       TokenIf,
	"inline":   TokenInline,
	"int":      TokenInt,
	"long":     TokenLong,
	"register": TokenRegister,
	"restrict": TokenRestrict,
	"return":   TokenReturn,
	"short":    TokenShort,
	"signed":   TokenSigned,
	"sizeof":   TokenSizeof,
	"static":   TokenStatic,
	"struct":   TokenStruct,
	"switch":   TokenSwitch,
	"typedef":  TokenTypedef,
	"union":    TokenUnion,
	"unsigned": TokenUnsigned,
	"void":     TokenVoid,
	"volatile": TokenVolatile,
	"while":    TokenWhile,
	"_Bool":    TokenBool,
}

// directives maps preprocessor keywords (the word after a line-start #)
var directives = map[string]TokenType{
	"if":      TokenPPIf,
	"ifdef":   TokenPPIfdef,
	"ifndef":  TokenPPIfndef,
	"elif":    TokenPPElif,
	"else":    TokenPPElse,
	"endif":   TokenPPEndif,
	"include": TokenPPInclude,
	"define":  TokenPPDefine,
	"undef":   TokenPPUndef,
	"line":    TokenPPLine,
	"error":   TokenPPError,
	"pragma":  TokenPPPragma,
}

// LookupIdent returns the token type for an identifier (keyword or IDENT)
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}

// LookupDirective returns the directive token for a preprocessor keyword.
func LookupDirective(ident string) (TokenType, bool) {
	tok, ok := directives[ident]
	return tok, ok
}

// IsKeyword reports whether t is a reserved C keyword.
func (t TokenType) IsKeyword() bool {
	return t >= TokenAuto && t <= TokenBool
}

// IsDirective reports whether t is a preprocessor directive keyword.
func (t TokenType) IsDirective() bool {
	return t >= TokenPPIf && t <= TokenPPPragma
}
