package cabs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotConstant is returned for expressions with no integer value.
	ErrNotConstant = errors.New("not an integer constant expression")
	// ErrDivisionByZero is returned for x / 0 and x % 0.
	ErrDivisionByZero = errors.New("division by zero")
)

// EvaluationContext supplies the values an expression cannot compute by
// itself.
type EvaluationContext interface {
	// IsPreprocessor reports whether defined(X) is meaningful.
	IsPreprocessor() bool
	IsDefined(name string) bool
	EvaluateIdentifier(name string) (int64, error)
	EvaluateFunction(name string, args []int64) (int64, error)
}

// NoContext evaluates literal arithmetic only.
type NoContext struct{}

func (NoContext) IsPreprocessor() bool       { return false }
func (NoContext) IsDefined(name string) bool { return false }

func (NoContext) EvaluateIdentifier(name string) (int64, error) {
	return 0, fmt.Errorf("identifier %s: %w", name, ErrNotConstant)
}

func (NoContext) EvaluateFunction(name string, args []int64) (int64, error) {
	return 0, fmt.Errorf("call of %s: %w", name, ErrNotConstant)
}

// Evaluate computes the integer value of e. A nil context is NoContext.
func Evaluate(e Expr, ctx EvaluationContext) (int64, error) {
	if ctx == nil {
		ctx = NoContext{}
	}
	switch e := e.(type) {
	case Constant:
		return ParseInteger(e.Text)
	case Identifier:
		return ctx.EvaluateIdentifier(e.Name)
	case Unary:
		return evalUnary(e, ctx)
	case Binary:
		return evalBinary(e, ctx)
	case LogicalAnd:
		l, err := Evaluate(e.Left, ctx)
		if err != nil || l == 0 {
			return 0, err
		}
		r, err := Evaluate(e.Right, ctx)
		if err != nil {
			return 0, err
		}
		return boolValue(r != 0), nil
	case LogicalOr:
		l, err := Evaluate(e.Left, ctx)
		if err != nil {
			return 0, err
		}
		if l != 0 {
			return 1, nil
		}
		r, err := Evaluate(e.Right, ctx)
		if err != nil {
			return 0, err
		}
		return boolValue(r != 0), nil
	case Conditional:
		c, err := Evaluate(e.Cond, ctx)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return Evaluate(e.Then, ctx)
		}
		return Evaluate(e.Else, ctx)
	case Call:
		return evalCall(e, ctx)
	case Cast:
		return Evaluate(e.Expr, ctx)
	case nil:
		return 0, fmt.Errorf("empty expression: %w", ErrNotConstant)
	}
	return 0, fmt.Errorf("%s: %w", ExprString(e), ErrNotConstant)
}

func evalUnary(u Unary, ctx EvaluationContext) (int64, error) {
	v, err := Evaluate(u.Expr, ctx)
	if err != nil {
		return 0, err
	}
	switch u.Op {
	case OpNeg:
		return -v, nil
	case OpPlus:
		return v, nil
	case OpNot:
		return boolValue(v == 0), nil
	case OpBitNot:
		return ^v, nil
	}
	return 0, fmt.Errorf("%s: %w", ExprString(u), ErrNotConstant)
}

func evalBinary(b Binary, ctx EvaluationContext) (int64, error) {
	switch b.Op {
	case OpAssign:
		return 0, fmt.Errorf("%s: %w", ExprString(b), ErrNotConstant)
	case OpComma:
		if _, err := Evaluate(b.Left, ctx); err != nil {
			return 0, err
		}
		return Evaluate(b.Right, ctx)
	}
	l, err := Evaluate(b.Left, ctx)
	if err != nil {
		return 0, err
	}
	r, err := Evaluate(b.Right, ctx)
	if err != nil {
		return 0, err
	}
	switch b.Op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv, OpMod:
		if r == 0 {
			return 0, fmt.Errorf("%s: %w", ExprString(b), ErrDivisionByZero)
		}
		if b.Op == OpDiv {
			return l / r, nil
		}
		return l % r, nil
	case OpLt:
		return boolValue(l < r), nil
	case OpLe:
		return boolValue(l <= r), nil
	case OpGt:
		return boolValue(l > r), nil
	case OpGe:
		return boolValue(l >= r), nil
	case OpEq:
		return boolValue(l == r), nil
	case OpNe:
		return boolValue(l != r), nil
	case OpBitAnd:
		return l & r, nil
	case OpBitOr:
		return l | r, nil
	case OpBitXor:
		return l ^ r, nil
	case OpShl, OpShr:
		if r < 0 || r > 63 {
			return 0, fmt.Errorf("%s: shift count out of range: %w", ExprString(b), ErrNotConstant)
		}
		if b.Op == OpShl {
			return l << uint(r), nil
		}
		return l >> uint(r), nil
	}
	return 0, fmt.Errorf("%s: %w", ExprString(b), ErrNotConstant)
}

func evalCall(c Call, ctx EvaluationContext) (int64, error) {
	fn, ok := c.Func.(Identifier)
	if !ok {
		return 0, fmt.Errorf("%s: %w", ExprString(c), ErrNotConstant)
	}
	if fn.Name == "defined" && ctx.IsPreprocessor() && len(c.Args) == 1 {
		if arg, ok := c.Args[0].(Identifier); ok {
			return boolValue(ctx.IsDefined(arg.Name)), nil
		}
	}
	args := make([]int64, len(c.Args))
	for i, a := range c.Args {
		v, err := Evaluate(a, ctx)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return ctx.EvaluateFunction(fn.Name, args)
}

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// ParseInteger returns the value of an integer or character constant as
// written in C source: decimal, octal and hex with any u/l suffix, and
// character constants with escapes.
func ParseInteger(text string) (int64, error) {
	if text == "" {
		return 0, fmt.Errorf("empty constant: %w", ErrNotConstant)
	}
	if c := strings.TrimPrefix(text, "L"); strings.HasPrefix(c, "'") {
		return parseChar(c)
	}
	digits := strings.TrimRight(text, "uUlL")
	if digits == "" || strings.ContainsAny(digits, "_") {
		return 0, fmt.Errorf("constant %s: %w", text, ErrNotConstant)
	}
	base := 10
	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		base, digits = 16, digits[2:]
	case len(digits) > 1 && digits[0] == '0':
		base, digits = 8, digits[1:]
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("constant %s: %w", text, ErrNotConstant)
	}
	return int64(v), nil
}

// parseChar evaluates 'c'. Multi-character constants pack bytes big-endian.
func parseChar(text string) (int64, error) {
	if len(text) < 3 || text[len(text)-1] != '\'' {
		return 0, fmt.Errorf("character constant %s: %w", text, ErrNotConstant)
	}
	body := text[1 : len(text)-1]
	var chars []int64
	for len(body) > 0 {
		var c int64
		if body[0] != '\\' {
			c, body = int64(body[0]), body[1:]
		} else {
			var err error
			c, body, err = parseEscape(body[1:])
			if err != nil {
				return 0, fmt.Errorf("character constant %s: %w", text, err)
			}
		}
		chars = append(chars, c)
	}
	if len(chars) == 1 {
		return chars[0], nil
	}
	var v int64
	for _, c := range chars {
		v = v<<8 | c&0xff
	}
	return v, nil
}

func parseEscape(s string) (int64, string, error) {
	if s == "" {
		return 0, s, ErrNotConstant
	}
	switch s[0] {
	case 'n':
		return '\n', s[1:], nil
	case 't':
		return '\t', s[1:], nil
	case 'r':
		return '\r', s[1:], nil
	case 'a':
		return '\a', s[1:], nil
	case 'b':
		return '\b', s[1:], nil
	case 'f':
		return '\f', s[1:], nil
	case 'v':
		return '\v', s[1:], nil
	case 'x':
		n := 1
		for n < len(s) && isHexDigit(s[n]) {
			n++
		}
		if n == 1 {
			return 0, s, ErrNotConstant
		}
		v, err := strconv.ParseUint(s[1:n], 16, 64)
		if err != nil {
			return 0, s, ErrNotConstant
		}
		return int64(v), s[n:], nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := 1
		for n < len(s) && n < 3 && s[n] >= '0' && s[n] <= '7' {
			n++
		}
		v, _ := strconv.ParseUint(s[:n], 8, 64)
		return int64(v), s[n:], nil
	}
	// \\ \' \" \? and unknown escapes stand for the character itself.
	return int64(s[0]), s[1:], nil
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
