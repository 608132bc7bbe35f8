// Package cabs defines the declaration model and expression trees produced
// by the declaration parser.
package cabs

// Node is the base interface for all model nodes
type Node interface {
	implCabsNode()
}

// Expr is the interface for all expression nodes
type Expr interface {
	Node
	implCabsExpr()
}

// BinaryOp represents binary operators
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl   // <<
	OpShr   // >>
	OpAssign
	OpComma // ,
)

func (op BinaryOp) String() string {
	names := []string{"+", "-", "*", "/", "%", "<", "<=", ">", ">=", "==", "!=", "&", "|", "^", "<<", ">>", "=", ","}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// UnaryOp represents unary operators
type UnaryOp int

const (
	OpNeg    UnaryOp = iota // -
	OpNot                   // !
	OpBitNot                // ~
	OpPlus                  // +
	OpAddrOf                // &
	OpDeref                 // *
	OpPreInc                // ++x
	OpPreDec                // --x
	OpPostInc               // x++
	OpPostDec               // x--
)

func (op UnaryOp) String() string {
	names := []string{"-", "!", "~", "+", "&", "*", "++", "--", "++", "--"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// Constant is a numeric, character or string constant kept as written.
type Constant struct {
	Text string
}

// Identifier is a name in expression position
type Identifier struct {
	Name string
}

// Unary represents a unary expression
type Unary struct {
	Op   UnaryOp
	Expr Expr
}

// Binary represents a binary expression. Compound assignments are stored as
// OpAssign with the operation applied on the right: a += b is a = (a + b).
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// LogicalAnd is a && b
type LogicalAnd struct {
	Left  Expr
	Right Expr
}

// LogicalOr is a || b
type LogicalOr struct {
	Left  Expr
	Right Expr
}

// Conditional represents the ternary operator: cond ? then : else
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Call represents a function call. In a directive, defined(X) and defined X
// are calls of the identifier "defined".
type Call struct {
	Func Expr
	Args []Expr
}

// Index represents array subscript access: arr[idx]
type Index struct {
	Array Expr
	Index Expr
}

// Member represents a.b or a->b
type Member struct {
	Expr    Expr
	Name    string
	IsArrow bool
}

// SizeofExpr represents sizeof applied to an expression
type SizeofExpr struct {
	Expr Expr
}

// SizeofType represents sizeof(type-name)
type SizeofType struct {
	TypeName string
}

// Cast represents (type-name) expr
type Cast struct {
	TypeName string
	Expr     Expr
}

// InitList is a brace-enclosed initializer
type InitList struct {
	Items []Expr
}

func (Constant) implCabsNode() {}
func (Constant) implCabsExpr() {}

func (Identifier) implCabsNode() {}
func (Identifier) implCabsExpr() {}

func (Unary) implCabsNode() {}
func (Unary) implCabsExpr() {}

func (Binary) implCabsNode() {}
func (Binary) implCabsExpr() {}

func (LogicalAnd) implCabsNode() {}
func (LogicalAnd) implCabsExpr() {}

func (LogicalOr) implCabsNode() {}
func (LogicalOr) implCabsExpr() {}

func (Conditional) implCabsNode() {}
func (Conditional) implCabsExpr() {}

func (Call) implCabsNode() {}
func (Call) implCabsExpr() {}

func (Index) implCabsNode() {}
func (Index) implCabsExpr() {}

func (Member) implCabsNode() {}
func (Member) implCabsExpr() {}

func (SizeofExpr) implCabsNode() {}
func (SizeofExpr) implCabsExpr() {}

func (SizeofType) implCabsNode() {}
func (SizeofType) implCabsExpr() {}

func (Cast) implCabsNode() {}
func (Cast) implCabsExpr() {}

func (InitList) implCabsNode() {}
func (InitList) implCabsExpr() {}
