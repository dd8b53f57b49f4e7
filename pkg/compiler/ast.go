package compiler

import "fmt"

// NodeKind classifies an AST node by the operation it denotes.
type NodeKind int

const (
	NumberLiteral NodeKind = iota
	Add
	Sub
	Mul
	Div
)

var nodeKindNames = [...]string{
	NumberLiteral: "NumberLiteral",
	Add:           "Add",
	Sub:           "Sub",
	Mul:           "Mul",
	Div:           "Div",
}

func (k NodeKind) String() string {
	if int(k) >= 0 && int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Expr is implemented by every node that produces a value.
// genExpr always leaves the result pushed on the stack.
type Expr interface {
	Kind() NodeKind
	String() string
}

// Literal is a compile-time integer constant.
//
//	3 + 4
//	^  Literal{Value: 3, Pos: 0}
type Literal struct {
	Value int64
	Pos   int
}

func (*Literal) Kind() NodeKind   { return NumberLiteral }
func (l *Literal) String() string { return fmt.Sprintf("%d", l.Value) }

// BinaryExpr represents a binary operation: Left Op Right.
//
//	x + 1
//	^ ^ ^
//	| | |
//	| | Right
//	| Op
//	Left
//
// Pos is the offset of the operator.
type BinaryExpr struct {
	Op    TokenType
	Left  Expr
	Right Expr
	Pos   int
}

var binaryKinds = map[TokenType]NodeKind{
	PLUS:  Add,
	MINUS: Sub,
	STAR:  Mul,
	SLASH: Div,
}

func (b *BinaryExpr) Kind() NodeKind { return binaryKinds[b.Op] }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}
