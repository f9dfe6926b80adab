package ast

import "dragonc/internal/token"

// LiteralKind tags the runtime type of a Literal's Go value.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	BoolLiteral
	StringLiteral
)

// Literal is a constant int, float, bool, or string.
type Literal struct {
	Value any // int64, float64, bool, or string (unquoted content)
	Kind  LiteralKind
	At    token.Position
}

func (l *Literal) exprNode()          {}
func (l *Literal) Pos() token.Position { return l.At }

// VarRef is a bare identifier used as a value.
type VarRef struct {
	Name string
	At   token.Position
}

func (v *VarRef) exprNode()          {}
func (v *VarRef) Pos() token.Position { return v.At }

// UnaryOp is op ∈ {-, !} applied to Operand.
type UnaryOp struct {
	Operand Expr
	Op      string
	At      token.Position
}

func (u *UnaryOp) exprNode()          {}
func (u *UnaryOp) Pos() token.Position { return u.At }

// BinaryOp is Left op Right.
type BinaryOp struct {
	Left  Expr
	Right Expr
	Op    string
	At    token.Position
}

func (b *BinaryOp) exprNode()          {}
func (b *BinaryOp) Pos() token.Position { return b.At }

// Grouping is a parenthesized expression, kept as its own node so source
// round-tripping and AST dumps can distinguish `(a)` from `a`.
type Grouping struct {
	Inner Expr
	At    token.Position
}

func (g *Grouping) exprNode()          {}
func (g *Grouping) Pos() token.Position { return g.At }

// Assignment is `name = value`; the grammar restricts the lvalue to a bare
// identifier (spec §4.1 edge case).
type Assignment struct {
	Value Expr
	Name  string
	At    token.Position
}

func (a *Assignment) exprNode()          {}
func (a *Assignment) Pos() token.Position { return a.At }

// Call is `callee(args...)`.
type Call struct {
	Callee string
	Args   []Expr
	At     token.Position
}

func (c *Call) exprNode()          {}
func (c *Call) Pos() token.Position { return c.At }
