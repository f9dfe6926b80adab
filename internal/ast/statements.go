package ast

import "dragonc/internal/token"

// Block is a brace-delimited sequence of statements; it introduces a fresh
// scope (spec §4.2).
type Block struct {
	Statements []Stmt
	At         token.Position
}

func (b *Block) stmtNode()          {}
func (b *Block) Pos() token.Position { return b.At }

// VarDecl declares a local variable, with an optional initializer
// expression (Init is nil when absent).
type VarDecl struct {
	Init Expr
	Name string
	Type TypeTag
	At   token.Position
}

func (v *VarDecl) stmtNode()          {}
func (v *VarDecl) Pos() token.Position { return v.At }

// ExprStmt is an expression evaluated for its side effect, with its value
// discarded.
type ExprStmt struct {
	X  Expr
	At token.Position
}

func (e *ExprStmt) stmtNode()          {}
func (e *ExprStmt) Pos() token.Position { return e.At }

// IfStmt is `if (cond) then [else else]`.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
	At   token.Position
}

func (s *IfStmt) stmtNode()          {}
func (s *IfStmt) Pos() token.Position { return s.At }

// WhileStmt is `while (cond) body`.
type WhileStmt struct {
	Cond Expr
	Body Stmt
	At   token.Position
}

func (s *WhileStmt) stmtNode()          {}
func (s *WhileStmt) Pos() token.Position { return s.At }

// DoWhileStmt is `do body while (cond);`.
type DoWhileStmt struct {
	Body Stmt
	Cond Expr
	At   token.Position
}

func (s *DoWhileStmt) stmtNode()          {}
func (s *DoWhileStmt) Pos() token.Position { return s.At }

// ForStmt is `for (init; cond; update) body`; Init, Cond, and Update may
// each be nil per the grammar's optional for_init/condition/update.
type ForStmt struct {
	Init   Stmt // VarDecl or ExprStmt, or nil
	Cond   Expr // nil means "always true"
	Update Expr // nil if absent
	Body   Stmt
	At     token.Position
}

func (s *ForStmt) stmtNode()          {}
func (s *ForStmt) Pos() token.Position { return s.At }

// ReturnStmt is `return [expr];`.
type ReturnStmt struct {
	Value Expr // nil for a bare `return;`
	At    token.Position
}

func (s *ReturnStmt) stmtNode()          {}
func (s *ReturnStmt) Pos() token.Position { return s.At }

// PrintStmt is `print expr;`.
type PrintStmt struct {
	Value Expr
	At    token.Position
}

func (s *PrintStmt) stmtNode()          {}
func (s *PrintStmt) Pos() token.Position { return s.At }

// ReadStmt is `read IDENT;`.
type ReadStmt struct {
	Name string
	At   token.Position
}

func (s *ReadStmt) stmtNode()          {}
func (s *ReadStmt) Pos() token.Position { return s.At }
