package ir

import (
	"fmt"
	"strconv"

	"dragonc/internal/ast"
)

// Generator lowers a typed AST into TAC. The temp/label counters are
// fields on the Generator (spec §9's redesign flag for the IR generator's
// globally mutable counters), so each call to Generate constructs a fresh
// instance and never leaks counter state between programs.
type Generator struct {
	instructions []Instruction
	tempCount    int
	labelCount   int
}

// NewGenerator constructs a Generator with counters reset to zero.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate lowers prog into an IRProgram, concatenating every function's
// emitted stream in source order (spec §4.3).
func Generate(prog *ast.Program) *Program {
	g := NewGenerator()
	for _, fn := range prog.Functions {
		g.genFunction(fn)
	}
	return &Program{Instructions: g.instructions}
}

// FuncParamNames builds the `callee → [parameter-name,...]` map the VM
// needs (spec §4.5's "supplementary input"), read directly off the AST.
func FuncParamNames(prog *ast.Program) map[string][]string {
	m := make(map[string][]string, len(prog.Functions))
	for _, fn := range prog.Functions {
		names := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			names[i] = p.Name
		}
		m[fn.Name] = names
	}
	return m
}

func (g *Generator) newTemp() string {
	t := fmt.Sprintf("t%d", g.tempCount)
	g.tempCount++
	return t
}

func (g *Generator) newLabel(prefix string) string {
	l := fmt.Sprintf("%s%d", prefix, g.labelCount)
	g.labelCount++
	return l
}

func (g *Generator) emit(ins Instruction) {
	g.instructions = append(g.instructions, ins)
}

func (g *Generator) genFunction(fn *ast.FunctionDecl) {
	g.emit(FuncLabel{Name: fn.Name})
	// Parameters are bound by the VM on call, not materialized here
	// (spec §4.3).
	g.genStmt(fn.Body)
}

func (g *Generator) genStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		for _, inner := range n.Statements {
			g.genStmt(inner)
		}

	case *ast.VarDecl:
		if n.Init != nil {
			v := g.genExpr(n.Init)
			g.emit(Assign{Dest: n.Name, Src: v})
		}

	case *ast.ExprStmt:
		g.genExpr(n.X)

	case *ast.IfStmt:
		g.genIf(n)

	case *ast.WhileStmt:
		g.genWhile(n)

	case *ast.DoWhileStmt:
		g.genDoWhile(n)

	case *ast.ForStmt:
		g.genFor(n)

	case *ast.ReturnStmt:
		if n.Value != nil {
			v := g.genExpr(n.Value)
			g.emit(Return{Value: v})
		} else {
			g.emit(Return{})
		}

	case *ast.PrintStmt:
		v := g.genExpr(n.Value)
		g.emit(Print{Value: v})

	case *ast.ReadStmt:
		g.emit(Read{Dest: n.Name})

	default:
		panic(fmt.Sprintf("ir: unsupported statement %T", n))
	}
}

func (g *Generator) genIf(n *ast.IfStmt) {
	cond := g.genExpr(n.Cond)

	thenL := g.newLabel("L_then_")
	elseL := g.newLabel("L_else_")
	endL := g.newLabel("L_end_")

	g.emit(IfGoto{Cond: cond, Target: thenL})
	g.emit(Goto{Target: elseL})

	g.emit(Label{Name: thenL})
	g.genStmt(n.Then)
	g.emit(Goto{Target: endL})

	g.emit(Label{Name: elseL})
	if n.Else != nil {
		g.genStmt(n.Else)
	}

	g.emit(Label{Name: endL})
}

func (g *Generator) genWhile(n *ast.WhileStmt) {
	begin := g.newLabel("L_while_begin_")
	body := g.newLabel("L_while_body_")
	end := g.newLabel("L_while_end_")

	g.emit(Label{Name: begin})
	cond := g.genExpr(n.Cond)
	g.emit(IfGoto{Cond: cond, Target: body})
	g.emit(Goto{Target: end})

	g.emit(Label{Name: body})
	g.genStmt(n.Body)
	g.emit(Goto{Target: begin})

	g.emit(Label{Name: end})
}

func (g *Generator) genDoWhile(n *ast.DoWhileStmt) {
	body := g.newLabel("L_do_body_")
	end := g.newLabel("L_do_end_")

	g.emit(Label{Name: body})
	g.genStmt(n.Body)

	cond := g.genExpr(n.Cond)
	g.emit(IfGoto{Cond: cond, Target: body})

	g.emit(Label{Name: end})
}

func (g *Generator) genFor(n *ast.ForStmt) {
	if n.Init != nil {
		g.genStmt(n.Init)
	}

	begin := g.newLabel("L_for_begin_")
	body := g.newLabel("L_for_body_")
	end := g.newLabel("L_for_end_")

	g.emit(Label{Name: begin})
	if n.Cond != nil {
		cond := g.genExpr(n.Cond)
		g.emit(IfGoto{Cond: cond, Target: body})
		g.emit(Goto{Target: end})
	} else {
		g.emit(Goto{Target: body})
	}

	g.emit(Label{Name: body})
	g.genStmt(n.Body)
	if n.Update != nil {
		g.genExpr(n.Update)
	}
	g.emit(Goto{Target: begin})

	g.emit(Label{Name: end})
}

// genExpr lowers expr and returns the operand-string carrying its value
// (spec §4.3).
func (g *Generator) genExpr(expr ast.Expr) string {
	switch n := expr.(type) {
	case *ast.Literal:
		t := g.newTemp()
		g.emit(Assign{Dest: t, Src: encodeLiteral(n)})
		return t

	case *ast.VarRef:
		return n.Name

	case *ast.Grouping:
		return g.genExpr(n.Inner)

	case *ast.UnaryOp:
		operand := g.genExpr(n.Operand)
		t := g.newTemp()
		g.emit(UnaryOp{Dest: t, Op: n.Op, Operand: operand})
		return t

	case *ast.BinaryOp:
		left := g.genExpr(n.Left)
		right := g.genExpr(n.Right)
		t := g.newTemp()
		g.emit(BinaryOp{Dest: t, Op: n.Op, Left: left, Right: right})
		return t

	case *ast.Assignment:
		v := g.genExpr(n.Value)
		g.emit(Assign{Dest: n.Name, Src: v})
		return n.Name

	case *ast.Call:
		return g.genCall(n)

	default:
		panic(fmt.Sprintf("ir: unsupported expression %T", n))
	}
}

func (g *Generator) genCall(call *ast.Call) string {
	argCount := 0
	for _, arg := range call.Args {
		v := g.genExpr(arg)
		g.emit(Param{Value: v})
		argCount++
	}
	t := g.newTemp()
	g.emit(Call{Dest: t, Callee: call.Callee, ArgCount: argCount})
	return t
}

// encodeLiteral renders a literal AST node in the operand language of
// spec §3: booleans as "1"/"0", numerics in decimal form, strings wrapped
// in the original quote characters.
func encodeLiteral(lit *ast.Literal) string {
	switch lit.Kind {
	case ast.BoolLiteral:
		if lit.Value.(bool) {
			return "1"
		}
		return "0"
	case ast.IntLiteral:
		return strconv.FormatInt(lit.Value.(int64), 10)
	case ast.FloatLiteral:
		return strconv.FormatFloat(lit.Value.(float64), 'g', -1, 64)
	case ast.StringLiteral:
		return `"` + lit.Value.(string) + `"`
	default:
		panic("ir: unsupported literal kind")
	}
}
