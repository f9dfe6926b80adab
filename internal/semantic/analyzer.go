// Package semantic implements Dragon-Lang's static semantic analysis:
// scope-tracking symbol resolution, type checking, and return-type
// inference, per spec §3 (Symbol Table) and §4.2.
package semantic

import (
	"dragonc/internal/ast"
	"dragonc/internal/diag"
)

// Analyzer walks a parsed Program and validates it against the type rules
// of spec §4.2. A single Analyzer performs exactly one analysis; construct
// a fresh one per program.
type Analyzer struct {
	symtab      *SymbolTable
	currentFunc *Symbol
}

// NewAnalyzer constructs an Analyzer with a fresh global scope.
func NewAnalyzer() *Analyzer {
	return &Analyzer{symtab: NewSymbolTable()}
}

// SymbolTable exposes the table built during Analyze, so the IR generator
// and CLI debug commands can inspect inferred return types.
func (a *Analyzer) SymbolTable() *SymbolTable { return a.symtab }

// Analyze runs both passes described in spec §4.2 and returns the first
// semantic error encountered, or nil if the whole program is well-typed.
func Analyze(prog *ast.Program) (*SymbolTable, error) {
	a := NewAnalyzer()
	if err := a.Analyze(prog); err != nil {
		return nil, err
	}
	return a.symtab, nil
}

// Analyze performs pass one (collect every function signature into the
// global scope) then pass two (analyze each body in isolation).
func (a *Analyzer) Analyze(prog *ast.Program) error {
	for _, fn := range prog.Functions {
		if _, ok := a.symtab.DefineFunc(fn.Name, fn.Params); !ok {
			return diag.At(diag.Semantic, fn.At, "function %q is already declared", fn.Name)
		}
	}
	for _, fn := range prog.Functions {
		if err := a.analyzeFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeFunction(fn *ast.FunctionDecl) error {
	sym, _ := a.symtab.ResolveGlobal(fn.Name)
	prevFunc := a.currentFunc
	a.currentFunc = sym
	defer func() { a.currentFunc = prevFunc }()

	a.symtab.PushScope()
	defer a.symtab.PopScope()

	for _, p := range fn.Params {
		if !a.symtab.DefineVar(p.Name, p.Type) {
			return diag.At(diag.Semantic, p.At, "duplicate parameter %q in function %q", p.Name, fn.Name)
		}
	}
	return a.analyzeStmt(fn.Body)
}

func (a *Analyzer) analyzeStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Block:
		a.symtab.PushScope()
		defer a.symtab.PopScope()
		for _, inner := range n.Statements {
			if err := a.analyzeStmt(inner); err != nil {
				return err
			}
		}
		return nil

	case *ast.VarDecl:
		if n.Init != nil {
			found, err := a.analyzeExpr(n.Init)
			if err != nil {
				return err
			}
			if !compatible(n.Type, found) {
				return diag.At(diag.Semantic, n.At, "cannot initialize %s %q with a value of type %s", n.Type, n.Name, found)
			}
		}
		if !a.symtab.DefineVar(n.Name, n.Type) {
			return diag.At(diag.Semantic, n.At, "%q is already declared in this scope", n.Name)
		}
		return nil

	case *ast.ExprStmt:
		_, err := a.analyzeExpr(n.X)
		return err

	case *ast.IfStmt:
		t, err := a.analyzeExpr(n.Cond)
		if err != nil {
			return err
		}
		if t != ast.TypeBool {
			return diag.At(diag.Semantic, n.Cond.Pos(), "if condition must be bool, found %s", t)
		}
		if err := a.analyzeStmt(n.Then); err != nil {
			return err
		}
		if n.Else != nil {
			return a.analyzeStmt(n.Else)
		}
		return nil

	case *ast.WhileStmt:
		t, err := a.analyzeExpr(n.Cond)
		if err != nil {
			return err
		}
		if t != ast.TypeBool {
			return diag.At(diag.Semantic, n.Cond.Pos(), "while condition must be bool, found %s", t)
		}
		return a.analyzeStmt(n.Body)

	case *ast.DoWhileStmt:
		if err := a.analyzeStmt(n.Body); err != nil {
			return err
		}
		t, err := a.analyzeExpr(n.Cond)
		if err != nil {
			return err
		}
		if t != ast.TypeBool {
			return diag.At(diag.Semantic, n.Cond.Pos(), "do-while condition must be bool, found %s", t)
		}
		return nil

	case *ast.ForStmt:
		return a.analyzeFor(n)

	case *ast.ReturnStmt:
		return a.analyzeReturn(n)

	case *ast.PrintStmt:
		_, err := a.analyzeExpr(n.Value)
		return err

	case *ast.ReadStmt:
		sym, ok := a.symtab.Resolve(n.Name)
		if !ok || sym.Kind != VarSymbol {
			return diag.At(diag.Semantic, n.At, "undeclared variable %q", n.Name)
		}
		return nil

	default:
		return diag.At(diag.Semantic, s.Pos(), "unsupported statement %T", n)
	}
}

func (a *Analyzer) analyzeFor(n *ast.ForStmt) error {
	a.symtab.PushScope()
	defer a.symtab.PopScope()

	if n.Init != nil {
		if err := a.analyzeStmt(n.Init); err != nil {
			return err
		}
	}
	if n.Cond != nil {
		t, err := a.analyzeExpr(n.Cond)
		if err != nil {
			return err
		}
		if t != ast.TypeBool {
			return diag.At(diag.Semantic, n.Cond.Pos(), "for condition must be bool, found %s", t)
		}
	}
	if err := a.analyzeStmt(n.Body); err != nil {
		return err
	}
	if n.Update != nil {
		if _, err := a.analyzeExpr(n.Update); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeReturn(n *ast.ReturnStmt) error {
	var t ast.TypeTag
	if n.Value != nil {
		found, err := a.analyzeExpr(n.Value)
		if err != nil {
			return err
		}
		t = found
	} else {
		t = ast.TypeVoid
	}

	fn := a.currentFunc
	if fn.SetReturnTypeOnce(t, a.symtab) {
		return nil
	}
	if fn.ReturnType != t {
		return diag.At(diag.Semantic, n.At, "function %q returns %s here but %s elsewhere", fn.Name, t, fn.ReturnType)
	}
	return nil
}

// SetReturnTypeOnce is a thin wrapper kept on Symbol so call sites read as
// "set this function's return type" rather than threading the table
// through every caller; it simply forwards to SymbolTable.
func (sym *Symbol) SetReturnTypeOnce(t ast.TypeTag, st *SymbolTable) bool {
	return st.SetFuncReturnType(sym, t)
}

func (a *Analyzer) analyzeExpr(e ast.Expr) (ast.TypeTag, error) {
	switch n := e.(type) {
	case *ast.Literal:
		switch n.Kind {
		case ast.BoolLiteral:
			return ast.TypeBool, nil
		case ast.IntLiteral:
			return ast.TypeInt, nil
		case ast.FloatLiteral:
			return ast.TypeFloat, nil
		case ast.StringLiteral:
			return ast.TypeString, nil
		}
		return "", diag.At(diag.Semantic, n.At, "unsupported literal")

	case *ast.VarRef:
		sym, ok := a.symtab.Resolve(n.Name)
		if !ok || sym.Kind != VarSymbol {
			return "", diag.At(diag.Semantic, n.At, "undeclared variable %q", n.Name)
		}
		return sym.Type, nil

	case *ast.Grouping:
		return a.analyzeExpr(n.Inner)

	case *ast.UnaryOp:
		t, err := a.analyzeExpr(n.Operand)
		if err != nil {
			return "", err
		}
		switch n.Op {
		case "-":
			if t != ast.TypeInt && t != ast.TypeFloat {
				return "", diag.At(diag.Semantic, n.At, "unary '-' requires a numeric operand, found %s", t)
			}
			return t, nil
		case "!":
			if t != ast.TypeBool {
				return "", diag.At(diag.Semantic, n.At, "unary '!' requires a bool operand, found %s", t)
			}
			return ast.TypeBool, nil
		default:
			return "", diag.At(diag.Semantic, n.At, "unsupported unary operator %q", n.Op)
		}

	case *ast.BinaryOp:
		return a.analyzeBinary(n)

	case *ast.Assignment:
		sym, ok := a.symtab.Resolve(n.Name)
		if !ok || sym.Kind != VarSymbol {
			return "", diag.At(diag.Semantic, n.At, "undeclared variable %q", n.Name)
		}
		found, err := a.analyzeExpr(n.Value)
		if err != nil {
			return "", err
		}
		if !compatible(sym.Type, found) {
			return "", diag.At(diag.Semantic, n.At, "cannot assign %s to %s %q", found, sym.Type, n.Name)
		}
		return sym.Type, nil

	case *ast.Call:
		return a.analyzeCall(n)

	default:
		return "", diag.At(diag.Semantic, e.Pos(), "unsupported expression %T", n)
	}
}

func (a *Analyzer) analyzeBinary(n *ast.BinaryOp) (ast.TypeTag, error) {
	lt, err := a.analyzeExpr(n.Left)
	if err != nil {
		return "", err
	}
	rt, err := a.analyzeExpr(n.Right)
	if err != nil {
		return "", err
	}

	switch n.Op {
	case "+":
		// String concatenation bypasses the usual compatibility check: a
		// string operand on either side wins regardless of the other
		// operand's type (spec §9 Open Question, preserved intentionally).
		if lt == ast.TypeString || rt == ast.TypeString {
			return ast.TypeString, nil
		}
		if !isNumeric(lt) || !isNumeric(rt) {
			return "", diag.At(diag.Semantic, n.At, "'+' requires numeric or string operands, found %s and %s", lt, rt)
		}
		return widenNumeric(lt, rt), nil

	case "-", "*", "/":
		if !isNumeric(lt) || !isNumeric(rt) {
			return "", diag.At(diag.Semantic, n.At, "'%s' requires numeric operands, found %s and %s", n.Op, lt, rt)
		}
		return widenNumeric(lt, rt), nil

	case "%":
		if lt != ast.TypeInt || rt != ast.TypeInt {
			return "", diag.At(diag.Semantic, n.At, "'%%' requires int operands, found %s and %s", lt, rt)
		}
		return ast.TypeInt, nil

	case "<", "<=", ">", ">=", "==", "!=":
		if !compatible(lt, rt) && !compatible(rt, lt) {
			return "", diag.At(diag.Semantic, n.At, "'%s' requires compatible operands, found %s and %s", n.Op, lt, rt)
		}
		return ast.TypeBool, nil

	case "&&", "||":
		if lt != ast.TypeBool || rt != ast.TypeBool {
			return "", diag.At(diag.Semantic, n.At, "'%s' requires bool operands, found %s and %s", n.Op, lt, rt)
		}
		return ast.TypeBool, nil

	default:
		return "", diag.At(diag.Semantic, n.At, "unsupported binary operator %q", n.Op)
	}
}

func (a *Analyzer) analyzeCall(n *ast.Call) (ast.TypeTag, error) {
	sym, ok := a.symtab.ResolveGlobal(n.Callee)
	if !ok || sym.Kind != FuncSymbol {
		return "", diag.At(diag.Semantic, n.At, "undeclared function %q", n.Callee)
	}
	if len(sym.Params) != len(n.Args) {
		return "", diag.At(diag.Semantic, n.At, "function %q expects %d argument(s), got %d", n.Callee, len(sym.Params), len(n.Args))
	}
	for i, arg := range n.Args {
		found, err := a.analyzeExpr(arg)
		if err != nil {
			return "", err
		}
		if !compatible(sym.Params[i].Type, found) {
			return "", diag.At(diag.Semantic, arg.Pos(), "argument %d of %q expects %s, found %s", i+1, n.Callee, sym.Params[i].Type, found)
		}
	}
	if !sym.ReturnSet {
		return ast.TypeVoid, nil
	}
	return sym.ReturnType, nil
}

func isNumeric(t ast.TypeTag) bool {
	return t == ast.TypeInt || t == ast.TypeFloat
}

func widenNumeric(a, b ast.TypeTag) ast.TypeTag {
	if a == ast.TypeFloat || b == ast.TypeFloat {
		return ast.TypeFloat
	}
	return ast.TypeInt
}

// compatible implements the assignment/argument/comparison compatibility
// predicate of spec §4.2: reflexive, float accepts int widening, and
// string is compatible only with string.
func compatible(expected, found ast.TypeTag) bool {
	if expected == ast.TypeString || found == ast.TypeString {
		return expected == found
	}
	if expected == ast.TypeFloat && found == ast.TypeInt {
		return true
	}
	return expected == found
}
