package ast

import (
	"fmt"
	"strings"
)

// Dump renders a program as an indented textual tree, used by the
// `dragonc ast` debug subcommand and by tests that want a stable,
// human-readable view of the parsed tree.
func Dump(p *Program) string {
	var sb strings.Builder
	for _, fn := range p.Functions {
		dumpFunc(&sb, fn)
	}
	return sb.String()
}

func dumpFunc(sb *strings.Builder, fn *FunctionDecl) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %s", p.Type, p.Name)
	}
	fmt.Fprintf(sb, "func %s(%s)\n", fn.Name, strings.Join(params, ", "))
	dumpStmt(sb, fn.Body, 1)
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func dumpStmt(sb *strings.Builder, s Stmt, depth int) {
	indent(sb, depth)
	switch n := s.(type) {
	case *Block:
		sb.WriteString("block\n")
		for _, inner := range n.Statements {
			dumpStmt(sb, inner, depth+1)
		}
	case *VarDecl:
		if n.Init != nil {
			fmt.Fprintf(sb, "var %s %s = %s\n", n.Type, n.Name, dumpExpr(n.Init))
		} else {
			fmt.Fprintf(sb, "var %s %s\n", n.Type, n.Name)
		}
	case *ExprStmt:
		fmt.Fprintf(sb, "expr %s\n", dumpExpr(n.X))
	case *IfStmt:
		fmt.Fprintf(sb, "if %s\n", dumpExpr(n.Cond))
		dumpStmt(sb, n.Then, depth+1)
		if n.Else != nil {
			indent(sb, depth)
			sb.WriteString("else\n")
			dumpStmt(sb, n.Else, depth+1)
		}
	case *WhileStmt:
		fmt.Fprintf(sb, "while %s\n", dumpExpr(n.Cond))
		dumpStmt(sb, n.Body, depth+1)
	case *DoWhileStmt:
		sb.WriteString("do\n")
		dumpStmt(sb, n.Body, depth+1)
		indent(sb, depth)
		fmt.Fprintf(sb, "while %s\n", dumpExpr(n.Cond))
	case *ForStmt:
		sb.WriteString("for\n")
		dumpStmt(sb, n.Body, depth+1)
	case *ReturnStmt:
		if n.Value != nil {
			fmt.Fprintf(sb, "return %s\n", dumpExpr(n.Value))
		} else {
			sb.WriteString("return\n")
		}
	case *PrintStmt:
		fmt.Fprintf(sb, "print %s\n", dumpExpr(n.Value))
	case *ReadStmt:
		fmt.Fprintf(sb, "read %s\n", n.Name)
	default:
		fmt.Fprintf(sb, "<unknown stmt %T>\n", n)
	}
}

func dumpExpr(e Expr) string {
	switch n := e.(type) {
	case *Literal:
		return fmt.Sprintf("%v", n.Value)
	case *VarRef:
		return n.Name
	case *UnaryOp:
		return n.Op + dumpExpr(n.Operand)
	case *BinaryOp:
		return fmt.Sprintf("(%s %s %s)", dumpExpr(n.Left), n.Op, dumpExpr(n.Right))
	case *Grouping:
		return "(" + dumpExpr(n.Inner) + ")"
	case *Assignment:
		return fmt.Sprintf("%s = %s", n.Name, dumpExpr(n.Value))
	case *Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = dumpExpr(a)
		}
		return fmt.Sprintf("%s(%s)", n.Callee, strings.Join(args, ", "))
	default:
		return fmt.Sprintf("<unknown expr %T>", n)
	}
}
