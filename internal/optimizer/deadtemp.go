package optimizer

import "dragonc/internal/ir"

// EliminateDeadTemps is Pass 2: it computes the set of operand names read
// anywhere in the program, then drops any Assign whose destination begins
// with "t" (a temporary) and is never read. Named variables are never
// removed, even if unused (spec §4.4).
func EliminateDeadTemps(p *ir.Program) *ir.Program {
	used := collectUsed(p)

	out := make([]ir.Instruction, 0, len(p.Instructions))
	for _, insn := range p.Instructions {
		if a, ok := insn.(ir.Assign); ok && isTemp(a.Dest) && !used[a.Dest] {
			continue
		}
		out = append(out, insn)
	}
	return &ir.Program{Instructions: out}
}

// isTemp reports whether name is a generator-assigned temporary: "t"
// followed by one or more digits (spec §3), as opposed to a named
// variable that merely happens to start with 't' (e.g. "total").
func isTemp(name string) bool {
	if len(name) < 2 || name[0] != 't' {
		return false
	}
	for _, c := range name[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// collectUsed gathers every operand name read anywhere in the program:
// the right-hand side of Assign, the operands of BinaryOp/UnaryOp,
// Print.Value, IfGoto.Cond, a non-empty Return.Value, Param.Value, and
// Call.Dest when present (its side effects matter even if the result is
// discarded downstream, so it is conservatively treated as used).
func collectUsed(p *ir.Program) map[string]bool {
	used := make(map[string]bool)
	mark := func(name string) {
		if name != "" {
			used[name] = true
		}
	}
	for _, insn := range p.Instructions {
		switch n := insn.(type) {
		case ir.Assign:
			mark(n.Src)
		case ir.BinaryOp:
			mark(n.Left)
			mark(n.Right)
		case ir.UnaryOp:
			mark(n.Operand)
		case ir.Print:
			mark(n.Value)
		case ir.IfGoto:
			mark(n.Cond)
		case ir.Return:
			mark(n.Value)
		case ir.Param:
			mark(n.Value)
		case ir.Call:
			mark(n.Dest)
		}
	}
	return used
}
