package ir

import "dragonc/internal/diag"

// Verify checks the two structural invariants of spec §3: every Goto/IfGoto
// target names a Label that exists somewhere in the program, and every
// Call callee names a FuncLabel that exists. It is used by tests (Testable
// Property 4) and may be run by the CLI's debug subcommands.
func Verify(p *Program) error {
	labels := make(map[string]bool)
	funcs := make(map[string]bool)
	for _, ins := range p.Instructions {
		switch n := ins.(type) {
		case Label:
			labels[n.Name] = true
		case FuncLabel:
			funcs[n.Name] = true
		}
	}
	for _, ins := range p.Instructions {
		switch n := ins.(type) {
		case Goto:
			if !labels[n.Target] {
				return diag.New(diag.Optimizer, "goto targets unknown label %q", n.Target)
			}
		case IfGoto:
			if !labels[n.Target] {
				return diag.New(diag.Optimizer, "if-goto targets unknown label %q", n.Target)
			}
		case Call:
			if !funcs[n.Callee] {
				return diag.New(diag.Optimizer, "call targets unknown function %q", n.Callee)
			}
		}
	}
	return nil
}
