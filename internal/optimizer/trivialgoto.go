package optimizer

import "dragonc/internal/ir"

// RemoveTrivialGotos is Pass 3: it drops any Goto(L) immediately followed
// by Label(L), since control falls through to L anyway (spec §4.4).
// Running this pass twice on its own output is a no-op (Testable
// Property 7): the second pass finds no more Goto-immediately-followed-
// by-its-own-target pairs once the first pass has removed them all.
func RemoveTrivialGotos(p *ir.Program) *ir.Program {
	out := make([]ir.Instruction, 0, len(p.Instructions))
	for i := 0; i < len(p.Instructions); i++ {
		insn := p.Instructions[i]
		if g, ok := insn.(ir.Goto); ok && i+1 < len(p.Instructions) {
			if lbl, ok := p.Instructions[i+1].(ir.Label); ok && lbl.Name == g.Target {
				continue
			}
		}
		out = append(out, insn)
	}
	return &ir.Program{Instructions: out}
}
