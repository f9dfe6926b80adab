// Package optimizer implements the three fixed-order IR passes of spec
// §4.4: constant propagation with folding, dead-temp elimination, and
// trivial-goto removal. Each pass is a single linear sweep; the package
// does not iterate to a fixpoint (spec §4.4 explicitly does not require
// one).
package optimizer

import (
	"dragonc/internal/diag"
	"dragonc/internal/ir"
	"dragonc/internal/value"
)

// Optimize runs all three passes in the defined order and returns the
// transformed program.
func Optimize(p *ir.Program) (*ir.Program, error) {
	p1, err := PropagateConstants(p)
	if err != nil {
		return nil, err
	}
	p2 := EliminateDeadTemps(p1)
	p3 := RemoveTrivialGotos(p2)
	return p3, nil
}

// PropagateConstants is Pass 1: it maintains a name→literal-operand map,
// substitutes known-constant operands into BinaryOp/UnaryOp instructions,
// and folds an operation into an Assign when every one of its operands is
// a literal.
//
// Division by a literal zero is deliberately NOT folded here (spec §9's
// Open Question on `10/0`, resolved to preserve the trap location): the
// BinaryOp is left in place, with known operands substituted, so the VM
// raises the division-by-zero vm-error at the instruction that actually
// divides, never the optimizer.
func PropagateConstants(p *ir.Program) (*ir.Program, error) {
	consts := make(map[string]string)
	out := make([]ir.Instruction, 0, len(p.Instructions))

	sub := func(operand string) string {
		if lit, ok := consts[operand]; ok {
			return lit
		}
		return operand
	}

	for _, insn := range p.Instructions {
		switch n := insn.(type) {
		case ir.Assign:
			out = append(out, n)
			if value.IsLiteral(n.Src) {
				consts[n.Dest] = n.Src
			} else {
				delete(consts, n.Dest)
			}

		case ir.BinaryOp:
			left := sub(n.Left)
			right := sub(n.Right)

			if n.Op == "/" && value.IsLiteral(right) {
				if rv, ok := value.DecodeLiteral(right); ok {
					if isZero(rv) {
						out = append(out, ir.BinaryOp{Dest: n.Dest, Op: n.Op, Left: left, Right: right})
						delete(consts, n.Dest)
						continue
					}
				}
			}

			if value.IsLiteral(left) && value.IsLiteral(right) {
				lv, _ := value.DecodeLiteral(left)
				rv, _ := value.DecodeLiteral(right)
				result, err := value.EvalBinary(n.Op, lv, rv)
				if err != nil {
					return nil, diag.New(diag.Optimizer, "folding %q: %s", n.Op, err.Error())
				}
				folded := value.Encode(result)
				out = append(out, ir.Assign{Dest: n.Dest, Src: folded})
				consts[n.Dest] = folded
				continue
			}

			out = append(out, ir.BinaryOp{Dest: n.Dest, Op: n.Op, Left: left, Right: right})
			delete(consts, n.Dest)

		case ir.UnaryOp:
			operand := sub(n.Operand)
			if value.IsLiteral(operand) {
				v, _ := value.DecodeLiteral(operand)
				result, err := value.EvalUnary(n.Op, v)
				if err != nil {
					return nil, diag.New(diag.Optimizer, "folding %q: %s", n.Op, err.Error())
				}
				folded := value.Encode(result)
				out = append(out, ir.Assign{Dest: n.Dest, Src: folded})
				consts[n.Dest] = folded
				continue
			}
			out = append(out, ir.UnaryOp{Dest: n.Dest, Op: n.Op, Operand: operand})
			delete(consts, n.Dest)

		default:
			out = append(out, insn)
		}
	}

	return &ir.Program{Instructions: out}, nil
}

func isZero(v value.Value) bool {
	switch n := v.(type) {
	case int64:
		return n == 0
	case float64:
		return n == 0
	default:
		return false
	}
}
