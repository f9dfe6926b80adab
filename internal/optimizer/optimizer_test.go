package optimizer_test

import (
	"testing"

	"dragonc/internal/ir"
	"dragonc/internal/optimizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropagateConstantsFoldsChainedArithmetic(t *testing.T) {
	// t0 = 2; t1 = 3; t2 = 4; t3 = t1 * t2; t4 = t0 + t3
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.Assign{Dest: "t0", Src: "2"},
		ir.Assign{Dest: "t1", Src: "3"},
		ir.Assign{Dest: "t2", Src: "4"},
		ir.BinaryOp{Dest: "t3", Op: "*", Left: "t1", Right: "t2"},
		ir.BinaryOp{Dest: "t4", Op: "+", Left: "t0", Right: "t3"},
	}}

	out, err := optimizer.PropagateConstants(p)
	require.NoError(t, err)

	last := out.Instructions[len(out.Instructions)-1]
	assign, ok := last.(ir.Assign)
	require.True(t, ok, "fully-constant chain should fold down to an Assign")
	assert.Equal(t, "14", assign.Src)
}

func TestPropagateConstantsFoldsUnaryNegation(t *testing.T) {
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.Assign{Dest: "t0", Src: "5"},
		ir.UnaryOp{Dest: "t1", Op: "-", Operand: "t0"},
	}}

	out, err := optimizer.PropagateConstants(p)
	require.NoError(t, err)

	assign, ok := out.Instructions[1].(ir.Assign)
	require.True(t, ok)
	assert.Equal(t, "-5", assign.Src)
}

func TestPropagateConstantsDoesNotFoldDivisionByLiteralZero(t *testing.T) {
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.Assign{Dest: "t0", Src: "10"},
		ir.BinaryOp{Dest: "t1", Op: "/", Left: "t0", Right: "0"},
	}}

	out, err := optimizer.PropagateConstants(p)
	require.NoError(t, err, "division by literal zero must not produce a fold-time error")

	bin, ok := out.Instructions[1].(ir.BinaryOp)
	require.True(t, ok, "division by zero must survive as a BinaryOp so the VM raises it")
	assert.Equal(t, "10", bin.Left)
	assert.Equal(t, "0", bin.Right)
}

func TestPropagateConstantsLeavesNonConstantOperandsAlone(t *testing.T) {
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.BinaryOp{Dest: "t0", Op: "+", Left: "x", Right: "y"},
	}}

	out, err := optimizer.PropagateConstants(p)
	require.NoError(t, err)
	assert.Equal(t, p.Instructions[0], out.Instructions[0])
}

func TestEliminateDeadTempsDropsUnusedTemps(t *testing.T) {
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.Assign{Dest: "t0", Src: "1"},
		ir.Assign{Dest: "x", Src: "2"},
		ir.Print{Value: "x"},
	}}

	out := optimizer.EliminateDeadTemps(p)
	for _, insn := range out.Instructions {
		if a, ok := insn.(ir.Assign); ok {
			assert.NotEqual(t, "t0", a.Dest, "unused temp t0 should have been dropped")
		}
	}
	assert.Len(t, out.Instructions, 2)
}

func TestEliminateDeadTempsKeepsNamedVariablesEvenIfUnused(t *testing.T) {
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.Assign{Dest: "unused", Src: "1"},
		ir.Return{Value: "0"},
	}}

	out := optimizer.EliminateDeadTemps(p)
	assert.Len(t, out.Instructions, 2, "named variables are never eliminated, even unused")
}

func TestEliminateDeadTempsKeepsTempsThatAreRead(t *testing.T) {
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.Assign{Dest: "t0", Src: "1"},
		ir.Print{Value: "t0"},
	}}

	out := optimizer.EliminateDeadTemps(p)
	assert.Len(t, out.Instructions, 2)
}

func TestEliminateDeadTempsKeepsNamedVariableStartingWithT(t *testing.T) {
	// "total" is never read after being assigned, but it is a named
	// variable, not a temp, and must survive.
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.Assign{Dest: "total", Src: "1"},
		ir.Return{Value: "0"},
	}}

	out := optimizer.EliminateDeadTemps(p)
	assert.Len(t, out.Instructions, 2, "named variable 'total' must not be mistaken for a temp")
}

func TestRemoveTrivialGotosDropsImmediateFallthrough(t *testing.T) {
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.Goto{Target: "L0"},
		ir.Label{Name: "L0"},
		ir.Return{Value: "0"},
	}}

	out := optimizer.RemoveTrivialGotos(p)
	assert.Len(t, out.Instructions, 2)
	_, stillGoto := out.Instructions[0].(ir.Goto)
	assert.False(t, stillGoto)
}

func TestRemoveTrivialGotosKeepsNonTrivialGotos(t *testing.T) {
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.Goto{Target: "L1"},
		ir.Label{Name: "L0"},
		ir.Label{Name: "L1"},
	}}

	out := optimizer.RemoveTrivialGotos(p)
	assert.Len(t, out.Instructions, 3)
}

func TestRemoveTrivialGotosIsIdempotent(t *testing.T) {
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.Goto{Target: "L0"},
		ir.Label{Name: "L0"},
	}}

	once := optimizer.RemoveTrivialGotos(p)
	twice := optimizer.RemoveTrivialGotos(once)
	assert.Equal(t, once.Instructions, twice.Instructions)
}

func TestOptimizeRunsAllThreePassesInOrder(t *testing.T) {
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.Assign{Dest: "t0", Src: "2"},
		ir.Assign{Dest: "t1", Src: "3"},
		ir.BinaryOp{Dest: "t2", Op: "+", Left: "t0", Right: "t1"},
		ir.Assign{Dest: "result", Src: "t2"},
		ir.Goto{Target: "L0"},
		ir.Label{Name: "L0"},
		ir.Return{Value: "result"},
	}}

	out, err := optimizer.Optimize(p)
	require.NoError(t, err)

	for _, insn := range out.Instructions {
		if g, ok := insn.(ir.Goto); ok {
			t.Fatalf("trivial goto should have been removed, found goto %s", g.Target)
		}
	}

	// t0 and t1 are folded away entirely and never read again, so dead-temp
	// elimination drops them; only the fold result and the named variable
	// survive, with the trivial goto to L0 also removed.
	assign, ok := out.Instructions[0].(ir.Assign)
	require.True(t, ok)
	assert.Equal(t, "5", assign.Src)

	resultAssign, ok := out.Instructions[1].(ir.Assign)
	require.True(t, ok)
	assert.Equal(t, "result", resultAssign.Dest)

	_, isLabel := out.Instructions[2].(ir.Label)
	assert.True(t, isLabel)
}
