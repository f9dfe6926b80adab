package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"dragonc/internal/ir"
	"dragonc/internal/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// program builds a minimal one-function IR program whose body is insns,
// wrapped in a func main: label and an implicit entry offset (Run starts
// execution at funcLabels["main"]+1, matching ir.Generate's FuncLabel
// convention).
func program(insns ...ir.Instruction) *ir.Program {
	all := append([]ir.Instruction{ir.FuncLabel{Name: "main"}}, insns...)
	return &ir.Program{Instructions: all}
}

func TestRunReturnsMainsValue(t *testing.T) {
	p := program(
		ir.Assign{Dest: "x", Src: "42"},
		ir.Return{Value: "x"},
	)
	machine := vm.New(p, map[string][]string{"main": {}})
	result, err := machine.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(42), result)
}

func TestRunWithoutMainIsError(t *testing.T) {
	p := &ir.Program{Instructions: []ir.Instruction{ir.FuncLabel{Name: "f"}, ir.Return{}}}
	machine := vm.New(p, map[string][]string{"f": {}})
	_, err := machine.Run()
	assert.Error(t, err)
}

func TestPrintWritesDisplayStringToOutput(t *testing.T) {
	p := program(
		ir.Assign{Dest: "t0", Src: `"hi"`},
		ir.Print{Value: "t0"},
		ir.Return{},
	)
	var buf bytes.Buffer
	machine := vm.New(p, map[string][]string{"main": {}}, vm.WithOutput(&buf))
	_, err := machine.Run()
	require.NoError(t, err)
	assert.Equal(t, "hi\n", buf.String())
}

func TestIfGotoBranchesOnNonzero(t *testing.T) {
	// if 1 goto skip; print "no"; goto end; skip: print "yes"; end: return;
	p := program(
		ir.IfGoto{Cond: "1", Target: "skip"},
		ir.Print{Value: `"no"`},
		ir.Goto{Target: "end"},
		ir.Label{Name: "skip"},
		ir.Print{Value: `"yes"`},
		ir.Label{Name: "end"},
		ir.Return{},
	)
	var buf bytes.Buffer
	machine := vm.New(p, map[string][]string{"main": {}}, vm.WithOutput(&buf))
	_, err := machine.Run()
	require.NoError(t, err)
	assert.Equal(t, "yes\n", buf.String())
}

func TestIfGotoFallsThroughOnZero(t *testing.T) {
	p := program(
		ir.IfGoto{Cond: "0", Target: "skip"},
		ir.Print{Value: `"fell through"`},
		ir.Label{Name: "skip"},
		ir.Return{},
	)
	var buf bytes.Buffer
	machine := vm.New(p, map[string][]string{"main": {}}, vm.WithOutput(&buf))
	_, err := machine.Run()
	require.NoError(t, err)
	assert.Equal(t, "fell through\n", buf.String())
}

func TestCallBindsParamsAndReturnsToDest(t *testing.T) {
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.FuncLabel{Name: "double"},
		ir.BinaryOp{Dest: "r", Op: "*", Left: "n", Right: "2"},
		ir.Return{Value: "r"},

		ir.FuncLabel{Name: "main"},
		ir.Param{Value: "5"},
		ir.Call{Dest: "t0", Callee: "double", ArgCount: 1},
		ir.Return{Value: "t0"},
	}}

	machine := vm.New(p, map[string][]string{"double": {"n"}, "main": {}})
	result, err := machine.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(10), result)
}

func TestCallWithDiscardedResultStillExecutesCallee(t *testing.T) {
	p := &ir.Program{Instructions: []ir.Instruction{
		ir.FuncLabel{Name: "sideEffect"},
		ir.Print{Value: `"called"`},
		ir.Return{},

		ir.FuncLabel{Name: "main"},
		ir.Call{Dest: "", Callee: "sideEffect", ArgCount: 0},
		ir.Return{},
	}}

	var buf bytes.Buffer
	machine := vm.New(p, map[string][]string{"sideEffect": {}, "main": {}}, vm.WithOutput(&buf))
	_, err := machine.Run()
	require.NoError(t, err)
	assert.Equal(t, "called\n", buf.String())
}

func TestReadParsesIntFloatAndString(t *testing.T) {
	p := program(
		ir.Read{Dest: "a"},
		ir.Read{Dest: "b"},
		ir.Read{Dest: "c"},
		ir.Print{Value: "a"},
		ir.Print{Value: "b"},
		ir.Print{Value: "c"},
		ir.Return{},
	)
	var buf bytes.Buffer
	machine := vm.New(p, map[string][]string{"main": {}},
		vm.WithOutput(&buf),
		vm.WithInput(strings.NewReader("7\n2.5\nhello\n")))
	_, err := machine.Run()
	require.NoError(t, err)
	assert.Equal(t, "7\n2.5\nhello\n", buf.String())
}

func TestDivisionByZeroAtRuntimeIsVMError(t *testing.T) {
	p := program(
		ir.BinaryOp{Dest: "x", Op: "/", Left: "10", Right: "0"},
		ir.Return{Value: "x"},
	)
	machine := vm.New(p, map[string][]string{"main": {}})
	_, err := machine.Run()
	assert.Error(t, err)
}

func TestUninitializedVariableUseIsError(t *testing.T) {
	p := program(
		ir.Print{Value: "undeclared"},
		ir.Return{},
	)
	machine := vm.New(p, map[string][]string{"main": {}})
	_, err := machine.Run()
	assert.Error(t, err)
}

func TestTraceCallbackFiresPerInstruction(t *testing.T) {
	p := program(
		ir.Assign{Dest: "x", Src: "1"},
		ir.Return{Value: "x"},
	)
	var seen []ir.Instruction
	machine := vm.New(p, map[string][]string{"main": {}}, vm.WithTrace(func(ip int, insn ir.Instruction) {
		seen = append(seen, insn)
	}))
	_, err := machine.Run()
	require.NoError(t, err)
	assert.Len(t, seen, 2)
}
