// Package vm implements the Dragon-Lang interpreter: a stack-of-frames
// virtual machine executing the optimized IR (spec §4.5).
package vm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"dragonc/internal/diag"
	"dragonc/internal/ir"
	"dragonc/internal/value"
)

// Frame records one activation: the caller's function name, its saved
// environment, the instruction index to resume at, and the destination
// name in the caller's environment that should receive the return value
// (empty when the call's result was discarded).
type Frame struct {
	FuncName string
	Env      map[string]value.Value
	ReturnIP int
	RetDest  string
	HasDest  bool
}

// VM executes an ir.Program. Construct with New and run with Run.
type VM struct {
	program     *ir.Program
	labels      map[string]int
	funcLabels  map[string]int
	funcParams  map[string][]string
	frames      []Frame
	currentFunc string
	env         map[string]value.Value
	ip          int
	argStack    []value.Value
	out         io.Writer
	in          *bufio.Reader
	trace       bool
	tracer      func(ip int, insn ir.Instruction)
}

// Option configures optional VM behavior.
type Option func(*VM)

// WithOutput redirects Print output (default os.Stdout via the caller).
func WithOutput(w io.Writer) Option { return func(v *VM) { v.out = w } }

// WithInput redirects Read input (default os.Stdin via the caller).
func WithInput(r io.Reader) Option { return func(v *VM) { v.in = bufio.NewReader(r) } }

// WithTrace installs a callback invoked before each instruction executes,
// mirroring the teacher CLI's --trace flag.
func WithTrace(fn func(ip int, insn ir.Instruction)) Option {
	return func(v *VM) { v.trace = true; v.tracer = fn }
}

// New constructs a VM over program, indexing labels and function entries
// once up front (spec §4.5). funcParams is the `callee → [param names]`
// map built from the AST (spec §4.5's "supplementary input").
func New(program *ir.Program, funcParams map[string][]string, opts ...Option) *VM {
	v := &VM{
		program:    program,
		funcParams: funcParams,
		labels:     make(map[string]int),
		funcLabels: make(map[string]int),
	}
	for i, insn := range program.Instructions {
		switch n := insn.(type) {
		case ir.Label:
			v.labels[n.Name] = i
		case ir.FuncLabel:
			v.funcLabels[n.Name] = i
		}
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *VM) decode(operand string) (value.Value, error) {
	if lit, ok := value.DecodeLiteral(operand); ok {
		// A bare "0"/"1" is ambiguous between a literal and a name; spec
		// §4.5 resolves it by checking the environment FIRST for any
		// name, falling back to the literal forms only when no binding
		// exists. DecodeLiteral above short-circuits before that check,
		// so re-order here: prefer an existing binding over the literal
		// reading whenever the operand could also be an identifier.
		if val, ok := v.env[operand]; ok {
			return val, nil
		}
		return lit, nil
	}
	if val, ok := v.env[operand]; ok {
		return val, nil
	}
	return nil, diag.New(diag.VM, "uninitialized use of %q", operand)
}

// Run executes the program starting at `main` (spec §4.5's required entry
// point) and returns main's return value, or nil if it returned none.
func (v *VM) Run() (value.Value, error) {
	entry, ok := v.funcLabels["main"]
	if !ok {
		return nil, diag.New(diag.VM, "no 'main' function found")
	}
	v.currentFunc = "main"
	v.env = make(map[string]value.Value)
	v.ip = entry + 1

	for v.ip < len(v.program.Instructions) {
		insn := v.program.Instructions[v.ip]
		if v.trace {
			v.tracer(v.ip, insn)
		}

		jumped, ret, done, err := v.step(insn)
		if err != nil {
			return nil, err
		}
		if done {
			return ret, nil
		}
		if !jumped {
			v.ip++
		}
	}
	return nil, nil
}

// step executes one instruction. jumped reports whether ip was already
// updated by a control-flow instruction (so the caller must not also
// advance it); done reports whether the program has returned from main.
func (v *VM) step(insn ir.Instruction) (jumped bool, ret value.Value, done bool, err error) {
	switch n := insn.(type) {
	case ir.Label, ir.FuncLabel:
		return false, nil, false, nil

	case ir.Assign:
		val, err := v.decode(n.Src)
		if err != nil {
			return false, nil, false, err
		}
		v.env[n.Dest] = val
		return false, nil, false, nil

	case ir.BinaryOp:
		a, err := v.decode(n.Left)
		if err != nil {
			return false, nil, false, err
		}
		b, err := v.decode(n.Right)
		if err != nil {
			return false, nil, false, err
		}
		result, err := value.EvalBinary(n.Op, a, b)
		if err != nil {
			return false, nil, false, diag.New(diag.VM, "%s", err.Error())
		}
		v.env[n.Dest] = result
		return false, nil, false, nil

	case ir.UnaryOp:
		a, err := v.decode(n.Operand)
		if err != nil {
			return false, nil, false, err
		}
		result, err := value.EvalUnary(n.Op, a)
		if err != nil {
			return false, nil, false, diag.New(diag.VM, "%s", err.Error())
		}
		v.env[n.Dest] = result
		return false, nil, false, nil

	case ir.Goto:
		target, ok := v.labels[n.Target]
		if !ok {
			return false, nil, false, diag.New(diag.VM, "unknown label %q", n.Target)
		}
		v.ip = target
		return true, nil, false, nil

	case ir.IfGoto:
		cond, err := v.decode(n.Cond)
		if err != nil {
			return false, nil, false, err
		}
		if !isZero(cond) {
			target, ok := v.labels[n.Target]
			if !ok {
				return false, nil, false, diag.New(diag.VM, "unknown label %q", n.Target)
			}
			v.ip = target
			return true, nil, false, nil
		}
		return false, nil, false, nil

	case ir.Print:
		val, err := v.decode(n.Value)
		if err != nil {
			return false, nil, false, err
		}
		fmt.Fprintln(v.out, value.DisplayString(val))
		return false, nil, false, nil

	case ir.Read:
		val, err := v.readLine()
		if err != nil {
			return false, nil, false, err
		}
		v.env[n.Dest] = val
		return false, nil, false, nil

	case ir.Param:
		val, err := v.decode(n.Value)
		if err != nil {
			return false, nil, false, err
		}
		v.argStack = append(v.argStack, val)
		return false, nil, false, nil

	case ir.Call:
		return v.call(n)

	case ir.Return:
		return v.doReturn(n)

	default:
		return false, nil, false, diag.New(diag.VM, "unsupported instruction %T", n)
	}
}

func (v *VM) call(n ir.Call) (jumped bool, ret value.Value, done bool, err error) {
	entry, ok := v.funcLabels[n.Callee]
	if !ok {
		return false, nil, false, diag.New(diag.VM, "unknown function %q", n.Callee)
	}
	if n.ArgCount > len(v.argStack) {
		return false, nil, false, diag.New(diag.VM, "not enough pending arguments for call to %q", n.Callee)
	}
	args := v.argStack[len(v.argStack)-n.ArgCount:]
	v.argStack = v.argStack[:len(v.argStack)-n.ArgCount]

	paramNames := v.funcParams[n.Callee]
	if len(paramNames) != n.ArgCount {
		return false, nil, false, diag.New(diag.VM, "call to %q passes %d argument(s), expected %d", n.Callee, n.ArgCount, len(paramNames))
	}

	v.frames = append(v.frames, Frame{
		FuncName: v.currentFunc,
		Env:      v.env,
		ReturnIP: v.ip + 1,
		RetDest:  n.Dest,
		HasDest:  n.Dest != "",
	})

	newEnv := make(map[string]value.Value, len(paramNames))
	for i, name := range paramNames {
		newEnv[name] = args[i]
	}

	v.env = newEnv
	v.currentFunc = n.Callee
	v.ip = entry + 1
	return true, nil, false, nil
}

func (v *VM) doReturn(n ir.Return) (jumped bool, ret value.Value, done bool, err error) {
	var rv value.Value
	hasValue := n.Value != ""
	if hasValue {
		rv, err = v.decode(n.Value)
		if err != nil {
			return false, nil, false, err
		}
	}

	if len(v.frames) == 0 {
		return false, rv, true, nil
	}

	frame := v.frames[len(v.frames)-1]
	v.frames = v.frames[:len(v.frames)-1]

	if frame.HasDest && hasValue {
		frame.Env[frame.RetDest] = rv
	}

	v.env = frame.Env
	v.currentFunc = frame.FuncName
	v.ip = frame.ReturnIP
	return true, nil, false, nil
}

func (v *VM) readLine() (value.Value, error) {
	if v.in == nil {
		return nil, diag.New(diag.VM, "no input source configured for read")
	}
	raw, err := v.in.ReadString('\n')
	if err != nil && raw == "" {
		return nil, diag.New(diag.VM, "unexpected end of input")
	}
	raw = strings.TrimSpace(raw)

	if strings.ContainsAny(raw, ".eE") {
		if f, ok := value.DecodeLiteral(raw); ok {
			if _, isFloat := f.(float64); isFloat {
				return f, nil
			}
		}
	}
	if n, ok := value.DecodeLiteral(raw); ok {
		return n, nil
	}
	return raw, nil
}

func isZero(v value.Value) bool {
	switch n := v.(type) {
	case int64:
		return n == 0
	case float64:
		return n == 0
	case string:
		return n == ""
	default:
		return false
	}
}
