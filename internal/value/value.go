// Package value implements the runtime value domain and operand-decoding
// rules shared by the optimizer's constant folder and the VM's
// interpreter loop (spec §4.5). Keeping this logic in one place is what
// lets Testable Property 6 ("folding agrees with the VM") hold by
// construction rather than by coincidence: both the optimizer and the VM
// call exactly the same EvalBinary/EvalUnary/DecodeLiteral functions.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is the VM's runtime value domain of spec §4.5: a signed integer, a
// double-precision float, or a string. Booleans are represented as the
// integers 0 and 1.
type Value any

// DecodeLiteral decodes operand as a literal of the uniform operand
// language of spec §3, WITHOUT consulting any environment. ok is false
// when operand does not match any literal form (the caller should then
// treat it as a variable/temporary name).
func DecodeLiteral(operand string) (v Value, ok bool) {
	if len(operand) >= 2 && strings.HasPrefix(operand, `"`) && strings.HasSuffix(operand, `"`) {
		return operand[1 : len(operand)-1], true
	}
	if operand == "0" {
		return int64(0), true
	}
	if operand == "1" {
		return int64(1), true
	}
	if isDecimalInt(operand) {
		n, err := strconv.ParseInt(operand, 10, 64)
		if err == nil {
			return n, true
		}
	}
	if looksLikeFloat(operand) {
		f, err := strconv.ParseFloat(operand, 64)
		if err == nil {
			return f, true
		}
	}
	return nil, false
}

// IsLiteral reports whether operand is a literal operand (as opposed to a
// variable or temporary name).
func IsLiteral(operand string) bool {
	_, ok := DecodeLiteral(operand)
	return ok
}

func isDecimalInt(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '+' || s[0] == '-' {
		i = 1
	}
	if i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func looksLikeFloat(s string) bool {
	if !strings.ContainsAny(s, ".eE") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Encode renders a runtime Value back into an operand string, the inverse
// of DecodeLiteral.
func Encode(v Value) string {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case string:
		return `"` + n + `"`
	default:
		panic(fmt.Sprintf("value: cannot encode %T", v))
	}
}

// DisplayString renders v the way Print and string concatenation do: no
// surrounding quotes, decimal form for numbers.
func DisplayString(v Value) string {
	switch n := v.(type) {
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case string:
		return n
	default:
		return fmt.Sprintf("%v", n)
	}
}

func isString(v Value) bool {
	_, ok := v.(string)
	return ok
}

func asFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func narrow(f float64) Value {
	if f == float64(int64(f)) {
		return int64(f)
	}
	return f
}

func boolValue(b bool) Value {
	if b {
		return int64(1)
	}
	return int64(0)
}

func truthy(v Value) bool {
	switch n := v.(type) {
	case int64:
		return n != 0
	case float64:
		return n != 0
	case string:
		return n != ""
	default:
		return false
	}
}

// EvalBinary computes a BinaryOp instruction's result per spec §4.5's
// semantics, shared verbatim by the optimizer's folder and the VM.
func EvalBinary(op string, a, b Value) (Value, error) {
	if op == "+" && (isString(a) || isString(b)) {
		return DisplayString(a) + DisplayString(b), nil
	}

	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return nil, fmt.Errorf("operator %q requires numeric operands (or a string operand for '+')", op)
	}

	switch op {
	case "+":
		return narrow(af + bf), nil
	case "-":
		return narrow(af - bf), nil
	case "*":
		return narrow(af * bf), nil
	case "/":
		if bf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return narrow(af / bf), nil
	case "%":
		ai, aIsInt := a.(int64)
		bi, bIsInt := b.(int64)
		if !aIsInt || !bIsInt {
			return nil, fmt.Errorf("'%%' is only defined for int operands")
		}
		if bi == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return ai % bi, nil
	case "<":
		return boolValue(af < bf), nil
	case "<=":
		return boolValue(af <= bf), nil
	case ">":
		return boolValue(af > bf), nil
	case ">=":
		return boolValue(af >= bf), nil
	case "==":
		return boolValue(af == bf), nil
	case "!=":
		return boolValue(af != bf), nil
	case "&&":
		// Both operands are always evaluated by the caller before this
		// point; no short-circuiting happens here either (spec §9 Open
		// Question, preserved intentionally).
		return boolValue(truthy(a) && truthy(b)), nil
	case "||":
		return boolValue(truthy(a) || truthy(b)), nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %q", op)
	}
}

// EvalUnary computes a UnaryOp instruction's result per spec §4.5.
func EvalUnary(op string, a Value) (Value, error) {
	switch op {
	case "-":
		f, ok := asFloat(a)
		if !ok {
			return nil, fmt.Errorf("unary '-' requires a numeric operand")
		}
		if n, isInt := a.(int64); isInt {
			return -n, nil
		}
		return -f, nil
	case "!":
		if truthy(a) {
			return int64(0), nil
		}
		return int64(1), nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %q", op)
	}
}
