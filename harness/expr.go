package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/sparc-edu-toolchain/vm"
)

// ExpressionEvaluator evaluates breakpoint conditions and "print" arguments
// against a running VM: register names, [address] memory dereferences,
// symbols, and numeric literals combined with a small set of binary
// operators. It understands none of the assembler's own expression grammar
// (asm.Evaluator) since that one resolves only against a compile-time
// symbol table, never a live register file.
type ExpressionEvaluator struct {
	history []uint32
}

// NewExpressionEvaluator returns an evaluator with empty value history.
func NewExpressionEvaluator() *ExpressionEvaluator {
	return &ExpressionEvaluator{}
}

// EvaluateExpression evaluates expr and records the result in $N history.
func (e *ExpressionEvaluator) EvaluateExpression(expr string, machine *vm.VM, symbols map[string]uint32) (uint32, error) {
	v, err := e.evaluate(expr, machine, symbols)
	if err != nil {
		return 0, err
	}
	e.history = append(e.history, v)
	return v, nil
}

// Evaluate evaluates expr as a breakpoint/watchpoint condition: nonzero is
// true.
func (e *ExpressionEvaluator) Evaluate(expr string, machine *vm.VM, symbols map[string]uint32) (bool, error) {
	v, err := e.evaluate(expr, machine, symbols)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (e *ExpressionEvaluator) evaluate(expr string, machine *vm.VM, symbols map[string]uint32) (uint32, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, fmt.Errorf("empty expression")
	}

	if v, err := e.trySimple(expr, machine, symbols); err == nil {
		return v, nil
	}

	for _, op := range []string{"==", "!=", "<=", ">=", "<<", ">>", "<", ">", "&", "|", "^", "+", "-", "*", "/"} {
		for _, pattern := range []string{" " + op + " ", " " + op, op + " "} {
			idx := strings.Index(expr, pattern)
			if idx < 0 {
				continue
			}
			opPos := idx
			if pattern[0] == ' ' {
				opPos++
			}
			left := strings.TrimSpace(expr[:opPos])
			right := strings.TrimSpace(expr[opPos+len(op):])
			if left == "" || right == "" {
				continue
			}
			lv, err := e.evaluate(left, machine, symbols)
			if err != nil {
				continue
			}
			rv, err := e.evaluate(right, machine, symbols)
			if err != nil {
				continue
			}
			return applyOperator(lv, rv, op)
		}
	}

	return 0, fmt.Errorf("invalid expression: %s", expr)
}

func (e *ExpressionEvaluator) trySimple(expr string, machine *vm.VM, symbols map[string]uint32) (uint32, error) {
	expr = strings.TrimSpace(expr)

	if strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]") {
		addr, err := e.evaluate(strings.TrimSpace(expr[1:len(expr)-1]), machine, symbols)
		if err != nil {
			return 0, err
		}
		v, err := machine.Memory.Read(addr, 4)
		if err != nil {
			return 0, fmt.Errorf("read %#08x: %w", addr, err)
		}
		return v, nil
	}

	if strings.HasPrefix(expr, "$") {
		n, err := strconv.Atoi(expr[1:])
		if err != nil || n < 1 || n > len(e.history) {
			return 0, fmt.Errorf("value %s not in history", expr)
		}
		return e.history[n-1], nil
	}

	if v, err := evalRegisterOrFlag(expr, machine); err == nil {
		return v, nil
	}

	if addr, ok := symbols[expr]; ok {
		return addr, nil
	}

	return parseNumber(expr)
}

func evalRegisterOrFlag(expr string, machine *vm.VM) (uint32, error) {
	lower := strings.ToLower(expr)
	switch lower {
	case "pc":
		return machine.CPU.PC, nil
	case "ccr", "psr":
		return machine.CPU.CCR.ToWord(), nil
	case "tbr":
		return machine.CPU.TBR, nil
	}

	if strings.HasPrefix(lower, "r") || strings.HasPrefix(lower, "%r") {
		digits := strings.TrimPrefix(strings.TrimPrefix(lower, "%"), "r")
		n, err := strconv.Atoi(digits)
		if err == nil && n >= 0 && n <= 31 {
			return machine.CPU.GetRegister(n), nil
		}
	}

	return 0, fmt.Errorf("not a register: %s", expr)
}

func parseNumber(expr string) (uint32, error) {
	lower := strings.ToLower(expr)
	switch {
	case strings.HasPrefix(lower, "0x"):
		v, err := strconv.ParseUint(lower[2:], 16, 32)
		return uint32(v), err
	case strings.HasPrefix(lower, "0b"):
		v, err := strconv.ParseUint(lower[2:], 2, 32)
		return uint32(v), err
	case strings.HasPrefix(expr, "0") && len(expr) > 1:
		v, err := strconv.ParseUint(expr, 8, 32)
		return uint32(v), err
	default:
		v, err := strconv.ParseInt(expr, 10, 32)
		return uint32(v), err
	}
}

func boolWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

func applyOperator(left, right uint32, op string) (uint32, error) {
	switch op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return left / right, nil
	case "&":
		return left & right, nil
	case "|":
		return left | right, nil
	case "^":
		return left ^ right, nil
	case "<<":
		return left << right, nil
	case ">>":
		return left >> right, nil
	case "==":
		return boolWord(left == right), nil
	case "!=":
		return boolWord(left != right), nil
	case "<":
		return boolWord(int32(left) < int32(right)), nil
	case ">":
		return boolWord(int32(left) > int32(right)), nil
	case "<=":
		return boolWord(int32(left) <= int32(right)), nil
	case ">=":
		return boolWord(int32(left) >= int32(right)), nil
	default:
		return 0, fmt.Errorf("unknown operator: %s", op)
	}
}

// Reset clears value history ($1, $2, ...).
func (e *ExpressionEvaluator) Reset() {
	e.history = e.history[:0]
}
