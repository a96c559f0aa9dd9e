// Package tui is the interactive front end for the simulator: a command
// dispatcher shared by a plain CLI REPL and a tcell/tview text UI, both
// driving a harness.Harness (spec.md section 4.12's debugging surface).
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/sparc-edu-toolchain/harness"
)

// Debugger adapts a harness.Harness to line-oriented commands, grounded on
// the teacher's own command-dispatch shape (ExecuteCommand -> handleCommand
// -> cmdXxx), with the batched Run loop living in harness.Harness rather
// than being re-implemented here.
type Debugger struct {
	Harness *harness.Harness

	Symbols   map[string]uint32
	SourceMap map[uint32]string

	LastCommand string
	Output      strings.Builder
}

// NewDebugger wraps h for command dispatch.
func NewDebugger(h *harness.Harness) *Debugger {
	return &Debugger{Harness: h, Symbols: make(map[string]uint32), SourceMap: make(map[uint32]string)}
}

// LoadSymbols installs the assembler's symbol table for label resolution.
func (d *Debugger) LoadSymbols(symbols map[string]uint32) {
	d.Symbols = symbols
	d.Harness.Symbols = symbols
}

// LoadSourceMap installs an address-to-source-line map for the source pane.
func (d *Debugger) LoadSourceMap(sourceMap map[uint32]string) {
	d.SourceMap = sourceMap
}

// ResolveAddress resolves a symbol name, else parses addrStr as a number.
func (d *Debugger) ResolveAddress(addrStr string) (uint32, error) {
	if addr, ok := d.Symbols[addrStr]; ok {
		return addr, nil
	}
	lower := strings.ToLower(addrStr)
	if strings.HasPrefix(lower, "0x") {
		v, err := strconv.ParseUint(lower[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid address: %s", addrStr)
		}
		return uint32(v), nil
	}
	v, err := strconv.ParseUint(addrStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", addrStr)
	}
	return uint32(v), nil
}

// ExecuteCommand parses and runs one command line, remembering it for
// empty-input repeat (pressing enter on a blank line repeats the last command).
func (d *Debugger) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.LastCommand
	}
	if line != "" {
		d.Harness.History.Add(line)
		d.LastCommand = line
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	return d.dispatch(strings.ToLower(parts[0]), parts[1:])
}

func (d *Debugger) dispatch(cmd string, args []string) error {
	switch cmd {
	case "step", "s", "si":
		return d.cmdStep(args)
	case "continue", "c":
		return d.cmdContinue(args)
	case "run", "r":
		return d.cmdRun(args)
	case "break", "b":
		return d.cmdBreak(args, false)
	case "tbreak", "tb":
		return d.cmdBreak(args, true)
	case "delete", "d":
		return d.cmdDelete(args)
	case "watch", "w":
		return d.cmdWatch(args)
	case "print", "p":
		return d.cmdPrint(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "reset":
		return d.cmdReset(args)
	case "help", "h", "?":
		return d.cmdHelp(args)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

func (d *Debugger) printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

// GetOutput returns and clears the accumulated command output.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

func (d *Debugger) cmdStep(args []string) error {
	if err := d.Harness.Step(); err != nil {
		return err
	}
	d.printf("pc=%#08x\n", d.Harness.VM.CPU.PC)
	return nil
}

func (d *Debugger) cmdContinue(args []string) error {
	return d.runAndReport()
}

func (d *Debugger) cmdRun(args []string) error {
	d.Harness.VM.CPU.Reset()
	d.Harness.VM.Halted = false
	return d.runAndReport()
}

func (d *Debugger) runAndReport() error {
	result := d.Harness.Run(nil)
	switch result.Reason {
	case harness.StopHalt:
		d.printf("program halted at pc=%#08x\n", d.Harness.VM.CPU.PC)
	case harness.StopBreakpoint:
		d.printf("stopped: %s at pc=%#08x\n", result.Detail, d.Harness.VM.CPU.PC)
	case harness.StopWatchpoint:
		d.printf("stopped: %s at pc=%#08x\n", result.Detail, d.Harness.VM.CPU.PC)
	case harness.StopFault:
		return result.Err
	case harness.StopBudget:
		d.printf("instruction limit reached at pc=%#08x\n", d.Harness.VM.CPU.PC)
	}
	return nil
}

func (d *Debugger) cmdBreak(args []string, temporary bool) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <address|label> [condition...]")
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	condition := strings.Join(args[1:], " ")
	bp := d.Harness.Breakpoints.Add(addr, temporary, condition)
	d.printf("breakpoint %d at %#08x\n", bp.ID, bp.Address)
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Harness.Breakpoints.Clear()
		d.Harness.Watchpoints.Clear()
		d.printf("all breakpoints and watchpoints deleted\n")
		return nil
	}
	addr, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	if err := d.Harness.Breakpoints.Remove(addr); err != nil {
		return err
	}
	d.printf("breakpoint at %#08x deleted\n", addr)
	return nil
}

func (d *Debugger) cmdWatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: watch <register|[address]>")
	}
	expr := args[0]

	if strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]") {
		addrStr := expr[1 : len(expr)-1]
		addr, err := d.ResolveAddress(addrStr)
		if err != nil {
			return err
		}
		wp, err := d.Harness.Watchpoints.AddMemory(expr, addr, d.Harness.VM)
		if err != nil {
			return err
		}
		d.printf("watchpoint %d on %s\n", wp.ID, expr)
		return nil
	}

	reg, err := registerNumber(expr)
	if err != nil {
		return err
	}
	wp := d.Harness.Watchpoints.AddRegister(expr, reg, d.Harness.VM)
	d.printf("watchpoint %d on %s\n", wp.ID, expr)
	return nil
}

func registerNumber(expr string) (int, error) {
	lower := strings.ToLower(strings.TrimPrefix(expr, "%"))
	if !strings.HasPrefix(lower, "r") {
		return 0, fmt.Errorf("not a register: %s", expr)
	}
	n, err := strconv.Atoi(lower[1:])
	if err != nil || n < 0 || n > 31 {
		return 0, fmt.Errorf("not a register: %s", expr)
	}
	return n, nil
}

func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print <expression>")
	}
	expr := strings.Join(args, " ")
	v, err := d.Harness.Evaluator.EvaluateExpression(expr, d.Harness.VM, d.Symbols)
	if err != nil {
		return err
	}
	d.printf("%s = %#08x (%d)\n", expr, v, int32(v))
	return nil
}

func (d *Debugger) cmdInfo(args []string) error {
	cpu := d.Harness.VM.CPU
	d.printf("pc=%#08x ccr=%04b tbr=%#08x traps=%v\n", cpu.PC, cpu.CCR.ToWord(), cpu.TBR, cpu.TrapsOn)
	for i := 0; i < 32; i += 4 {
		d.printf("r%-2d=%#08x r%-2d=%#08x r%-2d=%#08x r%-2d=%#08x\n",
			i, cpu.GetRegister(i), i+1, cpu.GetRegister(i+1), i+2, cpu.GetRegister(i+2), i+3, cpu.GetRegister(i+3))
	}
	d.printf("breakpoints: %d  watchpoints: %d\n", d.Harness.Breakpoints.Count(), d.Harness.Watchpoints.Count())
	return nil
}

func (d *Debugger) cmdReset(args []string) error {
	d.Harness.VM.CPU.Reset()
	d.Harness.VM.Halted = false
	d.printf("reset\n")
	return nil
}

func (d *Debugger) cmdHelp(args []string) error {
	d.printf(`commands:
  step, s            execute one instruction
  continue, c         resume until halt/breakpoint/watchpoint
  run, r              restore power-on CPU state (pc=0) and run
  break, b ADDR [EXPR]   set a breakpoint, optionally conditional
  tbreak, tb ADDR     set a one-shot breakpoint
  delete, d [ADDR]    delete one breakpoint, or all breakpoints/watchpoints
  watch, w REG|[ADDR] watch a register or memory word for value changes
  print, p EXPR       evaluate an expression
  info, i             show registers and flags
  reset               restore power-on CPU state
  help, h             this message
`)
	return nil
}
