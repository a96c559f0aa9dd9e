package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/sparc-edu-toolchain/decoder"
)

// TUI is the tcell/tview front end, grounded on the teacher's own
// debugger/tui.go Flex layout (source+disassembly on the left, registers+
// memory+console on the right, breakpoints below, output and a command
// line at the bottom). The teacher's Stack pane has no equivalent here —
// this ISA has no dedicated stack pointer register or stack segment — so
// it is replaced with a Console pane showing bytes emitted through
// CONSOLE_DATA.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application
	Pages    *tview.Pages

	MainLayout *tview.Flex

	SourceView      *tview.TextView
	RegisterView    *tview.TextView
	MemoryView      *tview.TextView
	ConsoleView     *tview.TextView
	DisassemblyView *tview.TextView
	BreakpointsView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField

	MemoryAddress uint32
	consoleLog    strings.Builder
}

// NewTUI builds the interface around d, wiring its own console listener so
// bytes the running program writes to CONSOLE_DATA appear in ConsoleView.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{Debugger: d, App: tview.NewApplication()}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	t.Debugger.Harness.VM.Memory.SetConsoleSink(t.onConsoleWrite)
	return t
}

func (t *TUI) onConsoleWrite(b byte) {
	t.consoleLog.WriteByte(b)
}

func (t *TUI) initializeViews() {
	t.SourceView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.SourceView.SetBorder(true).SetTitle(" Source ")

	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.ConsoleView = tview.NewTextView().SetScrollable(true).SetWrap(true)
	t.ConsoleView.SetBorder(true).SetTitle(" Console ")

	t.DisassemblyView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.DisassemblyView.SetBorder(true).SetTitle(" Disassembly ")

	t.BreakpointsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(false)
	t.BreakpointsView.SetBorder(true).SetTitle(" Breakpoints/Watchpoints ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.SourceView, 0, 3, false).
		AddItem(t.DisassemblyView, 0, 2, false)

	rightTop := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 10, 0, false).
		AddItem(t.MemoryView, 0, 1, false).
		AddItem(t.ConsoleView, 0, 1, false)

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(rightTop, 0, 3, false).
		AddItem(t.BreakpointsView, 8, 0, false)

	content := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(left, 0, 2, false).
		AddItem(right, 0, 1, false)

	t.MainLayout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(content, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.Pages = tview.NewPages().AddPage("main", t.MainLayout, true, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			t.executeCommand("help")
			return nil
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF9:
			t.executeCommand("break")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd != "" {
		t.executeCommand(cmd)
		t.CommandInput.SetText("")
	}
}

func (t *TUI) executeCommand(cmd string) {
	t.Debugger.Output.Reset()
	err := t.Debugger.ExecuteCommand(cmd)
	output := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}
	if output != "" {
		t.WriteOutput(output)
	}
	t.RefreshAll()
}

// WriteOutput appends text to the output pane and scrolls to the bottom.
func (t *TUI) WriteOutput(text string) {
	fmt.Fprint(t.OutputView, text)
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every pane from current machine state.
func (t *TUI) RefreshAll() {
	t.updateSourceView()
	t.updateRegisterView()
	t.updateMemoryView()
	t.updateConsoleView()
	t.updateDisassemblyView()
	t.updateBreakpointsView()
	t.App.Draw()
}

func (t *TUI) updateSourceView() {
	t.SourceView.Clear()
	if len(t.Debugger.SourceMap) == 0 {
		fmt.Fprint(t.SourceView, "[yellow]no source map loaded[white]")
		return
	}

	pc := t.Debugger.Harness.VM.CPU.PC
	var startAddr uint32
	if pc > 20 {
		startAddr = pc - 20
	}

	var lines []string
	for addr := startAddr; addr < pc+40; addr += 4 {
		src, ok := t.Debugger.SourceMap[addr]
		if !ok {
			continue
		}
		marker, color := "  ", "white"
		if addr == pc {
			marker, color = "->", "yellow"
		}
		if t.Debugger.Harness.Breakpoints.Get(addr) != nil {
			marker = "* "
		}
		lines = append(lines, fmt.Sprintf("[%s]%s %#08x: %s[white]", color, marker, addr, src))
	}
	fmt.Fprint(t.SourceView, strings.Join(lines, "\n"))
}

func (t *TUI) updateRegisterView() {
	t.RegisterView.Clear()
	cpu := t.Debugger.Harness.VM.CPU
	var b strings.Builder
	for i := 0; i < 32; i += 4 {
		fmt.Fprintf(&b, "r%-2d=%08x r%-2d=%08x r%-2d=%08x r%-2d=%08x\n",
			i, cpu.GetRegister(i), i+1, cpu.GetRegister(i+1), i+2, cpu.GetRegister(i+2), i+3, cpu.GetRegister(i+3))
	}
	fmt.Fprintf(&b, "pc=%08x  ccr=n:%v z:%v v:%v c:%v  tbr=%08x  traps=%v",
		cpu.PC, cpu.CCR.N, cpu.CCR.Z, cpu.CCR.V, cpu.CCR.C, cpu.TBR, cpu.TrapsOn)
	fmt.Fprint(t.RegisterView, b.String())
}

func (t *TUI) updateMemoryView() {
	t.MemoryView.Clear()
	mem := t.Debugger.Harness.VM.Memory
	var b strings.Builder
	for row := 0; row < 8; row++ {
		addr := t.MemoryAddress + uint32(row*16)
		fmt.Fprintf(&b, "%08x: ", addr)
		for col := 0; col < 16; col += 4 {
			v, err := mem.Read(addr+uint32(col), 4)
			if err != nil {
				fmt.Fprint(&b, "???????? ")
				continue
			}
			fmt.Fprintf(&b, "%08x ", v)
		}
		b.WriteByte('\n')
	}
	fmt.Fprint(t.MemoryView, b.String())
}

func (t *TUI) updateConsoleView() {
	t.ConsoleView.Clear()
	fmt.Fprint(t.ConsoleView, t.consoleLog.String())
	t.ConsoleView.ScrollToEnd()
}

func (t *TUI) updateDisassemblyView() {
	t.DisassemblyView.Clear()
	mem := t.Debugger.Harness.VM.Memory
	pc := t.Debugger.Harness.VM.CPU.PC

	var lines []string
	for i := -4; i <= 8; i++ {
		addr := int64(pc) + int64(i)*4
		if addr < 0 {
			continue
		}
		word, err := mem.Read(uint32(addr), 4)
		if err != nil {
			continue
		}
		marker := "  "
		if uint32(addr) == pc {
			marker = "->"
		}
		lines = append(lines, fmt.Sprintf("%s %#08x: %s", marker, addr, decoder.Disassemble(addr, word)))
	}
	fmt.Fprint(t.DisassemblyView, strings.Join(lines, "\n"))
}

func (t *TUI) updateBreakpointsView() {
	t.BreakpointsView.Clear()
	var b strings.Builder
	for _, bp := range t.Debugger.Harness.Breakpoints.All() {
		fmt.Fprintf(&b, "#%d %#08x enabled=%v hits=%d %s\n", bp.ID, bp.Address, bp.Enabled, bp.HitCount, bp.Condition)
	}
	for _, wp := range t.Debugger.Harness.Watchpoints.All() {
		fmt.Fprintf(&b, "w%d %s hits=%d\n", wp.ID, wp.Expression, wp.HitCount)
	}
	fmt.Fprint(t.BreakpointsView, b.String())
}

// Run starts the tview application event loop.
func (t *TUI) Run() error {
	t.RefreshAll()
	t.WriteOutput("[green]sparc-edu-toolchain debugger[white]\n")
	t.WriteOutput("F1 help, F5 continue, F9 break, F11 step\n\n")
	return t.App.SetRoot(t.Pages, true).SetFocus(t.CommandInput).Run()
}

// Stop halts the tview application event loop.
func (t *TUI) Stop() {
	t.App.Stop()
}

// RunTUI is the entry point main.go calls for "-tui" mode.
func RunTUI(d *Debugger) error {
	return NewTUI(d).Run()
}
