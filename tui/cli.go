package tui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RunCLI runs a plain stdin/stdout debugger REPL. Unlike the teacher's
// interface.go, "continue"/"run" don't need a polling loop here: d.Harness.Run
// already executes the batched loop to its stopping point before
// ExecuteCommand returns.
func RunCLI(d *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(sparc-dbg) ")

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "q" || line == "exit" {
			fmt.Println("exiting debugger")
			break
		}

		if err := d.ExecuteCommand(line); err != nil {
			fmt.Printf("error: %v\n", err)
		}
		if output := d.GetOutput(); output != "" {
			fmt.Print(output)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}
	return nil
}
