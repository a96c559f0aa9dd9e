package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lookbusy1344/sparc-edu-toolchain/asm"
	"github.com/lookbusy1344/sparc-edu-toolchain/encoder"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sparcfmt",
		Short: "formatting and static-check companion for sparcasm source files",
	}

	var write bool
	fmtCmd := &cobra.Command{
		Use:   "fmt <source.s>",
		Short: "normalize mnemonic case, label colons, and comment alignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(args[0], write)
		},
	}
	fmtCmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file in place instead of printing to stdout")
	rootCmd.AddCommand(fmtCmd)

	var strict bool
	lintCmd := &cobra.Command{
		Use:   "lint <source.s>",
		Short: "assemble the file and report warnings (unresolved forward refs, unused labels, duplicate labels, dead code, backwards .org)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(args[0], strict)
		},
	}
	lintCmd.Flags().BoolVar(&strict, "strict", false, "exit nonzero if any warning is reported")
	rootCmd.AddCommand(lintCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runFmt rewrites each source line with formatLine: a label is padded to an
// 8-column field, other lines are tab-indented, the mnemonic is lower-cased,
// operand whitespace collapses to single spaces, and a trailing comment
// follows two spaces. It does not re-order or drop lines.
func runFmt(path string, write bool) error {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified source path
	if err != nil {
		return err
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lines[i] = formatLine(line)
	}
	formatted := strings.Join(lines, "\n")

	if !write {
		fmt.Print(formatted)
		return nil
	}
	return os.WriteFile(path, []byte(formatted), 0644) // #nosec G306 -- rewriting the user's own source file
}

// stripComment splits line into its code body and its "!"-introduced
// comment (including the "!" itself), both trimmed of surrounding blanks.
func stripComment(line string) (body, comment string) {
	trimmed := strings.TrimRight(line, " \t")
	if idx := strings.IndexByte(trimmed, '!'); idx >= 0 {
		return strings.TrimSpace(trimmed[:idx]), strings.TrimSpace(trimmed[idx:])
	}
	return strings.TrimSpace(trimmed), ""
}

// splitLabel pulls a leading "label:" off body, if present.
func splitLabel(body string) (label, rest string) {
	if idx := strings.Index(body, ":"); idx >= 0 {
		return body[:idx], strings.TrimSpace(body[idx+1:])
	}
	return "", body
}

func formatLine(line string) string {
	trimmed, comment := stripComment(line)

	if trimmed == "" {
		if comment == "" {
			return ""
		}
		return comment
	}

	label := ""
	body := trimmed
	if idx := strings.Index(trimmed, ":"); idx >= 0 {
		label = trimmed[:idx+1]
		body = strings.TrimSpace(trimmed[idx+1:])
	}

	fields := strings.Fields(body)
	for i, f := range fields {
		if i == 0 && !strings.HasPrefix(f, ".") {
			fields[i] = strings.ToLower(f)
		}
	}
	body = strings.Join(fields, " ")

	var b strings.Builder
	switch {
	case label != "" && body != "":
		fmt.Fprintf(&b, "%-8s%s", label, body)
	case label != "":
		b.WriteString(label)
	default:
		fmt.Fprintf(&b, "\t%s", body)
	}

	if comment != "" {
		if b.Len() > 0 {
			b.WriteString("  ")
		}
		b.WriteString(comment)
	}
	return b.String()
}

// runLint assembles path and reports every warning pass 1/pass 2 collected:
// undefined symbols resolved to zero, and anything else the assembler
// degrades rather than rejects outright.
func runLint(path string, strict bool) error {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified source path
	if err != nil {
		return err
	}

	result, err := encoder.Assemble(string(data), path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var findings []string
	for _, w := range result.Warnings.Warnings {
		findings = append(findings, w.String())
	}
	findings = append(findings, reportUnusedLabels(result)...)
	lines := strings.Split(string(data), "\n")
	findings = append(findings, checkDuplicateLabels(lines)...)
	findings = append(findings, checkUnreachableAfterHalt(lines)...)
	findings = append(findings, checkOrgMovesBackwards(lines)...)

	if len(findings) == 0 {
		fmt.Printf("%s: no warnings\n", path)
		return nil
	}
	for _, f := range findings {
		fmt.Println(f)
	}

	if strict {
		return fmt.Errorf("%d warning(s) reported", len(findings))
	}
	return nil
}

// reportUnusedLabels cross-checks the symbol table against the listing's
// addresses; a label whose address is not the address of any assembled word
// is flagged. This is a coarse approximation: it only knows which addresses
// hold words, not which instructions actually referenced each symbol by
// name, since pass 2 doesn't retain that linkage.
func reportUnusedLabels(result *encoder.AssembleResult) []string {
	reachable := make(map[uint32]bool, len(result.Words))
	for _, w := range result.Words {
		reachable[w.Address] = true
	}

	var names []string
	for _, sym := range result.Symbols.InOrder() {
		if sym.Kind != asm.SymbolLabel {
			continue
		}
		if !reachable[uint32(sym.Value)] {
			names = append(names, sym.Name)
		}
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		out = append(out, fmt.Sprintf("warning: label %q does not correspond to any assembled address", name))
	}
	return out
}

// checkDuplicateLabels flags any label defined more than once in the raw
// source, by line number. The assembler itself already rejects a label
// redefined inside .begin/.end as a hard error (asm.SymbolTable.Define), and
// runLint returns that error before this check runs, so within runLint it
// only reports repeats the assembler does not record, such as labels
// written outside .begin/.end.
func checkDuplicateLabels(lines []string) []string {
	firstSeen := make(map[string]int)
	var out []string
	for i, line := range lines {
		body, _ := stripComment(line)
		if body == "" {
			continue
		}
		label, _ := splitLabel(body)
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if prev, ok := firstSeen[label]; ok {
			out = append(out, fmt.Sprintf("warning: line %d: label %q redefines the one on line %d", i+1, label, prev+1))
			continue
		}
		firstSeen[label] = i
	}
	return out
}

// checkUnreachableAfterHalt flags instruction lines that follow a "halt"
// before the next label, since nothing in this ISA falls through past halt
// and no other line can branch into the middle of that span.
func checkUnreachableAfterHalt(lines []string) []string {
	var out []string
	afterHalt := false
	for i, line := range lines {
		body, _ := stripComment(line)
		if body == "" {
			continue
		}
		label, rest := splitLabel(body)
		if label != "" {
			afterHalt = false
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}
		if strings.HasPrefix(rest, ".") {
			// directives such as .end are not instructions
			continue
		}
		if afterHalt {
			out = append(out, fmt.Sprintf("warning: line %d: unreachable code after halt: %q", i+1, rest))
			continue
		}
		mnemonic := strings.ToLower(strings.Fields(rest)[0])
		if mnemonic == "halt" {
			afterHalt = true
		}
	}
	return out
}

// checkOrgMovesBackwards flags a ".org" directive whose target is a plain
// numeric literal lower than the current instruction-counted PC, which
// would make Pass 2 overwrite already-emitted words. Directives whose
// argument is a symbol or expression are left to the assembler itself,
// since resolving them here would mean re-implementing Pass 1's evaluator.
func checkOrgMovesBackwards(lines []string) []string {
	var out []string
	var pc int64
	for i, line := range lines {
		body, _ := stripComment(line)
		_, rest := splitLabel(body)
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}
		fields := strings.Fields(rest)
		if strings.EqualFold(fields[0], ".org") && len(fields) == 2 {
			if target, ok := parseLiteral(fields[1]); ok {
				if target < pc {
					out = append(out, fmt.Sprintf("warning: line %d: .org %s moves the program counter backwards (was %#x)", i+1, fields[1], pc))
				}
				pc = target
				continue
			}
		}
		if strings.HasPrefix(fields[0], ".") {
			continue
		}
		pc += 4
	}
	return out
}

func parseLiteral(s string) (int64, bool) {
	lower := strings.ToLower(s)
	base := 10
	switch {
	case strings.HasPrefix(lower, "0x"):
		lower = lower[2:]
		base = 16
	case strings.HasPrefix(lower, "0b"):
		lower = lower[2:]
		base = 2
	}
	v, err := strconv.ParseInt(lower, base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
