package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/lookbusy1344/sparc-edu-toolchain/config"
	"github.com/lookbusy1344/sparc-edu-toolchain/encoder"
	"github.com/lookbusy1344/sparc-edu-toolchain/harness"
	"github.com/lookbusy1344/sparc-edu-toolchain/loader"
	"github.com/lookbusy1344/sparc-edu-toolchain/tui"
	"github.com/lookbusy1344/sparc-edu-toolchain/vm"
)

// Version information, set at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		showHelp    = flag.Bool("help", false, "show help information")
		debugMode   = flag.Bool("debug", false, "start in the command-line debugger")
		tuiMode     = flag.Bool("tui", false, "start in the text-mode debugger")
		listOnly    = flag.Bool("listing", false, "assemble and print the machine-code listing, then exit")
		dumpSymbols = flag.Bool("dump-symbols", false, "print the resolved symbol table, then exit")
		maxCycles   = flag.Uint64("max-cycles", 0, "maximum instructions before a forced stop (0: use config default)")
		configPath  = flag.String("config", "", "config.toml path (default: "+"platform config directory)")
		verbose     = flag.Bool("verbose", false, "print assembler warnings and a run summary")
		statsMode   = flag.Bool("stats", false, "collect execution statistics and print them after the run")
		statsFile   = flag.String("stats-file", "", "write execution statistics as JSON to this path instead of stderr (implies -stats)")
		loadListing = flag.Bool("load-listing", false, "treat the input as a machine-code listing (see -listing) instead of assembly source, and load it directly")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("sparcasm %s (commit %s, built %s)\n", Version, Commit, Date)
		os.Exit(0)
	}
	if *showHelp || flag.NArg() != 1 {
		printHelp()
		if *showHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	machine := vm.NewVM(vm.NewMemory(func(b byte) { fmt.Print(string(b)) }))
	var symbols map[string]uint32

	if *loadListing {
		if *dumpSymbols {
			fmt.Fprintln(os.Stderr, "-dump-symbols has no effect with -load-listing: a listing carries no symbol table")
			os.Exit(1)
		}
		listingPath := flag.Arg(0)
		text, err := os.ReadFile(listingPath) // #nosec G304 -- user-specified listing path
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading %s: %v\n", listingPath, err)
			os.Exit(1)
		}
		listing, err := loader.Parse(string(text))
		if err != nil {
			fmt.Fprintf(os.Stderr, "listing parse failed: %v\n", err)
			os.Exit(1)
		}
		if *listOnly {
			fmt.Print(listing.Encode())
			os.Exit(0)
		}
		if err := loader.LoadIntoVM(machine, listing); err != nil {
			fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
			os.Exit(1)
		}
		symbols = map[string]uint32{}
	} else {
		sourcePath := flag.Arg(0)
		source, err := os.ReadFile(sourcePath) // #nosec G304 -- user-specified assembly source path
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading %s: %v\n", sourcePath, err)
			os.Exit(1)
		}

		result, err := encoder.Assemble(string(source), sourcePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "assembly failed: %v\n", err)
			os.Exit(1)
		}
		if *verbose {
			for _, w := range result.Warnings.Warnings {
				fmt.Fprintln(os.Stderr, w.String())
			}
		}

		if *dumpSymbols {
			dumpSymbolTable(result)
			os.Exit(0)
		}

		if *listOnly {
			fmt.Print(loader.FromAssembleResult(result).Encode())
			os.Exit(0)
		}

		if err := loader.LoadIntoVM(machine, loader.FromAssembleResult(result)); err != nil {
			fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
			os.Exit(1)
		}

		symbols = symbolAddresses(result)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	limit := cfg.Execution.MaxCycles
	if *maxCycles != 0 {
		limit = *maxCycles
	}

	h := harness.New(machine)
	h.Symbols = symbols
	h.InstructionLimit = limit

	var stats *vm.Statistics
	if *statsMode || *statsFile != "" || cfg.Execution.EnableStats {
		stats = vm.NewStatistics()
		machine.SetStatistics(stats)
	}

	if *debugMode || *tuiMode {
		d := tui.NewDebugger(h)
		d.LoadSymbols(symbols)

		if *tuiMode {
			if err := tui.RunTUI(d); err != nil {
				fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		fmt.Println("sparc-edu-toolchain debugger - type 'help' for commands")
		if err := tui.RunCLI(d); err != nil {
			fmt.Fprintf(os.Stderr, "debugger error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	result2 := h.Run(nil)
	if *verbose {
		fmt.Fprintf(os.Stderr, "stopped: %v (%s), %d instructions, pc=%#08x\n",
			result2.Reason, result2.Detail, result2.Instruction, machine.CPU.PC)
	}

	if stats != nil {
		if err := reportStats(stats, *statsFile); err != nil {
			fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			os.Exit(1)
		}
	}

	if result2.Err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", result2.Err)
		os.Exit(1)
	}
}

// reportStats writes stats as JSON to path, or as a short human-readable
// report to stderr when path is empty.
func reportStats(stats *vm.Statistics, path string) error {
	if path == "" {
		fmt.Fprint(os.Stderr, stats.String())
		return nil
	}
	f, err := os.Create(path) // #nosec G304 -- user-specified output path
	if err != nil {
		return err
	}
	defer f.Close()
	return stats.ExportJSON(f)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func symbolAddresses(result *encoder.AssembleResult) map[string]uint32 {
	out := make(map[string]uint32)
	for _, sym := range result.Symbols.InOrder() {
		out[sym.Name] = uint32(sym.Value)
	}
	return out
}

func dumpSymbolTable(result *encoder.AssembleResult) {
	symbols := result.Symbols.InOrder()
	sort.Slice(symbols, func(i, j int) bool { return symbols[i].Name < symbols[j].Name })
	for _, sym := range symbols {
		fmt.Printf("%-32s %#08x\n", sym.Name, sym.Value)
	}
}

func printHelp() {
	fmt.Printf(`sparcasm %s - two-pass assembler and simulator for the educational SPARC-derived ISA

Usage: sparcasm [options] <source.s>

Options:
  -help            show this help message
  -version         show version information
  -listing         assemble and print the machine-code listing, then exit
  -dump-symbols    print the resolved symbol table, then exit
  -debug           start in the command-line debugger
  -tui             start in the text-mode debugger
  -max-cycles N    maximum instructions before a forced stop (default: config)
  -config PATH     config.toml path (default: platform config directory)
  -verbose         print assembler warnings and a run summary
  -stats           collect execution statistics and print them after the run
  -stats-file PATH write execution statistics as JSON (implies -stats)
  -load-listing    treat <source.s> as a machine-code listing (as produced by
                   -listing) instead of assembly source, and load it directly

Examples:
  sparcasm program.s
  sparcasm -listing program.s > program.lst
  sparcasm -load-listing program.lst
  sparcasm -tui program.s
  sparcasm -stats-file run.json program.s
`, Version)
}
