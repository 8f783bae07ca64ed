// Command tacssa runs the TAC-to-SSA analysis pipeline over a textual
// three-address program: parsing, block/function partitioning, SSA
// construction, optional constant propagation and loop-invariant code
// motion, and SSA-to-3Addr recovery, printing the result of any
// requested stage.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"tacssa/analysis/cfg"
	"tacssa/analysis/constprop"
	"tacssa/analysis/dom"
	"tacssa/analysis/domfrontier"
	"tacssa/analysis/licm"
	"tacssa/analysis/phi"
	"tacssa/analysis/recover"
	"tacssa/internal/progress"
	"tacssa/ir"
	"tacssa/ir/block"
	"tacssa/ir/function"
	"tacssa/ir/parse"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	target := flag.String("t", "ssa", "Output stage: raw, functions, ssa, recovered, flatten")
	flag.StringVar(target, "target", "ssa", "Output stage: raw, functions, ssa, recovered, flatten")
	opt := flag.String("o", "none", "Optimization: none, const_prop, loop_inv, all")
	flag.StringVar(opt, "opt", "none", "Optimization: none, const_prop, loop_inv, all")
	verbose := flag.Bool("verbose", false, "Print per-stage progress to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tacssa [flags] <input>\n\n")
		fmt.Fprintf(os.Stderr, "Runs the TAC-to-SSA analysis pipeline over a textual three-address program.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected 1 argument, got %d", flag.NArg())
	}

	switch *target {
	case "raw", "functions", "ssa", "recovered", "flatten":
	default:
		return fmt.Errorf("unknown target %q", *target)
	}
	switch *opt {
	case "none", "const_prop", "loop_inv", "all":
	default:
		return fmt.Errorf("unknown opt %q", *opt)
	}

	prog := progress.New(*verbose)

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		return fmt.Errorf("reading %s: %w", flag.Arg(0), err)
	}

	prog.Phase("parse")
	prog.Verbose("reading %s", flag.Arg(0))
	stmts, err := parse.Program(string(raw))
	if err != nil {
		return err
	}
	if *target == "raw" {
		fmt.Println(formatRaw(stmts))
		return nil
	}

	prog.Phase("partition")
	prog.Verbose("%d statements", len(stmts))
	blocks, err := block.Partition(stmts)
	if err != nil {
		return err
	}

	prog.Phase("group")
	prog.Verbose("%d blocks", len(blocks))
	fns, err := function.Group(blocks)
	if err != nil {
		return err
	}
	if *target == "functions" {
		fmt.Println(fns.String())
		return nil
	}

	paramNames := make([][]string, len(fns.Funcs))
	for i, f := range fns.Funcs {
		paramNames[i] = function.ScanParameters(f)
	}

	prog.Phase("ssa-build")
	prog.Verbose("%d functions", len(fns.Funcs))
	ssaFns := ir.ToSSAFunctions(fns)
	for i, f := range ssaFns.Funcs {
		c := cfg.Build(f.EntryBlock, f.Blocks)
		dt := dom.Compute(c)
		df := domfrontier.Compute(c, dt)
		cells := phi.Infer(f, df)
		f = phi.Realize(f, cells)
		f = phi.Rename(f, c, dt, cells, paramNames[i])
		ssaFns.Funcs[i] = f
	}
	if *target == "ssa" && *opt == "none" {
		fmt.Println(ssaFns.String())
		return nil
	}

	if *opt == "const_prop" || *opt == "all" {
		prog.Phase("const-prop")
		reports := constprop.Run(ssaFns)
		for i, r := range reports {
			prog.Verbose("function %d: %d rewrites", i, r.Count)
		}
	}
	if *opt == "loop_inv" || *opt == "all" {
		prog.Phase("licm")
		newFns, reports := licm.Run(ssaFns)
		ssaFns = newFns
		for i, r := range reports {
			prog.Verbose("function %d: %d instructions hoisted", i, r.Count())
		}
	}
	if *target == "ssa" {
		fmt.Println(ssaFns.String())
		return nil
	}

	prog.Phase("recover")
	recovered := recover.Run(ssaFns, paramNames)
	if *target == "recovered" {
		fmt.Println(recovered.String())
		return nil
	}

	fmt.Println(formatFlatten(recovered))
	return nil
}

// formatRaw prints the parsed statement stream as "<index>: <instr>"
// lines sorted by global index, mirroring the input grammar.
func formatRaw(stmts []parse.Stmt) string {
	sorted := append([]parse.Stmt(nil), stmts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })
	var sb strings.Builder
	for _, s := range sorted {
		fmt.Fprintf(&sb, "%d: %s\n", s.Index, s.Instr.String())
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatFlatten re-emits the recovered program as a single flat
// "<index>: <instr>" stream with block and function structure
// discarded, in ascending global-index order, matching the textual
// input format the program started from.
func formatFlatten(fns *ir.PreSSAFunctions) string {
	var sb strings.Builder
	for _, f := range fns.Funcs {
		for _, b := range f.Blocks {
			for i, in := range b.Instrs {
				fmt.Fprintf(&sb, "%d: %s\n", b.FirstIndex+i, in.String())
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
