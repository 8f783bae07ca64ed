// Package licm hoists loop-invariant instructions into a freshly
// inserted loop pre-header.
package licm

import (
	"sort"

	"tacssa/analysis/cfg"
	"tacssa/analysis/loop"
	"tacssa/ir"
	"tacssa/ir/pan"
)

// Hoisted records one instruction moved into a pre-header, alongside
// its original global instruction index (for the report).
type Hoisted struct {
	Instr         ir.SSAInstr
	OriginalIndex int
}

// Report summarizes one function's loop-invariant code motion pass.
type Report struct {
	FirstIndex int
	Hoisted    []Hoisted
}

// Count reports how many instructions were hoisted.
func (r Report) Count() int { return len(r.Hoisted) }

// Run hoists loop-invariant instructions in every function, returning
// the transformed program and one report per function.
func Run(fs *ir.SSAFunctions) (*ir.SSAFunctions, []Report) {
	out := &ir.SSAFunctions{EntryFunction: fs.EntryFunction, Funcs: make([]*ir.SSAFunction, len(fs.Funcs))}
	reports := make([]Report, len(fs.Funcs))
	for i, f := range fs.Funcs {
		out.Funcs[i], reports[i] = RunFunc(f)
	}
	return out, reports
}

// RunFunc implements §4.8: insert a pre-header before every loop root,
// then fixpoint-hoist the first invariant instruction found in any
// loop, in turn, re-panning after each hoist so indices stay
// contiguous, until a full pass finds nothing left to hoist.
func RunFunc(f *ir.SSAFunction) (*ir.SSAFunction, Report) {
	base := 0
	if len(f.Blocks) > 0 {
		base = f.Blocks[0].FirstIndex
	}

	c := cfg.Build(f.EntryBlock, f.Blocks)
	loops := loop.Detect(c)
	if len(loops) == 0 {
		return f, Report{FirstIndex: base}
	}

	roots := distinctSortedRoots(loops)
	cur := f
	offset := 0
	for _, r := range roots {
		cur = pan.InsertBlock(cur, r+offset)
		offset++
	}
	cur, _ = pan.Function(cur, base)

	c = cfg.Build(cur.EntryBlock, cur.Blocks)
	loops = loop.SortByRoot(loop.Detect(c))

	report := Report{FirstIndex: base}
	for pass := 0; pass < len(loops)*len(cur.Blocks)+1; pass++ {
		hoistedThisPass := false
		for _, nl := range loops {
			defs := computeDefs(cur, nl)
			idx, found := findInvariant(cur, nl, defs)
			if !found {
				continue
			}
			origIdx := cur.Blocks[idx.block].FirstIndex + idx.instr
			in := cur.Blocks[idx.block].Instrs[idx.instr]
			cur.Blocks[idx.block].Instrs[idx.instr] = ir.Nop[ir.SSAOperand]()

			preheader := cur.Blocks[nl.Root-1]
			preheader.Instrs = append(preheader.Instrs, in)

			// Re-pan before redirecting consumers: until then the
			// pre-header's next free index is also the root's first
			// index, so a reference to one could not be told apart from
			// a reference to the other.
			cur, _ = pan.Function(cur, base)
			preheader = cur.Blocks[nl.Root-1]
			origin := ir.Plain(ir.RegisterOperand(cur.Blocks[idx.block].FirstIndex + idx.instr))
			target := ir.Plain(ir.RegisterOperand(preheader.FirstIndex + len(preheader.Instrs) - 1))
			substituteEverywhere(cur, origin, target)

			report.Hoisted = append(report.Hoisted, Hoisted{Instr: in, OriginalIndex: origIdx})
			hoistedThisPass = true
			break
		}
		if !hoistedThisPass {
			break
		}
	}

	return cur, report
}

func distinctSortedRoots(loops []loop.NaturalLoop) []int {
	seen := make(map[int]bool)
	var out []int
	for _, l := range loops {
		if !seen[l.Root] {
			seen[l.Root] = true
			out = append(out, l.Root)
		}
	}
	sort.Ints(out)
	return out
}

// computeDefs collects every SSA name "produced inside" the loop: each
// instruction's own register (any later consumer referencing
// Register(idx) depends on whether idx lies inside the loop), plus the
// explicit destination of Move/Phi instructions.
func computeDefs(f *ir.SSAFunction, nl loop.NaturalLoop) map[ir.SSAOperand]bool {
	defs := make(map[ir.SSAOperand]bool)
	for _, bi := range nl.Nodes.Slice() {
		b := f.Blocks[bi]
		for ii, in := range b.Instrs {
			idx := b.FirstIndex + ii
			defs[ir.Plain(ir.RegisterOperand(idx))] = true
			if d, ok := in.DefVar(); ok {
				defs[d] = true
			}
		}
	}
	return defs
}

type instrLoc struct {
	block, instr int
}

// findInvariant scans the loop's blocks in ascending block-then-
// instruction order for the first Binary/Unary/Load/Store/Move
// instruction whose referenced (used) operands are all outside defs.
// Branches, I/O, Calls, Phis, Markers, and Nops are never hoisted.
func findInvariant(f *ir.SSAFunction, nl loop.NaturalLoop, defs map[ir.SSAOperand]bool) (instrLoc, bool) {
	for _, bi := range nl.Nodes.Slice() {
		b := f.Blocks[bi]
		for ii, in := range b.Instrs {
			switch in.Kind {
			case ir.OpBinary, ir.OpUnary, ir.OpLoad, ir.OpStore, ir.OpMove:
			default:
				continue
			}
			invariant := true
			for _, u := range in.Uses() {
				if defs[u] {
					invariant = false
					break
				}
			}
			if invariant {
				return instrLoc{block: bi, instr: ii}, true
			}
		}
	}
	return instrLoc{}, false
}

// substituteEverywhere replaces every occurrence of origin with target
// across every block of f (§4.8 step 2), so any later consumer of the
// hoisted instruction's result — including another block's Load address
// or Store operand — keeps pointing at the value once it moves to the
// pre-header.
func substituteEverywhere(f *ir.SSAFunction, origin, target ir.SSAOperand) {
	for _, b := range f.Blocks {
		for ii, in := range b.Instrs {
			b.Instrs[ii] = in.MapOperands(func(o ir.SSAOperand) ir.SSAOperand {
				if o == origin {
					return target
				}
				return o
			})
		}
	}
}
