// Package recover implements SSA-to-3Addr: phi removal by predecessor
// copy insertion, parameter/local frame rewriting, and global index
// renumbering.
package recover

import (
	"fmt"

	"tacssa/ir"
	"tacssa/ir/pan"
)

// pendingMove is a Move{source, dest} to be inserted into a specific
// block, produced by phi removal.
type pendingMove struct {
	block  int
	source ir.SSAOperand
	dest   ir.SSAOperand
}

// RemovePhi implements §4.11(a): every Phi instruction at the head of a
// block is replaced with Nop, and for each of its (var, predecessor)
// pairs whose var is not an undefined (subscript -1) reference, a
// Move{source: var, dest: phi.dest} is appended to the predecessor
// block, just before its trailing Branch if it has one.
func RemovePhi(f *ir.SSAFunction) *ir.SSAFunction {
	out := &ir.SSAFunction{
		ParameterCount: f.ParameterCount,
		LocalVarCount:  f.LocalVarCount,
		EntryBlock:     f.EntryBlock,
		Blocks:         make([]*ir.SSABlock, len(f.Blocks)),
	}
	for i, b := range f.Blocks {
		out.Blocks[i] = &ir.SSABlock{FirstIndex: b.FirstIndex, Instrs: append([]ir.SSAInstr(nil), b.Instrs...)}
	}

	var pending []pendingMove
	for _, b := range out.Blocks {
		for ii, in := range b.Instrs {
			if in.Kind != ir.OpPhi {
				break
			}
			for k, v := range in.Phi.Vars {
				if v.Undefined() {
					continue
				}
				pending = append(pending, pendingMove{block: in.Phi.Blocks[k], source: v, dest: in.Phi.Dest})
			}
			b.Instrs[ii] = ir.Nop[ir.SSAOperand]()
		}
	}

	for _, m := range pending {
		insertMove(out.Blocks[m.block], m.source, m.dest)
	}
	return out
}

func insertMove(b *ir.SSABlock, source, dest ir.SSAOperand) {
	mv := ir.Instruction[ir.SSAOperand]{Kind: ir.OpMove, Move: ir.MovePayload[ir.SSAOperand]{Source: source, Dest: dest}}
	if n := len(b.Instrs); n > 0 && b.Instrs[n-1].Kind == ir.OpBranch {
		b.Instrs = append(b.Instrs[:n-1], append([]ir.SSAInstr{mv}, b.Instrs[n-1:]...)...)
	} else {
		b.Instrs = append(b.Instrs, mv)
	}
}

// localTable allocates successive negative frame offsets to newly
// observed var$subscript names for a single function.
type localTable struct {
	offsets map[string]int64
	next    int64 // next free local index, 0-based
}

func newLocalTable() *localTable {
	return &localTable{offsets: make(map[string]int64)}
}

func (t *localTable) offsetFor(name string) int64 {
	if off, ok := t.offsets[name]; ok {
		return off
	}
	off := -8 * (t.next + 1)
	t.offsets[name] = off
	t.next++
	return off
}

// RewriteParamsLocals implements §4.11(b): every Subscribed(var, i)
// operand is rewritten to a concrete frame-offset Var. A parameter name
// at subscript 0 keeps its recovered positive offset; every other
// subscripted name (including subscript-0 locals and every later
// version of a parameter) is allocated the next free negative local
// slot, named "var$i" to keep distinct SSA versions distinguishable in
// the recovered output.
func RewriteParamsLocals(f *ir.SSAFunction, paramNames []string) *ir.SSAFunction {
	paramOffset := make(map[string]int64, len(paramNames))
	for i, name := range paramNames {
		if name == "<unknown>" {
			continue
		}
		paramOffset[name] = 8 * (int64(i) + 2)
	}

	locals := newLocalTable()
	rewrite := func(o ir.SSAOperand) ir.SSAOperand {
		if o.Kind != ir.SSASubscribed {
			return o
		}
		if o.Subscript == 0 {
			if off, ok := paramOffset[o.Var]; ok {
				return ir.Plain(ir.VarOperand(o.Var, off))
			}
		}
		localName := fmt.Sprintf("%s$%d", o.Var, o.Subscript)
		return ir.Plain(ir.VarOperand(localName, locals.offsetFor(localName)))
	}

	out := &ir.SSAFunction{
		ParameterCount: f.ParameterCount,
		EntryBlock:     f.EntryBlock,
		Blocks:         make([]*ir.SSABlock, len(f.Blocks)),
	}
	for i, b := range f.Blocks {
		nb := &ir.SSABlock{FirstIndex: b.FirstIndex, Instrs: make([]ir.SSAInstr, len(b.Instrs))}
		for ii, in := range b.Instrs {
			nb.Instrs[ii] = in.MapOperands(rewrite)
		}
		out.Blocks[i] = nb
	}
	out.LocalVarCount = len(locals.offsets)
	return out
}

// Renumber implements §4.11(c): pan every function sequentially
// starting at base so the global instruction index space remains a
// disjoint, contiguous concatenation across the function list.
func Renumber(fs *ir.SSAFunctions, base int) *ir.SSAFunctions {
	return pan.Functions(fs, base)
}

// programBase is the fixed starting global index for the first
// function, matching the upstream loader's convention of reserving the
// first few indices for a program preamble.
const programBase = 3

// Run performs all three SSA-to-3Addr passes over every function and
// downcasts the result back to the flat pre-SSA representation.
func Run(fs *ir.SSAFunctions, paramNames [][]string) *ir.PreSSAFunctions {
	out := &ir.SSAFunctions{EntryFunction: fs.EntryFunction, Funcs: make([]*ir.SSAFunction, len(fs.Funcs))}
	for i, f := range fs.Funcs {
		nf := RemovePhi(f)
		nf = RewriteParamsLocals(nf, paramNames[i])
		out.Funcs[i] = nf
	}
	out = Renumber(out, programBase)
	return ir.FromSSAFunctions(out)
}
