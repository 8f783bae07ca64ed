// Package pan implements index panning and block insertion, the two
// structural utilities that keep global instruction indices contiguous
// across instruction-count-changing transformations (phi-slot insertion,
// pre-header insertion, cross-function renumbering).
package pan

import "tacssa/ir"

// blockDeltas returns, for a block list's old (pre-pan) FirstIndex
// values and its current instruction counts, the new FirstIndex of each
// block (prefix sum of lengths starting at base) and a resolver that
// maps an old Register index to its new value. The resolver looks up
// the register by which block's OLD range it falls in — not which
// block the reference currently sits in — since a hoisted instruction's
// result (§4.8) can be referenced from a block other than the one it
// now lives in; a per-occurrence-block delta would mis-shift exactly
// that case.
func blockDeltas(oldFirst []int, lens []int, base int) (newFirst []int, resolve func(int) int) {
	n := len(oldFirst)
	newFirst = make([]int, n)
	index := base
	for i, l := range lens {
		newFirst[i] = index
		index += l
	}
	resolve = func(x int) int {
		owner := 0
		for i := 0; i < n; i++ {
			if oldFirst[i] <= x {
				owner = i
			} else {
				break
			}
		}
		return x + (newFirst[owner] - oldFirst[owner])
	}
	return newFirst, resolve
}

// Function pans every block of f in place order, assigning
// f.Blocks[0].FirstIndex = base and every subsequent block's FirstIndex
// to base plus the running sum of prior blocks' lengths, then shifts
// every Register operand to match wherever its owning block moved.
// Returns the panned function and the next free global index.
func Function(f *ir.SSAFunction, base int) (*ir.SSAFunction, int) {
	oldFirst := make([]int, len(f.Blocks))
	lens := make([]int, len(f.Blocks))
	for i, b := range f.Blocks {
		oldFirst[i] = b.FirstIndex
		lens[i] = len(b.Instrs)
	}
	newFirst, resolve := blockDeltas(oldFirst, lens, base)

	out := &ir.SSAFunction{
		ParameterCount: f.ParameterCount,
		LocalVarCount:  f.LocalVarCount,
		EntryBlock:     f.EntryBlock,
		Blocks:         make([]*ir.SSABlock, len(f.Blocks)),
	}
	for bi, b := range f.Blocks {
		nb := &ir.SSABlock{FirstIndex: newFirst[bi], Instrs: make([]ir.SSAInstr, len(b.Instrs))}
		for ii, in := range b.Instrs {
			nb.Instrs[ii] = panInstr(in, resolve)
		}
		out.Blocks[bi] = nb
	}
	next := base
	for _, l := range lens {
		next += l
	}
	return out, next
}

// PreSSAFunction is the pre-SSA analogue of Function, used before phi
// placement has run (e.g. to validate an upstream loader's block
// partitioning produces contiguous indices).
func PreSSAFunction(f *ir.PreSSAFunction, base int) (*ir.PreSSAFunction, int) {
	oldFirst := make([]int, len(f.Blocks))
	lens := make([]int, len(f.Blocks))
	for i, b := range f.Blocks {
		oldFirst[i] = b.FirstIndex
		lens[i] = len(b.Instrs)
	}
	newFirst, resolve := blockDeltas(oldFirst, lens, base)

	out := &ir.PreSSAFunction{
		ParameterCount: f.ParameterCount,
		LocalVarCount:  f.LocalVarCount,
		EntryBlock:     f.EntryBlock,
		Blocks:         make([]*ir.PreSSABlock, len(f.Blocks)),
	}
	for bi, b := range f.Blocks {
		nb := &ir.PreSSABlock{FirstIndex: newFirst[bi], Instrs: make([]ir.PreSSAInstr, len(b.Instrs))}
		for ii, in := range b.Instrs {
			nb.Instrs[ii] = panPreSSAInstr(in, resolve)
		}
		out.Blocks[bi] = nb
	}
	next := base
	for _, l := range lens {
		next += l
	}
	return out, next
}

func panInstr(in ir.SSAInstr, resolve func(int) int) ir.SSAInstr {
	return in.MapOperands(func(o ir.SSAOperand) ir.SSAOperand {
		if o.Kind == ir.SSAPlain && o.Operand.Kind == ir.OperandRegister {
			return ir.Plain(ir.RegisterOperand(resolve(o.Operand.Register)))
		}
		return o
	})
}

func panPreSSAInstr(in ir.PreSSAInstr, resolve func(int) int) ir.PreSSAInstr {
	return in.MapOperands(func(o ir.Operand) ir.Operand {
		if o.Kind == ir.OperandRegister {
			return ir.RegisterOperand(resolve(o.Register))
		}
		return o
	})
}

// Functions pans every function of fs in program order starting at
// base, keeping the global instruction index space a disjoint
// concatenation of per-function ranges (§4.11c).
func Functions(fs *ir.SSAFunctions, base int) *ir.SSAFunctions {
	out := &ir.SSAFunctions{EntryFunction: fs.EntryFunction, Funcs: make([]*ir.SSAFunction, len(fs.Funcs))}
	next := base
	for i, f := range fs.Funcs {
		var panned *ir.SSAFunction
		panned, next = Function(f, next)
		out.Funcs[i] = panned
	}
	return out
}
