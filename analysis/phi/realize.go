package phi

import "tacssa/ir"

// Realize turns each block's phi placement into a contiguous run of
// Extra(Phi) placeholder instructions prefixed onto the block (one per
// phi cell, in variable-name order), then repans the whole function so
// every instruction's global index, and every Register operand's
// reference, accounts for the prefix inserted ahead of it — including a
// register produced and consumed within the same block, which shifts
// by that block's own prefix count in addition to whatever prefix
// total preceded the block (a plain per-block delta, as pan.Function
// applies for structural changes that don't move existing content
// within a block, undercounts this case).
func Realize(f *ir.SSAFunction, cells *BlockPhiCells) *ir.SSAFunction {
	n := len(f.Blocks)
	oldStart := make([]int, n)
	prefixCount := make([]int, n)
	for i, b := range f.Blocks {
		oldStart[i] = b.FirstIndex
		prefixCount[i] = len(cells.VarsAt(i))
	}
	base := 0
	if n > 0 {
		base = oldStart[0]
	}
	newStart := make([]int, n)
	index := base
	for i, b := range f.Blocks {
		newStart[i] = index
		index += prefixCount[i] + len(b.Instrs)
	}

	resolve := func(x int) int {
		owner := 0
		for i := 0; i < n; i++ {
			if oldStart[i] <= x {
				owner = i
			} else {
				break
			}
		}
		return newStart[owner] + prefixCount[owner] + (x - oldStart[owner])
	}
	shift := func(o ir.SSAOperand) ir.SSAOperand {
		if o.Kind == ir.SSAPlain && o.Operand.Kind == ir.OperandRegister {
			return ir.Plain(ir.RegisterOperand(resolve(o.Operand.Register)))
		}
		return o
	}

	blocks := make([]*ir.SSABlock, n)
	for bi, b := range f.Blocks {
		instrs := make([]ir.SSAInstr, 0, prefixCount[bi]+len(b.Instrs))
		for k := 0; k < prefixCount[bi]; k++ {
			instrs = append(instrs, ir.Instruction[ir.SSAOperand]{Kind: ir.OpPhi})
		}
		for _, in := range b.Instrs {
			instrs = append(instrs, in.MapOperands(shift))
		}
		blocks[bi] = &ir.SSABlock{FirstIndex: newStart[bi], Instrs: instrs}
	}

	return &ir.SSAFunction{
		ParameterCount: f.ParameterCount,
		LocalVarCount:  f.LocalVarCount,
		EntryBlock:     f.EntryBlock,
		Blocks:         blocks,
	}
}
