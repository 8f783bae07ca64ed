package pan

import "tacssa/ir"

// InsertBlock inserts a fresh empty block at position at and remaps
// every block-index-valued reference accordingly:
//
//   - entry_block advances only if it is strictly greater than at (not
//     greater-or-equal); an insertion exactly at the entry block leaves
//     entry_block unchanged, so the inserted block becomes the entry and
//     falls through into the old one. analysis/licm relies on this when
//     a loop's root is the entry block (as in the GCD sample).
//   - every Branch.Dest d is remapped: kept if d < at, or if d == at and
//     the branch's owning block index is itself < at; otherwise d+1.
//     Call.Dest is a function index, not a block index, and is left as is.
//   - every Phi predecessor-block index bp is remapped: bp+1 if bp > at,
//     unchanged otherwise.
//
// The fresh block takes the FirstIndex of the block it is placed before
// (or the end index of the last block), so FirstIndex stays ascending in
// block order. The caller is responsible for re-running Function to
// restore contiguous instruction indices afterward.
func InsertBlock(f *ir.SSAFunction, at int) *ir.SSAFunction {
	remapDest := func(owner, d int) int {
		if d < at || (d == at && owner < at) {
			return d
		}
		return d + 1
	}
	remapPred := func(bp int) int {
		if bp > at {
			return bp + 1
		}
		return bp
	}

	out := &ir.SSAFunction{
		ParameterCount: f.ParameterCount,
		LocalVarCount:  f.LocalVarCount,
		EntryBlock:     f.EntryBlock,
	}
	if f.EntryBlock > at {
		out.EntryBlock++
	}

	out.Blocks = make([]*ir.SSABlock, 0, len(f.Blocks)+1)
	for bi, b := range f.Blocks {
		if bi == at {
			out.Blocks = append(out.Blocks, &ir.SSABlock{FirstIndex: b.FirstIndex})
		}
		nb := &ir.SSABlock{FirstIndex: b.FirstIndex, Instrs: make([]ir.SSAInstr, len(b.Instrs))}
		for ii, in := range b.Instrs {
			nb.Instrs[ii] = remapInstr(in, bi, remapDest, remapPred)
		}
		out.Blocks = append(out.Blocks, nb)
	}
	if at == len(f.Blocks) {
		fresh := &ir.SSABlock{}
		if n := len(f.Blocks); n > 0 {
			fresh.FirstIndex = f.Blocks[n-1].EndIndex()
		}
		out.Blocks = append(out.Blocks, fresh)
	}
	return out
}

func remapInstr(in ir.SSAInstr, owner int, remapDest func(int, int) int, remapPred func(int) int) ir.SSAInstr {
	out := in
	switch in.Kind {
	case ir.OpBranch:
		out.Branch.Dest = remapDest(owner, in.Branch.Dest)
	case ir.OpPhi:
		blocks := make([]int, len(in.Phi.Blocks))
		for i, bp := range in.Phi.Blocks {
			blocks[i] = remapPred(bp)
		}
		out.Phi.Blocks = blocks
	}
	return out
}
