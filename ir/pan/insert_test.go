package pan

import (
	"testing"

	"tacssa/ir"
)

// threeBlockLoop is 0 -> 1 -> 2, with a back edge 2 -> 1, small enough to
// hand-check InsertBlock's remapping.
func threeBlockLoop() *ir.SSAFunction {
	branch := func(dest int) ir.SSAInstr {
		return ir.Instruction[ir.SSAOperand]{Kind: ir.OpBranch, Branch: ir.BranchPayload[ir.SSAOperand]{Method: ir.BranchUnconditional, Dest: dest}}
	}
	return &ir.SSAFunction{
		EntryBlock: 0,
		Blocks: []*ir.SSABlock{
			{FirstIndex: 0, Instrs: []ir.SSAInstr{branch(1)}},
			{FirstIndex: 1, Instrs: []ir.SSAInstr{branch(2)}},
			{FirstIndex: 2, Instrs: []ir.SSAInstr{branch(1)}},
		},
	}
}

func TestInsertBlockShiftsLaterDestinations(t *testing.T) {
	f := threeBlockLoop()
	out := InsertBlock(f, 1)

	if got, want := len(out.Blocks), 4; got != want {
		t.Fatalf("len(Blocks) = %d, want %d", got, want)
	}
	// Block 0's branch targeted the old block 1, exactly the insertion
	// point, from a block before it: it keeps dest == at, now landing on
	// the freshly inserted block rather than the shifted old block 1.
	if got, want := out.Blocks[0].Instrs[0].Branch.Dest, 1; got != want {
		t.Errorf("block 0 branch dest = %d, want %d (lands on the inserted block)", got, want)
	}
	// Old block 2 (now at index 3) branched back to old block 1, which
	// shifted to index 2.
	if got, want := out.Blocks[3].Instrs[0].Branch.Dest, 2; got != want {
		t.Errorf("block 3 branch dest = %d, want %d (shifted past inserted block)", got, want)
	}
}

func TestInsertBlockAtEntryDoesNotAdvanceEntry(t *testing.T) {
	f := threeBlockLoop()
	out := InsertBlock(f, 0)

	if out.EntryBlock != 0 {
		t.Errorf("EntryBlock = %d, want 0 (insertion at entry_block itself must not advance it)", out.EntryBlock)
	}
}

func TestInsertBlockPastEntryAdvancesEntry(t *testing.T) {
	f := threeBlockLoop()
	f.EntryBlock = 1
	out := InsertBlock(f, 0)

	if out.EntryBlock != 2 {
		t.Errorf("EntryBlock = %d, want 2", out.EntryBlock)
	}
}
