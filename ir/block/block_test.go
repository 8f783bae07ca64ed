package block

import (
	"testing"

	"tacssa/ir"
	"tacssa/ir/parse"
)

func TestPartitionGCDShape(t *testing.T) {
	text := `
		0: marker entry_proc:2:0
		1: binary == b@24 0
		2: if %1 goto 6
		3: binary % a@16 b@24
		4: move b@24 a@16
		5: move %3 b@24
		6: goto 0
		7: write a@16
		8: writeln
	`
	stmts, err := parse.Program(text)
	if err != nil {
		t.Fatalf("parse.Program(...) error: %v", err)
	}
	blocks, err := Partition(stmts)
	if err != nil {
		t.Fatalf("Partition(...) error: %v", err)
	}
	// Leaders: 0 (first), 3 (falls right after the if-branch at 2), 6
	// (the if-branch's target), 7 (falls right after the goto at 6). So
	// four blocks: [0-2], [3-5], [6], [7-8].
	if len(blocks) != 4 {
		t.Fatalf("len(blocks) = %d, want 4", len(blocks))
	}
	if blocks[0].FirstIndex != 0 || len(blocks[0].Instrs) != 3 {
		t.Errorf("block 0 = %+v, want FirstIndex 0 with 3 instructions", blocks[0])
	}
	if blocks[1].FirstIndex != 3 || len(blocks[1].Instrs) != 3 {
		t.Errorf("block 1 = %+v, want FirstIndex 3 with 3 instructions", blocks[1])
	}
	if blocks[2].FirstIndex != 6 || len(blocks[2].Instrs) != 1 {
		t.Errorf("block 2 = %+v, want FirstIndex 6 with 1 instruction", blocks[2])
	}
	if blocks[3].FirstIndex != 7 || len(blocks[3].Instrs) != 2 {
		t.Errorf("block 3 = %+v, want FirstIndex 7 with 2 instructions", blocks[3])
	}

	// block 2's unconditional goto originally targeted instruction index
	// 0, which must be rewritten to block index 0; block 0's if-branch
	// originally targeted instruction index 6, rewritten to block index 2.
	gotoDest := blocks[2].Instrs[0].Branch.Dest
	if gotoDest != 0 {
		t.Errorf("block 2's goto dest = %d, want 0 (block index)", gotoDest)
	}
	ifDest := blocks[0].Instrs[2].Branch.Dest
	if ifDest != 2 {
		t.Errorf("block 0's if dest = %d, want 2 (block index)", ifDest)
	}
}

func TestPartitionRejectsOutOfBoundaryTarget(t *testing.T) {
	stmts := []parse.Stmt{
		{Index: 0, Instr: ir.PreSSAInstr{Kind: ir.OpBranch, Branch: ir.BranchPayload[ir.Operand]{Method: ir.BranchUnconditional, Dest: 5}}},
		{Index: 1, Instr: ir.PreSSAInstr{Kind: ir.OpWriteLn}},
	}
	if _, err := Partition(stmts); err == nil {
		t.Error("Partition(...) with out-of-range branch target: want error, got nil")
	}
}

func TestPartitionRejectsNonContiguousInput(t *testing.T) {
	stmts := []parse.Stmt{
		{Index: 0, Instr: ir.PreSSAInstr{Kind: ir.OpWriteLn}},
		{Index: 2, Instr: ir.PreSSAInstr{Kind: ir.OpWriteLn}},
	}
	if _, err := Partition(stmts); err == nil {
		t.Error("Partition(...) with non-contiguous indices: want error, got nil")
	}
}
