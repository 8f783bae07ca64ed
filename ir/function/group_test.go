package function

import (
	"testing"

	"tacssa/ir"
	"tacssa/ir/block"
	"tacssa/ir/parse"
)

func TestGroupSingleFunction(t *testing.T) {
	text := `
		0: marker entry_proc:2:0
		1: binary == b@24 0
		2: if %1 goto 5
		3: binary % a@16 b@24
		4: goto 0
		5: write a@16
		6: writeln
	`
	stmts, err := parse.Program(text)
	if err != nil {
		t.Fatalf("parse.Program(...) error: %v", err)
	}
	blocks, err := block.Partition(stmts)
	if err != nil {
		t.Fatalf("block.Partition(...) error: %v", err)
	}
	fns, err := Group(blocks)
	if err != nil {
		t.Fatalf("Group(...) error: %v", err)
	}
	if len(fns.Funcs) != 1 {
		t.Fatalf("len(Funcs) = %d, want 1", len(fns.Funcs))
	}
	if fns.EntryFunction != 0 {
		t.Errorf("EntryFunction = %d, want 0", fns.EntryFunction)
	}
	f := fns.Funcs[0]
	if f.ParameterCount != 2 || f.LocalVarCount != 0 {
		t.Errorf("f = %+v, want ParameterCount 2, LocalVarCount 0", f)
	}

	names := ScanParameters(f)
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("ScanParameters(...) = %v, want [a b]", names)
	}
}

func TestGroupTwoFunctionsResolvesCallTarget(t *testing.T) {
	text := `
		0: marker entry_proc:1:0
		1: push_param n@16
		2: call 4
		3: writeln
		4: marker enter_proc:1:0
		5: write n@16
		6: writeln
	`
	stmts, err := parse.Program(text)
	if err != nil {
		t.Fatalf("parse.Program(...) error: %v", err)
	}
	blocks, err := block.Partition(stmts)
	if err != nil {
		t.Fatalf("block.Partition(...) error: %v", err)
	}
	fns, err := Group(blocks)
	if err != nil {
		t.Fatalf("Group(...) error: %v", err)
	}
	if len(fns.Funcs) != 2 {
		t.Fatalf("len(Funcs) = %d, want 2", len(fns.Funcs))
	}
	callInstr := fns.Funcs[0].Blocks[0].Instrs[2]
	if callInstr.Kind != ir.OpCall || callInstr.InterProc.Dest != 1 {
		t.Errorf("call instruction = %+v, want Dest 1 (function index)", callInstr)
	}
}

func TestGroupRejectsMissingEntryProc(t *testing.T) {
	text := `
		0: marker enter_proc:1:0
		1: writeln
	`
	stmts, _ := parse.Program(text)
	blocks, err := block.Partition(stmts)
	if err != nil {
		t.Fatalf("block.Partition(...) error: %v", err)
	}
	if _, err := Group(blocks); err == nil {
		t.Error("Group(...) with no entry_proc marker: want error, got nil")
	}
}
