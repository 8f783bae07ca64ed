package parse

import (
	"testing"

	"tacssa/ir"
)

func TestProgramParsesEachOpcode(t *testing.T) {
	text := `
		# a comment line, and a blank line follow
		0: marker entry_proc:1:0
		1: move 5 a@16
		2: binary + a@16 %1
		3: if %1 goto 6
		4: write a@16
		5: goto 6
		6: writeln
	`
	stmts, err := Program(text)
	if err != nil {
		t.Fatalf("Program(...) error: %v", err)
	}
	if len(stmts) != 7 {
		t.Fatalf("len(stmts) = %d, want 7", len(stmts))
	}
	if stmts[0].Instr.Kind != ir.OpMarker || stmts[0].Instr.Marker != "entry_proc:1:0" {
		t.Errorf("stmt 0 = %+v, want marker entry_proc:1:0", stmts[0].Instr)
	}
	if stmts[1].Instr.Kind != ir.OpMove {
		t.Errorf("stmt 1 kind = %v, want move", stmts[1].Instr.Kind)
	}
	if got, want := stmts[1].Instr.Move.Dest, ir.VarOperand("a", 16); got != want {
		t.Errorf("stmt 1 dest = %v, want %v", got, want)
	}
	if stmts[2].Instr.Binary.Op != "+" || stmts[2].Instr.Binary.Rhs != ir.RegisterOperand(1) {
		t.Errorf("stmt 2 = %+v, want binary + a@16 %%1", stmts[2].Instr)
	}
	if stmts[3].Instr.Kind != ir.OpBranch || stmts[3].Instr.Branch.Dest != 6 {
		t.Errorf("stmt 3 = %+v, want branch to 6", stmts[3].Instr)
	}
}

func TestProgramRejectsMalformed(t *testing.T) {
	if _, err := Program("0: bogus_opcode"); err == nil {
		t.Error("Program(...) with unknown opcode: want error, got nil")
	}
	if _, err := Program("0 move 5 a@16"); err == nil {
		t.Error("Program(...) missing ':': want error, got nil")
	}
}

func TestOperandStringRoundTrip(t *testing.T) {
	cases := []ir.Operand{
		ir.ConstOperand(-7),
		ir.VarOperand("n", 16),
		ir.RegisterOperand(3),
		ir.GPOperand("base"),
	}
	for _, want := range cases {
		got, err := parseOperand(want.String())
		if err != nil {
			t.Fatalf("parseOperand(%q) error: %v", want.String(), err)
		}
		if got != want {
			t.Errorf("parseOperand(%q) = %+v, want %+v", want.String(), got, want)
		}
	}
}
