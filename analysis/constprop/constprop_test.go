package constprop

import (
	"testing"

	"tacssa/ir"
)

func TestPhiCollapsesToConstant(t *testing.T) {
	vars := []ir.SSAOperand{
		ir.Plain(ir.ConstOperand(4)),
		ir.Plain(ir.ConstOperand(4)),
		ir.Plain(ir.ConstOperand(4)),
		ir.Subscribed("v", -1),
	}
	c, ok := collapsesToConstant(vars)
	if !ok || c != 4 {
		t.Fatalf("collapsesToConstant(...) = (%d, %v), want (4, true)", c, ok)
	}
}

func TestPhiDoesNotCollapseOnMismatch(t *testing.T) {
	vars := []ir.SSAOperand{
		ir.Plain(ir.ConstOperand(4)),
		ir.Plain(ir.ConstOperand(5)),
	}
	if _, ok := collapsesToConstant(vars); ok {
		t.Fatalf("collapsesToConstant(...) = ok, want not-ok for mismatched constants")
	}
}

func TestRunFuncCollapsesPhiAndPropagates(t *testing.T) {
	dest := ir.Subscribed("x", 0)
	phiBlock := &ir.SSABlock{
		FirstIndex: 0,
		Instrs: []ir.SSAInstr{
			{
				Kind: ir.OpPhi,
				Phi: ir.Phi[ir.SSAOperand]{
					Vars:   []ir.SSAOperand{ir.Plain(ir.ConstOperand(4)), ir.Subscribed("v", -1)},
					Blocks: []int{0, 1},
					Dest:   dest,
				},
			},
			{
				Kind:  ir.OpWrite,
				Write: ir.WritePayload[ir.SSAOperand]{Operand: dest},
			},
		},
	}
	f := &ir.SSAFunction{EntryBlock: 0, Blocks: []*ir.SSABlock{phiBlock}}

	report := RunFunc(f)
	if report.Count == 0 {
		t.Fatalf("RunFunc(...) made no rewrites, want at least the phi collapse and its use")
	}
	if f.Blocks[0].Instrs[0].Kind != ir.OpNop {
		t.Errorf("phi instruction not collapsed to Nop: %v", f.Blocks[0].Instrs[0])
	}
	write := f.Blocks[0].Instrs[1]
	if got, want := write.Write.Operand, ir.Plain(ir.ConstOperand(4)); got != want {
		t.Errorf("write operand = %v, want %v", got, want)
	}
}
