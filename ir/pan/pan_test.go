package pan

import (
	"testing"

	"tacssa/ir"
	"tacssa/sample"
)

func TestFunctionContiguousIndices(t *testing.T) {
	f := ir.ToSSAFunction(sample.PRIME().Funcs[0])
	panned, next := Function(f, 3)

	expect := 3
	for _, b := range panned.Blocks {
		if b.FirstIndex != expect {
			t.Fatalf("block FirstIndex = %d, want %d", b.FirstIndex, expect)
		}
		expect += len(b.Instrs)
	}
	if next != expect {
		t.Errorf("next = %d, want %d", next, expect)
	}
}

func TestFunctionsConcatenatesRanges(t *testing.T) {
	fs := &ir.SSAFunctions{
		EntryFunction: 0,
		Funcs: []*ir.SSAFunction{
			ir.ToSSAFunction(sample.GCD().Funcs[0]),
			ir.ToSSAFunction(sample.PRIME().Funcs[0]),
		},
	}
	out := Functions(fs, 0)

	expect := 0
	for fi, f := range out.Funcs {
		for _, b := range f.Blocks {
			if b.FirstIndex != expect {
				t.Fatalf("function %d block FirstIndex = %d, want %d", fi, b.FirstIndex, expect)
			}
			expect += len(b.Instrs)
		}
	}
}
