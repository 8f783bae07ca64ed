package licm

import (
	"testing"

	"tacssa/ir"
	"tacssa/sample"
)

func TestRunFuncInsertsPreheaderPerLoopRoot(t *testing.T) {
	f := ir.ToSSAFunction(sample.PRIME().Funcs[0])
	before := f.NumBlocks()

	out, report := RunFunc(f)

	// Two natural loops (roots 1 and 3) each get their own pre-header.
	if got, want := out.NumBlocks(), before+2; got != want {
		t.Errorf("NumBlocks() after LICM = %d, want %d", got, want)
	}
	if report.Count() < 0 {
		t.Errorf("Report.Count() = %d, want >= 0", report.Count())
	}
}

func TestRunFuncGCDNoInvariant(t *testing.T) {
	// GCD's loop body redefines both operands of its one Binary
	// instruction every iteration, so nothing is loop-invariant; only
	// the pre-header insertion itself changes the block count.
	f := ir.ToSSAFunction(sample.GCD().Funcs[0])
	before := f.NumBlocks()

	out, report := RunFunc(f)

	if got, want := out.NumBlocks(), before+1; got != want {
		t.Errorf("NumBlocks() after LICM = %d, want %d", got, want)
	}
	if report.Count() != 0 {
		t.Errorf("Report.Count() = %d, want 0", report.Count())
	}
}
