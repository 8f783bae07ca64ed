package phi

import (
	"testing"

	"tacssa/analysis/cfg"
	"tacssa/analysis/dom"
	"tacssa/analysis/domfrontier"
	"tacssa/ir"
	"tacssa/ir/function"
	"tacssa/sample"
)

// buildSSA runs the construction pipeline (CFG, dominators, dominance
// frontier, phi placement, phi realization, renaming) over fn's first
// function, exactly as the CLI's ssa target does.
func buildSSA(t *testing.T, fn *ir.PreSSAFunctions) *ir.SSAFunction {
	t.Helper()
	f := ir.ToSSAFunction(fn.Funcs[0])
	names := function.ScanParameters(fn.Funcs[0])

	c := cfg.Build(f.EntryBlock, f.Blocks)
	tree := dom.Compute(c)
	df := domfrontier.Compute(c, tree)
	cells := Infer(f, df)
	f = Realize(f, cells)
	return Rename(f, c, tree, cells, names)
}

// uniqueDefs walks every instruction of f and reports any (var,
// subscript) pair defined more than once.
func uniqueDefs(t *testing.T, f *ir.SSAFunction) {
	t.Helper()
	seen := make(map[ir.SSAOperand]bool)
	for bi, b := range f.Blocks {
		for _, in := range b.Instrs {
			d, ok := in.DefVar()
			if !ok || d.Kind != ir.SSASubscribed {
				continue
			}
			if seen[d] {
				t.Errorf("block %d: duplicate definition of %s", bi, d.String())
			}
			seen[d] = true
		}
	}
}

func TestRenamePrimeProducesUniqueDefs(t *testing.T) {
	f := buildSSA(t, sample.PRIME())
	uniqueDefs(t, f)

	// Block 3 (PRIME's loop header, dominance frontier {1,3}) must carry
	// a phi for the loop counter "i".
	found := false
	for _, in := range f.Blocks[3].Instrs {
		if in.Kind != ir.OpPhi {
			break
		}
		if in.Phi.Dest.Kind == ir.SSASubscribed && in.Phi.Dest.Var == "i" {
			found = true
		}
	}
	if !found {
		t.Errorf("block 3 has no phi for variable i")
	}
}

func TestRenameGCDProducesUniqueDefs(t *testing.T) {
	f := buildSSA(t, sample.GCD())
	uniqueDefs(t, f)
}
