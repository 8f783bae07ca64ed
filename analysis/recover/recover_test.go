package recover

import (
	"testing"

	"tacssa/analysis/cfg"
	"tacssa/analysis/dom"
	"tacssa/analysis/domfrontier"
	"tacssa/analysis/phi"
	"tacssa/ir"
	"tacssa/ir/function"
	"tacssa/sample"
)

// toSSA runs full SSA construction over every function of fns, mirroring
// the CLI's ssa-target pipeline.
func toSSA(t *testing.T, fns *ir.PreSSAFunctions) (*ir.SSAFunctions, [][]string) {
	t.Helper()
	ssaFns := ir.ToSSAFunctions(fns)
	paramNames := make([][]string, len(fns.Funcs))
	for i, f := range fns.Funcs {
		paramNames[i] = function.ScanParameters(f)
		sf := ssaFns.Funcs[i]
		c := cfg.Build(sf.EntryBlock, sf.Blocks)
		tree := dom.Compute(c)
		df := domfrontier.Compute(c, tree)
		cells := phi.Infer(sf, df)
		sf = phi.Realize(sf, cells)
		sf = phi.Rename(sf, c, tree, cells, paramNames[i])
		ssaFns.Funcs[i] = sf
	}
	return ssaFns, paramNames
}

func countPhis(fs *ir.PreSSAFunctions) int {
	n := 0
	for _, f := range fs.Funcs {
		for _, b := range f.Blocks {
			for _, in := range b.Instrs {
				if in.Kind == ir.OpPhi {
					n++
				}
			}
		}
	}
	return n
}

func TestRoundTripGCD(t *testing.T) {
	pre := sample.GCD()
	ssaFns, paramNames := toSSA(t, pre)

	recovered := Run(ssaFns, paramNames)

	if got, want := len(recovered.Funcs), len(pre.Funcs); got != want {
		t.Errorf("function count = %d, want %d", got, want)
	}
	if recovered.EntryFunction != pre.EntryFunction {
		t.Errorf("entry function = %d, want %d", recovered.EntryFunction, pre.EntryFunction)
	}
	if n := countPhis(recovered); n != 0 {
		t.Errorf("recovered program has %d phi instructions, want 0", n)
	}
}

func TestRoundTripGlobalIndicesContiguous(t *testing.T) {
	pre := sample.PRIME()
	ssaFns, paramNames := toSSA(t, pre)
	recovered := Run(ssaFns, paramNames)

	expect := programBase
	for _, f := range recovered.Funcs {
		for _, b := range f.Blocks {
			if b.FirstIndex != expect {
				t.Fatalf("block FirstIndex = %d, want %d (contiguous from base)", b.FirstIndex, expect)
			}
			expect += len(b.Instrs)
		}
	}
}

func TestRewriteParamsLocalsDropsSubscribedOperands(t *testing.T) {
	pre := sample.PRIME()
	ssaFns, paramNames := toSSA(t, pre)

	for i, f := range ssaFns.Funcs {
		nf := RemovePhi(f)
		nf = RewriteParamsLocals(nf, paramNames[i])
		for _, b := range nf.Blocks {
			for _, in := range b.Instrs {
				for _, u := range in.Uses() {
					if u.Kind == ir.SSASubscribed {
						t.Errorf("instruction %v still references a subscribed operand %v", in, u)
					}
				}
				if d, ok := in.DefVar(); ok && d.Kind == ir.SSASubscribed {
					t.Errorf("instruction %v still defines a subscribed operand", in)
				}
			}
		}
	}
}
