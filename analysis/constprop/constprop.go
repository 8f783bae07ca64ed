// Package constprop implements sparse, fixpoint constant propagation
// over SSA form, including the phi-collapse-to-constant rule.
package constprop

import "tacssa/ir"

// Report summarizes one function's constant-propagation pass.
type Report struct {
	FirstIndex int
	Count      int
}

// state holds the known-constant substitution table built up as the
// fixpoint progresses: SSA operand -> the constant SSAOperand it is
// known to equal.
type state struct {
	known map[ir.SSAOperand]ir.SSAOperand
	count int
}

func newState() *state { return &state{known: make(map[ir.SSAOperand]ir.SSAOperand)} }

func (s *state) checkSubst(opd ir.SSAOperand) ir.SSAOperand {
	if c, ok := s.known[opd]; ok {
		s.count++
		return c
	}
	return opd
}

// Run iterates constant propagation to a fixpoint over every function,
// returning one report per function.
func Run(fs *ir.SSAFunctions) []Report {
	reports := make([]Report, len(fs.Funcs))
	for i, f := range fs.Funcs {
		reports[i] = RunFunc(f)
	}
	return reports
}

// RunFunc iterates constant propagation over a single function until a
// pass makes no rewrite, per instruction rules:
//   - Move{source,dest}: rewrite source if known-constant; if source is
//     then a constant, record dest -> source and replace with Nop.
//   - Extra(Phi{vars,dest}): rewrite each var; if every rewritten var is
//     either the same constant or an undefined (subscript -1) operand,
//     record dest -> that constant and replace with Nop.
//   - every other operand-bearing instruction: rewrite each operand.
func RunFunc(f *ir.SSAFunction) Report {
	st := newState()
	first := 0
	if len(f.Blocks) > 0 {
		first = f.Blocks[0].FirstIndex
	}
	for {
		changed := false
		for bi, b := range f.Blocks {
			for ii, in := range b.Instrs {
				nin, didChange := step(in, st)
				if didChange {
					changed = true
					f.Blocks[bi].Instrs[ii] = nin
				}
			}
		}
		if !changed {
			break
		}
	}
	return Report{FirstIndex: first, Count: st.count}
}

func step(in ir.SSAInstr, st *state) (ir.SSAInstr, bool) {
	switch in.Kind {
	case ir.OpMove:
		src := st.checkSubst(in.Move.Source)
		changed := src != in.Move.Source
		out := in
		out.Move.Source = src
		if c, ok := src.AsConst(); ok {
			st.known[in.Move.Dest] = ir.Plain(ir.ConstOperand(c))
			return ir.Nop[ir.SSAOperand](), true
		}
		return out, changed
	case ir.OpPhi:
		changed := false
		vars := make([]ir.SSAOperand, len(in.Phi.Vars))
		for i, v := range in.Phi.Vars {
			nv := st.checkSubst(v)
			if nv != v {
				changed = true
			}
			vars[i] = nv
		}
		out := in
		out.Phi.Vars = vars
		if c, ok := collapsesToConstant(vars); ok {
			st.known[in.Phi.Dest] = ir.Plain(ir.ConstOperand(c))
			return ir.Nop[ir.SSAOperand](), true
		}
		return out, changed
	case ir.OpBinary, ir.OpUnary, ir.OpBranch, ir.OpLoad, ir.OpStore, ir.OpWrite, ir.OpPushParam:
		uses := in.Uses()
		changed := false
		for i, u := range uses {
			nu := st.checkSubst(u)
			if nu != u {
				changed = true
			}
			uses[i] = nu
		}
		out := in
		out.SetUses(uses)
		return out, changed
	default:
		return in, false
	}
}

// collapsesToConstant implements the phi-collapse rule: sound when every
// reachable path feeding the phi carries the identical constant, which
// this treats as true whenever the rewritten vars are all either that
// one constant or an undefined (subscript -1) operand — undefined paths
// are assumed dynamically unreachable wherever the phi's value is used.
func collapsesToConstant(vars []ir.SSAOperand) (int64, bool) {
	var found int64
	hasConst := false
	for _, v := range vars {
		if v.Undefined() {
			continue
		}
		c, ok := v.AsConst()
		if !ok {
			return 0, false
		}
		if hasConst && c != found {
			return 0, false
		}
		found, hasConst = c, true
	}
	if !hasConst {
		return 0, false
	}
	return found, true
}
