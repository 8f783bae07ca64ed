package phi

import (
	"tacssa/analysis/cfg"
	"tacssa/analysis/dom"
	"tacssa/ir"
)

type renameStack struct {
	counter int
	stack   []int
}

type renamer struct {
	c     *cfg.SimpleCfg
	t     *dom.DomTree
	cells *BlockPhiCells
	stack map[string]*renameStack
}

func (r *renamer) get(v string) *renameStack {
	s, ok := r.stack[v]
	if !ok {
		s = &renameStack{}
		r.stack[v] = s
	}
	return s
}

// top returns the active subscript for v, or -1 if no definition is
// currently active on this path ("undefined on this path").
func (r *renamer) top(v string) int {
	s := r.get(v)
	if len(s.stack) == 0 {
		return -1
	}
	return s.stack[len(s.stack)-1]
}

// push allocates a fresh subscript for v and makes it the active one.
func (r *renamer) push(v string) int {
	s := r.get(v)
	sub := s.counter
	s.counter++
	s.stack = append(s.stack, sub)
	return sub
}

func (r *renamer) pop(v string) {
	s := r.get(v)
	s.stack = s.stack[:len(s.stack)-1]
}

// Rename performs the dominator-tree pre-order renaming pass: it
// allocates a fresh SSA subscript at every phi and Move destination,
// rewrites every ordinary variable use to the currently active
// subscript (or -1 if none is active on this path), and fills every
// successor's phi arguments from the block being visited. paramNames
// seeds parameter variables at subscript 0, as recovered by
// function.ScanParameters.
func Rename(f *ir.SSAFunction, c *cfg.SimpleCfg, t *dom.DomTree, cells *BlockPhiCells, paramNames []string) *ir.SSAFunction {
	out := &ir.SSAFunction{
		ParameterCount: f.ParameterCount,
		LocalVarCount:  f.LocalVarCount,
		EntryBlock:     f.EntryBlock,
		Blocks:         make([]*ir.SSABlock, len(f.Blocks)),
	}
	for i, b := range f.Blocks {
		out.Blocks[i] = &ir.SSABlock{FirstIndex: b.FirstIndex, Instrs: append([]ir.SSAInstr(nil), b.Instrs...)}
	}

	r := &renamer{c: c, t: t, cells: cells, stack: make(map[string]*renameStack)}
	for _, name := range paramNames {
		if name == "<unknown>" {
			continue
		}
		r.push(name)
	}

	var visit func(b int)
	visit = func(b int) {
		block := out.Blocks[b]
		vars := cells.VarsAt(b)
		pushed := make([]string, 0, len(vars))

		for i, v := range vars {
			sub := r.push(v)
			pushed = append(pushed, v)
			in := block.Instrs[i]
			in.Phi.Dest = ir.Subscribed(v, sub)
			block.Instrs[i] = in
		}

		for i := len(vars); i < len(block.Instrs); i++ {
			in := block.Instrs[i]
			uses := in.Uses()
			for ui, u := range uses {
				if u.Kind == ir.SSAPlain && u.Operand.Kind == ir.OperandVar {
					uses[ui] = ir.Subscribed(u.Operand.Var, r.top(u.Operand.Var))
				}
			}
			in.SetUses(uses)
			if d, ok := in.DefVar(); ok && in.Kind == ir.OpMove {
				if d.Kind == ir.SSAPlain && d.Operand.Kind == ir.OperandVar {
					sub := r.push(d.Operand.Var)
					pushed = append(pushed, d.Operand.Var)
					in.SetDefVar(ir.Subscribed(d.Operand.Var, sub))
				}
			}
			block.Instrs[i] = in
		}

		for _, s := range c.Succs(b) {
			sblock := out.Blocks[s]
			svars := cells.VarsAt(s)
			for i, v := range svars {
				phi := sblock.Instrs[i]
				phi.Phi.Vars = append(phi.Phi.Vars, ir.Subscribed(v, r.top(v)))
				phi.Phi.Blocks = append(phi.Phi.Blocks, b)
				sblock.Instrs[i] = phi
			}
		}

		for _, child := range t.Children(b) {
			visit(child)
		}

		for i := len(pushed) - 1; i >= 0; i-- {
			r.pop(pushed[i])
		}
	}

	visit(t.Root())
	return out
}
