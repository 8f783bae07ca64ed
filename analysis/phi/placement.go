// Package phi infers phi-function placement (Cytron et al. Step 3) and
// performs dominator-tree pre-order renaming into SSA form.
package phi

import (
	"sort"

	"tacssa/ir"
	"tacssa/analysis/set"
)

// Cell is a single phi-function placement: the source variable name and
// the set of blocks whose definitions reach this phi (its origins).
type Cell struct {
	Var     string
	Origins *set.BlockSet
}

// BlockPhiCells maps block index to (variable name -> Cell), the
// placement table produced by Infer.
type BlockPhiCells struct {
	cells map[int]map[string]*Cell
}

func newBlockPhiCells() *BlockPhiCells {
	return &BlockPhiCells{cells: make(map[int]map[string]*Cell)}
}

func (c *BlockPhiCells) ensure(block int, v string) *Cell {
	m, ok := c.cells[block]
	if !ok {
		m = make(map[string]*Cell)
		c.cells[block] = m
	}
	cell, ok := m[v]
	if !ok {
		cell = &Cell{Var: v, Origins: set.New()}
		m[v] = cell
	}
	return cell
}

// Has reports whether block has a phi cell for v.
func (c *BlockPhiCells) Has(block int, v string) bool {
	m, ok := c.cells[block]
	if !ok {
		return false
	}
	_, ok = m[v]
	return ok
}

// Get returns the phi cell for (block, v), or nil if absent.
func (c *BlockPhiCells) Get(block int, v string) *Cell {
	m, ok := c.cells[block]
	if !ok {
		return nil
	}
	return m[v]
}

// VarsAt returns the variable names with a phi cell at block, in
// ascending lexicographic order (spec's determinism requirement).
func (c *BlockPhiCells) VarsAt(block int) []string {
	m, ok := c.cells[block]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Blocks returns every block index holding at least one phi cell, in
// ascending order.
func (c *BlockPhiCells) Blocks() []int {
	out := make([]int, 0, len(c.cells))
	for b := range c.cells {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}

// defSites finds, per variable name, the set of blocks holding a
// Move-to-variable instruction defining it.
func defSites(f *ir.SSAFunction) map[string]*set.BlockSet {
	out := make(map[string]*set.BlockSet)
	for bi, b := range f.Blocks {
		for _, in := range b.Instrs {
			if in.Kind != ir.OpMove {
				continue
			}
			dest := in.Move.Dest
			if dest.Kind != ir.SSAPlain || dest.Operand.Kind != ir.OperandVar {
				continue
			}
			s, ok := out[dest.Operand.Var]
			if !ok {
				s = set.New()
				out[dest.Operand.Var] = s
			}
			s.Insert(bi)
		}
	}
	return out
}

// Infer places phi cells via Cytron et al.'s Step 3 worklist algorithm:
// for each variable, the worklist starts at its definition sites and
// propagates a phi cell into each member's dominance frontier, pushing
// newly touched blocks back onto the worklist.
func Infer(f *ir.SSAFunction, df *set.BlockMap) *BlockPhiCells {
	sites := defSites(f)

	vars := make([]string, 0, len(sites))
	for v := range sites {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	cells := newBlockPhiCells()
	for _, v := range vars {
		work := sites[v].Slice()
		for len(work) > 0 {
			b := work[len(work)-1]
			work = work[:len(work)-1]
			for _, target := range df.Get(b).Slice() {
				if !cells.Has(target, v) {
					cells.ensure(target, v)
					work = append(work, target)
				}
				cells.ensure(target, v).Origins.Insert(b)
			}
		}
	}
	return cells
}
