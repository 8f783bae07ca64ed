// Package dom computes dominator sets, immediate dominators, and the
// dominator tree over a CFG by forward data-flow with a set-intersection
// meet.
package dom

import (
	"tacssa/analysis/cfg"
	"tacssa/analysis/set"
)

// DomTree holds, for every block, its set of dominators (including
// itself) and its immediate dominator (nil for the root).
type DomTree struct {
	Dominators *set.BlockMap
	idom       map[int]int
	hasIdom    map[int]bool
	root       int
	blocks     []int
}

// DominatorsOf returns the dominator set of b.
func (t *DomTree) DominatorsOf(b int) *set.BlockSet { return t.Dominators.Get(b) }

// IdomOf returns the immediate dominator of b and true, or (0, false) if
// b is the root (has no immediate dominator).
func (t *DomTree) IdomOf(b int) (int, bool) {
	i, ok := t.hasIdom[b]
	if !ok || !i {
		return 0, false
	}
	return t.idom[b], true
}

// Root returns the root of the dominator tree: the block whose
// dominator set has cardinality 1 (itself).
func (t *DomTree) Root() int { return t.root }

// Children returns the immediate children of b in the dominator tree,
// in ascending block-index order.
func (t *DomTree) Children(b int) []int {
	var out []int
	for _, c := range t.blocks {
		if i, ok := t.IdomOf(c); ok && i == b {
			out = append(out, c)
		}
	}
	return out
}

// StrictlyDominates reports whether a strictly dominates b (a dominates
// b and a != b).
func (t *DomTree) StrictlyDominates(a, b int) bool {
	return a != b && t.DominatorsOf(b).Contains(a)
}

// Compute runs the forward data-flow dominator analysis described by
// the component design: lattice element per block is a BlockSet,
// bottom (initial dominator set) is the universe of all blocks, the
// entry block's dominator set is seeded to {entry} and held fixed, and
// every other block's set is refined by `dom(b) = {b} ∪ ⋂ dom(p)` over
// b's predecessors until no set changes. A non-entry block with no
// predecessors keeps the universe as its dominator set forever,
// matching the documented "unreachable blocks have out-set = universe
// and no idom" edge case.
func Compute(c *cfg.SimpleCfg) *DomTree {
	blocks := c.Blocks()
	n := len(blocks)

	dominators := set.NewMap()
	for _, b := range blocks {
		if b == c.Entry {
			dominators.Set(b, set.Of(b))
		} else {
			dominators.Set(b, set.Full(n))
		}
	}

	changed := true
	for changed {
		changed = false
		for _, b := range blocks {
			if b == c.Entry {
				continue
			}
			preds := c.Preds(b)
			var in *set.BlockSet
			if len(preds) == 0 {
				in = set.Full(n)
			} else {
				in = dominators.Get(preds[0]).Clone()
				for _, p := range preds[1:] {
					in.IntersectWith(dominators.Get(p))
				}
			}
			in.Insert(b)
			if !in.Equals(dominators.Get(b)) {
				dominators.Set(b, in)
				changed = true
			}
		}
	}

	t := &DomTree{
		Dominators: dominators,
		idom:       make(map[int]int),
		hasIdom:    make(map[int]bool),
		blocks:     blocks,
	}
	for _, b := range blocks {
		if dominators.Get(b).Len() == 1 {
			t.root = b
		}
	}
	for _, b := range blocks {
		if b == t.root {
			t.hasIdom[b] = false
			continue
		}
		domB := dominators.Get(b)
		found := false
		for _, i := range domB.Slice() {
			if i == b {
				continue
			}
			domI := dominators.Get(i)
			if domI.Len()+1 != domB.Len() {
				continue
			}
			candidate := domI.Clone()
			candidate.Insert(b)
			if candidate.Equals(domB) && !domI.Contains(b) {
				t.idom[b] = i
				t.hasIdom[b] = true
				found = true
				break
			}
		}
		if !found {
			t.hasIdom[b] = false
		}
	}
	return t
}
