// Package domfrontier computes each block's dominance frontier via the
// standard "Local + Up" recursion over the dominator tree.
package domfrontier

import (
	"tacssa/analysis/cfg"
	"tacssa/analysis/dom"
	"tacssa/analysis/set"
)

// Compute returns a BlockMap from block to its dominance frontier,
// memoized across a post-order walk of the dominator tree so every
// block's DF is computed exactly once and results are stable ordered
// sets for determinism (§4.3, §5).
func Compute(c *cfg.SimpleCfg, t *dom.DomTree) *set.BlockMap {
	df := set.NewMap()
	visited := make(map[int]bool)
	var visit func(b int)
	visit = func(b int) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, child := range t.Children(b) {
			visit(child)
		}

		result := set.New()
		for _, s := range c.Succs(b) {
			if i, ok := t.IdomOf(s); !ok || i != b {
				result.Insert(s)
			}
		}
		for _, child := range t.Children(b) {
			for _, y := range df.Get(child).Slice() {
				if !t.StrictlyDominates(b, y) {
					result.Insert(y)
				}
			}
		}
		df.Set(b, result)
	}

	for _, b := range c.Blocks() {
		visit(b)
	}
	return df
}
