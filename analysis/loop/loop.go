// Package loop detects natural loops from CFG back edges.
package loop

import (
	"sort"

	"tacssa/analysis/cfg"
	"tacssa/analysis/set"
)

// NaturalLoop is the node set reachable-in-reverse from a back edge's
// tail without passing through its head, plus the edge itself.
type NaturalLoop struct {
	Root     int // the back edge's head (`to`)
	BackEdge int // the back edge's tail (`from`)
	Nodes    *set.BlockSet
}

// Detect enumerates a NaturalLoop for every CFG edge from -> to with
// from > to. This "from > to" heuristic stands in for a proper
// dominator-based back-edge test and is only exact for reducible CFGs;
// under an irreducible CFG it can mis-classify an edge, a known and
// accepted limitation of the front end this pipeline assumes (§9).
func Detect(c *cfg.SimpleCfg) []NaturalLoop {
	var loops []NaturalLoop
	for _, from := range c.Blocks() {
		for _, to := range c.Succs(from) {
			if from > to {
				loops = append(loops, build(c, from, to))
			}
		}
	}
	return loops
}

// build computes a single natural loop's node set by reverse
// reachability from `from`, with `to` pre-inserted into the visited set
// so the traversal naturally stops there.
func build(c *cfg.SimpleCfg, from, to int) NaturalLoop {
	visited := set.Of(to)
	var visit func(b int)
	visit = func(b int) {
		if visited.Contains(b) {
			return
		}
		visited.Insert(b)
		for _, p := range c.Preds(b) {
			visit(p)
		}
	}
	visit(from)
	return NaturalLoop{Root: to, BackEdge: from, Nodes: visited}
}

// SortByRoot returns loops ordered by ascending root then back-edge
// index, a stable deterministic order for the fixpoint LICM driver.
func SortByRoot(loops []NaturalLoop) []NaturalLoop {
	out := append([]NaturalLoop(nil), loops...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Root != out[j].Root {
			return out[i].Root < out[j].Root
		}
		return out[i].BackEdge < out[j].BackEdge
	})
	return out
}
