// Package set provides BlockSet and BlockMap, the ordered integer-set
// building blocks shared by dominator analysis, dominance frontier, phi
// placement, and natural-loop detection.
package set

import (
	"sort"

	"golang.org/x/tools/container/intsets"
)

// BlockSet is an ordered set of block indices. It wraps
// golang.org/x/tools/container/intsets.Sparse, a sparse, always-sorted
// integer set with bitwise-parallel union/intersection — exactly the
// representation dominator analysis needs for its per-block meet, since
// iteration order is already ascending and therefore deterministic.
type BlockSet struct {
	s intsets.Sparse
}

// New returns an empty BlockSet.
func New() *BlockSet { return &BlockSet{} }

// Full returns a BlockSet containing every integer in [0, n).
func Full(n int) *BlockSet {
	bs := New()
	for i := 0; i < n; i++ {
		bs.s.Insert(i)
	}
	return bs
}

// Of returns a BlockSet containing exactly the given elements.
func Of(elems ...int) *BlockSet {
	bs := New()
	for _, e := range elems {
		bs.s.Insert(e)
	}
	return bs
}

// Clone returns a deep copy.
func (b *BlockSet) Clone() *BlockSet {
	out := New()
	out.s.Copy(&b.s)
	return out
}

// Insert adds x to the set.
func (b *BlockSet) Insert(x int) { b.s.Insert(x) }

// Remove removes x from the set.
func (b *BlockSet) Remove(x int) { b.s.Remove(x) }

// Contains reports whether x is in the set.
func (b *BlockSet) Contains(x int) bool { return b.s.Has(x) }

// Len reports the set's cardinality.
func (b *BlockSet) Len() int { return b.s.Len() }

// IsEmpty reports whether the set has no elements.
func (b *BlockSet) IsEmpty() bool { return b.s.IsEmpty() }

// Equals reports whether b and other contain the same elements.
func (b *BlockSet) Equals(other *BlockSet) bool { return b.s.Equals(&other.s) }

// IntersectWith replaces b with the intersection of b and other.
func (b *BlockSet) IntersectWith(other *BlockSet) { b.s.IntersectionWith(&other.s) }

// UnionWith replaces b with the union of b and other.
func (b *BlockSet) UnionWith(other *BlockSet) { b.s.UnionWith(&other.s) }

// Slice returns the set's elements in ascending order.
func (b *BlockSet) Slice() []int {
	return b.s.AppendTo(make([]int, 0, b.s.Len()))
}

// BlockMap is an ordered map from block index to BlockSet, used for
// dominator sets and dominance frontiers.
type BlockMap struct {
	m map[int]*BlockSet
}

func NewMap() *BlockMap { return &BlockMap{m: make(map[int]*BlockSet)} }

func (bm *BlockMap) Get(b int) *BlockSet {
	if s, ok := bm.m[b]; ok {
		return s
	}
	return New()
}

func (bm *BlockMap) Set(b int, s *BlockSet) { bm.m[b] = s }

func (bm *BlockMap) Has(b int) bool {
	_, ok := bm.m[b]
	return ok
}

// Keys returns the map's keys in ascending order.
func (bm *BlockMap) Keys() []int {
	out := make([]int, 0, len(bm.m))
	for k := range bm.m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
