package dom

import (
	"testing"

	"tacssa/analysis/cfg"
	"tacssa/sample"
)

func TestComputeImmediateDominatorsPrime(t *testing.T) {
	fn := sample.PRIME().Funcs[0]
	c := cfg.Build(fn.EntryBlock, fn.Blocks)
	tree := Compute(c)

	want := map[int]int{
		1: 0, 2: 1, 3: 2, 4: 3, 5: 4, 6: 4, 7: 6, 8: 4, 9: 3, 10: 9, 11: 9, 12: 1,
	}
	for b, exp := range want {
		got, ok := tree.IdomOf(b)
		if !ok {
			t.Errorf("IdomOf(%d): no immediate dominator, want %d", b, exp)
			continue
		}
		if got != exp {
			t.Errorf("IdomOf(%d) = %d, want %d", b, got, exp)
		}
	}
	if _, ok := tree.IdomOf(0); ok {
		t.Errorf("IdomOf(0): expected root to have no immediate dominator")
	}
	if tree.Root() != 0 {
		t.Errorf("Root() = %d, want 0", tree.Root())
	}
}

func TestDominatorsIncludeSelf(t *testing.T) {
	fn := sample.PRIME().Funcs[0]
	c := cfg.Build(fn.EntryBlock, fn.Blocks)
	tree := Compute(c)
	for _, b := range c.Blocks() {
		if !tree.DominatorsOf(b).Contains(b) {
			t.Errorf("DominatorsOf(%d) does not contain itself", b)
		}
	}
	if tree.DominatorsOf(0).Len() != 1 {
		t.Errorf("DominatorsOf(entry) = %v, want {0}", tree.DominatorsOf(0).Slice())
	}
}
