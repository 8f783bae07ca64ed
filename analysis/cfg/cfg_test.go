package cfg

import (
	"reflect"
	"testing"

	"tacssa/sample"
)

func TestBuildPrime(t *testing.T) {
	fn := sample.PRIME().Funcs[0]
	c := Build(fn.EntryBlock, fn.Blocks)

	want := map[int][]int{
		0: {1}, 1: {2, 12}, 2: {3}, 3: {4, 9}, 4: {5, 6},
		5: {8}, 6: {7, 8}, 7: {8}, 8: {3}, 9: {10, 11},
		10: {11}, 11: {1}, 12: nil,
	}
	for b, exp := range want {
		if got := c.Succs(b); !reflect.DeepEqual(got, exp) {
			t.Errorf("Succs(%d) = %v, want %v", b, got, exp)
		}
	}

	if got := c.Preds(3); !reflect.DeepEqual(got, []int{2, 8}) {
		t.Errorf("Preds(3) = %v, want [2 8]", got)
	}
}

func TestBuildGCD(t *testing.T) {
	fn := sample.GCD().Funcs[0]
	c := Build(fn.EntryBlock, fn.Blocks)

	want := map[int][]int{0: {1, 2}, 1: {0}, 2: nil}
	for b, exp := range want {
		if got := c.Succs(b); !reflect.DeepEqual(got, exp) {
			t.Errorf("Succs(%d) = %v, want %v", b, got, exp)
		}
	}
}
