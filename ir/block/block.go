// Package block partitions a flat, globally-indexed instruction stream
// into the block-structured form the analysis pipeline consumes,
// inferring block boundaries from branch targets and fall-through
// behaviour (spec.md §6). Function grouping over the resulting blocks
// lives in ir/function.
package block

import (
	"fmt"
	"sort"

	"tacssa/ir"
	"tacssa/ir/parse"
)

// Error is a BlockError: partitioning failed (a branch or call target
// does not land on an instruction boundary, or the input statement
// indices are not contiguous).
type Error struct {
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("block: %s", e.Msg) }

// Partition splits stmts (sorted by Index, contiguous) into blocks. A
// new block begins at the first statement, at any branch or call
// target, and immediately after any Branch instruction (spec.md §4.1's
// terminator contract, applied in reverse to recover leaders from a
// flat stream). Branch.Dest and Call.Dest, which name destination
// instruction indices in the flat input, are rewritten in place to the
// 0-based block index of the block they land on.
func Partition(stmts []parse.Stmt) ([]*ir.PreSSABlock, error) {
	if len(stmts) == 0 {
		return nil, nil
	}
	sorted := append([]parse.Stmt(nil), stmts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Index != sorted[i-1].Index+1 {
			return nil, &Error{Msg: fmt.Sprintf("non-contiguous statement index: %d follows %d", sorted[i].Index, sorted[i-1].Index)}
		}
	}

	leaders := map[int]bool{sorted[0].Index: true}
	for i, s := range sorted {
		switch s.Instr.Kind {
		case ir.OpBranch:
			leaders[s.Instr.Branch.Dest] = true
			if i+1 < len(sorted) {
				leaders[sorted[i+1].Index] = true
			}
		case ir.OpCall:
			leaders[s.Instr.InterProc.Dest] = true
		}
	}

	leaderIdx := make([]int, 0, len(leaders))
	for l := range leaders {
		leaderIdx = append(leaderIdx, l)
	}
	sort.Ints(leaderIdx)

	blockOf := make(map[int]int, len(leaderIdx))
	for bi, l := range leaderIdx {
		blockOf[l] = bi
	}
	resolve := func(instrIdx int) (int, error) {
		bi, ok := blockOf[instrIdx]
		if !ok {
			return 0, &Error{Msg: fmt.Sprintf("branch/call target %d is not an instruction boundary", instrIdx)}
		}
		return bi, nil
	}

	blocks := make([]*ir.PreSSABlock, len(leaderIdx))
	for bi, l := range leaderIdx {
		blocks[bi] = &ir.PreSSABlock{FirstIndex: l}
	}
	curBlock := 0
	for _, s := range sorted {
		if leaders[s.Index] && s.Index != sorted[0].Index {
			curBlock = blockOf[s.Index]
		}
		in := s.Instr
		var err error
		switch in.Kind {
		case ir.OpBranch:
			in.Branch.Dest, err = resolve(in.Branch.Dest)
		case ir.OpCall:
			in.InterProc.Dest, err = resolve(in.InterProc.Dest)
		}
		if err != nil {
			return nil, err
		}
		blocks[curBlock].Instrs = append(blocks[curBlock].Instrs, in)
	}

	for _, b := range blocks {
		if len(b.Instrs) == 0 {
			return nil, &Error{Msg: fmt.Sprintf("block at index %d has a missing terminator (empty block)", b.FirstIndex)}
		}
	}
	return blocks, nil
}
