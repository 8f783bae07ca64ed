package function

import (
	"fmt"
	"strconv"
	"strings"

	"tacssa/ir"
)

// Error is a FunctionError: grouping blocks into functions failed.
type Error struct{ Msg string }

func (e *Error) Error() string { return fmt.Sprintf("function: %s", e.Msg) }

// ResolveError is a ResolveError: a Call instruction's target block does
// not begin a function, so there is no function entry to resolve it to.
type ResolveError struct{ Dest int }

func (e *ResolveError) Error() string {
	return fmt.Sprintf("function: call target block %d does not begin a function", e.Dest)
}

// markerPrefix and entryPrefix are this repository's textual convention
// for the upstream loader's Marker(EntryProc)/Marker(EnterProc)
// delimiters (spec.md §6): every function's first block carries a
// Marker instruction naming its parameter and local counts, and the
// program's entry function additionally uses the "entry_proc" spelling
// instead of "enter_proc".
const (
	markerPrefix = "enter_proc:"
	entryPrefix  = "entry_proc:"
)

type markerInfo struct {
	blockIdx       int
	params, locals int
	isEntry        bool
}

// Group splits a flat, globally block-indexed list (as produced by
// ir/block.Partition) into functions at Marker delimiters, rebases every
// Branch.Dest to its owning function's own 0-based block numbering, and
// resolves every Call.Dest from a global block index to the index of the
// function that block begins.
func Group(blocks []*ir.PreSSABlock) (*ir.PreSSAFunctions, error) {
	markers, err := findMarkers(blocks)
	if err != nil {
		return nil, err
	}

	entryFunc := -1
	blockToFunc := make(map[int]int, len(blocks))
	for fi, m := range markers {
		end := len(blocks)
		if fi+1 < len(markers) {
			end = markers[fi+1].blockIdx
		}
		for bi := m.blockIdx; bi < end; bi++ {
			blockToFunc[bi] = fi
		}
		if m.isEntry {
			if entryFunc >= 0 {
				return nil, &Error{Msg: "more than one entry_proc marker"}
			}
			entryFunc = fi
		}
	}
	if entryFunc < 0 {
		return nil, &Error{Msg: "no entry_proc marker found"}
	}

	funcs := make([]*ir.PreSSAFunction, len(markers))
	for fi, m := range markers {
		end := len(blocks)
		if fi+1 < len(markers) {
			end = markers[fi+1].blockIdx
		}
		fnBlocks := rebase(blocks[m.blockIdx:end], m.blockIdx)
		funcs[fi] = &ir.PreSSAFunction{
			ParameterCount: m.params,
			LocalVarCount:  m.locals,
			EntryBlock:     0,
			Blocks:         fnBlocks,
		}
	}

	for _, f := range funcs {
		for _, b := range f.Blocks {
			for ii, in := range b.Instrs {
				if in.Kind != ir.OpCall {
					continue
				}
				targetFn, ok := blockToFunc[in.InterProc.Dest]
				if !ok {
					return nil, &ResolveError{Dest: in.InterProc.Dest}
				}
				if markers[targetFn].blockIdx != in.InterProc.Dest {
					return nil, &ResolveError{Dest: in.InterProc.Dest}
				}
				in.InterProc.Dest = targetFn
				b.Instrs[ii] = in
			}
		}
	}

	return &ir.PreSSAFunctions{Funcs: funcs, EntryFunction: entryFunc}, nil
}

func findMarkers(blocks []*ir.PreSSABlock) ([]markerInfo, error) {
	var markers []markerInfo
	for bi, b := range blocks {
		if len(b.Instrs) == 0 || b.Instrs[0].Kind != ir.OpMarker {
			continue
		}
		text := b.Instrs[0].Marker
		isEntry := strings.HasPrefix(text, entryPrefix)
		if !isEntry && !strings.HasPrefix(text, markerPrefix) {
			continue
		}
		rest := strings.TrimPrefix(strings.TrimPrefix(text, entryPrefix), markerPrefix)
		parts := strings.Split(rest, ":")
		if len(parts) != 2 {
			return nil, &Error{Msg: fmt.Sprintf("malformed proc marker %q", text)}
		}
		params, err1 := strconv.Atoi(parts[0])
		locals, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return nil, &Error{Msg: fmt.Sprintf("malformed proc marker %q", text)}
		}
		markers = append(markers, markerInfo{blockIdx: bi, params: params, locals: locals, isEntry: isEntry})
	}
	if len(markers) == 0 {
		return nil, &Error{Msg: "no enter_proc/entry_proc marker found"}
	}
	if markers[0].blockIdx != 0 {
		return nil, &Error{Msg: "first block must begin a function"}
	}
	return markers, nil
}

// rebase shifts every Branch.Dest in a contiguous run of globally
// block-indexed blocks down by base, the run's own starting block
// index, so destinations become 0-based within the function.
func rebase(blocks []*ir.PreSSABlock, base int) []*ir.PreSSABlock {
	out := make([]*ir.PreSSABlock, len(blocks))
	for i, b := range blocks {
		nb := &ir.PreSSABlock{FirstIndex: b.FirstIndex, Instrs: make([]ir.PreSSAInstr, len(b.Instrs))}
		for ii, in := range b.Instrs {
			if in.Kind == ir.OpBranch {
				in.Branch.Dest -= base
			}
			nb.Instrs[ii] = in
		}
		out[i] = nb
	}
	return out
}
