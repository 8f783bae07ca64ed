package ir

import (
	"fmt"
	"strings"
)

// Function is an ordered block list with parameter/local counts and an
// entry-block index. Invariant: Blocks[0].FirstIndex is unique across
// the owning Functions, and every block index referenced by a branch or
// phi lies within Blocks.
type Function[O comparable] struct {
	ParameterCount int
	LocalVarCount  int
	EntryBlock     int
	Blocks         []*Block[O]
}

type PreSSAFunction = Function[Operand]
type SSAFunction = Function[SSAOperand]

// Functions is an ordered function list plus an entry-function index.
// The global instruction index space is the disjoint concatenation of
// per-function ranges in list order.
type Functions[O comparable] struct {
	Funcs         []*Function[O]
	EntryFunction int
}

type PreSSAFunctions = Functions[Operand]
type SSAFunctions = Functions[SSAOperand]

// NumBlocks reports the number of blocks in the function.
func (f *Function[O]) NumBlocks() int { return len(f.Blocks) }

// InstrCount reports the total number of instructions across all blocks.
func (f *Function[O]) InstrCount() int {
	n := 0
	for _, b := range f.Blocks {
		n += len(b.Instrs)
	}
	return n
}

func (f *Function[O]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "function(params=%d, locals=%d, entry=%d):\n", f.ParameterCount, f.LocalVarCount, f.EntryBlock)
	for i, b := range f.Blocks {
		sb.WriteString(b.String(i))
	}
	return sb.String()
}

func (fs *Functions[O]) String() string {
	var sb strings.Builder
	for i, f := range fs.Funcs {
		marker := ""
		if i == fs.EntryFunction {
			marker = " (entry)"
		}
		fmt.Fprintf(&sb, "=== function %d%s ===\n", i, marker)
		sb.WriteString(f.String())
	}
	return sb.String()
}
