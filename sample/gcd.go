package sample

import "tacssa/ir"

// paramA and paramB are GCD's two parameters, at the fixed positive
// frame offsets 8*(i+2) for parameter indices 0 and 1.
var paramA = ir.VarOperand("a", 16)
var paramB = ir.VarOperand("b", 24)

// GCD is Euclid's algorithm: a loop header testing b == 0, a body
// computing a % b and rotating (a, b) := (b, a % b), and an exit block
// printing the result. Used by spec.md §8 scenario 6's round-trip
// check: SSA construction followed by SSA-to-3Addr must yield zero Phi
// instructions while preserving function count, entry function, and
// the program's I/O trace.
func GCD() *ir.PreSSAFunctions {
	blocks := []*ir.PreSSABlock{
		// 0: if b == 0 goto 2 (exit); else fall through to 1.
		block(0,
			binary("==", paramB, ir.ConstOperand(0)), // 0
			branchIf(reg(0), 2),                        // 1
		),
		// 1: t := a % b; a := b; b := t; goto 0.
		block(2,
			binary("%", paramA, paramB), // 2
			move(paramB, paramA),         // 3
			move(reg(2), paramB),         // 4
			branchGoto(0),                 // 5
		),
		// 2: write a; writeln (terminal).
		block(6,
			write(paramA), // 6
			writeln(),      // 7
		),
	}
	fn := &ir.PreSSAFunction{
		ParameterCount: 2,
		LocalVarCount:  0,
		EntryBlock:     0,
		Blocks:         blocks,
	}
	return &ir.PreSSAFunctions{Funcs: []*ir.PreSSAFunction{fn}, EntryFunction: 0}
}
