// Package sample embeds fixed pre-SSA programs used by the pipeline's
// own regression tests, standing in for the upstream textual loader
// (spec.md §1/§6 treats the TAC parser and block/function partitioner as
// an external collaborator, so these fixtures are built directly as Go
// literal ir.Functions rather than parsed from text).
package sample

import "tacssa/ir"

func binary(op string, lhs, rhs ir.Operand) ir.PreSSAInstr {
	return ir.PreSSAInstr{Kind: ir.OpBinary, Binary: ir.BinaryPayload[ir.Operand]{Op: op, Lhs: lhs, Rhs: rhs}}
}

func move(src, dst ir.Operand) ir.PreSSAInstr {
	return ir.PreSSAInstr{Kind: ir.OpMove, Move: ir.MovePayload[ir.Operand]{Source: src, Dest: dst}}
}

func branchIf(cond ir.Operand, dest int) ir.PreSSAInstr {
	return ir.PreSSAInstr{Kind: ir.OpBranch, Branch: ir.BranchPayload[ir.Operand]{Method: ir.BranchIf, Cond: cond, Dest: dest}}
}

func branchGoto(dest int) ir.PreSSAInstr {
	return ir.PreSSAInstr{Kind: ir.OpBranch, Branch: ir.BranchPayload[ir.Operand]{Method: ir.BranchUnconditional, Dest: dest}}
}

func write(o ir.Operand) ir.PreSSAInstr {
	return ir.PreSSAInstr{Kind: ir.OpWrite, Write: ir.WritePayload[ir.Operand]{Operand: o}}
}

func writeln() ir.PreSSAInstr { return ir.PreSSAInstr{Kind: ir.OpWriteLn} }

func reg(i int) ir.Operand { return ir.RegisterOperand(i) }

func block(first int, instrs ...ir.PreSSAInstr) *ir.PreSSABlock {
	return &ir.PreSSABlock{FirstIndex: first, Instrs: instrs}
}

// paramN and localI are the fixed frame slots for PRIME's single
// parameter and single local: a positive offset 8*(0+2)=16 for the
// parameter, and a negative offset -8 for the loop counter local.
var paramN = ir.VarOperand("n", 16)
var localI = ir.VarOperand("i", -8)

// PRIME is the 13-block prime-testing function used verbatim by spec.md
// §8's worked scenarios (CFG edges, dominance frontier, immediate
// dominators, natural loops). Block-by-block successor shape matches
// the scenario exactly: 0→{1}; 1→{2,12}; 2→{3}; 3→{4,9}; 4→{5,6};
// 5→{8}; 6→{7,8}; 7→{8}; 8→{3}; 9→{10,11}; 10→{11}; 11→{1}; 12→∅.
func PRIME() *ir.PreSSAFunctions {
	blocks := []*ir.PreSSABlock{
		// 0: i := 2
		block(0,
			move(ir.ConstOperand(2), localI),
		),
		// 1: if i*i > n goto 12 (loop exit), else fall through to 2
		block(1,
			binary("*", localI, localI),       // 1
			binary(">", reg(1), paramN),        // 2
			branchIf(reg(2), 12),                // 3
		),
		// 2: t := n % i
		block(4,
			binary("%", paramN, localI), // 4
		),
		// 3: if t == 0 goto 9 (divisor found), else fall through to 4
		block(5,
			binary("==", reg(4), ir.ConstOperand(0)), // 5
			branchIf(reg(5), 9),                       // 6
		),
		// 4: if i == 2 goto 6, else fall through to 5
		block(7,
			binary("==", localI, ir.ConstOperand(2)), // 7
			branchIf(reg(7), 6),                       // 8
		),
		// 5: write i; goto 8
		block(9,
			write(localI), // 9
			branchGoto(8), // 10
		),
		// 6: if i > 100 goto 8, else fall through to 7
		block(11,
			binary(">", localI, ir.ConstOperand(100)), // 11
			branchIf(reg(11), 8),                       // 12
		),
		// 7: write i; fall through to 8
		block(13,
			write(localI), // 13
		),
		// 8: i := i + 1; goto 3
		block(14,
			binary("+", localI, ir.ConstOperand(1)), // 14
			move(reg(14), localI),                    // 15
			branchGoto(3),                             // 16
		),
		// 9: if i == 2 goto 11, else fall through to 10
		block(17,
			binary("==", localI, ir.ConstOperand(2)), // 17
			branchIf(reg(17), 11),                     // 18
		),
		// 10: writeln; fall through to 11
		block(19,
			writeln(), // 19
		),
		// 11: writeln; goto 1
		block(20,
			writeln(),     // 20
			branchGoto(1), // 21
		),
		// 12: writeln (terminal, no successors)
		block(22,
			writeln(), // 22
		),
	}
	fn := &ir.PreSSAFunction{
		ParameterCount: 1,
		LocalVarCount:  1,
		EntryBlock:     0,
		Blocks:         blocks,
	}
	return &ir.PreSSAFunctions{Funcs: []*ir.PreSSAFunction{fn}, EntryFunction: 0}
}
