package ir

// ToSSAInstr lifts a pre-SSA instruction into the SSA instruction shape
// by wrapping every operand in a Plain SSAOperand, unchanged in meaning.
// This is the identity embedding that phi placement and renaming then
// operate on top of.
func ToSSAInstr(in PreSSAInstr) SSAInstr {
	out := SSAInstr{Kind: in.Kind, Marker: in.Marker}
	switch in.Kind {
	case OpBinary:
		out.Binary = BinaryPayload[SSAOperand]{Op: in.Binary.Op, Lhs: Plain(in.Binary.Lhs), Rhs: Plain(in.Binary.Rhs)}
	case OpUnary:
		out.Unary = UnaryPayload[SSAOperand]{Op: in.Unary.Op, Operand: Plain(in.Unary.Operand)}
	case OpBranch:
		out.Branch = BranchPayload[SSAOperand]{Method: in.Branch.Method, Dest: in.Branch.Dest}
		if in.Branch.Method != BranchUnconditional {
			out.Branch.Cond = Plain(in.Branch.Cond)
		}
	case OpLoad:
		out.Load = LoadPayload[SSAOperand]{Address: Plain(in.Load.Address)}
	case OpStore:
		out.Store = StorePayload[SSAOperand]{Data: Plain(in.Store.Data), Address: Plain(in.Store.Address)}
	case OpMove:
		out.Move = MovePayload[SSAOperand]{Source: Plain(in.Move.Source), Dest: Plain(in.Move.Dest)}
	case OpWrite:
		out.Write = WritePayload[SSAOperand]{Operand: Plain(in.Write.Operand)}
	case OpPushParam:
		out.InterProc = InterProcPayload[SSAOperand]{Kind: InterProcPushParam, Operand: Plain(in.InterProc.Operand)}
	case OpCall:
		out.InterProc = InterProcPayload[SSAOperand]{Kind: InterProcCall, Dest: in.InterProc.Dest}
	case OpRead, OpWriteLn, OpNop, OpMarker:
		// no operand-bearing fields
	}
	return out
}

// ToSSABlock lifts a pre-SSA block.
func ToSSABlock(b *PreSSABlock) *SSABlock {
	out := &SSABlock{FirstIndex: b.FirstIndex, Instrs: make([]SSAInstr, len(b.Instrs))}
	for i, in := range b.Instrs {
		out.Instrs[i] = ToSSAInstr(in)
	}
	return out
}

// ToSSAFunction lifts a pre-SSA function.
func ToSSAFunction(f *PreSSAFunction) *SSAFunction {
	out := &SSAFunction{ParameterCount: f.ParameterCount, LocalVarCount: f.LocalVarCount, EntryBlock: f.EntryBlock, Blocks: make([]*SSABlock, len(f.Blocks))}
	for i, b := range f.Blocks {
		out.Blocks[i] = ToSSABlock(b)
	}
	return out
}

// ToSSAFunctions lifts an entire pre-SSA program.
func ToSSAFunctions(fs *PreSSAFunctions) *SSAFunctions {
	out := &SSAFunctions{EntryFunction: fs.EntryFunction, Funcs: make([]*SSAFunction, len(fs.Funcs))}
	for i, f := range fs.Funcs {
		out.Funcs[i] = ToSSAFunction(f)
	}
	return out
}

// FromSSAOperand downcasts an SSA operand to its pre-SSA form. It panics
// if given a Subscribed operand: by the time this is called (after
// SSA-to-3Addr's parameter/local rewriting pass) every Subscribed
// operand must already have been resolved to a concrete frame
// reference, so encountering one here is an unrecoverable invariant
// breach, not an input error.
func FromSSAOperand(o SSAOperand) Operand {
	if o.Kind != SSAPlain {
		panic("ir: Subscribed operand survived SSA-to-3Addr rewriting")
	}
	return o.Operand
}

func fromSSAInstr(in SSAInstr) PreSSAInstr {
	out := PreSSAInstr{Kind: in.Kind, Marker: in.Marker}
	switch in.Kind {
	case OpBinary:
		out.Binary = BinaryPayload[Operand]{Op: in.Binary.Op, Lhs: FromSSAOperand(in.Binary.Lhs), Rhs: FromSSAOperand(in.Binary.Rhs)}
	case OpUnary:
		out.Unary = UnaryPayload[Operand]{Op: in.Unary.Op, Operand: FromSSAOperand(in.Unary.Operand)}
	case OpBranch:
		out.Branch = BranchPayload[Operand]{Method: in.Branch.Method, Dest: in.Branch.Dest}
		if in.Branch.Method != BranchUnconditional {
			out.Branch.Cond = FromSSAOperand(in.Branch.Cond)
		}
	case OpLoad:
		out.Load = LoadPayload[Operand]{Address: FromSSAOperand(in.Load.Address)}
	case OpStore:
		out.Store = StorePayload[Operand]{Data: FromSSAOperand(in.Store.Data), Address: FromSSAOperand(in.Store.Address)}
	case OpMove:
		out.Move = MovePayload[Operand]{Source: FromSSAOperand(in.Move.Source), Dest: FromSSAOperand(in.Move.Dest)}
	case OpWrite:
		out.Write = WritePayload[Operand]{Operand: FromSSAOperand(in.Write.Operand)}
	case OpPushParam:
		out.InterProc = InterProcPayload[Operand]{Kind: InterProcPushParam, Operand: FromSSAOperand(in.InterProc.Operand)}
	case OpCall:
		out.InterProc = InterProcPayload[Operand]{Kind: InterProcCall, Dest: in.InterProc.Dest}
	case OpPhi:
		panic("ir: Phi instruction survived SSA-to-3Addr phi removal")
	case OpRead, OpWriteLn, OpNop, OpMarker:
	}
	return out
}

func fromSSABlock(b *SSABlock) *PreSSABlock {
	out := &PreSSABlock{FirstIndex: b.FirstIndex, Instrs: make([]PreSSAInstr, len(b.Instrs))}
	for i, in := range b.Instrs {
		out.Instrs[i] = fromSSAInstr(in)
	}
	return out
}

// FromSSAFunction downcasts an SSA function, whose phi instructions have
// already been removed and whose operands are already free of
// Subscribed references, back to the flat pre-SSA representation.
func FromSSAFunction(f *SSAFunction) *PreSSAFunction {
	out := &PreSSAFunction{ParameterCount: f.ParameterCount, LocalVarCount: f.LocalVarCount, EntryBlock: f.EntryBlock, Blocks: make([]*PreSSABlock, len(f.Blocks))}
	for i, b := range f.Blocks {
		out.Blocks[i] = fromSSABlock(b)
	}
	return out
}

// FromSSAFunctions downcasts an entire SSA program.
func FromSSAFunctions(fs *SSAFunctions) *PreSSAFunctions {
	out := &PreSSAFunctions{EntryFunction: fs.EntryFunction, Funcs: make([]*PreSSAFunction, len(fs.Funcs))}
	for i, f := range fs.Funcs {
		out.Funcs[i] = FromSSAFunction(f)
	}
	return out
}
