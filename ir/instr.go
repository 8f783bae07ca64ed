package ir

import (
	"fmt"
	"strings"
)

// Opcode tags the variant of an Instruction.
type Opcode int

const (
	OpBinary Opcode = iota
	OpUnary
	OpBranch
	OpLoad
	OpStore
	OpMove
	OpRead
	OpWrite
	OpWriteLn
	OpPushParam
	OpCall
	OpNop
	OpMarker
	OpPhi
)

func (k Opcode) String() string {
	switch k {
	case OpBinary:
		return "binary"
	case OpUnary:
		return "unary"
	case OpBranch:
		return "branch"
	case OpLoad:
		return "load"
	case OpStore:
		return "store"
	case OpMove:
		return "move"
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpWriteLn:
		return "writeln"
	case OpPushParam:
		return "push_param"
	case OpCall:
		return "call"
	case OpNop:
		return "nop"
	case OpMarker:
		return "marker"
	case OpPhi:
		return "phi"
	default:
		return "<bad-opcode>"
	}
}

// BranchMethod is the kind of a Branch instruction's terminator behaviour.
type BranchMethod int

const (
	BranchUnconditional BranchMethod = iota
	BranchIf
	BranchUnless
)

// BinaryPayload is the payload of a Binary instruction.
type BinaryPayload[O comparable] struct {
	Op       string
	Lhs, Rhs O
}

// UnaryPayload is the payload of a Unary instruction.
type UnaryPayload[O comparable] struct {
	Op      string
	Operand O
}

// BranchPayload is the payload of a Branch instruction. Dest is always a
// block index, never a register reference, so it is untouched by panning.
type BranchPayload[O comparable] struct {
	Method BranchMethod
	Cond   O // meaningful only for If/Unless
	Dest   int
}

// LoadPayload is the payload of a Load instruction.
type LoadPayload[O comparable] struct {
	Address O
}

// StorePayload is the payload of a Store instruction.
type StorePayload[O comparable] struct {
	Data    O
	Address O
}

// MovePayload is the payload of a Move instruction.
type MovePayload[O comparable] struct {
	Source O
	Dest   O
}

// WritePayload is the payload of a Write instruction.
type WritePayload[O comparable] struct {
	Operand O
}

// InterProcKind distinguishes the two InterProc sub-forms.
type InterProcKind int

const (
	InterProcPushParam InterProcKind = iota
	InterProcCall
)

// InterProcPayload is the payload of a PushParam/Call instruction.
type InterProcPayload[O comparable] struct {
	Kind    InterProcKind
	Operand O // valid for PushParam
	Dest    int // valid for Call: callee function index once ir/function.Group has resolved it
}

// Phi is the synthetic SSA phi instruction payload: three parallel
// sequences (Vars, Blocks) plus a single Dest.
type Phi[O comparable] struct {
	Vars   []O
	Blocks []int
	Dest   O
}

// Instruction is a tagged union over the fixed opcode set. O is the
// operand type instantiation: Operand for the pre-SSA IR, SSAOperand
// once phi placement has run.
type Instruction[O comparable] struct {
	Kind Opcode

	Binary    BinaryPayload[O]
	Unary     UnaryPayload[O]
	Branch    BranchPayload[O]
	Load      LoadPayload[O]
	Store     StorePayload[O]
	Move      MovePayload[O]
	Write     WritePayload[O]
	InterProc InterProcPayload[O]
	Marker    string
	Phi       Phi[O]
}

func Nop[O comparable]() Instruction[O] { return Instruction[O]{Kind: OpNop} }

// Uses returns the instruction's read operands, in a fixed deterministic
// order, excluding the write side of Move/Phi (see DefVar). This is the
// "referenced operands" set used by renaming, constant-folding
// substitution, and loop-invariant's invariance check.
func (in Instruction[O]) Uses() []O {
	switch in.Kind {
	case OpBinary:
		return []O{in.Binary.Lhs, in.Binary.Rhs}
	case OpUnary:
		return []O{in.Unary.Operand}
	case OpBranch:
		if in.Branch.Method != BranchUnconditional {
			return []O{in.Branch.Cond}
		}
		return nil
	case OpLoad:
		return []O{in.Load.Address}
	case OpStore:
		return []O{in.Store.Data, in.Store.Address}
	case OpMove:
		return []O{in.Move.Source}
	case OpWrite:
		return []O{in.Write.Operand}
	case OpPushParam:
		return []O{in.InterProc.Operand}
	case OpPhi:
		out := make([]O, len(in.Phi.Vars))
		copy(out, in.Phi.Vars)
		return out
	default:
		return nil
	}
}

// SetUses writes back operands in the same order Uses returned them.
// Panics if len(vals) does not match what Uses would return.
func (in *Instruction[O]) SetUses(vals []O) {
	switch in.Kind {
	case OpBinary:
		in.Binary.Lhs, in.Binary.Rhs = vals[0], vals[1]
	case OpUnary:
		in.Unary.Operand = vals[0]
	case OpBranch:
		if in.Branch.Method != BranchUnconditional {
			in.Branch.Cond = vals[0]
		}
	case OpLoad:
		in.Load.Address = vals[0]
	case OpStore:
		in.Store.Data, in.Store.Address = vals[0], vals[1]
	case OpMove:
		in.Move.Source = vals[0]
	case OpWrite:
		in.Write.Operand = vals[0]
	case OpPushParam:
		in.InterProc.Operand = vals[0]
	case OpPhi:
		copy(in.Phi.Vars, vals)
	}
}

// DefVar returns the operand an instruction defines (Move.Dest or
// Phi.Dest) and true, or the zero value and false for every other kind.
func (in Instruction[O]) DefVar() (O, bool) {
	switch in.Kind {
	case OpMove:
		return in.Move.Dest, true
	case OpPhi:
		return in.Phi.Dest, true
	default:
		var zero O
		return zero, false
	}
}

// SetDefVar rewrites the operand an instruction defines. No-op for
// instruction kinds with no def operand.
func (in *Instruction[O]) SetDefVar(v O) {
	switch in.Kind {
	case OpMove:
		in.Move.Dest = v
	case OpPhi:
		in.Phi.Dest = v
	}
}

// MapOperands returns a copy of the instruction with every operand-bearing
// field (uses and defs alike) rewritten by f. Safe to apply blindly to
// def fields too, since f is expected to be the identity outside the
// cases it targets (e.g. index panning only rewrites Register operands).
func (in Instruction[O]) MapOperands(f func(O) O) Instruction[O] {
	out := in
	switch in.Kind {
	case OpBinary:
		out.Binary.Lhs, out.Binary.Rhs = f(in.Binary.Lhs), f(in.Binary.Rhs)
	case OpUnary:
		out.Unary.Operand = f(in.Unary.Operand)
	case OpBranch:
		if in.Branch.Method != BranchUnconditional {
			out.Branch.Cond = f(in.Branch.Cond)
		}
	case OpLoad:
		out.Load.Address = f(in.Load.Address)
	case OpStore:
		out.Store.Data, out.Store.Address = f(in.Store.Data), f(in.Store.Address)
	case OpMove:
		out.Move.Source, out.Move.Dest = f(in.Move.Source), f(in.Move.Dest)
	case OpWrite:
		out.Write.Operand = f(in.Write.Operand)
	case OpPushParam:
		out.InterProc.Operand = f(in.InterProc.Operand)
	case OpPhi:
		out.Phi.Vars = make([]O, len(in.Phi.Vars))
		for i, v := range in.Phi.Vars {
			out.Phi.Vars[i] = f(v)
		}
		out.Phi.Dest = f(in.Phi.Dest)
	}
	return out
}

// IsTerminator reports whether the instruction is a block terminator
// under the CFG's terminator contract: only Branch is; every other
// opcode lets control fall through.
func (in Instruction[O]) IsTerminator() bool {
	return in.Kind == OpBranch
}

func formatOperand(o any) string {
	type stringer interface{ String() string }
	if s, ok := o.(stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", o)
}

// String renders one instruction, without its leading global index, in
// the textual form described by the external-interface output format:
// opcode keyword followed by space-separated operands, `phi` listing its
// vars, a bare `nop`/`writeln`/`read` for zero-operand forms.
func (in Instruction[O]) String() string {
	switch in.Kind {
	case OpBinary:
		return fmt.Sprintf("binary %s %s %s", in.Binary.Op, formatOperand(in.Binary.Lhs), formatOperand(in.Binary.Rhs))
	case OpUnary:
		return fmt.Sprintf("unary %s %s", in.Unary.Op, formatOperand(in.Unary.Operand))
	case OpBranch:
		switch in.Branch.Method {
		case BranchUnconditional:
			return fmt.Sprintf("goto %d", in.Branch.Dest)
		case BranchIf:
			return fmt.Sprintf("if %s goto %d", formatOperand(in.Branch.Cond), in.Branch.Dest)
		default:
			return fmt.Sprintf("unless %s goto %d", formatOperand(in.Branch.Cond), in.Branch.Dest)
		}
	case OpLoad:
		return fmt.Sprintf("load %s", formatOperand(in.Load.Address))
	case OpStore:
		return fmt.Sprintf("store %s %s", formatOperand(in.Store.Data), formatOperand(in.Store.Address))
	case OpMove:
		return fmt.Sprintf("move %s %s", formatOperand(in.Move.Source), formatOperand(in.Move.Dest))
	case OpRead:
		return "read"
	case OpWrite:
		return fmt.Sprintf("write %s", formatOperand(in.Write.Operand))
	case OpWriteLn:
		return "writeln"
	case OpPushParam:
		return fmt.Sprintf("push_param %s", formatOperand(in.InterProc.Operand))
	case OpCall:
		return fmt.Sprintf("call %d", in.InterProc.Dest)
	case OpNop:
		return "nop"
	case OpMarker:
		return fmt.Sprintf("marker %s", in.Marker)
	case OpPhi:
		parts := make([]string, 0, len(in.Phi.Vars))
		for _, v := range in.Phi.Vars {
			parts = append(parts, formatOperand(v))
		}
		return "phi " + strings.Join(parts, " ")
	default:
		return "<bad-instruction>"
	}
}
