// Package ir holds the data model of the three-address program: operands,
// instructions, blocks, functions, and the SSA variants of the first two.
package ir

import "fmt"

// OperandKind tags the variant of a pre-SSA Operand.
type OperandKind int

const (
	// OperandConst is an immediate integer constant.
	OperandConst OperandKind = iota
	// OperandVar is a named variable at a fixed frame offset. Parameters
	// sit at positive offsets 8*(i+2); locals at negative offsets.
	OperandVar
	// OperandRegister references the value produced by instruction Register.
	OperandRegister
	// OperandGP is a named general-purpose reference (e.g. a base pointer).
	OperandGP
)

// Operand is a pre-SSA operand: constant, frame variable, register
// reference, or general-purpose named reference. It is a flat tagged
// union rather than an interface hierarchy so every cross-cutting pass
// (panning, substitution) can dispatch with a single switch on Kind.
type Operand struct {
	Kind     OperandKind
	Const    int64  // valid when Kind == OperandConst
	Var      string // valid when Kind == OperandVar or OperandGP
	Offset   int64  // valid when Kind == OperandVar
	Register int    // valid when Kind == OperandRegister
}

func ConstOperand(v int64) Operand { return Operand{Kind: OperandConst, Const: v} }
func VarOperand(name string, offset int64) Operand {
	return Operand{Kind: OperandVar, Var: name, Offset: offset}
}
func RegisterOperand(idx int) Operand { return Operand{Kind: OperandRegister, Register: idx} }
func GPOperand(name string) Operand   { return Operand{Kind: OperandGP, Var: name} }

func (o Operand) String() string {
	switch o.Kind {
	case OperandConst:
		return fmt.Sprintf("%d", o.Const)
	case OperandVar:
		return fmt.Sprintf("%s@%d", o.Var, o.Offset)
	case OperandRegister:
		return fmt.Sprintf("%%%d", o.Register)
	case OperandGP:
		return o.Var
	default:
		return "<bad-operand>"
	}
}

// SSAOperandKind tags the variant of an SSA-level operand.
type SSAOperandKind int

const (
	// SSAPlain wraps an unchanged pre-SSA Operand.
	SSAPlain SSAOperandKind = iota
	// SSASubscribed is a renamed source variable, var$subscript. Subscript
	// -1 means "undefined on this path".
	SSASubscribed
)

// SSAOperand is either a pre-SSA Operand (unchanged) or a Subscribed
// variable reference. Comparable, so it can be used as a map key in
// constant-propagation's substitution table.
type SSAOperand struct {
	Kind       SSAOperandKind
	Operand    Operand // valid when Kind == SSAPlain
	Var        string  // valid when Kind == SSASubscribed
	Subscript  int     // valid when Kind == SSASubscribed
}

func Plain(op Operand) SSAOperand { return SSAOperand{Kind: SSAPlain, Operand: op} }
func Subscribed(v string, subscript int) SSAOperand {
	return SSAOperand{Kind: SSASubscribed, Var: v, Subscript: subscript}
}

// Undefined reports whether the operand is a Subscribed reference with
// subscript -1 (undefined on this control-flow path).
func (o SSAOperand) Undefined() bool {
	return o.Kind == SSASubscribed && o.Subscript < 0
}

// AsConst reports the constant value of o and true, if o is a plain
// constant operand.
func (o SSAOperand) AsConst() (int64, bool) {
	if o.Kind == SSAPlain && o.Operand.Kind == OperandConst {
		return o.Operand.Const, true
	}
	return 0, false
}

func (o SSAOperand) String() string {
	switch o.Kind {
	case SSAPlain:
		return o.Operand.String()
	case SSASubscribed:
		return fmt.Sprintf("%s$%d", o.Var, o.Subscript)
	default:
		return "<bad-ssa-operand>"
	}
}
