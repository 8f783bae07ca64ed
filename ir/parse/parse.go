// Package parse reads the textual TAC program format described by
// spec.md §6 into a flat, globally-indexed instruction stream. This is
// the one link in the pipeline spec.md §1 calls out as "assumed as an
// external collaborator" (the real grammar lives in an upstream loader
// this repo does not own); the grammar implemented here is this
// repository's own stand-in, chosen to be the literal textual inverse
// of ir.Operand.String()/ir.Instruction.String() so the CLI's `raw`
// target round-trips an input file byte-for-byte modulo whitespace.
package parse

import (
	"fmt"
	"strconv"
	"strings"

	"tacssa/ir"
)

// Error is a ParseError: the input text is malformed.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
}

// Stmt is one global-indexed statement of the flat, pre-partition
// instruction stream: an instruction together with the program-global
// index spec.md §3 says every statement carries. Branch/Call targets at
// this stage still name destination instruction indices (there are no
// blocks yet); ir/block.Partition resolves them to block indices.
type Stmt struct {
	Index int
	Instr ir.PreSSAInstr
}

// Program parses text into an ordered Stmt list. Each non-blank line
// has the form "<index>: <opcode> <args...>", the global index matching
// spec.md §3's "global, monotonic integer index" per statement.
func Program(text string) ([]Stmt, error) {
	var out []Stmt
	for lineNo, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idxPart, rest, ok := strings.Cut(line, ":")
		if !ok {
			return nil, &Error{Line: lineNo + 1, Msg: "missing ':' after index"}
		}
		idx, err := strconv.Atoi(strings.TrimSpace(idxPart))
		if err != nil {
			return nil, &Error{Line: lineNo + 1, Msg: fmt.Sprintf("bad index %q", idxPart)}
		}
		instr, err := parseInstr(strings.TrimSpace(rest))
		if err != nil {
			return nil, &Error{Line: lineNo + 1, Msg: err.Error()}
		}
		out = append(out, Stmt{Index: idx, Instr: instr})
	}
	return out, nil
}

func parseInstr(body string) (ir.PreSSAInstr, error) {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return ir.PreSSAInstr{}, fmt.Errorf("empty instruction")
	}
	op, args := fields[0], fields[1:]
	switch op {
	case "nop":
		return ir.Nop[ir.Operand](), nil
	case "read":
		return ir.PreSSAInstr{Kind: ir.OpRead}, nil
	case "writeln":
		return ir.PreSSAInstr{Kind: ir.OpWriteLn}, nil
	case "write":
		opd, err := want(args, 1, parseOperand)
		if err != nil {
			return ir.PreSSAInstr{}, err
		}
		return ir.PreSSAInstr{Kind: ir.OpWrite, Write: ir.WritePayload[ir.Operand]{Operand: opd[0]}}, nil
	case "load":
		opd, err := want(args, 1, parseOperand)
		if err != nil {
			return ir.PreSSAInstr{}, err
		}
		return ir.PreSSAInstr{Kind: ir.OpLoad, Load: ir.LoadPayload[ir.Operand]{Address: opd[0]}}, nil
	case "store":
		opd, err := want(args, 2, parseOperand)
		if err != nil {
			return ir.PreSSAInstr{}, err
		}
		return ir.PreSSAInstr{Kind: ir.OpStore, Store: ir.StorePayload[ir.Operand]{Data: opd[0], Address: opd[1]}}, nil
	case "move":
		opd, err := want(args, 2, parseOperand)
		if err != nil {
			return ir.PreSSAInstr{}, err
		}
		return ir.PreSSAInstr{Kind: ir.OpMove, Move: ir.MovePayload[ir.Operand]{Source: opd[0], Dest: opd[1]}}, nil
	case "goto":
		dest, err := parseBlockRef(args, 0)
		if err != nil {
			return ir.PreSSAInstr{}, err
		}
		return ir.PreSSAInstr{Kind: ir.OpBranch, Branch: ir.BranchPayload[ir.Operand]{Method: ir.BranchUnconditional, Dest: dest}}, nil
	case "if", "unless":
		if len(args) != 3 || args[1] != "goto" {
			return ir.PreSSAInstr{}, fmt.Errorf("%s: want '<opd> goto <dest>'", op)
		}
		cond, err := parseOperand(args[0])
		if err != nil {
			return ir.PreSSAInstr{}, err
		}
		dest, err := parseBlockRef(args, 2)
		if err != nil {
			return ir.PreSSAInstr{}, err
		}
		method := ir.BranchIf
		if op == "unless" {
			method = ir.BranchUnless
		}
		return ir.PreSSAInstr{Kind: ir.OpBranch, Branch: ir.BranchPayload[ir.Operand]{Method: method, Cond: cond, Dest: dest}}, nil
	case "push_param":
		opd, err := want(args, 1, parseOperand)
		if err != nil {
			return ir.PreSSAInstr{}, err
		}
		return ir.PreSSAInstr{Kind: ir.OpPushParam, InterProc: ir.InterProcPayload[ir.Operand]{Kind: ir.InterProcPushParam, Operand: opd[0]}}, nil
	case "call":
		dest, err := parseBlockRef(args, 0)
		if err != nil {
			return ir.PreSSAInstr{}, err
		}
		return ir.PreSSAInstr{Kind: ir.OpCall, InterProc: ir.InterProcPayload[ir.Operand]{Kind: ir.InterProcCall, Dest: dest}}, nil
	case "marker":
		if len(args) != 1 {
			return ir.PreSSAInstr{}, fmt.Errorf("marker: want exactly one token")
		}
		return ir.PreSSAInstr{Kind: ir.OpMarker, Marker: args[0]}, nil
	case "binary":
		if len(args) != 3 {
			return ir.PreSSAInstr{}, fmt.Errorf("binary: want '<op> <opd> <opd>'")
		}
		lhs, err := parseOperand(args[1])
		if err != nil {
			return ir.PreSSAInstr{}, err
		}
		rhs, err := parseOperand(args[2])
		if err != nil {
			return ir.PreSSAInstr{}, err
		}
		return ir.PreSSAInstr{Kind: ir.OpBinary, Binary: ir.BinaryPayload[ir.Operand]{Op: args[0], Lhs: lhs, Rhs: rhs}}, nil
	case "unary":
		if len(args) != 2 {
			return ir.PreSSAInstr{}, fmt.Errorf("unary: want '<op> <opd>'")
		}
		opd, err := parseOperand(args[1])
		if err != nil {
			return ir.PreSSAInstr{}, err
		}
		return ir.PreSSAInstr{Kind: ir.OpUnary, Unary: ir.UnaryPayload[ir.Operand]{Op: args[0], Operand: opd}}, nil
	default:
		return ir.PreSSAInstr{}, fmt.Errorf("unknown opcode %q", op)
	}
}

func want(args []string, n int, conv func(string) (ir.Operand, error)) ([]ir.Operand, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %d operand(s), got %d", n, len(args))
	}
	out := make([]ir.Operand, n)
	for i, a := range args {
		o, err := conv(a)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

func parseBlockRef(args []string, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing destination")
	}
	return strconv.Atoi(args[i])
}

// parseOperand is the literal inverse of ir.Operand.String(): an
// integer constant, a "name@offset" frame variable, a "%N" register
// reference, or a bare identifier general-purpose reference.
func parseOperand(tok string) (ir.Operand, error) {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return ir.ConstOperand(n), nil
	}
	if strings.HasPrefix(tok, "%") {
		n, err := strconv.Atoi(tok[1:])
		if err != nil {
			return ir.Operand{}, fmt.Errorf("bad register %q", tok)
		}
		return ir.RegisterOperand(n), nil
	}
	if name, offStr, ok := strings.Cut(tok, "@"); ok {
		off, err := strconv.ParseInt(offStr, 10, 64)
		if err != nil {
			return ir.Operand{}, fmt.Errorf("bad frame offset %q", tok)
		}
		return ir.VarOperand(name, off), nil
	}
	if tok == "" {
		return ir.Operand{}, fmt.Errorf("empty operand")
	}
	return ir.GPOperand(tok), nil
}
