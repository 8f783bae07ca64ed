// Package function implements function grouping (splitting a partitioned
// block list into per-function units at Marker delimiters), call-target
// resolution, and parameter-name recovery.
package function

import "tacssa/ir"

// ScanParameters reconstructs parameter names for f by scanning every
// operand of every instruction for a positive-offset Var reference
// (the upstream IR carries frame offsets but no parameter name list).
// Offset o corresponds to parameter index o/8 - 2. Slots never
// referenced are left as the "<unknown>" placeholder.
func ScanParameters(f *ir.PreSSAFunction) []string {
	params := make([]string, f.ParameterCount)
	for i := range params {
		params[i] = "<unknown>"
	}
	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			for _, opd := range in.Uses() {
				assignParam(params, opd)
			}
			if d, ok := in.DefVar(); ok {
				assignParam(params, d)
			}
		}
	}
	return params
}

func assignParam(params []string, opd ir.Operand) {
	if opd.Kind != ir.OperandVar || opd.Offset <= 0 {
		return
	}
	idx := int(opd.Offset/8 - 2)
	if idx >= 0 && idx < len(params) {
		params[idx] = opd.Var
	}
}
