package emu

import "github.com/sarchlab/mips5sim/insts"

// ALU is a pure function over two already-forwarded operands (spec
// §4.5). Unlike a register-file-coupled ALU, the EX stage resolves
// forwarding before calling ALU, so the ALU itself never touches the
// register file.
func ALU(op insts.AluOp, a, b int32) int32 {
	switch op {
	case insts.AluADD:
		return a + b
	case insts.AluSUB:
		return a - b
	case insts.AluAND:
		return a & b
	case insts.AluOR:
		return a | b
	case insts.AluXOR:
		return a ^ b
	case insts.AluSLT:
		if a < b {
			return 1
		}
		return 0
	case insts.AluNONE:
		return 0
	default:
		return 0
	}
}
