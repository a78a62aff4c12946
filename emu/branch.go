package emu

import "github.com/sarchlab/mips5sim/insts"

// BranchTaken evaluates whether a resolved BEQ/BNE takes, given the ALU's
// zero flag from the SUB(rs, rt) comparison (spec §4.5): BEQ takes when
// zero is true, BNE takes when zero is false.
func BranchTaken(op insts.BranchOp, zero bool) bool {
	switch op {
	case insts.BranchBEQ:
		return zero
	case insts.BranchBNE:
		return !zero
	default:
		return false
	}
}

// BranchTarget computes the PC-relative target of a taken branch,
// measured from the slot after the branch (spec §4.5, §9): pc + 1 + imm.
func BranchTarget(pc int, imm int32) int {
	return pc + 1 + int(imm)
}

// JumpTarget computes the redirect target for J, JAL, and JR (spec
// §4.5). For J/JAL the target is the instruction's absolute Addr field;
// for JR it is the (forwarded) value of Rs.
func JumpTarget(op insts.JumpOp, addr int, rsVal int32) int {
	switch op {
	case insts.JumpJR:
		return int(rsVal)
	default:
		return addr
	}
}

// LinkValue is the return-address value JAL writes into register 31:
// the instruction index just past the jump (spec §4.5).
func LinkValue(pc int) int32 {
	return int32(pc + 1)
}
