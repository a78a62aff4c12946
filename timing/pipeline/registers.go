// Package pipeline implements the 5-stage MIPS-I pipeline: IF, ID, EX,
// MEM, WB, four inter-stage latches, a split hazard/forwarding unit, and
// the Tick driver that ties them together under a two-phase commit
// discipline (spec §2, §4).
package pipeline

import (
	"github.com/sarchlab/mips5sim/insts"
)

// IFIDRegister holds state between Fetch and Decode.
type IFIDRegister struct {
	Valid    bool
	PC       int
	RawInstr *insts.Instruction
}

// Clear marks the latch a bubble (spec: "a latch with valid == false is
// semantically a bubble").
func (r *IFIDRegister) Clear() {
	*r = IFIDRegister{}
}

// IDEXRegister holds state between Decode and Execute.
type IDEXRegister struct {
	Valid bool
	PC    int

	ValRs int32
	ValRt int32
	Imm   int32
	Addr  int
	Rs    int
	Rt    int

	Ctrl     insts.ControlSignals
	RawInstr *insts.Instruction
}

// Clear marks the latch a bubble.
func (r *IDEXRegister) Clear() {
	*r = IDEXRegister{}
}

// EXMEMRegister holds state between Execute and Memory.
type EXMEMRegister struct {
	Valid bool

	ALUResult    int32
	ValRt        int32
	BranchTarget int

	Zero bool

	Ctrl     insts.ControlSignals
	RawInstr *insts.Instruction
}

// Clear marks the latch a bubble.
func (r *EXMEMRegister) Clear() {
	*r = EXMEMRegister{}
}

// MEMWBRegister holds state between Memory and Writeback.
type MEMWBRegister struct {
	Valid bool

	ALUResult int32
	MemData   int32

	Ctrl     insts.ControlSignals
	RawInstr *insts.Instruction
}

// Clear marks the latch a bubble.
func (r *MEMWBRegister) Clear() {
	*r = MEMWBRegister{}
}
