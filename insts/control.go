package insts

// ControlSignals is the flat record attached to an instruction once
// decoded (spec §3). It is the single source of truth for what every
// downstream stage does with a given instruction; Decode is a pure
// function of the instruction with no fall-through behavior.
type ControlSignals struct {
	RegWrite  bool
	MemRead   bool
	MemWrite  bool
	MemToReg  bool
	AluSrcImm bool
	AluOp     AluOp
	Branch    BranchOp
	Jump      JumpOp
	DestReg   int // -1 if the instruction writes no register.
}

// controlTable is the static opcode -> control-signals mapping of spec
// §4.2. An opcode with no row here is decoded by Decode to the NOP row
// (all-false control, AluOp NONE, DestReg -1).
var controlTable = map[Op]func(inst *Instruction) ControlSignals{
	OpADD: func(inst *Instruction) ControlSignals {
		return ControlSignals{RegWrite: true, AluOp: AluADD, DestReg: inst.Rd}
	},
	OpSUB: func(inst *Instruction) ControlSignals {
		return ControlSignals{RegWrite: true, AluOp: AluSUB, DestReg: inst.Rd}
	},
	OpAND: func(inst *Instruction) ControlSignals {
		return ControlSignals{RegWrite: true, AluOp: AluAND, DestReg: inst.Rd}
	},
	OpOR: func(inst *Instruction) ControlSignals {
		return ControlSignals{RegWrite: true, AluOp: AluOR, DestReg: inst.Rd}
	},
	OpXOR: func(inst *Instruction) ControlSignals {
		return ControlSignals{RegWrite: true, AluOp: AluXOR, DestReg: inst.Rd}
	},
	OpSLT: func(inst *Instruction) ControlSignals {
		return ControlSignals{RegWrite: true, AluOp: AluSLT, DestReg: inst.Rd}
	},
	OpADDI: func(inst *Instruction) ControlSignals {
		return ControlSignals{RegWrite: true, AluSrcImm: true, AluOp: AluADD, DestReg: inst.Rt}
	},
	OpANDI: func(inst *Instruction) ControlSignals {
		return ControlSignals{RegWrite: true, AluSrcImm: true, AluOp: AluAND, DestReg: inst.Rt}
	},
	OpORI: func(inst *Instruction) ControlSignals {
		return ControlSignals{RegWrite: true, AluSrcImm: true, AluOp: AluOR, DestReg: inst.Rt}
	},
	OpLW: func(inst *Instruction) ControlSignals {
		return ControlSignals{
			RegWrite: true, MemRead: true, MemToReg: true,
			AluSrcImm: true, AluOp: AluADD, DestReg: inst.Rt,
		}
	},
	OpSW: func(inst *Instruction) ControlSignals {
		return ControlSignals{MemWrite: true, AluSrcImm: true, AluOp: AluADD, DestReg: -1}
	},
	OpBEQ: func(inst *Instruction) ControlSignals {
		return ControlSignals{AluOp: AluSUB, Branch: BranchBEQ, DestReg: -1}
	},
	OpBNE: func(inst *Instruction) ControlSignals {
		return ControlSignals{AluOp: AluSUB, Branch: BranchBNE, DestReg: -1}
	},
	OpJ: func(inst *Instruction) ControlSignals {
		return ControlSignals{Jump: JumpJ, DestReg: -1}
	},
	OpJAL: func(inst *Instruction) ControlSignals {
		return ControlSignals{RegWrite: true, Jump: JumpJAL, DestReg: 31}
	},
	OpJR: func(inst *Instruction) ControlSignals {
		return ControlSignals{Jump: JumpJR, DestReg: -1}
	},
}

// Decode maps an Instruction to its ControlSignals. An unrecognized
// opcode (including OpNOP and any future unknown value) decodes to the
// all-false NOP row.
func Decode(inst *Instruction) ControlSignals {
	if inst == nil {
		return ControlSignals{DestReg: -1}
	}
	if fn, ok := controlTable[inst.Op]; ok {
		return fn(inst)
	}
	return ControlSignals{DestReg: -1}
}
