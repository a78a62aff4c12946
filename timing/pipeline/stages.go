package pipeline

import (
	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/insts"
)

// FetchStage reads the next instruction out of program memory. Program
// memory is a flat instruction slice indexed by instruction count, separate
// from the word-addressed data memory emu.Memory: there is no self-modifying code in
// this design, so instructions never pass through the data memory's
// two-phase commit.
type FetchStage struct {
	program []*insts.Instruction
}

// NewFetchStage creates a fetch stage bound to a loaded program.
func NewFetchStage(program []*insts.Instruction) *FetchStage {
	return &FetchStage{program: program}
}

// Fetch returns the instruction at pc, or ok == false past the end of the
// program (the condition IsHalted checks against).
func (s *FetchStage) Fetch(pc int) (inst *insts.Instruction, ok bool) {
	if pc < 0 || pc >= len(s.program) {
		return nil, false
	}
	return s.program[pc], true
}

// DecodeStage decodes the instruction in IF/ID and reads its source
// registers, applying the same-cycle MEM/WB write-first bypass (spec
// §4.3).
type DecodeStage struct {
	regFile *emu.RegFile
}

// NewDecodeStage creates a decode stage bound to the architectural
// register file.
func NewDecodeStage(regFile *emu.RegFile) *DecodeStage {
	return &DecodeStage{regFile: regFile}
}

// Decode produces the ID/EX latch for the instruction currently in ifid.
// memwb is the *current* MEM/WB latch: its writeback commits to the
// register file at the end of this very cycle, so decode must already
// see it to get classic MIPS write-first timing.
func (s *DecodeStage) Decode(ifid *IFIDRegister, memwb *MEMWBRegister) IDEXRegister {
	if !ifid.Valid || ifid.RawInstr == nil {
		return IDEXRegister{}
	}

	inst := ifid.RawInstr
	ctrl := insts.Decode(inst)

	return IDEXRegister{
		Valid:    true,
		PC:       ifid.PC,
		ValRs:    s.readWithBypass(inst.Rs, memwb),
		ValRt:    s.readWithBypass(inst.Rt, memwb),
		Imm:      inst.Imm,
		Addr:     inst.Addr,
		Rs:       inst.Rs,
		Rt:       inst.Rt,
		Ctrl:     ctrl,
		RawInstr: inst,
	}
}

func (s *DecodeStage) readWithBypass(reg int, memwb *MEMWBRegister) int32 {
	if reg != 0 && memwb.Valid && memwb.Ctrl.RegWrite && memwb.Ctrl.DestReg == reg {
		if memwb.Ctrl.MemToReg {
			return memwb.MemData
		}
		return memwb.ALUResult
	}
	return s.regFile.Read(reg)
}

// ExecuteStage drives the ALU, resolves operand forwarding, and decides
// control-flow redirects. It holds no state of its own: every input it
// needs arrives as an argument, since it must see latches belonging to
// both the current cycle and, for the load-in-flight path, the next one
// (spec §4.5).
type ExecuteStage struct{}

// NewExecuteStage creates an execute stage.
func NewExecuteStage() *ExecuteStage {
	return &ExecuteStage{}
}

// ExecuteResult bundles the EX/MEM.next latch with the control-flow
// redirect decision, which the pipeline driver applies to pc_next and
// the younger latches rather than storing in EX/MEM itself.
type ExecuteResult struct {
	ExMem          EXMEMRegister
	RedirectTaken  bool
	RedirectTarget int
}

// Execute evaluates the instruction in idex. exmem and memwb are the
// *current* EX/MEM and MEM/WB latches, used by the ordinary forwarding
// unit; nextMemWB is the MEM/WB latch MEM just computed this same cycle,
// consulted only for the load-to-EX in-flight override.
func (s *ExecuteStage) Execute(idex *IDEXRegister, exmem *EXMEMRegister, memwb *MEMWBRegister, nextMemWB *MEMWBRegister, fwd ForwardingResult) ExecuteResult {
	if !idex.Valid {
		return ExecuteResult{}
	}

	valA := GetForwardedValue(fwd.ForwardRs, idex.ValRs, exmem, memwb)
	valB := GetForwardedValue(fwd.ForwardRt, idex.ValRt, exmem, memwb)

	if exmem.Valid && exmem.Ctrl.MemRead && exmem.Ctrl.RegWrite && exmem.Ctrl.DestReg != 0 &&
		nextMemWB.Valid && nextMemWB.Ctrl.MemToReg {
		if idex.Rs == exmem.Ctrl.DestReg {
			valA = nextMemWB.MemData
		}
		if idex.Rt == exmem.Ctrl.DestReg {
			valB = nextMemWB.MemData
		}
	}

	operand2 := valB
	if idex.Ctrl.AluSrcImm {
		operand2 = idex.Imm
	}
	aluResult := emu.ALU(idex.Ctrl.AluOp, valA, operand2)

	result := ExecuteResult{
		ExMem: EXMEMRegister{
			Valid:        true,
			ALUResult:    aluResult,
			ValRt:        valB,
			BranchTarget: emu.BranchTarget(idex.PC, idex.Imm),
			Zero:         aluResult == 0,
			Ctrl:         idex.Ctrl,
			RawInstr:     idex.RawInstr,
		},
	}

	switch idex.Ctrl.Jump {
	case insts.JumpJ:
		result.RedirectTaken = true
		result.RedirectTarget = idex.Addr
	case insts.JumpJAL:
		result.ExMem.ALUResult = emu.LinkValue(idex.PC)
		result.RedirectTaken = true
		result.RedirectTarget = idex.Addr
	case insts.JumpJR:
		result.RedirectTaken = true
		result.RedirectTarget = emu.JumpTarget(insts.JumpJR, idex.Addr, valA)
	default:
		if emu.BranchTaken(idex.Ctrl.Branch, result.ExMem.Zero) {
			result.RedirectTaken = true
			result.RedirectTarget = result.ExMem.BranchTarget
		}
	}

	return result
}

// MemoryStage performs the LW/SW data access for the instruction in
// EX/MEM. Stores go through Memory.WriteNext; the pipeline driver commits
// them once per tick alongside the register file.
type MemoryStage struct {
	memory *emu.Memory
}

// NewMemoryStage creates a memory stage bound to data memory.
func NewMemoryStage(memory *emu.Memory) *MemoryStage {
	return &MemoryStage{memory: memory}
}

// Access produces the MEM/WB.next latch for the instruction in exmem.
func (s *MemoryStage) Access(exmem *EXMEMRegister) MEMWBRegister {
	if !exmem.Valid {
		return MEMWBRegister{}
	}

	result := MEMWBRegister{
		Valid:     true,
		ALUResult: exmem.ALUResult,
		Ctrl:      exmem.Ctrl,
		RawInstr:  exmem.RawInstr,
	}

	switch {
	case exmem.Ctrl.MemRead:
		result.MemData = s.memory.Read(exmem.ALUResult)
	case exmem.Ctrl.MemWrite:
		s.memory.WriteNext(exmem.ALUResult, exmem.ValRt)
	}

	return result
}

// WritebackStage commits the final result of an instruction into the
// register file's pending write.
type WritebackStage struct {
	regFile *emu.RegFile
}

// NewWritebackStage creates a writeback stage bound to the register file.
func NewWritebackStage(regFile *emu.RegFile) *WritebackStage {
	return &WritebackStage{regFile: regFile}
}

// Writeback stages the result in memwb for commit at end-of-tick.
func (s *WritebackStage) Writeback(memwb *MEMWBRegister) {
	if !memwb.Valid || !memwb.Ctrl.RegWrite {
		return
	}

	value := memwb.ALUResult
	if memwb.Ctrl.MemToReg {
		value = memwb.MemData
	}
	s.regFile.WriteNext(memwb.Ctrl.DestReg, value)
}
