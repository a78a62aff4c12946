package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/insts"
	"github.com/sarchlab/mips5sim/timing/pipeline"
)

var _ = Describe("FetchStage", func() {
	It("fetches in-range instructions and reports out-of-range as not ok", func() {
		program := []*insts.Instruction{{Op: insts.OpNOP}, {Op: insts.OpADD}}
		fetch := pipeline.NewFetchStage(program)

		inst, ok := fetch.Fetch(0)
		Expect(ok).To(BeTrue())
		Expect(inst.Op).To(Equal(insts.OpNOP))

		_, ok = fetch.Fetch(2)
		Expect(ok).To(BeFalse())

		_, ok = fetch.Fetch(-1)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("DecodeStage", func() {
	var regFile *emu.RegFile
	var decode *pipeline.DecodeStage

	BeforeEach(func() {
		regFile = emu.NewRegFile()
		decode = pipeline.NewDecodeStage(regFile)
	})

	It("returns an invalid latch for an invalid IF/ID", func() {
		result := decode.Decode(&pipeline.IFIDRegister{Valid: false}, &pipeline.MEMWBRegister{})
		Expect(result.Valid).To(BeFalse())
	})

	It("reads source registers from the register file", func() {
		regFile.WriteNext(3, 10)
		regFile.Commit()
		regFile.WriteNext(4, 20)
		regFile.Commit()

		ifid := &pipeline.IFIDRegister{Valid: true, PC: 0, RawInstr: &insts.Instruction{Op: insts.OpADD, Rs: 3, Rt: 4, Rd: 5}}
		result := decode.Decode(ifid, &pipeline.MEMWBRegister{})

		Expect(result.Valid).To(BeTrue())
		Expect(result.ValRs).To(Equal(int32(10)))
		Expect(result.ValRt).To(Equal(int32(20)))
		Expect(result.Ctrl.DestReg).To(Equal(5))
	})

	It("bypasses a same-cycle MEM/WB writeback ahead of the stale register file value", func() {
		regFile.WriteNext(3, 1)
		regFile.Commit()

		memwb := &pipeline.MEMWBRegister{
			Valid: true, ALUResult: 99,
			Ctrl: insts.ControlSignals{RegWrite: true, DestReg: 3},
		}
		ifid := &pipeline.IFIDRegister{Valid: true, RawInstr: &insts.Instruction{Op: insts.OpADD, Rs: 3, Rt: 0}}
		result := decode.Decode(ifid, memwb)

		Expect(result.ValRs).To(Equal(int32(99)))
	})

	It("bypasses the loaded word, not the address ALU result, when MemToReg is set", func() {
		memwb := &pipeline.MEMWBRegister{
			Valid: true, ALUResult: 5, MemData: 77,
			Ctrl: insts.ControlSignals{RegWrite: true, MemToReg: true, DestReg: 6},
		}
		ifid := &pipeline.IFIDRegister{Valid: true, RawInstr: &insts.Instruction{Op: insts.OpADD, Rs: 6, Rt: 0}}
		result := decode.Decode(ifid, memwb)

		Expect(result.ValRs).To(Equal(int32(77)))
	})

	It("never bypasses the zero register", func() {
		memwb := &pipeline.MEMWBRegister{Valid: true, ALUResult: 99, Ctrl: insts.ControlSignals{RegWrite: true, DestReg: 0}}
		ifid := &pipeline.IFIDRegister{Valid: true, RawInstr: &insts.Instruction{Op: insts.OpADD, Rs: 0, Rt: 0}}
		result := decode.Decode(ifid, memwb)

		Expect(result.ValRs).To(Equal(int32(0)))
	})
})

var _ = Describe("ExecuteStage", func() {
	var execute *pipeline.ExecuteStage

	BeforeEach(func() {
		execute = pipeline.NewExecuteStage()
	})

	It("returns an empty result for an invalid ID/EX", func() {
		result := execute.Execute(&pipeline.IDEXRegister{Valid: false}, &pipeline.EXMEMRegister{}, &pipeline.MEMWBRegister{}, &pipeline.MEMWBRegister{}, pipeline.ForwardingResult{})
		Expect(result.ExMem.Valid).To(BeFalse())
		Expect(result.RedirectTaken).To(BeFalse())
	})

	It("computes the ALU result for a register-register op with no forwarding", func() {
		idex := &pipeline.IDEXRegister{
			Valid: true, ValRs: 3, ValRt: 4,
			Ctrl: insts.ControlSignals{RegWrite: true, AluOp: insts.AluADD, DestReg: 1},
		}
		result := execute.Execute(idex, &pipeline.EXMEMRegister{}, &pipeline.MEMWBRegister{}, &pipeline.MEMWBRegister{}, pipeline.ForwardingResult{})
		Expect(result.ExMem.Valid).To(BeTrue())
		Expect(result.ExMem.ALUResult).To(Equal(int32(7)))
	})

	It("uses the immediate operand when AluSrcImm is set", func() {
		idex := &pipeline.IDEXRegister{
			Valid: true, ValRs: 3, Imm: 10,
			Ctrl: insts.ControlSignals{RegWrite: true, AluSrcImm: true, AluOp: insts.AluADD, DestReg: 1},
		}
		result := execute.Execute(idex, &pipeline.EXMEMRegister{}, &pipeline.MEMWBRegister{}, &pipeline.MEMWBRegister{}, pipeline.ForwardingResult{})
		Expect(result.ExMem.ALUResult).To(Equal(int32(13)))
	})

	It("forwards an operand from EX/MEM when instructed", func() {
		idex := &pipeline.IDEXRegister{
			Valid: true, ValRs: 999, ValRt: 4,
			Ctrl: insts.ControlSignals{RegWrite: true, AluOp: insts.AluADD, DestReg: 1},
		}
		exmem := &pipeline.EXMEMRegister{Valid: true, ALUResult: 100}
		result := execute.Execute(idex, exmem, &pipeline.MEMWBRegister{}, &pipeline.MEMWBRegister{}, pipeline.ForwardingResult{ForwardRs: pipeline.ForwardFromEXMEM})
		Expect(result.ExMem.ALUResult).To(Equal(int32(104)))
	})

	It("overrides an operand with the in-flight load result via next MEM/WB", func() {
		idex := &pipeline.IDEXRegister{
			Valid: true, Rs: 2, ValRs: 999, ValRt: 0,
			Ctrl: insts.ControlSignals{RegWrite: true, AluOp: insts.AluADD, DestReg: 1},
		}
		exmem := &pipeline.EXMEMRegister{
			Valid: true,
			Ctrl:  insts.ControlSignals{MemRead: true, RegWrite: true, DestReg: 2},
		}
		nextMemWB := &pipeline.MEMWBRegister{Valid: true, MemData: 55, Ctrl: insts.ControlSignals{MemToReg: true}}
		result := execute.Execute(idex, exmem, &pipeline.MEMWBRegister{}, nextMemWB, pipeline.ForwardingResult{})
		Expect(result.ExMem.ALUResult).To(Equal(int32(55)))
	})

	It("sets the zero flag when the ALU result is zero, for BEQ/BNE comparisons", func() {
		idex := &pipeline.IDEXRegister{
			Valid: true, ValRs: 5, ValRt: 5, Imm: 3, PC: 10,
			Ctrl: insts.ControlSignals{AluOp: insts.AluSUB, Branch: insts.BranchBEQ, DestReg: -1},
		}
		result := execute.Execute(idex, &pipeline.EXMEMRegister{}, &pipeline.MEMWBRegister{}, &pipeline.MEMWBRegister{}, pipeline.ForwardingResult{})
		Expect(result.ExMem.Zero).To(BeTrue())
		Expect(result.RedirectTaken).To(BeTrue())
		Expect(result.RedirectTarget).To(Equal(14))
	})

	It("does not redirect a BEQ whose operands differ", func() {
		idex := &pipeline.IDEXRegister{
			Valid: true, ValRs: 5, ValRt: 6, PC: 10,
			Ctrl: insts.ControlSignals{AluOp: insts.AluSUB, Branch: insts.BranchBEQ, DestReg: -1},
		}
		result := execute.Execute(idex, &pipeline.EXMEMRegister{}, &pipeline.MEMWBRegister{}, &pipeline.MEMWBRegister{}, pipeline.ForwardingResult{})
		Expect(result.RedirectTaken).To(BeFalse())
	})

	It("redirects unconditionally for J to the instruction's Addr field", func() {
		idex := &pipeline.IDEXRegister{Valid: true, Addr: 42, Ctrl: insts.ControlSignals{Jump: insts.JumpJ, DestReg: -1}}
		result := execute.Execute(idex, &pipeline.EXMEMRegister{}, &pipeline.MEMWBRegister{}, &pipeline.MEMWBRegister{}, pipeline.ForwardingResult{})
		Expect(result.RedirectTaken).To(BeTrue())
		Expect(result.RedirectTarget).To(Equal(42))
	})

	It("links the return address for JAL and redirects to Addr", func() {
		idex := &pipeline.IDEXRegister{Valid: true, PC: 7, Addr: 42, Ctrl: insts.ControlSignals{Jump: insts.JumpJAL, RegWrite: true, DestReg: 31}}
		result := execute.Execute(idex, &pipeline.EXMEMRegister{}, &pipeline.MEMWBRegister{}, &pipeline.MEMWBRegister{}, pipeline.ForwardingResult{})
		Expect(result.ExMem.ALUResult).To(Equal(int32(8)))
		Expect(result.RedirectTaken).To(BeTrue())
		Expect(result.RedirectTarget).To(Equal(42))
	})

	It("redirects to the (forwarded) Rs value for JR", func() {
		idex := &pipeline.IDEXRegister{Valid: true, ValRs: 123, Ctrl: insts.ControlSignals{Jump: insts.JumpJR, DestReg: -1}}
		result := execute.Execute(idex, &pipeline.EXMEMRegister{}, &pipeline.MEMWBRegister{}, &pipeline.MEMWBRegister{}, pipeline.ForwardingResult{})
		Expect(result.RedirectTaken).To(BeTrue())
		Expect(result.RedirectTarget).To(Equal(123))
	})
})

var _ = Describe("MemoryStage", func() {
	var mem *emu.Memory
	var memStage *pipeline.MemoryStage

	BeforeEach(func() {
		mem = emu.NewMemory(16)
		memStage = pipeline.NewMemoryStage(mem)
	})

	It("returns an invalid latch for an invalid EX/MEM", func() {
		result := memStage.Access(&pipeline.EXMEMRegister{Valid: false})
		Expect(result.Valid).To(BeFalse())
	})

	It("reads the addressed word for a load", func() {
		mem.SetWord(4, 77)
		exmem := &pipeline.EXMEMRegister{Valid: true, ALUResult: 4, Ctrl: insts.ControlSignals{MemRead: true}}
		result := memStage.Access(exmem)
		Expect(result.MemData).To(Equal(int32(77)))
	})

	It("stages a store without committing it immediately", func() {
		exmem := &pipeline.EXMEMRegister{Valid: true, ALUResult: 4, ValRt: 99, Ctrl: insts.ControlSignals{MemWrite: true}}
		memStage.Access(exmem)
		Expect(mem.Read(4)).To(Equal(int32(0)))
		mem.Commit()
		Expect(mem.Read(4)).To(Equal(int32(99)))
	})

	It("passes through the ALU result for a non-memory instruction", func() {
		exmem := &pipeline.EXMEMRegister{Valid: true, ALUResult: 55, Ctrl: insts.ControlSignals{RegWrite: true}}
		result := memStage.Access(exmem)
		Expect(result.ALUResult).To(Equal(int32(55)))
		Expect(result.Valid).To(BeTrue())
	})
})

var _ = Describe("WritebackStage", func() {
	var regFile *emu.RegFile
	var wbStage *pipeline.WritebackStage

	BeforeEach(func() {
		regFile = emu.NewRegFile()
		wbStage = pipeline.NewWritebackStage(regFile)
	})

	It("does nothing for an invalid MEM/WB", func() {
		wbStage.Writeback(&pipeline.MEMWBRegister{Valid: false})
		regFile.Commit()
		Expect(regFile.Read(1)).To(Equal(int32(0)))
	})

	It("does nothing when RegWrite is not set", func() {
		memwb := &pipeline.MEMWBRegister{Valid: true, ALUResult: 5, Ctrl: insts.ControlSignals{RegWrite: false, DestReg: 1}}
		wbStage.Writeback(memwb)
		regFile.Commit()
		Expect(regFile.Read(1)).To(Equal(int32(0)))
	})

	It("writes the ALU result when MemToReg is not set", func() {
		memwb := &pipeline.MEMWBRegister{Valid: true, ALUResult: 5, Ctrl: insts.ControlSignals{RegWrite: true, DestReg: 1}}
		wbStage.Writeback(memwb)
		regFile.Commit()
		Expect(regFile.Read(1)).To(Equal(int32(5)))
	})

	It("writes the loaded word when MemToReg is set", func() {
		memwb := &pipeline.MEMWBRegister{Valid: true, ALUResult: 5, MemData: 42, Ctrl: insts.ControlSignals{RegWrite: true, MemToReg: true, DestReg: 1}}
		wbStage.Writeback(memwb)
		regFile.Commit()
		Expect(regFile.Read(1)).To(Equal(int32(42)))
	})
})
