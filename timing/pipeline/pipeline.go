package pipeline

import (
	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/insts"
)

// Pipeline drives the 5-stage IF/ID/EX/MEM/WB engine over an
// architectural register file and data memory. Tick is the only operation
// that advances the simulated machine; LoadProgram and Reset rewind pc,
// clock, the latches and the counters between runs.
type Pipeline struct {
	fetchStage     *FetchStage
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memoryStage    *MemoryStage
	writebackStage *WritebackStage

	hazardUnit     *HazardUnit
	forwardingUnit *ForwardingUnit

	ifid  IFIDRegister
	idex  IDEXRegister
	exmem EXMEMRegister
	memwb MEMWBRegister

	nextIfid  IFIDRegister
	nextIdex  IDEXRegister
	nextExmem EXMEMRegister
	nextMemwb MEMWBRegister

	regFile *emu.RegFile
	memory  *emu.Memory
	program []*insts.Instruction

	pc    int
	clock uint64

	stallCount       uint64
	branchCount      uint64
	flushCount       uint64
	instructionCount uint64
}

// NewPipeline creates a pipeline over the given architectural state. Call
// LoadProgram before the first Tick.
func NewPipeline(regFile *emu.RegFile, memory *emu.Memory) *Pipeline {
	return &Pipeline{
		fetchStage:     NewFetchStage(nil),
		decodeStage:    NewDecodeStage(regFile),
		executeStage:   NewExecuteStage(),
		memoryStage:    NewMemoryStage(memory),
		writebackStage: NewWritebackStage(regFile),
		hazardUnit:     NewHazardUnit(),
		forwardingUnit: NewForwardingUnit(),
		regFile:        regFile,
		memory:         memory,
	}
}

// LoadProgram replaces instruction memory, clears the latches, and
// rewinds pc and clock. Registers and data memory survive unless Reset
// is also called (spec §6).
func (p *Pipeline) LoadProgram(program []*insts.Instruction) {
	p.program = program
	p.fetchStage = NewFetchStage(program)
	p.clearLatches()
	p.pc = 0
	p.clock = 0
	p.stallCount = 0
	p.branchCount = 0
	p.flushCount = 0
	p.instructionCount = 0
}

// Reset zeroes registers, clears the latches, and rewinds pc and clock.
// Data memory is zeroed only when clearMemory is true.
func (p *Pipeline) Reset(clearMemory bool) {
	p.clearLatches()
	p.pc = 0
	p.clock = 0
	p.stallCount = 0
	p.branchCount = 0
	p.flushCount = 0
	p.instructionCount = 0
	p.regFile.Reset()
	if clearMemory {
		p.memory.Reset()
	}
}

func (p *Pipeline) clearLatches() {
	p.ifid.Clear()
	p.idex.Clear()
	p.exmem.Clear()
	p.memwb.Clear()
	p.nextIfid.Clear()
	p.nextIdex.Clear()
	p.nextExmem.Clear()
	p.nextMemwb.Clear()
}

// IsHalted reports orderly completion: pc has run past the end of the
// program and no latch still carries a live instruction (spec §3, §6).
func (p *Pipeline) IsHalted() bool {
	return p.pc >= len(p.program) &&
		!p.ifid.Valid && !p.idex.Valid && !p.exmem.Valid && !p.memwb.Valid
}

// PC returns the current program counter.
func (p *Pipeline) PC() int {
	return p.pc
}

// Clock returns the number of completed ticks.
func (p *Pipeline) Clock() uint64 {
	return p.clock
}

// Program returns the loaded instruction stream for inspection.
func (p *Pipeline) Program() []*insts.Instruction {
	return p.program
}

// GetIFID returns the current IF/ID latch for inspection.
func (p *Pipeline) GetIFID() IFIDRegister { return p.ifid }

// GetIDEX returns the current ID/EX latch for inspection.
func (p *Pipeline) GetIDEX() IDEXRegister { return p.idex }

// GetEXMEM returns the current EX/MEM latch for inspection.
func (p *Pipeline) GetEXMEM() EXMEMRegister { return p.exmem }

// GetMEMWB returns the current MEM/WB latch for inspection.
func (p *Pipeline) GetMEMWB() MEMWBRegister { return p.memwb }

// Stats summarizes pipeline performance counters.
type Stats struct {
	Cycles       uint64
	Instructions uint64
	Stalls       uint64
	Branches     uint64
	Flushes      uint64
	CPI          float64
}

// Stats returns the pipeline's performance counters.
func (p *Pipeline) Stats() Stats {
	s := Stats{
		Cycles:       p.clock,
		Instructions: p.instructionCount,
		Stalls:       p.stallCount,
		Branches:     p.branchCount,
		Flushes:      p.flushCount,
	}
	if s.Instructions > 0 {
		s.CPI = float64(s.Cycles) / float64(s.Instructions)
	}
	return s
}

// Tick advances the pipeline by exactly one cycle (spec §4.1). It is a
// no-op once the pipeline has halted.
func (p *Pipeline) Tick() {
	if p.IsHalted() {
		return
	}

	pcNext := p.pc
	stall := p.hazardUnit.Stall(&p.ifid, &p.idex)

	p.nextIfid.Clear()
	p.nextIdex.Clear()
	p.nextExmem.Clear()
	p.nextMemwb.Clear()

	// IF
	if stall {
		p.nextIfid = p.ifid
	} else if inst, ok := p.fetchStage.Fetch(p.pc); ok {
		p.nextIfid = IFIDRegister{Valid: true, PC: p.pc, RawInstr: inst}
		pcNext = p.pc + 1
	}

	// ID
	if !stall && p.ifid.Valid {
		p.nextIdex = p.decodeStage.Decode(&p.ifid, &p.memwb)
	}

	// MEM
	p.nextMemwb = p.memoryStage.Access(&p.exmem)

	// EX
	var redirectTaken bool
	var redirectTarget int
	if p.idex.Valid {
		fwd := p.forwardingUnit.Resolve(&p.idex, &p.exmem, &p.memwb)
		exec := p.executeStage.Execute(&p.idex, &p.exmem, &p.memwb, &p.nextMemwb, fwd)
		p.nextExmem = exec.ExMem
		redirectTaken = exec.RedirectTaken
		redirectTarget = exec.RedirectTarget
	}

	// WB
	p.writebackStage.Writeback(&p.memwb)
	if p.memwb.Valid {
		p.instructionCount++
	}

	if stall {
		p.stallCount++
	}

	if redirectTaken {
		p.branchCount++
		p.flushCount++
		pcNext = redirectTarget
		p.nextIfid.Clear()
		p.nextIdex.Clear()
	}

	p.ifid = p.nextIfid
	p.idex = p.nextIdex
	p.exmem = p.nextExmem
	p.memwb = p.nextMemwb

	p.regFile.Commit()
	p.memory.Commit()

	p.pc = pcNext
	p.clock++
}

// Run ticks the pipeline to completion.
func (p *Pipeline) Run() {
	for !p.IsHalted() {
		p.Tick()
	}
}

// RunCycles ticks the pipeline at most n times, stopping early if it
// halts. Returns true if still running afterward.
func (p *Pipeline) RunCycles(n uint64) bool {
	for i := uint64(0); i < n && !p.IsHalted(); i++ {
		p.Tick()
	}
	return !p.IsHalted()
}
