// Package core wraps the pipeline engine with the architectural state it
// operates over and the inspection surface external callers use between
// ticks (spec §5, §6).
package core

import (
	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/insts"
	"github.com/sarchlab/mips5sim/timing/pipeline"
)

// Core is a complete simulated machine: register file, data memory, and
// the pipeline driving them.
type Core struct {
	Pipeline *pipeline.Pipeline

	regFile *emu.RegFile
	memory  *emu.Memory
}

// NewCore creates a Core with a fresh register file and memory of the
// given size in words.
func NewCore(memoryWords int) *Core {
	regFile := emu.NewRegFile()
	memory := emu.NewMemory(memoryWords)
	return &Core{
		Pipeline: pipeline.NewPipeline(regFile, memory),
		regFile:  regFile,
		memory:   memory,
	}
}

// LoadProgram replaces instruction memory; registers and data memory are
// preserved (spec §6).
func (c *Core) LoadProgram(program []*insts.Instruction) {
	c.Pipeline.LoadProgram(program)
}

// Reset zeroes registers and latches, zeroing data memory too when
// clearMemory is true.
func (c *Core) Reset(clearMemory bool) {
	c.Pipeline.Reset(clearMemory)
}

// Tick advances the simulated machine by one cycle.
func (c *Core) Tick() {
	c.Pipeline.Tick()
}

// IsHalted reports orderly completion of the loaded program.
func (c *Core) IsHalted() bool {
	return c.Pipeline.IsHalted()
}

// Run ticks to completion.
func (c *Core) Run() {
	c.Pipeline.Run()
}

// RunCycles ticks at most n times, returning true if still running.
func (c *Core) RunCycles(n uint64) bool {
	return c.Pipeline.RunCycles(n)
}

// Stats returns the core's performance counters.
func (c *Core) Stats() pipeline.Stats {
	return c.Pipeline.Stats()
}

// GetReg returns the architectural value of register idx.
func (c *Core) GetReg(idx int) int32 {
	return c.regFile.Read(idx)
}

// GetMemWord returns the data memory word at addr.
func (c *Core) GetMemWord(addr int32) int32 {
	return c.memory.Read(addr)
}

// SetMemWord writes addr immediately, bypassing the two-phase commit.
// Intended for test fixturing (spec §6).
func (c *Core) SetMemWord(addr, value int32) {
	c.memory.SetWord(addr, value)
}

// Program returns the currently loaded instruction stream.
func (c *Core) Program() []*insts.Instruction {
	return c.Pipeline.Program()
}
