// Package emu provides the architectural state of the simulated machine:
// a 32-entry integer register file and a word-addressed data memory, both
// with the two-phase stage/commit discipline the pipeline's tick driver
// relies on (spec §4.8).
package emu

// RegFile is the 32-entry integer register file. At most one pending
// write survives between WriteNext and Commit (invariant I2). Register 0
// is hardwired to zero (invariant I1): reads always return 0 and writes
// are silently discarded.
type RegFile struct {
	regs    [32]int32
	pending *pendingWrite
}

type pendingWrite struct {
	idx   int
	value int32
}

// NewRegFile creates a register file with all entries zeroed.
func NewRegFile() *RegFile {
	return &RegFile{}
}

// Read returns the current value of register idx. Register 0 always
// reads as 0; out-of-range indices also read as 0.
func (r *RegFile) Read(idx int) int32 {
	if idx <= 0 || idx >= len(r.regs) {
		return 0
	}
	return r.regs[idx]
}

// WriteNext stages a write to be applied on the next Commit. A write to
// register 0, or to an out-of-range index, is silently discarded. A
// second WriteNext in the same cycle overwrites the first; the driver's
// ordering never actually triggers this since at most one stage writes
// the register file per tick.
func (r *RegFile) WriteNext(idx int, value int32) {
	if idx <= 0 || idx >= len(r.regs) {
		return
	}
	r.pending = &pendingWrite{idx: idx, value: value}
}

// Commit applies the pending write, if any, then clears it.
func (r *RegFile) Commit() {
	if r.pending == nil {
		return
	}
	r.regs[r.pending.idx] = r.pending.value
	r.pending = nil
}

// Reset zeroes every register and discards any pending write.
func (r *RegFile) Reset() {
	r.regs = [32]int32{}
	r.pending = nil
}

// Snapshot returns a copy of all 32 register values, for inspection
// between ticks (spec §6).
func (r *RegFile) Snapshot() [32]int32 {
	return r.regs
}
