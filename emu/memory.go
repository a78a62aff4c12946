package emu

// DefaultMemoryWords is the default data memory size in words (spec §3).
const DefaultMemoryWords = 1024

// Memory is a dense, word-addressed integer store with the same
// two-phase stage/commit discipline as RegFile. At most one pending
// write survives between WriteNext and Commit (invariant I2). Reads or
// writes with out-of-range addresses are no-ops; out-of-range reads
// return 0.
type Memory struct {
	data    []int32
	pending *pendingWrite
}

// NewMemory creates a zeroed memory of the given size in words. A
// non-positive size falls back to DefaultMemoryWords.
func NewMemory(words int) *Memory {
	if words <= 0 {
		words = DefaultMemoryWords
	}
	return &Memory{data: make([]int32, words)}
}

// Size returns the number of addressable words.
func (m *Memory) Size() int {
	return len(m.data)
}

// Read returns the current value at addr, or 0 if addr is out of range.
func (m *Memory) Read(addr int32) int32 {
	idx := int(addr)
	if idx < 0 || idx >= len(m.data) {
		return 0
	}
	return m.data[idx]
}

// WriteNext stages a write to be applied on the next Commit. An
// out-of-range address is silently discarded.
func (m *Memory) WriteNext(addr, value int32) {
	idx := int(addr)
	if idx < 0 || idx >= len(m.data) {
		return
	}
	m.pending = &pendingWrite{idx: idx, value: value}
}

// Commit applies the pending write, if any, then clears it.
func (m *Memory) Commit() {
	if m.pending == nil {
		return
	}
	m.data[m.pending.idx] = m.pending.value
	m.pending = nil
}

// Reset zeroes every word and discards any pending write. The size is
// unchanged.
func (m *Memory) Reset() {
	for i := range m.data {
		m.data[i] = 0
	}
	m.pending = nil
}

// SetWord writes addr immediately, bypassing the stage/commit pipeline.
// Used for test fixturing (spec §6): "an immediate-commit setMemWord for
// test fixturing."
func (m *Memory) SetWord(addr, value int32) {
	idx := int(addr)
	if idx < 0 || idx >= len(m.data) {
		return
	}
	m.data[idx] = value
}
