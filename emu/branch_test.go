package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/insts"
)

var _ = Describe("BranchTaken", func() {
	It("takes BEQ when the ALU zero flag is set", func() {
		Expect(emu.BranchTaken(insts.BranchBEQ, true)).To(BeTrue())
		Expect(emu.BranchTaken(insts.BranchBEQ, false)).To(BeFalse())
	})

	It("takes BNE when the ALU zero flag is clear", func() {
		Expect(emu.BranchTaken(insts.BranchBNE, false)).To(BeTrue())
		Expect(emu.BranchTaken(insts.BranchBNE, true)).To(BeFalse())
	})

	It("never takes a non-branch", func() {
		Expect(emu.BranchTaken(insts.BranchNONE, true)).To(BeFalse())
		Expect(emu.BranchTaken(insts.BranchNONE, false)).To(BeFalse())
	})
})

var _ = Describe("BranchTarget", func() {
	It("computes pc + 1 + imm", func() {
		Expect(emu.BranchTarget(10, 3)).To(Equal(14))
	})

	It("handles a negative offset, for a backward branch", func() {
		Expect(emu.BranchTarget(10, -5)).To(Equal(6))
	})
})

var _ = Describe("JumpTarget", func() {
	It("uses the absolute address for J and JAL", func() {
		Expect(emu.JumpTarget(insts.JumpJ, 100, 0)).To(Equal(100))
		Expect(emu.JumpTarget(insts.JumpJAL, 100, 0)).To(Equal(100))
	})

	It("uses the forwarded Rs value for JR", func() {
		Expect(emu.JumpTarget(insts.JumpJR, 100, 42)).To(Equal(42))
	})
})

var _ = Describe("LinkValue", func() {
	It("returns the instruction index just past the jump", func() {
		Expect(emu.LinkValue(20)).To(Equal(int32(21)))
	})
})
