package pipeline

// HazardUnit detects load-use hazards and decides whether the pipeline
// must stall (spec §4.4). It is deliberately narrow: every other data
// hazard is resolved by ForwardingUnit instead.
type HazardUnit struct{}

// NewHazardUnit creates a new hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// Stall returns true iff the current ID/EX is a load whose destination
// register is read by the instruction currently in IF/ID. A source
// register of 0 never causes a stall, since the zero register is never
// truly read.
func (h *HazardUnit) Stall(ifid *IFIDRegister, idex *IDEXRegister) bool {
	if !idex.Valid || !idex.Ctrl.MemRead || !idex.Ctrl.RegWrite {
		return false
	}

	loadDest := idex.Ctrl.DestReg
	if loadDest <= 0 {
		return false
	}

	if !ifid.Valid || ifid.RawInstr == nil {
		return false
	}

	inst := ifid.RawInstr
	if inst.ReadsRs() && inst.Rs == loadDest {
		return true
	}
	if inst.ReadsRt() && inst.Rt == loadDest {
		return true
	}
	return false
}
