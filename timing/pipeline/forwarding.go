package pipeline

// ForwardingSource indicates where an EX operand's value should come
// from instead of the value ID/EX latched at decode time.
type ForwardingSource uint8

const (
	// ForwardNone means use the ID/EX-latched value unchanged.
	ForwardNone ForwardingSource = iota
	// ForwardFromEXMEM forwards from the EX/MEM pipeline register.
	ForwardFromEXMEM
	// ForwardFromMEMWB forwards from the MEM/WB pipeline register.
	ForwardFromMEMWB
)

// ForwardingResult carries forwarding decisions for both operands of the
// instruction currently in ID/EX.
type ForwardingResult struct {
	ForwardRs ForwardingSource
	ForwardRt ForwardingSource
}

// ForwardingUnit is a pure function from the three latches downstream of
// ID/EX to a pair of operand selectors (spec §4.5). EX/MEM has priority
// over MEM/WB: the nearer producer wins.
type ForwardingUnit struct{}

// NewForwardingUnit creates a new forwarding unit.
func NewForwardingUnit() *ForwardingUnit {
	return &ForwardingUnit{}
}

// Resolve computes the forwarding selectors for Rs and Rt of the
// instruction in idex.
func (f *ForwardingUnit) Resolve(idex *IDEXRegister, exmem *EXMEMRegister, memwb *MEMWBRegister) ForwardingResult {
	result := ForwardingResult{}
	if !idex.Valid {
		return result
	}

	result.ForwardRs = f.selectFor(idex.Rs, exmem, memwb)
	result.ForwardRt = f.selectFor(idex.Rt, exmem, memwb)
	return result
}

func (f *ForwardingUnit) selectFor(reg int, exmem *EXMEMRegister, memwb *MEMWBRegister) ForwardingSource {
	if reg == 0 {
		return ForwardNone
	}
	if exmem.Valid && exmem.Ctrl.RegWrite && exmem.Ctrl.DestReg == reg {
		return ForwardFromEXMEM
	}
	if memwb.Valid && memwb.Ctrl.RegWrite && memwb.Ctrl.DestReg == reg {
		return ForwardFromMEMWB
	}
	return ForwardNone
}

// GetForwardedValue resolves a ForwardingSource into an actual operand
// value, falling back to originalValue when no forwarding applies.
func GetForwardedValue(source ForwardingSource, originalValue int32, exmem *EXMEMRegister, memwb *MEMWBRegister) int32 {
	switch source {
	case ForwardFromEXMEM:
		return exmem.ALUResult
	case ForwardFromMEMWB:
		if memwb.Ctrl.MemToReg {
			return memwb.MemData
		}
		return memwb.ALUResult
	default:
		return originalValue
	}
}
