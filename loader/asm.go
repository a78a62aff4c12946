// Package loader parses the textual assembly surface described in spec
// §6 into a decoded instruction stream the core can load directly. It is
// the sole source of user-facing errors in the system (spec §7): the
// core itself never validates anything at tick time.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/mips5sim/insts"
)

// LineError reports a malformed line with its 1-based line number, in
// the style the original loader used for every parse failure.
type LineError struct {
	Line int
	Msg  string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Load reads a program from a file on disk.
func Load(path string) ([]*insts.Instruction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadFromReader(f)
}

// LoadFromReader parses a program from r, one instruction per line.
// `#` or `//` starts a comment; blank lines are ignored. Parsing aborts
// on the first malformed line.
func LoadFromReader(r io.Reader) ([]*insts.Instruction, error) {
	var program []*insts.Instruction

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(stripComment(scanner.Text()))
		if line == "" {
			continue
		}

		inst, err := parseLine(line, lineNo, len(program))
		if err != nil {
			return nil, err
		}
		program = append(program, inst)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	return program, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	return line
}

// parseLine decodes one assembly line. pc is the index the resulting
// instruction will occupy, needed to convert a branch's absolute target
// index into a PC-relative offset (spec §6).
func parseLine(line string, lineNo, pc int) (*insts.Instruction, error) {
	fields := strings.Fields(line)
	mnem := strings.ToLower(fields[0])
	inst := &insts.Instruction{RawText: line}

	switch mnem {
	case "nop":
		inst.Op = insts.OpNOP

	case "add", "sub", "and", "or", "xor", "slt":
		if len(fields) < 4 {
			return nil, &LineError{lineNo, "expected rd, rs, rt"}
		}
		var err error
		if inst.Rd, err = parseReg(fields[1], lineNo); err != nil {
			return nil, err
		}
		if inst.Rs, err = parseReg(fields[2], lineNo); err != nil {
			return nil, err
		}
		if inst.Rt, err = parseReg(fields[3], lineNo); err != nil {
			return nil, err
		}
		inst.Op = rTypeOp(mnem)

	case "jr":
		if len(fields) < 2 {
			return nil, &LineError{lineNo, "expected rs"}
		}
		var err error
		if inst.Rs, err = parseReg(fields[1], lineNo); err != nil {
			return nil, err
		}
		inst.Op = insts.OpJR

	case "addi", "andi", "ori":
		if len(fields) < 4 {
			return nil, &LineError{lineNo, "expected rt, rs, imm"}
		}
		var err error
		if inst.Rt, err = parseReg(fields[1], lineNo); err != nil {
			return nil, err
		}
		if inst.Rs, err = parseReg(fields[2], lineNo); err != nil {
			return nil, err
		}
		if inst.Imm, err = parseImm(fields[3], lineNo); err != nil {
			return nil, err
		}
		inst.Op = iTypeOp(mnem)

	case "lw", "sw":
		if len(fields) < 3 {
			return nil, &LineError{lineNo, "expected rt, imm(base)"}
		}
		var err error
		if inst.Rt, err = parseReg(fields[1], lineNo); err != nil {
			return nil, err
		}
		if inst.Imm, inst.Rs, err = parseMemOperand(fields[2], lineNo); err != nil {
			return nil, err
		}
		if mnem == "lw" {
			inst.Op = insts.OpLW
		} else {
			inst.Op = insts.OpSW
		}

	case "beq", "bne":
		if len(fields) < 4 {
			return nil, &LineError{lineNo, "expected rs, rt, targetIndex"}
		}
		var err error
		if inst.Rs, err = parseReg(fields[1], lineNo); err != nil {
			return nil, err
		}
		if inst.Rt, err = parseReg(fields[2], lineNo); err != nil {
			return nil, err
		}
		target, err := parseImm(fields[3], lineNo)
		if err != nil {
			return nil, err
		}
		inst.Imm = target - int32(pc+1)
		if mnem == "beq" {
			inst.Op = insts.OpBEQ
		} else {
			inst.Op = insts.OpBNE
		}

	case "j", "jal":
		if len(fields) < 2 {
			return nil, &LineError{lineNo, "expected targetIndex"}
		}
		target, err := parseImm(fields[1], lineNo)
		if err != nil {
			return nil, err
		}
		inst.Addr = int(target)
		if mnem == "j" {
			inst.Op = insts.OpJ
		} else {
			inst.Op = insts.OpJAL
		}

	default:
		return nil, &LineError{lineNo, fmt.Sprintf("unknown mnemonic: %s", mnem)}
	}

	return inst, nil
}

func rTypeOp(mnem string) insts.Op {
	switch mnem {
	case "add":
		return insts.OpADD
	case "sub":
		return insts.OpSUB
	case "and":
		return insts.OpAND
	case "or":
		return insts.OpOR
	case "xor":
		return insts.OpXOR
	default:
		return insts.OpSLT
	}
}

func iTypeOp(mnem string) insts.Op {
	switch mnem {
	case "addi":
		return insts.OpADDI
	case "andi":
		return insts.OpANDI
	default:
		return insts.OpORI
	}
}

func parseReg(tok string, lineNo int) (int, error) {
	s := strings.TrimRight(tok, ",")
	if s == "" {
		return 0, &LineError{lineNo, "missing register"}
	}
	if s[0] == '$' {
		s = s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &LineError{lineNo, fmt.Sprintf("invalid register token: %s", tok)}
	}
	if n < 0 || n > 31 {
		return 0, &LineError{lineNo, fmt.Sprintf("register out of range: %s", tok)}
	}
	return n, nil
}

func parseImm(tok string, lineNo int) (int32, error) {
	s := strings.TrimRight(tok, ",")
	if s == "" {
		return 0, &LineError{lineNo, "missing immediate"}
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, &LineError{lineNo, fmt.Sprintf("invalid immediate: %s", tok)}
	}
	return int32(n), nil
}

// parseMemOperand parses the `imm(base)` operand shape used by lw/sw.
func parseMemOperand(tok string, lineNo int) (imm int32, base int, err error) {
	s := strings.TrimRight(tok, ",")
	lp := strings.IndexByte(s, '(')
	rp := strings.IndexByte(s, ')')
	if lp < 0 || rp < 0 || rp < lp {
		return 0, 0, &LineError{lineNo, fmt.Sprintf("invalid memory operand (expected imm(base)): %s", tok)}
	}

	immStr := s[:lp]
	if immStr != "" {
		if imm, err = parseImm(immStr, lineNo); err != nil {
			return 0, 0, err
		}
	}

	if base, err = parseReg(s[lp+1:rp], lineNo); err != nil {
		return 0, 0, err
	}

	return imm, base, nil
}
