// Package main provides dump, a console utility that single-steps a
// program and prints the register file and pipeline latches after every
// cycle, mirroring CPU::dumpRegisters/dumpPipeline in the original
// implementation this simulator is modeled on.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/mips5sim/loader"
	"github.com/sarchlab/mips5sim/timing/config"
	"github.com/sarchlab/mips5sim/timing/core"
)

var cycles = flag.Uint64("cycles", 10, "Number of cycles to step and dump")

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: dump [-cycles N] <program.asm>\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	program, err := loader.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	c := core.NewCore(config.DefaultSimConfig().MemoryWords)
	c.LoadProgram(program)

	for i := uint64(0); i < *cycles && !c.IsHalted(); i++ {
		c.Tick()
		dumpRegisters(c)
		dumpPipeline(c)
		fmt.Println()
	}

	if c.IsHalted() {
		fmt.Println("halted")
	}
}

func dumpRegisters(c *core.Core) {
	fmt.Println("Registers:")
	for i := 0; i < 32; i++ {
		fmt.Printf(" $%d: %d", i, c.GetReg(i))
		if i%8 == 7 {
			fmt.Println()
		} else {
			fmt.Print("\t")
		}
	}
}

func dumpPipeline(c *core.Core) {
	fmt.Printf("Clock: %d PC: %d\n", c.Pipeline.Clock(), c.Pipeline.PC())

	ifid := c.Pipeline.GetIFID()
	if !ifid.Valid {
		fmt.Println("IF: <empty>")
	} else {
		fmt.Printf("IF: pc=%d op=%d txt=%s\n", ifid.PC, ifid.RawInstr.Op, ifid.RawInstr.RawText)
	}

	idex := c.Pipeline.GetIDEX()
	if !idex.Valid {
		fmt.Println("ID/EX: <empty>")
	} else {
		fmt.Printf("ID/EX: pc=%d rs=%d rt=%d imm=%d\n", idex.PC, idex.Rs, idex.Rt, idex.Imm)
	}

	exmem := c.Pipeline.GetEXMEM()
	if !exmem.Valid {
		fmt.Println("EX/MEM: <empty>")
	} else {
		fmt.Printf("EX/MEM: alu=%d zero=%v\n", exmem.ALUResult, exmem.Zero)
	}

	memwb := c.Pipeline.GetMEMWB()
	if !memwb.Valid {
		fmt.Println("MEM/WB: <empty>")
	} else {
		fmt.Printf("MEM/WB: alu=%d mem=%d\n", memwb.ALUResult, memwb.MemData)
	}
}
