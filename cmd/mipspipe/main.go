// Package main provides the entry point for mipspipe, a cycle-accurate
// simulator of a 5-stage in-order pipelined MIPS-I core.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/mips5sim/loader"
	"github.com/sarchlab/mips5sim/timing/config"
	"github.com/sarchlab/mips5sim/timing/core"
)

var (
	configPath = flag.String("config", "", "Path to simulator configuration JSON file")
	maxCycles  = flag.Uint64("max-cycles", 1_000_000, "Abort after this many cycles if the program never halts")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: mipspipe [options] <program.asm>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	simConfig, err := loadSimConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	program, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Instructions: %d\n", len(program))
		fmt.Printf("Memory words: %d\n", simConfig.MemoryWords)
	}

	c := core.NewCore(simConfig.MemoryWords)
	c.LoadProgram(program)

	stillRunning := c.RunCycles(*maxCycles)
	if stillRunning {
		fmt.Fprintf(os.Stderr, "Warning: program did not halt within %d cycles\n", *maxCycles)
	}

	stats := c.Stats()
	fmt.Printf("\n")
	fmt.Printf("Program: %s\n", programPath)
	fmt.Printf("Halted: %v\n", c.IsHalted())
	fmt.Printf("Cycles: %d\n", stats.Cycles)
	fmt.Printf("Instructions: %d\n", stats.Instructions)
	fmt.Printf("CPI: %.2f\n", stats.CPI)
	fmt.Printf("Stalls: %d\n", stats.Stalls)
	fmt.Printf("Branches: %d\n", stats.Branches)
	fmt.Printf("Flushes: %d\n", stats.Flushes)
}

func loadSimConfig() (*config.SimConfig, error) {
	if *configPath == "" {
		return config.DefaultSimConfig(), nil
	}

	simConfig, err := config.LoadConfig(*configPath)
	if err != nil {
		return nil, err
	}
	if err := simConfig.Validate(); err != nil {
		return nil, err
	}
	return simConfig, nil
}
