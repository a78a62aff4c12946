// Package main provides the entry point for mips5sim, a cycle-accurate
// simulator of a 5-stage in-order pipelined MIPS-I core.
//
// For the full CLI, use: go run ./cmd/mipspipe
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("mips5sim - 5-stage pipelined MIPS-I simulator")
	fmt.Println("")
	fmt.Println("Usage: mipspipe [options] <program.asm>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config      Path to simulator configuration JSON file")
	fmt.Println("  -max-cycles  Abort after this many cycles if the program never halts")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/mipspipe' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/mipspipe' instead.")
	}
}
