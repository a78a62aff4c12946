// Package config holds the simulator's run-time configuration: the one
// or two knobs a caller needs before loading a program, expressed as a
// small JSON-backed struct in the same style as the rest of the timing
// tree's config files.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/mips5sim/emu"
)

// SimConfig holds the parameters a caller chooses once, before loading a
// program: how big data memory is, and a trace flag.
type SimConfig struct {
	// MemoryWords is the size of data memory in 32-bit words.
	MemoryWords int `json:"memory_words"`

	// Trace is loaded from and saved to the config file. No command or
	// package in this module reads it, so setting it produces no trace
	// output.
	Trace bool `json:"trace"`
}

// DefaultSimConfig returns the simulator's default configuration.
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		MemoryWords: emu.DefaultMemoryWords,
		Trace:       false,
	}
}

// LoadConfig loads a SimConfig from a JSON file, falling back to
// defaults for any field the file omits.
func LoadConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sim config file: %w", err)
	}

	config := DefaultSimConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse sim config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a SimConfig to a JSON file.
func (c *SimConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize sim config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sim config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is usable.
func (c *SimConfig) Validate() error {
	if c.MemoryWords <= 0 {
		return fmt.Errorf("memory_words must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the SimConfig.
func (c *SimConfig) Clone() *SimConfig {
	clone := *c
	return &clone
}
