// Package riscv defines the instruction-set extensions the coverage engine
// tracks and the decoded-instruction transaction types the external monitor
// feeds into it. One transaction type exists per extension; field widths
// match the ISA encoding and are enforced by Validate before any sampling.
package riscv

import "fmt"

// Extension identifies one instruction-set extension with its own
// transaction shape and coverage model.
type Extension string

const (
	ExtRV32I    Extension = "rv32i"    // base integer
	ExtRV32M    Extension = "rv32m"    // multiply/divide
	ExtRV32F    Extension = "rv32f"    // single-precision floating-point
	ExtRV32V    Extension = "rv32v"    // vector
	ExtZicsr    Extension = "zicsr"    // control and status registers
	ExtZbb      Extension = "zbb"      // basic bit-manipulation
	ExtZifencei Extension = "zifencei" // instruction fence
)

// Extensions returns every supported extension in canonical order.
func Extensions() []Extension {
	return []Extension{ExtRV32I, ExtRV32M, ExtRV32F, ExtRV32V, ExtZicsr, ExtZbb, ExtZifencei}
}

// ParseExtension converts a configuration string into an Extension.
func ParseExtension(s string) (Extension, error) {
	for _, ext := range Extensions() {
		if string(ext) == s {
			return ext, nil
		}
	}
	return "", fmt.Errorf("unknown extension %q", s)
}
