package intcode

import "fmt"

// FaultCode signifies the type of condition that stopped execution.
// FaultCode values are errors, so a Fault can be matched with errors.Is.
type FaultCode byte

const (
	InvalidOpcode FaultCode = iota + 1
	InvalidMode
	InvalidWriteMode
	InputStarvation
	AddressOutOfBounds
)

func (c FaultCode) String() string {
	if s, ok := map[FaultCode]string{
		InvalidOpcode:      "invalid opcode",
		InvalidMode:        "invalid addressing mode",
		InvalidWriteMode:   "immediate mode write",
		InputStarvation:    "input starvation",
		AddressOutOfBounds: "address out of bounds",
	}[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown (%.2x)", byte(c))
}

func (c FaultCode) Error() string { return c.String() }

// Fault is returned by Step, and the Run methods, if execution is stopped by
// a malformed program or a missing input. It carries enough context to find
// the offending instruction in a trace.
type Fault struct {
	FaultCode
	Cell int64 // raw cell at PC
	Op   Op
	PC   int64
	Step int   // number of instructions completed before the fault
	Addr int64 // offending address, for AddressOutOfBounds
}

func (f Fault) Error() string {
	s := fmt.Sprintf("%s executing %s (%d) at %d, step %d", f.FaultCode, f.Op, f.Cell, f.PC, f.Step)
	if f.FaultCode == AddressOutOfBounds {
		s += fmt.Sprintf(": address %d", f.Addr)
	}
	return s
}

func (f Fault) Unwrap() error { return f.FaultCode }
