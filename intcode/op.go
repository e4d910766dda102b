package intcode

import (
	"fmt"
	"strings"
)

// Op represents an Intcode opcode.
type Op int64

const (
	ADD Op = 1
	MUL Op = 2
	IN  Op = 3
	OUT Op = 4
	JNZ Op = 5
	JZ  Op = 6
	LT  Op = 7
	EQ  Op = 8
	ARB Op = 9
	HLT Op = 99
)

// Params reports the number of parameters that follow the opcode in memory.
// It returns -1 for an unknown opcode.
func (op Op) Params() int {
	switch op {
	case ADD, MUL, LT, EQ:
		return 3
	case JNZ, JZ:
		return 2
	case IN, OUT, ARB:
		return 1
	case HLT:
		return 0
	}
	return -1
}

// Writes reports whether the last parameter of op is a destination address.
func (op Op) Writes() bool {
	switch op {
	case ADD, MUL, LT, EQ, IN:
		return true
	}
	return false
}

// Valid reports whether op is part of the instruction set.
func (op Op) Valid() bool { return op.Params() >= 0 }

var opStrings = map[Op]string{
	ADD: "add",
	MUL: "mul",
	IN:  "in",
	OUT: "out",
	JNZ: "jnz",
	JZ:  "jz",
	LT:  "lt",
	EQ:  "eq",
	ARB: "arb",
	HLT: "hlt",
}

func (op Op) String() string {
	if s, ok := opStrings[op]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int64(op))
}

// Mode selects how a parameter is interpreted.
type Mode int64

const (
	Position  Mode = 0
	Immediate Mode = 1
	Relative  Mode = 2
)

func (m Mode) Valid() bool { return m >= Position && m <= Relative }

// Instr is a decoded instruction.
type Instr struct {
	Op    Op
	Modes [3]Mode
}

// Decode splits cell into an opcode and its parameter modes.
// The returned error is a FaultCode: InvalidOpcode if the opcode is not
// recognised, or InvalidMode if a mode digit of a parameter used by the
// opcode is not one of Position, Immediate or Relative.
func Decode(cell int64) (Instr, error) {
	in := Instr{
		Op: Op(cell % 100),
		Modes: [3]Mode{
			Mode(cell / 100 % 10),
			Mode(cell / 1000 % 10),
			Mode(cell / 10000 % 10),
		},
	}
	n := in.Op.Params()
	if n < 0 {
		return in, InvalidOpcode
	}
	for _, m := range in.Modes[:n] {
		if !m.Valid() {
			return in, InvalidMode
		}
	}
	return in, nil
}

// Disasm renders the instruction at addr, and returns the number of cells
// it occupies. Unknown cells are rendered as data one cell wide.
func Disasm(mem *Memory, addr int64) (string, int) {
	cell, _ := mem.Load(addr)
	in, err := Decode(cell)
	if err != nil {
		return fmt.Sprintf("%-4s %d", "dat", cell), 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s", in.Op)
	n := in.Op.Params()
	for i := 0; i < n; i++ {
		p, _ := mem.Load(addr + 1 + int64(i))
		if i == n-1 && in.Op.Writes() {
			b.WriteString(" ->")
		}
		switch in.Modes[i] {
		case Position:
			fmt.Fprintf(&b, " [%d]", p)
		case Immediate:
			fmt.Fprintf(&b, " #%d", p)
		case Relative:
			fmt.Fprintf(&b, " r[%d]", p)
		}
	}
	return b.String(), n + 1
}
