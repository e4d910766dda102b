package intcode

import (
	"fmt"
	"testing"
)

func TestDecode(t *testing.T) {
	for _, c := range []struct {
		cell int64
		want Instr
		err  error
	}{
		{1002, Instr{MUL, [3]Mode{Position, Immediate, Position}}, nil},
		{1, Instr{ADD, [3]Mode{}}, nil},
		{21101, Instr{ADD, [3]Mode{Immediate, Immediate, Relative}}, nil},
		{204, Instr{OUT, [3]Mode{Relative}}, nil},
		{99, Instr{HLT, [3]Mode{}}, nil},
		// Modes of parameters the opcode does not take are not checked.
		{90099, Instr{HLT, [3]Mode{0, 0, 9}}, nil},
		{30004, Instr{OUT, [3]Mode{0, 0, 3}}, nil},
		// Write modes are checked at execution time, not here.
		{103, Instr{IN, [3]Mode{Immediate}}, nil},

		{42, Instr{Op: 42}, InvalidOpcode},
		{0, Instr{}, InvalidOpcode},
		{100, Instr{Op: 0, Modes: [3]Mode{Immediate}}, InvalidOpcode},
		{-1, Instr{Op: -1}, InvalidOpcode},
		{301, Instr{ADD, [3]Mode{3}}, InvalidMode},
		{3001, Instr{ADD, [3]Mode{0, 3}}, InvalidMode},
		{30001, Instr{ADD, [3]Mode{0, 0, 3}}, InvalidMode},
		{905, Instr{JNZ, [3]Mode{9}}, InvalidMode},
	} {
		t.Run(fmt.Sprint(c.cell), func(t *testing.T) {
			got, err := Decode(c.cell)
			if err != c.err {
				t.Fatalf("got error %v, want %v", err, c.err)
			}
			if got != c.want {
				t.Errorf("Decode(%d) = %+v, want %+v", c.cell, got, c.want)
			}
		})
	}
}

// Check that every opcode has a parameter count and a name, and that only
// opcodes in the instruction set do.
func TestOpString(t *testing.T) {
	valid := map[Op]bool{ADD: true, MUL: true, IN: true, OUT: true, JNZ: true, JZ: true, LT: true, EQ: true, ARB: true, HLT: true}
	for o := Op(-5); o < 200; o++ {
		if g, w := o.Valid(), valid[o]; g != w {
			t.Errorf("Op(%d).Valid() = %v, want %v", o, g, w)
		}
		_, named := opStrings[o]
		if named != valid[o] {
			t.Errorf("Op(%d) named = %v, want %v", o, named, valid[o])
		}
	}
}

func TestDisasm(t *testing.T) {
	for _, c := range []struct {
		prog  string
		addr  int64
		want  string
		width int
	}{
		{"1002,4,3,4,33", 0, "mul  [4] #3 -> [4]", 4},
		{"204,-34", 0, "out  r[-34]", 2},
		{"21101,3,4,-1,99", 0, "add  #3 #4 -> r[-1]", 4},
		{"1105,1,7", 0, "jnz  #1 #7", 3},
		{"3,9", 0, "in   -> [9]", 2},
		{"1,2,3,4,99", 4, "hlt ", 1},
		{"42", 0, "dat  42", 1},
		{"42", 7, "dat  0", 1},
	} {
		m := New(MustParse(c.prog))
		got, width := Disasm(&m.Mem, c.addr)
		if got != c.want || width != c.width {
			t.Errorf("Disasm(%q, %d) = %q, %d; want %q, %d", c.prog, c.addr, got, width, c.want, c.width)
		}
	}
}
