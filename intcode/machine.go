// Package intcode provides an implementation of an Intcode CPU, called
// Machine, that can be used to execute Intcode programs.
//
// A Machine is driven by its caller: Step executes one instruction, and the
// Run methods step until some condition holds and then return control. Any
// state left behind by a returning Run method is consistent, and calling Step
// or a Run method again resumes execution where it stopped.
package intcode

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/spaolacci/murmur3"
)

// Status reports why a Step or Run method returned.
type Status int

const (
	Continue Status = iota
	HasOutput
	NeedsInput
	Halted
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case HasOutput:
		return "output"
	case NeedsInput:
		return "input"
	case Halted:
		return "halted"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Machine is an implementation of an Intcode CPU.
type Machine struct {
	Mem   Memory
	PC    int64
	Base  int64 // relative base
	Steps int   // instructions executed
	In    Queue
	Out   Queue

	input   func() (int64, bool)
	output  func(int64)
	logf    func(string, ...any)
	halted  bool
	outputs int
	badAddr int64
}

// Option configures a Machine created by New.
type Option func(*Machine)

// WithInput queues vals as the first input values.
func WithInput(vals ...int64) Option {
	return func(m *Machine) { m.In.Push(vals...) }
}

// WithInputFunc sets a function that supplies input whenever an input
// instruction finds the input queue empty. The function reports false if
// it has no value to give.
func WithInputFunc(f func() (int64, bool)) Option {
	return func(m *Machine) { m.input = f }
}

// WithOutputFunc sets a function that receives output values in place of
// the output queue.
func WithOutputFunc(f func(int64)) Option {
	return func(m *Machine) { m.output = f }
}

// WithMaxAddr bounds the address space to n cells.
func WithMaxAddr(n int64) Option {
	return func(m *Machine) { m.Mem.max = n }
}

// WithTrace sets a function that is called with a disassembly of each
// instruction before it executes.
func WithTrace(logf func(format string, args ...any)) Option {
	return func(m *Machine) { m.logf = logf }
}

// New returns an Intcode CPU with a private copy of program loaded at
// address zero.
func New(program []int64, opts ...Option) *Machine {
	m := &Machine{Mem: newMemory(program, DefaultMaxAddr)}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Halted reports whether the machine has executed a halt instruction.
func (m *Machine) Halted() bool { return m.halted }

// PushInput appends vals to the input queue.
func (m *Machine) PushInput(vals ...int64) { m.In.Push(vals...) }

// ReadOutput removes and returns the oldest pending output value, and
// reports whether there was one.
func (m *Machine) ReadOutput() (int64, bool) { return m.Out.Pop() }

// Step executes the instruction at m.PC. It returns Halted if the machine
// has halted, now or earlier, and Continue otherwise.
//
// A non-nil error is always a Fault. When Step fails the machine is left as
// it was before the instruction, so a driver may repair the cause (for
// example, by pushing input after InputStarvation) and step again.
func (m *Machine) Step() (st Status, err error) {
	if m.halted {
		return Halted, nil
	}
	var (
		pc   = m.PC
		cell int64
		in   Instr
	)
	defer func() {
		if e := recover(); e != nil {
			code, ok := e.(FaultCode)
			if !ok {
				panic(e)
			}
			m.PC = pc
			err = Fault{
				FaultCode: code,
				Cell:      cell,
				Op:        in.Op,
				PC:        pc,
				Step:      m.Steps,
				Addr:      m.badAddr,
			}
		}
	}()

	cell = m.load(pc)
	in, err = Decode(cell)
	if err != nil {
		panic(err.(FaultCode))
	}
	if m.logf != nil {
		s, _ := Disasm(&m.Mem, pc)
		m.logf("%8d %6d  %-32s base=%d", m.Steps, pc, s, m.Base)
	}

	switch in.Op {
	case ADD:
		m.store(in, 2, m.param(in, 0)+m.param(in, 1))
		m.PC += 4
	case MUL:
		m.store(in, 2, m.param(in, 0)*m.param(in, 1))
		m.PC += 4
	case LT:
		m.store(in, 2, boolCell(m.param(in, 0) < m.param(in, 1)))
		m.PC += 4
	case EQ:
		m.store(in, 2, boolCell(m.param(in, 0) == m.param(in, 1)))
		m.PC += 4
	case IN:
		addr := m.addr(in, 0)
		if err := m.Mem.check(addr); err != nil {
			m.badAddr = addr
			panic(AddressOutOfBounds)
		}
		v, ok := m.nextInput()
		if !ok {
			panic(InputStarvation)
		}
		m.storeAt(addr, v)
		m.PC += 2
	case OUT:
		m.emit(m.param(in, 0))
		m.PC += 2
	case JNZ, JZ:
		v, target := m.param(in, 0), m.param(in, 1)
		if (v != 0) == (in.Op == JNZ) {
			m.PC = target
		} else {
			m.PC += 3
		}
	case ARB:
		m.Base += m.param(in, 0)
		m.PC += 2
	case HLT:
		m.halted = true
		m.Steps++
		return Halted, nil
	default:
		panic(fmt.Errorf("internal error: %v not implemented", in.Op))
	}
	m.Steps++
	return Continue, nil
}

// RunUntilOutput steps until an output value has been produced since the
// call began, returning HasOutput, or until the machine halts, returning
// Halted.
func (m *Machine) RunUntilOutput() (Status, error) {
	n := m.outputs
	for m.outputs == n {
		st, err := m.Step()
		if err != nil || st == Halted {
			return st, err
		}
	}
	return HasOutput, nil
}

// RunUntilInput steps until the next instruction is an input instruction
// for which no value is available, returning NeedsInput, or until the
// machine halts, returning Halted. The pending input instruction is not
// executed, so pushing input and calling RunUntilInput again continues
// the program.
func (m *Machine) RunUntilInput() (Status, error) { return m.RunUntilInputN(-1) }

// RunUntilInputN is like RunUntilInput but executes at most n
// instructions, returning Continue if the machine is still running when
// they are used up. A negative n means no limit.
func (m *Machine) RunUntilInputN(n int) (Status, error) {
	for ; n != 0; n-- {
		if m.wantsInput() && m.In.Len() == 0 {
			if m.input == nil {
				return NeedsInput, nil
			}
			v, ok := m.input()
			if !ok {
				return NeedsInput, nil
			}
			m.In.Push(v)
		}
		st, err := m.Step()
		if err != nil || st == Halted {
			return st, err
		}
	}
	return Continue, nil
}

// Run steps until the machine halts.
func (m *Machine) Run() error {
	for {
		st, err := m.Step()
		if err != nil {
			return err
		}
		if st == Halted {
			return nil
		}
	}
}

// Serve runs the machine until it halts, taking input values from in and
// sending output values to out. It blocks while waiting for either, and
// returns ctx.Err() if ctx is done first. A closed in channel is treated as
// the end of input. An input function set by WithInputFunc is used in
// preference to in, and a machine with an output function never sends on out.
func (m *Machine) Serve(ctx context.Context, in <-chan int64, out chan<- int64) error {
	for !m.halted {
		if m.wantsInput() && m.In.Len() == 0 && m.input == nil {
			select {
			case v, ok := <-in:
				if ok {
					m.In.Push(v)
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if _, err := m.Step(); err != nil {
			return err
		}
		for v, ok := m.Out.Pop(); ok; v, ok = m.Out.Pop() {
			select {
			case out <- v:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if m.Steps&0xfff == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the machine. Input and output functions
// are shared with the copy.
func (m *Machine) Clone() *Machine {
	c := *m
	c.Mem = m.Mem.clone()
	c.In = m.In.clone()
	c.Out = m.Out.clone()
	return &c
}

// Fingerprint returns a hash of the machine's registers and memory.
// Trailing zero cells are ignored, since memory reads as zero beyond its
// end anyway.
func (m *Machine) Fingerprint() uint64 {
	cells := m.Mem.cells
	for len(cells) > 0 && cells[len(cells)-1] == 0 {
		cells = cells[:len(cells)-1]
	}
	h := murmur3.New64()
	var b [8]byte
	for _, v := range append([]int64{m.PC, m.Base}, cells...) {
		binary.LittleEndian.PutUint64(b[:], uint64(v))
		h.Write(b[:])
	}
	return h.Sum64()
}

func (m *Machine) wantsInput() bool {
	cell, err := m.Mem.Load(m.PC)
	return err == nil && Op(cell%100) == IN
}

func (m *Machine) nextInput() (int64, bool) {
	if v, ok := m.In.Pop(); ok {
		return v, true
	}
	if m.input != nil {
		return m.input()
	}
	return 0, false
}

func (m *Machine) emit(v int64) {
	m.outputs++
	if m.output != nil {
		m.output(v)
		return
	}
	m.Out.Push(v)
}

func (m *Machine) load(addr int64) int64 {
	v, err := m.Mem.Load(addr)
	if err != nil {
		m.badAddr = addr
		panic(AddressOutOfBounds)
	}
	return v
}

// param returns the value of parameter i of the current instruction.
func (m *Machine) param(in Instr, i int) int64 {
	p := m.load(m.PC + 1 + int64(i))
	switch in.Modes[i] {
	case Position:
		return m.load(p)
	case Immediate:
		return p
	default:
		return m.load(m.Base + p)
	}
}

// addr returns the destination address named by parameter i.
func (m *Machine) addr(in Instr, i int) int64 {
	p := m.load(m.PC + 1 + int64(i))
	switch in.Modes[i] {
	case Position:
		return p
	case Relative:
		return m.Base + p
	default:
		panic(InvalidWriteMode)
	}
}

func (m *Machine) store(in Instr, i int, v int64) {
	m.storeAt(m.addr(in, i), v)
}

func (m *Machine) storeAt(addr, v int64) {
	if err := m.Mem.Store(addr, v); err != nil {
		m.badAddr = addr
		panic(AddressOutOfBounds)
	}
}

func boolCell(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
