package main

import (
	"errors"
	"log"
	"time"

	"github.com/nf/intcode/intcode"
)

// stateKind says why the runner is reporting the machine state.
type stateKind int

const (
	clearState stateKind = iota // running
	quietState                  // running; refresh watches only
	pauseState
	breakState
	inputState // paused waiting for input
	haltState
	faultState
)

// A stateFunc is called by the runner goroutine, so it may read the
// machine freely but must not keep it.
type stateFunc func(m *intcode.Machine, k stateKind, err error)

// runner drives a machine on its own goroutine under the control of
// debugger commands.
type runner struct {
	opts  []intcode.Option
	state stateFunc

	cmds     chan command
	swap     chan []int64
	swapDone chan bool
}

type command struct {
	name string
	addr int64
	vals []int64
	text string
}

// batch is the number of instructions executed between checks for
// commands while the machine is running.
const batch = 1000

func newRunner(state stateFunc, opts ...intcode.Option) *runner {
	return &runner{
		opts:     opts,
		state:    state,
		cmds:     make(chan command),
		swap:     make(chan []int64),
		swapDone: make(chan bool),
	}
}

// Debug sends a command to the runner: "s" or "step", "c" or "cont",
// "p" or "pause", "b" or "break" (break at addr, or clear the break point
// if addr is negative), "r" or "reset", and "exit".
func (r *runner) Debug(cmd string, addr int64) { r.cmds <- command{name: cmd, addr: addr} }

// Input queues values as input to the machine.
func (r *runner) Input(vals ...int64) { r.cmds <- command{name: "input", vals: vals} }

// Text queues a line of ASCII text as input to the machine.
func (r *runner) Text(s string) { r.cmds <- command{name: "text", text: s} }

// Swap replaces the running program with prog, keeping break points.
func (r *runner) Swap(prog []int64) {
	r.swap <- prog
	<-r.swapDone
}

// Run executes prog until the exit command is received, and returns the
// machine as it was then. If paused is set the machine waits for a step
// or continue command before executing anything.
func (r *runner) Run(prog []int64, paused bool) *intcode.Machine {
	var (
		m       = intcode.New(prog, r.opts...)
		running = !paused
		brk     = int64(-1)
		tick    = time.NewTicker(time.Second / 30)
	)
	defer tick.Stop()

	report := func(k stateKind, err error) {
		if r.state != nil {
			r.state(m, k, err)
		}
	}
	// step executes one instruction and reports whether the machine
	// can keep going.
	step := func() bool {
		st, err := m.Step()
		switch {
		case errors.Is(err, intcode.InputStarvation):
			report(inputState, err)
		case err != nil:
			report(faultState, err)
		case st == intcode.Halted:
			report(haltState, nil)
		default:
			return true
		}
		return false
	}
	handle := func(c command) (exit bool) {
		switch c.name {
		case "exit":
			return true
		case "s", "step":
			running = false
			if step() {
				report(pauseState, nil)
			}
		case "c", "cont":
			// Step off a break point before running.
			running = step()
			if running {
				report(clearState, nil)
			}
		case "p", "pause":
			running = false
			report(pauseState, nil)
		case "b", "break":
			brk = c.addr
			report(quietState, nil)
		case "r", "reset":
			m = intcode.New(prog, r.opts...)
			running = false
			report(pauseState, nil)
		case "input":
			m.PushInput(c.vals...)
			report(quietState, nil)
		case "text":
			m.PushLine(c.text)
			report(quietState, nil)
		default:
			log.Printf("unknown command %q", c.name)
		}
		return false
	}

	if paused {
		report(pauseState, nil)
	}
	for {
		if !running {
			select {
			case c := <-r.cmds:
				if handle(c) {
					return m
				}
			case prog = <-r.swap:
				m = intcode.New(prog, r.opts...)
				running = !paused
				r.swapDone <- true
				if running {
					report(clearState, nil)
				} else {
					report(pauseState, nil)
				}
			}
			continue
		}
		for i := 0; i < batch && running; i++ {
			if m.PC == brk {
				running = false
				report(breakState, nil)
				break
			}
			running = step()
		}
		select {
		case c := <-r.cmds:
			if handle(c) {
				return m
			}
		case prog = <-r.swap:
			m = intcode.New(prog, r.opts...)
			r.swapDone <- true
			report(clearState, nil)
		case <-tick.C:
			if running {
				report(quietState, nil)
			}
		default:
		}
	}
}
