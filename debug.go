package main

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/intcode/intcode"
)

type debugger struct {
	run *runner

	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	mu      sync.Mutex
	syms    symbols
	brk     *symbol
	watches []symbol
}

func (d *debugger) symbols() symbols {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syms
}

func (d *debugger) setSymbols(s symbols) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syms = s
}

const debugHelp = `commands:
  s, step            execute one instruction
  c, cont            run until a break point, input wait or halt
  p, pause           stop running
  b, break <addr>    break before executing addr (no addr to clear)
  w, watch <addr>    show the cell at addr
  i, in <n,n,...>    queue input values
  t, text <line>     queue a line of ASCII input
  r, reset           reload the program
  exit`

func newDebugger() *debugger {
	d := &debugger{
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 3, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if cmd, arg, ok := strings.Cut(t, " "); ok {
			switch cmd {
			case "b", "break", "w", "watch":
				for _, s := range d.symbols().withLabelPrefix(arg) {
					entries = append(entries, cmd+" "+s.label)
				}
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		line := d.input.GetText()
		if line == "" {
			return
		}
		d.input.SetText("")
		d.command(line)
	})
	return d
}

func (d *debugger) command(line string) {
	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "exit":
		d.app.Stop()
	case "h", "help":
		log.Print(debugHelp)
	case "b", "break":
		if arg == "" {
			d.mu.Lock()
			d.brk = nil
			d.mu.Unlock()
			d.run.Debug(cmd, -1)
			log.Print("cleared break")
			return
		}
		s, ok := d.symbols().resolve(arg)
		if !ok {
			log.Printf("invalid addr %q", arg)
			return
		}
		d.mu.Lock()
		d.brk = &s
		d.mu.Unlock()
		d.run.Debug(cmd, s.addr)
		log.Printf("set break %v", s)
	case "w", "watch":
		s, ok := d.symbols().resolve(arg)
		if !ok {
			log.Printf("invalid addr %q", arg)
			return
		}
		d.mu.Lock()
		d.watches = append(d.watches, s)
		d.mu.Unlock()
		log.Printf("watching %v", s)
	case "i", "in":
		vals, err := intcode.Parse(arg)
		if err != nil {
			log.Printf("input: %v", err)
			return
		}
		d.run.Input(vals...)
	case "t", "text":
		d.run.Text(arg)
	default:
		d.run.Debug(cmd, 0)
	}
}

func (d *debugger) Run() error { return d.app.Run() }

func (d *debugger) StateFunc(m *intcode.Machine, k stateKind, err error) {
	var (
		watch = d.watchContent(m)
		state string
	)
	if k != clearState && k != quietState {
		state = stateMsg(d.symbols(), m, k)
	}
	if err != nil {
		log.Print(err)
	}
	d.app.QueueUpdateDraw(func() {
		switch k {
		case clearState:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case breakState:
			d.state.SetTextColor(tcell.ColorYellow)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case pauseState, inputState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case haltState, faultState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkRed)
		}
		d.watch.SetText(watch)
		if k != quietState {
			d.state.SetText(state)
		}
	})
}

func stateMsg(syms symbols, m *intcode.Machine, k stateKind) string {
	var (
		text, _ = intcode.Disasm(&m.Mem, m.PC)
		pcSym   string
	)
	if s := syms.forAddr(m.PC); len(s) > 0 {
		pcSym = s[0].label + ": "
	}
	kind := "       "
	switch k {
	case breakState:
		kind = "[break]"
	case pauseState:
		kind = "[pause]"
	case inputState:
		kind = "[input]"
	case haltState:
		kind = "[HALT!]"
	case faultState:
		kind = "[FAULT]"
	}
	return fmt.Sprintf("%6d %s %s%s\nbase: %d  steps: %d  hash: %.16x\nin: %v\n",
		m.PC, kind, pcSym, text, m.Base, m.Steps, m.Fingerprint(), m.In.Values())
}

func (d *debugger) watchContent(m *intcode.Machine) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	if s := d.brk; s != nil {
		fmt.Fprintf(&b, "%v brk!\n", *s)
	}
	for _, w := range d.watches {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		v, err := m.Mem.Load(w.addr)
		if err != nil {
			fmt.Fprintf(&b, "%v   ??", w)
			continue
		}
		fmt.Fprintf(&b, "%v %6d", w, v)
	}
	return b.String()
}
