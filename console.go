package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
)

// console connects a machine's input and output to a terminal. In ASCII
// mode input lines are sent as characters and output characters are
// printed as text; otherwise input and output are one integer per line.
type console struct {
	ascii bool

	mu      sync.Mutex
	w       io.Writer
	sc      *bufio.Scanner
	pending []int64
	col     int // output column, in ASCII mode
}

func newConsole(r io.Reader, w io.Writer, ascii bool) *console {
	c := &console{ascii: ascii, w: w}
	if r != nil {
		c.sc = bufio.NewScanner(r)
	}
	return c
}

// Input returns the next input value, reading a line from the terminal
// when none is pending. It reports false at the end of input.
func (c *console) Input() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.pending) == 0 {
		if c.sc == nil || !c.sc.Scan() {
			if c.sc != nil && c.sc.Err() != nil {
				log.Printf("reading input: %v", c.sc.Err())
			}
			return 0, false
		}
		c.pending = c.parse(c.sc.Text())
	}
	v := c.pending[0]
	c.pending = c.pending[1:]
	return v, true
}

func (c *console) parse(line string) []int64 {
	if c.ascii {
		vals := make([]int64, 0, len(line)+1)
		for i := 0; i < len(line); i++ {
			vals = append(vals, int64(line[i]))
		}
		return append(vals, '\n')
	}
	var vals []int64
	for _, f := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			fmt.Fprintf(c.w, "bad input %q: %v\n", f, err)
			continue
		}
		vals = append(vals, v)
	}
	return vals
}

// Output prints v.
func (c *console) Output(v int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ascii && v >= 0 && v < 0x80 {
		c.w.Write([]byte{byte(v)})
		if v == '\n' {
			c.col = 0
		} else {
			c.col++
		}
		return
	}
	if c.col > 0 {
		io.WriteString(c.w, "\n")
		c.col = 0
	}
	fmt.Fprintln(c.w, v)
}

// Flush ends any partial line of ASCII output.
func (c *console) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.col > 0 {
		io.WriteString(c.w, "\n")
		c.col = 0
	}
}
