package intcode

import (
	"fmt"
	"strings"
)

// DefaultMaxAddr is the default upper bound (exclusive) on addressable
// memory, in cells.
const DefaultMaxAddr = 1 << 22

// Memory implements the Intcode address space: a zero-initialised array of
// cells that grows on demand up to a fixed limit.
type Memory struct {
	cells []int64
	max   int64
}

func newMemory(program []int64, max int64) Memory {
	cells := make([]int64, len(program))
	copy(cells, program)
	return Memory{cells: cells, max: max}
}

func (m *Memory) check(addr int64) error {
	if addr < 0 || addr >= m.limit() {
		return AddressOutOfBounds
	}
	return nil
}

func (m *Memory) limit() int64 {
	if m.max <= 0 {
		return DefaultMaxAddr
	}
	return m.max
}

// Load returns the cell at addr. Cells beyond the end of memory read as
// zero and do not grow it.
func (m *Memory) Load(addr int64) (int64, error) {
	if err := m.check(addr); err != nil {
		return 0, err
	}
	if addr >= int64(len(m.cells)) {
		return 0, nil
	}
	return m.cells[addr], nil
}

// Store sets the cell at addr, growing memory with zeroes if necessary.
func (m *Memory) Store(addr, v int64) error {
	if err := m.check(addr); err != nil {
		return err
	}
	if addr >= int64(len(m.cells)) {
		m.grow(addr + 1)
	}
	m.cells[addr] = v
	return nil
}

func (m *Memory) grow(n int64) {
	if n <= int64(cap(m.cells)) {
		m.cells = m.cells[:n]
		return
	}
	c := 2 * int64(cap(m.cells))
	if c < n {
		c = n
	}
	if l := m.limit(); c > l {
		c = l
	}
	cells := make([]int64, n, c)
	copy(cells, m.cells)
	m.cells = cells
}

// Len returns the number of cells that have been materialised.
func (m *Memory) Len() int { return len(m.cells) }

// Cells returns a copy of the materialised cells.
func (m *Memory) Cells() []int64 {
	c := make([]int64, len(m.cells))
	copy(c, m.cells)
	return c
}

func (m *Memory) clone() Memory {
	return Memory{cells: m.Cells(), max: m.max}
}

func (m Memory) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range m.cells {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprint(&b, v)
	}
	b.WriteByte(']')
	return b.String()
}
