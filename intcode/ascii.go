package intcode

import "strings"

// PushLine queues the bytes of s followed by a newline, for programs that
// read ASCII text.
func (m *Machine) PushLine(s string) {
	for i := 0; i < len(s); i++ {
		m.In.Push(int64(s[i]))
	}
	m.In.Push('\n')
}

// ReadASCII drains the output queue. Values in the ASCII range are returned
// as text, and any others are returned in order as vals.
func (m *Machine) ReadASCII() (text string, vals []int64) {
	var b strings.Builder
	for v, ok := m.Out.Pop(); ok; v, ok = m.Out.Pop() {
		if v >= 0 && v < 0x80 {
			b.WriteByte(byte(v))
		} else {
			vals = append(vals, v)
		}
	}
	return b.String(), vals
}
