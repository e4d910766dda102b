package intcode

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads a program in its text form: base-10 integers separated by
// commas. Surrounding white space, including a trailing newline, is
// ignored.
func Parse(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty program")
	}
	fields := strings.Split(s, ",")
	prog := make([]int64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		prog[i] = v
	}
	return prog, nil
}

// MustParse is like Parse but panics if s cannot be parsed.
func MustParse(s string) []int64 {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ReadProgram reads all of r and parses it as a program.
func ReadProgram(r io.Reader) ([]int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(b))
}

// Format renders cells in the text form read by Parse.
func Format(cells []int64) string {
	var b strings.Builder
	for i, v := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(v, 10))
	}
	return b.String()
}
