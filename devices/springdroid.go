package devices

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nf/intcode/intcode"
)

// MaxSpringInstructions is the most instructions a springdroid's memory
// holds.
const MaxSpringInstructions = 15

var ErrScript = errors.New("bad springscript")

// FallError is returned when the springdroid falls into space instead of
// reporting hull damage. View is the droid's last rendering of the hull.
type FallError struct {
	View string
}

func (e *FallError) Error() string {
	return "springdroid fell into space"
}

// SpringDroid loads script into a springdroid, one instruction per
// element ending with WALK or RUN, and returns the hull damage it reports.
func SpringDroid(prog []int64, script []string, opts ...intcode.Option) (int64, error) {
	if err := CheckSpringScript(script); err != nil {
		return 0, err
	}
	m := intcode.New(prog, opts...)
	for _, l := range script {
		m.PushLine(l)
	}
	if err := m.Run(); err != nil {
		return 0, err
	}
	text, vals := m.ReadASCII()
	if len(vals) == 0 {
		return 0, &FallError{View: text}
	}
	return vals[len(vals)-1], nil
}

// CheckSpringScript reports whether script is well formed. Instructions
// are AND, OR or NOT, reading any register and writing T or J. The last
// line is WALK, or RUN, which extends the sensors to registers E to I.
func CheckSpringScript(script []string) error {
	if len(script) == 0 {
		return fmt.Errorf("%w: empty", ErrScript)
	}
	end := strings.TrimSpace(script[len(script)-1])
	if end != "WALK" && end != "RUN" {
		return fmt.Errorf("%w: last line is %q, want WALK or RUN", ErrScript, end)
	}
	body := script[:len(script)-1]
	if len(body) > MaxSpringInstructions {
		return fmt.Errorf("%w: %d instructions, at most %d fit", ErrScript, len(body), MaxSpringInstructions)
	}
	readable := "ABCDTJ"
	if end == "RUN" {
		readable = "ABCDEFGHITJ"
	}
	for i, l := range body {
		f := strings.Fields(l)
		if len(f) != 3 {
			return fmt.Errorf("%w: line %d: %q", ErrScript, i+1, l)
		}
		switch f[0] {
		case "AND", "OR", "NOT":
		default:
			return fmt.Errorf("%w: line %d: unknown instruction %q", ErrScript, i+1, f[0])
		}
		if len(f[1]) != 1 || !strings.Contains(readable, f[1]) {
			return fmt.Errorf("%w: line %d: cannot read register %q", ErrScript, i+1, f[1])
		}
		if f[2] != "T" && f[2] != "J" {
			return fmt.Errorf("%w: line %d: cannot write register %q", ErrScript, i+1, f[2])
		}
	}
	return nil
}
