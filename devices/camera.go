package devices

import (
	"errors"
	"image"
	"strings"

	"github.com/nf/intcode/intcode"
)

// Camera is a view of the scaffolding outside the ship, as drawn in
// ASCII by the camera program. '#' is scaffold, '.' is open space, and
// one of "^v<>" marks the vacuum robot standing on the scaffold.
type Camera struct {
	rows []string
}

// View runs the camera program to completion and captures the picture.
func View(prog []int64, opts ...intcode.Option) (*Camera, error) {
	m := intcode.New(prog, opts...)
	if err := m.Run(); err != nil {
		return nil, err
	}
	text, _ := m.ReadASCII()
	return ParseView(text), nil
}

// ParseView reads a camera picture from text.
func ParseView(text string) *Camera {
	c := &Camera{}
	for _, l := range strings.Split(text, "\n") {
		if l != "" {
			c.rows = append(c.rows, l)
		}
	}
	return c
}

// Scaffold reports whether p is on the scaffold.
func (c *Camera) Scaffold(p image.Point) bool {
	if p.Y < 0 || p.Y >= len(c.rows) || p.X < 0 || p.X >= len(c.rows[p.Y]) {
		return false
	}
	return strings.IndexByte("#^v<>", c.rows[p.Y][p.X]) >= 0
}

// Intersections returns the scaffold points whose four neighbours are all
// scaffold, in reading order.
func (c *Camera) Intersections() []image.Point {
	var ps []image.Point
	for y, row := range c.rows {
		for x := range row {
			p := image.Pt(x, y)
			if !c.Scaffold(p) {
				continue
			}
			all := true
			for h := North; h <= West; h++ {
				all = all && c.Scaffold(p.Add(h.Delta()))
			}
			if all {
				ps = append(ps, p)
			}
		}
	}
	return ps
}

// Alignment returns the sum of x*y over all intersections.
func (c *Camera) Alignment() int {
	sum := 0
	for _, p := range c.Intersections() {
		sum += p.X * p.Y
	}
	return sum
}

func (c *Camera) String() string {
	return strings.Join(c.rows, "\n") + "\n"
}

var ErrNoDust = errors.New("vacuum robot reported no dust")

// Vacuum wakes the vacuum robot by storing 2 in cell 0, loads its
// movement routine (the main routine followed by functions A, B and C),
// answers the video feed prompt, and returns the amount of dust collected.
func Vacuum(prog []int64, routine []string, video bool, opts ...intcode.Option) (int64, error) {
	if len(prog) == 0 {
		return 0, errors.New("empty program")
	}
	prog = append([]int64(nil), prog...)
	prog[0] = 2
	m := intcode.New(prog, opts...)
	for _, l := range routine {
		m.PushLine(l)
	}
	if video {
		m.PushLine("y")
	} else {
		m.PushLine("n")
	}
	if err := m.Run(); err != nil {
		return 0, err
	}
	_, vals := m.ReadASCII()
	if len(vals) == 0 {
		return 0, ErrNoDust
	}
	return vals[len(vals)-1], nil
}
