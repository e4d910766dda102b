package devices

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nf/intcode/intcode"
)

// PanelColor is the colour of a hull panel.
type PanelColor int64

const (
	Black PanelColor = 0
	White PanelColor = 1
)

var panelRGBA = [2]color.RGBA{
	Black: {0x10, 0x10, 0x18, 0xff},
	White: {0xf0, 0xf0, 0xe0, 0xff},
}

// Hull is a ship's hull being painted by a robot. The robot starts at
// the origin facing north. On each cycle it reads the colour of the panel
// beneath it, writes the colour to paint it, writes the direction to turn
// (0 for left, 1 for right), and moves forward one panel.
type Hull struct {
	panels  map[image.Point]PanelColor
	painted map[image.Point]bool
	pos     image.Point
	heading Heading
}

// Paint runs the robot program on a hull whose starting panel has colour
// start and every other panel is black. It returns when the program halts.
func Paint(prog []int64, start PanelColor, opts ...intcode.Option) (*Hull, error) {
	h := &Hull{
		panels:  map[image.Point]PanelColor{{}: start},
		painted: map[image.Point]bool{},
		heading: North,
	}
	camera := intcode.WithInputFunc(func() (int64, bool) {
		return int64(h.At(h.pos)), true
	})
	m := intcode.New(prog, append([]intcode.Option{camera}, opts...)...)
	for {
		paint, ok, err := next(m)
		if err != nil || !ok {
			return h, err
		}
		turn, ok, err := next(m)
		if err != nil {
			return h, err
		}
		if !ok {
			return h, fmt.Errorf("robot halted at %v without turning", h.pos)
		}
		if paint != int64(Black) && paint != int64(White) {
			return h, fmt.Errorf("robot at %v: bad colour %d", h.pos, paint)
		}
		h.panels[h.pos] = PanelColor(paint)
		h.painted[h.pos] = true
		switch turn {
		case 0:
			h.heading = h.heading.Left()
		case 1:
			h.heading = h.heading.Right()
		default:
			return h, fmt.Errorf("robot at %v: bad turn %d", h.pos, turn)
		}
		h.pos = h.pos.Add(h.heading.Delta())
	}
}

// next runs m until its next output and returns it. It reports false if
// m halted instead.
func next(m *intcode.Machine) (int64, bool, error) {
	st, err := m.RunUntilOutput()
	if err != nil || st == intcode.Halted {
		return 0, false, err
	}
	v, _ := m.ReadOutput()
	return v, true, nil
}

// At returns the colour of the panel at p.
func (h *Hull) At(p image.Point) PanelColor { return h.panels[p] }

// Painted returns the number of panels painted at least once.
func (h *Hull) Painted() int { return len(h.painted) }

// Bounds returns the smallest rectangle containing every painted panel.
func (h *Hull) Bounds() image.Rectangle { return bounds(h.painted) }

// Image renders the painted part of the hull, one pixel per panel.
func (h *Hull) Image() *image.RGBA {
	r := h.Bounds()
	m := newImage(r, panelRGBA[Black])
	for p, c := range h.panels {
		if p.In(r) {
			m.SetRGBA(p.X, p.Y, panelRGBA[c&1])
		}
	}
	return m
}

func (h *Hull) String() string {
	return render(h.Bounds(), func(p image.Point) byte {
		if h.At(p) == White {
			return '#'
		}
		return '.'
	})
}
