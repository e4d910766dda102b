// Package devices implements peripherals that are driven by Intcode
// programs: robots, an arcade cabinet, probes and cameras.
//
// Each device owns the Machine it runs on and talks to it only through
// its input and output, so every device works with any program that
// speaks its protocol.
package devices

import (
	"image"
	"image/color"
	"strings"
)

// Heading is a compass direction on a grid where y grows downward.
type Heading int

const (
	North Heading = iota
	East
	South
	West
)

var headingDelta = [4]image.Point{
	North: {0, -1},
	East:  {1, 0},
	South: {0, 1},
	West:  {-1, 0},
}

func (h Heading) Delta() image.Point { return headingDelta[h&3] }
func (h Heading) Left() Heading      { return (h + 3) & 3 }
func (h Heading) Right() Heading     { return (h + 1) & 3 }

func newImage(r image.Rectangle, c color.RGBA) *image.RGBA {
	m := image.NewRGBA(r)
	for b := m.Pix; len(b) >= 4; b = b[4:] {
		b[0] = c.R
		b[1] = c.G
		b[2] = c.B
		b[3] = c.A
	}
	return m
}

// bounds returns the smallest rectangle containing every point in ps.
func bounds[V any](ps map[image.Point]V) image.Rectangle {
	var r image.Rectangle
	first := true
	for p := range ps {
		pr := image.Rectangle{p, p.Add(image.Pt(1, 1))}
		if first {
			r, first = pr, false
		} else {
			r = r.Union(pr)
		}
	}
	return r
}

// render draws the rectangle r one character per point.
func render(r image.Rectangle, char func(image.Point) byte) string {
	var b strings.Builder
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b.WriteByte(char(image.Pt(x, y)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
