package devices

import (
	"errors"
	"fmt"
	"image"

	"github.com/nf/intcode/intcode"
)

// maxBeamRows bounds the search in FitSquare.
const maxBeamRows = 1 << 16

var ErrNoFit = errors.New("square does not fit in beam")

// Beam probes a tractor beam. The drone program reads x and y and writes
// 1 if the point is pulled by the beam, 0 if not. Each probe runs on a
// fresh machine.
type Beam struct {
	prog []int64
	opts []intcode.Option

	// Probes is the number of points probed so far.
	Probes int
}

func NewBeam(prog []int64, opts ...intcode.Option) *Beam {
	return &Beam{prog: prog, opts: opts}
}

// Pulled reports whether the beam pulls at (x, y). Points with negative
// coordinates are never pulled.
func (b *Beam) Pulled(x, y int) (bool, error) {
	if x < 0 || y < 0 {
		return false, nil
	}
	b.Probes++
	m := intcode.New(b.prog, append([]intcode.Option{intcode.WithInput(int64(x), int64(y))}, b.opts...)...)
	v, ok, err := next(m)
	if err != nil {
		return false, fmt.Errorf("probe %d,%d: %w", x, y, err)
	}
	if !ok {
		return false, fmt.Errorf("probe %d,%d: drone halted without output", x, y)
	}
	return v == 1, nil
}

// Area returns the number of points pulled in the n×n square at the
// origin.
func (b *Beam) Area(n int) (int, error) {
	area := 0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			ok, err := b.Pulled(x, y)
			if err != nil {
				return 0, err
			}
			if ok {
				area++
			}
		}
	}
	return area, nil
}

// FitSquare returns the top left corner of the size×size square nearest
// to the emitter that lies wholly inside the beam. The beam must be a
// cone widening away from the origin.
func (b *Beam) FitSquare(size int) (image.Point, error) {
	if size < 1 {
		return image.Point{}, fmt.Errorf("bad square size %d", size)
	}
	left := 0
	for y := size - 1; y < maxBeamRows; y++ {
		// Find the left edge of the beam on this row. Near the
		// emitter some rows are empty.
		x, found := left, false
		for ; x <= 10*y+10; x++ {
			ok, err := b.Pulled(x, y)
			if err != nil {
				return image.Point{}, err
			}
			if ok {
				found = true
				break
			}
		}
		if !found {
			continue
		}
		left = x
		ok, err := b.Pulled(x+size-1, y-size+1)
		if err != nil {
			return image.Point{}, err
		}
		if ok {
			return image.Pt(x, y-size+1), nil
		}
	}
	return image.Point{}, fmt.Errorf("%w: %d×%d within %d rows", ErrNoFit, size, size, maxBeamRows)
}
