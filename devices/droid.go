package devices

import (
	"errors"
	"fmt"
	"image"

	"github.com/nf/intcode/intcode"
)

// Repair droid movement commands and status replies.
const (
	cmdNorth = 1
	cmdSouth = 2
	cmdWest  = 3
	cmdEast  = 4

	statusWall   = 0
	statusMoved  = 1
	statusOxygen = 2
)

var droidMoves = []struct {
	cmd int64
	h   Heading
}{
	{cmdNorth, North},
	{cmdSouth, South},
	{cmdWest, West},
	{cmdEast, East},
}

var ErrNoOxygen = errors.New("oxygen system not found")

// Maze is the area mapped by a repair droid.
type Maze struct {
	Open   map[image.Point]bool
	Walls  map[image.Point]bool
	Oxygen image.Point

	// Distance is the fewest moves from the start to the oxygen system.
	Distance int
	// Fill is the number of minutes oxygen takes to reach every open
	// cell, spreading one cell per minute from the oxygen system.
	Fill int

	// Probes is the number of moves tried during exploration.
	Probes int
}

type droidState struct {
	pos  image.Point
	m    *intcode.Machine
	dist int
}

// Explore maps the maze by breadth-first search. Each frontier cell keeps
// its own copy of the droid, so trying a move never requires walking back.
func Explore(prog []int64, opts ...intcode.Option) (*Maze, error) {
	mz := &Maze{
		Open:  map[image.Point]bool{{}: true},
		Walls: map[image.Point]bool{},
	}
	found := false
	queue := []droidState{{m: intcode.New(prog, opts...)}}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, mv := range droidMoves {
			p := s.pos.Add(mv.h.Delta())
			if mz.Open[p] || mz.Walls[p] {
				continue
			}
			m := s.m.Clone()
			m.PushInput(mv.cmd)
			status, ok, err := next(m)
			mz.Probes++
			if err != nil {
				return mz, fmt.Errorf("droid at %v moving %d: %w", s.pos, mv.cmd, err)
			}
			if !ok {
				return mz, fmt.Errorf("droid at %v moving %d: program halted", s.pos, mv.cmd)
			}
			switch status {
			case statusWall:
				mz.Walls[p] = true
				continue
			case statusOxygen:
				if !found {
					found = true
					mz.Oxygen = p
					mz.Distance = s.dist + 1
				}
			case statusMoved:
			default:
				return mz, fmt.Errorf("droid at %v moving %d: bad status %d", s.pos, mv.cmd, status)
			}
			mz.Open[p] = true
			queue = append(queue, droidState{p, m, s.dist + 1})
		}
	}
	if !found {
		return mz, ErrNoOxygen
	}
	mz.Fill = mz.farthest(mz.Oxygen)
	return mz, nil
}

// farthest returns the greatest distance from p to any open cell.
func (mz *Maze) farthest(p image.Point) int {
	dist := map[image.Point]int{p: 0}
	queue := []image.Point{p}
	max := 0
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		for _, mv := range droidMoves {
			n := q.Add(mv.h.Delta())
			if _, seen := dist[n]; seen || !mz.Open[n] {
				continue
			}
			d := dist[q] + 1
			dist[n] = d
			if d > max {
				max = d
			}
			queue = append(queue, n)
		}
	}
	return max
}

func (mz *Maze) String() string {
	r := bounds(mz.Walls).Union(bounds(mz.Open))
	return render(r, func(p image.Point) byte {
		switch {
		case p == image.Point{}:
			return 'D'
		case p == mz.Oxygen && mz.Open[p]:
			return 'O'
		case mz.Open[p]:
			return '.'
		case mz.Walls[p]:
			return '#'
		}
		return ' '
	})
}
