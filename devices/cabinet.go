package devices

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/nf/intcode/intcode"
)

// Tile is the kind of thing drawn at a point on the arcade screen.
type Tile int64

const (
	Empty Tile = iota
	Wall
	Block
	Paddle
	Ball
)

var tileRGBA = [5]color.RGBA{
	Empty:  {0x00, 0x00, 0x00, 0xff},
	Wall:   {0x70, 0x70, 0x80, 0xff},
	Block:  {0xd0, 0x60, 0x30, 0xff},
	Paddle: {0x30, 0xb0, 0xe0, 0xff},
	Ball:   {0xf0, 0xf0, 0xf0, 0xff},
}

const tileChars = " #x=o"

// Joystick returns the joystick position for the next input: -1 for
// left, 0 for neutral and 1 for right.
type Joystick func(*Cabinet) int64

// AutoJoystick moves the paddle toward the ball.
func AutoJoystick(c *Cabinet) int64 {
	ball, paddle := c.Ball(), c.Paddle()
	switch {
	case ball.X < paddle.X:
		return -1
	case ball.X > paddle.X:
		return 1
	}
	return 0
}

// Stick is a Joystick whose position is set from another goroutine, such
// as a window's key handler.
type Stick struct {
	pos atomic.Int64
}

func (s *Stick) Set(v int64) { s.pos.Store(v) }

func (s *Stick) Read(*Cabinet) int64 { return s.pos.Load() }

// Cabinet is an arcade cabinet. The program draws by writing triples of
// x, y and tile; the triple (-1, 0, score) sets the score display.
// A Cabinet may be inspected by other goroutines while a game runs.
type Cabinet struct {
	Joystick Joystick // nil means the joystick is left in neutral

	mu      sync.Mutex
	tiles   map[image.Point]Tile
	score   int64
	ball    image.Point
	paddle  image.Point
	updates int
	pending []int64
}

func NewCabinet(j Joystick) *Cabinet {
	return &Cabinet{
		Joystick: j,
		tiles:    map[image.Point]Tile{},
	}
}

var scoreCell = image.Pt(-1, 0)

// Play runs the game program. If quarters is non-zero it is stored in
// cell 0 first, which puts the game into free play. Play returns when the
// program halts or when ctx is done while the game waits for the joystick.
func (c *Cabinet) Play(ctx context.Context, prog []int64, quarters int64, opts ...intcode.Option) error {
	if quarters != 0 && len(prog) > 0 {
		prog = append([]int64(nil), prog...)
		prog[0] = quarters
	}
	joystick := intcode.WithInputFunc(func() (int64, bool) {
		if ctx.Err() != nil {
			return 0, false
		}
		if c.Joystick == nil {
			return 0, true
		}
		return c.Joystick(c), true
	})
	m := intcode.New(prog, append([]intcode.Option{joystick, intcode.WithOutputFunc(c.draw)}, opts...)...)
	err := m.Run()
	if errors.Is(err, intcode.InputStarvation) && ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if n := len(c.pending); n > 0 {
		return fmt.Errorf("program halted with %d values of an unfinished triple", n)
	}
	return nil
}

func (c *Cabinet) draw(v int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, v)
	if len(c.pending) < 3 {
		return
	}
	p, v := image.Pt(int(c.pending[0]), int(c.pending[1])), c.pending[2]
	c.pending = c.pending[:0]
	c.updates++
	if p == scoreCell {
		c.score = v
		return
	}
	t := Tile(v)
	c.tiles[p] = t
	switch t {
	case Ball:
		c.ball = p
	case Paddle:
		c.paddle = p
	}
}

// Score returns the last score the program displayed.
func (c *Cabinet) Score() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.score
}

// Blocks returns the number of block tiles on the screen.
func (c *Cabinet) Blocks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tiles {
		if t == Block {
			n++
		}
	}
	return n
}

func (c *Cabinet) Ball() image.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ball
}

func (c *Cabinet) Paddle() image.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paddle
}

// Updates returns the number of triples drawn so far.
func (c *Cabinet) Updates() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates
}

// Frame returns a snapshot of the screen, one pixel per tile.
func (c *Cabinet) Frame() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := newImage(c.screenRect(), tileRGBA[Empty])
	for p, t := range c.tiles {
		if t > Empty && int(t) < len(tileRGBA) {
			m.SetRGBA(p.X, p.Y, tileRGBA[t])
		}
	}
	return m
}

// screenRect returns the area drawn so far, anchored at the origin.
func (c *Cabinet) screenRect() image.Rectangle {
	return bounds(c.tiles).Union(image.Rect(0, 0, 1, 1))
}

func (c *Cabinet) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var b strings.Builder
	fmt.Fprintf(&b, "score %d\n", c.score)
	b.WriteString(render(c.screenRect(), func(p image.Point) byte {
		if t := c.tiles[p]; t >= 0 && int(t) < len(tileChars) {
			return tileChars[t]
		}
		return '?'
	}))
	return b.String()
}
