package devices

import (
	"context"
	"errors"
	"image"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nf/intcode/intcode"
)

// asciiProgram returns a program that prints s and halts.
func asciiProgram(s string) []int64 {
	var p []int64
	for i := 0; i < len(s); i++ {
		p = append(p, 104, int64(s[i]))
	}
	return append(p, 99)
}

func TestHeading(t *testing.T) {
	h := North
	for i, want := range []Heading{West, South, East, North} {
		if h = h.Left(); h != want {
			t.Errorf("left turn %d: got %v, want %v", i, h, want)
		}
	}
	for i, want := range []Heading{East, South, West, North} {
		if h = h.Right(); h != want {
			t.Errorf("right turn %d: got %v, want %v", i, h, want)
		}
	}
}

func TestHull(t *testing.T) {
	for _, c := range []struct {
		name    string
		prog    string
		start   PanelColor
		painted int
		text    string
		white   []image.Point
	}{
		{
			// Paint white and turn left, four times.
			name:    "square",
			prog:    "3,100,104,1,104,0,1001,101,1,101,1007,101,4,102,1005,102,0,99",
			painted: 4,
			text:    "##\n##\n",
			white:   []image.Point{{0, 0}, {-1, 0}, {-1, 1}, {0, 1}},
		},
		{
			// Repaint each panel its own colour and turn right, five
			// times, ending where it began.
			name:    "copy",
			prog:    "3,100,4,100,104,1,1001,101,1,101,1007,101,5,102,1005,102,0,99",
			start:   White,
			painted: 4,
			text:    "#.\n..\n",
			white:   []image.Point{{0, 0}},
		},
	} {
		t.Run(c.name, func(t *testing.T) {
			h, err := Paint(intcode.MustParse(c.prog), c.start)
			if err != nil {
				t.Fatal(err)
			}
			if h.Painted() != c.painted {
				t.Errorf("painted %d panels, want %d", h.Painted(), c.painted)
			}
			if s := h.String(); s != c.text {
				t.Errorf("hull is\n%s\nwant\n%s", s, c.text)
			}
			for _, p := range c.white {
				if h.At(p) != White {
					t.Errorf("panel %v is not white", p)
				}
			}
			m := h.Image()
			if m.Bounds() != h.Bounds() {
				t.Errorf("image bounds %v, want %v", m.Bounds(), h.Bounds())
			}
			for _, p := range c.white {
				if m.RGBAAt(p.X, p.Y) != panelRGBA[White] {
					t.Errorf("pixel %v is %v, want white", p, m.RGBAAt(p.X, p.Y))
				}
			}
		})
	}
}

func TestHullBadTurn(t *testing.T) {
	_, err := Paint(intcode.MustParse("3,100,104,1,104,7,99"), Black)
	if err == nil || !strings.Contains(err.Error(), "bad turn 7") {
		t.Errorf("Paint error = %v, want bad turn", err)
	}
}

func TestCabinetBlocks(t *testing.T) {
	c := NewCabinet(nil)
	prog := intcode.MustParse("104,1,104,2,104,2,104,3,104,4,104,2,104,-1,104,0,104,1234,99")
	if err := c.Play(context.Background(), prog, 0); err != nil {
		t.Fatal(err)
	}
	if c.Blocks() != 2 {
		t.Errorf("%d blocks, want 2", c.Blocks())
	}
	if c.Score() != 1234 {
		t.Errorf("score %d, want 1234", c.Score())
	}
	if c.Updates() != 3 {
		t.Errorf("%d updates, want 3", c.Updates())
	}
	want := "score 1234\n    \n    \n x  \n    \n   x\n"
	if s := c.String(); s != want {
		t.Errorf("screen is %q, want %q", s, want)
	}
	f := c.Frame()
	if f.RGBAAt(1, 2) != tileRGBA[Block] || f.RGBAAt(0, 0) != tileRGBA[Empty] {
		t.Errorf("frame has wrong pixels")
	}
}

func TestCabinetJoystick(t *testing.T) {
	// Draws a ball at 5,0 and a paddle at 3,0, then shows the
	// joystick position as the score.
	prog := intcode.MustParse("104,5,104,0,104,4,104,3,104,0,104,3,3,100,104,-1,104,0,4,100,99")
	for _, c := range []struct {
		name string
		j    Joystick
		want int64
	}{
		{"neutral", nil, 0},
		{"auto", AutoJoystick, 1},
		{"stick", func() Joystick { var s Stick; s.Set(-1); return s.Read }(), -1},
	} {
		cab := NewCabinet(c.j)
		if err := cab.Play(context.Background(), prog, 0); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if cab.Score() != c.want {
			t.Errorf("%s: joystick read %d, want %d", c.name, cab.Score(), c.want)
		}
		if cab.Ball() != image.Pt(5, 0) || cab.Paddle() != image.Pt(3, 0) {
			t.Errorf("%s: ball %v paddle %v", c.name, cab.Ball(), cab.Paddle())
		}
	}
}

func TestCabinetQuarters(t *testing.T) {
	// Cell 0 adds or multiplies cell 0 by itself and shows the result as
	// the score.
	prog := intcode.MustParse("1,0,0,100,104,-1,104,0,4,100,99")
	for _, c := range []struct {
		quarters int64
		want     int64
	}{
		{0, 2},
		{2, 4},
	} {
		cab := NewCabinet(nil)
		if err := cab.Play(context.Background(), prog, c.quarters); err != nil {
			t.Fatal(err)
		}
		if cab.Score() != c.want {
			t.Errorf("quarters %d: score %d, want %d", c.quarters, cab.Score(), c.want)
		}
	}
	if prog[0] != 1 {
		t.Errorf("Play modified the program")
	}
}

func TestCabinetCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Reads the joystick forever.
	prog := intcode.MustParse("3,100,1105,1,0")
	c := NewCabinet(AutoJoystick)
	done := make(chan error)
	go func() { done <- c.Play(ctx, prog, 0) }()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Play error = %v, want %v", err, context.Canceled)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Play did not return after cancel")
	}
}

func TestCabinetUnfinishedTriple(t *testing.T) {
	c := NewCabinet(nil)
	if err := c.Play(context.Background(), intcode.MustParse("104,1,104,2,99"), 0); err == nil {
		t.Error("Play succeeded with half a triple")
	}
}

// A corridor three cells long running east from the start, with the
// oxygen system at its east end.
const corridor = "3,100,1008,100,4,101,1005,101,21,1008,100,3,101,1005,101,35,104,0,1105,1,0,1007,200,2,101,1006,101,16,1001,200,1,200,1105,1,46,107,0,200,101,1006,101,16,1001,200,-1,200,1008,200,2,101,1001,101,1,102,4,102,1105,1,0,99"

func TestExplore(t *testing.T) {
	mz, err := Explore(intcode.MustParse(corridor))
	if err != nil {
		t.Fatal(err)
	}
	if mz.Oxygen != image.Pt(2, 0) {
		t.Errorf("oxygen at %v, want 2,0", mz.Oxygen)
	}
	if mz.Distance != 2 {
		t.Errorf("distance %d, want 2", mz.Distance)
	}
	if mz.Fill != 2 {
		t.Errorf("fill time %d, want 2", mz.Fill)
	}
	if mz.Probes != 10 {
		t.Errorf("%d probes, want 10", mz.Probes)
	}
	want := " ### \n#D.O#\n ### \n"
	if s := mz.String(); s != want {
		t.Errorf("maze is\n%s\nwant\n%s", s, want)
	}
}

func TestExploreNoOxygen(t *testing.T) {
	mz, err := Explore(intcode.MustParse("3,100,104,0,1105,1,0"))
	if !errors.Is(err, ErrNoOxygen) {
		t.Errorf("Explore error = %v, want %v", err, ErrNoOxygen)
	}
	if len(mz.Walls) != 4 || len(mz.Open) != 1 {
		t.Errorf("found %d walls and %d open cells, want 4 and 1", len(mz.Walls), len(mz.Open))
	}
}

func TestSpringDroid(t *testing.T) {
	// Reads one line, then prints "ok" and the damage.
	ok := intcode.MustParse("3,100,1008,100,10,101,1006,101,0,104,111,104,107,104,10,104,19357,99")
	got, err := SpringDroid(ok, []string{"NOT A J", "WALK"})
	if err != nil {
		t.Fatal(err)
	}
	if got != 19357 {
		t.Errorf("damage %d, want 19357", got)
	}

	// Reads one line, then prints "no" and halts.
	fall := intcode.MustParse("3,100,1008,100,10,101,1006,101,0,104,110,104,111,104,10,99")
	_, err = SpringDroid(fall, []string{"NOT A J", "NOT E T", "RUN"})
	var f *FallError
	if !errors.As(err, &f) {
		t.Fatalf("SpringDroid error = %v, want *FallError", err)
	}
	if f.View != "no\n" {
		t.Errorf("view is %q, want %q", f.View, "no\n")
	}
}

func TestCheckSpringScript(t *testing.T) {
	long := make([]string, MaxSpringInstructions+1)
	for i := range long {
		long[i] = "OR A J"
	}
	for _, c := range []struct {
		script []string
		ok     bool
	}{
		{[]string{"WALK"}, true},
		{[]string{"NOT A J", "NOT B T", "OR T J", "AND D J", "WALK"}, true},
		{[]string{"NOT H T", "RUN"}, true},
		{append(long[1:], "WALK"), true},
		{nil, false},
		{[]string{"NOT A J"}, false},
		{[]string{"NOT H T", "WALK"}, false},
		{[]string{"NOT A B", "WALK"}, false},
		{[]string{"XOR A J", "WALK"}, false},
		{[]string{"NOT A", "WALK"}, false},
		{append(long, "WALK"), false},
	} {
		err := CheckSpringScript(c.script)
		if (err == nil) != c.ok {
			t.Errorf("CheckSpringScript(%q) = %v, want ok %v", c.script, err, c.ok)
		}
		if err != nil && !errors.Is(err, ErrScript) {
			t.Errorf("CheckSpringScript(%q) = %v, want %v", c.script, err, ErrScript)
		}
	}
}

const (
	// Pulled where x == y.
	diagonal = "3,100,3,101,8,100,101,102,4,102,99"
	// Pulled where x <= y <= 2x.
	cone = "3,100,3,101,7,101,100,102,1002,100,2,103,7,103,101,104,1,102,104,105,1008,105,0,106,4,106,99"
)

func TestBeamArea(t *testing.T) {
	for _, c := range []struct {
		prog string
		n    int
		want int
	}{
		{diagonal, 10, 10},
		{cone, 5, 9},
	} {
		b := NewBeam(intcode.MustParse(c.prog))
		got, err := b.Area(c.n)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Errorf("Area(%d) = %d, want %d", c.n, got, c.want)
		}
		if b.Probes != c.n*c.n {
			t.Errorf("%d probes, want %d", b.Probes, c.n*c.n)
		}
	}
}

func TestBeamFitSquare(t *testing.T) {
	b := NewBeam(intcode.MustParse(cone))
	for size, want := range map[int]image.Point{
		1: {0, 0},
		2: {2, 3},
		3: {4, 6},
	} {
		got, err := b.FitSquare(size)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("FitSquare(%d) = %v, want %v", size, got, want)
		}
	}
	if _, err := b.FitSquare(0); err == nil {
		t.Error("FitSquare(0) succeeded")
	}
}

func TestBeamNegative(t *testing.T) {
	b := NewBeam(intcode.MustParse(diagonal))
	if ok, err := b.Pulled(-1, -1); ok || err != nil || b.Probes != 0 {
		t.Errorf("Pulled(-1, -1) = %v, %v after %d probes", ok, err, b.Probes)
	}
}

const scaffold = `..#..........
..#..........
#######...###
#.#...#...#.#
#############
..#...#...#..
..#####...^..
`

func TestCamera(t *testing.T) {
	c, err := View(asciiProgram(scaffold + "\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.String() != scaffold {
		t.Errorf("view is\n%s\nwant\n%s", c, scaffold)
	}
	want := []image.Point{{2, 2}, {2, 4}, {6, 4}, {10, 4}}
	if got := c.Intersections(); !reflect.DeepEqual(got, want) {
		t.Errorf("intersections %v, want %v", got, want)
	}
	if a := c.Alignment(); a != 76 {
		t.Errorf("alignment %d, want 76", a)
	}
	if !c.Scaffold(image.Pt(10, 6)) {
		t.Error("robot is not on the scaffold")
	}
}

func TestVacuum(t *testing.T) {
	// Reads one line and prints 1000 times cell 0 combined with itself:
	// 2+2 as loaded, or 2*2 once the robot is woken.
	prog := intcode.MustParse("1,0,0,100,3,101,1008,101,10,102,1006,102,4,1002,100,1000,103,4,103,99")
	got, err := Vacuum(prog, []string{"A,B", "R,8", "L,4", "R,2"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4000 {
		t.Errorf("dust %d, want 4000", got)
	}
	if prog[0] != 1 {
		t.Error("Vacuum modified the program")
	}
	if _, err := Vacuum(asciiProgram("hi"), nil, true); !errors.Is(err, ErrNoDust) {
		t.Errorf("Vacuum error = %v, want %v", err, ErrNoDust)
	}
}

func TestTrace(t *testing.T) {
	var lines []string
	trace := intcode.WithTrace(func(format string, args ...any) {
		lines = append(lines, format)
	})
	if _, err := NewBeam(intcode.MustParse(diagonal), trace).Pulled(1, 1); err != nil {
		t.Fatal(err)
	}
	if len(lines) != 4 {
		t.Errorf("traced %d instructions, want 4", len(lines))
	}
}
