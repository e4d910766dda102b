package main

import (
	"image"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/nf/intcode/devices"
)

// arcadeWindow shows an arcade cabinet's screen and feeds the arrow keys
// to its joystick.
type arcadeWindow struct {
	cab   *devices.Cabinet
	stick *devices.Stick
	scale int

	size    image.Point // of the scaled frame
	buf     screen.Buffer
	tex     screen.Texture
	updates int // cab.Updates() when buf was last drawn
	dirty   bool
}

func newArcadeWindow(cab *devices.Cabinet, stick *devices.Stick, scale int) *arcadeWindow {
	if scale < 1 {
		scale = 1
	}
	return &arcadeWindow{cab: cab, stick: stick, scale: scale, updates: -1}
}

// Run drives the window until exit is closed or the window is closed.
func (a *arcadeWindow) Run(exit <-chan bool) error {
	var runErr error
	driver.Main(func(s screen.Screen) {
		w, err := s.NewWindow(&screen.NewWindowOptions{Title: "intcode arcade"})
		if err != nil {
			runErr = err
			return
		}
		defer w.Release()

		type update struct{}
		go func() {
			t := time.NewTicker(time.Second / 60)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					w.Send(update{})
				case <-exit:
					w.Send(update{})
					return
				}
			}
		}()

		defer a.release()

		var sz size.Event
		for {
			e := w.NextEvent()

			select {
			case <-exit:
				return
			default:
			}

			switch e := e.(type) {
			case size.Event:
				sz = e
				if sz.WidthPx+sz.HeightPx == 0 {
					return
				}
				a.dirty = true

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case key.Event:
				if a.key(e) {
					return
				}

			case paint.Event:
				a.dirty = true

			case update:
				if err := a.update(s); err != nil {
					log.Fatalf("update: %v", err)
				}
				if a.dirty && a.tex != nil {
					w.Scale(sz.Bounds(), a.tex, a.tex.Bounds(), draw.Src, nil)
					w.Publish()
					a.dirty = false
				}

			case error:
				log.Print(e)
			}
		}
	})
	return runErr
}

// key handles a key event and reports whether the window should close.
func (a *arcadeWindow) key(e key.Event) (quit bool) {
	if a.stick == nil {
		return e.Code == key.CodeEscape
	}
	switch e.Code {
	case key.CodeEscape:
		return true
	case key.CodeLeftArrow:
		if e.Direction == key.DirPress {
			a.stick.Set(-1)
		} else if e.Direction == key.DirRelease {
			a.stick.Set(0)
		}
	case key.CodeRightArrow:
		if e.Direction == key.DirPress {
			a.stick.Set(1)
		} else if e.Direction == key.DirRelease {
			a.stick.Set(0)
		}
	}
	return false
}

func (a *arcadeWindow) update(s screen.Screen) (err error) {
	u := a.cab.Updates()
	if u == a.updates {
		return nil
	}
	a.updates = u
	frame := a.cab.Frame()
	size := frame.Bounds().Size().Mul(a.scale)
	if a.tex == nil || a.size != size {
		a.release()
		a.size = size
		if a.buf, err = s.NewBuffer(size); err != nil {
			return
		}
		if a.tex, err = s.NewTexture(size); err != nil {
			return
		}
	}
	draw.NearestNeighbor.Scale(a.buf.RGBA(), a.buf.Bounds(), frame, frame.Bounds(), draw.Src, nil)
	a.tex.Upload(image.Point{}, a.buf, a.buf.Bounds())
	a.dirty = true
	return nil
}

func (a *arcadeWindow) release() {
	if a.tex != nil {
		a.tex.Release()
		a.tex = nil
	}
	if a.buf != nil {
		a.buf.Release()
		a.buf = nil
	}
}
