package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/nf/intcode/circuit"
	"github.com/nf/intcode/devices"
	"github.com/nf/intcode/intcode"
	"github.com/nf/intcode/network"
)

// run executes prog to completion, taking input first from in and then
// from the console.
func run(prog []int64, in []int64, con *console, opts []intcode.Option) error {
	opts = append([]intcode.Option{
		intcode.WithInput(in...),
		intcode.WithInputFunc(con.Input),
		intcode.WithOutputFunc(con.Output),
	}, opts...)
	m := intcode.New(prog, opts...)
	start := time.Now()
	err := m.Run()
	con.Flush()
	zap.L().Debug("run finished",
		zap.Int("steps", m.Steps),
		zap.Int("cells", m.Mem.Len()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Uint64("hash", m.Fingerprint()))
	return err
}

// runAmp finds the phase ordering that gives the strongest signal.
func runAmp(ctx context.Context, w io.Writer, prog []int64, phases string, feedback bool) error {
	ph, err := intcode.Parse(phases)
	if err != nil {
		return fmt.Errorf("phases: %w", err)
	}
	chain := circuit.Series
	if feedback {
		chain = func(prog, phases []int64) (int64, error) {
			return circuit.FeedbackConcurrent(ctx, prog, phases)
		}
	}
	best, order, err := circuit.MaxSignal(prog, ph, chain)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d (phases %s)\n", best, intcode.Format(order))
	return nil
}

// runNetwork runs the program on a network twice: once to find the first
// packet sent to the NAT, and once with the NAT to find the first Y value
// it delivers twice in a row.
func runNetwork(ctx context.Context, w io.Writer, prog []int64, cfg config, logger *zap.Logger, opts []intcode.Option) error {
	r, err := network.New(prog, cfg.network(logger, false), opts...).Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "first packet to NAT: %v\n", r.First)

	r, err = network.New(prog, cfg.network(logger, true), opts...).Run(ctx)
	var rep *network.RepeatError
	if !errors.As(err, &rep) {
		if err == nil {
			err = errors.New("network stopped without a NAT repeat")
		}
		return err
	}
	fmt.Fprintf(w, "NAT repeated Y: %d after %d rounds\n", rep.Y, r.Rounds)
	return nil
}

// runHull paints the hull twice, starting on a black panel and then on a
// white one, and writes the second hull to pngFile.
func runHull(w io.Writer, prog []int64, pngFile string, scale int, opts []intcode.Option) error {
	h, err := devices.Paint(prog, devices.Black, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "painted %d panels\n", h.Painted())

	h, err = devices.Paint(prog, devices.White, opts...)
	if err != nil {
		return err
	}
	fmt.Fprint(w, h)

	f, err := os.Create(pngFile)
	if err != nil {
		return err
	}
	if err := png.Encode(f, scaleImage(h.Image(), scale)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func scaleImage(src image.Image, scale int) image.Image {
	if scale <= 1 {
		return src
	}
	r := src.Bounds()
	dst := image.NewRGBA(image.Rectangle{Max: r.Size().Mul(scale)})
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, r, draw.Src, nil)
	return dst
}

// runArcade plays the game. Unless auto is set, the game is shown in a
// window and played with the arrow keys.
func runArcade(ctx context.Context, w io.Writer, prog []int64, auto bool, quarters int64, scale int, frame time.Duration, opts []intcode.Option) error {
	if auto {
		cab := devices.NewCabinet(devices.AutoJoystick)
		if err := cab.Play(ctx, prog, quarters, opts...); err != nil {
			return err
		}
		fmt.Fprint(w, cab)
		fmt.Fprintf(w, "blocks: %d\n", cab.Blocks())
		return nil
	}

	var (
		stick devices.Stick
		cab   = devices.NewCabinet(func(c *devices.Cabinet) int64 {
			time.Sleep(frame)
			return stick.Read(c)
		})
		exit    = make(chan bool)
		playErr error
	)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		playErr = cab.Play(ctx, prog, quarters, opts...)
		close(exit)
	}()
	if err := newArcadeWindow(cab, &stick, scale).Run(exit); err != nil {
		return err
	}
	cancel()
	<-exit
	fmt.Fprintf(w, "score: %d, blocks left: %d\n", cab.Score(), cab.Blocks())
	if errors.Is(playErr, context.Canceled) {
		return nil
	}
	return playErr
}
