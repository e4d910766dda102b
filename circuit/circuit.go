// Package circuit wires Intcode machines into amplifier chains.
//
// Every amplifier runs its own copy of the same program. Its first input
// is its phase setting and every later input is a signal from the
// amplifier before it.
package circuit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nf/intcode/intcode"
)

// RunFunc computes the signal a chain produces for the given phase settings.
type RunFunc func(prog, phases []int64) (int64, error)

var errNoOutput = errors.New("halted without output")

// Series runs the amplifiers one after another, feeding 0 to the first
// and each amplifier's last output to the next, and returns the output of
// the last amplifier.
func Series(prog, phases []int64) (int64, error) {
	var signal int64
	for i, p := range phases {
		m := intcode.New(prog, intcode.WithInput(p, signal))
		if err := m.Run(); err != nil {
			return 0, fmt.Errorf("amplifier %d: %w", i, err)
		}
		out := m.Out.Drain()
		if len(out) == 0 {
			return 0, fmt.Errorf("amplifier %d: %w", i, errNoOutput)
		}
		signal = out[len(out)-1]
	}
	return signal, nil
}

// Feedback connects the last amplifier's output back to the first
// amplifier's input and passes signals around the loop, one amplifier at a
// time, until an amplifier halts. It returns the last signal produced by
// the last amplifier.
func Feedback(prog, phases []int64) (int64, error) {
	amps := make([]*intcode.Machine, len(phases))
	for i, p := range phases {
		amps[i] = intcode.New(prog, intcode.WithInput(p))
	}
	var (
		signal int64
		thrust int64
		ok     bool
	)
	for {
		for i, m := range amps {
			m.PushInput(signal)
			st, err := m.RunUntilOutput()
			if err != nil {
				return 0, fmt.Errorf("amplifier %d: %w", i, err)
			}
			if st == intcode.Halted {
				if !ok {
					return 0, fmt.Errorf("amplifier %d: %w", i, errNoOutput)
				}
				return thrust, nil
			}
			signal, _ = m.ReadOutput()
			if i == len(amps)-1 {
				thrust, ok = signal, true
			}
		}
	}
}

// FeedbackConcurrent is like Feedback but runs each amplifier in its own
// goroutine, connected to its neighbours by channels. An amplifier that
// halts closes its outgoing channel, so an amplifier waiting on it fails
// with InputStarvation instead of blocking.
func FeedbackConcurrent(ctx context.Context, prog, phases []int64) (int64, error) {
	n := len(phases)
	if n == 0 {
		return 0, errNoOutput
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	links := make([]chan int64, n)
	for i := range links {
		links[i] = make(chan int64, n+1)
		links[i] <- phases[i]
	}
	links[0] <- 0

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := range phases {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := intcode.New(prog)
			if err := m.Serve(ctx, links[i], links[(i+1)%n]); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("amplifier %d: %w", i, err))
				mu.Unlock()
				cancel()
				return
			}
			close(links[(i+1)%n])
		}(i)
	}
	wg.Wait()
	if len(errs) > 0 {
		return 0, errs[0]
	}

	// Whatever the first amplifier left unread came from the last one.
	var (
		thrust int64
		ok     bool
	)
drain:
	for {
		select {
		case v, open := <-links[0]:
			if !open {
				break drain
			}
			thrust, ok = v, true
		default:
			break drain
		}
	}
	if !ok {
		return 0, fmt.Errorf("amplifier %d: %w", n-1, errNoOutput)
	}
	return thrust, nil
}

// MaxSignal tries every ordering of phases and returns the highest signal
// produced by run, along with the ordering that produced it.
func MaxSignal(prog, phases []int64, run RunFunc) (best int64, order []int64, err error) {
	first := true
	err = permute(append([]int64(nil), phases...), func(p []int64) error {
		s, err := run(prog, p)
		if err != nil {
			return fmt.Errorf("phases %v: %w", p, err)
		}
		if first || s > best {
			best, order, first = s, append(order[:0], p...), false
		}
		return nil
	})
	return
}

// permute calls f with every permutation of a, using Heap's algorithm.
// The slice passed to f is reused between calls.
func permute(a []int64, f func([]int64) error) error {
	c := make([]int, len(a))
	if err := f(a); err != nil {
		return err
	}
	for i := 0; i < len(a); {
		if c[i] < i {
			if i%2 == 0 {
				a[0], a[i] = a[i], a[0]
			} else {
				a[c[i]], a[i] = a[i], a[c[i]]
			}
			if err := f(a); err != nil {
				return err
			}
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}
	return nil
}
