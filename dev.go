package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"
	"go.uber.org/zap"

	"github.com/nf/intcode/intcode"
)

// devMode runs the program in progFile and re-runs it whenever the file
// changes. With debug set, the program runs under the debugger, starts
// paused, and keeps its break points and watches across reloads.
func devMode(progFile string, debug bool, con *console, opts []intcode.Option) error {
	progFile = filepath.Clean(progFile)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(progFile)); err != nil {
		return err
	}

	var (
		d     *debugger
		state stateFunc = logState
	)
	if debug {
		d = newDebugger()
		state = d.StateFunc
	} else {
		opts = append(opts, intcode.WithInputFunc(con.Input))
	}
	opts = append(opts, intcode.WithOutputFunc(con.Output))
	r := newRunner(state, opts...)
	if d != nil {
		d.run = r
		log.SetPrefix("")
		log.SetOutput(d.log)
		con.w = d.log
		go func() {
			if err := d.Run(); err != nil {
				log.Fatalf("debug: %v", err)
			}
			log.SetOutput(os.Stderr)
			log.SetPrefix("intcode: ")
			r.Debug("exit", 0)
		}()
	}

	progCh := make(chan []int64)
	go func() {
		started := false
		load := time.After(1 * time.Millisecond)
		for {
			select {
			case <-load:
				log.Printf("dev: load %s", filepath.Base(progFile))
				prog, err := readProgram(progFile)
				if err != nil {
					log.Printf("dev: %v", err)
					break
				}
				if d != nil {
					syms, err := parseSymbols(progFile + ".sym")
					if err != nil && !errors.Is(err, fs.ErrNotExist) {
						log.Printf("dev: reading symbols: %v", err)
					}
					d.setSymbols(syms)
				}
				if !started {
					log.Printf("dev: start")
					progCh <- prog
					started = true
				} else {
					log.Printf("dev: reset")
					r.Swap(prog)
				}
			case ev := <-watcher.Event:
				if ev.Name == progFile && !ev.IsAttrib() {
					load = time.After(100 * time.Millisecond)
				}
			case err := <-watcher.Error:
				log.Printf("dev: watcher: %v", err)
			}
		}
	}()
	m := r.Run(<-progCh, debug)
	con.Flush()
	return fmt.Errorf("dev: exit after %d steps", m.Steps)
}

// logState reports the interesting machine states when running without a
// debugger.
func logState(m *intcode.Machine, k stateKind, err error) {
	switch k {
	case haltState:
		zap.L().Info("halted",
			zap.Int64("pc", m.PC),
			zap.Int("steps", m.Steps),
			zap.Uint64("hash", m.Fingerprint()))
	case inputState:
		zap.L().Info("waiting for input", zap.Int64("pc", m.PC))
	case faultState:
		zap.L().Error("fault", zap.Error(err))
	}
}

func readProgram(name string) ([]int64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prog, err := intcode.ReadProgram(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return prog, nil
}
