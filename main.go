// Command intcode executes Intcode programs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"go.uber.org/zap"

	"github.com/nf/intcode/intcode"
)

func main() {
	log.SetPrefix("intcode: ")
	log.SetFlags(0)

	var (
		devFlag   = flag.Bool("dev", false, "enable developer mode (re-run the program when its file changes)")
		debugFlag = flag.Bool("debug", false, "enable debugger (implies -dev)")
		asciiFlag = flag.Bool("ascii", false, "read and write ASCII text instead of integers")
		inFlag    = flag.String("in", "", "comma separated input `values` sent before reading standard input")

		arcadeFlag   = flag.Bool("arcade", false, "play the program in an arcade cabinet")
		autoFlag     = flag.Bool("auto", false, "with -arcade, let the cabinet play itself without a window")
		quartersFlag = flag.Int64("quarters", 0, "with -arcade, store `n` in cell 0 before playing")
		hullFlag     = flag.String("hull", "", "run a hull painting robot and write the hull to `file.png`")
		scaleFlag    = flag.Int("scale", 8, "pixels per hull panel or arcade tile")
		ampFlag      = flag.String("amp", "", "find the best ordering of amplifier `phases` (e.g. 0,1,2,3,4)")
		feedbackFlag = flag.Bool("feedback", false, "with -amp, connect the amplifiers in a feedback loop")
		netFlag      = flag.Bool("net", false, "run the program on a packet network")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-ascii] [-in values] <program.ic>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [-ascii] <-dev | -debug> <program.ic>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s <-arcade | -hull file.png | -amp phases | -net> <program.ic>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
	}
	progFile := flag.Arg(0)

	cfg := loadConfig()
	logger := setupLogger(cfg.LogLevel)
	defer logger.Sync()
	opts := cfg.vmOptions()

	in, err := parseInput(*inFlag)
	if err != nil {
		fatalf(logger, "-in: %v", err)
	}
	stdin := io.Reader(os.Stdin)
	if *arcadeFlag || *hullFlag != "" || *ampFlag != "" || *netFlag {
		stdin = nil
	}
	con := newConsole(stdin, os.Stdout, *asciiFlag)

	if *devFlag || *debugFlag {
		if len(in) > 0 {
			opts = append(opts, intcode.WithInput(in...))
		}
		if err := devMode(progFile, *debugFlag, con, opts); err != nil {
			fatalf(logger, "%v", err)
		}
		return
	}

	prog, err := readProgram(progFile)
	if err != nil {
		fatalf(logger, "%v", err)
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			fatalf(logger, "creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	switch {
	case *arcadeFlag:
		err = runArcade(ctx, os.Stdout, prog, *autoFlag, *quartersFlag, *scaleFlag, cfg.Frame, opts)
	case *hullFlag != "":
		err = runHull(os.Stdout, prog, *hullFlag, *scaleFlag, opts)
	case *ampFlag != "":
		err = runAmp(ctx, os.Stdout, prog, *ampFlag, *feedbackFlag)
	case *netFlag:
		err = runNetwork(ctx, os.Stdout, prog, cfg, logger, opts)
	default:
		err = run(prog, in, con, opts)
	}
	cancel()

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		fatalf(logger, "%v", err)
	}
}

// logFatalf is replaced in tests.
var logFatalf = log.Fatalf

// fatalf flushes logger before exiting, since log.Fatalf skips deferred
// calls.
func fatalf(logger *zap.Logger, format string, args ...any) {
	logger.Sync()
	logFatalf(format, args...)
}

func parseInput(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	return intcode.Parse(s)
}
