package main

import (
	"os"
	"strconv"
	"time"

	"gitlab.com/efronlicht/enve"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nf/intcode/intcode"
	"github.com/nf/intcode/network"
)

// config holds the tunables that are read from the environment rather
// than from flags.
type config struct {
	MaxAddr    int64         // INTCODE_MAX_ADDR
	NetSize    int           // INTCODE_NET_SIZE
	IdleRounds int           // INTCODE_IDLE_ROUNDS
	MaxRounds  int           // INTCODE_MAX_ROUNDS
	MaxSteps   int           // INTCODE_MAX_STEPS, per node turn
	LogLevel   zapcore.Level // INTCODE_LOG_LEVEL
	Frame      time.Duration // INTCODE_FRAME, arcade joystick pacing
}

func parseInt64(s string) (int64, error) { return strconv.ParseInt(s, 0, 64) }

func loadConfig() config {
	return config{
		MaxAddr:    enve.Or(parseInt64, "INTCODE_MAX_ADDR", int64(intcode.DefaultMaxAddr)),
		NetSize:    enve.IntOr("INTCODE_NET_SIZE", network.DefaultSize),
		IdleRounds: enve.IntOr("INTCODE_IDLE_ROUNDS", network.DefaultIdleRounds),
		MaxRounds:  enve.IntOr("INTCODE_MAX_ROUNDS", network.DefaultMaxRounds),
		MaxSteps:   enve.IntOr("INTCODE_MAX_STEPS", network.DefaultMaxSteps),
		LogLevel:   enve.Or(zapcore.ParseLevel, "INTCODE_LOG_LEVEL", zapcore.InfoLevel),
		Frame:      enve.DurationOr("INTCODE_FRAME", time.Second/60),
	}
}

func (c config) vmOptions() []intcode.Option {
	return []intcode.Option{intcode.WithMaxAddr(c.MaxAddr)}
}

func (c config) network(logger *zap.Logger, nat bool) network.Config {
	return network.Config{
		Size:       c.NetSize,
		IdleRounds: c.IdleRounds,
		MaxRounds:  c.MaxRounds,
		MaxSteps:   c.MaxSteps,
		NAT:        nat,
		Logger:     logger,
	}
}

// setupLogger returns a console logger writing to standard error and
// installs it as zap's global logger.
func setupLogger(level zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	logger := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stderr),
		level,
	))
	zap.ReplaceGlobals(logger)
	return logger
}
