package main

import (
	"fmt"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// eventSink records writes, syncs and fatal calls in the order they happen.
type eventSink struct {
	events []string
}

func (s *eventSink) Write(p []byte) (int, error) {
	s.events = append(s.events, "write")
	return len(p), nil
}

func (s *eventSink) Sync() error {
	s.events = append(s.events, "sync")
	return nil
}

func TestFatalfSyncsLogger(t *testing.T) {
	var (
		sink   eventSink
		buf    = &zapcore.BufferedWriteSyncer{WS: &sink, Size: 1 << 16}
		logger = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			buf,
			zapcore.InfoLevel,
		))
		msg string
	)
	defer buf.Stop()

	saved := logFatalf
	defer func() { logFatalf = saved }()
	logFatalf = func(format string, args ...any) {
		sink.events = append(sink.events, "fatal")
		msg = fmt.Sprintf(format, args...)
	}

	logger.Info("halted")
	if len(sink.events) != 0 {
		t.Fatalf("buffered logger wrote early: %v", sink.events)
	}
	fatalf(logger, "run: %v", "boom")
	if g, w := sink.events, []string{"write", "sync", "fatal"}; !reflect.DeepEqual(g, w) {
		t.Errorf("events are %v, want %v", g, w)
	}
	if msg != "run: boom" {
		t.Errorf("fatal message is %q, want %q", msg, "run: boom")
	}
}
