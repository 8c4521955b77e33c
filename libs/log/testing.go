package log

import (
	"testing"

	"github.com/rs/zerolog"
)

// NewTestingLogger converts a testing.T into a logging interface.
// Note that t.Log is only called when the test fails or the -test.v flag is
// set, so logs emitted through it do not pollute passing runs.
func NewTestingLogger(t *testing.T) Logger {
	return NewTestingLoggerWithLevel(t, LogLevelDebug)
}

// NewTestingLoggerWithLevel creates a testing logger instance at a specific
// level that wraps the behavior of testing.T.Log.
func NewTestingLoggerWithLevel(t *testing.T, level string) Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		t.Fatalf("failed to parse log level (%s): %v", level, err)
	}

	return defaultLogger{
		Logger: zerolog.New(newTestingWriter(t)).Level(logLevel),
	}
}

type testingWriter struct {
	t *testing.T
}

func newTestingWriter(t *testing.T) testingWriter {
	return testingWriter{t: t}
}

func (w testingWriter) Write(p []byte) (int, error) {
	size := len(p)
	if size > 0 && p[size-1] == '\n' {
		p = p[:size-1]
	}
	w.t.Log(string(p))
	return size, nil
}
