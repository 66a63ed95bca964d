// Package logger builds the zerolog loggers used by the command line tools.
package logger

import (
	stderrors "errors"
	"io"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dora-network/dora-expcalc/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
)

const (
	ServiceName = "expcalc"

	diodeSize         = 1024
	diodePollInterval = 15 * time.Millisecond
)

var (
	mu      sync.Mutex
	diodes  []diode.Writer
	logFile []*os.File
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

// New returns a logger at the given level. Lines are appended as JSON to
// file when it is set, and written human-readable to stderr when console
// is set. With neither, JSON goes to stderr.
func New(level, file string, console bool) (*zerolog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	w, err := writer(file, console)
	if err != nil {
		return nil, err
	}
	return build(w, lvl), nil
}

// NewThreadSafeLogger is New with writes buffered through a diode so a slow
// sink never stalls the caller. Messages are dropped, not blocked on, when
// the buffer is full. Close flushes the buffer.
func NewThreadSafeLogger(level, file string, console bool) (*zerolog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	w, err := writer(file, console)
	if err != nil {
		return nil, err
	}

	dw := diode.NewWriter(writeOnly{w}, diodeSize, diodePollInterval, func(missed int) {
		log.Printf("diode: dropped %d log messages", missed)
	})
	mu.Lock()
	diodes = append(diodes, dw)
	mu.Unlock()

	return build(dw, lvl), nil
}

// Close flushes every thread-safe logger and closes every log file opened by
// New or NewThreadSafeLogger. Loggers must not be used afterwards.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	var errs []error
	for _, dw := range diodes {
		if err := dw.Close(); err != nil && !stderrors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}
	for _, f := range logFile {
		if err := f.Close(); err != nil && !stderrors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}
	diodes, logFile = nil, nil
	return stderrors.Join(errs...)
}

// writeOnly hides Close so closing a diode leaves stderr and the tracked
// log files alone.
type writeOnly struct{ io.Writer }

func parseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, errors.Wrap(errors.InvalidConfigErr, err, "log level")
	}
	return lvl, nil
}

func writer(file string, console bool) (io.Writer, error) {
	var writers []io.Writer
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrap(errors.InvalidConfigErr, err, "open log file")
		}
		mu.Lock()
		logFile = append(logFile, f)
		mu.Unlock()
		writers = append(writers, f)
	}
	if console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	switch len(writers) {
	case 0:
		return os.Stderr, nil
	case 1:
		return writers[0], nil
	default:
		return io.MultiWriter(writers...), nil
	}
}

func build(w io.Writer, level zerolog.Level) *zerolog.Logger {
	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("instance_id", must(uuid.NewV7()).String()).
		Str("service", ServiceName).
		Logger()

	dbglogger := logger.With().
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Str("goarch", runtime.GOARCH).
		Str("goos", runtime.GOOS).
		Logger()
	if info, ok := debug.ReadBuildInfo(); ok {
		dbglogger.Debug().Str("go", info.GoVersion).Str("module", info.Main.Path).Str("version", info.Main.Version).Msg("buildinfo")
	}
	dbglogger.Debug().Msg("logger init")

	return &logger
}
