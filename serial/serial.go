// Package serial opens the line device the host session is served over.
package serial

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dora-network/dora-expcalc/config"
	"github.com/dora-network/dora-expcalc/errors"
	"github.com/rs/zerolog"
	tarm "github.com/tarm/serial"
)

// Opener opens one port; tarm.OpenPort in production.
type Opener func(c *tarm.Config) (io.ReadWriteCloser, error)

func openPort(c *tarm.Config) (io.ReadWriteCloser, error) {
	return tarm.OpenPort(c)
}

type Option func(*opener)

type opener struct {
	open    Opener
	backoff func(timeout time.Duration) backoff.BackOff
	log     zerolog.Logger
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *opener) {
		o.log = logger
	}
}

func WithOpener(open Opener) Option {
	return func(o *opener) {
		o.open = open
	}
}

// WithBackOff replaces the exponential retry policy. timeout is the
// configured open timeout.
func WithBackOff(b func(timeout time.Duration) backoff.BackOff) Option {
	return func(o *opener) {
		o.backoff = b
	}
}

func exponential(timeout time.Duration) backoff.BackOff {
	return backoff.NewExponentialBackOff(backoff.WithMaxElapsedTime(timeout))
}

// Open opens cfg.Port, retrying while the device is missing or busy until
// cfg.OpenTimeout elapses or ctx is done. A zero OpenTimeout retries until
// ctx is done.
func Open(ctx context.Context, cfg config.Serial, opts ...Option) (io.ReadWriteCloser, error) {
	o := &opener{open: openPort, backoff: exponential, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}

	if cfg.Port == "" {
		return nil, errors.ErrPortNotConfigured
	}

	sc := &tarm.Config{Name: cfg.Port, Baud: cfg.Baud, ReadTimeout: cfg.ReadTimeout}
	var port io.ReadWriteCloser
	op := func() error {
		var err error
		port, err = o.open(sc)
		return err
	}
	notify := func(err error, next time.Duration) {
		o.log.Warn().Err(err).Str("port", cfg.Port).Dur("retry_in", next).Msg("unable to open serial port")
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(o.backoff(cfg.OpenTimeout), ctx), notify); err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, errors.Wrap(errors.UnavailableErr, err, "open serial port "+cfg.Port)
	}

	o.log.Info().Str("port", cfg.Port).Int("baud", cfg.Baud).Msg("serial port open")
	return port, nil
}

// CloseOnDone closes port once ctx is done, unblocking any pending read.
// After stop returns, a later cancellation of ctx no longer closes port.
func CloseOnDone(ctx context.Context, port io.Closer) (stop func()) {
	release := context.AfterFunc(ctx, func() {
		_ = port.Close()
	})
	return func() { release() }
}
