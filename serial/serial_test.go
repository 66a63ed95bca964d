package serial_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dora-network/dora-expcalc/config"
	"github.com/dora-network/dora-expcalc/errors"
	"github.com/dora-network/dora-expcalc/serial"
	tarm "github.com/tarm/serial"

	"github.com/stretchr/testify/require"
)

type fakePort struct {
	bytes.Buffer
	closed atomic.Bool
}

func (p *fakePort) Close() error {
	p.closed.Store(true)
	return nil
}

func fastRetry(retries uint64) serial.Option {
	return serial.WithBackOff(func(time.Duration) backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), retries)
	})
}

func TestOpenRetries(t *testing.T) {
	port := &fakePort{}
	calls := 0
	var got *tarm.Config
	opener := func(c *tarm.Config) (io.ReadWriteCloser, error) {
		calls++
		got = c
		if calls < 3 {
			return nil, stderrors.New("device busy")
		}
		return port, nil
	}

	cfg := config.DefaultConfig().Serial
	cfg.Port = "/dev/ttyUSB0"
	cfg.ReadTimeout = 100 * time.Millisecond

	rwc, err := serial.Open(context.Background(), cfg, serial.WithOpener(opener), fastRetry(5))
	require.NoError(t, err)
	require.Same(t, port, rwc)
	require.Equal(t, 3, calls)
	require.Equal(t, &tarm.Config{Name: "/dev/ttyUSB0", Baud: config.DefaultBaud, ReadTimeout: 100 * time.Millisecond}, got)
}

func TestOpenGivesUp(t *testing.T) {
	opener := func(*tarm.Config) (io.ReadWriteCloser, error) {
		return nil, stderrors.New("no such device")
	}
	cfg := config.Serial{Port: "/dev/ttyUSB9", Baud: 9600}

	_, err := serial.Open(context.Background(), cfg, serial.WithOpener(opener), fastRetry(2))
	require.True(t, errors.Is(err, errors.UnavailableErr))
	require.ErrorContains(t, err, "no such device")
}

func TestOpenDefaultBackOffHonoursTimeout(t *testing.T) {
	cfg := config.Serial{Port: "/dev/does-not-exist", Baud: 9600, OpenTimeout: 50 * time.Millisecond}

	start := time.Now()
	_, err := serial.Open(context.Background(), cfg)
	require.True(t, errors.Is(err, errors.UnavailableErr))
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestOpenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opener := func(*tarm.Config) (io.ReadWriteCloser, error) {
		return nil, stderrors.New("device busy")
	}
	cfg := config.Serial{Port: "/dev/ttyUSB0", Baud: 9600}

	_, err := serial.Open(ctx, cfg, serial.WithOpener(opener))
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpenNoPort(t *testing.T) {
	_, err := serial.Open(context.Background(), config.DefaultConfig().Serial)
	require.ErrorIs(t, err, errors.ErrPortNotConfigured)
}

func TestCloseOnDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	port := &fakePort{}
	serial.CloseOnDone(ctx, port)
	cancel()
	require.Eventually(t, port.closed.Load, time.Second, time.Millisecond)

	kept := &fakePort{}
	ctx, cancel = context.WithCancel(context.Background())
	stop := serial.CloseOnDone(ctx, kept)
	stop()
	cancel()
	time.Sleep(10 * time.Millisecond)
	require.False(t, kept.closed.Load())
}

func TestCloseOnDoneStopIsFinal(t *testing.T) {
	for range 200 {
		port := &fakePort{}
		ctx, cancel := context.WithCancel(context.Background())
		stop := serial.CloseOnDone(ctx, port)
		stop()
		cancel()
		require.Never(t, port.closed.Load, 2*time.Millisecond, time.Millisecond)
	}
}

func TestCloseOnDoneAlreadyDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	port := &fakePort{}
	stop := serial.CloseOnDone(ctx, port)
	require.Eventually(t, port.closed.Load, time.Second, time.Millisecond)
	stop()
}
