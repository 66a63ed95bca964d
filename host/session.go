// Package host runs the prompt/read/evaluate/print loop around the evaluator
// over any byte stream, typically stdin or a serial port.
package host

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/dora-network/dora-expcalc/format"
	"github.com/dora-network/dora-expcalc/math/recurrence"
	"github.com/dora-network/dora-expcalc/timer"
	"github.com/rs/zerolog"
)

const (
	// DefaultMaxLineLength is how many bytes a request line may hold before it
	// is cut and the rest is read as the next line.
	DefaultMaxLineLength = 19

	Prompt       = "Enter the value of x: \r\n"
	EndOfRun     = "\nend of execution\r\n"
	TimerStarted = "\nStarting program timer after taking the inputs ...\r\n"
)

// Evaluator is the part of recurrence.Engine the session needs.
type Evaluator interface {
	Evaluate(x float64) (recurrence.Evaluation, error)
	Bits() int
}

// Recorder observes every request; metrics.EvaluationRecorder implements it.
type Recorder interface {
	Record(ev recurrence.Evaluation, elapsed time.Duration)
	RecordError(err error)
}

type nopRecorder struct{}

func (nopRecorder) Record(recurrence.Evaluation, time.Duration) {}
func (nopRecorder) RecordError(error)                           {}

// Option configures a Session.
type Option func(*Session)

// WithTimer replaces the monotonic timer that measures each request.
func WithTimer(t timer.Timer) Option {
	return func(s *Session) {
		s.timer = t
	}
}

// WithLogger sets the logger for rejected requests and per-request traces.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.log = logger
	}
}

// WithRecorder reports every evaluation and rejected request to r.
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithMaxLineLength sets the line cut; values below 1 are ignored.
func WithMaxLineLength(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxLine = n
		}
	}
}

// Session reads one value per line, evaluates e^x and writes the result in
// the fixed transcript format. The value -7 ends the session without being
// evaluated.
type Session struct {
	eval     Evaluator
	in       *bufio.Reader
	out      io.Writer
	timer    timer.Timer
	log      zerolog.Logger
	recorder Recorder
	maxLine  int
}

// NewSession serves eval over in and out with a monotonic timer, a no-op
// recorder and lines cut at DefaultMaxLineLength unless opts say otherwise.
func NewSession(eval Evaluator, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		eval:     eval,
		in:       bufio.NewReader(in),
		out:      out,
		timer:    timer.NewMonotonic(),
		log:      zerolog.Nop(),
		recorder: nopRecorder{},
		maxLine:  DefaultMaxLineLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves requests until the sentinel, the end of input, a write failure, or
// ctx is done. ctx is checked between requests; a blocked read is only
// interrupted by closing the underlying reader. Reaching the sentinel or the
// end of input returns nil.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.write(Prompt); err != nil {
			return err
		}

		line, err := s.nextLine()
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				s.log.Info().Msg("input closed")
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}

		done, err := s.serve(line)
		if err != nil || done {
			return err
		}
	}
}

func (s *Session) serve(line string) (done bool, err error) {
	in, err := format.ParseInput(line)
	if err != nil {
		s.log.Warn().Err(err).Str("line", line).Msg("rejected request")
		s.recorder.RecordError(err)
		return false, s.write(fmt.Sprintf("\ninvalid input: %v\r\n", err))
	}
	if in.Sentinel {
		s.log.Info().Msg("sentinel received")
		return true, s.write(EndOfRun)
	}

	if err = s.write(TimerStarted); err != nil {
		return false, err
	}
	s.timer.Start()

	ev, err := s.eval.Evaluate(in.Value)
	if err != nil {
		s.log.Warn().Err(err).Float64("x", in.Value).Msg("evaluation failed")
		s.recorder.RecordError(err)
		return false, s.write(fmt.Sprintf("\nerror: %v\r\n", err))
	}

	if err = s.write(fmt.Sprintf("\n%d bits precision \r\n%s", s.eval.Bits(), format.Decimal(ev.Result))); err != nil {
		return false, err
	}
	elapsed := s.timer.Elapsed()
	if err = s.write(fmt.Sprintf("\nExecution time: %d ns\r\n", elapsed.Nanoseconds())); err != nil {
		return false, err
	}

	s.recorder.Record(ev, elapsed)
	s.log.Debug().
		Float64("x", in.Value).
		Float64("y", ev.Result).
		Int("steps", ev.Steps).
		Dur("elapsed", elapsed).
		Msg("served request")
	return false, nil
}

// nextLine returns the next non-blank line. A lone "\n" left over from a
// "\r\n" terminator reads as blank and is skipped.
func (s *Session) nextLine() (string, error) {
	for {
		line, err := s.readLine()
		if line != "" {
			return line, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// readLine reads up to maxLine bytes, stopping at '\r' or '\n'. The
// terminator is consumed and not returned. A final unterminated line is
// returned with a nil error.
func (s *Session) readLine() (string, error) {
	buf := make([]byte, 0, s.maxLine)
	for len(buf) < s.maxLine {
		c, err := s.in.ReadByte()
		if err != nil {
			if len(buf) > 0 && stderrors.Is(err, io.EOF) {
				return string(buf), nil
			}
			return string(buf), err
		}
		if c == '\r' || c == '\n' {
			break
		}
		buf = append(buf, c)
	}
	return string(buf), nil
}

func (s *Session) write(msg string) error {
	if _, err := io.WriteString(s.out, msg); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
