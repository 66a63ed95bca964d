package metrics

import (
	"time"

	"github.com/dora-network/dora-expcalc/errors"
	"github.com/dora-network/dora-expcalc/math/recurrence"
)

// EvaluationRecorder feeds host requests into an evaluator Instrumentation
// built by NewEvaluatorInstrumentation.
type EvaluationRecorder struct {
	instrumentation *Instrumentation
}

func NewEvaluationRecorder(instrumentation *Instrumentation) *EvaluationRecorder {
	return &EvaluationRecorder{instrumentation: instrumentation}
}

func (r *EvaluationRecorder) Record(ev recurrence.Evaluation, elapsed time.Duration) {
	r.instrumentation.CounterVecs[InstrumentationTypeEvaluationCount].WithLabelValues(ev.Halt.String()).Inc()
	r.instrumentation.Histograms[InstrumentationTypeEvaluationSteps].Observe(float64(ev.Steps))
	r.instrumentation.Histograms[InstrumentationTypeEvaluationSubtractions].Observe(float64(ev.Subtractions()))
	r.instrumentation.Histograms[InstrumentationTypeEvaluationDuration].Observe(elapsed.Seconds())
}

func (r *EvaluationRecorder) RecordError(err error) {
	typ := string(errors.InternalError)
	for _, t := range []errors.ErrorType{errors.InvalidInputError, errors.InvalidDataErr} {
		if errors.Is(err, t) {
			typ = string(t)
			break
		}
	}
	r.instrumentation.CounterVecs[InstrumentationTypeEvaluationFailure].WithLabelValues(typ).Inc()
}
