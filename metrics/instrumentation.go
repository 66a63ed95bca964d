package metrics

import "github.com/prometheus/client_golang/prometheus"

// InstrumentationType is the type of instrumentation the metric is capturing
// Use this type to define your own instrumentation types e.g.:
// const (
//     InstrumentationTypeSerialReconnects InstrumentationType = iota + 100
// )
type InstrumentationType uint64

const (
	InstrumentationTypeVersion InstrumentationType = iota
	InstrumentationTypeEvaluationCount
	InstrumentationTypeEvaluationFailure
	InstrumentationTypeEvaluationSteps
	InstrumentationTypeEvaluationSubtractions
	InstrumentationTypeEvaluationDuration
)

var (
	// StepBuckets covers the default 40-step bound of a 10-entry table.
	StepBuckets = prometheus.LinearBuckets(0, 4, 11)
	// DurationBuckets is in seconds, from 100ns to about 1.6ms.
	DurationBuckets = prometheus.ExponentialBuckets(1e-7, 4, 8)
)

type Instrumentation struct {
	namespace   string
	CounterVecs map[InstrumentationType]*prometheus.CounterVec
	GaugeVecs   map[InstrumentationType]*prometheus.GaugeVec
	Histograms  map[InstrumentationType]prometheus.Histogram
}

func NewInstrumentation(namespace string, opts ...InstrumentationOption) *Instrumentation {
	instrumentation := &Instrumentation{
		namespace:   namespace,
		CounterVecs: make(map[InstrumentationType]*prometheus.CounterVec),
		GaugeVecs:   make(map[InstrumentationType]*prometheus.GaugeVec),
		Histograms:  make(map[InstrumentationType]prometheus.Histogram),
	}

	for _, opt := range opts {
		opt(instrumentation)
	}
	return instrumentation
}

// NewEvaluatorInstrumentation registers every series EvaluationRecorder writes.
func NewEvaluatorInstrumentation(namespace string) *Instrumentation {
	return NewInstrumentation(
		namespace,
		WithGaugeVec(InstrumentationTypeVersion, "version", "Build version of the evaluator", []string{"version"}),
		WithCounterVec(InstrumentationTypeEvaluationCount, "evaluations_total", "Evaluations by halt reason", []string{"halt"}),
		WithCounterVec(InstrumentationTypeEvaluationFailure, "evaluation_failures_total", "Rejected requests by error type", []string{"type"}),
		WithHistogram(InstrumentationTypeEvaluationSteps, "evaluation_steps", "Recurrence steps per evaluation", StepBuckets),
		WithHistogram(InstrumentationTypeEvaluationSubtractions, "evaluation_subtractions", "Table entries consumed per evaluation", StepBuckets),
		WithHistogram(InstrumentationTypeEvaluationDuration, "evaluation_duration_seconds", "Host-measured time per request", DurationBuckets),
	)
}

func (i *Instrumentation) Collectors() (collectors []prometheus.Collector) {
	for _, counterVecs := range i.CounterVecs {
		collectors = append(collectors, counterVecs)
	}
	for _, gaugeVecs := range i.GaugeVecs {
		collectors = append(collectors, gaugeVecs)
	}
	for _, histograms := range i.Histograms {
		collectors = append(collectors, histograms)
	}
	return
}
