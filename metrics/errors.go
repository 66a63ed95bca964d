package metrics

import "github.com/dora-network/dora-expcalc/errors"

var (
	ErrMetricsDisabled   = errors.New(errors.InvalidConfigErr, "metrics server is disabled")
	ErrMetricsRunning    = errors.New(errors.InternalError, "metrics server is already running")
	ErrMetricsNotRunning = errors.New(errors.InternalError, "metrics server is not running")
)
