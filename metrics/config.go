package metrics

import "time"

type Config struct {
	Enabled           bool          `mapstructure:"enabled" json:"enabled"`
	Path              string        `mapstructure:"path" json:"path"`
	Host              string        `mapstructure:"host" json:"host"`
	Port              int           `mapstructure:"port" json:"port"`
	Namespace         string        `mapstructure:"namespace" json:"namespace"`
	OpenMetrics       bool          `mapstructure:"open_metrics" json:"open_metrics"`
	HttpTimeout       time.Duration `mapstructure:"http_timeout" json:"http_timeout"`
	HttpHeaderTimeout time.Duration `mapstructure:"http_header_timeout" json:"http_header_timeout"`
}

// DefaultConfig leaves the endpoint off; a line-protocol host rarely has a
// scraper attached.
func DefaultConfig() Config {
	return Config{
		Enabled:           false,
		Path:              "/metrics",
		Host:              "",
		Port:              defaultPort,
		Namespace:         "expcalc",
		HttpTimeout:       time.Minute,
		HttpHeaderTimeout: time.Minute,
	}
}
