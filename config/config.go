// Package config loads evaluator, transport and observability settings from
// defaults, an optional config file, EXPCALC_* environment variables and
// command line flags, in increasing order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/dora-network/dora-expcalc/errors"
	"github.com/dora-network/dora-expcalc/host"
	"github.com/dora-network/dora-expcalc/math/fixedpoint"
	"github.com/dora-network/dora-expcalc/math/recurrence"
	"github.com/dora-network/dora-expcalc/metrics"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "EXPCALC"

	ConfigFileKey    = "config"
	BitsKey          = "bits"
	TableSizeKey     = "table_size"
	MaxReusesKey     = "max_reuses"
	MaxStepsKey      = "max_steps"
	MaxLineLengthKey = "max_line_length"
	LogLevelKey      = "log.level"
	LogFileKey       = "log.file"
	LogConsoleKey    = "log.console"
	SerialPortKey    = "serial.port"
	SerialBaudKey    = "serial.baud"
	MetricsKey       = "metrics.enabled"
	MetricsPortKey   = "metrics.port"

	DefaultBaud        = 9600
	DefaultOpenTimeout = 30 * time.Second
)

type Serial struct {
	// Port is the device path, e.g. /dev/ttyUSB0. Empty means stdin/stdout.
	Port        string        `mapstructure:"port" json:"port"`
	Baud        int           `mapstructure:"baud" json:"baud"`
	ReadTimeout time.Duration `mapstructure:"read_timeout" json:"read_timeout"`
	OpenTimeout time.Duration `mapstructure:"open_timeout" json:"open_timeout"`
}

type Log struct {
	Level   string `mapstructure:"level" json:"level"`
	File    string `mapstructure:"file" json:"file"`
	Console bool   `mapstructure:"console" json:"console"`
}

type Config struct {
	Bits          int            `mapstructure:"bits" json:"bits"`
	TableSize     int            `mapstructure:"table_size" json:"table_size"`
	MaxReuses     int            `mapstructure:"max_reuses" json:"max_reuses"`
	MaxSteps      int            `mapstructure:"max_steps" json:"max_steps"`
	MaxLineLength int            `mapstructure:"max_line_length" json:"max_line_length"`
	Serial        Serial         `mapstructure:"serial" json:"serial"`
	Log           Log            `mapstructure:"log" json:"log"`
	Metrics       metrics.Config `mapstructure:"metrics" json:"metrics"`
}

func DefaultConfig() Config {
	return Config{
		Bits:          fixedpoint.DefaultWidth,
		TableSize:     recurrence.DefaultTableSize,
		MaxReuses:     recurrence.DefaultMaxReuses,
		MaxSteps:      0,
		MaxLineLength: host.DefaultMaxLineLength,
		Serial: Serial{
			Baud:        DefaultBaud,
			OpenTimeout: DefaultOpenTimeout,
		},
		Log: Log{
			Level:   zerolog.InfoLevel.String(),
			Console: true,
		},
		Metrics: metrics.DefaultConfig(),
	}
}

// SetDefaults registers every key with viper so environment variables are
// picked up by Unmarshal even when no file or flag mentions them.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault(BitsKey, d.Bits)
	v.SetDefault(TableSizeKey, d.TableSize)
	v.SetDefault(MaxReusesKey, d.MaxReuses)
	v.SetDefault(MaxStepsKey, d.MaxSteps)
	v.SetDefault(MaxLineLengthKey, d.MaxLineLength)

	v.SetDefault(SerialPortKey, d.Serial.Port)
	v.SetDefault(SerialBaudKey, d.Serial.Baud)
	v.SetDefault("serial.read_timeout", d.Serial.ReadTimeout)
	v.SetDefault("serial.open_timeout", d.Serial.OpenTimeout)

	v.SetDefault(LogLevelKey, d.Log.Level)
	v.SetDefault(LogFileKey, d.Log.File)
	v.SetDefault(LogConsoleKey, d.Log.Console)

	v.SetDefault(MetricsKey, d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("metrics.host", d.Metrics.Host)
	v.SetDefault(MetricsPortKey, d.Metrics.Port)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.open_metrics", d.Metrics.OpenMetrics)
	v.SetDefault("metrics.http_timeout", d.Metrics.HttpTimeout)
	v.SetDefault("metrics.http_header_timeout", d.Metrics.HttpHeaderTimeout)
}

// flagKeys maps command line flags to their config keys.
var flagKeys = map[string]string{
	"config":       ConfigFileKey,
	"bits":         BitsKey,
	"table-size":   TableSizeKey,
	"max-reuses":   MaxReusesKey,
	"max-steps":    MaxStepsKey,
	"log-level":    LogLevelKey,
	"log-file":     LogFileKey,
	"port":         SerialPortKey,
	"baud":         SerialBaudKey,
	"metrics":      MetricsKey,
	"metrics-port": MetricsPortKey,
}

// AddFlags registers the evaluator and logging flags shared by every command.
func AddFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()
	fs.String("config", "", "Path to a config file (yaml, json or toml)")
	fs.Int("bits", d.Bits, "Fraction width in bits")
	fs.Int("table-size", d.TableSize, "Number of ln(1+2^-i) table entries")
	fs.Int("max-reuses", d.MaxReuses, "Per-entry multiplier used to derive the step bound")
	fs.Int("max-steps", d.MaxSteps, "Total step bound, 0 derives it from table-size and max-reuses")
	fs.String("log-level", d.Log.Level, "Log level (debug, info, warn, error)")
	fs.String("log-file", d.Log.File, "Append JSON logs to this file")
}

// AddHostFlags registers the flags only the interactive host uses.
func AddHostFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()
	fs.String("port", d.Serial.Port, "Serial device to serve, stdin/stdout when empty")
	fs.Int("baud", d.Serial.Baud, "Serial baud rate")
	fs.Bool("metrics", d.Metrics.Enabled, "Serve prometheus metrics")
	fs.Int("metrics-port", d.Metrics.Port, "Metrics listen port")
}

// BindFlags binds every known flag present in fs to its key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrap(errors.InvalidConfigErr, err, "bind flag "+name)
		}
	}
	return nil
}

// Load resolves the configuration held by v. Flags should already be bound.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString(ConfigFileKey); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrap(errors.InvalidConfigErr, err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.InvalidConfigErr, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the engine does not validate itself.
func (c Config) Validate() error {
	if c.MaxLineLength < 1 {
		return errors.Newf(errors.InvalidConfigErr, "max line length must be positive, got %d", c.MaxLineLength)
	}
	if c.Serial.Port != "" && c.Serial.Baud <= 0 {
		return errors.Newf(errors.InvalidConfigErr, "baud must be positive, got %d", c.Serial.Baud)
	}
	if c.Serial.ReadTimeout < 0 || c.Serial.OpenTimeout < 0 {
		return errors.New(errors.InvalidConfigErr, "serial timeouts must not be negative")
	}
	return nil
}

// EngineOptions translates the evaluator settings into recurrence options.
func (c Config) EngineOptions(logger zerolog.Logger) []recurrence.Option {
	return []recurrence.Option{
		recurrence.WithBits(c.Bits),
		recurrence.WithTableSize(c.TableSize),
		recurrence.WithMaxReuses(c.MaxReuses),
		recurrence.WithMaxSteps(c.MaxSteps),
		recurrence.WithLogger(logger),
	}
}

// Engine builds the evaluator described by c.
func (c Config) Engine(logger zerolog.Logger) (*recurrence.Engine, error) {
	return recurrence.New(c.EngineOptions(logger)...)
}
