package metrics

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	defaultReadTimeout       = time.Minute
	defaultReadHeaderTimeout = time.Minute
	defaultPort              = 8081
)

type Server struct {
	mu                    sync.Mutex
	srv                   *http.Server
	listener              net.Listener
	reg                   *prometheus.Registry
	log                   zerolog.Logger
	enabled               bool
	opts                  promhttp.HandlerOpts
	host                  string
	port                  int
	path                  string
	isRunning             bool
	httpReadTimeout       time.Duration
	httpReadHeaderTimeout time.Duration
}

func defaultServer() *Server {
	return &Server{
		enabled:               true,
		log:                   zerolog.Nop(),
		reg:                   prometheus.NewRegistry(),
		opts:                  promhttp.HandlerOpts{},
		port:                  defaultPort,
		path:                  "/metrics",
		httpReadTimeout:       defaultReadTimeout,
		httpReadHeaderTimeout: defaultReadHeaderTimeout,
	}
}

func NewServer(opts ...Option) *Server {
	s := defaultServer()
	applyOpts(s, opts)
	return s
}

func applyOpts(s *Server, opts []Option) {
	for _, opt := range opts {
		opt(s)
	}
}

func (s *Server) Path() string {
	if s.path == "" {
		return "/metrics"
	}
	return s.path
}

// Start binds the listener and serves in the background. Bind errors are
// returned here rather than logged from the serving goroutine.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return ErrMetricsDisabled
	}

	if s.srv != nil && s.isRunning {
		return ErrMetricsRunning
	}

	handler := promhttp.HandlerFor(s.reg, s.opts)
	mux := http.NewServeMux()
	mux.Handle(s.Path(), handler)

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.host, s.port))
	if err != nil {
		return fmt.Errorf("failed to bind metrics server: %w", err)
	}
	s.listener = ln
	s.srv = &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           mux,
		ReadTimeout:       s.httpReadTimeout,
		ReadHeaderTimeout: s.httpReadHeaderTimeout,
	}

	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("path", s.Path()).
		Msg("starting metrics server")

	srv := s.srv
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	s.isRunning = true

	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return ErrMetricsDisabled
	}

	if s.srv == nil || !s.isRunning {
		return ErrMetricsNotRunning
	}

	if err := s.srv.Close(); err != nil {
		return err
	}

	s.isRunning = false
	return nil
}

// Addr is the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Registry() *prometheus.Registry {
	return s.reg
}

func (s *Server) Register(instrumentation *Instrumentation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range instrumentation.Collectors() {
		if err := s.reg.Register(c); err != nil {
			return fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return nil
}

// StartMetricsServer registers instrumentation, sets the version gauge and
// starts serving. A disabled config returns a nil server and no error.
func StartMetricsServer(config Config, instrumentation *Instrumentation, logger zerolog.Logger, version string) (*Server, error) {
	if !config.Enabled {
		return nil, nil
	}

	metricsSvr := NewServer(
		WithLogger(logger),
		WithEnabled(config.Enabled),
		WithHost(config.Host),
		WithPort(config.Port),
		WithPath(config.Path),
		WithPrometheusHandlerOpts(promhttp.HandlerOpts{EnableOpenMetrics: config.OpenMetrics}),
		WithHttpTimeout(config.HttpTimeout),
		WithHttpHeaderTimeout(config.HttpHeaderTimeout),
	)
	if err := metricsSvr.Register(instrumentation); err != nil {
		logger.Err(err).
			Msg("failed to start metrics server")
		return nil, err
	}

	if gauge, ok := instrumentation.GaugeVecs[InstrumentationTypeVersion]; ok {
		gauge.With(prometheus.Labels{"version": version}).Set(1)
	}
	if err := metricsSvr.Start(); err != nil {
		logger.Err(err).
			Msg("failed to start metrics server")
		return nil, err
	}

	return metricsSvr, nil
}
