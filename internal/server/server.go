package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jeffmahoney/agama/internal/logging"
)

// Config holds the server configuration
type Config struct {
	Host     string
	Port     int
	CertPath string // TLS certificate (optional, plain HTTP when empty)
	KeyPath  string // TLS private key (required with CertPath)
	LogLevel string
}

// Fault makes the server answer one path with a fixed status, for exercising
// client error handling.
type Fault struct {
	StatusCode int
	Body       string
	// Times limits how often the fault fires; zero means until cleared
	Times int
}

// Server is the reference implementation of the configuration service API.
type Server struct {
	config    *Config
	store     *Store
	hub       *Hub
	engine    *gin.Engine
	registry  *prometheus.Registry
	metrics   *serverMetrics
	tlsConfig *tls.Config
	logger    *zap.Logger

	mu         sync.Mutex
	faults     map[string]*Fault
	httpServer *http.Server
	listener   net.Listener
}

// New creates a server backed by store.
func New(config *Config, store *Store) (*Server, error) {
	if config == nil {
		config = &Config{}
	}
	if store == nil {
		return nil, errors.New("server needs a store")
	}
	if config.LogLevel != "" {
		if err := logging.Initialize(config.LogLevel); err != nil {
			return nil, fmt.Errorf("failed to initialize logging: %w", err)
		}
	}

	var tlsConfig *tls.Config
	if config.CertPath != "" || config.KeyPath != "" {
		if config.CertPath == "" || config.KeyPath == "" {
			return nil, errors.New("both certificate and key must be provided for TLS")
		}
		var err error
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	logger := logging.Named("server")
	registry := prometheus.NewRegistry()

	s := &Server{
		config:    config,
		store:     store,
		hub:       NewHub(logger),
		registry:  registry,
		tlsConfig: tlsConfig,
		logger:    logger,
		faults:    make(map[string]*Fault),
	}
	s.metrics = newServerMetrics(registry, s.hub)
	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler serving the API, the event stream and
// the metrics endpoint.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Store returns the backing store
func (s *Server) Store() *Store {
	return s.store
}

// Hub returns the event hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// InjectFault makes requests for method and path (relative to /api, e.g.
// "network/system/apply") fail with the given status and body.
func (s *Server) InjectFault(method, path string, f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fault := f
	s.faults[method+" "+trimSlashes(path)] = &fault
}

// ClearFaults removes every injected fault
func (s *Server) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]*Fault)
}

func (s *Server) takeFault(method, path string) (Fault, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	f, ok := s.faults[key]
	if !ok {
		return Fault{}, false
	}
	if f.Times > 0 {
		f.Times--
		if f.Times == 0 {
			delete(s.faults, key)
		}
	}
	return *f, true
}

// Listen binds the listening socket. It is called by Start when needed and
// is exposed so callers can learn the port before serving.
func (s *Server) Listen() (net.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr(), nil
	}

	addr := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))
	var (
		l   net.Listener
		err error
	)
	if s.tlsConfig != nil {
		l, err = tls.Listen("tcp", addr, s.tlsConfig)
	} else {
		l, err = net.Listen("tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = l
	return l.Addr(), nil
}

// Start serves until ctx is done, a shutdown signal arrives or serving fails.
func (s *Server) Start(ctx context.Context) error {
	addr, err := s.Listen()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer := s.httpServer
	listener := s.listener
	s.mu.Unlock()

	s.logger.Info("Starting configuration service",
		zap.String("addr", addr.String()),
		zap.Strings("roots", s.store.Roots()),
		zap.Any("tls_info", GetTLSInfo(s.tlsConfig)),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Serve(listener)
	}()

	select {
	case <-sigChan:
		s.logger.Info("Shutdown signal received, stopping server...")
	case <-ctx.Done():
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown gracefully stops the server and disconnects event subscribers
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	s.hub.Close()

	s.mu.Lock()
	httpServer := s.httpServer
	listener := s.listener
	s.mu.Unlock()

	var err error
	if httpServer != nil {
		err = httpServer.Shutdown(ctx)
	} else if listener != nil {
		err = listener.Close()
	}

	logging.Sync()
	return err
}
