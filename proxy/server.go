package proxy

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/cors"
	"golang.org/x/net/netutil"

	"github.com/stateless-solutions/stateless-go/libs/log"
	"github.com/stateless-solutions/stateless-go/rpc"
)

// Config is the proxy HTTP server configuration.
type Config struct {
	// MaxOpenConnections limits concurrent connections. 0 means unlimited.
	MaxOpenConnections int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxBodyBytes caps the request body size.
	MaxBodyBytes int64

	MaxHeaderBytes int

	// CORSAllowedOrigins enables CORS when non-empty.
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxOpenConnections: 0, // unlimited
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		MaxBodyBytes:       int64(1000000), // 1MB
		MaxHeaderBytes:     1 << 20,        // same as the net/http default
		CORSAllowedMethods: []string{http.MethodPost},
		CORSAllowedHeaders: []string{"Origin", "Accept", "Content-Type"},
	}
}

// IsCorsEnabled returns true if cross-origin resource sharing is enabled.
func (cfg *Config) IsCorsEnabled() bool {
	return len(cfg.CORSAllowedOrigins) != 0
}

// Listen starts a listener on addr. The address must carry its protocol
// prefix, e.g. tcp://127.0.0.1:8547 or unix:///var/run/stateless.sock.
func Listen(addr string, maxOpenConnections int) (net.Listener, error) {
	parts := strings.SplitN(addr, "://", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf(
			"invalid listening address %s (use fully formed addresses, including the tcp:// or unix:// prefix)",
			addr)
	}
	proto, address := parts[0], parts[1]
	listener, err := net.Listen(proto, address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %v: %w", addr, err)
	}
	if maxOpenConnections > 0 {
		listener = netutil.LimitListener(listener, maxOpenConnections)
	}
	return listener, nil
}

// Serve runs the handler on listener until the server fails or the listener
// closes. It blocks; close the listener to stop it.
func Serve(listener net.Listener, handler http.Handler, logger log.Logger, cfg *Config) error {
	logger.Info("starting proxy HTTP server", "addr", listener.Addr().String())

	if cfg.IsCorsEnabled() {
		handler = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: cfg.CORSAllowedMethods,
			AllowedHeaders: cfg.CORSAllowedHeaders,
		}).Handler(handler)
	}

	s := &http.Server{
		Handler:           RecoverAndLogHandler(maxBytesHandler{h: handler, n: cfg.MaxBodyBytes}, logger),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
	err := s.Serve(listener)
	logger.Info("proxy HTTP server stopped", "err", err)
	return err
}

// RecoverAndLogHandler wraps an HTTP handler, adding request logging. If the
// inner handler panics, the outer one recovers, logs, and sends a JSON-RPC
// internal error with a 500 status.
func RecoverAndLogHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rww := &responseWriterWrapper{-1, w}
		begin := time.Now()

		defer func() {
			if e := recover(); e != nil {
				logger.Error("panic in proxy HTTP handler",
					"err", e, "stack", string(debug.Stack()))
				res := rpc.InternalErrorResponse(nil, fmt.Errorf("%v", e))
				if body, mErr := json.Marshal(res); mErr == nil {
					rww.Header().Set("Content-Type", "application/json")
					rww.WriteHeader(http.StatusInternalServerError)
					_, _ = rww.Write(body)
				}
			}

			if rww.Status == -1 {
				rww.Status = http.StatusOK
			}
			logger.Debug("served proxy HTTP response",
				"method", r.Method,
				"url", r.URL,
				"status", rww.Status,
				"duration_ms", time.Since(begin).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			)
		}()

		handler.ServeHTTP(rww, r)
	})
}

// responseWriterWrapper remembers the status for logging.
type responseWriterWrapper struct {
	Status int
	http.ResponseWriter
}

func (w *responseWriterWrapper) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

type maxBytesHandler struct {
	h http.Handler
	n int64
}

func (h maxBytesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.n)
	h.h.ServeHTTP(w, r)
}
