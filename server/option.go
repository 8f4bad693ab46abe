package server

import (
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Option Server option
type Option func(s *Server)

// WithAddress with server address option
func WithAddress(address string) Option {
	return func(s *Server) {
		s.Address = address
	}
}

// WithPort with server port option
func WithPort(port int) Option {
	return func(s *Server) {
		s.Port = port
	}
}

// WithAddr with server addr option, overrides address and port
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.Addr = addr
	}
}

// WithLogger with logger option
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithMiddleware with middleware option
func WithMiddleware(middleware Middleware) Option {
	return func(s *Server) {
		if middleware != nil {
			s.Handler = middleware(s.Handler)
		}
	}
}

// WithPathPrefix with path prefix option
func WithPathPrefix(prefix string) Option {
	return func(s *Server) {
		s.PathPrefix = prefix
	}
}

// WithCORS with CORS option
func WithCORS(enable bool) Option {
	return func(s *Server) {
		if enable {
			s.Handler = cors.Default().Handler(s.Handler)
		}
	}
}

// WithAccessLog with access log option
func WithAccessLog(enable bool) Option {
	return func(s *Server) {
		if enable {
			s.Handler = s.accessLog(s.Handler)
		}
	}
}

// WithMetrics with standalone metrics endpoint option
func WithMetrics(metrics Metrics) Option {
	return func(s *Server) {
		s.Metrics = metrics
	}
}

// WithDebug with debug option
func WithDebug(debug bool) Option {
	return func(s *Server) {
		s.Debug = debug
	}
}

// WithStartupTimeout with app startup timeout option
func WithStartupTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.StartupTimeout = timeout
		}
	}
}

// WithShutdownTimeout with graceful shutdown timeout option
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.ShutdownTimeout = timeout
		}
	}
}

// WithCertFile with TLS cert file option
func WithCertFile(file string) Option {
	return func(s *Server) {
		s.CertFile = file
	}
}

// WithKeyFile with TLS key file option
func WithKeyFile(file string) Option {
	return func(s *Server) {
		s.KeyFile = file
	}
}
