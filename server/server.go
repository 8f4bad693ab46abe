package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// App is the application the server fronts, with startup and shutdown lifecycle
type App interface {
	http.Handler
	Startup(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Metrics runs a standalone monitoring endpoint alongside the server
type Metrics interface {
	Run()
}

// Server wraps the App with http and app lifecycle handling
type Server struct {
	http.Server
	App             App
	Metrics         Metrics
	Logger          *zap.Logger
	Debug           bool
	Address         string
	Port            int
	CertFile        string
	KeyFile         string
	PathPrefix      string
	StartupTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// New creates a Server
func New(app App, options ...Option) *Server {
	s := &Server{}
	s.App = app
	s.Port = 8000
	s.ReadTimeout = time.Second * 30
	s.MaxHeaderBytes = 1 << 20
	s.StartupTimeout = time.Second * 10
	s.ShutdownTimeout = time.Second * 5
	s.Logger = zap.NewNop()

	s.Handler = pathHandler(map[string]http.HandlerFunc{
		"/favicon.ico": handleFavicon,
		"/health":      handleHealth,
	})(s.App)

	for _, option := range options {
		option(s)
	}
	if s.PathPrefix != "" {
		s.Handler = http.StripPrefix(s.PathPrefix, s.Handler)
	}
	s.Handler = s.panicHandler(s.Handler)
	if s.Addr == "" {
		s.Addr = s.Address + ":" + strconv.Itoa(s.Port)
	}
	return s
}

// Run starts the server and blocks until SIGINT or SIGTERM
func (s *Server) Run() {
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	s.RunContext(signalContext(done))
}

// RunContext starts the server and blocks until ctx closes
func (s *Server) RunContext(ctx context.Context) {
	startupCtx, cancelStartup := context.WithTimeout(ctx, s.StartupTimeout)
	defer cancelStartup()
	if err := s.App.Startup(startupCtx); err != nil {
		s.Logger.Fatal("app startup", zap.Error(err))
	}
	if s.Metrics != nil {
		s.Metrics.Run()
	}

	go func() {
		if err := s.listenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatal("listen", zap.Error(err))
		}
	}()

	s.Logger.Info("server start", zap.String("addr", s.Addr))
	<-ctx.Done()

	// graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		s.Logger.Error("server shutdown", zap.Error(err))
	}
	if err := s.App.Shutdown(shutdownCtx); err != nil {
		s.Logger.Error("app shutdown", zap.Error(err))
	}
	s.Logger.Info("exit")
}

func (s *Server) listenAndServe() error {
	if s.CertFile != "" && s.KeyFile != "" {
		return s.ListenAndServeTLS(s.CertFile, s.KeyFile)
	}
	return s.ListenAndServe()
}

func (s *Server) panicHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.Logger.Error("panic",
					zap.Any("error", err),
					zap.String("stack", string(debug.Stack())))
				w.WriteHeader(http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.Logger.Info("access",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.String("ip", RealIP(r)),
			zap.Duration("took", time.Since(start)))
	})
}

func signalContext(done <-chan os.Signal) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-done
		cancel()
	}()
	return ctx
}
