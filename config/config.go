package config

import (
	"flag"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/TheZeroSlave/zapsentry"
	"github.com/cshum/vipscale"
	"github.com/cshum/vipscale/metrics/prometheusmetrics"
	"github.com/cshum/vipscale/server"
	"github.com/peterbourgon/ff/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CreateServer creates the vipscale server from command line arguments,
// environment variables and optional .env config file
func CreateServer(args []string) (srv *server.Server) {
	var (
		fs     = flag.NewFlagSet("vipscale", flag.ExitOnError)
		logger *zap.Logger
		err    error

		debug        = fs.Bool("debug", false, "Debug mode")
		version      = fs.Bool("version", false, "vipscale version")
		port         = fs.Int("port", 8000, "Server port")
		goMaxProcess = fs.Int("gomaxprocs", 0, "GOMAXPROCS")

		_ = fs.String("config", ".env", "Retrieve configuration from the given file")

		sentryDsn = fs.String("sentry-dsn", "",
			"Sentry DSN for error reporting. Leave empty to disable")

		resizeConcurrency = fs.Int64("resize-concurrency", -1,
			"Concurrent resize limit, requests beyond it get 429. Set -1 for no limit")
		resizeQuality = fs.Int("resize-quality", 80,
			"Default JPEG save quality when the request specifies none")

		vipsConcurrency = fs.Int("vips-concurrency", 1,
			"VIPS concurrency. Set -1 to be the number of CPU cores")
		vipsMaxCacheFiles = fs.Int("vips-max-cache-files", 0,
			"VIPS max cache files")
		vipsMaxCacheSize = fs.Int("vips-max-cache-size", 0,
			"VIPS max cache size")
		vipsMaxCacheMem = fs.Int("vips-max-cache-mem", 0,
			"VIPS max cache mem")

		serverAddress = fs.String("server-address", "",
			"Server address")
		serverPathPrefix = fs.String("server-path-prefix", "",
			"Server path prefix")
		serverCORS = fs.Bool("server-cors", false,
			"Enable CORS")
		serverAccessLog = fs.Bool("server-access-log", false,
			"Enable server access log")

		prometheusBind = fs.String("prometheus-bind", "",
			"Specify address and port to enable Prometheus metrics, e.g. :5000, prom:7000")
		prometheusPath = fs.String("prometheus-path", "/metrics",
			"Prometheus metrics path")
	)

	if err = ff.Parse(fs, args,
		ff.WithEnvVars(),
		ff.WithConfigFileFlag("config"),
		ff.WithIgnoreUndefined(true),
		ff.WithAllowMissingConfigFile(true),
		ff.WithConfigFileParser(ff.EnvParser),
	); err != nil {
		panic(err)
	}
	if *debug {
		if logger, err = zap.NewDevelopment(); err != nil {
			panic(err)
		}
	} else {
		if logger, err = zap.NewProduction(); err != nil {
			panic(err)
		}
	}
	if *sentryDsn != "" {
		logger = withSentry(logger, *sentryDsn)
	}

	if *version {
		fmt.Println(vipscale.Version)
		return
	}

	if *goMaxProcess > 0 {
		logger.Debug("GOMAXPROCS", zap.Int("count", *goMaxProcess))
		runtime.GOMAXPROCS(*goMaxProcess)
	}

	if *vipsConcurrency == -1 {
		*vipsConcurrency = runtime.NumCPU()
	}
	concurrency := *resizeConcurrency
	if concurrency < 0 {
		concurrency = 0
	}

	app := vipscale.New(
		vipscale.WithLogger(logger),
		vipscale.WithDebug(*debug),
		vipscale.WithConcurrency(concurrency),
		vipscale.WithDefaultQuality(*resizeQuality),
		vipscale.WithVipsConcurrency(*vipsConcurrency),
		vipscale.WithMaxCacheFiles(*vipsMaxCacheFiles),
		vipscale.WithMaxCacheMem(*vipsMaxCacheMem),
		vipscale.WithMaxCacheSize(*vipsMaxCacheSize),
	)

	options := []server.Option{
		server.WithAddress(*serverAddress),
		server.WithPort(*port),
		server.WithPathPrefix(*serverPathPrefix),
		server.WithCORS(*serverCORS),
		server.WithAccessLog(*serverAccessLog),
		server.WithLogger(logger),
		server.WithDebug(*debug),
	}
	if *prometheusBind != "" {
		pHost, pPort := parseBind(*prometheusBind)
		options = append(options,
			server.WithMetrics(prometheusmetrics.New(
				prometheusmetrics.WithHost(pHost),
				prometheusmetrics.WithPort(pPort),
				prometheusmetrics.WithPath(*prometheusPath),
				prometheusmetrics.WithLogger(logger),
			)),
			server.WithMiddleware(prometheusmetrics.Handle),
		)
	}
	return server.New(app, options...)
}

func withSentry(logger *zap.Logger, dsn string) *zap.Logger {
	core, err := zapsentry.NewCore(zapsentry.Configuration{
		Level: zapcore.ErrorLevel,
	}, zapsentry.NewSentryClientFromDSN(dsn))
	if err != nil {
		logger.Warn("sentry init", zap.Error(err))
		return logger
	}
	return zapsentry.AttachCoreToLogger(core, logger)
}

// parseBind splits a host:port bind spec, tolerating a bare :port
func parseBind(bind string) (host string, port int) {
	if i := strings.LastIndex(bind, ":"); i >= 0 {
		host = bind[:i]
		port, _ = strconv.Atoi(bind[i+1:])
		return
	}
	port, _ = strconv.Atoi(bind)
	return
}
