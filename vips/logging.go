package vips

// #include <glib.h>
// #include "logging.h"
import "C"

// LogLevel glib log level as delivered to the registered handler. Lower
// values are more severe.
type LogLevel int

// LogLevel enum
const (
	LogLevelError   LogLevel = C.G_LOG_LEVEL_ERROR
	LogLevelWarning LogLevel = C.G_LOG_LEVEL_WARNING
	LogLevelInfo    LogLevel = C.G_LOG_LEVEL_INFO
	LogLevelDebug   LogLevel = C.G_LOG_LEVEL_DEBUG
)

// LoggingHandler receives libvips log output forwarded from glib
type LoggingHandler func(domain string, level LogLevel, message string)

var (
	loggingHandler   LoggingHandler
	loggingVerbosity LogLevel
)

// SetLogging sets the log handler and the maximum verbosity forwarded to
// it. Call before Startup; messages logged with no handler set are dropped.
func SetLogging(handler LoggingHandler, verbosity LogLevel) {
	loggingHandler = handler
	loggingVerbosity = verbosity
}

//export goLoggingHandler
func goLoggingHandler(domain *C.char, level C.int, message *C.char) {
	log(C.GoString(domain), LogLevel(level), C.GoString(message))
}

func log(domain string, level LogLevel, message string) {
	if loggingHandler == nil || level > loggingVerbosity {
		return
	}
	loggingHandler(domain, level, message)
}

func enableLogging() {
	C.set_logging_handler()
}

func disableLogging() {
	C.unset_logging_handler()
}
