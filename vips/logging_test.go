package vips

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggingVerbosityFilter(t *testing.T) {
	prevHandler, prevVerbosity := loggingHandler, loggingVerbosity
	t.Cleanup(func() {
		SetLogging(prevHandler, prevVerbosity)
	})

	var got []LogLevel
	SetLogging(func(domain string, level LogLevel, message string) {
		assert.Equal(t, "VIPS", domain)
		got = append(got, level)
	}, LogLevelWarning)

	log("VIPS", LogLevelError, "boom")
	log("VIPS", LogLevelWarning, "careful")
	log("VIPS", LogLevelInfo, "chatty")
	log("VIPS", LogLevelDebug, "chattier")

	assert.Equal(t, []LogLevel{LogLevelError, LogLevelWarning}, got)
}

func TestLoggingNilHandlerDropsMessages(t *testing.T) {
	prevHandler, prevVerbosity := loggingHandler, loggingVerbosity
	t.Cleanup(func() {
		SetLogging(prevHandler, prevVerbosity)
	})

	SetLogging(nil, LogLevelDebug)
	assert.NotPanics(t, func() {
		log("VIPS", LogLevelError, "dropped")
	})
}
