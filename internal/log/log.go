// Package log provides the process-wide zap logger used by the fuel moisture
// service and its commands. The model package itself never logs.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

var (
	baseLogger *zap.Logger
	log        *zap.SugaredLogger
)

// Init builds the package-level logger. Debug mode uses zap's development
// config (console output, debug level); otherwise the JSON production config.
func Init(debug bool) error {
	var (
		zapLogger *zap.Logger
		err       error
	)
	if debug {
		zapLogger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		zapLogger, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}
	baseLogger = zapLogger
	log = zapLogger.Sugar()
	return nil
}

// ensure falls back to a production logger when Init was never called.
func ensure() {
	if log == nil {
		baseLogger, _ = zap.NewProduction(zap.AddCallerSkip(1))
		log = baseLogger.Sugar()
	}
}

// GetZapLogger returns the underlying structured logger.
func GetZapLogger() *zap.Logger {
	ensure()
	return baseLogger
}

// GetSugaredLogger returns the logger handed to controllers. It is named after
// the component so every line carries where it came from.
func GetSugaredLogger(component string) *zap.SugaredLogger {
	ensure()
	if component == "" {
		return log
	}
	return log.Desugar().WithOptions(zap.AddCallerSkip(-1)).Named(component).Sugar()
}

// Sync flushes any buffered log entries.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

func Debugf(template string, args ...interface{}) {
	ensure()
	log.Debugf(template, args...)
}

func Infof(template string, args ...interface{}) {
	ensure()
	log.Infof(template, args...)
}

func Info(args ...interface{}) {
	ensure()
	log.Info(args...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	ensure()
	log.Infow(msg, keysAndValues...)
}

func Warnf(template string, args ...interface{}) {
	ensure()
	log.Warnf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	ensure()
	log.Errorf(template, args...)
}

func Fatalf(template string, args ...interface{}) {
	ensure()
	log.Fatalf(template, args...)
	os.Exit(1)
}
