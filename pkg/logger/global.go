package logger

import (
	"os"
	"sync/atomic"
)

// defaultLogger is the global default KomposLogger instance stored atomically.
var defaultLogger atomic.Value

func init() {
	defaultLogger.Store(New(os.Stderr))
}

// Default returns the global default KomposLogger instance.
func Default() *KomposLogger {
	return defaultLogger.Load().(*KomposLogger)
}

// SetDefault sets a new global default KomposLogger instance.
func SetDefault(logger *KomposLogger) {
	if logger != nil {
		defaultLogger.Store(logger)
	}
}
