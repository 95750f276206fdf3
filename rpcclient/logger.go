package rpcclient

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the rpcclient package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the rpcclient package's logger.
// Clients created afterwards pick it up unless WithLogger is given.
func SetLogger(l *zap.Logger) {
	logger = l
}
