// 指示: miu200521358
package logging

import (
	"io"
	"sync"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger ILogger = NewLogger(io.Discard)
)

// DefaultLogger は既定ロガーを返す。
func DefaultLogger() ILogger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger は既定ロガーを差し替える。nilは無視する。
func SetDefaultLogger(logger ILogger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}
