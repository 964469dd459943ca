package common

import (
	"fmt"

	"github.com/ternarybob/arbor"
)

// SafeGo runs fn in a goroutine and logs a panic instead of crashing the service.
func SafeGo(logger arbor.ILogger, name string, fn func()) {
	go func() {
		defer RecoverAndLog(logger, name)
		fn()
	}()
}

// RecoverAndLog recovers a panic in the calling goroutine and logs it. It must be
// deferred directly.
func RecoverAndLog(logger arbor.ILogger, name string) {
	if r := recover(); r != nil {
		logger.Error().
			Str("goroutine", name).
			Str("panic", fmt.Sprintf("%v", r)).
			Str("stack", GetStackTrace()).
			Msg("Recovered from panic - continuing service operation")
	}
}
