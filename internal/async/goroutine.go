package async

import (
	"runtime/debug"

	"agenttop/internal/logging"
)

// Go runs fn in a goroutine guarded by panic recovery. A panicking background
// goroutine must never take the dashboard down with it.
func Go(logger logging.Logger, name string, fn func()) {
	go func() {
		defer Recover(logger, name)
		fn()
	}()
}

// Recover logs panic details without crashing the process.
func Recover(logger logging.Logger, name string) {
	r := recover()
	if r == nil {
		return
	}
	logger = logging.OrNop(logger)
	if name == "" {
		logger.Error("goroutine panic: %v, stack: %s", r, debug.Stack())
		return
	}
	logger.Error("goroutine panic [%s]: %v, stack: %s", name, r, debug.Stack())
}
