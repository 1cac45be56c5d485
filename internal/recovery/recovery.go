// internal/recovery/recovery.go
package recovery

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
)

// HandlePanic should be deferred at the top of main().
// It prints the panic and stack trace and exits with code 1.
func HandlePanic() {
	if r := recover(); r != nil {
		_, _ = fmt.Fprintf(os.Stderr, "FATAL: %v\n\nStack trace:\n%s\n", r, debug.Stack())
		os.Exit(1)
	}
}

// Recover should be deferred in goroutines and handlers whose failure must
// stay local. It logs the panic with its stack and passes the recovered value
// to onPanic instead of exiting.
func Recover(log *slog.Logger, onPanic func(r any)) {
	if r := recover(); r != nil {
		if log == nil {
			log = slog.Default()
		}
		log.Error("recovered from panic", "panic", r, "stack", string(debug.Stack()))
		if onPanic != nil {
			onPanic(r)
		}
	}
}

// Usage in goroutines:
//go func() {
//	defer recovery.Recover(log, func(r any) {
//		errCh <- fmt.Errorf("reader panic: %v", r)
//	})
//	readLoop(ctx)
//}()
