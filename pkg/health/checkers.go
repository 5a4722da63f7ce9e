package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck returns a liveness check failing when the process
// exceeds max goroutines, a cheap leak canary for a long-running
// terminal.
func GoroutineCountCheck(max int) Check {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > max {
			return errors.Errorf("%d goroutines exceed limit %d", n, max)
		}
		return nil
	}
}
