package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// WithSignal returns a context canceled on the first of signals, or on
// SIGINT and SIGTERM when none are given. context.Cause names the signal.
// The returned stop releases the signal handler and the context.
func WithSignal(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	ctx, cancel := context.WithCancelCause(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)

	go func() {
		select {
		case sig := <-sigCh:
			cancel(fmt.Errorf("received signal %s", sig))
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel(context.Canceled)
	}
}
