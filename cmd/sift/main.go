package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// shutdownSignals cancel the command context; serve drains and exits on them.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), shutdownSignals...)
}

func main() {
	ctx, stop := signalContext()
	defer stop()

	if err := Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
