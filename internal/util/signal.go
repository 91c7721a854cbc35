package util

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// SetupInterruptHandler cancels the run on the first SIGINT/SIGTERM so the
// in-flight comic can finish cleanly. A second signal exits immediately.
func SetupInterruptHandler(cancel context.CancelFunc) (stop func()) {
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case <-sig:
		case <-done:
			return
		}
		fmt.Fprintln(os.Stderr, "\nInterrupt received. Finishing current comic...")
		cancel()

		select {
		case <-sig:
			fmt.Fprintln(os.Stderr, "\nExiting due to interrupt.")
			os.Exit(1)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sig)
		close(done)
	}
}
