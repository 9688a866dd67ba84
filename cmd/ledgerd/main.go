// Command ledgerd serves the commission ledger HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a2sh3r/commission-ledger/internal/app"
)

const drainTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ledgerd: %v\n", err)
		os.Exit(1)
	}
}

// run blocks until SIGINT or SIGTERM, then drains in-flight requests and
// closes the store.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ledger, err := app.NewApp()
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if err := ledger.Run(ctx); err != nil {
		_ = ledger.Shutdown(context.Background())
		return fmt.Errorf("run: %w", err)
	}

	<-ctx.Done()
	stop()

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := ledger.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
