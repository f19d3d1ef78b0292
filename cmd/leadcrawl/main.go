// cmd/leadcrawl/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/law-makers/leadcrawl/internal/cli"
)

func main() {
	// Setup signal handling for graceful shutdown; the run stops between
	// browser actions and keeps its snapshots
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
