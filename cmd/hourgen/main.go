package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/teranos/hourgen/cmd/hourgen/commands"
	"github.com/teranos/hourgen/logger"
)

func main() {
	// Interrupt or terminate cancels the run; the open file is still finalized
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.NewRootCmd().ExecuteContext(ctx)
	stop()
	logger.Cleanup()

	if err != nil {
		commands.ReportError(os.Stderr, err)
		os.Exit(1)
	}
}
