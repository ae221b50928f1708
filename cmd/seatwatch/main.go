package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/endeavored/seatwatch/internal/app/seatwatch/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cli.ExecuteContext(ctx)
}
