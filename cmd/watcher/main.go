package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Apurer/order-tracker/internal/app/watcher"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := watcher.Execute(ctx, os.Args[1:]); err != nil {
		log.Fatalf("order watcher failed: %v", err)
	}
}
