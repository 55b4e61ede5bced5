package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/app"
	"github.com/Ajaya-Rajbhandari/Growth-Companion-SDLC-sub000/internal/cli"
)

func main() {
	application, err := app.New(app.Options{
		Environment: os.Getenv("GROWTH_ENVIRONMENT"),
		UserID:      os.Getenv("GROWTH_USER"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Startup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start: %v\n", err)
		application.Shutdown(context.Background())
		os.Exit(1)
	}
	defer application.Shutdown(context.Background())

	if err := cli.Execute(ctx, application); err != nil {
		application.Shutdown(context.Background())
		os.Exit(1)
	}
}
