package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"HealthNewsRelay/internal/app"
	"HealthNewsRelay/internal/config"
	"HealthNewsRelay/internal/logging"
)

func main() {
	runOnce := flag.Bool("run-once", false, "execute a single cycle and exit")
	webOnly := flag.Bool("web-only", false, "process web sources only")
	mailOnly := flag.Bool("mail-only", false, "process the mailbox only")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger, app.Options{
		RunOnce:  *runOnce,
		WebOnly:  *webOnly,
		MailOnly: *mailOnly,
	})
	if err != nil {
		logger.Error("application init failed", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
