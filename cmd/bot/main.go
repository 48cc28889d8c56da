package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivanoskov/intake_bot/internal/bot"
	"github.com/ivanoskov/intake_bot/internal/config"
	"github.com/ivanoskov/intake_bot/internal/logger"
	"github.com/ivanoskov/intake_bot/internal/metrics"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bot.Setup(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to start bot", zap.Error(err))
	}
	defer app.Close()

	if cfg.Metrics.ListenAddr != "" {
		go metrics.Serve(ctx, cfg.Metrics.ListenAddr, zl.Named("metrics"))
	}
	if app.Digest != nil {
		app.Digest.Start()
	}

	if err := app.Bot.Start(ctx); err != nil {
		zl.Error("bot stopped with error", zap.Error(err))
	}
}
