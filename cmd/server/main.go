package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SugaryLLC/sugary-web/internal/app"
	"github.com/SugaryLLC/sugary-web/internal/config"
	"github.com/SugaryLLC/sugary-web/internal/logger"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)
	logger.Init(cfg.Env)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, *cfg)
	if err != nil {
		logger.Fatal("failed to initialize app", "err", err.Error())
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr())
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", "err", err.Error())
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err.Error())
	}
}
