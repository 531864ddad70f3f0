package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/potionworks/potiond/config"
	"github.com/potionworks/potiond/internal/app"
	"github.com/potionworks/potiond/internal/repository/mongodb"
	"github.com/potionworks/potiond/internal/restapi"
	"github.com/potionworks/potiond/internal/webserver"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configFile := flag.String("c", "potiond.yml", "config file path")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	application := app.NewApplication(cfg)
	if err := application.Init(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "init application: %v\n", err)
		os.Exit(1)
	}

	potions := mongodb.NewPotionRepository(application)
	users := mongodb.NewUserRepository(application)

	ws := webserver.New(cfg)
	restapi.New(cfg, potions, users).Register(ws.Echo())

	go func() {
		if err := ws.Start(); err != nil && err != http.ErrServerClosed {
			zap.S().Fatalf("web server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	zap.S().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := ws.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorf("web server shutdown failed: %v", err)
	}
	application.Release(shutdownCtx)
}
