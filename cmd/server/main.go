package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tubegate/internal/adapters/handlers"
	yt "tubegate/internal/adapters/youtube"
	"tubegate/internal/config"
	"tubegate/internal/core/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// 1. Adapter (driven)
	resolver := yt.NewResolver(cfg.FetchTimeout, log.Named("youtube"))

	// 2. Core service
	svc := services.NewVideoService(resolver, cfg.DownloadDir)

	// 3. Adapter (driving)
	handler := handlers.NewHTTPHandler(svc, log.Named("http"), version)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), handlers.RequestID(), handlers.RequestLogger(log.Named("http")))
	handler.Register(engine)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     engine,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		log.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("download_dir", cfg.DownloadDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
