package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"train_schedule/internal/cleanup"
	"train_schedule/internal/config"
	"train_schedule/internal/controllers"
	"train_schedule/internal/database"
	"train_schedule/internal/logger"
	"train_schedule/internal/middleware"
	"train_schedule/internal/observability/metrics"
	"train_schedule/internal/routes"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging to file
	logger.Setup(cfg.Logging)
	metrics.Init()

	// Connect to the database
	db, err := database.Open(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Database setup failed")
	}
	store := database.NewStore(db)

	ctx := context.Background()
	if err := controllers.EnsureAdmin(ctx, store, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		logrus.WithError(err).Fatal("Admin bootstrap failed")
	}

	jwt := middleware.NewJWT(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	hub := controllers.NewBoardHub()
	ctl := controllers.New(store, jwt, hub)

	// Setup Gin router
	r := routes.SetupRouter(ctl)

	janitor := cleanup.NewService(store, cfg.Cleanup)
	if err := janitor.Start(); err != nil {
		logrus.WithError(err).Fatal("Cleanup scheduler failed to start")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server running at %s", cfg.Server.Addr)
		logrus.WithField("addr", cfg.Server.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
	janitor.Stop()
	hub.Close()
	if err := database.Close(db); err != nil {
		logrus.WithError(err).Error("Database close failed")
	}
}
