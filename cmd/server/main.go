package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/receptio/visitlog/internal/config"
	"github.com/receptio/visitlog/internal/database"
	"github.com/receptio/visitlog/internal/handlers"
	"github.com/receptio/visitlog/internal/storage"
	"github.com/receptio/visitlog/internal/store"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	db, err := database.Open(logger, cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}

	var archive storage.Archive
	if cfg.ArchiveEnabled() {
		archive = storage.NewS3Archive(cfg)
		logger.WithField("bucket", cfg.S3Bucket).Info("Signature archive enabled")
	}

	handler := handlers.NewHandler(logger, cfg, store.NewVisits(db), store.NewAudit(db), archive)

	r := mux.NewRouter()
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.MetricsMiddleware)
	handlers.RegisterRoutes(r, handler, cfg)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("Server shutdown error")
		}
	}()

	logger.WithFields(logrus.Fields{
		"addr":        server.Addr,
		"environment": cfg.Environment,
	}).Info("Starting server")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Fatal("Server failed")
	}
}
