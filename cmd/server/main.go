package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/medplat-be/internal/archive"
	"github.com/hongminglow/medplat-be/internal/config"
	"github.com/hongminglow/medplat-be/internal/genai"
	"github.com/hongminglow/medplat-be/internal/logging"
	"github.com/hongminglow/medplat-be/internal/server"
	"github.com/hongminglow/medplat-be/internal/storage"
	"github.com/hongminglow/medplat-be/internal/storage/memory"
	"github.com/hongminglow/medplat-be/internal/storage/postgres"
	"github.com/hongminglow/medplat-be/internal/tracing"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		logger.Info("no .env file found; relying on existing environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.OTLPEndpoint)
	if err != nil {
		logger.WithError(err).Fatal("init tracing")
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("init database")
	}
	defer store.Close()

	archiver, err := archive.New(ctx, archive.Options{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	})
	if err != nil {
		logger.WithError(err).Fatal("init upload archive")
	}

	gen := genai.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.Gemini.APIKey, nil)
	if !gen.Configured() {
		logger.Warn("GEMINI_API_KEY not set; chatbot and KPI suggestions will fail")
	}

	srv := server.New(cfg, server.Deps{
		Store:     store,
		Archiver:  archiver,
		Generator: gen,
		Logger:    logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", cfg.HTTPAddress()).Info("medplat backend listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("graceful shutdown")
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.WithError(err).Error("flush traces")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("http server error")
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Store, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set; using in-memory store, data is lost on restart")
		return memory.NewStore(), nil
	}
	return postgres.NewStore(ctx, cfg.DatabaseURL)
}
