package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mediastack/upload-service/internal/config"
	"github.com/mediastack/upload-service/internal/storage/objstore"
	pg "github.com/mediastack/upload-service/internal/storage/postgres"
	"github.com/mediastack/upload-service/internal/upload/chunkstore"
	"github.com/mediastack/upload-service/internal/upload/httpapi"
	"github.com/mediastack/upload-service/internal/upload/notify"
	"github.com/mediastack/upload-service/internal/upload/service"
)

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is empty")
	}

	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "upload").Logger()

	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	if err := pg.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Dependencies
	videos := pg.NewVideoRepo(db)
	records := pg.NewMediaRecordRepo(db)
	outboxRepo := pg.NewOutboxRepo(db)
	notifier := notify.NewOutboxNotifier(outboxRepo)
	chunks := chunkstore.New(log)

	svc := service.New(videos, records, chunks, notifier, service.Config{
		ChunkRoot:    cfg.Upload.ChunkRoot,
		ExternalRoot: cfg.Upload.ExternalRoot,
		MaxChunkSize: cfg.Upload.MaxChunkSize,
	}, log)

	if cfg.MinIO.Endpoint != "" {
		archiver, err := objstore.New(ctx, objstore.Config{
			Endpoint:        cfg.MinIO.Endpoint,
			AccessKeyID:     cfg.MinIO.AccessKeyID,
			SecretAccessKey: cfg.MinIO.SecretAccessKey,
			Bucket:          cfg.MinIO.Bucket,
			UseSSL:          cfg.MinIO.UseSSL,
		}, log)
		if err != nil {
			return fmt.Errorf("object storage: %w", err)
		}
		svc.WithArchiver(archiver)
		log.Info().Str("endpoint", cfg.MinIO.Endpoint).Msg("object storage archiving enabled")
	}

	h := httpapi.New(svc, log)
	router := httpapi.NewRouter(h)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen and serve: %w", err)
	}
}
