package main

import (
	"context"
	"fmt"
	"io"

	"nomadoctor/internal/backup"
	"nomadoctor/internal/config"
	"nomadoctor/internal/history"
	"nomadoctor/internal/nomad"
	applog "nomadoctor/pkg/log"
	s3store "nomadoctor/pkg/s3"

	"github.com/rs/zerolog"
)

// app carries everything a command needs, built once from config
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	service *backup.Service
	closers []func() error
}

// newS3Client builds the blob store client; replaced in tests
var newS3Client = s3store.NewClient

// stdout receives backups written without a destination
func newApp(ctx context.Context, configPath string, stdout io.Writer) (*app, error) {
	cfg, err := config.NewConfig(ctx, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := applog.New(cfg.Log)
	a := &app{cfg: cfg, logger: logger}

	client := nomad.NewClient(cfg.Nomad.Address, cfg.Nomad.Token, cfg.Nomad.Timeout)

	// Only s3:// locations need the store; without one they fail with backup.ErrNoStore
	var store backup.Store
	s3Client, err := newS3Client(ctx, cfg.Storage.Region, cfg.Storage.Endpoint, cfg.Storage.AccessKeyID, cfg.Storage.SecretAccessKey)
	if err != nil {
		logger.Warn().Err(err).Msg("blob store disabled")
	} else {
		store = s3store.NewStore(s3Client)
	}

	var recorder history.Recorder = history.Nop{}
	if cfg.History.DSN != "" {
		db, err := history.Open(ctx, cfg.History.DSN)
		if err != nil {
			logger.Warn().Err(err).Msg("run history disabled")
		} else {
			recorder = db
			a.closers = append(a.closers, db.Close)
		}
	}

	a.service = backup.NewService(client, store, recorder, backup.Options{
		TempDir:     cfg.TempDir,
		Concurrency: cfg.Concurrency,
		KeepLocal:   cfg.Backup.KeepLocal,
		Stdout:      stdout,
	}, logger)

	logger.Debug().Str("nomad", cfg.Nomad.Address).Int("concurrency", cfg.Concurrency).Msg("configuration loaded")
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn().Err(err).Msg("failed to close resource")
		}
	}
}
