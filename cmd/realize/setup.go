package main

import (
	"fmt"

	"github.com/newthinker/realize/internal/app"
	"github.com/newthinker/realize/internal/collector"
	"github.com/newthinker/realize/internal/collector/yahoo"
	"github.com/newthinker/realize/internal/config"
	"github.com/newthinker/realize/internal/export"
	"github.com/newthinker/realize/internal/logger"
	"github.com/newthinker/realize/internal/storage/archive"
	"go.uber.org/zap"
)

func newLogger() *zap.Logger {
	return logger.Must(logger.Options{Development: debug})
}

// loadConfig reads --config when given and validates the result.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Debug("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func newStorage(cfg config.ExportConfig) (archive.Storage, error) {
	switch cfg.Type {
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	default:
		return archive.NewLocalFS(cfg.Path)
	}
}

// buildApp wires the market data provider, exporter and orchestrator.
func buildApp(cfg *config.Config, log *zap.Logger) (*app.App, error) {
	market := yahoo.New(collector.Config{
		ChartURL:  cfg.Market.ChartURL,
		QuoteURL:  cfg.Market.QuoteURL,
		Timeout:   cfg.Market.Timeout,
		UserAgent: cfg.Market.UserAgent,
		Proxy:     cfg.Market.Proxy,
	}, log.Named("yahoo"))

	storage, err := newStorage(cfg.Export)
	if err != nil {
		return nil, fmt.Errorf("creating export storage: %w", err)
	}
	exporter := export.NewExporter(storage, export.Options{
		Filename: cfg.Export.Filename,
		BOM:      cfg.Export.BOM,
	}, log.Named("export"))

	return app.New(cfg, market, exporter, log.Named("app")), nil
}
