// Package app wires the catalog store, row sources, and services into a
// single application value for the CLI.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"gridlake/internal/config"
	"gridlake/internal/db"
	"gridlake/internal/db/repository"
	"gridlake/internal/rowsource"
	"gridlake/internal/service/preview"
	"gridlake/internal/service/sheets"
)

// App holds the fully-wired application. The CLI is the only consumer.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB

	Sheets      *sheets.Service
	Preview     *preview.Service
	Definitions *preview.DefinitionService
	Metrics     *repository.MetricRepository
}

// New opens the SQLite catalog at cfg.DBPath, runs pending migrations, and
// wires repositories and services. Callers own Close.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open catalog store: %w", err)
	}
	if err := db.RunMigrations(pool); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("migrate catalog store: %w", err)
	}

	sheetRepo := repository.NewSheetRepository(pool)
	definitionRepo := repository.NewDefinitionRepository(pool)
	metricRepo := repository.NewMetricRepository(pool)

	rows := rowsource.NewFileSource(sheetRepo, logger)
	previewSvc := preview.NewService(sheetRepo, rows, metricRepo, logger)

	return &App{
		Config:      cfg,
		Logger:      logger,
		DB:          pool,
		Sheets:      sheets.NewService(sheetRepo, metricRepo, logger),
		Preview:     previewSvc,
		Definitions: preview.NewDefinitionService(definitionRepo, previewSvc, logger),
		Metrics:     metricRepo,
	}, nil
}

// Close releases the catalog store connection.
func (a *App) Close() error {
	return a.DB.Close()
}
