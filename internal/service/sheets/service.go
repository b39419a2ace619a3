// Package sheets manages the sheet catalog: registering spreadsheet files,
// refreshing their inferred schemas, and driving lifecycle state.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gridlake/internal/domain"
	"gridlake/internal/rowsource"
)

// Service exposes catalog management over the sheet store. The metric store
// is optional; refresh timings are recorded only when it is present.
type Service struct {
	store   domain.SheetStore
	metrics domain.MetricStore
	logger  *slog.Logger
}

func NewService(store domain.SheetStore, metrics domain.MetricStore, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		metrics: metrics,
		logger:  logger.With("component", "sheets"),
	}
}

// RegisterParams describes one file (or one worksheet of one file) to add
// to the catalog.
type RegisterParams struct {
	Path         string
	DisplayLabel string
	SheetName    string // Excel worksheet; empty picks the first sheet
	Delimiter    string // CSV only; defaults to ","
	Description  string
}

// Register reads the file, infers its column schema, and stores the sheet.
// Re-registering identical content under the same worksheet name is a
// conflict naming the existing sheet.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*domain.SheetSource, error) {
	if _, err := os.Stat(params.Path); err != nil {
		return nil, domain.ErrValidation("source file not found: %s", params.Path)
	}
	fileType, err := fileTypeFor(params.Path)
	if err != nil {
		return nil, err
	}
	delimiter := params.Delimiter
	if delimiter == "" {
		delimiter = ","
	}

	table, err := rowsource.ReadTable(params.Path, fileType, delimiter, params.SheetName)
	if err != nil {
		return nil, err
	}

	checksum, err := checksumFile(params.Path)
	if err != nil {
		return nil, fmt.Errorf("checksum %s: %w", params.Path, err)
	}
	existing, err := s.store.FindByChecksum(ctx, checksum, params.SheetName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict("this file is already registered as sheet %q", existing.ID)
	}

	label := params.DisplayLabel
	if label == "" {
		label = strings.TrimSuffix(filepath.Base(params.Path), filepath.Ext(params.Path))
	}

	now := time.Now().UTC()
	sheet := &domain.SheetSource{
		ID:              domain.NewID(),
		DisplayLabel:    label,
		SheetName:       params.SheetName,
		SourcePath:      params.Path,
		FileType:        fileType,
		Delimiter:       delimiter,
		Status:          domain.SheetStatusActive,
		Columns:         inferColumns(table),
		RowCount:        int64(len(table.Rows)),
		Checksum:        checksum,
		Description:     params.Description,
		CreatedAt:       now,
		UpdatedAt:       now,
		LastRefreshedAt: now,
	}
	if err := s.store.Insert(ctx, sheet); err != nil {
		return nil, err
	}
	s.logger.Info("sheet registered",
		"sheet_id", sheet.ID,
		"label", sheet.DisplayLabel,
		"file_type", sheet.FileType,
		"rows", sheet.RowCount)
	return sheet, nil
}

// Refresh re-reads the backing file and replaces the stored schema snapshot.
func (s *Service) Refresh(ctx context.Context, id string) (*domain.SheetSource, error) {
	sheet, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	table, err := rowsource.ReadTable(sheet.SourcePath, sheet.FileType, sheet.Delimiter, sheet.SheetName)
	if err != nil {
		return nil, err
	}
	checksum, err := checksumFile(sheet.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("checksum %s: %w", sheet.SourcePath, err)
	}

	refreshedAt := time.Now().UTC()
	if err := s.store.UpdateSnapshot(ctx, id, inferColumns(table), int64(len(table.Rows)), checksum, refreshedAt); err != nil {
		return nil, err
	}
	s.recordRefresh(ctx, id, time.Since(start))
	return s.Get(ctx, id)
}

// List returns registered sheets, optionally filtered by status.
func (s *Service) List(ctx context.Context, statuses ...domain.SheetStatus) ([]domain.SheetSource, error) {
	return s.store.List(ctx, statuses...)
}

// Get returns one sheet or domain.NotFoundError.
func (s *Service) Get(ctx context.Context, id string) (*domain.SheetSource, error) {
	sheet, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sheet == nil {
		return nil, domain.ErrNotFound("sheet %q not found", id)
	}
	return sheet, nil
}

// SetStatus moves a sheet through its lifecycle.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.SheetStatus) error {
	if !domain.ValidSheetStatus(status) {
		return domain.ErrValidation("invalid sheet status %q", status)
	}
	return s.store.UpdateStatus(ctx, id, status)
}

// Remove deletes a sheet and its recorded metrics.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// recordRefresh stores the refresh duration. Best-effort: a metric failure
// only logs.
func (s *Service) recordRefresh(ctx context.Context, id string, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	ms := elapsed.Seconds() * 1000.0
	if err := s.metrics.Record(ctx, id, domain.MetricRefreshDurationMS, ms, time.Now().UTC()); err != nil {
		s.logger.Warn("record refresh metric", "sheet_id", id, "error", err)
	}
}
