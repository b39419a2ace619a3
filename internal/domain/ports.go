package domain

import (
	"context"
	"time"
)

// SheetCatalog resolves sheet identifiers to their catalog records.
// Implemented by repository.SheetRepository.
type SheetCatalog interface {
	// Resolve returns (nil, nil) when the sheet is unknown; a non-nil error
	// only for infrastructure failures.
	Resolve(ctx context.Context, sheetID string) (*SheetSource, error)
}

// RowSource loads all rows of a sheet's backing file in source order.
// Implemented by rowsource.FileSource. Missing files, missing worksheets, and
// unsupported formats surface as *SourceUnavailableError.
type RowSource interface {
	Load(ctx context.Context, sheetID string) ([]Row, error)
}

// MetricsRecorder records preview execution samples. Recording is
// best-effort: callers log and continue on failure.
// Implemented by repository.MetricRepository.
type MetricsRecorder interface {
	RecordPreview(ctx context.Context, sample PreviewSample) error
}

// SheetStore is the persistence surface for sheet registration and lifecycle.
// Implemented by repository.SheetRepository.
type SheetStore interface {
	Insert(ctx context.Context, sheet *SheetSource) error
	GetByID(ctx context.Context, id string) (*SheetSource, error)
	List(ctx context.Context, statuses ...SheetStatus) ([]SheetSource, error)
	FindByChecksum(ctx context.Context, checksum, sheetName string) (*SheetSource, error)
	UpdateStatus(ctx context.Context, id string, status SheetStatus) error
	UpdateSnapshot(ctx context.Context, id string, columns []ColumnSchema, rowCount int64, checksum string, refreshedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// DefinitionStore is the persistence surface for saved query definitions.
// Implemented by repository.DefinitionRepository.
type DefinitionStore interface {
	Insert(ctx context.Context, def *QueryDefinition) error
	GetByID(ctx context.Context, id string) (*QueryDefinition, error)
	List(ctx context.Context) ([]QueryDefinition, error)
	Delete(ctx context.Context, id string) error
	TouchValidated(ctx context.Context, id string, at time.Time) error
}

// MetricStore is the persistence surface for sheet metric samples.
// Implemented by repository.MetricRepository.
type MetricStore interface {
	Record(ctx context.Context, sheetID string, metric MetricType, value float64, at time.Time) error
	Stats(ctx context.Context, sheetID string, metric MetricType) (*MetricStats, error)
}
