package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"gridlake/internal/domain"
)

// MetricRepository stores duration samples per sheet. It implements
// domain.MetricStore and the domain.MetricsRecorder port used by the
// preview engine.
type MetricRepository struct {
	db *sql.DB
}

func NewMetricRepository(db *sql.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

var (
	_ domain.MetricStore     = (*MetricRepository)(nil)
	_ domain.MetricsRecorder = (*MetricRepository)(nil)
)

// Record appends one sample for a sheet.
func (r *MetricRepository) Record(ctx context.Context, sheetID string, metric domain.MetricType, value float64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sheet_metrics (sheet_source_id, metric_type, metric_value, recorded_at)
		 VALUES (?, ?, ?, ?)`,
		sheetID, string(metric), value, at)
	if err != nil {
		return fmt.Errorf("record metric: %w", err)
	}
	return nil
}

// RecordPreview attributes one query-duration sample to every sheet that
// participated in the preview.
func (r *MetricRepository) RecordPreview(ctx context.Context, sample domain.PreviewSample) error {
	for _, sheetID := range sample.SheetIDs {
		if err := r.Record(ctx, sheetID, domain.MetricQueryDurationMS, sample.DurationMS, sample.RecordedAt); err != nil {
			return fmt.Errorf("record preview sample for sheet %q: %w", sheetID, err)
		}
	}
	return nil
}

// Stats summarizes recorded samples for one sheet and metric type. The
// percentiles use the nearest-rank method; a sheet with no samples yields
// a zero-count summary.
func (r *MetricRepository) Stats(ctx context.Context, sheetID string, metric domain.MetricType) (*domain.MetricStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT metric_value FROM sheet_metrics
		 WHERE sheet_source_id = ? AND metric_type = ?
		 ORDER BY metric_value`,
		sheetID, string(metric))
	if err != nil {
		return nil, fmt.Errorf("load metric samples: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan metric sample: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := &domain.MetricStats{Count: len(values)}
	if len(values) == 0 {
		return stats, nil
	}
	stats.P50 = nearestRank(values, 0.50)
	stats.P95 = nearestRank(values, 0.95)
	stats.Max = values[len(values)-1]
	return stats, nil
}

// nearestRank picks the smallest value whose rank covers the percentile.
// values must be sorted ascending and non-empty.
func nearestRank(values []float64, pct float64) float64 {
	rank := int(math.Ceil(pct * float64(len(values))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(values) {
		rank = len(values)
	}
	return values[rank-1]
}
