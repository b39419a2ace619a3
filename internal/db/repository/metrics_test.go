package repository

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "gridlake/internal/db"
	"gridlake/internal/domain"
)

func setupMetricRepo(t *testing.T) (*MetricRepository, *SheetRepository) {
	t.Helper()
	db := internaldb.OpenTest(t)
	return NewMetricRepository(db), NewSheetRepository(db)
}

func TestMetricRepository_RecordAndStats(t *testing.T) {
	metrics, sheets := setupMetricRepo(t)
	ctx := context.Background()

	sheet := testSheet("Orders", "sum-1")
	require.NoError(t, sheets.Insert(ctx, sheet))

	now := time.Now().UTC()
	for i := 1; i <= 10; i++ {
		value := float64(i * 10)
		require.NoError(t, metrics.Record(ctx, sheet.ID, domain.MetricQueryDurationMS, value, now))
	}

	stats, err := metrics.Stats(ctx, sheet.ID, domain.MetricQueryDurationMS)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Count)
	assert.Equal(t, 50.0, stats.P50)
	assert.Equal(t, 100.0, stats.P95)
	assert.Equal(t, 100.0, stats.Max)
}

func TestMetricRepository_Stats_SingleSample(t *testing.T) {
	metrics, sheets := setupMetricRepo(t)
	ctx := context.Background()

	sheet := testSheet("Orders", "sum-1")
	require.NoError(t, sheets.Insert(ctx, sheet))
	require.NoError(t, metrics.Record(ctx, sheet.ID, domain.MetricRefreshDurationMS, 12.5, time.Now().UTC()))

	stats, err := metrics.Stats(ctx, sheet.ID, domain.MetricRefreshDurationMS)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, 12.5, stats.P50)
	assert.Equal(t, 12.5, stats.P95)
	assert.Equal(t, 12.5, stats.Max)
}

func TestMetricRepository_Stats_Empty(t *testing.T) {
	metrics, sheets := setupMetricRepo(t)
	ctx := context.Background()

	sheet := testSheet("Orders", "sum-1")
	require.NoError(t, sheets.Insert(ctx, sheet))

	stats, err := metrics.Stats(ctx, sheet.ID, domain.MetricQueryDurationMS)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Count)
	assert.Zero(t, stats.P50)
	assert.Zero(t, stats.Max)
}

func TestMetricRepository_Stats_FiltersByType(t *testing.T) {
	metrics, sheets := setupMetricRepo(t)
	ctx := context.Background()

	sheet := testSheet("Orders", "sum-1")
	require.NoError(t, sheets.Insert(ctx, sheet))

	now := time.Now().UTC()
	require.NoError(t, metrics.Record(ctx, sheet.ID, domain.MetricQueryDurationMS, 5, now))
	require.NoError(t, metrics.Record(ctx, sheet.ID, domain.MetricRefreshDurationMS, 500, now))

	stats, err := metrics.Stats(ctx, sheet.ID, domain.MetricQueryDurationMS)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, 5.0, stats.Max)
}

func TestMetricRepository_RecordPreview(t *testing.T) {
	metrics, sheets := setupMetricRepo(t)
	ctx := context.Background()

	orders := testSheet("Orders", "sum-1")
	customers := testSheet("Customers", "sum-2")
	require.NoError(t, sheets.Insert(ctx, orders))
	require.NoError(t, sheets.Insert(ctx, customers))

	sample := domain.PreviewSample{
		SheetIDs:   []string{orders.ID, customers.ID},
		DurationMS: 42.25,
		RowCount:   3,
		RecordedAt: time.Now().UTC(),
	}
	require.NoError(t, metrics.RecordPreview(ctx, sample))

	for _, id := range sample.SheetIDs {
		stats, err := metrics.Stats(ctx, id, domain.MetricQueryDurationMS)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Count)
		assert.Equal(t, 42.25, stats.Max)
	}
}

func TestMetricRepository_DeleteSheetCascades(t *testing.T) {
	metrics, sheets := setupMetricRepo(t)
	ctx := context.Background()

	sheet := testSheet("Orders", "sum-1")
	require.NoError(t, sheets.Insert(ctx, sheet))
	require.NoError(t, metrics.Record(ctx, sheet.ID, domain.MetricQueryDurationMS, 7, time.Now().UTC()))

	require.NoError(t, sheets.Delete(ctx, sheet.ID))

	stats, err := metrics.Stats(ctx, sheet.ID, domain.MetricQueryDurationMS)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Count)
}
