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

func setupSheetRepo(t *testing.T) *SheetRepository {
	t.Helper()
	return NewSheetRepository(internaldb.OpenTest(t))
}

func testSheet(label, checksum string) *domain.SheetSource {
	now := time.Now().UTC()
	return &domain.SheetSource{
		ID:           domain.NewID(),
		DisplayLabel: label,
		SheetName:    "",
		SourcePath:   "/data/" + label + ".csv",
		FileType:     domain.FileTypeCSV,
		Delimiter:    ",",
		Status:       domain.SheetStatusActive,
		Columns: []domain.ColumnSchema{
			{Name: "region", InferredType: "string"},
			{Name: "amount", InferredType: "number"},
		},
		RowCount:        4,
		Checksum:        checksum,
		CreatedAt:       now,
		UpdatedAt:       now,
		LastRefreshedAt: now,
	}
}

func TestSheetRepository_InsertAndGetByID(t *testing.T) {
	repo := setupSheetRepo(t)
	ctx := context.Background()

	sheet := testSheet("Orders", "sum-1")
	require.NoError(t, repo.Insert(ctx, sheet))
	assert.Equal(t, 0, sheet.Position)

	got, err := repo.GetByID(ctx, sheet.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sheet.ID, got.ID)
	assert.Equal(t, "Orders", got.DisplayLabel)
	assert.Equal(t, domain.FileTypeCSV, got.FileType)
	assert.Equal(t, domain.SheetStatusActive, got.Status)
	assert.Equal(t, sheet.Columns, got.Columns)
	assert.Equal(t, int64(4), got.RowCount)
	assert.Equal(t, "sum-1", got.Checksum)
	assert.WithinDuration(t, sheet.CreatedAt, got.CreatedAt, time.Second)
}

func TestSheetRepository_InsertAssignsPositions(t *testing.T) {
	repo := setupSheetRepo(t)
	ctx := context.Background()

	first := testSheet("Orders", "sum-1")
	second := testSheet("Customers", "sum-2")
	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
}

func TestSheetRepository_InsertDuplicateChecksum(t *testing.T) {
	repo := setupSheetRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, testSheet("Orders", "sum-1")))

	err := repo.Insert(ctx, testSheet("Orders Copy", "sum-1"))
	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestSheetRepository_GetByID_Missing(t *testing.T) {
	repo := setupSheetRepo(t)

	got, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSheetRepository_Resolve(t *testing.T) {
	repo := setupSheetRepo(t)
	ctx := context.Background()

	sheet := testSheet("Orders", "sum-1")
	require.NoError(t, repo.Insert(ctx, sheet))

	got, err := repo.Resolve(ctx, sheet.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sheet.ID, got.ID)

	missing, err := repo.Resolve(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSheetRepository_List(t *testing.T) {
	repo := setupSheetRepo(t)
	ctx := context.Background()

	first := testSheet("Orders", "sum-1")
	second := testSheet("Customers", "sum-2")
	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))
	require.NoError(t, repo.UpdateStatus(ctx, second.ID, domain.SheetStatusInactive))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Orders", all[0].DisplayLabel)
	assert.Equal(t, "Customers", all[1].DisplayLabel)

	active, err := repo.List(ctx, domain.SheetStatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, first.ID, active[0].ID)

	both, err := repo.List(ctx, domain.SheetStatusActive, domain.SheetStatusInactive)
	require.NoError(t, err)
	assert.Len(t, both, 2)
}

func TestSheetRepository_FindByChecksum(t *testing.T) {
	repo := setupSheetRepo(t)
	ctx := context.Background()

	sheet := testSheet("Orders", "sum-1")
	sheet.SheetName = "Sales"
	require.NoError(t, repo.Insert(ctx, sheet))

	got, err := repo.FindByChecksum(ctx, "sum-1", "Sales")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sheet.ID, got.ID)

	// Same checksum but a different worksheet is a different registration.
	other, err := repo.FindByChecksum(ctx, "sum-1", "Inventory")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestSheetRepository_UpdateStatus(t *testing.T) {
	repo := setupSheetRepo(t)
	ctx := context.Background()

	sheet := testSheet("Orders", "sum-1")
	require.NoError(t, repo.Insert(ctx, sheet))

	require.NoError(t, repo.UpdateStatus(ctx, sheet.ID, domain.SheetStatusDeprecated))

	got, err := repo.GetByID(ctx, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SheetStatusDeprecated, got.Status)

	err = repo.UpdateStatus(ctx, "nope", domain.SheetStatusActive)
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSheetRepository_UpdateSnapshot(t *testing.T) {
	repo := setupSheetRepo(t)
	ctx := context.Background()

	sheet := testSheet("Orders", "sum-1")
	require.NoError(t, repo.Insert(ctx, sheet))

	refreshedAt := time.Now().UTC().Add(time.Minute)
	newColumns := []domain.ColumnSchema{{Name: "total", InferredType: "number"}}
	require.NoError(t, repo.UpdateSnapshot(ctx, sheet.ID, newColumns, 99, "sum-2", refreshedAt))

	got, err := repo.GetByID(ctx, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, newColumns, got.Columns)
	assert.Equal(t, int64(99), got.RowCount)
	assert.Equal(t, "sum-2", got.Checksum)
	assert.WithinDuration(t, refreshedAt, got.LastRefreshedAt, time.Second)

	err = repo.UpdateSnapshot(ctx, "nope", newColumns, 0, "sum-3", refreshedAt)
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSheetRepository_Delete(t *testing.T) {
	repo := setupSheetRepo(t)
	ctx := context.Background()

	sheet := testSheet("Orders", "sum-1")
	require.NoError(t, repo.Insert(ctx, sheet))

	require.NoError(t, repo.Delete(ctx, sheet.ID))

	got, err := repo.GetByID(ctx, sheet.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = repo.Delete(ctx, sheet.ID)
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
