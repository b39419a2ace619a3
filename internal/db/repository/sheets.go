// Package repository implements the catalog persistence ports on SQLite
// using direct database/sql.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gridlake/internal/domain"
)

const sheetColumns = `id, display_label, sheet_name, source_path, file_type, delimiter,
	status, column_schema, row_count, checksum, description, position_index,
	created_at, updated_at, last_refreshed_at`

// SheetRepository persists sheet sources. It implements both
// domain.SheetStore and the read-only domain.SheetCatalog port.
type SheetRepository struct {
	db *sql.DB
}

func NewSheetRepository(db *sql.DB) *SheetRepository {
	return &SheetRepository{db: db}
}

var (
	_ domain.SheetStore   = (*SheetRepository)(nil)
	_ domain.SheetCatalog = (*SheetRepository)(nil)
)

// Insert stores a new sheet source, assigning the next position index.
func (r *SheetRepository) Insert(ctx context.Context, sheet *domain.SheetSource) error {
	schemaJSON, err := json.Marshal(sheet.Columns)
	if err != nil {
		return fmt.Errorf("marshal column schema: %w", err)
	}

	// Single-writer pool, so the count cannot race a concurrent insert.
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sheet_sources`).Scan(&sheet.Position); err != nil {
		return fmt.Errorf("next sheet position: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sheet_sources (`+sheetColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sheet.ID, sheet.DisplayLabel, sheet.SheetName, sheet.SourcePath,
		string(sheet.FileType), sheet.Delimiter, string(sheet.Status),
		string(schemaJSON), sheet.RowCount, sheet.Checksum, sheet.Description,
		sheet.Position, sheet.CreatedAt, sheet.UpdatedAt, sheet.LastRefreshedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrConflict("sheet with checksum %q and sheet name %q is already registered",
				sheet.Checksum, sheet.SheetName)
		}
		return fmt.Errorf("insert sheet source: %w", err)
	}
	return nil
}

// GetByID returns the sheet source, or (nil, nil) when it does not exist.
func (r *SheetRepository) GetByID(ctx context.Context, id string) (*domain.SheetSource, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sheetColumns+` FROM sheet_sources WHERE id = ?`, id)
	sheet, err := scanSheet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sheet source: %w", err)
	}
	return sheet, nil
}

// Resolve satisfies domain.SheetCatalog for the preview engine.
func (r *SheetRepository) Resolve(ctx context.Context, sheetID string) (*domain.SheetSource, error) {
	return r.GetByID(ctx, sheetID)
}

// List returns sheet sources in position order, optionally filtered by status.
func (r *SheetRepository) List(ctx context.Context, statuses ...domain.SheetStatus) ([]domain.SheetSource, error) {
	query := `SELECT ` + sheetColumns + ` FROM sheet_sources`
	args := make([]interface{}, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, s := range statuses {
			placeholders[i] = "?"
			args = append(args, string(s))
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY position_index, created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sheet sources: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var sheets []domain.SheetSource
	for rows.Next() {
		sheet, err := scanSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sheet source: %w", err)
		}
		sheets = append(sheets, *sheet)
	}
	return sheets, rows.Err()
}

// FindByChecksum returns the sheet registered for the given file checksum and
// worksheet name, or (nil, nil) when none matches.
func (r *SheetRepository) FindByChecksum(ctx context.Context, checksum, sheetName string) (*domain.SheetSource, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sheetColumns+` FROM sheet_sources WHERE checksum = ? AND sheet_name = ?`,
		checksum, sheetName)
	sheet, err := scanSheet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find sheet by checksum: %w", err)
	}
	return sheet, nil
}

// UpdateStatus changes a sheet's lifecycle state.
func (r *SheetRepository) UpdateStatus(ctx context.Context, id string, status domain.SheetStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sheet_sources SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update sheet status: %w", err)
	}
	return requireRowAffected(res, "sheet", id)
}

// UpdateSnapshot replaces the inferred schema, row count, and checksum after
// a refresh from the backing file.
func (r *SheetRepository) UpdateSnapshot(ctx context.Context, id string, columns []domain.ColumnSchema, rowCount int64, checksum string, refreshedAt time.Time) error {
	schemaJSON, err := json.Marshal(columns)
	if err != nil {
		return fmt.Errorf("marshal column schema: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE sheet_sources
		 SET column_schema = ?, row_count = ?, checksum = ?, last_refreshed_at = ?, updated_at = ?
		 WHERE id = ?`,
		string(schemaJSON), rowCount, checksum, refreshedAt, refreshedAt, id)
	if err != nil {
		return fmt.Errorf("update sheet snapshot: %w", err)
	}
	return requireRowAffected(res, "sheet", id)
}

// Delete removes a sheet source (metrics cascade).
func (r *SheetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sheet_sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete sheet source: %w", err)
	}
	return requireRowAffected(res, "sheet", id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSheet(row rowScanner) (*domain.SheetSource, error) {
	var (
		sheet      domain.SheetSource
		fileType   string
		status     string
		schemaJSON string
	)
	err := row.Scan(
		&sheet.ID, &sheet.DisplayLabel, &sheet.SheetName, &sheet.SourcePath,
		&fileType, &sheet.Delimiter, &status, &schemaJSON, &sheet.RowCount,
		&sheet.Checksum, &sheet.Description, &sheet.Position,
		&sheet.CreatedAt, &sheet.UpdatedAt, &sheet.LastRefreshedAt)
	if err != nil {
		return nil, err
	}
	sheet.FileType = domain.FileType(fileType)
	sheet.Status = domain.SheetStatus(status)
	if err := json.Unmarshal([]byte(schemaJSON), &sheet.Columns); err != nil {
		return nil, fmt.Errorf("unmarshal column schema: %w", err)
	}
	return &sheet, nil
}

func requireRowAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound("%s %q not found", kind, id)
	}
	return nil
}
