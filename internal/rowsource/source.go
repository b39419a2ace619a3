// Package rowsource loads preview rows from the spreadsheet files backing
// registered sheets.
package rowsource

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gridlake/internal/domain"
)

// Table is the raw content of one worksheet: header names in file order and
// one Row per data record.
type Table struct {
	Columns []string
	Rows    []domain.Row
}

// FileSource implements domain.RowSource by resolving a sheet through the
// catalog and reading its backing file from disk on every load.
type FileSource struct {
	catalog domain.SheetCatalog
	logger  *slog.Logger
}

func NewFileSource(catalog domain.SheetCatalog, logger *slog.Logger) *FileSource {
	return &FileSource{
		catalog: catalog,
		logger:  logger.With("component", "rowsource"),
	}
}

var _ domain.RowSource = (*FileSource)(nil)

// Load reads all rows for the sheet. Missing sheets, missing files, and
// unreadable content surface as domain.SourceUnavailableError.
func (s *FileSource) Load(ctx context.Context, sheetID string) ([]domain.Row, error) {
	sheet, err := s.catalog.Resolve(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("resolve sheet %q: %w", sheetID, err)
	}
	if sheet == nil {
		return nil, domain.ErrSourceUnavailable("backing data for sheet '%s' not found", sheetID)
	}
	if _, err := os.Stat(sheet.SourcePath); err != nil {
		return nil, domain.ErrSourceUnavailable("sheet data file missing on disk: %s", sheet.SourcePath)
	}

	table, err := ReadTable(sheet.SourcePath, sheet.FileType, sheet.Delimiter, sheet.SheetName)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("sheet rows loaded",
		"sheet_id", sheetID,
		"path", sheet.SourcePath,
		"rows", len(table.Rows))
	return table.Rows, nil
}

// ReadTable reads one worksheet from the file at path. delimiter applies to
// CSV only; sheetName applies to Excel only (empty picks the first sheet).
func ReadTable(path string, fileType domain.FileType, delimiter, sheetName string) (*Table, error) {
	switch fileType {
	case domain.FileTypeCSV:
		return readCSV(path, delimiter)
	case domain.FileTypeExcel:
		return readExcel(path, sheetName)
	default:
		return nil, domain.ErrSourceUnavailable("unsupported file type for preview: %s", fileType)
	}
}
