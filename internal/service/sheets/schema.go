package sheets

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gridlake/internal/domain"
	"gridlake/internal/rowsource"
)

// fileTypeFor maps a file extension to a supported FileType.
func fileTypeFor(path string) (domain.FileType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return domain.FileTypeCSV, nil
	case ".xlsx", ".xlsm":
		return domain.FileTypeExcel, nil
	default:
		return "", domain.ErrValidation("unsupported file extension %q", filepath.Ext(path))
	}
}

// inferColumns types each column: "number" when at least one cell carries a
// value and every non-null, non-empty cell coerces to a number, otherwise
// "string". Repeated header names keep their first occurrence.
func inferColumns(table *rowsource.Table) []domain.ColumnSchema {
	columns := make([]domain.ColumnSchema, 0, len(table.Columns))
	seen := make(map[string]bool, len(table.Columns))
	for _, name := range table.Columns {
		if seen[name] {
			continue
		}
		seen[name] = true
		columns = append(columns, domain.ColumnSchema{
			Name:         name,
			InferredType: inferType(table.Rows, name),
		})
	}
	return columns
}

func inferType(rows []domain.Row, column string) string {
	values := 0
	for _, row := range rows {
		cell := row[column]
		if domain.IsNull(cell) {
			continue
		}
		if text, ok := cell.(domain.Text); ok && string(text) == "" {
			continue
		}
		if _, ok := domain.CoerceNumber(cell); !ok {
			return "string"
		}
		values++
	}
	if values == 0 {
		return "string"
	}
	return "number"
}

func checksumFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close() //nolint:errcheck

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
