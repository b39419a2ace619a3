package domain

import "time"

// SheetStatus represents the lifecycle state of a registered sheet.
type SheetStatus string

// Possible values for SheetStatus.
const (
	SheetStatusActive     SheetStatus = "active"
	SheetStatusInactive   SheetStatus = "inactive"
	SheetStatusDeprecated SheetStatus = "deprecated"
)

// ValidSheetStatus reports whether s is one of the known lifecycle states.
func ValidSheetStatus(s SheetStatus) bool {
	switch s {
	case SheetStatusActive, SheetStatusInactive, SheetStatusDeprecated:
		return true
	default:
		return false
	}
}

// FileType represents the format of a sheet's backing file.
type FileType string

// Possible values for FileType.
const (
	FileTypeCSV   FileType = "csv"
	FileTypeExcel FileType = "excel"
)

// SheetRole represents how a selection participates in a preview query.
type SheetRole string

// Possible values for SheetRole. An empty role defaults to primary.
const (
	SheetRolePrimary SheetRole = "primary"
	SheetRoleJoin    SheetRole = "join"
	SheetRoleUnion   SheetRole = "union"
)

// OrDefault resolves an empty role to primary.
func (r SheetRole) OrDefault() SheetRole {
	if r == "" {
		return SheetRolePrimary
	}
	return r
}

// ColumnSchema describes one column of a registered sheet. The JSON keys
// match the stored schema documents.
type ColumnSchema struct {
	Name         string `json:"name"`
	InferredType string `json:"inferredType"`
}

// SheetSource is a registered sheet: one worksheet (or CSV file) backed by a
// file on disk, with its inferred column schema and lifecycle state.
type SheetSource struct {
	ID              string
	DisplayLabel    string
	SheetName       string // worksheet name; empty for CSV
	SourcePath      string
	FileType        FileType
	Delimiter       string // CSV only; defaults to ","
	Status          SheetStatus
	Columns         []ColumnSchema
	RowCount        int64
	Checksum        string // sha256 of the backing file at registration
	Description     string
	Position        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastRefreshedAt time.Time
}
