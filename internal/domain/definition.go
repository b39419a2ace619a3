package domain

import (
	"encoding/json"
	"time"
)

// QuerySheetLink records one sheet selection of a saved query definition in
// request order.
type QuerySheetLink struct {
	SheetID  string
	Alias    string
	Role     SheetRole
	Position int
}

// QueryDefinition is a saved preview request. Definition holds the canonical
// JSON of the request; Checksum is the sha256 hex of those bytes.
type QueryDefinition struct {
	ID              string
	Name            string
	Description     string
	Definition      json.RawMessage
	Checksum        string
	Sheets          []QuerySheetLink
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastValidatedAt *time.Time // set when the definition last ran successfully
}
