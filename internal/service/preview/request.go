package preview

import "gridlake/internal/domain"

// SheetSelection names one registered sheet for a preview and how it joins.
// Request types carry yaml tags so request files can be written in either
// format with the same key names.
type SheetSelection struct {
	SheetID  string           `json:"sheetId" yaml:"sheetId"`
	Alias    string           `json:"alias" yaml:"alias"`
	Role     domain.SheetRole `json:"role,omitempty" yaml:"role,omitempty"`
	JoinKeys []string         `json:"joinKeys,omitempty" yaml:"joinKeys,omitempty"`
}

// Projection is one output column: an expression over the selected sheets
// and the header label it renders under.
type Projection struct {
	Expression string `json:"expression" yaml:"expression"`
	Label      string `json:"label" yaml:"label"`
}

// Filter narrows combined rows by one column on one selected sheet.
// Operators: eq, ne, contains, gt, lt (case-insensitive).
type Filter struct {
	SheetAlias string      `json:"sheetAlias" yaml:"sheetAlias"`
	Column     string      `json:"column" yaml:"column"`
	Operator   string      `json:"operator" yaml:"operator"`
	Value      interface{} `json:"value" yaml:"value"`
}

// Request is one preview invocation.
type Request struct {
	Sheets      []SheetSelection `json:"sheets" yaml:"sheets"`
	Projections []Projection     `json:"projections" yaml:"projections"`
	Filters     []Filter         `json:"filters,omitempty" yaml:"filters,omitempty"`
	Limit       *int             `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// Result is the rendered preview. Rows and Warnings are never nil so the
// JSON form always carries arrays.
type Result struct {
	Headers     []string   `json:"headers"`
	Rows        [][]string `json:"rows"`
	Warnings    []string   `json:"warnings"`
	ExecutionMS float64    `json:"executionMs"`
	RowCount    int        `json:"rowCount"`
}
