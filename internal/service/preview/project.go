package preview

import (
	"strconv"

	"gridlake/internal/domain"
)

// projectScalars renders one output row per combined row, one cell per
// projection. A row missing the projected alias renders "", as does a
// null or missing column.
func projectScalars(parsed []Expression, combined []combinedRow) [][]string {
	rows := make([][]string, 0, len(combined))
	for _, merged := range combined {
		cells := make([]string, len(parsed))
		for i, expr := range parsed {
			scalar := expr.(ScalarExpr)
			row, ok := merged[scalar.Alias]
			if !ok {
				continue
			}
			cells[i] = domain.FormatValue(row[scalar.Column])
		}
		rows = append(rows, cells)
	}
	return rows
}

// executeAggregates renders the single aggregate output row.
func executeAggregates(parsed []Expression, combined []combinedRow) ([]string, error) {
	cells := make([]string, len(parsed))
	for i, expr := range parsed {
		switch agg := expr.(type) {
		case CountStarExpr:
			cells[i] = strconv.Itoa(len(combined))
		case AggregateExpr:
			value, err := executeAggregate(agg, combined)
			if err != nil {
				return nil, err
			}
			cells[i] = value
		}
	}
	return cells, nil
}

func executeAggregate(agg AggregateExpr, combined []combinedRow) (string, error) {
	// The alias must appear in at least one surviving row. Over an empty
	// set this is vacuously unsatisfied, so alias-bearing aggregates fail
	// while count(*) still returns "0".
	found := false
	for _, merged := range combined {
		if _, ok := merged[agg.Alias]; ok {
			found = true
			break
		}
	}
	if !found {
		return "", domain.ErrValidation("Unknown sheet alias '%s' in aggregate '%s'.", agg.Alias, agg.Func)
	}

	switch agg.Func {
	case "count":
		n := 0
		for _, merged := range combined {
			row, ok := merged[agg.Alias]
			if !ok {
				continue
			}
			if !domain.IsNull(row[agg.Column]) {
				n++
			}
		}
		return strconv.Itoa(n), nil
	case "sum", "avg":
		var values []float64
		for _, merged := range combined {
			row, ok := merged[agg.Alias]
			if !ok {
				continue
			}
			if f, ok := domain.CoerceNumber(row[agg.Column]); ok {
				values = append(values, f)
			}
		}
		total := 0.0
		for _, v := range values {
			total += v
		}
		if agg.Func == "sum" {
			return domain.FormatValue(domain.Number(total)), nil
		}
		if len(values) == 0 {
			return domain.FormatValue(domain.Number(0)), nil
		}
		return domain.FormatValue(domain.Number(total / float64(len(values)))), nil
	default:
		return "", domain.ErrValidation("Unsupported aggregate '%s'.", agg.Func)
	}
}
