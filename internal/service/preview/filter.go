package preview

import (
	"strings"

	"gridlake/internal/domain"
)

// applyFilters evaluates filters sequentially in request order. The alias
// check runs against the selection map, so an unknown alias fails even when
// no rows survive; an unsupported operator only fails once a row is
// actually evaluated.
func applyFilters(combined []combinedRow, filters []Filter, aliases map[string]resolvedSheet) ([]combinedRow, error) {
	for _, f := range filters {
		if _, ok := aliases[f.SheetAlias]; !ok {
			return nil, domain.ErrValidation("Filter references unknown alias '%s'.", f.SheetAlias)
		}

		op := strings.ToLower(f.Operator)
		expected := domain.ValueOf(f.Value)

		var kept []combinedRow
		for _, merged := range combined {
			row, ok := merged[f.SheetAlias]
			if !ok {
				continue
			}
			match, err := matchesFilter(row[f.Column], op, expected)
			if err != nil {
				return nil, err
			}
			if match {
				kept = append(kept, merged)
			}
		}
		combined = kept
	}
	return combined, nil
}

func matchesFilter(cell domain.Value, op string, expected domain.Value) (bool, error) {
	switch op {
	case "eq":
		return domain.ValuesEqual(cell, expected), nil
	case "ne":
		return !domain.ValuesEqual(cell, expected), nil
	case "contains":
		cellText, cellOK := cell.(domain.Text)
		expectedText, expectedOK := expected.(domain.Text)
		if !cellOK || !expectedOK {
			return false, nil
		}
		return strings.Contains(strings.ToLower(string(cellText)), strings.ToLower(string(expectedText))), nil
	case "gt", "lt":
		left, leftOK := domain.CoerceNumber(cell)
		right, rightOK := domain.CoerceNumber(expected)
		if !leftOK || !rightOK {
			return false, nil
		}
		if op == "gt" {
			return left > right, nil
		}
		return left < right, nil
	default:
		return false, domain.ErrValidation("Unsupported filter operator '%s'.", op)
	}
}
