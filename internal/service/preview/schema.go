package preview

import (
	"fmt"
	"strings"

	"gridlake/internal/domain"
)

// ValidateJoinKeys checks every join key against both sheet schemas: keys
// must be present on each side, and a type disagreement produces a warning
// rather than an error. The primary side is checked first for every key,
// and warnings come back in key order.
func ValidateJoinKeys(primary, join []domain.ColumnSchema, keys []string, primaryAlias, joinAlias string) ([]string, error) {
	if len(keys) == 0 {
		return nil, domain.ErrValidation("Join keys required for alias '%s'.", joinAlias)
	}

	primaryTypes := schemaTypes(primary)
	joinTypes := schemaTypes(join)

	var warnings []string
	for _, key := range keys {
		primaryType, ok := primaryTypes[key]
		if !ok {
			return nil, domain.ErrValidation("Join column '%s' missing on sheet alias '%s'.", key, primaryAlias)
		}
		joinType, ok := joinTypes[key]
		if !ok {
			return nil, domain.ErrValidation("Join column '%s' missing on sheet alias '%s'.", key, joinAlias)
		}

		pt := strings.ToLower(primaryType)
		jt := strings.ToLower(joinType)
		if pt != "" && jt != "" && pt != jt {
			warnings = append(warnings, fmt.Sprintf(
				"Join column '%s' uses incompatible types between '%s' (%s) and '%s' (%s).",
				key, primaryAlias, pt, joinAlias, jt))
		}
	}
	return warnings, nil
}

func schemaTypes(columns []domain.ColumnSchema) map[string]string {
	types := make(map[string]string, len(columns))
	for _, col := range columns {
		types[col.Name] = col.InferredType
	}
	return types
}
