package preview

import (
	"strings"

	"gridlake/internal/domain"
)

// Expression is one parsed projection. The three implementations below are
// the whole grammar; nothing else satisfies the interface.
type Expression interface {
	expression()
}

// ScalarExpr reads one column from one selected sheet.
type ScalarExpr struct {
	Alias  string
	Column string
}

// AggregateExpr folds one column across all combined rows.
type AggregateExpr struct {
	Func   string
	Alias  string
	Column string
}

// CountStarExpr counts combined rows.
type CountStarExpr struct{}

func (ScalarExpr) expression()    {}
func (AggregateExpr) expression() {}
func (CountStarExpr) expression() {}

// parseProjection parses one projection expression. Aggregate shapes are
// tried first; anything that does not look like an aggregate call is a
// scalar column reference.
func parseProjection(raw, primaryAlias string, aliases map[string]resolvedSheet) (Expression, error) {
	expr := strings.TrimSpace(raw)

	agg, ok, err := parseAggregate(expr)
	if err != nil {
		return nil, err
	}
	if ok {
		return agg, nil
	}

	alias, column := splitExpressionAlias(expr)
	if alias == "" {
		alias = primaryAlias
	}
	if _, ok := aliases[alias]; !ok {
		return nil, domain.ErrValidation("Unknown sheet alias '%s' in projection '%s'.", alias, expr)
	}
	if column == "" {
		return nil, domain.ErrValidation("Column missing in projection '%s'.", expr)
	}
	return ScalarExpr{Alias: alias, Column: column}, nil
}

// parseAggregate recognizes sum(...), avg(...), and count(...). Other
// function names fall through to the scalar grammar, like the shapes that
// merely contain parentheses.
func parseAggregate(expr string) (Expression, bool, error) {
	open := strings.Index(expr, "(")
	if open < 0 || !strings.HasSuffix(expr, ")") {
		return nil, false, nil
	}
	fn := strings.ToLower(strings.TrimSpace(expr[:open]))
	if fn != "sum" && fn != "avg" && fn != "count" {
		return nil, false, nil
	}

	inner := strings.TrimSpace(expr[open+1 : len(expr)-1])
	if inner == "" {
		return nil, false, domain.ErrValidation("Aggregate expression '%s' is empty.", expr)
	}
	if fn == "count" && inner == "*" {
		return CountStarExpr{}, true, nil
	}

	// The alias is validated lazily against the surviving rows; aggregates
	// do not default to the primary alias.
	alias, column := splitExpressionAlias(inner)
	return AggregateExpr{Func: fn, Alias: alias, Column: column}, true, nil
}

// splitExpressionAlias splits "alias.column" on the first dot. Without a
// dot the whole expression is the column and the alias is empty.
func splitExpressionAlias(expr string) (alias, column string) {
	if i := strings.Index(expr, "."); i >= 0 {
		return expr[:i], expr[i+1:]
	}
	return "", expr
}
