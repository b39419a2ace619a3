package preview

import (
	"strconv"
	"strings"

	"gridlake/internal/domain"
)

// combinedRow carries one row from every sheet joined so far, keyed by the
// sheet's alias.
type combinedRow map[string]domain.Row

// joinCombined inner-joins the combined set against one join sheet. The
// probe key always comes from the primary alias's row; a combined row with
// n index matches fans out into n shallow copies, in index insertion order.
func joinCombined(combined []combinedRow, joinRows []domain.Row, primaryAlias string, sel SheetSelection) ([]combinedRow, error) {
	if len(combined) == 0 {
		return nil, nil
	}

	index := make(map[string][]domain.Row, len(joinRows))
	for _, row := range joinRows {
		key := encodeJoinKey(row, sel.JoinKeys)
		index[key] = append(index[key], row)
	}

	var result []combinedRow
	for _, merged := range combined {
		primaryRow, ok := merged[primaryAlias]
		if !ok {
			return nil, domain.ErrValidation("Primary alias '%s' missing in join context.", primaryAlias)
		}
		matches := index[encodeJoinKey(primaryRow, sel.JoinKeys)]
		for _, match := range matches {
			next := make(combinedRow, len(merged)+1)
			for alias, row := range merged {
				next[alias] = row
			}
			next[sel.Alias] = match
			result = append(result, next)
		}
	}
	return result, nil
}

// encodeJoinKey folds the join-key cells into one string. Each cell is
// tagged with its kind and quoted so distinct value tuples can never
// collide: Text goes through strconv.Quote, Number through the exact
// round-trip float format, and Null (or a missing column) is a bare tag.
func encodeJoinKey(row domain.Row, keys []string) string {
	var b strings.Builder
	for _, key := range keys {
		switch v := row[key].(type) {
		case domain.Text:
			b.WriteString("s:")
			b.WriteString(strconv.Quote(string(v)))
		case domain.Number:
			b.WriteString("n:")
			b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 64))
		default:
			b.WriteString("z:")
		}
		b.WriteByte('|')
	}
	return b.String()
}
