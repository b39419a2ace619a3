package rowsource

import (
	"encoding/csv"
	"os"

	"gridlake/internal/domain"
)

// readCSV keeps header names verbatim (duplicates last-wins at the row level)
// and treats every present cell as Text; CSV carries no type information.
// Short records backfill missing headers with Null, extra cells are dropped.
func readCSV(path, delimiter string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, domain.ErrSourceUnavailable("open csv data: %v", err)
	}
	defer file.Close() //nolint:errcheck

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	if runes := []rune(delimiter); len(runes) > 0 {
		reader.Comma = runes[0]
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, domain.ErrSourceUnavailable("read csv data: %v", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	headers := records[0]
	rows := make([]domain.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(domain.Row, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = domain.Text(record[i])
			} else {
				row[header] = domain.Null{}
			}
		}
		rows = append(rows, row)
	}
	return &Table{Columns: headers, Rows: rows}, nil
}
