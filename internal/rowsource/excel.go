package rowsource

import (
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"gridlake/internal/domain"
)

// readExcel reads one worksheet. Header cells that render empty drop their
// whole column; data cells are typed from the formatted value.
func readExcel(path, sheetName string) (*Table, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, domain.ErrSourceUnavailable("open workbook: %v", err)
	}
	defer workbook.Close() //nolint:errcheck

	if sheetName == "" {
		list := workbook.GetSheetList()
		if len(list) == 0 {
			return &Table{}, nil
		}
		sheetName = list[0]
	}
	if idx, err := workbook.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, domain.ErrSourceUnavailable("sheet '%s' not found in workbook", sheetName)
	}

	records, err := workbook.GetRows(sheetName)
	if err != nil {
		return nil, domain.ErrSourceUnavailable("read worksheet '%s': %v", sheetName, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	var columns []string
	var indices []int
	for i, header := range records[0] {
		if header == "" {
			continue
		}
		columns = append(columns, header)
		indices = append(indices, i)
	}

	rows := make([]domain.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(domain.Row, len(columns))
		for j, name := range columns {
			if i := indices[j]; i < len(record) {
				row[name] = cellValue(record[i])
			} else {
				row[name] = domain.Null{}
			}
		}
		rows = append(rows, row)
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// cellValue types a formatted cell: blank is Null, numeric text is Number,
// anything else stays Text. ParseFloat accepts "NaN" and "Inf" spellings a
// real numeric cell never formats to, so those stay Text.
func cellValue(raw string) domain.Value {
	if raw == "" {
		return domain.Null{}
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return domain.Number(f)
	}
	return domain.Text(raw)
}

// SheetNames lists the worksheets in a workbook, in workbook order.
func SheetNames(path string) ([]string, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, domain.ErrSourceUnavailable("open workbook: %v", err)
	}
	defer workbook.Close() //nolint:errcheck
	return workbook.GetSheetList(), nil
}
