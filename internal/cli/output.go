package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"gridlake/internal/service/preview"
)

func validateOutputFormat(output string) error {
	switch output {
	case "table", "csv", "json":
		return nil
	default:
		return fmt.Errorf("unsupported output format %q: use 'table', 'csv', or 'json'", output)
	}
}

// printTable renders headers and rows as an aligned ASCII table.
func printTable(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.AppendBulk(rows)
	table.Render()
}

func printCSV(w io.Writer, headers []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderResult prints a preview result in the requested format. Warnings go
// to stderr so piped output stays machine-readable.
func renderResult(result *preview.Result, output string) error {
	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	switch output {
	case "json":
		return printJSON(os.Stdout, result)
	case "csv":
		return printCSV(os.Stdout, result.Headers, result.Rows)
	default:
		printTable(os.Stdout, result.Headers, result.Rows)
		fmt.Fprintf(os.Stdout, "%d row(s) in %.2f ms\n", result.RowCount, result.ExecutionMS)
		return nil
	}
}
