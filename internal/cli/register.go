package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gridlake/internal/domain"
	"gridlake/internal/rowsource"
	"gridlake/internal/service/sheets"
)

func newRegisterCmd(env *cliEnv) *cobra.Command {
	var (
		label       string
		sheetName   string
		delimiter   string
		description string
	)

	cmd := &cobra.Command{
		Use:   "register <path>",
		Short: "Register a CSV file or Excel worksheet in the catalog",
		Long: `Register a data file so previews can reference it. CSV files register as a
single sheet. Excel workbooks register the worksheet named by --sheet, or
every worksheet when --sheet is omitted.`,
		Example: `  gridlake register sales.csv --label "Quarterly Sales"
  gridlake register report.xlsx --sheet "Summary"
  gridlake register report.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd, env, args[0], label, sheetName, delimiter, description)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Display label (defaults to the file name)")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet name (Excel only)")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "CSV field delimiter (defaults to ',')")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")

	return cmd
}

func runRegister(cmd *cobra.Command, env *cliEnv, path, label, sheetName, delimiter, description string) error {
	a, err := env.openApp()
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	ctx := cmd.Context()
	params := sheets.RegisterParams{
		Path:         path,
		DisplayLabel: label,
		SheetName:    sheetName,
		Delimiter:    delimiter,
		Description:  description,
	}

	ext := strings.ToLower(filepath.Ext(path))
	if sheetName == "" && (ext == ".xlsx" || ext == ".xlsm") {
		return registerWorkbook(cmd, a.Sheets, path, params)
	}

	sheet, err := a.Sheets.Register(ctx, params)
	if err != nil {
		return err
	}
	printRegistered(sheet)
	return nil
}

// registerWorkbook registers every worksheet of the workbook. Worksheets
// already registered are skipped with a warning.
func registerWorkbook(cmd *cobra.Command, svc *sheets.Service, path string, params sheets.RegisterParams) error {
	names, err := rowsource.SheetNames(path)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return domain.ErrValidation("workbook %s has no worksheets", path)
	}

	for _, name := range names {
		worksheet := params
		worksheet.SheetName = name
		if worksheet.DisplayLabel == "" {
			worksheet.DisplayLabel = name
		}

		sheet, err := svc.Register(cmd.Context(), worksheet)
		if err != nil {
			var conflict *domain.ConflictError
			if errors.As(err, &conflict) {
				fmt.Fprintf(os.Stderr, "warning: worksheet %q: %v\n", name, err)
				continue
			}
			return err
		}
		printRegistered(sheet)
	}
	return nil
}

func printRegistered(sheet *domain.SheetSource) {
	fmt.Fprintf(os.Stdout, "Registered sheet %s (%s): %d column(s), %d row(s)\n",
		sheet.ID, sheet.DisplayLabel, len(sheet.Columns), sheet.RowCount)
}
