package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"gridlake/internal/domain"
)

func newSheetsCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Inspect and manage registered sheets",
	}

	cmd.AddCommand(newSheetsListCmd(env))
	cmd.AddCommand(newSheetsShowCmd(env))
	cmd.AddCommand(newSheetsStatusCmd(env))
	cmd.AddCommand(newSheetsRefreshCmd(env))
	cmd.AddCommand(newSheetsRemoveCmd(env))

	return cmd
}

func newSheetsListCmd(env *cliEnv) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := env.openApp()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			var statuses []domain.SheetStatus
			if status != "" {
				statuses = append(statuses, domain.SheetStatus(status))
			}
			sheets, err := a.Sheets.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(sheets))
			for _, sheet := range sheets {
				rows = append(rows, []string{
					sheet.ID,
					sheet.DisplayLabel,
					string(sheet.FileType),
					string(sheet.Status),
					strconv.FormatInt(sheet.RowCount, 10),
					strconv.Itoa(len(sheet.Columns)),
					sheet.LastRefreshedAt.Format("2006-01-02 15:04"),
				})
			}
			printTable(os.Stdout, []string{"id", "label", "type", "status", "rows", "columns", "refreshed"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by lifecycle status (active, inactive, deprecated)")

	return cmd
}

func newSheetsShowCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one sheet with its inferred columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.openApp()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			sheet, err := a.Sheets.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "ID:           %s\n", sheet.ID)
			fmt.Fprintf(os.Stdout, "Label:        %s\n", sheet.DisplayLabel)
			if sheet.Description != "" {
				fmt.Fprintf(os.Stdout, "Description:  %s\n", sheet.Description)
			}
			fmt.Fprintf(os.Stdout, "Path:         %s\n", sheet.SourcePath)
			fmt.Fprintf(os.Stdout, "Type:         %s\n", sheet.FileType)
			if sheet.SheetName != "" {
				fmt.Fprintf(os.Stdout, "Worksheet:    %s\n", sheet.SheetName)
			}
			fmt.Fprintf(os.Stdout, "Status:       %s\n", sheet.Status)
			fmt.Fprintf(os.Stdout, "Rows:         %d\n", sheet.RowCount)
			fmt.Fprintf(os.Stdout, "Checksum:     %s\n", sheet.Checksum)
			fmt.Fprintf(os.Stdout, "Registered:   %s\n", sheet.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(os.Stdout, "Refreshed:    %s\n", sheet.LastRefreshedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintln(os.Stdout)

			rows := make([][]string, 0, len(sheet.Columns))
			for _, column := range sheet.Columns {
				rows = append(rows, []string{column.Name, column.InferredType})
			}
			printTable(os.Stdout, []string{"column", "type"}, rows)
			return nil
		},
	}
}

func newSheetsStatusCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <active|inactive|deprecated>",
		Short: "Set a sheet's lifecycle status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.openApp()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			if err := a.Sheets.SetStatus(cmd.Context(), args[0], domain.SheetStatus(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Sheet %s is now %s\n", args[0], args[1])
			return nil
		},
	}
}

func newSheetsRefreshCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <id>",
		Short: "Re-read a sheet's backing file and update its snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.openApp()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			sheet, err := a.Sheets.Refresh(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Refreshed sheet %s: %d row(s), %d column(s), checksum %s\n",
				sheet.ID, sheet.RowCount, len(sheet.Columns), sheet.Checksum)
			return nil
		},
	}
}

func newSheetsRemoveCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a sheet from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.openApp()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			if err := a.Sheets.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Removed sheet %s\n", args[0])
			return nil
		},
	}
}
