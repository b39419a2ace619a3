package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newQueriesCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queries",
		Short: "Save, inspect, and run query definitions",
	}

	cmd.AddCommand(newQueriesSaveCmd(env))
	cmd.AddCommand(newQueriesListCmd(env))
	cmd.AddCommand(newQueriesShowCmd(env))
	cmd.AddCommand(newQueriesRunCmd(env))
	cmd.AddCommand(newQueriesRemoveCmd(env))

	return cmd
}

func newQueriesSaveCmd(env *cliEnv) *cobra.Command {
	var (
		requestPath string
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a preview request as a named query definition",
		Example: `  gridlake queries save -f request.json --name "revenue by region"
  gridlake queries save -f request.yaml --name budget --description "joined to budget sheet"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := requestFromFile(requestPath)
			if err != nil {
				return err
			}

			a, err := env.openApp()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			def, err := a.Definitions.Save(cmd.Context(), name, description, *req)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Saved query definition %s (%s)\n", def.ID, def.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&requestPath, "file", "f", "", "Preview request file (.json, .yaml, .yml)")
	cmd.Flags().StringVar(&name, "name", "", "Definition name (unique)")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newQueriesListCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved query definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := env.openApp()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			defs, err := a.Definitions.List(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(defs))
			for _, def := range defs {
				validated := "never"
				if def.LastValidatedAt != nil {
					validated = def.LastValidatedAt.Format("2006-01-02 15:04")
				}
				rows = append(rows, []string{
					def.ID,
					def.Name,
					strconv.Itoa(len(def.Sheets)),
					def.CreatedAt.Format("2006-01-02 15:04"),
					validated,
				})
			}
			printTable(os.Stdout, []string{"id", "name", "sheets", "created", "validated"}, rows)
			return nil
		},
	}
}

func newQueriesShowCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one query definition with its saved request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.openApp()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			def, err := a.Definitions.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "ID:          %s\n", def.ID)
			fmt.Fprintf(os.Stdout, "Name:        %s\n", def.Name)
			if def.Description != "" {
				fmt.Fprintf(os.Stdout, "Description: %s\n", def.Description)
			}
			fmt.Fprintf(os.Stdout, "Checksum:    %s\n", def.Checksum)
			fmt.Fprintf(os.Stdout, "Created:     %s\n", def.CreatedAt.Format("2006-01-02 15:04:05"))
			if def.LastValidatedAt != nil {
				fmt.Fprintf(os.Stdout, "Validated:   %s\n", def.LastValidatedAt.Format("2006-01-02 15:04:05"))
			}
			fmt.Fprintln(os.Stdout)

			rows := make([][]string, 0, len(def.Sheets))
			for _, link := range def.Sheets {
				rows = append(rows, []string{
					strconv.Itoa(link.Position),
					link.Alias,
					link.SheetID,
					string(link.Role),
				})
			}
			printTable(os.Stdout, []string{"position", "alias", "sheet", "role"}, rows)
			fmt.Fprintln(os.Stdout)

			return printJSON(os.Stdout, def.Definition)
		},
	}
}

func newQueriesRunCmd(env *cliEnv) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "run <id>",
		Short: "Execute a saved query definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}

			a, err := env.openApp()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			result, err := a.Definitions.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return renderResult(result, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, csv, json)")

	return cmd
}

func newQueriesRemoveCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a saved query definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.openApp()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			if err := a.Definitions.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Removed query definition %s\n", args[0])
			return nil
		},
	}
}
