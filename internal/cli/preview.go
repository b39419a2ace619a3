package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gridlake/internal/service/preview"
)

func newPreviewCmd(env *cliEnv) *cobra.Command {
	var (
		requestPath string
		limit       int
		output      string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Run a cross-sheet preview from a request file",
		Long: `Run a preview described by a JSON or YAML request file: which sheets to
combine, how they join, which filters apply, and which columns or aggregates
to project.`,
		Example: `  gridlake preview -f request.json
  gridlake preview -f request.yaml --limit 20 -o csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			req, err := requestFromFile(requestPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("limit") {
				req.Limit = &limit
			}

			a, err := env.openApp()
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			result, err := a.Preview.Preview(cmd.Context(), *req)
			if err != nil {
				return err
			}
			return renderResult(result, output)
		},
	}

	cmd.Flags().StringVarP(&requestPath, "file", "f", "", "Preview request file (.json, .yaml, .yml)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Override the request's row limit")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, csv, json)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// requestFromFile decodes a preview request from a JSON or YAML file,
// dispatching on the file extension.
func requestFromFile(path string) (*preview.Request, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}

	var req preview.Request
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported request file extension %q: use .json, .yaml, or .yml", ext)
	}
	return &req, nil
}
