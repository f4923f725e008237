package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/conventory/internal/core"
)

func (a *app) importCommand() *cobra.Command {
	var (
		tenant       string
		file         string
		validateOnly bool
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import items from a CSV file",
		Long: `Import reads a CSV file (use "-" for stdin) and creates its items for the
tenant. Missing categories and locations are created on the fly.

Exit status is 2 when some rows were rejected; the rows that passed are
kept. Use --validate-only to check a file without saving anything.`,
		Example: `  conventoryctl import --tenant 7b1e... --file items.csv
  conventoryctl import --tenant 7b1e... --file items.csv --validate-only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, err := uuid.Parse(tenant)
			if err != nil {
				return fmt.Errorf("invalid --tenant %q: %w", tenant, err)
			}
			text, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			return a.withService(cmd.Context(), func(svc *core.Service) error {
				result, err := svc.Import(cmd.Context(), tenantID, text, core.ImportOptions{ValidateOnly: validateOnly})
				if err != nil {
					if result != nil {
						a.printResult(result, asJSON)
					}
					return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
				}
				a.printResult(result, asJSON)
				if !result.Success {
					return errRowErrors
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant UUID (required)")
	cmd.Flags().StringVarP(&file, "file", "f", "", `CSV file to import, "-" for stdin (required)`)
	cmd.Flags().BoolVar(&validateOnly, "validate-only", false, "check the file without saving")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) exportCommand() *cobra.Command {
	var tenant, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a tenant's items as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenantID, err := uuid.Parse(tenant)
			if err != nil {
				return fmt.Errorf("invalid --tenant %q: %w", tenant, err)
			}
			return a.withService(cmd.Context(), func(svc *core.Service) error {
				text, err := svc.Export(cmd.Context(), tenantID)
				if err != nil {
					return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
				}
				return a.writeOutput(out, text)
			})
		},
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant UUID (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

func (a *app) templateCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print the import template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.writeOutput(out, core.GenerateTemplate())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func (a *app) printResult(result *core.ImportResult, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}

	mode := "imported"
	if result.ValidateOnly {
		mode = "validated (nothing saved)"
	}
	fmt.Fprintf(a.out, "%d rows %s: %d items, %d new categories, %d new locations\n",
		result.RowsProcessed, mode, result.Stats.ItemsAdded, result.Stats.CategoriesAdded, result.Stats.LocationsAdded)
	for _, e := range result.Errors {
		fmt.Fprintf(a.out, "  %s\n", e.Error())
	}
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
