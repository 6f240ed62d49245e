package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/StefanEhlert/chefsnumbers/internal/core"
)

func newPreviewCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Show what importing a file would do",
		Long: `Preview runs every import stage except the write and lists the
articles that would be added, the suppliers that would be created and
the rows that would be skipped.`,
		Example: `  catalogimport preview artikel.csv
  catalogimport preview artikel.csv -m "Preis=pricePerUnit" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}

			env, err := setup(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			service, err := env.postgresService(cmd)
			if err != nil {
				return err
			}

			result, err := previewFile(cmd, service, args[0], opts)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result, flags.output)
		},
	}

	flags.register(cmd)
	return cmd
}

func previewFile(cmd *cobra.Command, service *core.Service, path string, opts core.ImportOptions) (*core.ImportResult, error) {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, userError(&core.IOError{FileName: name, Err: err})
	}
	defer f.Close()

	raw, err := service.ReadFile(name, f)
	if err != nil {
		return nil, userError(err)
	}
	result, err := service.Preview(cmd.Context(), name, raw, opts)
	if err != nil {
		return nil, userError(err)
	}
	return result, nil
}
