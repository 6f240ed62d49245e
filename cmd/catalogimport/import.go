package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/StefanEhlert/chefsnumbers/internal/core"
)

func newImportCmd() *cobra.Command {
	var (
		flags  runFlags
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import an article file into the catalog",
		Long: `Import reads FILE, maps its columns to catalog fields and adds every
article whose name is not yet in the catalog. Unknown suppliers are
created on the way.

With --dry-run the import runs against an in-memory copy of the catalog
and nothing is written to the database.`,
		Example: `  catalogimport import artikel.csv
  catalogimport import lieferung.csv -m "Bezeichnung=name" -m "Notiz="
  catalogimport import export.json --encoding utf-16le --dry-run`,
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

			var service *core.Service
			if dryRun {
				service, err = env.snapshotService(cmd)
			} else {
				service, err = env.postgresService(cmd)
			}
			if err != nil {
				return err
			}

			result, err := importFile(cmd, service, args[0], opts)
			if err != nil {
				return err
			}
			result.DryRun = dryRun
			return printResult(cmd.OutOrStdout(), result, flags.output)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run against an in-memory copy of the catalog without writing")
	return cmd
}

func importFile(cmd *cobra.Command, service *core.Service, path string, opts core.ImportOptions) (*core.ImportResult, error) {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, userError(&core.IOError{FileName: name, Err: err})
	}
	defer f.Close()

	result, err := service.ImportReader(cmd.Context(), name, f, opts)
	if err != nil {
		return nil, userError(err)
	}
	return result, nil
}

// userError replaces errors with a known user message by that message. The
// technical error goes to the debug log.
func userError(err error) error {
	if !core.IsUserFacing(err) {
		return err
	}
	slog.Debug("command failed", "error", err)
	return errors.New(core.FormatUserError(err))
}
