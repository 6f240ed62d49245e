package main

import (
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/StefanEhlert/chefsnumbers/internal/catalog"
	"github.com/StefanEhlert/chefsnumbers/internal/config"
	"github.com/StefanEhlert/chefsnumbers/internal/core"
	"github.com/StefanEhlert/chefsnumbers/internal/logging"
)

// runFlags are shared by the import and preview commands.
type runFlags struct {
	mappings []string
	encoding string
	output   string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.mappings, "mapping", "m", nil, "Column mapping override as header=field (repeatable, empty field unmaps)")
	cmd.Flags().StringVarP(&f.encoding, "encoding", "e", "", "Force the file encoding (utf-8, utf-16le, utf-16be, windows-1252, iso-8859-1)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "summary", "Output format: summary or json")
}

func (f *runFlags) options() (core.ImportOptions, error) {
	mapping, err := parseMappingFlags(f.mappings)
	if err != nil {
		return core.ImportOptions{}, err
	}
	return core.ImportOptions{Mapping: mapping, Encoding: core.Encoding(f.encoding)}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogimport",
		Short: "Import article lists into the catalog",
		Long: `catalogimport reads supplier article lists in CSV or JSON format,
maps their columns to catalog fields, reconciles prices and adds the
articles that are not yet in the catalog.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	root.AddCommand(newImportCmd(), newPreviewCmd())
	return root
}

// environment is everything a command needs to talk to the catalog.
type environment struct {
	cfg  *config.Config
	pool *pgxpool.Pool
}

// setup loads configuration, configures logging and connects to the
// catalog database. The caller closes the returned environment.
func setup(cmd *cobra.Command) (*environment, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	pool, err := catalog.OpenPool(cmd.Context(), cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to catalog: %w", err)
	}
	return &environment{cfg: cfg, pool: pool}, nil
}

func (e *environment) Close() {
	e.pool.Close()
}

// postgresService returns a service that commits to the catalog database.
func (e *environment) postgresService(cmd *cobra.Command) (*core.Service, error) {
	store := catalog.NewPostgresStore(e.pool)
	if err := store.EnsureSchema(cmd.Context()); err != nil {
		return nil, fmt.Errorf("prepare schema: %w", err)
	}
	return core.NewService(store, e.cfg.Import), nil
}

// snapshotService returns a service backed by an in-memory copy of the
// catalog, so a full run can be made without touching the database.
func (e *environment) snapshotService(cmd *cobra.Command) (*core.Service, error) {
	source := catalog.NewPostgresStore(e.pool)
	snapshot, err := catalog.Snapshot(cmd.Context(), source)
	if err != nil {
		return nil, fmt.Errorf("snapshot catalog: %w", err)
	}
	return core.NewService(snapshot, e.cfg.Import), nil
}
