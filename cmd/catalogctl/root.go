// AngelaMos | 2026
// root.go

package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/catalog-admin/internal/config"
	"github.com/carterperez-dev/templates/catalog-admin/internal/core"
)

// app carries state shared by subcommands. The database is opened on
// first use so commands like `keys generate` run without one.
type app struct {
	configPath string
	out        io.Writer
	logger     *slog.Logger
	cfg        *config.Config
	db         *core.Database
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{
		out:    out,
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Catalog admin maintenance CLI",
		Long:          "Migrations, audit maintenance, admin bootstrap and key management for the catalog admin API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.configPath, "config", "config.yaml", "path to config file")

	root.AddCommand(
		newMigrateCmd(a),
		newAuditCmd(a),
		newAdminCmd(a),
		newProductCmd(a),
		newKeysCmd(a),
	)

	return root
}

func (a *app) database(ctx context.Context) (*core.Database, error) {
	if a.db != nil {
		return a.db, nil
	}

	if a.cfg == nil {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return nil, err
		}
		a.cfg = cfg
	}

	db, err := core.NewDatabase(ctx, a.cfg.Database)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
