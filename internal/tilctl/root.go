// Package tilctl implements the administration CLI: creating users,
// revoking bearer tokens and applying database migrations.
package tilctl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/tilapp/internal/logging"
	"github.com/dmitrijs2005/tilapp/internal/server/config"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
)

// opener connects to the store named by dsn.
type opener func(ctx context.Context, dsn string) (*sql.DB, repomanager.RepositoryManager, error)

func openPostgres(ctx context.Context, dsn string) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := repomanager.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return db, repomanager.NewPostgresRepositoryManager(), nil
}

type cli struct {
	open   opener
	in     io.Reader
	out    io.Writer
	logger logging.Logger

	dsn        string
	bcryptCost int
	tokenSize  int
	debug      bool
}

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	return newRootCommand(&cli{open: openPostgres, in: os.Stdin, out: os.Stdout})
}

func newRootCommand(c *cli) *cobra.Command {
	defaults := &config.Config{}
	defaults.LoadDefaults()

	cmd := &cobra.Command{
		Use:          "tilctl [command] [flags]",
		Short:        "Administration tool for the TIL server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRun: func(*cobra.Command, []string) {
			if c.logger == nil {
				c.logger = logging.NewDefault(os.Stderr, c.debug)
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&c.dsn, "dsn", "d", defaults.DatabaseDSN, "PostgreSQL DSN")
	cmd.PersistentFlags().IntVarP(&c.bcryptCost, "bcrypt-cost", "b", defaults.BcryptCost, "bcrypt work factor for new passwords")
	cmd.PersistentFlags().BoolVarP(&c.debug, "verbose", "v", false, "enable debug logging")
	c.tokenSize = defaults.TokenSize

	cmd.AddCommand(
		c.userCommand(),
		c.tokenCommand(),
		c.migrateCommand(),
	)
	return cmd
}

// withStore opens the store, runs fn and closes the store again.
func (c *cli) withStore(ctx context.Context, fn func(db *sql.DB, rm repomanager.RepositoryManager) error) (runErr error) {
	db, rm, err := c.open(ctx, c.dsn)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer func() {
		if db == nil {
			return
		}
		if err := db.Close(); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}()
	return fn(db, rm)
}

func (c *cli) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(db *sql.DB, rm repomanager.RepositoryManager) error {
				if err := rm.RunMigrations(ctx, db); err != nil {
					return err
				}
				c.logger.Info(ctx, "migrations applied")
				return nil
			})
		},
	}
}
