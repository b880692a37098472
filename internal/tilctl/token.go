package tilctl

import (
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tilapp/internal/server/auth"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tilapp/internal/server/services"
	"github.com/spf13/cobra"
)

func (c *cli) tokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Bearer token commands",
	}
	cmd.AddCommand(
		c.tokenRevokeCommand(),
		c.tokenRevokeAllCommand(),
	)
	return cmd
}

func (c *cli) tokens(db *sql.DB, rm repomanager.RepositoryManager) *services.TokenAuthority {
	return services.NewTokenAuthority(db, rm, auth.NewPasswordHasher(c.bcryptCost), c.tokenSize)
}

func (c *cli) tokenRevokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke TOKEN",
		Short: "Revoke a single bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(db *sql.DB, rm repomanager.RepositoryManager) error {
				if err := c.tokens(db, rm).Revoke(ctx, args[0]); err != nil {
					return err
				}
				c.logger.Info(ctx, "token revoked")
				return nil
			})
		},
	}
}

func (c *cli) tokenRevokeAllCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-all USERNAME",
		Short: "Revoke every bearer token of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(db *sql.DB, rm repomanager.RepositoryManager) error {
				u, err := rm.Users(db).GetByUserName(ctx, args[0])
				if err != nil {
					return fmt.Errorf("user %q: %w", args[0], err)
				}
				n, err := c.tokens(db, rm).RevokeAll(ctx, u.ID)
				if err != nil {
					return err
				}
				c.logger.Info(ctx, "tokens revoked", "username", u.UserName, "count", n)
				_, err = fmt.Fprintln(c.out, n)
				return err
			})
		},
	}
}
