package tilctl

import (
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/dmitrijs2005/tilapp/internal/server/auth"
	"github.com/dmitrijs2005/tilapp/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tilapp/internal/server/services"
	"github.com/spf13/cobra"
)

func (c *cli) userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}
	cmd.AddCommand(
		c.userCreateCommand(),
		c.userListCommand(),
	)
	return cmd
}

func (c *cli) userCreateCommand() *cobra.Command {
	var name, twitter string

	cmd := &cobra.Command{
		Use:   "create USERNAME",
		Short: "Create user",
		Long: "Creates a user with the given username. The password is read from\n" +
			"stdin or through the interactive prompt.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userName := args[0]
			if name == "" {
				name = userName
			}
			var twitterURL *string
			if twitter != "" {
				twitterURL = &twitter
			}

			passwd, err := c.promptPassword("password: ")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(passwd)

			return c.withStore(ctx, func(db *sql.DB, rm repomanager.RepositoryManager) error {
				users := services.NewUserService(db, rm, auth.NewPasswordHasher(c.bcryptCost))
				u, err := users.Register(ctx, name, userName, string(passwd), twitterURL)
				if err != nil {
					return err
				}
				c.logger.Info(ctx, "created user", "username", u.UserName, "id", u.ID)
				_, err = fmt.Fprintln(c.out, u.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name (defaults to the username)")
	cmd.Flags().StringVar(&twitter, "twitter", "", "twitter handle or URL")
	return cmd
}

func (c *cli) userListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(db *sql.DB, rm repomanager.RepositoryManager) error {
				list, err := rm.Users(db).List(ctx)
				if err != nil {
					return err
				}
				for _, u := range list {
					if _, err := fmt.Fprintf(c.out, "%s\t%s\t%s\n", u.UserName, u.Name, u.ID); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
