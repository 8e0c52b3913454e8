// AngelaMos | 2026
// admin.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/catalog-admin/internal/user"
)

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}

	var email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account if the email is not taken",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			db, err := a.database(cmd.Context())
			if err != nil {
				return err
			}

			svc := user.NewService(user.NewRepository(db.DB), a.logger)
			created, err := svc.EnsureAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			if created {
				fmt.Fprintf(a.out, "admin %s created\n", email)
			} else {
				fmt.Fprintf(a.out, "account %s already exists, nothing changed\n", email)
			}
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "admin email")
	create.Flags().StringVar(&password, "password", "", "admin password")

	cmd.AddCommand(create)
	return cmd
}
