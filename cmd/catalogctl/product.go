// AngelaMos | 2026
// product.go

package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/carterperez-dev/templates/catalog-admin/internal/product"
)

func newProductCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Product maintenance",
	}

	var id string
	hardDelete := &cobra.Command{
		Use:   "hard-delete",
		Short: "Permanently remove a product row",
		Long:  "Permanently remove a product row. This bypasses soft delete and writes no audit entry.\nProducts referenced by audit entries cannot be removed; the audit trail is kept intact.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(id); err != nil {
				return fmt.Errorf("--id must be a product UUID")
			}
			db, err := a.database(cmd.Context())
			if err != nil {
				return err
			}

			svc := product.NewService(product.ServiceConfig{
				Repo:   product.NewRepository(db.DB),
				Logger: a.logger,
			})
			if err := svc.HardDelete(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "product %s removed\n", id)
			return nil
		},
	}
	hardDelete.Flags().StringVar(&id, "id", "", "product id")

	cmd.AddCommand(hardDelete)
	return cmd
}
