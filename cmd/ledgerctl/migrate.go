package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2beens/liftledger/internal/workout/store/pgstore"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the ledger tables and indexes if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pgstore.Migrate(cmd.Context(), pool); err != nil {
			return err
		}

		color.Green("schema up to date")
		return nil
	},
}
