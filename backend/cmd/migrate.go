package cmd

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		rt.log.Info("Database schema is up to date", "db_driver", rt.cfg.DBDriver)
		return nil
	},
}
