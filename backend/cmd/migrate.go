package cmd

import (
	"eduquiz/backend/utils"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, _, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		if err := utils.Migrate(db); err != nil {
			return err
		}
		logger.Println("Database migrated")
		return nil
	},
}
