package cmd

import (
	"eduquiz/backend/seed"
	"eduquiz/backend/storage"
	"eduquiz/backend/store"
	"eduquiz/backend/utils"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo teacher, student, courses and quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, _, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		if err := utils.Migrate(db); err != nil {
			return err
		}

		blobs, err := storage.New(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		password, _ := cmd.Flags().GetString("password")
		return seed.Run(cmd.Context(), store.New(db), blobs, password, logger)
	},
}

func init() {
	seedCmd.Flags().String("password", "password123", "Password for the demo accounts")
}
