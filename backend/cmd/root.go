package cmd

import (
	"log"

	"eduquiz/backend/config"
	"eduquiz/backend/utils"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "eduquiz",
	Short: "EduQuiz course and quiz API",
	Long:  "EduQuiz serves PDF course material and timed multiple-choice quizzes to teachers and students.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable coloured log output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// bootstrap loads the configuration, builds the logger and opens the database.
func bootstrap(cmd *cobra.Command) (*config.Config, *log.Logger, *gorm.DB, bool, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, false, err
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	logger := utils.InitLogger(utils.LoggerConfig{EnableColors: !noColor})

	db, err := utils.InitDB(cfg)
	if err != nil {
		return nil, nil, nil, false, err
	}
	return cfg, logger, db, !noColor, nil
}
