// Package cli implements the myquest command line.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/config"
	"github.com/plainpine/myquest/internal/logger"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "myquest",
	Short:         "Quiz and e-learning web application",
	Long:          "MyQuest serves chapter tests, practice exams and retests of unmastered questions, and manages the question bank.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		log, err = logger.New(cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the command selected by the process arguments.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(userCmd)
}
