package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a dummy student with a random answer history",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := service.DefaultSeedOptions()
		opts.QuestionsFile, _ = cmd.Flags().GetString("questions")
		opts.Days, _ = cmd.Flags().GetInt("days")
		opts.PerDay, _ = cmd.Flags().GetInt("per-day")
		opts.Accuracy, _ = cmd.Flags().GetFloat64("accuracy")

		db, err := openBackend(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		seeder := service.NewSeeder(db.questions, db.users, db.results, service.NewBcryptHasher(0))
		report, err := seeder.Seed(cmd.Context(), opts)
		if err != nil {
			return err
		}

		log.Info("seed finished",
			zap.Int("questions_imported", report.QuestionsImported),
			zap.Int("questions_created", report.QuestionsCreated),
			zap.Int("results", report.Results),
		)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Dummy user: %s / %s\n", report.User.Email, service.DummyPassword)
		fmt.Fprintf(out, "Answers recorded: %d\n", report.Results)
		return nil
	},
}

func init() {
	defaults := service.DefaultSeedOptions()
	seedCmd.Flags().String("questions", defaults.QuestionsFile, "Questions file imported when the bank is empty")
	seedCmd.Flags().Int("days", defaults.Days, "Number of days of history")
	seedCmd.Flags().Int("per-day", defaults.PerDay, "Answers per day")
	seedCmd.Flags().Float64("accuracy", defaults.Accuracy, "Share of correct answers (0..1)")
}
