package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/plainpine/myquest/internal/service"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import questions from a JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "questions.json"
		if len(args) == 1 {
			path = args[0]
		}

		db, err := openBackend(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		n, err := service.NewInterchangeService(db.questions).Import(cmd.Context(), f)
		if err != nil {
			return err
		}

		log.Info("questions imported", zap.String("file", path), zap.Int("count", n))
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d questions from %s\n", n, path)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all questions to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("out")

		db, err := openBackend(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		f, err := os.Create(path)
		if err != nil {
			return err
		}

		n, err := service.NewInterchangeService(db.questions).Export(cmd.Context(), f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d questions to %s\n", n, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "questions_exported.json", "Output file")
}
