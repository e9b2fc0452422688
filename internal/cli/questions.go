package cli

import (
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/plainpine/myquest/internal/domain/entities"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	emptyStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#6B7280"))
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

		db, err := openBackend(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		var qs []*entities.Question
		if category != "" {
			qs, err = db.questions.ListByCategory(cmd.Context(), category)
		} else {
			qs, err = db.questions.ListAll(cmd.Context())
		}
		if err != nil {
			return err
		}

		printQuestions(cmd.OutOrStdout(), qs)
		return nil
	},
}

func init() {
	questionsCmd.Flags().String("category", "", "Only show questions of this category")
}

func printQuestions(w io.Writer, qs []*entities.Question) {
	if len(qs) == 0 {
		fmt.Fprintln(w, emptyStyle.Render("(no questions)"))
		return
	}

	for _, q := range qs {
		fmt.Fprintf(w, "%s %s  %s\n",
			idStyle.Render("#"+strconv.FormatInt(q.ID, 10)),
			headerStyle.Render(q.Prompt),
			idStyle.Render("["+q.Category+"]"),
		)
		for i, c := range q.Choices {
			line := fmt.Sprintf("  %d. %s", i+1, c)
			if i+1 == q.Correct {
				line = correctStyle.Render(line + "  *")
			}
			fmt.Fprintln(w, line)
		}
		if q.Explanation != "" {
			fmt.Fprintln(w, emptyStyle.Render("  "+q.Explanation))
		}
	}

	fmt.Fprintf(w, "\n%d questions\n", len(qs))
}
