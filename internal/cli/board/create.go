package board

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/models"
	boardservice "github.com/thenoetrevino/retro/internal/services/board"
	"github.com/thenoetrevino/retro/internal/user"
)

// CreateCmd returns the board create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new board",
		Long: `Create a new retrospective board from a template or an explicit column list.

Templates: went-well-didnt (default), start-stop-continue, mad-sad-glad, 4ls

Examples:
  # Default template
  retro board create --title="Sprint 42"

  # Start / Stop / Continue with 3 votes per person
  retro board create --title="Sprint 42" --template=start-stop-continue --max-votes=3

  # Custom columns, anonymous feedback
  retro board create --title="Offsite" --columns="Keep,Drop,Try" --anonymous

  # Quiet mode for bash capture
  export RETRO_BOARD=$(retro board create --title="Sprint 42" --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().String("title", "", "Board title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		slog.Error("Error marking flag as required", "error", err)
	}

	cmd.Flags().String("template", "", "Column template (defaults to config board.template)")
	cmd.Flags().StringSlice("columns", nil, "Comma-separated column titles (overrides --template)")
	cmd.Flags().Int("max-votes", 0, "Votes per person (defaults to config board.max_votes_per_user)")
	cmd.Flags().Bool("anonymous", false, "Hide feedback authors")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	title, _ := cmd.Flags().GetString("title")
	template, _ := cmd.Flags().GetString("template")
	columns, _ := cmd.Flags().GetStringSlice("columns")
	maxVotes, _ := cmd.Flags().GetInt("max-votes")
	anonymous, _ := cmd.Flags().GetBool("anonymous")

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	board, cols, err := cliInstance.App.BoardService.CreateBoard(ctx, boardservice.CreateBoardRequest{
		Title:           title,
		CreatedBy:       user.GetCurrentUsername(),
		Template:        template,
		Columns:         columns,
		MaxVotesPerUser: maxVotes,
		IsAnonymous:     anonymous,
	})
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	if formatter.JSON {
		return formatter.Success(map[string]any{
			"board":   board,
			"columns": cols,
		})
	}
	if formatter.Quiet {
		return formatter.Success(board)
	}

	formatter.Printf("✓ Board '%s' created (ID: %d)\n", board.Title, board.ID)
	formatter.Printf("  Columns: %s\n", columnTitles(cols))
	formatter.Printf("  Votes per person: %d\n", board.MaxVotesPerUser)
	if board.IsAnonymous {
		formatter.Println("  Anonymous: yes")
	}
	return nil
}

func columnTitles(cols []*models.Column) string {
	titles := make([]string, len(cols))
	for i, col := range cols {
		titles[i] = col.Title
	}
	return strings.Join(titles, ", ")
}
