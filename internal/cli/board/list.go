package board

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/cli/styles"
)

// ListCmd returns the board list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List boards",
		Long: `List boards, newest first. Archived boards are hidden unless --all is set.

Examples:
  retro board list
  retro board list --all --json
`,
		RunE: runList,
	}

	cmd.Flags().Bool("all", false, "Include archived boards")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	includeArchived, _ := cmd.Flags().GetBool("all")

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	boards, err := cliInstance.App.BoardService.ListBoards(ctx, includeArchived)
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	if formatter.JSON {
		return formatter.Success(boards)
	}
	if formatter.Quiet {
		for _, b := range boards {
			formatter.QuietLine(b.ID)
		}
		return nil
	}

	if len(boards) == 0 {
		formatter.Println("No boards found. Create one with 'retro board create --title=...'")
		return nil
	}

	formatter.Println("Boards:")
	for _, b := range boards {
		line := "  " + styles.TitleStyle.Render(b.Title) + " " + styles.SubtitleStyle.Render("["+string(b.Phase)+"]")
		if b.IsArchived {
			line += " " + styles.WarningStyle.Render("(archived)")
		}
		formatter.Printf("%s (ID: %d)\n", line, b.ID)
	}
	return nil
}
