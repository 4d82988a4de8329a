package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/models"
)

// EnvBoard selects the board for commands run without --board
const EnvBoard = "RETRO_BOARD"

// ErrNoBoard is returned when neither --board nor RETRO_BOARD is set
var ErrNoBoard = errors.New("no board specified (use --board or set " + EnvBoard + ")")

// AddBoardFlag registers the --board flag on cmd
func AddBoardFlag(cmd *cobra.Command) {
	cmd.Flags().Int("board", 0, "Board ID (uses "+EnvBoard+" env var if not specified)")
}

// GetBoardID returns the board from the --board flag, falling back to RETRO_BOARD
func GetBoardID(cmd *cobra.Command) (int, error) {
	if cmd.Flags().Changed("board") {
		id, _ := cmd.Flags().GetInt("board")
		if id <= 0 {
			return 0, fmt.Errorf("invalid board ID %d", id)
		}
		return id, nil
	}

	env := strings.TrimSpace(os.Getenv(EnvBoard))
	if env == "" {
		return 0, ErrNoBoard
	}
	id, err := strconv.Atoi(env)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be a positive board ID", EnvBoard, env)
	}
	return id, nil
}

// ParseID parses a positive integer ID argument
func ParseID(kind, arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID '%s'", kind, arg)
	}
	return id, nil
}

// ResolveColumn finds a board column by ID or, case-insensitively, by title
func ResolveColumn(ctx context.Context, c *CLI, boardID int, ref string) (*models.Column, error) {
	columns, err := c.App.ColumnService.ListColumns(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if id, err := strconv.Atoi(ref); err == nil {
		for _, col := range columns {
			if col.ID == id {
				return col, nil
			}
		}
	}
	for _, col := range columns {
		if strings.EqualFold(col.Title, strings.TrimSpace(ref)) {
			return col, nil
		}
	}

	titles := make([]string, len(columns))
	for i, col := range columns {
		titles[i] = col.Title
	}
	return nil, fmt.Errorf("column '%s' on board %d: %w (available: %s)", ref, boardID, models.ErrNotFound, strings.Join(titles, ", "))
}

// Confirm asks a yes/no question unless force is set or the output mode is
// not interactive. It reports whether to proceed.
func Confirm(cmd *cobra.Command, f *OutputFormatter, title string, force bool) (bool, error) {
	if force || !f.Human() {
		return true, nil
	}

	var confirmed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed),
	)).WithInput(cmd.InOrStdin()).WithOutput(cmd.ErrOrStderr())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}
