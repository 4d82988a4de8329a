package column_test

import (
	"testing"

	"github.com/thenoetrevino/retro/cmd"
	clitest "github.com/thenoetrevino/retro/internal/testutil/cli"
)

func TestColumnCommandsMountUnderRoot(t *testing.T) {
	clitest.AssertMountsUnderRoot(t, cmd.NewRootCmd, "column")
}
