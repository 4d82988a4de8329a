package main

import (
	"os"

	"github.com/thenoetrevino/retro/cmd"
	"github.com/thenoetrevino/retro/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cmd.Execute()))
}
