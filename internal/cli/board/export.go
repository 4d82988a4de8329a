package board

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli"
	"github.com/thenoetrevino/retro/internal/export"
)

// ExportCmd returns the board export subcommand
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a board as markdown, CSV or JSON",
		Long: `Export a board with its columns, cards, votes, timers and action items.
The JSON format can be imported again with 'retro board import'.

Examples:
  retro board export --board=1
  retro board export --board=1 --render
  retro board export --board=1 --format=csv --output=retro.csv
  retro board export --board=1 --format=json --output=retro.json
`,
		RunE: runExport,
	}

	cmd.Flags().String("format", string(export.FormatMarkdown), "Output format: markdown, csv or json")
	cmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().Bool("render", false, "Render markdown for the terminal")
	cmd.Flags().Int("width", 80, "Word wrap width for --render")
	cli.AddBoardFlag(cmd)
	cli.AddOutputFlags(cmd)

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatName, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	render, _ := cmd.Flags().GetBool("render")
	width, _ := cmd.Flags().GetInt("width")

	cliInstance, formatter, err := cli.Setup(cmd)
	if err != nil {
		return err
	}
	defer cliInstance.CloseOrLog()

	boardID, err := cli.GetBoardID(cmd)
	if err != nil {
		return cli.UsageError(formatter, err, "Set the board with: export RETRO_BOARD=<board-id>")
	}

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return cli.HandleError(formatter, err)
	}
	if render && format != export.FormatMarkdown {
		return cli.UsageError(formatter, fmt.Errorf("--render only applies to markdown, not %s", format), "")
	}

	doc, err := export.Build(ctx, cliInstance.App.Repo(), boardID, time.Now())
	if err != nil {
		return cli.HandleError(formatter, err)
	}

	// --json without a file: the document itself is the payload
	if formatter.JSON && outputPath == "" {
		return formatter.Success(doc)
	}

	var buf bytes.Buffer
	switch format {
	case export.FormatJSON:
		err = export.WriteJSON(&buf, doc)
	case export.FormatCSV:
		err = export.WriteCSV(&buf, doc)
	default:
		md := export.GenerateMarkdown(doc)
		if render {
			md, err = export.RenderTerminal(md, width)
		}
		buf.WriteString(md)
	}
	if err != nil {
		return cli.HandleError(formatter, fmt.Errorf("exporting board %d: %w", boardID, err))
	}

	if outputPath == "" {
		if formatter.Quiet {
			return nil
		}
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return cli.HandleError(formatter, fmt.Errorf("writing %s: %w", outputPath, err))
	}

	if formatter.JSON {
		return formatter.Success(map[string]any{
			"board_id": boardID,
			"format":   format,
			"path":     outputPath,
		})
	}
	formatter.QuietLine(outputPath)
	formatter.Printf("✓ Board %d exported to %s (%s)\n", boardID, outputPath, format)
	return nil
}
