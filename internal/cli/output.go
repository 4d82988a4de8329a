package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/retro/internal/cli/styles"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool

	Out io.Writer // defaults to os.Stdout
	Err io.Writer // defaults to os.Stderr
}

// NewFormatter builds a formatter from the command's --json and --quiet
// flags, writing to the command's configured streams.
func NewFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{
		JSON:  jsonOutput,
		Quiet: quietMode,
		Out:   cmd.OutOrStdout(),
		Err:   cmd.ErrOrStderr(),
	}
}

// AddOutputFlags registers --json and --quiet on cmd
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (IDs only)")
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) errOut() io.Writer {
	if f.Err == nil {
		return os.Stderr
	}
	return f.Err
}

// Human reports whether human-readable output should be written
func (f *OutputFormatter) Human() bool {
	return !f.JSON && !f.Quiet
}

// Printf writes human-readable output. It is a no-op in JSON and quiet modes.
func (f *OutputFormatter) Printf(format string, args ...any) {
	if !f.Human() {
		return
	}
	fmt.Fprintf(f.out(), format, args...)
}

// Println writes one human-readable line
func (f *OutputFormatter) Println(args ...any) {
	if !f.Human() {
		return
	}
	fmt.Fprintln(f.out(), args...)
}

// QuietLine writes a line only in quiet mode (IDs for shell capture)
func (f *OutputFormatter) QuietLine(v any) {
	if f.Quiet && !f.JSON {
		fmt.Fprintln(f.out(), v)
	}
}

// Success outputs a successful operation result. In quiet mode only the
// value's ID is printed; in human mode nothing is printed, callers write
// their own text with Printf.
func (f *OutputFormatter) Success(data any) error {
	if f.JSON {
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": true,
			"data":    data,
		})
	}
	if f.Quiet {
		switch v := data.(type) {
		case interface{ GetID() int }:
			fmt.Fprintf(f.out(), "%d\n", v.GetID())
		case interface{ GetID() string }:
			fmt.Fprintln(f.out(), v.GetID())
		}
	}
	return nil
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	fmt.Fprintf(f.errOut(), "%s %s\n", styles.ErrorStyle.Render("Error:"), message)
	if suggestion != "" {
		fmt.Fprintf(f.errOut(), "%s %s\n", styles.WarningStyle.Render("Suggestion:"), suggestion)
	}
	return nil
}
