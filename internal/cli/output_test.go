package cli

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/retro/internal/models"
)

func newTestFormatter(jsonOut, quiet bool) (*OutputFormatter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &OutputFormatter{JSON: jsonOut, Quiet: quiet, Out: &out, Err: &errOut}, &out, &errOut
}

func TestNewFormatter_ReadsFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	AddOutputFlags(cmd)
	require.NoError(t, cmd.Flags().Set("json", "true"))

	f := NewFormatter(cmd)
	assert.True(t, f.JSON)
	assert.False(t, f.Quiet)
	assert.False(t, f.Human())
}

func TestSuccess(t *testing.T) {
	board := &models.Board{ID: 7, Title: "Sprint 42"}

	t.Run("json envelope", func(t *testing.T) {
		f, out, _ := newTestFormatter(true, false)
		require.NoError(t, f.Success(board))

		var got struct {
			Success bool         `json:"success"`
			Data    models.Board `json:"data"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.True(t, got.Success)
		assert.Equal(t, "Sprint 42", got.Data.Title)
	})

	t.Run("quiet int id", func(t *testing.T) {
		f, out, _ := newTestFormatter(false, true)
		require.NoError(t, f.Success(board))
		assert.Equal(t, "7\n", out.String())
	})

	t.Run("quiet string id", func(t *testing.T) {
		f, out, _ := newTestFormatter(false, true)
		require.NoError(t, f.Success(&models.FeedbackItem{ID: "3f2a"}))
		assert.Equal(t, "3f2a\n", out.String())
	})

	t.Run("human prints nothing", func(t *testing.T) {
		f, out, _ := newTestFormatter(false, false)
		require.NoError(t, f.Success(board))
		assert.Empty(t, out.String())
	})
}

func TestPrintHelpersRespectMode(t *testing.T) {
	f, out, _ := newTestFormatter(false, true)
	f.Printf("hello %s\n", "there")
	f.Println("again")
	f.QuietLine(12)
	assert.Equal(t, "12\n", out.String())

	f, out, _ = newTestFormatter(false, false)
	f.Printf("hello %s\n", "there")
	f.QuietLine(12)
	assert.Equal(t, "hello there\n", out.String())
}

func TestErrorWithSuggestion(t *testing.T) {
	t.Run("json goes to stdout", func(t *testing.T) {
		f, out, errOut := newTestFormatter(true, false)
		require.NoError(t, f.ErrorWithSuggestion("BOARD_NOT_FOUND", "board not found", "list boards"))

		var got map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, false, got["success"])
		errData := got["error"].(map[string]any)
		assert.Equal(t, "BOARD_NOT_FOUND", errData["code"])
		assert.Equal(t, "list boards", errData["suggestion"])
		assert.Empty(t, errOut.String())
	})

	t.Run("human goes to stderr", func(t *testing.T) {
		f, out, errOut := newTestFormatter(false, false)
		require.NoError(t, f.Error("ERROR", "boom"))
		assert.Empty(t, out.String())
		assert.Contains(t, errOut.String(), "Error:")
		assert.Contains(t, errOut.String(), "boom")
		assert.NotContains(t, errOut.String(), "Suggestion:")
	})
}
