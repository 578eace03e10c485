package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// getEditor returns the user's preferred editor from environment variables.
// It checks EDITOR, then VISUAL, and defaults to vi if neither is set.
func getEditor() string {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		editor = "vi"
	}
	return editor
}

// openEditor opens the specified file in the user's editor.
// EDITOR may carry arguments, e.g. "code --wait".
// It returns an error if the editor cannot be started or exits with a non-zero status.
func openEditor(filePath string, stdin io.Reader, stdout, stderr io.Writer) error {
	editor := getEditor()
	fields := strings.Fields(editor)

	cmd := exec.Command(fields[0], append(fields[1:], filePath)...) //nolint:gosec // editor comes from the user's environment
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editor, err)
	}

	return nil
}
