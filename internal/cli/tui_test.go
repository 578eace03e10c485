package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUICommand_RequiresTerminal(t *testing.T) {
	// Setup
	h := newHarness(t)
	root := NewRootCommand(Options{
		Paths: h.paths,
		NewContainer: func(_ app.Paths, _ app.Overrides, _ io.Writer) (*app.Container, error) {
			return h.c, nil
		},
	})
	var out bytes.Buffer
	root.SetIn(strings.NewReader(""))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"tui"})

	// Execute
	err := root.Execute()

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotTerminal)
}
