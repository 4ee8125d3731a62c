package photo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForDismissalReturnsOnEnter(t *testing.T) {
	out := new(bytes.Buffer)

	err := waitForDismissal(strings.NewReader("\n"), out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Press Enter")
}

func TestWaitForDismissalReturnsOnEOF(t *testing.T) {
	err := waitForDismissal(strings.NewReader(""), new(bytes.Buffer))
	require.NoError(t, err)
}
