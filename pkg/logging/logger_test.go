package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionID_Stable(t *testing.T) {
	first := SessionID()
	second := SessionID()
	assert.Equal(t, first, second)
	assert.Len(t, first, 36)
}

func TestLogger_WritesFormattedLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("dispatch")
	l.out = &buf

	l.Infof("call %s", "browser_navigate")
	l.Errorf("boom: %v", os.ErrNotExist)

	out := buf.String()
	assert.Contains(t, out, "[dispatch]")
	assert.Contains(t, out, "[INFO] call browser_navigate")
	assert.Contains(t, out, "[ERROR] boom:")
}

func TestLogger_MirrorToFile(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("browser")
	l.out = &buf

	path := filepath.Join(t.TempDir(), "logs", "pilot.log")
	require.NoError(t, l.MirrorToFile(path))

	l.Infof("mirrored line")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mirrored line")
	assert.Contains(t, buf.String(), "mirrored line", "mirror must not replace the primary sink")
}

func TestLogger_MirrorToFileReplacesPrevious(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("browser")
	l.out = &buf

	first := filepath.Join(t.TempDir(), "first.log")
	second := filepath.Join(t.TempDir(), "second.log")

	require.NoError(t, l.MirrorToFile(first))
	l.Infof("before swap")

	// The first mirror is closed before the swap, so later lines go only
	// to the replacement.
	require.NoError(t, l.MirrorToFile(second))
	l.Infof("after swap")
	require.NoError(t, l.Close())

	firstData, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Contains(t, string(firstData), "before swap")
	assert.NotContains(t, string(firstData), "after swap")

	secondData, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(secondData), "after swap")
}

func TestLogger_CloseTwice(t *testing.T) {
	l := NewLogger("test")
	path := filepath.Join(t.TempDir(), "pilot.log")
	require.NoError(t, l.MirrorToFile(path))
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
}
