package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileText(t *testing.T) {
	path := writeTemp(t, "notes.txt", "Plain text body.\nSecond line.")

	got, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, "Plain text body.\nSecond line.", got.Text)
	assert.Empty(t, got.Breakpoints, "plain text has no pages")
}

func TestFileMarkdown(t *testing.T) {
	src := "# Maintenance Guide\n\nCheck the **pump** daily.\n\n- oil level\n- belt tension\n"
	path := writeTemp(t, "guide.md", src)

	got, err := File(path)
	require.NoError(t, err)
	assert.Contains(t, got.Text, "Maintenance Guide")
	assert.Contains(t, got.Text, "Check the pump daily.")
	assert.Contains(t, got.Text, "oil level")
	assert.NotContains(t, got.Text, "#", "markup does not leak into the text")
	assert.NotContains(t, got.Text, "**")
	assert.Empty(t, got.Breakpoints)
}

func TestFileUnsupportedFormat(t *testing.T) {
	path := writeTemp(t, "image.png", "not really an image")

	_, err := File(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestFileMissing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
