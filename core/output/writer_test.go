package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseName(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"report.md", "report"},
		{"/tmp/docs/intro.docx", "intro"},
		{"https://example.com/docs/intro.html", "intro"},
		{"https://example.com/", "example.com"},
		{"weird name!.md", "weird_name_"},
		{"", "index"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BaseName(tc.source), tc.source)
	}
}

func TestWriteAndSidecar(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.Write("notes.md", []byte("pdf bytes"), ".pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes.pdf"), path)

	side, err := w.WriteSidecar("notes.md", []byte("{}"), ".formatting.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes.formatting.json"), side)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	_, err := New(dir)
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
