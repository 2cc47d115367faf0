package template

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReadParagraphs(t *testing.T) {
	t.Parallel()

	raw := "\uFEFFQui sequitur me\nnon ambulat in tenebris.\r\n\r\n  \n\nDicit Dominus.\n \t \nHaec sunt verba Christi.\n\n"
	paragraphs, err := ReadParagraphs(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Qui sequitur me\nnon ambulat in tenebris.",
		"Dicit Dominus.",
		"Haec sunt verba Christi.",
	}, paragraphs)
}

func TestReadParagraphsNormalizesToNFC(t *testing.T) {
	t.Parallel()

	// "e" followed by a combining acute accent
	paragraphs, err := ReadParagraphs(strings.NewReader("cafe\u0301"))
	require.NoError(t, err)
	assert.Equal(t, []string{"caf\u00e9"}, paragraphs)
}

func TestHeader(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Latin Paragraph", "English Paragraph (Manual)"}, Header("latin", "english"))
}

func TestWriteSheet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteSheet(&buf, Header("latin", "english"), []string{"Lorem, ipsum", "Dolor"}))
	assert.Equal(t, "Latin Paragraph,English Paragraph (Manual)\n\"Lorem, ipsum\",\nDolor,\n", buf.String())
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rawPath := filepath.Join(dir, "raw_latin_kempis.txt")
	require.NoError(t, os.WriteFile(rawPath, []byte("Primus.\n\nSecundus.\n"), 0o644))

	gen, err := NewGenerator("latin", "english", zap.NewNop())
	require.NoError(t, err)

	sheet := filepath.Join(dir, "out", "manual_template.csv")
	n, err := gen.Generate(rawPath, sheet)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(sheet)
	require.NoError(t, err)
	assert.Equal(t, "Latin Paragraph,English Paragraph (Manual)\nPrimus.,\nSecundus.,\n", string(data))
}

func TestGenerateMissingRawFile(t *testing.T) {
	t.Parallel()

	gen, err := NewGenerator("latin", "english", zap.NewNop())
	require.NoError(t, err)

	dir := t.TempDir()
	_, err = gen.Generate(filepath.Join(dir, "absent.txt"), filepath.Join(dir, "sheet.csv"))
	require.ErrorIs(t, err, ErrRawFileMissing)
}
