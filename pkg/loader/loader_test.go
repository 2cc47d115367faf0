package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/David-Botos/kempis-corpus/pkg/model"
)

const testPattern = "book%d_aligned.tsv"

func writeBook(t *testing.T, dir string, book int, content string) string {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf(testPattern, book))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewLoaderValidation(t *testing.T) {
	t.Parallel()

	_, err := NewLoader("", testPattern, false, zap.NewNop())
	require.Error(t, err)

	_, err = NewLoader(t.TempDir(), "book_aligned.tsv", false, zap.NewNop())
	require.Error(t, err)

	_, err = NewLoader(t.TempDir(), testPattern, false, nil)
	require.Error(t, err)
}

func TestLoadBook(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeBook(t, dir, 1, "Cap. 1. Lorem ipsum\tChapter 1. Dolor sit\nQui sequitur me\tamet\n")

	l, err := NewLoader(dir, testPattern, false, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, path, l.Path(1))

	load, err := l.LoadBook(1)
	require.NoError(t, err)
	assert.Equal(t, 1, load.Book)
	assert.Equal(t, path, load.Path)
	assert.Empty(t, load.Malformed)
	assert.Equal(t, []model.AlignedPair{
		{Book: 1, Line: 1, Source: "Cap. 1. Lorem ipsum", Target: "Chapter 1. Dolor sit"},
		{Book: 1, Line: 2, Source: "Qui sequitur me", Target: "amet"},
	}, load.Pairs)
}

func TestLoadBookMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l, err := NewLoader(dir, testPattern, false, zap.NewNop())
	require.NoError(t, err)

	_, err = l.LoadBook(2)
	require.ErrorIs(t, err, model.ErrMissingInput)

	var missing *model.MissingInputError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 2, missing.Book)
	assert.Equal(t, filepath.Join(dir, "book2_aligned.tsv"), missing.Path)
}

func TestLoadBookSkipsMalformedRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeBook(t, dir, 3, "a\tb\nno tab here\nc\td\te\n\nf\tg\n")

	core, logs := observer.New(zapcore.WarnLevel)
	l, err := NewLoader(dir, testPattern, false, zap.New(core))
	require.NoError(t, err)

	load, err := l.LoadBook(3)
	require.NoError(t, err)

	require.Len(t, load.Pairs, 2)
	assert.Equal(t, "a", load.Pairs[0].Source)
	assert.Equal(t, 5, load.Pairs[1].Line)

	require.Len(t, load.Malformed, 3)
	assert.Equal(t, 2, load.Malformed[0].Line)
	assert.Equal(t, 1, load.Malformed[0].Fields)
	assert.Equal(t, 3, load.Malformed[1].Fields)
	assert.Equal(t, 4, load.Malformed[2].Line)

	assert.Equal(t, 3, logs.FilterMessage("Skipping malformed row").Len())
}

func TestLoadBookStrict(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeBook(t, dir, 1, "a\tb\nbroken\nc\td\n")

	l, err := NewLoader(dir, testPattern, true, zap.NewNop())
	require.NoError(t, err)

	_, err = l.LoadBook(1)
	require.ErrorIs(t, err, model.ErrMalformedRow)

	var malformed *model.MalformedRowError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 2, malformed.Line)
}

func TestReadPairsHandlesBOMAndCRLF(t *testing.T) {
	t.Parallel()

	input := "\uFEFFLorem\tDolor\r\nipsum\tsit\r\n"
	pairs, malformed, err := ReadPairs(strings.NewReader(input), 4, "book4_aligned.tsv", false)
	require.NoError(t, err)
	assert.Empty(t, malformed)
	assert.Equal(t, []model.AlignedPair{
		{Book: 4, Line: 1, Source: "Lorem", Target: "Dolor"},
		{Book: 4, Line: 2, Source: "ipsum", Target: "sit"},
	}, pairs)
}

func TestReadPairsKeepsQuotesAndEmptyFields(t *testing.T) {
	t.Parallel()

	input := "\"quoted\" text\t\n\tonly target\n"
	pairs, malformed, err := ReadPairs(strings.NewReader(input), 1, "x", false)
	require.NoError(t, err)
	assert.Empty(t, malformed)
	require.Len(t, pairs, 2)
	assert.Equal(t, "\"quoted\" text", pairs[0].Source)
	assert.Equal(t, "", pairs[0].Target)
	assert.Equal(t, "", pairs[1].Source)
}

func TestReadPairsRejectsInvalidUTF8(t *testing.T) {
	t.Parallel()

	input := "ok\tfine\n\xff\xfe\tbad\n"
	pairs, malformed, err := ReadPairs(strings.NewReader(input), 1, "x", false)
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
	require.Len(t, malformed, 1)
	assert.Equal(t, "invalid UTF-8", malformed[0].Reason)
}
