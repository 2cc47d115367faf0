package combiner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/David-Botos/kempis-corpus/pkg/config"
	"github.com/David-Botos/kempis-corpus/pkg/model"
	"github.com/David-Botos/kempis-corpus/pkg/output"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		ProjectRoot:  root,
		InputDir:     filepath.Join(root, "aligned"),
		OutputPath:   filepath.Join(root, "processed", "imitation_cleaned.tsv"),
		InputPattern: "book%d_aligned.tsv",
		VerifyOutput: true,
		SourceLang:   "latin",
		TargetLang:   "english",
		SQL:          config.SQLExportConfig{Schema: "public", Table: "imitation"},
		LogLevel:     "info",
		LogFormat:    "json",
	}
	require.NoError(t, cfg.Validate())
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))
	return cfg
}

func writeBook(t *testing.T, cfg *config.Config, book int, lines ...string) {
	t.Helper()
	var content string
	for _, line := range lines {
		content += line + "\n"
	}
	path := filepath.Join(cfg.InputDir, fmt.Sprintf(cfg.InputPattern, book))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeAllBooks(t *testing.T, cfg *config.Config, skip ...int) {
	t.Helper()
	skipped := make(map[int]bool)
	for _, b := range skip {
		skipped[b] = true
	}
	for _, book := range model.Books() {
		if skipped[book] {
			continue
		}
		writeBook(t, cfg, book,
			fmt.Sprintf("Cap. %d. Liber %d primus\tBook %d first", book, book, book),
			fmt.Sprintf("Liber %d secundus\tBook %d second", book, book))
	}
}

func runCombiner(t *testing.T, cfg *config.Config, logger *zap.Logger) (*RunResult, error) {
	t.Helper()
	c, err := NewCombiner(cfg, logger)
	require.NoError(t, err)
	return c.Run(context.Background())
}

func TestRunSingleBookScenario(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	writeBook(t, cfg, 1,
		"Cap. 1. Dolor sit\tIn sorrow",
		"2. amet\tsecond")

	result, err := runCombiner(t, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, result.LoadedBooks())
	assert.Equal(t, []int{2, 3, 4}, result.SkippedBooks())
	assert.Equal(t, 2, result.TotalRows)
	require.NotNil(t, result.Verification)
	assert.True(t, result.Verification.Passed())

	conv, err := NewOutputConverter(cfg, zap.NewNop())
	require.NoError(t, err)
	rows, err := output.ReadFile(cfg.OutputPath, conv)
	require.NoError(t, err)

	assert.Equal(t, []model.Row{
		{
			ID: 1, BookNumber: 1, BookLabel: "Book I", ChapterNumber: 1, ChapterID: "I.1",
			SourceText: "Dolor sit", TargetText: "In sorrow",
			SourceWordCount: 2, TargetWordCount: 2,
		},
		{
			ID: 2, BookNumber: 1, BookLabel: "Book I", ChapterNumber: 2, ChapterID: "I.2",
			SourceText: "amet", TargetText: "second",
			SourceWordCount: 1, TargetWordCount: 1,
		},
	}, rows)
}

func TestRunMissingBookTwo(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	writeAllBooks(t, cfg, 2)

	core, logs := observer.New(zapcore.WarnLevel)
	result, err := runCombiner(t, cfg, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3, 4}, result.LoadedBooks())
	book2, ok := result.Book(2)
	require.True(t, ok)
	assert.Equal(t, BookMissing, book2.Status)
	require.ErrorIs(t, book2.Err, model.ErrMissingInput)

	warnings := logs.FilterMessage("Skipping book with missing input").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, int64(2), warnings[0].ContextMap()["book"])

	conv, err := NewOutputConverter(cfg, zap.NewNop())
	require.NoError(t, err)
	rows, err := output.ReadFile(cfg.OutputPath, conv)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	for i, row := range rows {
		assert.Equal(t, i+1, row.ID)
		assert.NotEqual(t, 2, row.BookNumber)
	}
	assert.Equal(t, "III.1", rows[2].ChapterID)
	assert.Equal(t, "Liber 3 primus", rows[2].SourceText)
}

func TestRunAllBooksMissing(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	result, err := runCombiner(t, cfg, zap.NewNop())
	require.ErrorIs(t, err, model.ErrNoBooksLoaded)

	var noBooks *model.NoBooksLoadedError
	require.ErrorAs(t, err, &noBooks)
	assert.Len(t, noBooks.Failures, model.BookCount)

	require.NotNil(t, result)
	assert.Empty(t, result.LoadedBooks())
	assert.Len(t, result.SkippedBooks(), model.BookCount)

	_, statErr := os.Stat(cfg.OutputPath)
	assert.True(t, os.IsNotExist(statErr), "no output file should be written")
}

func TestRunAllBooksMissingKeepsExistingOutput(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755))
	require.NoError(t, os.WriteFile(cfg.OutputPath, []byte("previous"), 0o644))

	_, err := runCombiner(t, cfg, zap.NewNop())
	require.Error(t, err)

	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestRunLenientSkipsMalformedRows(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	writeBook(t, cfg, 1, "a\tb", "broken line", "c\td")

	c, err := NewCombiner(cfg, zap.NewNop())
	require.NoError(t, err)
	result, err := c.Run(context.Background())
	require.NoError(t, err)

	book1, ok := result.Book(1)
	require.True(t, ok)
	assert.Equal(t, BookLoaded, book1.Status)
	assert.Equal(t, 2, book1.Rows)
	assert.Equal(t, 1, book1.MalformedRows)

	assert.Equal(t, 1, c.Errors().ErrorCount(ErrorCategoryRowLevel))
	assert.Equal(t, 1, c.Metrics().MalformedRows)
	assert.Equal(t, 3, c.Metrics().TotalRowsRead)
}

func TestRunStrictFailsBook(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.StrictRows = true
	writeBook(t, cfg, 1, "a\tb", "broken line")
	writeBook(t, cfg, 2, "c\td")

	result, err := runCombiner(t, cfg, zap.NewNop())
	require.NoError(t, err)

	book1, ok := result.Book(1)
	require.True(t, ok)
	assert.Equal(t, BookFailed, book1.Status)
	require.ErrorIs(t, book1.Err, model.ErrMalformedRow)

	assert.Equal(t, []int{2}, result.LoadedBooks())
	assert.Equal(t, 1, result.TotalRows)
}

func TestRunStrictAllFailed(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.StrictRows = true
	writeBook(t, cfg, 1, "only one field")

	_, err := runCombiner(t, cfg, zap.NewNop())
	require.ErrorIs(t, err, model.ErrNoBooksLoaded)
	require.ErrorIs(t, err, model.ErrMalformedRow)
}

func TestRunWritesLoadScript(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.SQL.ScriptPath = filepath.Join(cfg.ProjectRoot, "sql", "load.sql")
	writeAllBooks(t, cfg)

	result, err := runCombiner(t, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, cfg.SQL.ScriptPath, result.ScriptPath)
	assert.Equal(t, 8, result.TotalRows)

	script, err := os.ReadFile(cfg.SQL.ScriptPath)
	require.NoError(t, err)
	assert.Contains(t, string(script), `\copy "public"."imitation"`)
}

func TestRunLogsSummaryWhenWriteFails(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	writeAllBooks(t, cfg)
	// a non-empty directory at the output path makes the final rename fail
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.OutputPath, "occupied"), 0o755))

	core, logs := observer.New(zapcore.InfoLevel)
	c, err := NewCombiner(cfg, zap.New(core))
	require.NoError(t, err)

	result, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write output")
	require.NotNil(t, result)

	completed := logs.FilterMessage("Run completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, int64(model.BookCount), completed[0].ContextMap()["loadedBooks"])
	assert.False(t, c.Metrics().EndTime.IsZero())
}

func TestRunWithoutVerification(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.VerifyOutput = false
	writeAllBooks(t, cfg)

	result, err := runCombiner(t, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, result.Verification)
	assert.Empty(t, result.ScriptPath)
}

func TestRunStopsWhenCancelled(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	writeAllBooks(t, cfg)

	c, err := NewCombiner(cfg, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(cfg.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAssignIDs(t *testing.T) {
	t.Parallel()

	rows := make([]model.Row, 5)
	AssignIDs(rows)
	for i, row := range rows {
		assert.Equal(t, i+1, row.ID)
	}

	AssignIDs(nil)
}

func TestNewCombinerValidation(t *testing.T) {
	t.Parallel()

	_, err := NewCombiner(nil, zap.NewNop())
	require.Error(t, err)

	_, err = NewCombiner(testConfig(t), nil)
	require.Error(t, err)
}
