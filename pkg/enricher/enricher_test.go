package enricher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/kempis-corpus/pkg/model"
)

func TestChapterID(t *testing.T) {
	t.Parallel()

	id, err := ChapterID(3, 7)
	require.NoError(t, err)
	assert.Equal(t, "III.7", id)

	id, err = ChapterID(4, 14)
	require.NoError(t, err)
	assert.Equal(t, "IV.14", id)
}

func TestUnsupportedBook(t *testing.T) {
	t.Parallel()

	for _, book := range []int{0, 5, -1} {
		_, err := ChapterID(book, 1)
		require.ErrorIs(t, err, model.ErrUnsupportedBook)

		_, err = Label(book)
		var unsupported *model.UnsupportedBookNumberError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, book, unsupported.Book)

		_, err = Enrich(book, nil)
		require.ErrorIs(t, err, model.ErrUnsupportedBook)
	}
}

func TestWordCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"\t\n", 0},
		{"Lorem", 1},
		{"Dolor sit", 2},
		{" Qui  sequitur\tme ", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WordCount(tt.text), "text %q", tt.text)
	}
}

func TestEnrich(t *testing.T) {
	t.Parallel()

	pairs := []model.AlignedPair{
		{Book: 2, Line: 1, Source: "Lorem ipsum", Target: "Dolor sit"},
		{Book: 2, Line: 3, Source: "", Target: "amet"},
	}

	rows, err := Enrich(2, pairs)
	require.NoError(t, err)

	assert.Equal(t, []model.Row{
		{
			BookNumber: 2, BookLabel: "Book II", ChapterNumber: 1, ChapterID: "II.1",
			SourceText: "Lorem ipsum", TargetText: "Dolor sit",
			SourceWordCount: 2, TargetWordCount: 2,
		},
		{
			BookNumber: 2, BookLabel: "Book II", ChapterNumber: 2, ChapterID: "II.2",
			SourceText: "", TargetText: "amet",
			SourceWordCount: 0, TargetWordCount: 1,
		},
	}, rows)
}

func TestEnrichEmptyBook(t *testing.T) {
	t.Parallel()

	rows, err := Enrich(1, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
