// Package enricher adds the derived, non-source columns to cleaned book rows.
package enricher

import (
	"strconv"
	"strings"

	"github.com/David-Botos/kempis-corpus/pkg/model"
)

var romanNumerals = map[int]string{
	1: "I",
	2: "II",
	3: "III",
	4: "IV",
}

var bookLabels = map[int]string{
	1: "Book I",
	2: "Book II",
	3: "Book III",
	4: "Book IV",
}

// Roman returns the roman numeral designating a book
func Roman(book int) (string, error) {
	roman, ok := romanNumerals[book]
	if !ok {
		return "", &model.UnsupportedBookNumberError{Book: book}
	}
	return roman, nil
}

// Label returns the display label of a book, e.g. "Book II"
func Label(book int) (string, error) {
	label, ok := bookLabels[book]
	if !ok {
		return "", &model.UnsupportedBookNumberError{Book: book}
	}
	return label, nil
}

// ChapterID joins the book numeral and the chapter number, e.g. "III.7"
func ChapterID(book, chapter int) (string, error) {
	roman, err := Roman(book)
	if err != nil {
		return "", err
	}
	return roman + "." + strconv.Itoa(chapter), nil
}

// WordCount returns the number of whitespace-delimited tokens in text.
// It must be called on cleaned text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Enrich turns the cleaned pairs of one book into rows. Chapter numbers are
// positional, starting at 1 in pair order. IDs are left at zero for the
// combiner to assign.
func Enrich(book int, pairs []model.AlignedPair) ([]model.Row, error) {
	label, err := Label(book)
	if err != nil {
		return nil, err
	}
	roman, err := Roman(book)
	if err != nil {
		return nil, err
	}

	rows := make([]model.Row, 0, len(pairs))
	for i, pair := range pairs {
		chapter := i + 1
		rows = append(rows, model.Row{
			BookNumber:      book,
			BookLabel:       label,
			ChapterNumber:   chapter,
			ChapterID:       roman + "." + strconv.Itoa(chapter),
			SourceText:      pair.Source,
			TargetText:      pair.Target,
			SourceWordCount: WordCount(pair.Source),
			TargetWordCount: WordCount(pair.Target),
		})
	}

	return rows, nil
}
