package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinels for errors.Is; every typed error below unwraps to one of them.
var (
	ErrMissingInput    = errors.New("missing input")
	ErrMalformedRow    = errors.New("malformed row")
	ErrUnsupportedBook = errors.New("unsupported book number")
	ErrNoBooksLoaded   = errors.New("no books loaded")
)

// MissingInputError reports that the aligned file for a book does not exist
type MissingInputError struct {
	Book int
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("book %d: input file not found: %s", e.Book, e.Path)
}

func (e *MissingInputError) Unwrap() error { return ErrMissingInput }

// MalformedRowError reports a data line without exactly two tab-separated fields
type MalformedRowError struct {
	Book   int
	Path   string
	Line   int
	Fields int
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("book %d: %s:%d: malformed row: %s", e.Book, e.Path, e.Line, e.Reason)
}

func (e *MalformedRowError) Unwrap() error { return ErrMalformedRow }

// UnsupportedBookNumberError reports a book number with no label or numeral
type UnsupportedBookNumberError struct {
	Book int
}

func (e *UnsupportedBookNumberError) Error() string {
	return fmt.Sprintf("unsupported book number %d (expected 1-%d)", e.Book, BookCount)
}

func (e *UnsupportedBookNumberError) Unwrap() error { return ErrUnsupportedBook }

// NoBooksLoadedError is returned when every book was missing or failed
type NoBooksLoadedError struct {
	Failures map[int]error // book number -> reason
}

func (e *NoBooksLoadedError) Error() string {
	if len(e.Failures) == 0 {
		return "no books loaded"
	}

	parts := make([]string, 0, len(e.Failures))
	for _, book := range e.books() {
		parts = append(parts, e.Failures[book].Error())
	}
	return "no books loaded: " + strings.Join(parts, "; ")
}

// Unwrap exposes ErrNoBooksLoaded followed by each book's failure in book order
func (e *NoBooksLoadedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrNoBooksLoaded)
	for _, book := range e.books() {
		errs = append(errs, e.Failures[book])
	}
	return errs
}

func (e *NoBooksLoadedError) books() []int {
	books := make([]int, 0, len(e.Failures))
	for book := range e.Failures {
		books = append(books, book)
	}
	sort.Ints(books)
	return books
}
