// Package loader reads per-book aligned files into ordered paragraph pairs.
//
// An aligned file holds one paragraph pair per line: source-language text,
// a horizontal tab, target-language text. There is no header row. Lines
// that do not split into exactly two fields are malformed; by default they
// are skipped and reported, and in strict mode the first one fails the load.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/David-Botos/kempis-corpus/pkg/model"
)

const (
	byteOrderMark = "\uFEFF"
	maxLineBytes  = 4 * 1024 * 1024
)

// Loader locates and parses aligned files in one input directory
type Loader struct {
	dir     string
	pattern string
	strict  bool
	logger  *zap.Logger
}

// BookLoad is the result of loading one book
type BookLoad struct {
	Book      int
	Path      string
	Pairs     []model.AlignedPair
	Malformed []*model.MalformedRowError // skipped lines, lenient mode only
}

// NewLoader creates a loader for dir. pattern is a file name containing one
// %d verb for the book number, e.g. "book%d_aligned.tsv".
func NewLoader(dir, pattern string, strict bool, logger *zap.Logger) (*Loader, error) {
	if dir == "" {
		return nil, errors.New("input directory cannot be empty")
	}
	if strings.Count(pattern, "%d") != 1 {
		return nil, fmt.Errorf("input pattern %q must contain one %%d verb", pattern)
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Loader{
		dir:     dir,
		pattern: pattern,
		strict:  strict,
		logger:  logger,
	}, nil
}

// Path returns the expected aligned file path for a book
func (l *Loader) Path(book int) string {
	return filepath.Join(l.dir, fmt.Sprintf(l.pattern, book))
}

// LoadBook reads the aligned file for book.
// A missing file yields a *model.MissingInputError; the caller decides
// whether to skip the book.
func (l *Loader) LoadBook(book int) (*BookLoad, error) {
	path := l.Path(book)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &model.MissingInputError{Book: book, Path: path}
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("input path %s is a directory", path)
	}

	pairs, malformed, err := ReadPairs(f, book, path, l.strict)
	if err != nil {
		return nil, err
	}

	for _, m := range malformed {
		l.logger.Warn("Skipping malformed row",
			zap.Int("book", book),
			zap.String("file", path),
			zap.Int("line", m.Line),
			zap.Int("fields", m.Fields),
			zap.String("reason", m.Reason))
	}

	l.logger.Info("Loaded aligned book",
		zap.Int("book", book),
		zap.String("file", path),
		zap.Int("rows", len(pairs)),
		zap.Int("malformed", len(malformed)))

	return &BookLoad{
		Book:      book,
		Path:      path,
		Pairs:     pairs,
		Malformed: malformed,
	}, nil
}

// ReadPairs parses aligned lines from r in file order.
// In strict mode the first malformed line is returned as the error;
// otherwise malformed lines are collected and skipped.
func ReadPairs(r io.Reader, book int, path string, strict bool) ([]model.AlignedPair, []*model.MalformedRowError, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		pairs     []model.AlignedPair
		malformed []*model.MalformedRowError
		lineNo    int
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, byteOrderMark)
		}

		pair, rowErr := parseLine(line, book, path, lineNo)
		if rowErr != nil {
			if strict {
				return nil, nil, rowErr
			}
			malformed = append(malformed, rowErr)
			continue
		}
		pairs = append(pairs, pair)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read %s at line %d: %w", path, lineNo+1, err)
	}

	return pairs, malformed, nil
}

func parseLine(line string, book int, path string, lineNo int) (model.AlignedPair, *model.MalformedRowError) {
	if !utf8.ValidString(line) {
		return model.AlignedPair{}, &model.MalformedRowError{
			Book: book, Path: path, Line: lineNo, Fields: 0,
			Reason: "invalid UTF-8",
		}
	}

	fields := strings.Split(line, "\t")
	if len(fields) != 2 {
		return model.AlignedPair{}, &model.MalformedRowError{
			Book: book, Path: path, Line: lineNo, Fields: len(fields),
			Reason: fmt.Sprintf("expected 2 tab-separated fields, got %d", len(fields)),
		}
	}

	return model.AlignedPair{
		Book:   book,
		Line:   lineNo,
		Source: fields[0],
		Target: fields[1],
	}, nil
}
