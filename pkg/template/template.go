// Package template produces the sheet used for manual paragraph alignment:
// one row per raw source paragraph next to an empty target cell.
package template

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/David-Botos/kempis-corpus/pkg/output"
)

// ErrRawFileMissing is returned when the raw text file does not exist
var ErrRawFileMissing = errors.New("raw text file not found")

var blankLinePattern = regexp.MustCompile(`\n[ \t]*\n`)

// ReadParagraphs splits raw text into paragraphs separated by blank lines.
// Text is NFC-normalized and each paragraph is trimmed; empty paragraphs
// are dropped.
func ReadParagraphs(r io.Reader) ([]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw text: %w", err)
	}

	text := norm.NFC.String(string(raw))
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimPrefix(text, "\uFEFF")

	var paragraphs []string
	for _, p := range blankLinePattern.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs, nil
}

// Header returns the sheet header for a language pair,
// e.g. "Latin Paragraph", "English Paragraph (Manual)"
func Header(sourceLang, targetLang string) []string {
	title := cases.Title(language.English)
	return []string{
		title.String(sourceLang) + " Paragraph",
		title.String(targetLang) + " Paragraph (Manual)",
	}
}

// WriteSheet writes the header and one row per paragraph with an empty
// target cell as comma-separated values
func WriteSheet(w io.Writer, header []string, paragraphs []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, p := range paragraphs {
		if err := cw.Write([]string{p, ""}); err != nil {
			return fmt.Errorf("failed to write paragraph %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Generator turns a raw text file into an alignment sheet
type Generator struct {
	sourceLang string
	targetLang string
	logger     *zap.Logger
}

// NewGenerator creates a generator for a language pair
func NewGenerator(sourceLang, targetLang string, logger *zap.Logger) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if sourceLang == "" || targetLang == "" {
		return nil, errors.New("languages cannot be empty")
	}
	return &Generator{
		sourceLang: sourceLang,
		targetLang: targetLang,
		logger:     logger,
	}, nil
}

// Generate reads rawPath and writes the sheet to outputPath, returning the
// number of paragraphs written
func (g *Generator) Generate(rawPath, outputPath string) (int, error) {
	f, err := os.Open(rawPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrRawFileMissing, rawPath)
		}
		return 0, fmt.Errorf("failed to open %s: %w", rawPath, err)
	}
	defer f.Close()

	paragraphs, err := ReadParagraphs(f)
	if err != nil {
		return 0, err
	}
	if len(paragraphs) == 0 {
		g.logger.Warn("Raw text contains no paragraphs", zap.String("file", rawPath))
	}

	var buf bytes.Buffer
	if err := WriteSheet(&buf, Header(g.sourceLang, g.targetLang), paragraphs); err != nil {
		return 0, err
	}
	if err := output.WriteText(outputPath, buf.String()); err != nil {
		return 0, fmt.Errorf("failed to write alignment sheet: %w", err)
	}

	g.logger.Info("Wrote alignment sheet",
		zap.String("source", rawPath),
		zap.String("output", outputPath),
		zap.Int("paragraphs", len(paragraphs)))

	return len(paragraphs), nil
}
