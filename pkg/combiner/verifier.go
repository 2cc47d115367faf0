package combiner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/kempis-corpus/pkg/cleaner"
	"github.com/David-Botos/kempis-corpus/pkg/converter"
	"github.com/David-Botos/kempis-corpus/pkg/enricher"
	"github.com/David-Botos/kempis-corpus/pkg/model"
	"github.com/David-Botos/kempis-corpus/pkg/output"
)

// Integrity issue types
const (
	IssueIDSequence    = "id_sequence"
	IssueBookNumber    = "book_number"
	IssueBookOrder     = "book_order"
	IssueChapterNumber = "chapter_number"
	IssueBookLabel     = "book_label"
	IssueChapterID     = "chapter_id"
	IssueWordCount     = "word_count"
	IssueRowCount      = "row_count"
)

// ErrVerificationFailed is returned when a written table breaks an invariant
var ErrVerificationFailed = errors.New("output verification failed")

// IntegrityIssue represents one broken invariant in a table
type IntegrityIssue struct {
	IssueType   string
	Description string
	ColumnName  string
	RowID       int
}

// VerificationReport contains the results of verifying a table
type VerificationReport struct {
	Path             string
	VerificationTime time.Time
	RowCount         int
	ExpectedRowCount int // negative when not checked
	BookRowCounts    map[int]int
	IntegrityIssues  []IntegrityIssue
	Warnings         []string
	Duration         time.Duration
}

// Passed reports whether no integrity issue was found
func (r *VerificationReport) Passed() bool {
	return len(r.IntegrityIssues) == 0
}

// Err returns nil for a passing report, otherwise an error wrapping
// ErrVerificationFailed that lists the first few issues
func (r *VerificationReport) Err() error {
	if r.Passed() {
		return nil
	}

	const maxListed = 3
	var msgs []string
	for i, issue := range r.IntegrityIssues {
		if i == maxListed {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(r.IntegrityIssues)-maxListed))
			break
		}
		msgs = append(msgs, issue.Description)
	}
	return fmt.Errorf("%w: %s", ErrVerificationFailed, strings.Join(msgs, "; "))
}

func (r *VerificationReport) addIssue(issueType, column string, rowID int, format string, args ...any) {
	r.IntegrityIssues = append(r.IntegrityIssues, IntegrityIssue{
		IssueType:   issueType,
		Description: fmt.Sprintf(format, args...),
		ColumnName:  column,
		RowID:       rowID,
	})
}

// Verifier checks a combined table against the output invariants
type Verifier struct {
	converter *converter.RowConverter
	cleaner   *cleaner.DataCleaner
	logger    *zap.Logger
}

// NewVerifier creates a new verifier
func NewVerifier(conv *converter.RowConverter, dataCleaner *cleaner.DataCleaner, logger *zap.Logger) *Verifier {
	return &Verifier{
		converter: conv,
		cleaner:   dataCleaner,
		logger:    logger,
	}
}

// VerifyFile re-reads a written table and verifies it. expectedRows < 0
// skips the row count comparison.
func (v *Verifier) VerifyFile(path string, expectedRows int) (*VerificationReport, error) {
	rows, err := output.ReadFile(path, v.converter)
	if err != nil {
		return nil, err
	}

	report := v.VerifyRows(rows, expectedRows)
	report.Path = path
	return report, nil
}

// VerifyRows checks ids, book ordering, chapter numbering, derived labels
// and word counts. Text that would change if cleaned again is a warning.
func (v *Verifier) VerifyRows(rows []model.Row, expectedRows int) *VerificationReport {
	start := time.Now()
	report := &VerificationReport{
		VerificationTime: start,
		RowCount:         len(rows),
		ExpectedRowCount: expectedRows,
		BookRowCounts:    make(map[int]int),
	}

	if expectedRows >= 0 && expectedRows != len(rows) {
		report.addIssue(IssueRowCount, "", 0,
			"table has %d rows, expected %d", len(rows), expectedRows)
	}

	lastBook := 0
	for i, row := range rows {
		if row.ID != i+1 {
			report.addIssue(IssueIDSequence, model.ColumnID, row.ID,
				"row %d has id %d, expected %d", i+1, row.ID, i+1)
		}

		if !model.ValidBook(row.BookNumber) {
			report.addIssue(IssueBookNumber, model.ColumnBookNumber, row.ID,
				"row %d has book number %d outside 1..%d", row.ID, row.BookNumber, model.BookCount)
			continue
		}
		if row.BookNumber < lastBook {
			report.addIssue(IssueBookOrder, model.ColumnBookNumber, row.ID,
				"row %d has book %d after book %d", row.ID, row.BookNumber, lastBook)
		}
		lastBook = row.BookNumber

		report.BookRowCounts[row.BookNumber]++
		v.checkDerived(report, row, report.BookRowCounts[row.BookNumber])
	}

	if v.cleaner != nil {
		for _, err := range v.cleaner.ValidateCleaned(rows) {
			report.Warnings = append(report.Warnings, err.Error())
		}
	}

	report.Duration = time.Since(start)

	if v.logger != nil {
		v.logger.Info("Verified output table",
			zap.String("path", report.Path),
			zap.Int("rows", report.RowCount),
			zap.Bool("passed", report.Passed()),
			zap.Int("issues", len(report.IntegrityIssues)),
			zap.Int("warnings", len(report.Warnings)),
			zap.Duration("duration", report.Duration))
	}

	return report
}

// checkDerived verifies the columns the enricher derives for a row that is
// the chapter-th row of its book
func (v *Verifier) checkDerived(report *VerificationReport, row model.Row, chapter int) {
	if row.ChapterNumber != chapter {
		report.addIssue(IssueChapterNumber, model.ColumnChapterNumber, row.ID,
			"row %d has chapter %d, expected %d", row.ID, row.ChapterNumber, chapter)
	}

	// book number was range-checked by the caller
	label, _ := enricher.Label(row.BookNumber)
	if row.BookLabel != label {
		report.addIssue(IssueBookLabel, model.ColumnBookLabel, row.ID,
			"row %d has book label %q, expected %q", row.ID, row.BookLabel, label)
	}

	chapterID, _ := enricher.ChapterID(row.BookNumber, row.ChapterNumber)
	if row.ChapterID != chapterID {
		report.addIssue(IssueChapterID, model.ColumnChapterID, row.ID,
			"row %d has chapter id %q, expected %q", row.ID, row.ChapterID, chapterID)
	}

	if n := enricher.WordCount(row.SourceText); row.SourceWordCount != n {
		report.addIssue(IssueWordCount, v.converter.SourceColumn(), row.ID,
			"row %d has source word count %d, text has %d words", row.ID, row.SourceWordCount, n)
	}
	if n := enricher.WordCount(row.TargetText); row.TargetWordCount != n {
		report.addIssue(IssueWordCount, v.converter.TargetColumn(), row.ID,
			"row %d has target word count %d, text has %d words", row.ID, row.TargetWordCount, n)
	}
}
