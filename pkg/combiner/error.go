package combiner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/kempis-corpus/pkg/model"
)

// Action defines the recommended action after an error
type Action int

const (
	// ActionContinue indicates processing should continue despite the error
	ActionContinue Action = iota
	// ActionSkipRow indicates the current row should be skipped
	ActionSkipRow
	// ActionSkipBook indicates the current book should be left out of the output
	ActionSkipBook
	// ActionAbort indicates the entire run should be aborted
	ActionAbort
)

// String returns a string representation of the action
func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "Continue"
	case ActionSkipRow:
		return "SkipRow"
	case ActionSkipBook:
		return "SkipBook"
	case ActionAbort:
		return "Abort"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// ErrorCategory defines categories of errors during a run
type ErrorCategory int

const (
	// Error categories with increasing severity
	ErrorCategoryNone ErrorCategory = iota
	ErrorCategoryWarning
	ErrorCategoryRowLevel
	ErrorCategoryMissingInput
	ErrorCategoryBookLevel
	ErrorCategoryCritical
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "None"
	case ErrorCategoryWarning:
		return "Warning"
	case ErrorCategoryRowLevel:
		return "RowLevel"
	case ErrorCategoryMissingInput:
		return "MissingInput"
	case ErrorCategoryBookLevel:
		return "BookLevel"
	case ErrorCategoryCritical:
		return "Critical"
	default:
		return fmt.Sprintf("Unknown(%d)", ec)
	}
}

// ErrorRecord represents a single error during a run
type ErrorRecord struct {
	Category  ErrorCategory
	Book      int
	Line      int
	Error     error
	Message   string // Derived from Error but stored for reporting
	Timestamp time.Time
}

// NewErrorRecord creates a new error record with current timestamp
func NewErrorRecord(err error, category ErrorCategory) ErrorRecord {
	record := ErrorRecord{
		Category:  category,
		Error:     err,
		Timestamp: time.Now(),
	}

	if err != nil {
		record.Message = err.Error()
	}

	return record
}

// WithBook adds book information to the error record
func (r ErrorRecord) WithBook(book int) ErrorRecord {
	r.Book = book
	return r
}

// WithLine adds the input line number to the error record
func (r ErrorRecord) WithLine(line int) ErrorRecord {
	r.Line = line
	return r
}

// String returns a formatted error message
func (r ErrorRecord) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] ", r.Category)

	if r.Book > 0 {
		fmt.Fprintf(&sb, "Book: %d ", r.Book)
	}
	if r.Line > 0 {
		fmt.Fprintf(&sb, "Line: %d ", r.Line)
	}

	if r.Error != nil {
		fmt.Fprintf(&sb, "Error: %s", r.Error.Error())
	} else if r.Message != "" {
		fmt.Fprintf(&sb, "Error: %s", r.Message)
	}

	return sb.String()
}

// ErrorHandler classifies run errors and keeps per-category counts.
// A run is single-threaded, so the handler is not safe for concurrent use.
type ErrorHandler struct {
	logger       *zap.Logger
	errorCounts  map[ErrorCategory]int
	bookErrors   map[int]int
	sampleErrors map[ErrorCategory][]ErrorRecord
	maxSamples   int
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger,
		errorCounts:  make(map[ErrorCategory]int),
		bookErrors:   make(map[int]int),
		sampleErrors: make(map[ErrorCategory][]ErrorRecord),
		maxSamples:   5, // Store up to 5 sample errors per category
	}
}

// CategorizeError determines the category of an error
func (eh *ErrorHandler) CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ErrorCategoryNone
	}

	var (
		missing *model.MissingInputError
		noBooks *model.NoBooksLoadedError
	)

	// Malformed rows reaching here were returned as a strict-mode load
	// error, so like any other load failure they cost the whole book.
	category := ErrorCategoryBookLevel
	switch {
	case errors.As(err, &noBooks):
		category = ErrorCategoryCritical
	case errors.As(err, &missing):
		category = ErrorCategoryMissingInput
	}

	if eh.logger != nil {
		eh.logger.Debug("Categorized error",
			zap.String("error", err.Error()),
			zap.String("category", category.String()))
	}

	return category
}

// HandleError records an error and determines the action to take
func (eh *ErrorHandler) HandleError(record ErrorRecord) Action {
	eh.RecordError(record)

	switch record.Category {
	case ErrorCategoryNone, ErrorCategoryWarning:
		return ActionContinue

	case ErrorCategoryRowLevel:
		return ActionSkipRow

	case ErrorCategoryMissingInput:
		if eh.logger != nil {
			eh.logger.Warn("Skipping book with missing input",
				zap.Int("book", record.Book),
				zap.String("error", record.Message))
		}
		return ActionSkipBook

	case ErrorCategoryBookLevel:
		if eh.logger != nil {
			eh.logger.Warn("Skipping book after load failure",
				zap.Int("book", record.Book),
				zap.String("error", record.Message))
		}
		return ActionSkipBook

	case ErrorCategoryCritical:
		if eh.logger != nil {
			eh.logger.Error("Critical error during run",
				zap.String("category", record.Category.String()),
				zap.String("error", record.Message))
		}
		return ActionAbort

	default:
		return ActionContinue
	}
}

// RecordMalformed records rows skipped by a lenient load
func (eh *ErrorHandler) RecordMalformed(rows []*model.MalformedRowError) {
	for _, row := range rows {
		eh.HandleError(NewErrorRecord(row, ErrorCategoryRowLevel).
			WithBook(row.Book).
			WithLine(row.Line))
	}
}

// RecordError tracks an error without deciding on an action
func (eh *ErrorHandler) RecordError(record ErrorRecord) {
	eh.errorCounts[record.Category]++
	if record.Book > 0 {
		eh.bookErrors[record.Book]++
	}

	if len(eh.sampleErrors[record.Category]) < eh.maxSamples {
		eh.sampleErrors[record.Category] = append(eh.sampleErrors[record.Category], record)
	}
}

// ErrorCount returns the number of errors recorded for a category
func (eh *ErrorHandler) ErrorCount(category ErrorCategory) int {
	return eh.errorCounts[category]
}

// BookErrorCount returns the number of errors recorded against a book
func (eh *ErrorHandler) BookErrorCount(book int) int {
	return eh.bookErrors[book]
}

// Samples returns the retained sample errors for a category
func (eh *ErrorHandler) Samples(category ErrorCategory) []ErrorRecord {
	samples := eh.sampleErrors[category]
	out := make([]ErrorRecord, len(samples))
	copy(out, samples)
	return out
}

// Summary returns a one-line description of recorded errors
func (eh *ErrorHandler) Summary() string {
	var parts []string
	for category := ErrorCategoryWarning; category <= ErrorCategoryCritical; category++ {
		if n := eh.errorCounts[category]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", category, n))
		}
	}
	if len(parts) == 0 {
		return "no errors"
	}
	return strings.Join(parts, ", ")
}
