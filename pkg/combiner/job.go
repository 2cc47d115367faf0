package combiner

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookStatus is the outcome of processing one book
type BookStatus int

const (
	// BookPending means the book has not been processed yet
	BookPending BookStatus = iota
	// BookLoaded means the book contributed rows to the output
	BookLoaded
	// BookMissing means the book's aligned file does not exist
	BookMissing
	// BookFailed means the book's file could not be read or parsed
	BookFailed
)

// String returns a string representation of the status
func (s BookStatus) String() string {
	switch s {
	case BookPending:
		return "pending"
	case BookLoaded:
		return "loaded"
	case BookMissing:
		return "missing"
	case BookFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// BookJob represents the processing of one book
type BookJob struct {
	ID        string    // Unique job identifier
	Book      int       // Book number, 1-based
	Path      string    // Aligned file path
	CreatedAt time.Time // Job creation timestamp
}

// NewBookJob creates a new book job
func NewBookJob(book int, path string) BookJob {
	return BookJob{
		ID:        uuid.New().String(),
		Book:      book,
		Path:      path,
		CreatedAt: time.Now(),
	}
}

// BookResult represents the result of processing one book
type BookResult struct {
	JobID              string
	Book               int
	Path               string
	Status             BookStatus
	Rows               int
	MalformedRows      int
	CleaningOperations int
	Err                error
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}

// NewBookResult initializes a result for a job
func NewBookResult(job BookJob) *BookResult {
	return &BookResult{
		JobID:     job.ID,
		Book:      job.Book,
		Path:      job.Path,
		Status:    BookPending,
		StartTime: time.Now(),
	}
}

// Complete marks the book as processed and calculates duration
func (r *BookResult) Complete(status BookStatus, err error) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Status = status
	r.Err = err
}

// RunResult summarizes a combiner run
type RunResult struct {
	RunID        string
	OutputPath   string
	ScriptPath   string // empty when no load script was written
	Books        []BookResult
	TotalRows    int
	Verification *VerificationReport // nil when verification is disabled
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}

// newRunResult initializes a run result
func newRunResult(runID, outputPath string) *RunResult {
	return &RunResult{
		RunID:      runID,
		OutputPath: outputPath,
		StartTime:  time.Now(),
	}
}

// Complete marks the run as complete and calculates duration
func (r *RunResult) Complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// LoadedBooks returns the numbers of books that contributed rows
func (r *RunResult) LoadedBooks() []int {
	return r.booksWithStatus(BookLoaded)
}

// SkippedBooks returns the numbers of books left out of the output
func (r *RunResult) SkippedBooks() []int {
	var books []int
	for _, b := range r.Books {
		if b.Status == BookMissing || b.Status == BookFailed {
			books = append(books, b.Book)
		}
	}
	return books
}

func (r *RunResult) booksWithStatus(status BookStatus) []int {
	var books []int
	for _, b := range r.Books {
		if b.Status == status {
			books = append(books, b.Book)
		}
	}
	return books
}

// Book returns the result for a book number
func (r *RunResult) Book(book int) (BookResult, bool) {
	for _, b := range r.Books {
		if b.Book == book {
			return b, true
		}
	}
	return BookResult{}, false
}
