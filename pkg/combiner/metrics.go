package combiner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RunMetrics tracks counters for one combiner run
type RunMetrics struct {
	logger           *zap.Logger
	StartTime        time.Time
	EndTime          time.Time
	LoadedBooks      int
	MissingBooks     int
	FailedBooks      int
	TotalRowsRead    int
	TotalRowsWritten int
	MalformedRows    int
	TotalCleaningOps int
	OperationCounts  map[string]int
}

// NewRunMetrics creates a new RunMetrics instance
func NewRunMetrics(logger *zap.Logger) *RunMetrics {
	return &RunMetrics{
		logger:          logger,
		StartTime:       time.Now(),
		OperationCounts: make(map[string]int),
	}
}

// RecordBook records metrics for a processed book
func (m *RunMetrics) RecordBook(result BookResult, operationCounts map[string]int) {
	switch result.Status {
	case BookLoaded:
		m.LoadedBooks++
		m.TotalRowsRead += result.Rows + result.MalformedRows
		m.MalformedRows += result.MalformedRows
		m.TotalCleaningOps += result.CleaningOperations
		for op, n := range operationCounts {
			m.OperationCounts[op] += n
		}
	case BookMissing:
		m.MissingBooks++
	case BookFailed:
		m.FailedBooks++
	}

	if m.logger != nil {
		m.logger.Info("Processed book",
			zap.Int("book", result.Book),
			zap.String("status", result.Status.String()),
			zap.Int("rows", result.Rows),
			zap.Int("malformedRows", result.MalformedRows),
			zap.Int("cleaningOperations", result.CleaningOperations),
			zap.Duration("duration", result.Duration))
	}
}

// RecordWrite records the number of rows written to the output
func (m *RunMetrics) RecordWrite(rows int) {
	m.TotalRowsWritten = rows
}

// Complete marks the run as finished and logs a summary
func (m *RunMetrics) Complete() {
	m.EndTime = time.Now()

	if m.logger != nil {
		m.logger.Info("Run completed",
			zap.Duration("duration", m.Duration()),
			zap.Int("loadedBooks", m.LoadedBooks),
			zap.Int("missingBooks", m.MissingBooks),
			zap.Int("failedBooks", m.FailedBooks),
			zap.Int("rowsRead", m.TotalRowsRead),
			zap.Int("rowsWritten", m.TotalRowsWritten),
			zap.Int("malformedRows", m.MalformedRows),
			zap.Int("cleaningOperations", m.TotalCleaningOps))
	}
}

// Duration returns the duration of the run
func (m *RunMetrics) Duration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// GenerateReport returns a human-readable metrics report
func (m *RunMetrics) GenerateReport() string {
	var sb strings.Builder

	sb.WriteString("=== Corpus Build Report ===\n\n")
	fmt.Fprintf(&sb, "Duration: %s\n", formatDuration(m.Duration()))
	fmt.Fprintf(&sb, "Books: %d loaded, %d missing, %d failed\n",
		m.LoadedBooks, m.MissingBooks, m.FailedBooks)
	fmt.Fprintf(&sb, "Rows: %d read, %d written, %d malformed\n",
		m.TotalRowsRead, m.TotalRowsWritten, m.MalformedRows)
	fmt.Fprintf(&sb, "Cleaning operations: %d\n", m.TotalCleaningOps)

	for _, op := range sortedKeys(m.OperationCounts) {
		fmt.Fprintf(&sb, "  %s: %d\n", op, m.OperationCounts[op])
	}

	return sb.String()
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
