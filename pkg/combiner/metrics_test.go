package combiner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/David-Botos/kempis-corpus/pkg/model"
)

func TestRunMetricsReport(t *testing.T) {
	t.Parallel()

	m := NewRunMetrics(zap.NewNop())
	m.RecordBook(BookResult{Book: 1, Status: BookLoaded, Rows: 10, MalformedRows: 2, CleaningOperations: 4},
		map[string]int{model.OpChapterMarker: 3, model.OpWhitespace: 1})
	m.RecordBook(BookResult{Book: 2, Status: BookMissing}, nil)
	m.RecordBook(BookResult{Book: 3, Status: BookFailed}, nil)
	m.RecordWrite(10)
	m.Complete()

	assert.Equal(t, 1, m.LoadedBooks)
	assert.Equal(t, 1, m.MissingBooks)
	assert.Equal(t, 1, m.FailedBooks)
	assert.Equal(t, 12, m.TotalRowsRead)

	report := m.GenerateReport()
	assert.Contains(t, report, "Books: 1 loaded, 1 missing, 1 failed")
	assert.Contains(t, report, "Rows: 12 read, 10 written, 2 malformed")
	assert.Contains(t, report, "  chapter_marker_strip: 3\n  whitespace_normalization: 1\n")
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m 5s", formatDuration(125*time.Second))
}

func TestBookStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "loaded", BookLoaded.String())
	assert.Equal(t, "missing", BookMissing.String())
	assert.Equal(t, "failed", BookFailed.String())
	assert.Equal(t, "unknown(9)", BookStatus(9).String())
}
