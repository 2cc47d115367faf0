package model

// Cleaning operation names
const (
	OpWhitespace    = "whitespace_normalization"
	OpChapterMarker = "chapter_marker_strip"
	OpEnumeration   = "enumeration_strip"
	OpLeadingPeriod = "leading_period_strip"
)

// CleaningOperation represents a single change the cleaner made to a text cell
type CleaningOperation struct {
	Book              int    // Book number
	Line              int    // Line in the aligned file
	ColumnName        string // Column that was cleaned
	OriginalValue     string // Value before this operation
	NewValue          string // Value after this operation
	CleaningOperation string // Type of cleaning performed (e.g., "chapter_marker_strip")
	CleaningReason    string // Reason for cleaning (e.g., "leading_chapter_marker")
}

// CleaningContext identifies the cell being cleaned
type CleaningContext struct {
	Book       int
	Line       int
	ColumnName string
}

// CountByOperation tallies operations by name
func CountByOperation(ops []CleaningOperation) map[string]int {
	counts := make(map[string]int)
	for _, op := range ops {
		counts[op.CleaningOperation]++
	}
	return counts
}
