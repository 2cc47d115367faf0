package model

// BookCount is the number of top-level books in the work
const BookCount = 4

// AlignedPair is one line of a per-book aligned file
type AlignedPair struct {
	Book   int    // Book number the line was read from
	Line   int    // 1-based line number in the source file
	Source string // Source-language text (Latin)
	Target string // Target-language text (English)
}

// Row is one enriched paragraph pair of the combined output table
type Row struct {
	ID              int
	BookNumber      int
	BookLabel       string
	ChapterNumber   int
	ChapterID       string
	SourceText      string
	TargetText      string
	SourceWordCount int
	TargetWordCount int
}

// AlignedFile is an aligned input file found on disk
type AlignedFile struct {
	Book int
	Path string
}

// ValidBook reports whether n names one of the four books
func ValidBook(n int) bool {
	return n >= 1 && n <= BookCount
}

// Books returns the book numbers in processing order
func Books() []int {
	books := make([]int, 0, BookCount)
	for n := 1; n <= BookCount; n++ {
		books = append(books, n)
	}
	return books
}
