package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/David-Botos/kempis-corpus/pkg/model"
)

// Discover lists aligned files in the input directory whose names match the
// pattern, sorted numerically by book number. Files for books outside 1-4
// are included so callers can report them.
func (l *Loader) Discover() ([]model.AlignedFile, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", l.dir, err)
	}

	matcher := patternRegexp(l.pattern)

	var files []model.AlignedFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := matcher.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		book, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		files = append(files, model.AlignedFile{
			Book: book,
			Path: filepath.Join(l.dir, entry.Name()),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Book < files[j].Book
	})

	l.logger.Debug("Discovered aligned files",
		zap.String("dir", l.dir),
		zap.Int("count", len(files)))

	return files, nil
}

// patternRegexp turns "book%d_aligned.tsv" into ^book(\d+)_aligned\.tsv$
func patternRegexp(pattern string) *regexp.Regexp {
	prefix, suffix, _ := strings.Cut(pattern, "%d")
	return regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `(\d+)` + regexp.QuoteMeta(suffix) + "$")
}
