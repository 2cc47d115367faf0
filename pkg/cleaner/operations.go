package cleaner

import (
	"regexp"
	"strings"

	"github.com/David-Botos/kempis-corpus/pkg/model"
)

// romanNumeral matches a well-formed numeral up to 3999. It can match the
// empty string. After a marker it only counts when a period or the end of
// the cell follows, so "Chapter I will" and "Cap. Mi fili" keep their words.
const romanNumeral = `m{0,3}(?:cm|cd|d?c{0,3})(?:xc|xl|l?x{0,3})(?:ix|iv|v?i{0,3})`

// Prefix patterns. Each is applied at most once per cell.
var (
	chapterMarkerPattern = regexp.MustCompile(`(?i)^(?:cap\.|chapter\b)\s*(?:\d+\b|(?:` + romanNumeral + `)(?:\.|$))?\.*\s*`)
	enumerationPattern   = regexp.MustCompile(`^\d+\.\s*`)
	leadingPeriodPattern = regexp.MustCompile(`^\.\s*`)
)

// cleaningStep is one rule of the cleaning algorithm
type cleaningStep struct {
	operation string
	reason    string
	apply     func(string) (string, bool)
}

// cleaningSteps in the order they run
var cleaningSteps = []cleaningStep{
	{model.OpWhitespace, "surrounding_or_repeated_whitespace", normalizeWhitespace},
	{model.OpChapterMarker, "leading_chapter_marker", stripPrefix(chapterMarkerPattern)},
	{model.OpEnumeration, "leading_enumeration", stripPrefix(enumerationPattern)},
	{model.OpLeadingPeriod, "leading_period", stripPrefix(leadingPeriodPattern)},
}

// Clean normalizes one text cell:
//
//  1. trim and collapse every whitespace run to a single space
//  2. drop a leading "Cap."/"Chapter" marker with optional numeral and periods
//  3. drop a leading "<digits>." enumeration
//  4. drop a single leading "."
//  5. trim
//
// Each prefix rule runs once, so "1. 2. text" becomes "2. text". The empty
// string is a valid result.
func Clean(text string) string {
	cleaned, _ := cleanTracked(text)
	return cleaned
}

// cleanTracked runs every step and reports the ones that changed the text
func cleanTracked(text string) (string, []appliedStep) {
	var applied []appliedStep
	current := text

	for _, step := range cleaningSteps {
		next, changed := step.apply(current)
		if changed {
			applied = append(applied, appliedStep{step: step, before: current, after: next})
		}
		current = next
	}

	return strings.TrimSpace(current), applied
}

type appliedStep struct {
	step   cleaningStep
	before string
	after  string
}

// normalizeWhitespace trims and collapses Unicode whitespace runs
func normalizeWhitespace(s string) (string, bool) {
	out := strings.Join(strings.Fields(s), " ")
	return out, out != s
}

func stripPrefix(pattern *regexp.Regexp) func(string) (string, bool) {
	return func(s string) (string, bool) {
		loc := pattern.FindStringIndex(s)
		if loc == nil || loc[1] == 0 {
			return s, false
		}
		return s[loc[1]:], true
	}
}
