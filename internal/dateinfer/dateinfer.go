// Package dateinfer guesses the effective date of a document. The guess is
// best effort: a filename token wins, then the first date-like triple in the
// text, then the caller's fallback timestamp.
package dateinfer

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Inferencer picks an effective date for a document. Implementations must
// never fail; when nothing can be inferred they return fallback.
type Inferencer interface {
	InferDate(filename, content string, fallback time.Time) time.Time
}

// Heuristic implements Inferencer with filename layouts and a regex scan of
// the document text.
type Heuristic struct{}

// InferDate returns the filename date, else the first content date, else fallback.
func (Heuristic) InferDate(filename, content string, fallback time.Time) time.Time {
	if t, ok := FromFilename(filename); ok {
		return t
	}
	if t, ok := FromContent(content); ok {
		return t
	}
	return fallback
}

// filenameLayouts are tried in order; the first successful parse wins.
// Single-digit layout fields accept both "5" and "05".
var filenameLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2-1-2006",
	"1-2-2006",
	"2/1/2006",
	"1/2/2006",
}

// FromFilename extracts a date from a filename such as
// "2024-01-10_CV_Acme.pdf". Tokens are separated by underscores or spaces.
func FromFilename(filename string) (time.Time, bool) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	tokens := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || unicode.IsSpace(r)
	})
	for _, tok := range tokens {
		for _, layout := range filenameLayouts {
			if t, err := time.Parse(layout, tok); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

var (
	yearFirst = regexp.MustCompile(`\b(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`)
	yearLast  = regexp.MustCompile(`\b(\d{1,2})[-/](\d{1,2})[-/](\d{4})\b`)
)

type match struct {
	start     int
	yearFirst bool
	fields    [3]int
}

// FromContent returns the first valid calendar date found in text.
// Year-first triples are read as Y-M-D; year-last triples as D-M-Y, then M-D-Y.
// Triples that are not a valid date in any reading are skipped.
func FromContent(text string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}

	var matches []match
	for _, loc := range yearFirst.FindAllStringSubmatchIndex(text, -1) {
		matches = append(matches, toMatch(text, loc, true))
	}
	for _, loc := range yearLast.FindAllStringSubmatchIndex(text, -1) {
		matches = append(matches, toMatch(text, loc, false))
	}
	sortByStart(matches)

	for _, m := range matches {
		if m.yearFirst {
			if t, ok := calendarDate(m.fields[0], m.fields[1], m.fields[2]); ok {
				return t, true
			}
			continue
		}
		if t, ok := calendarDate(m.fields[2], m.fields[1], m.fields[0]); ok {
			return t, true
		}
		if t, ok := calendarDate(m.fields[2], m.fields[0], m.fields[1]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func toMatch(text string, loc []int, yf bool) match {
	m := match{start: loc[0], yearFirst: yf}
	for i := 0; i < 3; i++ {
		m.fields[i], _ = strconv.Atoi(text[loc[2+2*i]:loc[3+2*i]])
	}
	return m
}

// sortByStart orders matches by position; the lists are short so an
// insertion sort keeps it simple and stable.
func sortByStart(ms []match) {
	for i := 1; i < len(ms); i++ {
		for j := i; j > 0 && ms[j].start < ms[j-1].start; j-- {
			ms[j], ms[j-1] = ms[j-1], ms[j]
		}
	}
}

func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}
