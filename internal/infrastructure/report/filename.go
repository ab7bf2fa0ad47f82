// Package report renders the roster into the two export formats: a CSV table
// of all students and a paginated PDF report for a single student.
package report

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/alem-hub/assessment-hub/internal/domain/student"
)

const dateLayout = "2006-01-02"

// CSVFileName returns assessment-export-YYYY-MM-DD.csv.
func CSVFileName(t time.Time) string {
	return "assessment-export-" + t.UTC().Format(dateLayout) + ".csv"
}

// PDFFileNames returns assessment-<slug>-YYYY-MM-DD.pdf for each student, in
// order. Students whose
// slugs collide get the last eight characters of their id appended, and a
// counter after that if the names still clash.
func PDFFileNames(students []student.Student, t time.Time) []string {
	date := t.UTC().Format(dateLayout)
	names := make([]string, len(students))
	taken := make(map[string]bool, len(students))
	slugs := make(map[string]int, len(students))
	for _, s := range students {
		slugs[Slugify(s.Name)]++
	}

	for i, s := range students {
		slug := Slugify(s.Name)
		base := "assessment-" + slug
		if slugs[slug] > 1 {
			if short := Slugify(shortID(s.ID)); short != fallbackSlug {
				base += "-" + short
			}
		}
		name := base + "-" + date + ".pdf"
		for n := 2; taken[name]; n++ {
			name = base + "-" + strconv.Itoa(n) + "-" + date + ".pdf"
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

func shortID(id student.ID) string {
	s := string(id)
	if len(s) > 8 {
		s = s[len(s)-8:]
	}
	return s
}

// fallbackSlug names students whose name has no usable characters.
const fallbackSlug = "student"

// Slugify lowercases name, folds accented letters to their base letter,
// turns whitespace runs into one hyphen, drops everything outside [a-z0-9-],
// collapses repeated hyphens and trims hyphens at both ends. A name that
// leaves nothing behind becomes "student".
func Slugify(name string) string {
	lower := cases.Lower(language.German).String(name)

	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		lower,
	)
	if err != nil {
		folded = lower
	}

	var b strings.Builder
	lastHyphen := false
	pendingSpace := false
	for _, r := range folded {
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace {
			pendingSpace = false
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return fallbackSlug
	}
	return slug
}
