package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/alem-hub/assessment-hub/internal/domain/assessment"
	"github.com/alem-hub/assessment-hub/internal/domain/catalog"
	"github.com/alem-hub/assessment-hub/internal/domain/shared"
	"github.com/alem-hub/assessment-hub/internal/domain/student"
)

// WriteCSV writes one header row and one row per student:
//
//	Name, <ID> Note, <ID> Kommentar (per deliverable), Band <X> Durchschnitt,
//	Band <X> Level (per band A–I), Schweizer Note
//
// Names and comments are always quoted. An empty roster is refused with
// ErrNothingToExport and nothing is written.
func WriteCSV(w io.Writer, students []student.Student, c *catalog.Catalog) error {
	if len(students) == 0 {
		return shared.NewDomainError("report", "WriteCSV", shared.ErrNothingToExport, "no students to export")
	}

	deliverables := c.Deliverables()
	var b strings.Builder

	b.WriteString("Name")
	for _, d := range deliverables {
		fmt.Fprintf(&b, ",%s Note,%s Kommentar", d.ID, d.ID)
	}
	for _, band := range catalog.Bands() {
		fmt.Fprintf(&b, ",Band %s Durchschnitt,Band %s Level", band, band)
	}
	b.WriteString(",Schweizer Note\n")

	for _, s := range students {
		eval := assessment.Evaluate(s, c)

		b.WriteString(quote(s.Name))
		for _, d := range deliverables {
			b.WriteByte(',')
			if g, ok := s.Grades[d.ID]; ok {
				b.WriteString(formatNumber(g))
			}
			b.WriteByte(',')
			b.WriteString(quote(s.Comments[d.ID]))
		}
		for _, band := range catalog.Bands() {
			avg := eval.Band(band)
			b.WriteByte(',')
			if avg.Graded {
				b.WriteString(strconv.FormatFloat(avg.Average, 'f', 2, 64))
			}
			b.WriteByte(',')
			b.WriteString(string(avg.Level))
		}
		b.WriteByte(',')
		if eval.HasOverall {
			b.WriteString(formatNumber(eval.Overall))
		}
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return shared.WrapError("report", "WriteCSV", shared.ErrExportIO, "could not write CSV file",
			errors.Wrap(err, "write csv"))
	}
	return nil
}

// quote wraps a field in double quotes, doubling embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// formatNumber prints the shortest form, so 5 stays "5" and 4.5 stays "4.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
