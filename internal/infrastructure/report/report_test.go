package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/assessment-hub/internal/domain/catalog"
	"github.com/alem-hub/assessment-hub/internal/domain/shared"
	"github.com/alem-hub/assessment-hub/internal/domain/student"
)

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("device not ready") }

func TestWriteCSV_EmptyRoster(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, nil, catalog.Default())

	assert.ErrorIs(t, err, shared.ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestWriteCSV_OneStudentOneGrade(t *testing.T) {
	c := catalog.Default()
	s := student.New("1", "Anna")
	s.Grades["DSC1"] = 5

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []student.Student{s}, c))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	header := strings.Split(lines[0], ",")
	row := strings.Split(lines[1], ",")
	wantCols := 1 + 2*c.Len() + 2*len(catalog.Bands()) + 1
	assert.Len(t, header, wantCols)
	assert.Len(t, row, wantCols)

	assert.Equal(t, "Name", header[0])
	assert.Equal(t, "DSC1 Note", header[1])
	assert.Equal(t, "DSC1 Kommentar", header[2])
	assert.Equal(t, "Band A Durchschnitt", header[1+2*c.Len()])
	assert.Equal(t, "Band I Level", header[wantCols-2])
	assert.Equal(t, "Schweizer Note", header[wantCols-1])

	assert.Equal(t, `"Anna"`, row[0])
	assert.Equal(t, "5", row[1])
	assert.Equal(t, `""`, row[2])
	assert.Equal(t, "", row[3])
	assert.Equal(t, `""`, row[4])

	// DSC1 is the only deliverable of band C.
	bandC := 1 + 2*c.Len() + 2*2
	assert.Equal(t, "Band C Durchschnitt", header[bandC])
	assert.Equal(t, "5.00", row[bandC])
	assert.Equal(t, "advanced", row[bandC+1])
	assert.Equal(t, "", row[1+2*c.Len()])
	assert.Equal(t, "5", row[wantCols-1])
}

func TestWriteCSV_QuotesFreeText(t *testing.T) {
	s := student.New("1", `Anna "Nanni" Muster`)
	s.Comments["DSC1"] = `sagt "gut", aber`

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []student.Student{s}, catalog.Default()))

	row := strings.SplitN(buf.String(), "\n", 2)[1]
	assert.True(t, strings.HasPrefix(row, `"Anna ""Nanni"" Muster",,"sagt ""gut"", aber",`))
	// No overall grade for an ungraded student.
	assert.True(t, strings.HasSuffix(row, ",\n"))
}

func TestWriteCSV_RowsFollowRosterOrder(t *testing.T) {
	a := student.New("1", "Zoe")
	b := student.New("2", "Adam")
	b.Grades["DEV1"] = 4.5
	b.Grades["DEV2"] = 3

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []student.Student{a, b}, catalog.Default()))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], `"Zoe"`))
	assert.True(t, strings.HasPrefix(lines[2], `"Adam"`))
	assert.Contains(t, lines[2], ",3.75,intermediate,")
	assert.True(t, strings.HasSuffix(lines[2], ",3.8"))
}

func TestWriteCSV_WriteFailure(t *testing.T) {
	err := WriteCSV(brokenWriter{}, []student.Student{student.New("1", "A")}, catalog.Default())
	assert.ErrorIs(t, err, shared.ErrExportIO)
	assert.Contains(t, shared.UserMessage(err), "device not ready")
}

func TestWritePDF_Renders(t *testing.T) {
	c := catalog.Default()
	s := student.New("1", "Jürg Müller")
	for i, d := range c.Deliverables() {
		s.Grades[d.ID] = 1 + float64(i%11)*0.5
		s.Comments[d.ID] = strings.Repeat("Sehr ausführlicher Kommentar mit Umlauten äöü und € Zeichen. ", 6)
	}

	var buf bytes.Buffer
	now := time.Date(2024, 5, 2, 9, 15, 0, 0, time.UTC)
	require.NoError(t, WritePDF(&buf, s, c, now))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.Contains(out, []byte("%%EOF")))
	// Every deliverable plus the band summary cannot fit on one page.
	pages := bytes.Count(out, []byte("/Type /Page")) - bytes.Count(out, []byte("/Type /Pages"))
	assert.Greater(t, pages, 1)
}

func TestWritePDF_UngradedStudent(t *testing.T) {
	var buf bytes.Buffer
	err := WritePDF(&buf, student.New("1", "Ben"), catalog.Default(), time.Now())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDF_WriteFailure(t *testing.T) {
	err := WritePDF(brokenWriter{}, student.New("1", "Ben"), catalog.Default(), time.Now())
	assert.ErrorIs(t, err, shared.ErrExportIO)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Anna Muster", "anna-muster"},
		{"  Anna   Muster  ", "anna-muster"},
		{"Jürg Müller-Öztürk", "jurg-muller-ozturk"},
		{"Anna & Ben", "anna-ben"},
		{"--Max--Mustermann--", "max-mustermann"},
		{"O'Brien, Seán", "obrien-sean"},
		{"Student 12", "student-12"},
		{"!!!", "student"},
		{"", "student"},
		{"ÆØ", "student"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestFileNames(t *testing.T) {
	ts := time.Date(2024, 5, 2, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, "assessment-export-2024-05-02.csv", CSVFileName(ts))
	assert.Equal(t,
		[]string{"assessment-anna-muster-2024-05-02.pdf"},
		PDFFileNames([]student.Student{student.New("1", "Anna Muster")}, ts),
	)
}

func TestPDFFileNames_Collisions(t *testing.T) {
	ts := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	students := []student.Student{
		student.New("0f3c9a7e-1111-4000-8000-000000000001", "Anna"),
		student.New("9b21d4c0-2222-4000-8000-000000000002", "anna"),
		student.New("3", "!!!"),
		student.New("4", "???"),
		student.New("x", "Ben"),
		student.New("x", "ben"),
	}

	got := PDFFileNames(students, ts)
	assert.Equal(t, []string{
		"assessment-anna-00000001-2024-05-02.pdf",
		"assessment-anna-00000002-2024-05-02.pdf",
		"assessment-student-3-2024-05-02.pdf",
		"assessment-student-4-2024-05-02.pdf",
		"assessment-ben-x-2024-05-02.pdf",
		"assessment-ben-x-2-2024-05-02.pdf",
	}, got)
}

func TestToWinAnsi(t *testing.T) {
	assert.Equal(t, "Zo\xeb ? ? \x80", toWinAnsi("Zoë 🎓 ✓ €"))
	assert.NotContains(t, toWinAnsi("日本 Ω"), "\x1a")
	assert.Equal(t, "?? ?", toWinAnsi("日本 Ω"))
}

func TestWritePDF_UnmappableName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, student.New("1", "Zoë 🎓"), catalog.Default(), time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGermanDate(t *testing.T) {
	assert.Equal(t, "2. März 2024, 08:05", germanDate(time.Date(2024, 3, 2, 8, 5, 0, 0, time.UTC)))
}
