package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/alem-hub/assessment-hub/internal/domain/assessment"
	"github.com/alem-hub/assessment-hub/internal/domain/catalog"
	"github.com/alem-hub/assessment-hub/internal/domain/shared"
	"github.com/alem-hub/assessment-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LAYOUT
// ══════════════════════════════════════════════════════════════════════════════

const (
	pageWidth    = 210.0 // A4, mm
	pageHeight   = 297.0
	margin       = 20.0
	contentWidth = pageWidth - 2*margin
	footerSpace  = 12.0

	// Comments are cut to this many wrapped lines.
	maxCommentLines = 2
	// Band names and skill descriptions are cut to this many wrapped lines.
	maxSummaryLines = 2

	reportTitle = "Modul 338 - Bewertung nach Kompetenzbändern"
)

type rgb [3]int

var (
	colorHeader  = rgb{37, 99, 235}
	colorOverall = rgb{147, 51, 234}
	colorBorder  = rgb{200, 200, 200}
	colorMuted   = rgb{100, 100, 100}

	phaseColors = map[catalog.Phase]rgb{
		catalog.PhaseDiscovery:   {37, 99, 235},
		catalog.PhaseDefine:      {22, 163, 74},
		catalog.PhaseDevelopment: {147, 51, 234},
		catalog.PhaseDelivery:    {220, 38, 38},
	}

	bandColors = map[catalog.Band]rgb{
		catalog.BandA: {220, 38, 38},
		catalog.BandB: {234, 88, 12},
		catalog.BandC: {217, 119, 6},
		catalog.BandD: {5, 150, 105},
		catalog.BandE: {13, 148, 136},
		catalog.BandF: {37, 99, 235},
		catalog.BandG: {79, 70, 229},
		catalog.BandH: {147, 51, 234},
		catalog.BandI: {219, 39, 119},
	}

	levelColors = map[catalog.SkillLevel]rgb{
		catalog.SkillLevelBeginner:     {251, 191, 36},
		catalog.SkillLevelIntermediate: {96, 165, 250},
		catalog.SkillLevelAdvanced:     {52, 211, 153},
	}

	// Light fills of the three bar segments, beginner to advanced.
	segmentColors = [3]rgb{{254, 243, 199}, {219, 234, 254}, {209, 250, 229}}
	segmentLabels = [3]string{"Beginner", "Intermediate", "Advanced"}

	germanMonths = [...]string{
		"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember",
	}
)

// ══════════════════════════════════════════════════════════════════════════════
// RENDERER
// ══════════════════════════════════════════════════════════════════════════════

// pdfWriter tracks the vertical cursor and breaks pages before a block that
// would not fit, so no block is ever cut off.
type pdfWriter struct {
	pdf *fpdf.Fpdf
	y   float64
}

// WritePDF renders the report for one student to w. now stamps the header and
// the footer of every page.
func WritePDF(w io.Writer, s student.Student, c *catalog.Catalog, now time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle(reportTitle+" - "+s.Name, true)
	pdf.SetCreator("assessment-hub", true)
	pdf.AliasNbPages("")

	pw := &pdfWriter{
		pdf: pdf,
		y:   margin,
	}

	generated := now.UTC().Format("2006-01-02T15:04:05.000Z")
	pdf.SetFooterFunc(func() {
		pw.font("", 8, rgb{150, 150, 150})
		pdf.Text(margin, pageHeight-10, pw.tr("Generiert: "+generated))
		page := pw.tr(fmt.Sprintf("Seite %d von {nb}", pdf.PageNo()))
		pdf.Text(pageWidth-margin-pdf.GetStringWidth(page), pageHeight-10, page)
	})

	pdf.AddPage()

	eval := assessment.Evaluate(s, c)
	pw.header(s.Name, now)
	if eval.HasOverall {
		pw.overall(eval.Overall)
	}
	pw.y += 5
	pw.deliverables(s, c)
	pw.y += 5
	pw.bandSummary(eval, c)

	if err := pdf.Output(w); err != nil {
		return shared.WrapError("report", "WritePDF", shared.ErrExportIO, "could not write PDF file",
			errors.Wrap(err, "render pdf"))
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Sections
// ──────────────────────────────────────────────────────────────────────────────

func (w *pdfWriter) header(name string, now time.Time) {
	w.fill(colorHeader)
	w.pdf.Rect(margin, w.y, contentWidth, 25, "F")

	w.font("B", 16, rgb{255, 255, 255})
	w.center(w.y+8, reportTitle)
	w.font("B", 14, rgb{255, 255, 255})
	w.center(w.y+16, name)
	w.font("", 10, rgb{255, 255, 255})
	w.center(w.y+22, "Exportiert am: "+germanDate(now))

	w.y += 30
}

func (w *pdfWriter) overall(grade float64) {
	w.ensure(30)

	w.fill(colorOverall)
	w.pdf.RoundedRect(margin, w.y, contentWidth, 25, 2, "1234", "F")

	w.font("B", 12, rgb{255, 255, 255})
	w.center(w.y+6, "Schweizer Note")
	w.font("B", 24, rgb{255, 255, 255})
	w.center(w.y+15, strconv.FormatFloat(grade, 'f', -1, 64))
	w.font("", 9, rgb{255, 255, 255})
	w.center(w.y+21, "Skala: 1 (schlecht) - 6 (sehr gut)")

	w.y += 30
}

func (w *pdfWriter) deliverables(s student.Student, c *catalog.Catalog) {
	textWidth := contentWidth - 6

	for _, phase := range catalog.Phases() {
		w.sectionHeader(string(phase)+" Phase", phaseColors[phase])

		for _, d := range c.ByPhase(phase) {
			w.font("I", 8, colorMuted)
			desc := w.split(d.Description, textWidth, 0)

			var comment []string
			if text := strings.TrimSpace(s.Comment(d.ID)); text != "" {
				w.font("", 8, colorMuted)
				comment = w.split("Kommentar: "+text, textWidth, maxCommentLines)
			}

			height := 14.5 + float64(len(desc))*3.5
			if len(comment) > 0 {
				height += 1 + float64(len(comment))*3
			}
			w.ensure(height + 3)

			top := w.y
			w.draw(colorBorder, 0.3)
			w.pdf.Rect(margin, top, contentWidth, height, "D")

			y := top + 5
			w.font("B", 10, rgb{0, 0, 0})
			w.text(margin+3, y, d.ID+": "+d.Title)
			w.badge(string(phase), margin+contentWidth-75, y-3, 30, phaseColors[phase])
			w.badge("Band "+string(d.Band), margin+contentWidth-40, y-3, 35, bandColors[d.Band])

			w.font("I", 8, colorMuted)
			for _, l := range desc {
				y += 3.5
				w.line(margin+3, y+1.5, l)
			}
			y += 5 + 1.5

			w.font("B", 9, rgb{0, 0, 0})
			grade := "-"
			if g, ok := s.Grade(d.ID); ok {
				grade = strconv.FormatFloat(g, 'f', 1, 64)
			}
			w.text(margin+3, y, "Note: "+grade)

			if len(comment) > 0 {
				y += 1
				w.font("", 8, rgb{60, 60, 60})
				for _, l := range comment {
					y += 3
					w.line(margin+3, y+1, l)
				}
			}

			w.y = top + height + 3
		}
		w.y += 3
	}
}

func (w *pdfWriter) bandSummary(eval assessment.Evaluation, c *catalog.Catalog) {
	w.sectionHeader("Kompetenzband-Zusammenfassung", colorHeader)
	textWidth := contentWidth - 6

	for _, band := range catalog.Bands() {
		avg := eval.Band(band)

		w.font("", 8, colorMuted)
		name := w.split(c.BandName(band), textWidth, maxSummaryLines)

		var desc []string
		if avg.Graded {
			if entry, ok := c.SkillMatrix(band); ok {
				w.font("I", 7, colorMuted)
				desc = w.split(entry.Describe(avg.Level), textWidth, maxSummaryLines)
			}
		}

		height := 5 + float64(len(name))*4 + 3
		if avg.Graded {
			height += 15
		}
		height += float64(len(desc)) * 3
		w.ensure(height + 3)

		top := w.y
		w.draw(colorBorder, 0.3)
		w.pdf.Rect(margin, top, contentWidth, height, "D")

		y := top + 5
		w.font("B", 10, rgb{0, 0, 0})
		w.text(margin+3, y, "Band "+string(band))

		label := "-"
		if avg.Graded {
			label = strconv.FormatFloat(avg.Average, 'f', 2, 64)
		}
		w.badge(label, margin+contentWidth-50, y-3, 20, bandColors[band])
		if avg.Graded {
			w.badge(avg.Level.Abbrev(), margin+contentWidth-25, y-3, 20, levelColors[avg.Level])
		}

		w.font("", 8, rgb{80, 80, 80})
		for _, l := range name {
			y += 4
			w.line(margin+3, y, l)
		}

		if avg.Graded {
			y += 6
			w.scale(margin+3, y, textWidth, 5, assessment.MarkerPosition(avg.Average), label)
			y += 5 + 4
		}

		w.font("I", 7, colorMuted)
		for _, l := range desc {
			y += 3
			w.line(margin+3, y, l)
		}

		w.y = top + height + 3
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Primitives
// ──────────────────────────────────────────────────────────────────────────────

func (w *pdfWriter) sectionHeader(title string, color rgb) {
	w.ensure(12)
	w.fill(color)
	w.pdf.Rect(margin, w.y, contentWidth, 8, "F")
	w.font("B", 11, rgb{255, 255, 255})
	w.text(margin+3, w.y+5.5, title)
	w.y += 12
}

// scale draws the three-segment bar with a marker at percent (0–100).
func (w *pdfWriter) scale(x, y, width, height, percent float64, label string) {
	segment := width / 3
	for i, color := range segmentColors {
		w.fill(color)
		w.pdf.Rect(x+float64(i)*segment, y, segment, height, "F")
	}
	w.draw(colorBorder, 0.2)
	w.pdf.Rect(x, y, width, height, "D")

	markerX := x + width*percent/100
	w.draw(rgb{0, 0, 0}, 0.5)
	w.pdf.Line(markerX, y, markerX, y+height)

	w.fill(rgb{0, 0, 0})
	w.pdf.RoundedRect(markerX-6, y-5, 12, 4, 0.5, "1234", "F")
	w.font("B", 7, rgb{255, 255, 255})
	w.pdf.Text(markerX-w.pdf.GetStringWidth(label)/2, y-2, label)

	w.font("B", 6, rgb{120, 120, 120})
	for i, l := range segmentLabels {
		cx := x + float64(i)*segment + segment/2
		w.pdf.Text(cx-w.pdf.GetStringWidth(l)/2, y+height+3, l)
	}
}

func (w *pdfWriter) badge(label string, x, y, width float64, color rgb) {
	w.fill(color)
	w.pdf.RoundedRect(x, y, width, 6, 1, "1234", "F")
	w.font("B", 8, rgb{255, 255, 255})
	s := w.tr(label)
	w.pdf.Text(x+(width-w.pdf.GetStringWidth(s))/2, y+4, s)
}

// ensure starts a new page when height does not fit above the footer.
func (w *pdfWriter) ensure(height float64) {
	if w.y+height > pageHeight-margin-footerSpace/2 {
		w.pdf.AddPage()
		w.y = margin
	}
}

// split wraps text to width and returns encoded lines. A positive limit keeps
// only the first lines.
func (w *pdfWriter) split(text string, width float64, limit int) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}
		// SplitText measures runes against the 256-entry width table, so the
		// encoded bytes are carried as runes below 256 and narrowed back.
		for _, line := range w.pdf.SplitText(widen(w.tr(para)), width) {
			out = append(out, narrow(line))
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (w *pdfWriter) center(y float64, s string) {
	s = w.tr(s)
	w.pdf.Text((pageWidth-w.pdf.GetStringWidth(s))/2, y, s)
}

func (w *pdfWriter) text(x, y float64, s string) {
	w.pdf.Text(x, y, w.tr(s))
}

// line writes a line returned by split.
func (w *pdfWriter) line(x, y float64, encoded string) {
	w.pdf.Text(x, y, encoded)
}

func (w *pdfWriter) font(style string, size float64, color rgb) {
	w.pdf.SetFont("Helvetica", style, size)
	w.pdf.SetTextColor(color[0], color[1], color[2])
}

func (w *pdfWriter) fill(color rgb) {
	w.pdf.SetFillColor(color[0], color[1], color[2])
}

func (w *pdfWriter) draw(color rgb, width float64) {
	w.pdf.SetDrawColor(color[0], color[1], color[2])
	w.pdf.SetLineWidth(width)
}

func (w *pdfWriter) tr(s string) string {
	return toWinAnsi(s)
}

// toWinAnsi converts UTF-8 to the Windows-1252 bytes the core fonts expect.
// Characters without a mapping become "?".
func toWinAnsi(s string) string {
	out, _, err := transform.String(transform.Chain(
		runes.Map(func(r rune) rune {
			if _, ok := charmap.Windows1252.EncodeRune(r); ok {
				return r
			}
			return '?'
		}),
		charmap.Windows1252.NewEncoder(),
	), s)
	if err != nil {
		return s
	}
	return out
}

func widen(b string) string {
	rs := make([]rune, len(b))
	for i := 0; i < len(b); i++ {
		rs[i] = rune(b[i])
	}
	return string(rs)
}

func narrow(s string) string {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		buf = append(buf, byte(r))
	}
	return string(buf)
}

func germanDate(t time.Time) string {
	return fmt.Sprintf("%d. %s %d, %02d:%02d",
		t.Day(), germanMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
