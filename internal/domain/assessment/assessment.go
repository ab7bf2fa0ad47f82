// Package assessment derives band averages, skill levels and the overall grade
// from a student's raw grades. Every function here is pure and safe for
// concurrent use. Results are recomputed on each call and never cached.
package assessment

import (
	"encoding/json"
	"math"

	"github.com/alem-hub/assessment-hub/internal/domain/catalog"
	"github.com/alem-hub/assessment-hub/internal/domain/student"
)

// Skill level thresholds. Averages below BeginnerBelow are beginner, below
// IntermediateBelow intermediate, everything else advanced.
const (
	BeginnerBelow     = 3.5
	IntermediateBelow = 5.0
)

// ClassifySkillLevel maps a band average to a skill level.
func ClassifySkillLevel(avg float64) catalog.SkillLevel {
	switch {
	case avg < BeginnerBelow:
		return catalog.SkillLevelBeginner
	case avg < IntermediateBelow:
		return catalog.SkillLevelIntermediate
	default:
		return catalog.SkillLevelAdvanced
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// BAND AVERAGES
// ══════════════════════════════════════════════════════════════════════════════

// BandAverage is the derived result for one band. When Graded is false the
// band has no recorded grades and Average/Level carry no meaning.
type BandAverage struct {
	Band    catalog.Band
	Average float64
	Level   catalog.SkillLevel
	Graded  bool
}

type bandAverageJSON struct {
	Average    *float64            `json:"average"`
	SkillLevel *catalog.SkillLevel `json:"skillLevel"`
}

// MarshalJSON writes {"average":null,"skillLevel":null} for ungraded bands.
func (b BandAverage) MarshalJSON() ([]byte, error) {
	var out bandAverageJSON
	if b.Graded {
		avg, lvl := b.Average, b.Level
		out.Average = &avg
		out.SkillLevel = &lvl
	}
	return json.Marshal(out)
}

// ComputeBandAverages returns exactly one entry per catalog band. Absent
// grades are skipped, never counted as zero.
func ComputeBandAverages(s student.Student, c *catalog.Catalog) map[catalog.Band]BandAverage {
	sums := make(map[catalog.Band]float64)
	counts := make(map[catalog.Band]int)

	for _, d := range c.Deliverables() {
		g, ok := s.Grades[d.ID]
		if !ok {
			continue
		}
		sums[d.Band] += g
		counts[d.Band]++
	}

	out := make(map[catalog.Band]BandAverage, len(catalog.Bands()))
	for _, b := range catalog.Bands() {
		n := counts[b]
		if n == 0 {
			out[b] = BandAverage{Band: b}
			continue
		}
		avg := sums[b] / float64(n)
		out[b] = BandAverage{
			Band:    b,
			Average: avg,
			Level:   ClassifySkillLevel(avg),
			Graded:  true,
		}
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// OVERALL GRADE
// ══════════════════════════════════════════════════════════════════════════════

// OverallFromBands is the mean of the graded band averages, rounded half away
// from zero to one decimal. ok is false when no band is graded.
func OverallFromBands(bands map[catalog.Band]BandAverage) (grade float64, ok bool) {
	var sum float64
	var n int
	for _, b := range catalog.Bands() {
		avg, found := bands[b]
		if !found || !avg.Graded {
			continue
		}
		sum += avg.Average
		n++
	}
	if n == 0 {
		return 0, false
	}
	return RoundOneDecimal(sum / float64(n)), true
}

// ComputeOverallGrade derives the overall grade from ComputeBandAverages so
// both values always agree.
func ComputeOverallGrade(s student.Student, c *catalog.Catalog) (float64, bool) {
	return OverallFromBands(ComputeBandAverages(s, c))
}

// RoundOneDecimal rounds half away from zero to one decimal place.
func RoundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// ══════════════════════════════════════════════════════════════════════════════
// EVALUATION
// ══════════════════════════════════════════════════════════════════════════════

// Evaluation bundles everything the exporters need about one student.
type Evaluation struct {
	Bands      map[catalog.Band]BandAverage
	Overall    float64
	HasOverall bool
}

// Evaluate computes band averages once and derives the overall grade from them.
func Evaluate(s student.Student, c *catalog.Catalog) Evaluation {
	bands := ComputeBandAverages(s, c)
	overall, ok := OverallFromBands(bands)
	return Evaluation{Bands: bands, Overall: overall, HasOverall: ok}
}

// Band returns the average for b in catalog order lookups.
func (e Evaluation) Band(b catalog.Band) BandAverage {
	if avg, ok := e.Bands[b]; ok {
		return avg
	}
	return BandAverage{Band: b}
}

// MarkerPosition is the percentage position of avg on the 1–6 scale used by
// the band summary bar.
func MarkerPosition(avg float64) float64 {
	return ((avg - 1) / 5) * 100
}
