package assessment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/assessment-hub/internal/domain/catalog"
	"github.com/alem-hub/assessment-hub/internal/domain/student"
)

func TestClassifySkillLevel_Thresholds(t *testing.T) {
	tests := []struct {
		avg  float64
		want catalog.SkillLevel
	}{
		{1.0, catalog.SkillLevelBeginner},
		{3.4999, catalog.SkillLevelBeginner},
		{3.5, catalog.SkillLevelIntermediate},
		{4.999, catalog.SkillLevelIntermediate},
		{5.0, catalog.SkillLevelAdvanced},
		{6.0, catalog.SkillLevelAdvanced},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySkillLevel(tt.avg), "avg=%v", tt.avg)
	}
}

func TestComputeBandAverages_NoGrades(t *testing.T) {
	c := catalog.Default()
	s := student.New("1", "Anna")

	bands := ComputeBandAverages(s, c)

	require.Len(t, bands, 9)
	for _, b := range catalog.Bands() {
		avg, ok := bands[b]
		require.True(t, ok, "band %s", b)
		assert.False(t, avg.Graded)
		assert.Equal(t, catalog.SkillLevelNone, avg.Level)

		data, err := json.Marshal(avg)
		require.NoError(t, err)
		assert.JSONEq(t, `{"average":null,"skillLevel":null}`, string(data))
	}
}

func TestComputeBandAverages_MeanOfRecordedGrades(t *testing.T) {
	c := catalog.Default()
	s := student.New("1", "Anna")

	// Band B: DSC3, DSC4, DSC6. DSC6 stays ungraded and must be skipped.
	s.Grades["DSC3"] = 3
	s.Grades["DSC4"] = 4
	// Foreign keys do not belong to any band.
	s.Grades["OLD1"] = 1

	bands := ComputeBandAverages(s, c)

	b := bands[catalog.BandB]
	require.True(t, b.Graded)
	assert.InDelta(t, 3.5, b.Average, 1e-9)
	assert.Equal(t, catalog.SkillLevelIntermediate, b.Level)

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"average":3.5,"skillLevel":"intermediate"}`, string(data))

	for _, other := range catalog.Bands() {
		if other != catalog.BandB {
			assert.False(t, bands[other].Graded, "band %s", other)
		}
	}
}

func TestComputeBandAverages_AllDeliverablesInBand(t *testing.T) {
	c := catalog.Default()

	for _, g := range []float64{1, 2.5, 3.5, 4.75, 6} {
		s := student.New("1", "Anna")
		for _, d := range c.ByBand(catalog.BandF) {
			s.Grades[d.ID] = g
		}

		avg := ComputeBandAverages(s, c)[catalog.BandF]
		assert.InDelta(t, g, avg.Average, 1e-9)
		assert.Equal(t, ClassifySkillLevel(g), avg.Level)
	}
}

func TestComputeOverallGrade_ExcludesUngradedBands(t *testing.T) {
	c := catalog.Default()
	s := student.New("1", "Anna")

	for _, d := range c.ByBand(catalog.BandA) {
		s.Grades[d.ID] = 4
	}
	for _, d := range c.ByBand(catalog.BandB) {
		s.Grades[d.ID] = 6
	}

	overall, ok := ComputeOverallGrade(s, c)
	require.True(t, ok)
	assert.Equal(t, 5.0, overall)
}

func TestComputeOverallGrade_None(t *testing.T) {
	_, ok := ComputeOverallGrade(student.New("1", "Anna"), catalog.Default())
	assert.False(t, ok)
}

func TestComputeOverallGrade_MeanOfMeans(t *testing.T) {
	c := catalog.Default()
	s := student.New("1", "Anna")

	// Band C has one deliverable, band F has five.
	s.Grades["DSC1"] = 6
	s.Grades["DEV1"] = 1
	s.Grades["DEV2"] = 1

	overall, ok := ComputeOverallGrade(s, c)
	require.True(t, ok)
	assert.Equal(t, 3.5, overall)
}

func TestRoundOneDecimal(t *testing.T) {
	assert.Equal(t, 4.3, RoundOneDecimal(4.25))
	assert.Equal(t, 4.2, RoundOneDecimal(4.24))
	assert.Equal(t, 5.0, RoundOneDecimal(4.96))
	assert.Equal(t, -1.3, RoundOneDecimal(-1.25))
}

func TestEvaluate_MatchesComponents(t *testing.T) {
	c := catalog.Default()
	s := student.New("1", "Anna")
	s.Grades["DFN2"] = 5.5
	s.Grades["DLV6"] = 2

	e := Evaluate(s, c)
	overall, ok := ComputeOverallGrade(s, c)

	assert.Equal(t, ComputeBandAverages(s, c), e.Bands)
	assert.Equal(t, ok, e.HasOverall)
	assert.Equal(t, overall, e.Overall)
	assert.Equal(t, catalog.SkillLevelAdvanced, e.Band(catalog.BandE).Level)
}

func TestMarkerPosition(t *testing.T) {
	assert.Equal(t, 0.0, MarkerPosition(1))
	assert.Equal(t, 50.0, MarkerPosition(3.5))
	assert.Equal(t, 100.0, MarkerPosition(6))
}
