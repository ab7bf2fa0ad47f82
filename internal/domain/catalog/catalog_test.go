package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Shape(t *testing.T) {
	c := Default()

	assert.Equal(t, 24, c.Len())
	assert.Len(t, Bands(), 9)

	seen := make(map[string]bool)
	for _, d := range c.Deliverables() {
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
		assert.True(t, d.Phase.IsValid(), d.ID)
		assert.True(t, d.Band.IsValid(), d.ID)
		assert.NotEmpty(t, d.Title, d.ID)
	}

	for _, b := range Bands() {
		assert.NotEmpty(t, c.ByBand(b), "band %s has no deliverables", b)
		entry, ok := c.SkillMatrix(b)
		require.True(t, ok, "band %s", b)
		assert.NotEmpty(t, entry.Name)
		assert.NotEmpty(t, entry.Describe(SkillLevelAdvanced))
	}
}

func TestDefaultCatalog_PhasesKeepCatalogOrder(t *testing.T) {
	c := Default()

	discovery := c.ByPhase(PhaseDiscovery)
	require.Len(t, discovery, 6)
	assert.Equal(t, "DSC1", discovery[0].ID)
	assert.Equal(t, "DSC6", discovery[5].ID)

	delivery := c.ByPhase(PhaseDelivery)
	require.Len(t, delivery, 7)
	assert.Equal(t, "DLV7", delivery[6].ID)

	total := 0
	for _, p := range Phases() {
		total += len(c.ByPhase(p))
	}
	assert.Equal(t, c.Len(), total)
}

func TestCatalog_Lookup(t *testing.T) {
	c := Default()

	d, ok := c.Deliverable("DEV6")
	require.True(t, ok)
	assert.Equal(t, "Prototyp", d.Title)
	assert.Equal(t, BandE, d.Band)
	assert.Equal(t, PhaseDevelopment, d.Phase)

	assert.True(t, c.Has("DLV6"))
	assert.False(t, c.Has("XYZ1"))
	assert.Equal(t, "Erfolg messen", c.BandName(BandH))
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := Default()

	items := c.Deliverables()
	items[0].Title = "changed"

	d, _ := c.Deliverable(items[0].ID)
	assert.NotEqual(t, "changed", d.Title)
}

func TestNew_Validation(t *testing.T) {
	matrix := make(map[Band]SkillMatrixEntry)
	for _, b := range Bands() {
		matrix[b] = SkillMatrixEntry{Name: string(b)}
	}

	_, err := New([]Deliverable{
		{ID: "X1", Phase: PhaseDefine, Band: BandA},
		{ID: "X1", Phase: PhaseDefine, Band: BandB},
	}, matrix)
	assert.ErrorIs(t, err, ErrDuplicateDeliverable)

	_, err = New([]Deliverable{{ID: "X1", Phase: "Later", Band: BandA}}, matrix)
	assert.ErrorIs(t, err, ErrInvalidDeliverable)

	_, err = New([]Deliverable{{ID: "X1", Phase: PhaseDefine, Band: "Z"}}, matrix)
	assert.ErrorIs(t, err, ErrInvalidDeliverable)

	delete(matrix, BandI)
	_, err = New([]Deliverable{{ID: "X1", Phase: PhaseDefine, Band: BandA}}, matrix)
	assert.ErrorIs(t, err, ErrMissingSkillMatrix)
}

func TestSkillLevel_Abbrev(t *testing.T) {
	assert.Equal(t, "BEG", SkillLevelBeginner.Abbrev())
	assert.Equal(t, "INT", SkillLevelIntermediate.Abbrev())
	assert.Equal(t, "ADV", SkillLevelAdvanced.Abbrev())
	assert.Equal(t, "", SkillLevelNone.Abbrev())
}
