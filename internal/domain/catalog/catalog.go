// Package catalog holds the immutable reference data of module 338: the fixed
// list of gradable deliverables, the four project phases, the nine
// competency bands (Kompetenzbänder) and the skill matrix describing each band
// at the three skill levels.
//
// A Catalog is built once and never mutated. Every accessor returns copies so
// callers cannot alter the shared instance.
package catalog

import (
	"errors"
	"fmt"
	"sync"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Phase is one of the four project stages a deliverable belongs to.
type Phase string

const (
	PhaseDiscovery   Phase = "Discovery"
	PhaseDefine      Phase = "Define"
	PhaseDevelopment Phase = "Development"
	PhaseDelivery    Phase = "Delivery"
)

// Phases returns the phases in their fixed report order.
func Phases() []Phase {
	return []Phase{PhaseDiscovery, PhaseDefine, PhaseDevelopment, PhaseDelivery}
}

// IsValid reports whether p is one of the four known phases.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseDiscovery, PhaseDefine, PhaseDevelopment, PhaseDelivery:
		return true
	default:
		return false
	}
}

// Band is one of the nine competency bands, the unit of averaging.
type Band string

const (
	BandA Band = "A"
	BandB Band = "B"
	BandC Band = "C"
	BandD Band = "D"
	BandE Band = "E"
	BandF Band = "F"
	BandG Band = "G"
	BandH Band = "H"
	BandI Band = "I"
)

// Bands returns all bands in fixed alphabetical order A–I.
func Bands() []Band {
	return []Band{BandA, BandB, BandC, BandD, BandE, BandF, BandG, BandH, BandI}
}

// IsValid reports whether b is one of the nine known bands.
func (b Band) IsValid() bool {
	return len(b) == 1 && b[0] >= 'A' && b[0] <= 'I'
}

// SkillLevel classifies a band average. The zero value SkillLevelNone stands
// for "no classification" (the band has no grades).
type SkillLevel string

const (
	SkillLevelNone         SkillLevel = ""
	SkillLevelBeginner     SkillLevel = "beginner"
	SkillLevelIntermediate SkillLevel = "intermediate"
	SkillLevelAdvanced     SkillLevel = "advanced"
)

// SkillLevels returns the three levels in ascending order.
func SkillLevels() []SkillLevel {
	return []SkillLevel{SkillLevelBeginner, SkillLevelIntermediate, SkillLevelAdvanced}
}

// Abbrev returns the three-letter badge label used in reports.
func (l SkillLevel) Abbrev() string {
	switch l {
	case SkillLevelBeginner:
		return "BEG"
	case SkillLevelIntermediate:
		return "INT"
	case SkillLevelAdvanced:
		return "ADV"
	default:
		return ""
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTRIES
// ══════════════════════════════════════════════════════════════════════════════

// Deliverable is a single gradable artifact of the catalog.
type Deliverable struct {
	ID          string `json:"id"`
	Title       string `json:"deliverable"`
	Phase       Phase  `json:"phase"`
	Band        Band   `json:"kompetenzband"`
	Description string `json:"description"`
}

// SkillMatrixEntry describes one band at each skill level.
type SkillMatrixEntry struct {
	Name         string `json:"name"`
	Beginner     string `json:"beginner"`
	Intermediate string `json:"intermediate"`
	Advanced     string `json:"advanced"`
}

// Describe returns the sentence for the given level, or "" for SkillLevelNone.
func (e SkillMatrixEntry) Describe(level SkillLevel) string {
	switch level {
	case SkillLevelBeginner:
		return e.Beginner
	case SkillLevelIntermediate:
		return e.Intermediate
	case SkillLevelAdvanced:
		return e.Advanced
	default:
		return ""
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG
// ══════════════════════════════════════════════════════════════════════════════

var (
	ErrDuplicateDeliverable = errors.New("catalog: duplicate deliverable id")
	ErrInvalidDeliverable   = errors.New("catalog: invalid deliverable")
	ErrMissingSkillMatrix   = errors.New("catalog: band without skill matrix entry")
)

// Catalog is the immutable set of deliverables plus the skill matrix.
type Catalog struct {
	deliverables []Deliverable
	byID         map[string]int
	matrix       map[Band]SkillMatrixEntry
}

// New builds a catalog, checking that ids are unique, every deliverable has a
// valid phase and band, and every band has a skill matrix entry.
func New(deliverables []Deliverable, matrix map[Band]SkillMatrixEntry) (*Catalog, error) {
	c := &Catalog{
		deliverables: make([]Deliverable, len(deliverables)),
		byID:         make(map[string]int, len(deliverables)),
		matrix:       make(map[Band]SkillMatrixEntry, len(matrix)),
	}
	copy(c.deliverables, deliverables)

	for i, d := range c.deliverables {
		if d.ID == "" || !d.Phase.IsValid() || !d.Band.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDeliverable, d.ID)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDeliverable, d.ID)
		}
		c.byID[d.ID] = i
	}

	for _, b := range Bands() {
		entry, ok := matrix[b]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSkillMatrix, b)
		}
		c.matrix[b] = entry
	}

	return c, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := New(moduleDeliverables, moduleSkillMatrix)
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the compiled-in catalog of module 338.
func Default() *Catalog {
	return defaultCatalog()
}

// Deliverables returns all deliverables in catalog order.
func (c *Catalog) Deliverables() []Deliverable {
	out := make([]Deliverable, len(c.deliverables))
	copy(out, c.deliverables)
	return out
}

// Len returns the number of deliverables.
func (c *Catalog) Len() int {
	return len(c.deliverables)
}

// Deliverable looks up a deliverable by id.
func (c *Catalog) Deliverable(id string) (Deliverable, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Deliverable{}, false
	}
	return c.deliverables[i], true
}

// Has reports whether id names a catalog deliverable.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// ByPhase returns the deliverables of one phase in catalog order.
func (c *Catalog) ByPhase(p Phase) []Deliverable {
	var out []Deliverable
	for _, d := range c.deliverables {
		if d.Phase == p {
			out = append(out, d)
		}
	}
	return out
}

// ByBand returns the deliverables mapped to one band in catalog order.
func (c *Catalog) ByBand(b Band) []Deliverable {
	var out []Deliverable
	for _, d := range c.deliverables {
		if d.Band == b {
			out = append(out, d)
		}
	}
	return out
}

// SkillMatrix returns the descriptive entry for a band.
func (c *Catalog) SkillMatrix(b Band) (SkillMatrixEntry, bool) {
	e, ok := c.matrix[b]
	return e, ok
}

// BandName returns the human-readable name of a band.
func (c *Catalog) BandName(b Band) string {
	return c.matrix[b].Name
}
