package student

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIMITS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// MaxStudents is the roster capacity.
	MaxStudents = 15

	// MaxNameLength is the maximum student name length in characters.
	MaxNameLength = 50

	// MinGrade and MaxGrade bound every stored grade (inclusive).
	MinGrade = 1.0
	MaxGrade = 6.0
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// ID is the opaque identifier of a student.
type ID string

// NewID returns a fresh time-ordered identifier.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		return ID(uuid.NewString())
	}
	return ID(id.String())
}

// IsValid reports whether the id is non-empty.
func (id ID) IsValid() bool {
	return strings.TrimSpace(string(id)) != ""
}

// String returns the string form of the id.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts both strings and numbers. Older session files stored
// the creation timestamp in milliseconds as a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("student id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

// ValidName reports whether name is usable as a student name: not blank and
// at most MaxNameLength characters.
func ValidName(name string) bool {
	return strings.TrimSpace(name) != "" && utf8.RuneCountInString(name) <= MaxNameLength
}

// ValidGrade reports whether v lies in [MinGrade, MaxGrade].
func ValidGrade(v float64) bool {
	return !math.IsNaN(v) && v >= MinGrade && v <= MaxGrade
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Student is one roster entry. Grades and Comments are keyed by deliverable
// id. An absent key means "ungraded" or "no comment"; there are no null or
// empty-string entries.
type Student struct {
	ID       ID                 `json:"id"`
	Name     string             `json:"name"`
	Grades   map[string]float64 `json:"grades"`
	Comments map[string]string  `json:"comments"`
}

// New creates a student with empty grade and comment maps.
func New(id ID, name string) Student {
	return Student{
		ID:       id,
		Name:     name,
		Grades:   make(map[string]float64),
		Comments: make(map[string]string),
	}
}

// Grade returns the grade for a deliverable and whether one is recorded.
func (s Student) Grade(deliverableID string) (float64, bool) {
	g, ok := s.Grades[deliverableID]
	return g, ok
}

// Comment returns the comment for a deliverable, or "".
func (s Student) Comment(deliverableID string) string {
	return s.Comments[deliverableID]
}

// Clone returns a deep copy so the caller can read it without aliasing the
// roster's maps.
func (s Student) Clone() Student {
	out := Student{
		ID:       s.ID,
		Name:     s.Name,
		Grades:   make(map[string]float64, len(s.Grades)),
		Comments: make(map[string]string, len(s.Comments)),
	}
	for k, v := range s.Grades {
		out.Grades[k] = v
	}
	for k, v := range s.Comments {
		out.Comments[k] = v
	}
	return out
}

// Normalize makes sure both maps are non-nil and drops empty comments, so a
// decoded student behaves like one created with New.
func (s *Student) Normalize() {
	if s.Grades == nil {
		s.Grades = make(map[string]float64)
	}
	if s.Comments == nil {
		s.Comments = make(map[string]string)
	}
	for k, v := range s.Comments {
		if v == "" {
			delete(s.Comments, k)
		}
	}
}

// CloneAll deep-copies a slice of students.
func CloneAll(in []Student) []Student {
	out := make([]Student, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
