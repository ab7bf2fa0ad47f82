package student

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORAGE INTERFACE
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// ErrSlotEmpty is returned by Slot.Load when nothing has been stored yet.
var ErrSlotEmpty = errors.New("student: slot is empty")

// ErrSlotCorrupt wraps decode failures of stored content. Transport and
// driver errors never carry it.
var ErrSlotCorrupt = errors.New("student: slot content is corrupt")

// Slot is the single named durable slot holding the whole roster. Every save
// overwrites the previous document; there are no partial updates.
type Slot interface {
	// Load returns the stored roster. It returns ErrSlotEmpty when the slot
	// has never been written and an error wrapping ErrSlotCorrupt when the
	// content cannot be decoded.
	Load(ctx context.Context) ([]Student, error)

	// Save replaces the stored roster with students.
	Save(ctx context.Context, students []Student) error
}

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER CODEC
// ══════════════════════════════════════════════════════════════════════════════

// EncodeRoster returns the JSON array form stored in every slot backend.
func EncodeRoster(students []Student) ([]byte, error) {
	if students == nil {
		students = []Student{}
	}
	out := make([]Student, len(students))
	for i, s := range students {
		out[i] = s.Clone()
	}
	return json.Marshal(out)
}

// DecodeRoster parses the JSON array form. Decoded students are normalized.
// Malformed input yields an error wrapping ErrSlotCorrupt.
func DecodeRoster(data []byte) ([]Student, error) {
	var students []Student
	if err := json.Unmarshal(data, &students); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSlotCorrupt, err)
	}
	if students == nil {
		students = []Student{}
	}
	for i := range students {
		students[i].Normalize()
	}
	return students, nil
}
