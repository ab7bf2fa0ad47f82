// Package memory provides an in-process roster slot. Nothing survives a
// restart; it backs tests and the "memory" storage backend.
package memory

import (
	"context"
	"sync"

	"github.com/alem-hub/assessment-hub/internal/domain/student"
)

// Slot keeps the encoded roster in memory so it behaves like the durable
// backends: callers get fresh copies and corrupt content can be simulated.
type Slot struct {
	mu    sync.RWMutex
	data  []byte
	saves int
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Load implements student.Slot.
func (s *Slot) Load(ctx context.Context) ([]student.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, student.ErrSlotEmpty
	}
	return student.DecodeRoster(s.data)
}

// Save implements student.Slot.
func (s *Slot) Save(ctx context.Context, students []student.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := student.EncodeRoster(students)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.saves++
	return nil
}

// Raw returns the stored bytes, or nil when nothing was saved.
func (s *Slot) Raw() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out
}

// SetRaw overwrites the stored bytes without validation.
func (s *Slot) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}

// Saves returns how many times Save succeeded.
func (s *Slot) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
