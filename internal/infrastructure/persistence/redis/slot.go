package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/alem-hub/assessment-hub/internal/domain/student"
)

// Slot implements student.Slot on one Redis string key.
type Slot struct {
	cache *Cache
	key   string
}

// NewSlot stores the roster under PrefixSlot+key.
func NewSlot(cache *Cache, key string) *Slot {
	return &Slot{cache: cache, key: PrefixSlot + key}
}

// Key returns the full Redis key.
func (s *Slot) Key() string {
	return s.key
}

// Load implements student.Slot.
func (s *Slot) Load(ctx context.Context) ([]student.Student, error) {
	data, err := s.cache.GetBytes(ctx, s.key)
	if errors.Is(err, ErrCacheMiss) {
		return nil, student.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("redis: load %s: %w", s.key, err)
	}
	return student.DecodeRoster(data)
}

// Save implements student.Slot.
func (s *Slot) Save(ctx context.Context, students []student.Student) error {
	data, err := student.EncodeRoster(students)
	if err != nil {
		return err
	}
	if err := s.cache.SetBytes(ctx, s.key, data); err != nil {
		return fmt.Errorf("redis: save %s: %w", s.key, err)
	}
	return nil
}
