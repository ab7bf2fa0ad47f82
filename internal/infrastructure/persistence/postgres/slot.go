package postgres

import (
	"context"
	"fmt"

	"github.com/alem-hub/assessment-hub/internal/domain/student"
)

// Slot implements student.Slot on the kv_slots table.
type Slot struct {
	conn *Connection
	key  string
}

// NewSlot returns a slot stored under key. Run the Migrator first.
func NewSlot(conn *Connection, key string) *Slot {
	return &Slot{conn: conn, key: key}
}

// Load implements student.Slot.
func (s *Slot) Load(ctx context.Context) ([]student.Student, error) {
	var raw []byte
	err := s.conn.QueryRow(ctx,
		`SELECT value FROM kv_slots WHERE slot_key = $1`, s.key,
	).Scan(&raw)
	if IsNoRows(err) {
		return nil, student.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: load slot %q: %w", s.key, err)
	}
	return student.DecodeRoster(raw)
}

// Save implements student.Slot with a single upsert.
func (s *Slot) Save(ctx context.Context, students []student.Student) error {
	data, err := student.EncodeRoster(students)
	if err != nil {
		return err
	}

	_, err = s.conn.Exec(ctx, `
		INSERT INTO kv_slots (slot_key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (slot_key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, s.key, string(data))
	if err != nil {
		return fmt.Errorf("postgres: save slot %q: %w", s.key, err)
	}
	return nil
}
