// Package roster owns the live list of students and every mutation on it.
package roster

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/alem-hub/assessment-hub/internal/domain/catalog"
	"github.com/alem-hub/assessment-hub/internal/domain/shared"
	"github.com/alem-hub/assessment-hub/internal/domain/student"
	"github.com/alem-hub/assessment-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// The roster is kept in insertion order. Every mutation writes the whole
// roster to the slot before it returns, while still holding the lock, so no
// caller observes a mutation whose write is still pending.
// ══════════════════════════════════════════════════════════════════════════════

// Store is the single owner of the roster.
type Store struct {
	mu       sync.Mutex
	slot     student.Slot
	catalog  *catalog.Catalog
	log      *logger.Logger
	newID    func() student.ID
	students []student.Student

	// loadErr is set while the last Init failed to read the slot.
	loadErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDGenerator overrides student id generation.
func WithIDGenerator(fn func() student.ID) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithCatalog overrides the deliverable catalog used for key validation.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Store) {
		if c != nil {
			s.catalog = c
		}
	}
}

// NewStore creates a store backed by slot. Call Init before use.
func NewStore(slot student.Slot, opts ...Option) *Store {
	s := &Store{
		slot:     slot,
		catalog:  catalog.Default(),
		log:      logger.Nop(),
		newID:    student.NewID,
		students: []student.Student{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("roster"))
	return s
}

// Init loads the roster from the slot. A missing or corrupt value yields an
// empty roster and is only logged. Any other load failure is returned as
// ErrPersistenceRead and the roster stays unloaded, so a backend outage can
// never be followed by a save that overwrites the stored roster.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	loaded, err := s.slot.Load(ctx)
	s.loadErr = nil
	switch {
	case errors.Is(err, student.ErrSlotEmpty):
		s.log.Debug("no stored roster, starting empty")
		s.students = []student.Student{}
		return nil
	case errors.Is(err, student.ErrSlotCorrupt):
		s.log.Warn("stored roster corrupt, starting empty", logger.Err(err))
		s.students = []student.Student{}
		return nil
	case err != nil:
		s.log.Error("stored roster could not be read", logger.Err(err))
		s.loadErr = shared.WrapError("roster", "Init", shared.ErrPersistenceRead, "could not load roster", err)
		return s.loadErr
	}

	for i := range loaded {
		loaded[i].Normalize()
	}
	s.students = loaded
	s.log.Info("roster loaded",
		logger.RosterSize(len(loaded)),
		logger.Latency(time.Since(start)),
	)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// READS
// ══════════════════════════════════════════════════════════════════════════════

// Students returns a deep copy of the roster in display order.
func (s *Store) Students() []student.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return student.CloneAll(s.students)
}

// Get returns a copy of one student.
func (s *Store) Get(id student.ID) (student.Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.students[i].Clone(), true
	}
	return student.Student{}, false
}

// FindByName returns a copy of the student with exactly this name.
func (s *Store) FindByName(name string) (student.Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.students {
		if st.Name == name {
			return st.Clone(), true
		}
	}
	return student.Student{}, false
}

// Len returns the number of students.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.students)
}

// Catalog returns the catalog the store validates against.
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// ══════════════════════════════════════════════════════════════════════════════
// MUTATIONS
// ══════════════════════════════════════════════════════════════════════════════

// AddStudent appends a new student with empty grades and comments. The name
// is stored as given. Duplicate detection is an exact, case-sensitive match.
func (s *Store) AddStudent(ctx context.Context, name string) (student.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return "", err
	}
	if strings.TrimSpace(name) == "" {
		return "", shared.ErrEmptyName
	}
	if !student.ValidName(name) {
		return "", shared.ErrNameTooLong
	}
	if len(s.students) >= student.MaxStudents {
		return "", shared.ErrRosterFull
	}
	for _, st := range s.students {
		if st.Name == name {
			return "", shared.ErrDuplicateName
		}
	}

	st := student.New(s.newID(), name)
	s.students = append(s.students, st)

	s.log.Debug("student added", logger.StudentID(st.ID.String()), logger.StudentName(name))
	if err := s.flush(ctx, "AddStudent"); err != nil {
		return st.ID, err
	}
	return st.ID, nil
}

// RemoveStudent deletes a student and all its data. Unknown ids are a no-op.
// Confirmation is the caller's concern.
func (s *Store) RemoveStudent(ctx context.Context, id student.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return err
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	s.students = append(s.students[:i], s.students[i+1:]...)

	s.log.Debug("student removed", logger.StudentID(id.String()))
	return s.flush(ctx, "RemoveStudent")
}

// SetGrade records a grade in [1, 6]. Unknown students are a no-op; for a
// known student a value outside the range fails with ErrGradeOutOfRange and
// nothing changes.
func (s *Store) SetGrade(ctx context.Context, id student.ID, deliverableID string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return err
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	if !s.catalog.Has(deliverableID) {
		return shared.ErrUnknownDeliverable
	}
	if !student.ValidGrade(value) {
		return shared.ErrGradeOutOfRange
	}
	s.students[i].Grades[deliverableID] = value

	s.log.Debug("grade set",
		logger.StudentID(id.String()),
		logger.DeliverableID(deliverableID),
		logger.Float64("grade", value),
	)
	return s.flush(ctx, "SetGrade")
}

// ClearGrade removes the grade key entirely. A key that is present is removed
// even when the catalog does not know it, so stale imported keys can be
// cleaned up.
func (s *Store) ClearGrade(ctx context.Context, id student.ID, deliverableID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return err
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	if _, ok := s.students[i].Grades[deliverableID]; !ok && !s.catalog.Has(deliverableID) {
		return shared.ErrUnknownDeliverable
	}
	delete(s.students[i].Grades, deliverableID)

	s.log.Debug("grade cleared", logger.StudentID(id.String()), logger.DeliverableID(deliverableID))
	return s.flush(ctx, "ClearGrade")
}

// SetComment stores text verbatim. Empty text removes the comment, under the
// same rule as ClearGrade.
func (s *Store) SetComment(ctx context.Context, id student.ID, deliverableID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return err
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	_, present := s.students[i].Comments[deliverableID]
	if !s.catalog.Has(deliverableID) && (text != "" || !present) {
		return shared.ErrUnknownDeliverable
	}
	if text == "" {
		delete(s.students[i].Comments, deliverableID)
	} else {
		s.students[i].Comments[deliverableID] = text
	}

	s.log.Debug("comment set",
		logger.StudentID(id.String()),
		logger.DeliverableID(deliverableID),
		logger.Int("length", len(text)),
	)
	return s.flush(ctx, "SetComment")
}

// Clear removes every student.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return err
	}
	n := len(s.students)
	s.students = []student.Student{}

	s.log.Debug("roster cleared", logger.RosterSize(n))
	return s.flush(ctx, "Clear")
}

// ReplaceAll swaps the whole roster for students, which must already be
// validated (see session.Import). Nothing is merged.
func (s *Store) ReplaceAll(ctx context.Context, students []student.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writable(); err != nil {
		return err
	}
	next := student.CloneAll(students)
	for i := range next {
		next[i].Normalize()
	}
	s.students = next

	s.log.Info("roster replaced", logger.RosterSize(len(next)))
	return s.flush(ctx, "ReplaceAll")
}

// ══════════════════════════════════════════════════════════════════════════════
// INTERNAL
// ══════════════════════════════════════════════════════════════════════════════

// writable refuses mutations after a failed Init.
func (s *Store) writable() error {
	return s.loadErr
}

func (s *Store) indexOf(id student.ID) int {
	for i := range s.students {
		if s.students[i].ID == id {
			return i
		}
	}
	return -1
}

// flush writes the full roster. The in-memory state stays authoritative when
// the write fails.
func (s *Store) flush(ctx context.Context, op string) error {
	start := time.Now()
	if err := s.slot.Save(ctx, student.CloneAll(s.students)); err != nil {
		s.log.Error("roster save failed", logger.Operation(op), logger.Err(err))
		return shared.WrapError("roster", op, shared.ErrPersistenceWrite, "could not save roster", err)
	}
	s.log.Debug("roster saved",
		logger.Operation(op),
		logger.RosterSize(len(s.students)),
		logger.Latency(time.Since(start)),
	)
	return nil
}
