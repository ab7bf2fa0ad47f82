// Package session converts the roster to and from the versioned session file
// used for backup and transfer between machines.
package session

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/alem-hub/assessment-hub/internal/domain/shared"
	"github.com/alem-hub/assessment-hub/internal/domain/student"
)

// Version is written into every exported document.
const Version = "1.0"

// DateLayout matches the millisecond UTC timestamps written by earlier
// versions of the tool, e.g. 2024-05-02T09:15:00.000Z.
const DateLayout = "2006-01-02T15:04:05.000Z"

// Document is the session file.
type Document struct {
	Version    string            `json:"version"`
	ExportDate string            `json:"exportDate"`
	Students   []student.Student `json:"students"`
}

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT
// ══════════════════════════════════════════════════════════════════════════════

// Export wraps a roster snapshot into a document stamped with now.
func Export(students []student.Student, now time.Time) Document {
	return Document{
		Version:    Version,
		ExportDate: now.UTC().Format(DateLayout),
		Students:   student.CloneAll(students),
	}
}

// Encode writes doc as indented JSON. An empty roster is refused with
// ErrNothingToExport so no empty backup file gets written.
func Encode(w io.Writer, doc Document) error {
	if len(doc.Students) == 0 {
		return shared.ErrNothingToExport
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return shared.WrapError("session", "Export", shared.ErrExportIO, "could not write session file",
			errors.Wrap(err, "encode session"))
	}
	return nil
}

// FileName returns session-YYYY-MM-DD.json for t.
func FileName(t time.Time) string {
	return "session-" + t.UTC().Format("2006-01-02") + ".json"
}

// ══════════════════════════════════════════════════════════════════════════════
// IMPORT
// ══════════════════════════════════════════════════════════════════════════════

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func studentValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("studentname", func(fl validator.FieldLevel) bool {
			return student.ValidName(fl.Field().String())
		})
	})
	return validate
}

// importedStudent is the validation view of one entry in the file.
type importedStudent struct {
	ID     student.ID         `validate:"required"`
	Name   string             `validate:"studentname"`
	Grades map[string]float64 `validate:"dive,gte=1,lte=6"`
}

// Import parses a session file and returns its students. The whole file is
// rejected when the students field is missing or not a list, or when any
// entry is invalid: empty or duplicate id, blank, overlong or duplicate name,
// grade outside [1, 6], or more than the roster capacity. Grade and comment
// keys that are not in the catalog are kept as they are.
func Import(data []byte) ([]student.Student, error) {
	if !gjson.ValidBytes(data) {
		return nil, invalid("file is not valid JSON", nil)
	}
	if !gjson.GetBytes(data, "students").IsArray() {
		return nil, invalid("missing students list", nil)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, invalid("students list is malformed", errors.Wrap(err, "decode session"))
	}
	if err := Validate(doc.Students); err != nil {
		return nil, err
	}
	for i := range doc.Students {
		doc.Students[i].Normalize()
	}

	if doc.Students == nil {
		doc.Students = []student.Student{}
	}
	return doc.Students, nil
}

// Validate applies the import rules to a decoded roster without touching it.
// The remote endpoint uses it on every replacement it accepts.
func Validate(students []student.Student) error {
	if len(students) > student.MaxStudents {
		return invalid(fmt.Sprintf("too many students (%d, max %d)", len(students), student.MaxStudents), nil)
	}

	v := studentValidator()
	ids := make(map[student.ID]bool, len(students))
	names := make(map[string]bool, len(students))

	for i, s := range students {
		if err := v.Struct(importedStudent{ID: s.ID, Name: s.Name, Grades: s.Grades}); err != nil {
			return invalid(fmt.Sprintf("student %d is invalid", i+1), describe(err))
		}
		if !s.ID.IsValid() {
			return invalid(fmt.Sprintf("student %d has a blank id", i+1), nil)
		}
		if ids[s.ID] {
			return invalid(fmt.Sprintf("duplicate student id %q", s.ID), nil)
		}
		if names[s.Name] {
			return invalid(fmt.Sprintf("duplicate student name %q", s.Name), nil)
		}
		ids[s.ID] = true
		names[s.Name] = true
	}
	return nil
}

// ReadFrom reads the whole session file from r and imports it.
func ReadFrom(r io.Reader) ([]student.Student, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, shared.WrapError("session", "Import", shared.ErrExportIO, "could not read session file",
			errors.Wrap(err, "read session"))
	}
	return Import(data)
}

func invalid(msg string, cause error) error {
	return shared.WrapError("session", "Import", shared.ErrInvalidSession, "invalid session file format: "+msg, cause)
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}
