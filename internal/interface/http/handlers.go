package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/alem-hub/assessment-hub/internal/application/session"
	"github.com/alem-hub/assessment-hub/internal/domain/assessment"
	"github.com/alem-hub/assessment-hub/internal/domain/catalog"
	"github.com/alem-hub/assessment-hub/internal/domain/shared"
	"github.com/alem-hub/assessment-hub/internal/domain/student"
	"github.com/alem-hub/assessment-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, map[string]any{
		"name":    "Assessment Hub roster API",
		"version": s.config.Version,
		"endpoints": map[string]string{
			"health":  "/health",
			"roster":  "/api/v1/roster",
			"catalog": "/api/v1/catalog",
		},
	}, 0)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		s.send(w, r, code, JSONResponse{Success: status.Healthy, Data: status})
		return
	}

	s.respond(w, r, http.StatusOK, map[string]any{
		"status":  "healthy",
		"uptime":  s.Uptime().Round(time.Second).String(),
		"version": s.config.Version,
	}, 0)
}

// handleReady reports whether the storage backend answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		if status := s.deps.HealthChecker.Check(r.Context()); !status.Ready {
			s.fail(w, r, http.StatusServiceUnavailable, "not_ready", "Storage is not reachable", status.Message)
			return
		}
	}
	s.respond(w, r, http.StatusOK, map[string]string{"status": "ready"}, 0)
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, map[string]string{"status": "alive"}, 0)
}

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetRoster handles GET /api/v1/roster.
func (s *Server) handleGetRoster(w http.ResponseWriter, r *http.Request) {
	students := s.deps.Store.Students()
	s.respond(w, r, http.StatusOK, students, len(students))
}

// handleReplaceRoster handles PUT and POST /api/v1/roster. The body is either
// a bare list of students or an object with a "students" list, so session
// files can be posted unchanged. The roster is replaced only when every entry
// passes the import rules.
func (s *Server) handleReplaceRoster(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body too large", "")
			return
		}
		s.fail(w, r, http.StatusBadRequest, "invalid_body", "Could not read request body", "")
		return
	}

	students, err := decodeRosterBody(body)
	if err == nil {
		err = session.Validate(students)
	}
	if err != nil {
		log.Warn("roster replacement rejected", logger.Err(err))
		s.fail(w, r, http.StatusUnprocessableEntity, "invalid_roster", "Roster rejected", shared.UserMessage(err))
		return
	}

	if err := s.deps.Store.ReplaceAll(r.Context(), students); err != nil {
		log.Error("roster replacement not saved", logger.Err(err))
		s.fail(w, r, http.StatusInternalServerError, "storage_error", "Roster could not be saved", shared.UserMessage(err))
		return
	}

	stored := s.deps.Store.Students()
	s.respond(w, r, http.StatusOK, stored, len(stored))
}

// decodeRosterBody accepts a JSON list or an object carrying "students".
func decodeRosterBody(body []byte) ([]student.Student, error) {
	if !gjson.ValidBytes(body) {
		return nil, shared.WrapError("http", "ReplaceRoster", shared.ErrInvalidFormat, "body is not valid JSON", nil)
	}
	list := gjson.ParseBytes(body)
	if list.IsObject() {
		list = list.Get("students")
	}
	if !list.IsArray() {
		return nil, shared.WrapError("http", "ReplaceRoster", shared.ErrInvalidFormat, "expected a list of students", nil)
	}

	var students []student.Student
	if err := json.Unmarshal([]byte(list.Raw), &students); err != nil {
		return nil, shared.WrapError("http", "ReplaceRoster", shared.ErrInvalidFormat, "students list is malformed", err)
	}
	if students == nil {
		students = []student.Student{}
	}
	return students, nil
}

// evaluationView is the computed summary of one student.
type evaluationView struct {
	StudentID    student.ID                              `json:"studentId"`
	Name         string                                  `json:"name"`
	Bands        map[catalog.Band]assessment.BandAverage `json:"bands"`
	OverallGrade *float64                                `json:"overallGrade"`
}

// handleGetEvaluation handles GET /api/v1/roster/{id}/evaluation.
func (s *Server) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	id := student.ID(r.PathValue("id"))
	st, ok := s.deps.Store.Get(id)
	if !ok {
		s.fail(w, r, http.StatusNotFound, "student_not_found", "Student not found", "")
		return
	}

	eval := assessment.Evaluate(st, s.deps.Store.Catalog())
	view := evaluationView{StudentID: st.ID, Name: st.Name, Bands: eval.Bands}
	if eval.HasOverall {
		overall := eval.Overall
		view.OverallGrade = &overall
	}
	s.respond(w, r, http.StatusOK, view, 0)
}

// handleGetCatalog handles GET /api/v1/catalog.
func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	c := s.deps.Store.Catalog()
	matrix := make(map[catalog.Band]catalog.SkillMatrixEntry, len(catalog.Bands()))
	for _, b := range catalog.Bands() {
		if e, ok := c.SkillMatrix(b); ok {
			matrix[b] = e
		}
	}
	s.respond(w, r, http.StatusOK, map[string]any{
		"deliverables": c.Deliverables(),
		"skillMatrix":  matrix,
	}, c.Len())
}
