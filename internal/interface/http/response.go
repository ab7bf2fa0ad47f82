package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// JSONResponse is the envelope of every response.
type JSONResponse struct {
	Success   bool          `json:"success"`
	Data      any           `json:"data,omitempty"`
	Error     *APIError     `json:"error,omitempty"`
	Meta      *ResponseMeta `json:"meta,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIError describes a failed request. Code is stable and machine-readable.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ResponseMeta accompanies every envelope.
type ResponseMeta struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version,omitempty"`
	TotalCount int       `json:"total_count,omitempty"`
}

// respond writes a success envelope. total is reported as meta.total_count
// when positive.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, data any, total int) {
	s.send(w, r, status, JSONResponse{
		Success: true,
		Data:    data,
		Meta:    &ResponseMeta{Timestamp: time.Now().UTC(), Version: s.config.Version, TotalCount: total},
	})
}

// fail writes an error envelope.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, code, message, details string) {
	s.send(w, r, status, JSONResponse{
		Error: &APIError{Code: code, Message: message, Details: details},
		Meta:  &ResponseMeta{Timestamp: time.Now().UTC(), Version: s.config.Version},
	})
}

func (s *Server) send(w http.ResponseWriter, r *http.Request, status int, resp JSONResponse) {
	if r != nil {
		resp.RequestID = requestID(r.Context())
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

type ctxKeyRequestID struct{}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return id
}
