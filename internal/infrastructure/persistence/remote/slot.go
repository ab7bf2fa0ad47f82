// Package remote keeps the roster on a shared roster server reached over
// HTTP. Every load fetches the full list and every save replaces it.
package remote

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/alem-hub/assessment-hub/internal/domain/student"
	"github.com/alem-hub/assessment-hub/pkg/retry"
)

// RosterPath is the endpoint path below the base URL.
const RosterPath = "/api/v1/roster"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response is read.
const maxResponseBytes = 4 << 20

// Option configures a Slot.
type Option func(*Slot)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Slot) { s.client = c }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(s *Slot) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithToken sends token on every write. An empty header keeps X-API-Key.
func WithToken(header, token string) Option {
	return func(s *Slot) {
		if header != "" {
			s.tokenHeader = header
		}
		s.token = token
	}
}

// WithRetrier replaces the default retry policy. Network errors, 429 and
// 5xx responses are retried; nil disables retries.
func WithRetrier(r *retry.Retrier) Option {
	return func(s *Slot) {
		if r == nil {
			r = retry.New(retry.WithMaxAttempts(1))
		}
		s.retrier = r
	}
}

// Slot implements student.Slot against a roster server.
type Slot struct {
	url         string
	client      *http.Client
	retrier     *retry.Retrier
	tokenHeader string
	token       string
}

// NewSlot builds a slot for the server at baseURL, e.g. http://host:8080.
func NewSlot(baseURL string, opts ...Option) *Slot {
	s := &Slot{
		url:         strings.TrimRight(baseURL, "/") + RosterPath,
		client:      &http.Client{Timeout: DefaultTimeout},
		retrier:     retry.HTTPRetrier(),
		tokenHeader: "X-API-Key",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the roster endpoint.
func (s *Slot) URL() string {
	return s.url
}

// Load implements student.Slot.
func (s *Slot) Load(ctx context.Context) ([]student.Student, error) {
	data, err := retry.DoWithData(ctx, s.retrier, func(ctx context.Context) ([]student.Student, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, retry.Permanent(errors.Wrap(err, "build request"))
		}
		req.Header.Set("Accept", "application/json")
		return s.do(req)
	})
	if err != nil {
		return nil, errors.Wrap(err, "remote: load roster")
	}
	return data, nil
}

// Save implements student.Slot.
func (s *Slot) Save(ctx context.Context, students []student.Student) error {
	body, err := student.EncodeRoster(students)
	if err != nil {
		return err
	}

	err = s.retrier.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.url, bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(errors.Wrap(err, "build request"))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if s.token != "" {
			req.Header.Set(s.tokenHeader, s.token)
		}
		_, err = s.do(req)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "remote: save roster")
	}
	return nil
}

// Ping checks that the server answers its liveness probe.
func (s *Slot) Ping(ctx context.Context) error {
	live := strings.TrimSuffix(s.url, RosterPath) + "/live"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, live, nil)
	if err != nil {
		return errors.Wrap(err, "remote: build request")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "remote: ping")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("remote: ping: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// do sends req and decodes the roster carried in the response envelope.
// Failures worth another attempt are marked retryable.
func (s *Slot) do(req *http.Request) ([]student.Student, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return nil, err
		}
		return nil, retry.Retryable(err)
	}
	defer resp.Body.Close()

	transient := resp.StatusCode >= http.StatusInternalServerError ||
		resp.StatusCode == http.StatusTooManyRequests
	fail := func(err error) error {
		if transient {
			return retry.Retryable(err)
		}
		return err
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, retry.Retryable(errors.Wrap(err, "read response"))
	}
	if !gjson.ValidBytes(raw) {
		return nil, fail(errors.Errorf("status %d: response is not JSON", resp.StatusCode))
	}

	envelope := gjson.ParseBytes(raw)
	if resp.StatusCode != http.StatusOK || !envelope.Get("success").Bool() {
		msg := envelope.Get("error.message").String()
		if details := envelope.Get("error.details").String(); details != "" {
			msg += ": " + details
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fail(errors.Errorf("status %d: %s", resp.StatusCode, msg))
	}

	data := envelope.Get("data")
	if !data.Exists() || data.Type == gjson.Null {
		return []student.Student{}, nil
	}
	if !data.IsArray() {
		return nil, errors.New("response data is not a list")
	}
	return student.DecodeRoster([]byte(data.Raw))
}
