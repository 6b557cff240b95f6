package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/boxflow/pkg/buildinfo"
	"github.com/matzehuels/boxflow/pkg/errors"
	"github.com/matzehuels/boxflow/pkg/fixture"
	"github.com/matzehuels/boxflow/pkg/observability"
	"github.com/matzehuels/boxflow/pkg/pipeline"
	"github.com/matzehuels/boxflow/pkg/snapshot"
)

var contentTypes = map[string]string{
	pipeline.FormatJSON:      "application/json",
	pipeline.FormatDOT:       "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:       "image/svg+xml",
	pipeline.FormatWireframe: "image/svg+xml",
}

// HitResponse is the body returned by /v1/hittest.
type HitResponse struct {
	Hit bool          `json:"hit"`
	Box *snapshot.Box `json:"box,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := layoutOptions(q.Get("width"), q.Get("height"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Refresh = q.Get("refresh") == "true"
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	opts.Formats = []string{format}
	opts.ShowRects = q.Get("rects") == "true"

	f, err := s.readFixture(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), f, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if res.CacheInfo.LayoutHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleHitTest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 32)
	y, errY := strconv.ParseFloat(q.Get("y"), 32)
	if errX != nil || errY != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}
	opts, err := layoutOptions(q.Get("width"), q.Get("height"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	f, err := s.readFixture(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	box, err := pipeline.HitTest(f, opts, float32(x), float32(y), q.Get("exhaustive") == "true")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, HitResponse{Hit: box != nil, Box: box})
}

func (s *Server) readFixture(w http.ResponseWriter, r *http.Request) (*fixture.Fixture, error) {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer body.Close()
	return pipeline.ParseFixture(r.Context(), body, "request")
}

func layoutOptions(width, height string) (pipeline.Options, error) {
	var opts pipeline.Options
	for _, p := range []struct {
		name, value string
		dst         *float32
	}{
		{"width", width, &opts.CanvasWidth},
		{"height", height, &opts.CanvasHeight},
	} {
		if p.value == "" {
			continue
		}
		v, err := strconv.ParseFloat(p.value, 32)
		if err != nil || v < 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a non-negative number", p.name)
		}
		*p.dst = float32(v)
	}
	return opts, nil
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFixture,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidFlags:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFixtureNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCapacityExceeded, errors.ErrCodeInvalidOperation:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error:     errors.UserMessage(err),
		Code:      errors.GetCode(err),
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
