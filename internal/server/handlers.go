package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	leet2tex "github.com/alnah/go-leet2tex"
)

// archiveContentType is the media type of the figure download.
const archiveContentType = "application/zip"

// contentRequest is the body of both API endpoints.
type contentRequest struct {
	QuestionSlugs []string `json:"questionSlugs"`
}

// contentResponse is the body returned by process-content.
type contentResponse struct {
	Content string `json:"content"`
}

// errorResponse is the body of every non-2xx JSON reply.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProcessContent(w http.ResponseWriter, r *http.Request) {
	slugs, ok := s.decodeSlugs(w, r)
	if !ok {
		return
	}

	content, err := s.renderer.Render(r.Context(), slugs)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, contentResponse{Content: content})
}

func (s *Server) handleFigureDownload(w http.ResponseWriter, r *http.Request) {
	slugs, ok := s.decodeSlugs(w, r)
	if !ok {
		return
	}

	archive, err := s.collector.CollectBytes(r.Context(), slugs)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}

	w.Header().Set("Content-Type", archiveContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+leet2tex.ArchiveName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

// decodeSlugs reads the request body. On failure it writes a 400 and
// returns false.
func (s *Server) decodeSlugs(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req contentRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return nil, false
	}

	if err := leet2tex.ValidateSlugs(req.QuestionSlugs); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, false
	}
	return req.QuestionSlugs, true
}

// writeFailure maps a pipeline error to a status code.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, leet2tex.ErrNoSlugs),
		errors.Is(err, leet2tex.ErrTooManySlugs),
		errors.Is(err, leet2tex.ErrInvalidSlug):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

// limit holds a Limiter slot for the duration of the request. Requests that
// are canceled while queued get a 503.
func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.limiter.Acquire(r.Context()); err != nil {
			s.log.Warn("server busy", "path", r.URL.Path, "in_use", s.limiter.InUse(), "workers", s.limiter.Size(), "error", err)
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "server busy"})
			return
		}
		defer s.limiter.Release()
		next.ServeHTTP(w, r)
	})
}

// logRequests writes one info line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
