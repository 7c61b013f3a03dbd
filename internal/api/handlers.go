package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/edutech/naplan/internal/coach"
	"github.com/edutech/naplan/internal/writing"
)

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorBody{Success: false, Error: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(body).Decode(dst)
}

// invalidInput matches the CLI's failure for unreadable input.
func invalidInput(err error) string {
	return fmt.Sprintf("Invalid JSON input: %v", err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWritingEvaluate answers 200 for both outcomes; the body carries
// success.
func (s *Server) handleWritingEvaluate(w http.ResponseWriter, r *http.Request) {
	var in writing.Input
	if err := decodeBody(w, r, &in); err != nil {
		s.respondError(w, http.StatusBadRequest, invalidInput(err))
		return
	}
	s.respondJSON(w, http.StatusOK, s.writing.Evaluate(r.Context(), in))
}

func (s *Server) handleSubjectFeedback(w http.ResponseWriter, r *http.Request) {
	var req coach.Request
	if err := decodeBody(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, invalidInput(err))
		return
	}
	s.respondJSON(w, http.StatusOK, s.feedback.Feedback(r.Context(), req.Doc))
}
