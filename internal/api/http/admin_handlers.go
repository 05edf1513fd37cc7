package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hadamard-2/exit-exam-prep/internal/eventlog"
)

// adminAuthorized checks the bcrypt admin password, writing the error
// response itself on failure. An empty configured hash disables the
// whole admin surface.
func (s *Server) adminAuthorized(w http.ResponseWriter, r *http.Request) bool {
	if s.adminPassHash == "" {
		writeError(w, http.StatusForbidden, "admin surface disabled")
		return false
	}
	pass := r.Header.Get("X-Admin-Password")
	if bcrypt.CompareHashAndPassword([]byte(s.adminPassHash), []byte(pass)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid admin password")
		return false
	}
	return true
}

// WipeSession erases a session's stored question set, progress and
// result artifacts.
func (s *Server) WipeSession(w http.ResponseWriter, r *http.Request) {
	if !s.adminAuthorized(w, r) {
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	if err := s.sessions.Delete(r.Context(), sessionID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.blobs.Delete("results/" + sessionID); err != nil {
		writeError(w, http.StatusInternalServerError, "delete results: "+err.Error())
		return
	}
	s.dropChats(sessionID)
	_ = s.events.Append(r.Context(), sessionID, eventlog.TypeSessionWiped, "")
	w.WriteHeader(http.StatusNoContent)
}

// ListSessionEvents returns a session's recorded activity, oldest
// first.
func (s *Server) ListSessionEvents(w http.ResponseWriter, r *http.Request) {
	if !s.adminAuthorized(w, r) {
		return
	}
	events, err := s.events.BySession(r.Context(), chi.URLParam(r, "sessionID"), 200)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []eventlog.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
