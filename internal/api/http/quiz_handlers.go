package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/hadamard-2/exit-exam-prep/internal/auth"
	"github.com/hadamard-2/exit-exam-prep/internal/eventlog"
	"github.com/hadamard-2/exit-exam-prep/internal/quiz"
)

// User-visible messages; both load failures surface as one message per
// the upload flow, with the issue list alongside for review.
const (
	invalidFormatMsg = "Invalid quiz data format. Please check your JSON structure."
	noStoredDataMsg  = "No quiz data found. Please go back and upload a quiz file first."
)

const maxUploadBytes = 5 << 20

// CreateQuiz starts a session from an uploaded question document, or
// from the bundled sample when the body is empty. Responds with the
// session token the rest of the API requires.
func (s *Server) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	mode := quiz.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = quiz.ModeQuiz
	}
	if mode != quiz.ModeQuiz && mode != quiz.ModeReview {
		writeError(w, http.StatusBadRequest, "mode must be quiz or review")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	name := r.URL.Query().Get("name")
	var data *quiz.QuizData
	if len(bytes.TrimSpace(body)) == 0 {
		data = quiz.Sample()
		if name == "" {
			name = "sample"
		}
	} else {
		data, err = quiz.Parse(body, mode)
		var se *quiz.SchemaError
		switch {
		case errors.As(err, &se):
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": invalidFormatMsg, "issues": se.Issues})
			return
		case errors.Is(err, quiz.ErrMalformedJSON):
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": invalidFormatMsg, "issues": []string{err.Error()}})
			return
		case err != nil:
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	sessionID := uuid.NewString()
	sess, err := s.sessions.Create(r.Context(), sessionID, data, name, mode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create session: "+err.Error())
		return
	}
	token, err := s.auth.IssueToken(sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "issue token: "+err.Error())
		return
	}

	_ = s.events.Append(r.Context(), sessionID, eventlog.TypeQuizUploaded,
		eventData(map[string]any{"mode": mode, "name": sess.Name(), "questions": len(sess.Questions())}))

	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": sessionID,
		"token":      token,
		"mode":       sess.Mode(),
		"name":       sess.Name(),
		"questions":  sess.Questions(),
	})
}

// GetQuiz returns the session's question set, or the no-stored-data
// message when the session has none behind it.
func (s *Server) GetQuiz(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":      sess.Mode(),
		"name":      sess.Name(),
		"questions": sess.Questions(),
	})
}

// session resolves the request's quiz session, writing the error
// response itself when there is none.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*quiz.Session, bool) {
	sid := auth.SessionFromContext(r.Context())
	sess, err := s.sessions.Get(r.Context(), sid)
	if err != nil {
		if errors.Is(err, quiz.ErrNoStoredData) {
			writeError(w, http.StatusNotFound, noStoredDataMsg)
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return sess, true
}
