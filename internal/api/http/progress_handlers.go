package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hadamard-2/exit-exam-prep/internal/auth"
	"github.com/hadamard-2/exit-exam-prep/internal/eventlog"
	"github.com/hadamard-2/exit-exam-prep/internal/quiz"
)

type progressView struct {
	Progress     quiz.Progress `json:"progress"`
	CanGoBack    bool          `json:"can_go_back"`
	CanGoForward bool          `json:"can_go_forward"`
}

func viewOf(sess *quiz.Session) progressView {
	return progressView{
		Progress:     sess.Progress(),
		CanGoBack:    sess.CanGoBack(),
		CanGoForward: sess.CanGoForward(),
	}
}

func (s *Server) GetProgress(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) SelectAnswer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		QuestionID  int `json:"question_id"`
		ChoiceIndex int `json:"choice_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if err := sess.SelectAnswer(r.Context(), req.QuestionID, req.ChoiceIndex); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	_ = s.events.Append(r.Context(), auth.SessionFromContext(r.Context()), eventlog.TypeAnswerSelected,
		eventData(map[string]int{"question_id": req.QuestionID, "choice_index": req.ChoiceIndex}))
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// Advance is gated on the forward predicate; on the last question it
// completes the quiz, stores the export artifact and reports the score.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if !sess.CanGoForward() {
		writeError(w, http.StatusConflict, "select an answer first")
		return
	}
	res, err := sess.Advance(r.Context())
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if res == nil {
		writeJSON(w, http.StatusOK, viewOf(sess))
		return
	}

	sid := auth.SessionFromContext(r.Context())
	buf, err := json.MarshalIndent(res.Data, "", "  ")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := s.blobs.Put("results/"+sid+"/"+res.Filename, strings.NewReader(string(buf))); err != nil {
		writeError(w, http.StatusInternalServerError, "store result: "+err.Error())
		return
	}
	_ = s.events.Append(r.Context(), sid, eventlog.TypeQuizCompleted,
		eventData(map[string]int{"score": res.Score, "total": res.Total}))

	writeJSON(w, http.StatusOK, map[string]any{
		"completed": true,
		"score":     res.Score,
		"total":     res.Total,
		"result":    res.Filename,
	})
}

func (s *Server) Retreat(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Retreat(r.Context()); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = s.events.Append(r.Context(), auth.SessionFromContext(r.Context()), eventlog.TypeProgressReset, "")
	writeJSON(w, http.StatusOK, viewOf(sess))
}

// DownloadResult serves a stored export as a browser download.
func (s *Server) DownloadResult(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		writeError(w, http.StatusBadRequest, "bad filename")
		return
	}
	sid := auth.SessionFromContext(r.Context())
	rc, err := s.blobs.Get("results/" + sid + "/" + filename)
	if err != nil {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = io.Copy(w, rc)
}
