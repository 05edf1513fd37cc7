package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hadamard-2/exit-exam-prep/internal/auth"
	"github.com/hadamard-2/exit-exam-prep/internal/chat"
	"github.com/hadamard-2/exit-exam-prep/internal/quiz"
)

// chatSession resolves the thread for the question in the URL, writing
// the error response itself on failure.
func (s *Server) chatSession(w http.ResponseWriter, r *http.Request) (*chat.Session, bool) {
	sess, ok := s.session(w, r)
	if !ok {
		return nil, false
	}
	qid, err := strconv.Atoi(chi.URLParam(r, "questionID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad question id")
		return nil, false
	}
	q, ok := sess.QuestionByID(qid)
	if !ok {
		writeError(w, http.StatusNotFound, "question not found")
		return nil, false
	}
	q = withRecordedAnswer(sess, q)
	return s.chatManager(auth.SessionFromContext(r.Context())).ForQuestion(q), true
}

// withRecordedAnswer folds the quiz-mode selection into user_answer so
// the prompt reflects what the student actually picked. Review uploads
// already carry user_answer.
func withRecordedAnswer(sess *quiz.Session, q quiz.Question) quiz.Question {
	if q.UserAnswer != nil {
		return q
	}
	if idx, ok := sess.Progress().SelectedAnswers[q.ID]; ok && idx >= 0 && idx < len(q.Choices) {
		id := q.Choices[idx].ID
		q.UserAnswer = &id
	}
	return q
}

func (s *Server) GetChat(w http.ResponseWriter, r *http.Request) {
	cs, ok := s.chatSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": cs.Messages()})
}

// SendChatMessage appends the user's text and a pending assistant
// placeholder, resolved asynchronously. Whitespace-only text appends
// nothing.
func (s *Server) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	cs, ok := s.chatSession(w, r)
	if !ok {
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	accepted := cs.Send(req.Message)
	writeJSON(w, http.StatusOK, map[string]any{
		"accepted": accepted,
		"messages": cs.Messages(),
	})
}

func (s *Server) ClearChat(w http.ResponseWriter, r *http.Request) {
	cs, ok := s.chatSession(w, r)
	if !ok {
		return
	}
	cs.Clear()
	writeJSON(w, http.StatusOK, map[string]any{"messages": cs.Messages()})
}
