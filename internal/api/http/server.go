// Package http carries the service's HTTP surface: quiz upload and
// retrieval, progress navigation, result download, per-question chat
// and the admin wipe endpoint.
package http

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/hadamard-2/exit-exam-prep/internal/auth"
	"github.com/hadamard-2/exit-exam-prep/internal/chat"
	"github.com/hadamard-2/exit-exam-prep/internal/eventlog"
	"github.com/hadamard-2/exit-exam-prep/internal/quiz"
	"github.com/hadamard-2/exit-exam-prep/internal/storage"
)

type Server struct {
	sessions  *quiz.Manager
	auth      *auth.Service
	blobs     storage.BlobStore
	events    *eventlog.Repo
	completer chat.Completer

	adminPassHash string // bcrypt; empty disables /api/admin

	mu    sync.Mutex
	chats map[string]*chat.Manager // per quiz session
}

func NewServer(sessions *quiz.Manager, authSvc *auth.Service, blobs storage.BlobStore, events *eventlog.Repo, completer chat.Completer, adminPassHash string) *Server {
	return &Server{
		sessions:      sessions,
		auth:          authSvc,
		blobs:         blobs,
		events:        events,
		completer:     completer,
		adminPassHash: adminPassHash,
		chats:         map[string]*chat.Manager{},
	}
}

func (s *Server) Mount(r chi.Router) {
	r.Post("/api/quizzes", s.CreateQuiz)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(s.auth))
		pr.Get("/api/quiz", s.GetQuiz)

		pr.Get("/api/progress", s.GetProgress)
		pr.Post("/api/progress/answers", s.SelectAnswer)
		pr.Post("/api/progress/advance", s.Advance)
		pr.Post("/api/progress/retreat", s.Retreat)
		pr.Post("/api/progress/reset", s.Reset)

		pr.Get("/api/results/{filename}", s.DownloadResult)

		pr.Get("/api/questions/{questionID}/chat", s.GetChat)
		pr.Post("/api/questions/{questionID}/chat/messages", s.SendChatMessage)
		pr.Delete("/api/questions/{questionID}/chat", s.ClearChat)
	})

	r.Delete("/api/admin/sessions/{sessionID}", s.WipeSession)
	r.Get("/api/admin/sessions/{sessionID}/events", s.ListSessionEvents)
}

func (s *Server) chatManager(sessionID string) *chat.Manager {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.chats[sessionID]
	if !ok {
		m = chat.NewManager(s.completer)
		s.chats[sessionID] = m
	}
	return m
}

func (s *Server) dropChats(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chats, sessionID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func eventData(v any) string {
	buf, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(buf)
}
