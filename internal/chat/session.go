package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hadamard-2/exit-exam-prep/internal/quiz"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Greeting seeds every fresh session; FailureText replaces a pending
// placeholder when the completion call fails for any reason.
const (
	Greeting    = "Ask me anything about this question!"
	FailureText = "Sorry, I'm having trouble responding right now. Please try again."
)

type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Pending   bool      `json:"pending,omitempty"`
}

// Session is one question's chat thread. Send appends a user message
// and a pending assistant placeholder, then resolves the placeholder
// asynchronously by its own id, so overlapping sends cannot clobber
// each other.
type Session struct {
	mu        sync.Mutex
	question  quiz.Question
	completer Completer
	messages  []Message
	wg        sync.WaitGroup
	now       func() time.Time
	newID     func() string
}

func NewSession(q quiz.Question, completer Completer) *Session {
	s := &Session{
		question:  q,
		completer: completer,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	s.messages = []Message{s.greeting()}
	return s
}

func (s *Session) greeting() Message {
	return Message{ID: s.newID(), Sender: SenderAssistant, Text: Greeting, CreatedAt: s.now()}
}

func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Send appends the user's text and a pending placeholder, then issues
// exactly one completion call. Whitespace-only text is a no-op and
// reports false. The placeholder is always resolved in place, with the
// reply or with FailureText; never retried, never left pending.
func (s *Session) Send(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	s.mu.Lock()
	s.messages = append(s.messages, Message{
		ID: s.newID(), Sender: SenderUser, Text: text, CreatedAt: s.now(),
	})
	token := s.newID()
	s.messages = append(s.messages, Message{
		ID: token, Sender: SenderAssistant, CreatedAt: s.now(), Pending: true,
	})
	prompt := BuildSystemPrompt(&s.question)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		reply, err := s.completer.Complete(context.Background(), prompt, text)
		if err != nil {
			reply = FailureText
		}
		s.resolve(token, reply)
	}()
	return true
}

// resolve swaps the placeholder carrying the request token for the
// final text. A placeholder discarded by Clear is dropped silently.
func (s *Session) resolve(token, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == token && s.messages[i].Pending {
			s.messages[i].Text = text
			s.messages[i].Pending = false
			s.messages[i].CreatedAt = s.now()
			return
		}
	}
}

// SetQuestion replaces the prompt context for subsequent sends.
// In-flight completions keep the prompt they were built with.
func (s *Session) SetQuestion(q quiz.Question) {
	s.mu.Lock()
	s.question = q
	s.mu.Unlock()
}

// Clear discards the thread, leaving only the standing greeting.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = []Message{s.greeting()}
}

// Wait blocks until in-flight completion calls have resolved. Used on
// shutdown and in tests.
func (s *Session) Wait() { s.wg.Wait() }

// Manager hands out chat sessions keyed by question identity.
type Manager struct {
	mu        sync.Mutex
	completer Completer
	sessions  map[int]*Session
}

func NewManager(completer Completer) *Manager {
	return &Manager{completer: completer, sessions: map[int]*Session{}}
}

// ForQuestion returns the thread for a question, creating a fresh one
// seeded with the greeting on first visit. The caller passes the
// question as it currently stands, so a cached thread picks up answers
// recorded since its first contact.
func (m *Manager) ForQuestion(q quiz.Question) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[q.ID]; ok {
		s.SetQuestion(q)
		return s
	}
	s := NewSession(q, m.completer)
	m.sessions[q.ID] = s
	return s
}
