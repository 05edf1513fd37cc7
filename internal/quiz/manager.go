package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/hadamard-2/exit-exam-prep/internal/kv"
)

// ErrNoStoredData means a session id has no question set behind it:
// the quiz/review page was opened without a prior upload.
var ErrNoStoredData = errors.New("quiz: no stored quiz data")

// storedSet is the QuestionsKey payload, enough to rebuild a session
// after a process restart.
type storedSet struct {
	Name      string     `json:"name"`
	Mode      Mode       `json:"mode"`
	Questions []Question `json:"questions"`
}

// Manager owns the live sessions and their kv namespaces. Sessions are
// cached in memory and lazily rebuilt from the store, so progress
// survives both page reloads and server restarts.
type Manager struct {
	mu       sync.Mutex
	store    kv.Store
	sessions map[string]*Session
}

func NewManager(store kv.Store) *Manager {
	return &Manager{store: store, sessions: map[string]*Session{}}
}

func (m *Manager) namespace(sessionID string) kv.Store {
	return kv.WithPrefix(m.store, "sessions/"+sessionID+"/")
}

// Create registers a new session for a validated question set and
// persists the set under the session's QuestionsKey.
func (m *Manager) Create(ctx context.Context, sessionID string, data *QuizData, name string, mode Mode) (*Session, error) {
	ns := m.namespace(sessionID)
	buf, err := json.Marshal(storedSet{Name: name, Mode: mode, Questions: data.Questions})
	if err != nil {
		return nil, err
	}
	if err := ns.Set(ctx, QuestionsKey, buf); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s := NewSession(data, name, mode, ns)
	m.sessions[sessionID] = s
	return s, nil
}

// Get returns the live session, rebuilding it from stored data when the
// process has restarted since upload.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[sessionID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	ns := m.namespace(sessionID)
	raw, err := ns.Get(ctx, QuestionsKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNoStoredData
		}
		return nil, err
	}
	var set storedSet
	if err := json.Unmarshal(raw, &set); err != nil || len(set.Questions) == 0 {
		return nil, ErrNoStoredData
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		return s, nil
	}
	s := NewSession(&QuizData{Questions: set.Questions}, set.Name, set.Mode, ns)
	m.sessions[sessionID] = s
	return s, nil
}

// Delete drops the live session and erases its stored keys.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	ns := m.namespace(sessionID)
	if err := ns.Delete(ctx, ProgressKey); err != nil {
		return err
	}
	return ns.Delete(ctx, QuestionsKey)
}
