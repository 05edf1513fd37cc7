package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hadamard-2/exit-exam-prep/internal/kv"
)

// Fixed storage keys, scoped per session by a kv prefix.
const (
	ProgressKey  = "quizProgress"
	QuestionsKey = "quizData"
)

var ErrCompleted = errors.New("quiz: already completed")

// Progress is the serializable snapshot of in-flight quiz state.
// Score is only meaningful once Completed is true.
type Progress struct {
	CurrentQuestionIndex int          `json:"currentQuestionIndex"`
	SelectedAnswers      map[int]int  `json:"selectedAnswers"`  // question id -> choice index
	ExplanationShown     map[int]bool `json:"explanationShown"` // question id -> shown
	Completed            bool         `json:"completed"`
	Score                int          `json:"score"`
}

func newProgress() Progress {
	return Progress{
		SelectedAnswers:  map[int]int{},
		ExplanationShown: map[int]bool{},
	}
}

// Result is the one-shot export produced when the quiz completes.
type Result struct {
	Score    int
	Total    int
	Filename string
	Data     QuizData // questions with user_answer populated
}

// Session drives one quiz through InProgress(index) -> Completed(score).
// Every mutation is written through to the session's kv store; a prior
// stored snapshot, if it parses, replaces the initial state on open.
type Session struct {
	mu        sync.Mutex
	questions []Question
	name      string
	mode      Mode
	progress  Progress
	store     kv.Store
	now       func() time.Time
}

func NewSession(data *QuizData, name string, mode Mode, store kv.Store) *Session {
	if name == "" {
		name = "quiz"
	}
	s := &Session{
		questions: data.Questions,
		name:      name,
		mode:      mode,
		progress:  newProgress(),
		store:     store,
		now:       time.Now,
	}
	if mode == ModeReview {
		s.seedRecordedAnswers()
	}
	s.restore()
	return s
}

// seedRecordedAnswers maps each question's user_answer onto the
// selection state, so a review session navigates without re-answering
// and its forward gate is open from the start.
func (s *Session) seedRecordedAnswers() {
	for _, q := range s.questions {
		if q.UserAnswer == nil {
			continue
		}
		for i, c := range q.Choices {
			if c.ID == *q.UserAnswer {
				s.progress.SelectedAnswers[q.ID] = i
				s.progress.ExplanationShown[q.ID] = true
				break
			}
		}
	}
}

// restore loads persisted progress. Corrupted or out-of-range state is
// discarded silently: a broken snapshot must not brick the quiz.
func (s *Session) restore() {
	raw, err := s.store.Get(context.Background(), ProgressKey)
	if err != nil {
		return
	}
	var p Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	if p.CurrentQuestionIndex < 0 || p.CurrentQuestionIndex >= len(s.questions) {
		return
	}
	if p.SelectedAnswers == nil {
		p.SelectedAnswers = map[int]int{}
	}
	if p.ExplanationShown == nil {
		p.ExplanationShown = map[int]bool{}
	}
	s.progress = p
}

func (s *Session) persist(ctx context.Context) error {
	buf, err := json.Marshal(s.progress)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, ProgressKey, buf)
}

func (s *Session) Name() string { return s.name }
func (s *Session) Mode() Mode   { return s.mode }

func (s *Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProgress(s.progress)
}

// Current returns the question at the current index.
func (s *Session) Current() (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress.Completed || s.progress.CurrentQuestionIndex >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[s.progress.CurrentQuestionIndex], true
}

func (s *Session) QuestionByID(id int) (Question, bool) {
	for _, q := range s.questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// SelectAnswer records a choice for a question and marks its
// explanation shown. Re-selecting overwrites freely; the explanation
// flag never flips back.
func (s *Session) SelectAnswer(ctx context.Context, questionID, choiceIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress.Completed {
		return ErrCompleted
	}
	q, ok := s.QuestionByID(questionID)
	if !ok {
		return fmt.Errorf("quiz: unknown question %d", questionID)
	}
	if choiceIndex < 0 || choiceIndex >= len(q.Choices) {
		return fmt.Errorf("quiz: choice index %d out of range for question %d", choiceIndex, questionID)
	}
	s.progress.SelectedAnswers[questionID] = choiceIndex
	s.progress.ExplanationShown[questionID] = true
	return s.persist(ctx)
}

// CanGoBack reports whether retreat is possible.
func (s *Session) CanGoBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.progress.Completed && s.progress.CurrentQuestionIndex > 0
}

// CanGoForward reports whether the current question has a recorded
// answer. Callers must check it before Advance.
func (s *Session) CanGoForward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress.Completed {
		return false
	}
	q := s.questions[s.progress.CurrentQuestionIndex]
	_, ok := s.progress.SelectedAnswers[q.ID]
	return ok
}

// Advance moves to the next question, or on the last question completes
// the quiz: computes the score, clears persisted progress and returns
// the export artifact. Gate with CanGoForward; Advance itself does not
// re-validate the current answer.
func (s *Session) Advance(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress.Completed {
		return nil, ErrCompleted
	}
	if s.progress.CurrentQuestionIndex < len(s.questions)-1 {
		s.progress.CurrentQuestionIndex++
		return nil, s.persist(ctx)
	}

	s.progress.Score = s.score()
	s.progress.Completed = true
	res := &Result{
		Score:    s.progress.Score,
		Total:    len(s.questions),
		Filename: fmt.Sprintf("%s-done-%d.json", s.name, s.now().Unix()),
		Data:     s.answeredQuestions(),
	}
	if err := s.store.Delete(ctx, ProgressKey); err != nil {
		return nil, err
	}
	return res, nil
}

// Retreat steps back one question; no-op at index 0. Never clears an
// answer.
func (s *Session) Retreat(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress.Completed {
		return ErrCompleted
	}
	if s.progress.CurrentQuestionIndex == 0 {
		return nil
	}
	s.progress.CurrentQuestionIndex--
	return s.persist(ctx)
}

// Reset returns to the initial state at index 0 and clears persisted
// progress. Review sessions keep their recorded answers.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = newProgress()
	if s.mode == ModeReview {
		s.seedRecordedAnswers()
	}
	return s.store.Delete(ctx, ProgressKey)
}

// score counts questions whose selected choice id matches the answer
// key. Match is by choice id, not by index.
func (s *Session) score() int {
	n := 0
	for _, q := range s.questions {
		idx, ok := s.progress.SelectedAnswers[q.ID]
		if !ok || idx < 0 || idx >= len(q.Choices) {
			continue
		}
		if q.Choices[idx].ID == q.CorrectAnswer {
			n++
		}
	}
	return n
}

func (s *Session) answeredQuestions() QuizData {
	out := QuizData{Questions: make([]Question, len(s.questions))}
	copy(out.Questions, s.questions)
	for i, q := range out.Questions {
		idx, ok := s.progress.SelectedAnswers[q.ID]
		if !ok || idx < 0 || idx >= len(q.Choices) {
			continue
		}
		id := q.Choices[idx].ID
		out.Questions[i].UserAnswer = &id
	}
	return out
}

func copyProgress(p Progress) Progress {
	out := p
	out.SelectedAnswers = make(map[int]int, len(p.SelectedAnswers))
	for k, v := range p.SelectedAnswers {
		out.SelectedAnswers[k] = v
	}
	out.ExplanationShown = make(map[int]bool, len(p.ExplanationShown))
	for k, v := range p.ExplanationShown {
		out.ExplanationShown[k] = v
	}
	return out
}
