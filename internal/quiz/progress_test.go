package quiz_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hadamard-2/exit-exam-prep/internal/kv"
	"github.com/hadamard-2/exit-exam-prep/internal/quiz"
)

func newSampleSession(t *testing.T, store kv.Store) *quiz.Session {
	t.Helper()
	return quiz.NewSession(quiz.Sample(), "sample", quiz.ModeQuiz, store)
}

// choiceIndex returns the index of the choice with the given id.
func choiceIndex(t *testing.T, q quiz.Question, choiceID int) int {
	t.Helper()
	for i, c := range q.Choices {
		if c.ID == choiceID {
			return i
		}
	}
	t.Fatalf("question %d has no choice id %d", q.ID, choiceID)
	return -1
}

func answerCorrectly(t *testing.T, s *quiz.Session, q quiz.Question) {
	t.Helper()
	if err := s.SelectAnswer(context.Background(), q.ID, choiceIndex(t, q, q.CorrectAnswer)); err != nil {
		t.Fatalf("SelectAnswer(q%d): %v", q.ID, err)
	}
}

func TestAdvanceThroughCompletesWithScore(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	s := newSampleSession(t, store)
	questions := s.Questions()

	var res *quiz.Result
	for range questions {
		q, ok := s.Current()
		if !ok {
			t.Fatal("Current returned no question mid-quiz")
		}
		answerCorrectly(t, s, q)
		if !s.CanGoForward() {
			t.Fatalf("CanGoForward false after answering q%d", q.ID)
		}
		var err error
		res, err = s.Advance(ctx)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	if res == nil {
		t.Fatal("final Advance returned no result")
	}
	if res.Score != len(questions) || res.Total != len(questions) {
		t.Fatalf("score = %d/%d, want %d/%d", res.Score, res.Total, len(questions), len(questions))
	}
	if !s.Progress().Completed {
		t.Fatal("session not completed")
	}
	if !strings.HasPrefix(res.Filename, "sample-done-") || !strings.HasSuffix(res.Filename, ".json") {
		t.Fatalf("filename = %q", res.Filename)
	}
	for _, q := range res.Data.Questions {
		if q.UserAnswer == nil || *q.UserAnswer != q.CorrectAnswer {
			t.Fatalf("export q%d user_answer = %v, want %d", q.ID, q.UserAnswer, q.CorrectAnswer)
		}
	}
	// completion clears persisted progress
	if _, err := store.Get(ctx, quiz.ProgressKey); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("stored progress after completion: err = %v, want ErrNotFound", err)
	}
	// terminal state rejects further mutation
	if _, err := s.Advance(ctx); !errors.Is(err, quiz.ErrCompleted) {
		t.Fatalf("Advance after completion: %v", err)
	}
	if err := s.SelectAnswer(ctx, questions[0].ID, 0); !errors.Is(err, quiz.ErrCompleted) {
		t.Fatalf("SelectAnswer after completion: %v", err)
	}
}

// Scoring matches by choice id, not position: a reordered id space must
// still count the id-equal selection as correct.
func TestScoreMatchesByIDNotIndex(t *testing.T) {
	ctx := context.Background()
	data := &quiz.QuizData{Questions: []quiz.Question{{
		ID:            1,
		Question:      "pick",
		CorrectAnswer: 1,
		Choices: []quiz.Choice{
			{ID: 3, Text: "a", Explanation: "x"},
			{ID: 1, Text: "b", Explanation: "x"},
			{ID: 2, Text: "c", Explanation: "x"},
		},
	}}}
	s := quiz.NewSession(data, "t", quiz.ModeQuiz, kv.NewMemory())
	if err := s.SelectAnswer(ctx, 1, 1); err != nil { // index 1 carries id 1
		t.Fatalf("SelectAnswer: %v", err)
	}
	res, err := s.Advance(ctx)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if res.Score != 1 {
		t.Fatalf("score = %d, want 1", res.Score)
	}
}

// reviewData builds a two-question set carrying recorded answers, the
// shape a review upload produces: q1 answered correctly (id 2), q2
// incorrectly (id 1).
func reviewData() *quiz.QuizData {
	right, wrong := 2, 1
	return &quiz.QuizData{Questions: []quiz.Question{
		{
			ID: 1, Question: "first?", CorrectAnswer: 2, UserAnswer: &right,
			Choices: []quiz.Choice{
				{ID: 1, Text: "a", Explanation: "x"},
				{ID: 2, Text: "b", Explanation: "x"},
			},
		},
		{
			ID: 2, Question: "second?", CorrectAnswer: 2, UserAnswer: &wrong,
			Choices: []quiz.Choice{
				{ID: 1, Text: "a", Explanation: "x"},
				{ID: 2, Text: "b", Explanation: "x"},
			},
		},
	}}
}

// A review session starts with its recorded answers in place, so the
// forward gate is open without any new selection.
func TestReviewSessionNavigatesOnRecordedAnswers(t *testing.T) {
	ctx := context.Background()
	s := quiz.NewSession(reviewData(), "attempt", quiz.ModeReview, kv.NewMemory())

	p := s.Progress()
	if p.SelectedAnswers[1] != 1 || p.SelectedAnswers[2] != 0 {
		t.Fatalf("seeded selections = %v", p.SelectedAnswers)
	}
	if !p.ExplanationShown[1] || !p.ExplanationShown[2] {
		t.Fatalf("seeded explanation flags = %v", p.ExplanationShown)
	}
	if !s.CanGoForward() {
		t.Fatal("CanGoForward false on fresh review session")
	}

	if _, err := s.Advance(ctx); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !s.CanGoForward() {
		t.Fatal("CanGoForward false on second review question")
	}
	res, err := s.Advance(ctx)
	if err != nil {
		t.Fatalf("final Advance: %v", err)
	}
	if res == nil || res.Score != 1 || res.Total != 2 {
		t.Fatalf("result = %+v, want score 1/2", res)
	}
}

func TestReviewResetKeepsRecordedAnswers(t *testing.T) {
	ctx := context.Background()
	s := quiz.NewSession(reviewData(), "attempt", quiz.ModeReview, kv.NewMemory())
	if _, err := s.Advance(ctx); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	p := s.Progress()
	if p.CurrentQuestionIndex != 0 {
		t.Fatalf("index after reset = %d", p.CurrentQuestionIndex)
	}
	if len(p.SelectedAnswers) != 2 || !s.CanGoForward() {
		t.Fatalf("recorded answers lost on reset: %v", p.SelectedAnswers)
	}
}

func TestRetreatAtZeroIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newSampleSession(t, kv.NewMemory())
	if s.CanGoBack() {
		t.Fatal("CanGoBack true at index 0")
	}
	if err := s.Retreat(ctx); err != nil {
		t.Fatalf("Retreat: %v", err)
	}
	if got := s.Progress().CurrentQuestionIndex; got != 0 {
		t.Fatalf("index = %d, want 0", got)
	}
}

func TestNavigationPredicates(t *testing.T) {
	ctx := context.Background()
	s := newSampleSession(t, kv.NewMemory())
	if s.CanGoForward() {
		t.Fatal("CanGoForward true before any answer")
	}
	q, _ := s.Current()
	answerCorrectly(t, s, q)
	if !s.CanGoForward() {
		t.Fatal("CanGoForward false after answer")
	}
	if _, err := s.Advance(ctx); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !s.CanGoBack() {
		t.Fatal("CanGoBack false at index 1")
	}
	if err := s.Retreat(ctx); err != nil {
		t.Fatalf("Retreat: %v", err)
	}
	// retreating never clears the recorded answer
	if !s.CanGoForward() {
		t.Fatal("answer lost on retreat")
	}
}

func TestSelectAnswerOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newSampleSession(t, kv.NewMemory())
	q, _ := s.Current()
	if err := s.SelectAnswer(ctx, q.ID, 0); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	if err := s.SelectAnswer(ctx, q.ID, 1); err != nil {
		t.Fatalf("re-select: %v", err)
	}
	p := s.Progress()
	if p.SelectedAnswers[q.ID] != 1 {
		t.Fatalf("selected = %d, want 1", p.SelectedAnswers[q.ID])
	}
	if !p.ExplanationShown[q.ID] {
		t.Fatal("explanation flag dropped on re-select")
	}
}

func TestSelectAnswerValidates(t *testing.T) {
	ctx := context.Background()
	s := newSampleSession(t, kv.NewMemory())
	if err := s.SelectAnswer(ctx, 999, 0); err == nil {
		t.Fatal("unknown question accepted")
	}
	q, _ := s.Current()
	if err := s.SelectAnswer(ctx, q.ID, len(q.Choices)); err == nil {
		t.Fatal("out-of-range choice index accepted")
	}
}

func TestResetClearsStateAndStore(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	s := newSampleSession(t, store)
	q, _ := s.Current()
	answerCorrectly(t, s, q)
	if _, err := s.Advance(ctx); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	want := quiz.Progress{SelectedAnswers: map[int]int{}, ExplanationShown: map[int]bool{}}
	if got := s.Progress(); !reflect.DeepEqual(got, want) {
		t.Fatalf("progress after reset = %+v", got)
	}
	if _, err := store.Get(ctx, quiz.ProgressKey); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("stored progress after reset: err = %v, want ErrNotFound", err)
	}
}

func TestProgressRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	s1 := newSampleSession(t, store)
	q, _ := s1.Current()
	answerCorrectly(t, s1, q)
	if _, err := s1.Advance(ctx); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	s2 := newSampleSession(t, store)
	if !reflect.DeepEqual(s1.Progress(), s2.Progress()) {
		t.Fatalf("restored progress differs:\n%+v\n%+v", s1.Progress(), s2.Progress())
	}
}

func TestCorruptedStoredProgressFailsOpen(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string][]byte{
		"not json":           []byte("{nope"),
		"index out of range": mustJSON(t, quiz.Progress{CurrentQuestionIndex: 99}),
		"negative index":     mustJSON(t, quiz.Progress{CurrentQuestionIndex: -1}),
	} {
		store := kv.NewMemory()
		if err := store.Set(ctx, quiz.ProgressKey, raw); err != nil {
			t.Fatalf("%s: seed: %v", name, err)
		}
		s := newSampleSession(t, store)
		p := s.Progress()
		if p.CurrentQuestionIndex != 0 || p.Completed || len(p.SelectedAnswers) != 0 {
			t.Fatalf("%s: progress = %+v, want initial", name, p)
		}
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	buf, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return buf
}
