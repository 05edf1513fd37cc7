package quiz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hadamard-2/exit-exam-prep/internal/kv"
	"github.com/hadamard-2/exit-exam-prep/internal/quiz"
)

func TestManagerRebuildsFromStore(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	m1 := quiz.NewManager(store)
	s1, err := m1.Create(ctx, "sess-1", quiz.Sample(), "sample", quiz.ModeQuiz)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	q, _ := s1.Current()
	if err := s1.SelectAnswer(ctx, q.ID, 0); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}

	// fresh manager over the same store, as after a restart
	m2 := quiz.NewManager(store)
	s2, err := m2.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(s2.Questions()) != len(s1.Questions()) {
		t.Fatal("question set not restored")
	}
	if s2.Progress().SelectedAnswers[q.ID] != 0 {
		t.Fatal("progress not restored")
	}
	if s2.Mode() != quiz.ModeQuiz || s2.Name() != "sample" {
		t.Fatalf("metadata not restored: %s/%s", s2.Mode(), s2.Name())
	}
}

func TestManagerGetUnknownSession(t *testing.T) {
	m := quiz.NewManager(kv.NewMemory())
	if _, err := m.Get(context.Background(), "nope"); !errors.Is(err, quiz.ErrNoStoredData) {
		t.Fatalf("err = %v, want ErrNoStoredData", err)
	}
}

func TestManagerDelete(t *testing.T) {
	ctx := context.Background()
	m := quiz.NewManager(kv.NewMemory())
	if _, err := m.Create(ctx, "sess-1", quiz.Sample(), "sample", quiz.ModeQuiz); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(ctx, "sess-1"); !errors.Is(err, quiz.ErrNoStoredData) {
		t.Fatalf("err after delete = %v, want ErrNoStoredData", err)
	}
}

func TestManagerSessionsIsolated(t *testing.T) {
	ctx := context.Background()
	m := quiz.NewManager(kv.NewMemory())
	a, _ := m.Create(ctx, "a", quiz.Sample(), "sample", quiz.ModeQuiz)
	b, _ := m.Create(ctx, "b", quiz.Sample(), "sample", quiz.ModeQuiz)

	q, _ := a.Current()
	if err := a.SelectAnswer(ctx, q.ID, 1); err != nil {
		t.Fatalf("SelectAnswer: %v", err)
	}
	if len(b.Progress().SelectedAnswers) != 0 {
		t.Fatal("session b saw session a's answer")
	}
}
