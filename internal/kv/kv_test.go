package kv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hadamard-2/exit-exam-prep/internal/kv"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("Get missing: %v, want ErrNotFound", err)
	}
	if err := s.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v2" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("Get after delete: %v, want ErrNotFound", err)
	}
	// deleting a missing key is not an error
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("double delete: %v", err)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory()
	v := []byte("abc")
	if err := s.Set(ctx, "k", v); err != nil {
		t.Fatal(err)
	}
	v[0] = 'x'
	got, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller's slice: %q", got)
	}
}

func TestPrefixIsolation(t *testing.T) {
	ctx := context.Background()
	root := kv.NewMemory()
	a := kv.WithPrefix(root, "sessions/a/")
	b := kv.WithPrefix(root, "sessions/b/")

	if err := a.Set(ctx, "quizProgress", []byte("A")); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Get(ctx, "quizProgress"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("prefix leak: %v", err)
	}
	got, err := root.Get(ctx, "sessions/a/quizProgress")
	if err != nil || string(got) != "A" {
		t.Fatalf("root view = %q, %v", got, err)
	}
}
