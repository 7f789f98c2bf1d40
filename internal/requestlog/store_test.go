package requestlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteWriter_WriteAndRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.db")
	w, err := NewSQLiteWriter(path)
	if err != nil {
		t.Fatalf("new sqlite writer: %v", err)
	}
	t.Cleanup(func() {
		_ = w.Close()
	})

	now := time.Now().UTC()
	entries := []Entry{
		{
			TraceID:    "trace-1",
			Question:   "What is the cultural significance of the Taj Mahal?",
			Provider:   "huggingface",
			Model:      "mistralai/Mistral-7B-Instruct",
			CacheHit:   false,
			DurationMs: 820,
			CreatedAt:  now.Add(-2 * time.Hour),
		},
		{
			TraceID:    "trace-2",
			Question:   "What is the cultural significance of the Taj Mahal?",
			Provider:   "huggingface",
			Model:      "mistralai/Mistral-7B-Instruct",
			CacheHit:   true,
			DurationMs: 2,
			CreatedAt:  now.Add(-1 * time.Hour),
		},
		{
			TraceID:      "trace-3",
			Question:     "Describe Noh theatre.",
			Provider:     "openai",
			Model:        "gpt-4o-mini",
			CacheHit:     false,
			DurationMs:   30,
			ErrorMessage: "provider timeout",
			CreatedAt:    now,
		},
	}

	for _, entry := range entries {
		if err := w.Write(context.Background(), entry); err != nil {
			t.Fatalf("write question log entry: %v", err)
		}
	}

	got, err := w.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].TraceID != "trace-3" {
		t.Errorf("newest entry trace = %q, want trace-3", got[0].TraceID)
	}
	if got[0].ErrorMessage != "provider timeout" {
		t.Errorf("error message = %q", got[0].ErrorMessage)
	}
	if !got[1].CacheHit {
		t.Error("expected trace-2 to record a cache hit")
	}
}

func TestSQLiteWriter_RecentLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.db")
	w, err := NewSQLiteWriter(path)
	if err != nil {
		t.Fatalf("new sqlite writer: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	for i := 0; i < 5; i++ {
		entry := Entry{
			Question:   "q",
			Provider:   "huggingface",
			DurationMs: int64(i),
			CreatedAt:  time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		if err := w.Write(context.Background(), entry); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	got, err := w.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d entries, want 2", len(got))
	}
}

func TestNoopWriter(t *testing.T) {
	var w Writer = NoopWriter{}
	if err := w.Write(context.Background(), Entry{Question: "q"}); err != nil {
		t.Errorf("noop write returned error: %v", err)
	}
}
