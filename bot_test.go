package culturebot

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/AGC-Technical-Team/CultureBot/internal/cache"
	"github.com/AGC-Technical-Team/CultureBot/providers"
)

type fakeProvider struct {
	answer string
	err    error
	calls  atomic.Int32
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }
func (f *fakeProvider) Generate(_ context.Context, _ string) (*providers.Answer, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &providers.Answer{Text: f.answer, Model: "fake-model", Provider: "fake"}, nil
}

func TestBot_AskMissThenHit(t *testing.T) {
	p := &fakeProvider{answer: "Kabuki is a classical Japanese dance-drama."}
	bot := NewBot(p, cache.NewMemory(10), nil)
	ctx := context.Background()

	res, err := bot.Ask(ctx, "What is kabuki?")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if res.Cached {
		t.Error("first ask should not be cached")
	}
	if res.Answer != p.answer {
		t.Errorf("answer = %q", res.Answer)
	}

	res, err = bot.Ask(ctx, "What is kabuki?")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if !res.Cached {
		t.Error("second ask should be served from cache")
	}
	if res.Answer != p.answer {
		t.Errorf("cached answer = %q", res.Answer)
	}
	if n := p.calls.Load(); n != 1 {
		t.Errorf("provider called %d times, want 1", n)
	}
}

func TestBot_AskProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("model unavailable")}
	bot := NewBot(p, cache.NewMemory(10), nil)

	_, err := bot.Ask(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected provider error to surface")
	}

	// A failed generation must not poison the cache.
	p.err = nil
	p.answer = "recovered"
	res, err := bot.Ask(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Ask() after recovery: %v", err)
	}
	if res.Cached {
		t.Error("answer after failure should come from the model, not the cache")
	}
	if res.Answer != "recovered" {
		t.Errorf("answer = %q", res.Answer)
	}
}

func TestBot_AskKeyExactness(t *testing.T) {
	p := &fakeProvider{answer: "a"}
	bot := NewBot(p, cache.NewMemory(10), nil)
	ctx := context.Background()

	if _, err := bot.Ask(ctx, "Foo"); err != nil {
		t.Fatal(err)
	}
	if _, err := bot.Ask(ctx, "foo"); err != nil {
		t.Fatal(err)
	}
	if n := p.calls.Load(); n != 2 {
		t.Errorf("provider called %d times, want 2 (no key normalization)", n)
	}
}

func TestBot_CacheIsPureOptimization(t *testing.T) {
	// A cache that always misses and drops writes must not affect answers.
	p := &fakeProvider{answer: "fresh"}
	r := cache.NewRedis("localhost:1", "", 0, 0) // unreachable, fails soft
	t.Cleanup(func() { _ = r.Close() })
	bot := NewBot(p, r, nil)

	for i := 0; i < 2; i++ {
		res, err := bot.Ask(context.Background(), "q")
		if err != nil {
			t.Fatalf("Ask() with broken cache: %v", err)
		}
		if res.Cached || res.Answer != "fresh" {
			t.Errorf("res = %+v", res)
		}
	}
	if n := p.calls.Load(); n != 2 {
		t.Errorf("provider called %d times, want 2", n)
	}
}
