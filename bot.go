package culturebot

import (
	"context"
	"time"

	"github.com/AGC-Technical-Team/CultureBot/internal/cache"
	"github.com/AGC-Technical-Team/CultureBot/internal/logging"
	"github.com/AGC-Technical-Team/CultureBot/internal/metrics"
	"github.com/AGC-Technical-Team/CultureBot/internal/requestlog"
	"github.com/AGC-Technical-Team/CultureBot/providers"
)

// Bot answers culture and arts questions: cache lookup first, then the
// upstream provider, then a best-effort cache write. A Bot owns exactly one
// cache instance; construct a fresh one per test for isolation.
type Bot struct {
	provider providers.Provider
	cache    cache.Cache
	qlog     requestlog.Writer
}

// Result is an answered question together with where the answer came from.
type Result struct {
	Answer   string
	Model    string
	Provider string
	// Cached reports whether the answer was served from the cache.
	Cached bool
}

// NewBot creates a Bot. qlog may be nil to disable the question log.
func NewBot(p providers.Provider, c cache.Cache, qlog requestlog.Writer) *Bot {
	if qlog == nil {
		qlog = requestlog.NoopWriter{}
	}
	return &Bot{provider: p, cache: c, qlog: qlog}
}

// Provider returns the upstream provider the Bot generates answers with.
func (b *Bot) Provider() providers.Provider { return b.provider }

// Ask answers a question. The question text is used verbatim as the cache
// key. Cache failures degrade to a miss and never surface; provider failures
// are returned to the caller.
func (b *Bot) Ask(ctx context.Context, question string) (*Result, error) {
	start := time.Now()
	log := logging.FromContext(ctx)

	if answer, ok := b.cache.Get(ctx, question); ok {
		log.Info("cache hit", "question", question)
		metrics.QuestionsTotal.WithLabelValues("success", "cache").Inc()
		metrics.RequestDuration.Observe(time.Since(start).Seconds())
		b.writeLog(ctx, question, true, time.Since(start), nil)
		return &Result{
			Answer:   answer,
			Model:    b.provider.Model(),
			Provider: b.provider.Name(),
			Cached:   true,
		}, nil
	}

	ans, err := b.provider.Generate(ctx, question)
	if err != nil {
		log.Error("answer generation failed", "question", question, "error", err)
		metrics.QuestionsTotal.WithLabelValues("error", "model").Inc()
		metrics.ProviderErrors.WithLabelValues(b.provider.Name()).Inc()
		metrics.RequestDuration.Observe(time.Since(start).Seconds())
		b.writeLog(ctx, question, false, time.Since(start), err)
		return nil, err
	}

	b.cache.Set(ctx, question, ans.Text)

	log.Info("answer generated", "question", question, "provider", ans.Provider,
		"model", ans.Model, "total_tokens", ans.Usage.TotalTokens)
	metrics.QuestionsTotal.WithLabelValues("success", "model").Inc()
	metrics.RequestDuration.Observe(time.Since(start).Seconds())
	b.writeLog(ctx, question, false, time.Since(start), nil)

	return &Result{
		Answer:   ans.Text,
		Model:    ans.Model,
		Provider: ans.Provider,
		Cached:   false,
	}, nil
}

// writeLog records the question asynchronously. The ask flow never waits on
// or fails because of the question log.
func (b *Bot) writeLog(ctx context.Context, question string, cached bool, elapsed time.Duration, askErr error) {
	entry := requestlog.Entry{
		TraceID:    logging.TraceIDFromContext(ctx),
		Question:   question,
		Provider:   b.provider.Name(),
		Model:      b.provider.Model(),
		CacheHit:   cached,
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if askErr != nil {
		entry.ErrorMessage = askErr.Error()
	}

	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := b.qlog.Write(writeCtx, entry); err != nil {
			logging.Logger.Warn("question log write failed", "error", err)
		}
	}()
}
