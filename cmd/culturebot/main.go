package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	culturebot "github.com/AGC-Technical-Team/CultureBot"
	"github.com/AGC-Technical-Team/CultureBot/internal/cache"
	"github.com/AGC-Technical-Team/CultureBot/internal/logging"
	"github.com/AGC-Technical-Team/CultureBot/internal/requestlog"
	"github.com/AGC-Technical-Team/CultureBot/internal/version"
	"github.com/AGC-Technical-Team/CultureBot/providers"
	"github.com/AGC-Technical-Team/CultureBot/web"
)

func main() {
	cfg := culturebot.DefaultConfig()
	if cfgPath := os.Getenv("CULTUREBOT_CONFIG"); cfgPath != "" {
		loaded, err := culturebot.LoadConfig(cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	culturebot.ApplyEnv(&cfg)
	if err := culturebot.ValidateConfig(cfg); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	provider, err := buildProvider(cfg.Provider)
	if err != nil {
		log.Fatalf("Provider setup: %v", err)
	}
	logging.Logger.Info("provider configured", "provider", provider.Name(), "model", provider.Model())

	answerCache := cache.New(cache.Options{
		UseRedis:      cfg.Cache.UseRedis,
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
		Capacity:      cfg.Cache.Capacity,
		TTL:           cfg.Cache.TTL(),
	}, logging.Logger)

	qlog, closeQlog := buildQuestionLog(cfg.Log)
	defer closeQlog()

	bot := culturebot.NewBot(provider, answerCache, qlog)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newRouter(bot, cfg.Server.CORSOrigins),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logging.Logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Logger.Error("shutdown error", "error", err)
		}
	}()

	logging.Logger.Info("CultureBot listening", "addr", cfg.Server.Addr, "version", version.Short())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		stop()
		log.Fatalf("Server error: %v", err) //nolint:gocritic
	}
	logging.Logger.Info("server stopped")
}

// buildProvider selects the upstream by config, falling back to whichever API
// key is present in the environment when the configured one is missing.
func buildProvider(cfg culturebot.ProviderConfig) (providers.Provider, error) {
	hfToken := os.Getenv("HF_TOKEN")
	openaiKey := os.Getenv("OPENAI_API_KEY")

	name := cfg.Name
	switch {
	case name == culturebot.ProviderOpenAI && openaiKey == "":
		return nil, errors.New("provider openai selected but OPENAI_API_KEY is not set")
	case name == culturebot.ProviderHuggingFace && hfToken == "" && openaiKey != "":
		logging.Logger.Warn("HF_TOKEN not set, using openai provider instead")
		name = culturebot.ProviderOpenAI
	}

	switch name {
	case culturebot.ProviderOpenAI:
		return providers.NewOpenAI(openaiKey, cfg.BaseURL, cfg.Model)
	default:
		if hfToken == "" {
			logging.Logger.Warn("HF_TOKEN not set, upstream calls will likely fail")
		}
		return providers.NewHuggingFace(hfToken, cfg.BaseURL, cfg.Model)
	}
}

// buildQuestionLog opens the configured question log writer. Failures disable
// the log with a warning; they never prevent startup.
func buildQuestionLog(cfg culturebot.LogConfig) (requestlog.Writer, func()) {
	var (
		w   requestlog.Writer
		err error
	)
	switch cfg.QuestionLogDriver {
	case "postgres":
		w, err = requestlog.NewPostgresWriter(cfg.QuestionLogDSN)
	case "none":
		return requestlog.NoopWriter{}, func() {}
	default:
		w, err = requestlog.NewSQLiteWriter(cfg.QuestionLogDSN)
	}
	if err != nil {
		logging.Logger.Warn("question log disabled", "error", err)
		return requestlog.NoopWriter{}, func() {}
	}
	sw := w.(*requestlog.SQLWriter)
	return sw, func() { _ = sw.Close() }
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// newRouter builds the HTTP router.
func newRouter(bot *culturebot.Bot, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware)
	r.Use(corsMiddleware(corsOrigins...))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "CultureBot",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":   "healthy",
			"service":  "CultureBot",
			"provider": bot.Provider().Name(),
			"model":    bot.Provider().Model(),
			"version":  version.Short(),
		})
	})

	r.Post("/ask", func(w http.ResponseWriter, r *http.Request) {
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
			writeDetail(w, http.StatusBadRequest, "Question is required")
			return
		}

		res, err := bot.Ask(r.Context(), req.Question)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "Error generating answer: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, askResponse{Answer: res.Answer})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/ui", func(w http.ResponseWriter, r *http.Request) {
		page, err := web.Assets.ReadFile("index.html")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeDetail writes an error payload in the service's historical wire
// format: {"detail": "..."}.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
