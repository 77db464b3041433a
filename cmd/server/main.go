// Command server runs the sentiment analysis API.
//
// @title       Sentiment Analysis API
// @version     1.0
// @description Multilingual sentiment and psychological analysis backed by an OpenAI-compatible chat-completion API.
// @BasePath    /api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-sentiment-backend/internal/config"
	httpapi "github.com/tbourn/go-sentiment-backend/internal/http"
	"github.com/tbourn/go-sentiment-backend/internal/llm"
	"github.com/tbourn/go-sentiment-backend/internal/observability"
	"github.com/tbourn/go-sentiment-backend/internal/quota"
	"github.com/tbourn/go-sentiment-backend/internal/repo"
	"github.com/tbourn/go-sentiment-backend/internal/sysutil"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		sysutil.ConfigureLogger("info", false, os.Stderr)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	sysutil.ConfigureLogger(cfg.LogLevel, cfg.LogPretty, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup")
	}

	db, err := repo.OpenSQLite(cfg.DBPath, repo.SQLiteOptions{Tracing: cfg.OTEL.Enabled, Silent: cfg.GinMode == gin.ReleaseMode})
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}
	go purgeIdempotency(ctx, db, time.Hour)

	completer, err := llm.NewClient(cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("GROQ_API_KEY (or OPENAI_API_KEY) must be set")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		DB:    db,
		Store: repo.NewFileStore(cfg.StoragePath),
		Quota: quota.NewTracker(cfg.MaxTokens),
		LLM:   completer,
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("model", completer.Model()).
			Str("storage", cfg.StoragePath).
			Int("max_tokens", cfg.MaxTokens).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("stopped")
}

// purgeIdempotency deletes expired idempotency rows every interval until ctx
// is done.
func purgeIdempotency(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("purged idempotency records")
			}
		}
	}
}
