// Package services – AnalysisService
//
// AnalysisService runs the two-step model exchange behind the analyze
// endpoint: language detection, then a sentiment and psychological analysis
// seeded with the detected language. A demo token is reserved up front and
// consumed only after the analysis validates. The enriched result is then
// appended to the record file and, when the caller sent an Idempotency-Key,
// remembered so a retry replays it.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/sjson"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-sentiment-backend/internal/domain"
	"github.com/tbourn/go-sentiment-backend/internal/llm"
	"github.com/tbourn/go-sentiment-backend/internal/quota"
	"github.com/tbourn/go-sentiment-backend/internal/repo"
)

// Completer is the model client contract (satisfied by *llm.Client).
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// RecordSaver appends analysis records (satisfied by *repo.FileStore).
type RecordSaver interface {
	Save(ctx context.Context, text string, analysis json.RawMessage) (*domain.AnalysisRecord, error)
}

// AnalyzeInput is one analyze request.
type AnalyzeInput struct {
	Text           string
	Nickname       string
	IdempotencyKey string
}

// AnalyzeOutput carries the response body exactly as persisted.
type AnalyzeOutput struct {
	Body     json.RawMessage
	RecordID int // 0 when the record could not be saved
	Replayed bool
}

// AnalysisService coordinates quota, model calls, validation and storage.
type AnalysisService struct {
	LLM   Completer
	Quota *quota.Tracker
	Store RecordSaver

	// DB holds idempotency records. Nil disables replay.
	DB             *gorm.DB
	IdempotencyTTL time.Duration

	MaxTextRunes      int
	DetectMaxTokens   int
	AnalysisMaxTokens int
}

// Analyze validates input, reserves a token, detects the language, runs the
// analysis and persists the enriched result. Any failure before the analysis
// validates returns the reserved token.
func (s *AnalysisService) Analyze(ctx context.Context, in AnalyzeInput) (out *AnalyzeOutput, err error) {
	ctx, span := otel.Tracer("services/AnalysisService").Start(ctx, "Analyze",
		trace.WithAttributes(
			attribute.String("nickname", in.Nickname),
			attribute.Int("text.runes", utf8.RuneCountInString(in.Text)),
			attribute.Bool("idempotent", in.IdempotencyKey != ""),
		),
	)
	defer span.End()
	defer func() {
		outcome := outcomeOf(err)
		if err == nil && out != nil && out.Replayed {
			outcome = "replay"
		}
		analysesTotal.WithLabelValues(outcome).Inc()
		if err != nil {
			span.RecordError(err)
		}
	}()

	nickname := strings.TrimSpace(in.Nickname)
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrEmptyText
	}
	if nickname == "" {
		return nil, ErrEmptyNickname
	}
	if s.MaxTextRunes > 0 && utf8.RuneCountInString(in.Text) > s.MaxTextRunes {
		return nil, ErrTooLong
	}

	if replay := s.replay(ctx, nickname, in.IdempotencyKey); replay != nil {
		return replay, nil
	}

	res := s.Quota.Reserve(nickname)
	if res == nil {
		return nil, ErrQuotaExhausted
	}
	defer res.Release()

	lang, err := s.detectLanguage(ctx, in.Text)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("language.code", lang.LanguageCode))

	analysis, err := s.analyze(ctx, in.Text, lang)
	if err != nil {
		return nil, err
	}

	body, err := sjson.SetBytes(analysis, "language_info", lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisParse, err)
	}

	left := res.Commit()
	if body, err = sjson.SetBytes(body, "tokens_remaining", left); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisParse, err)
	}

	out = &AnalyzeOutput{Body: body}
	rec, serr := s.Store.Save(ctx, in.Text, body)
	if serr != nil {
		storeFailures.Inc()
		log.Ctx(ctx).Error().Err(serr).Str("nickname", nickname).Msg("save analysis")
	} else {
		out.RecordID = rec.ID
	}

	s.remember(ctx, nickname, in.IdempotencyKey, out)
	return out, nil
}

func (s *AnalysisService) detectLanguage(ctx context.Context, text string) (*domain.LanguageInfo, error) {
	reply, err := s.LLM.Complete(ctx, llm.Request{
		Name:      "detect_language",
		System:    languageDetectionPrompt,
		User:      detectionUserPrompt(text),
		MaxTokens: s.DetectMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	li, err := parseLanguageInfo(reply)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int("reply_len", len(reply)).Msg("language detection reply rejected")
		return nil, err
	}
	return li, nil
}

func (s *AnalysisService) analyze(ctx context.Context, text string, lang *domain.LanguageInfo) ([]byte, error) {
	reply, err := s.LLM.Complete(ctx, llm.Request{
		Name:      "analyze",
		System:    analysisPrompt,
		User:      analysisUserPrompt(text, lang),
		MaxTokens: s.AnalysisMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	body, err := parseAnalysis(reply)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int("reply_len", len(reply)).Msg("analysis reply rejected")
		return nil, err
	}
	return body, nil
}

// replay returns the stored response for (nickname, key), or nil.
func (s *AnalysisService) replay(ctx context.Context, nickname, key string) *AnalyzeOutput {
	if s.DB == nil || key == "" {
		return nil
	}
	rec, err := repo.GetIdempotency(ctx, s.DB, nickname, key, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Ctx(ctx).Warn().Err(err).Msg("idempotency lookup")
		}
		return nil
	}
	return &AnalyzeOutput{Body: json.RawMessage(rec.Response), RecordID: rec.RecordID, Replayed: true}
}

func (s *AnalysisService) remember(ctx context.Context, nickname, key string, out *AnalyzeOutput) {
	if s.DB == nil || key == "" {
		return
	}
	ttl := s.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	_, err := repo.CreateIdempotency(ctx, s.DB, nickname, key, out.RecordID, http.StatusOK, out.Body, ttl)
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		log.Ctx(ctx).Warn().Err(err).Msg("store idempotency record")
	}
}

// isAny reports whether err matches any of targets.
func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
