package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-sentiment-backend/internal/domain"
	"github.com/tbourn/go-sentiment-backend/internal/llm"
	"github.com/tbourn/go-sentiment-backend/internal/quota"
	"github.com/tbourn/go-sentiment-backend/internal/repo"
)

const langReply = `{"language_code":"en","language_name":"English","native_name":"English","confidence":0.95,"direction":"ltr"}`

// ----- Fakes -----

type fakeLLM struct {
	mu      sync.Mutex
	replies map[string]string // by request name
	errs    map[string]error
	calls   []llm.Request
}

func (f *fakeLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if err := f.errs[req.Name]; err != nil {
		return "", err
	}
	return f.replies[req.Name], nil
}

type fakeSaver struct {
	mu    sync.Mutex
	err   error
	saved []domain.AnalysisRecord
}

func (s *fakeSaver) Save(_ context.Context, text string, analysis json.RawMessage) (*domain.AnalysisRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	rec := domain.AnalysisRecord{ID: len(s.saved) + 1, Text: text, Analysis: analysis}
	s.saved = append(s.saved, rec)
	return &rec, nil
}

func newAnalysisSvc(l *fakeLLM, st *fakeSaver, maxTokens int) *AnalysisService {
	return &AnalysisService{
		LLM:               l,
		Quota:             quota.NewTracker(maxTokens),
		Store:             st,
		MaxTextRunes:      100,
		DetectMaxTokens:   200,
		AnalysisMaxTokens: 1500,
	}
}

func okLLM() *fakeLLM {
	return &fakeLLM{replies: map[string]string{
		"detect_language": "```json\n" + langReply + "\n```",
		"analyze":         validAnalysis,
	}}
}

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// ----- Tests -----

func TestAnalyze_Success_EnrichesAndPersists(t *testing.T) {
	l, st := okLLM(), &fakeSaver{}
	s := newAnalysisSvc(l, st, 10)

	out, err := s.Analyze(context.Background(), AnalyzeInput{Text: "I feel great", Nickname: "alice"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if out.Replayed || out.RecordID != 1 {
		t.Fatalf("unexpected output meta: %+v", out)
	}
	if got := gjson.GetBytes(out.Body, "tokens_remaining").Int(); got != 9 {
		t.Fatalf("tokens_remaining=%d want 9", got)
	}
	if got := gjson.GetBytes(out.Body, "language_info.language_code").String(); got != "en" {
		t.Fatalf("language_info.language_code=%q", got)
	}
	if got := s.Quota.Remaining("alice"); got != 9 {
		t.Fatalf("quota remaining=%d want 9", got)
	}

	if len(st.saved) != 1 || st.saved[0].Text != "I feel great" {
		t.Fatalf("saved=%+v", st.saved)
	}
	if string(st.saved[0].Analysis) != string(out.Body) {
		t.Fatal("persisted analysis must equal the response body")
	}

	if len(l.calls) != 2 {
		t.Fatalf("calls=%d want 2", len(l.calls))
	}
	if l.calls[0].MaxTokens != 200 || l.calls[1].MaxTokens != 1500 {
		t.Fatalf("max tokens = %d/%d", l.calls[0].MaxTokens, l.calls[1].MaxTokens)
	}
	if !strings.Contains(l.calls[0].User, "I feel great") {
		t.Fatal("detection prompt should carry the text")
	}
	if !strings.Contains(l.calls[1].User, "- Code: en") || !strings.Contains(l.calls[1].User, "Text: I feel great") {
		t.Fatalf("analysis prompt not seeded with language: %q", l.calls[1].User)
	}
}

func TestAnalyze_InputValidation(t *testing.T) {
	s := newAnalysisSvc(okLLM(), &fakeSaver{}, 10)
	ctx := context.Background()

	if _, err := s.Analyze(ctx, AnalyzeInput{Text: "   ", Nickname: "a"}); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("blank text: %v", err)
	}
	if _, err := s.Analyze(ctx, AnalyzeInput{Text: "hi", Nickname: " "}); !errors.Is(err, ErrEmptyNickname) {
		t.Fatalf("blank nickname: %v", err)
	}
	if _, err := s.Analyze(ctx, AnalyzeInput{Text: strings.Repeat("é", 101), Nickname: "a"}); !errors.Is(err, ErrTooLong) {
		t.Fatalf("too long: %v", err)
	}
}

func TestAnalyze_QuotaExhausted_NoModelCall(t *testing.T) {
	l := okLLM()
	s := newAnalysisSvc(l, &fakeSaver{}, 1)
	ctx := context.Background()

	if _, err := s.Analyze(ctx, AnalyzeInput{Text: "one", Nickname: "bob"}); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := s.Analyze(ctx, AnalyzeInput{Text: "two", Nickname: "bob"}); !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("second: err=%v want ErrQuotaExhausted", err)
	}
	if len(l.calls) != 2 {
		t.Fatalf("model called %d times; exhausted request must not reach it", len(l.calls))
	}
}

func TestAnalyze_FailuresDoNotConsumeQuota(t *testing.T) {
	tests := []struct {
		name string
		llm  *fakeLLM
		want error
	}{
		{"detect upstream", &fakeLLM{errs: map[string]error{"detect_language": errors.New("dial tcp")}}, ErrUpstream},
		{"detect garbage", &fakeLLM{replies: map[string]string{"detect_language": "English"}}, ErrLanguageDetection},
		{"analyze upstream", &fakeLLM{replies: map[string]string{"detect_language": langReply}, errs: map[string]error{"analyze": errors.New("503")}}, ErrUpstream},
		{"analyze garbage", &fakeLLM{replies: map[string]string{"detect_language": langReply, "analyze": "nope"}}, ErrAnalysisParse},
		{"analyze missing", &fakeLLM{replies: map[string]string{"detect_language": langReply, "analyze": `{"summary":"x"}`}}, ErrMissingFields},
		{"analyze range", &fakeLLM{replies: map[string]string{"detect_language": langReply, "analyze": strings.Replace(validAnalysis, `"valence":0.9`, `"valence":1.5`, 1)}}, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeSaver{}
			s := newAnalysisSvc(tt.llm, st, 10)
			_, err := s.Analyze(context.Background(), AnalyzeInput{Text: "t", Nickname: "carol"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("err=%v want %v", err, tt.want)
			}
			if got := s.Quota.Remaining("carol"); got != 10 {
				t.Fatalf("remaining=%d want 10", got)
			}
			if len(st.saved) != 0 {
				t.Fatal("nothing may be persisted on failure")
			}
		})
	}
}

func TestAnalyze_SaveFailureStillSucceeds(t *testing.T) {
	st := &fakeSaver{err: errors.New("disk full")}
	s := newAnalysisSvc(okLLM(), st, 10)

	out, err := s.Analyze(context.Background(), AnalyzeInput{Text: "t", Nickname: "dave"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if out.RecordID != 0 {
		t.Fatalf("RecordID=%d want 0", out.RecordID)
	}
	if s.Quota.Remaining("dave") != 9 {
		t.Fatal("token must be consumed once the analysis validated")
	}
}

func TestAnalyze_IdempotentReplay(t *testing.T) {
	l, st := okLLM(), &fakeSaver{}
	s := newAnalysisSvc(l, st, 10)
	s.DB = newServiceDB(t)
	s.IdempotencyTTL = time.Hour
	ctx := context.Background()

	first, err := s.Analyze(ctx, AnalyzeInput{Text: "t", Nickname: "erin", IdempotencyKey: "k-1"})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := s.Analyze(ctx, AnalyzeInput{Text: "t", Nickname: "erin", IdempotencyKey: "k-1"})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !second.Replayed || string(second.Body) != string(first.Body) || second.RecordID != first.RecordID {
		t.Fatalf("expected replay of first response, got %+v", second)
	}
	if len(l.calls) != 2 || len(st.saved) != 1 {
		t.Fatalf("replay must not call the model or save again (calls=%d saved=%d)", len(l.calls), len(st.saved))
	}
	if s.Quota.Remaining("erin") != 9 {
		t.Fatal("replay must not consume a token")
	}

	// Another nickname with the same key is a fresh analysis.
	third, err := s.Analyze(ctx, AnalyzeInput{Text: "t", Nickname: "frank", IdempotencyKey: "k-1"})
	if err != nil || third.Replayed {
		t.Fatalf("other nickname: out=%+v err=%v", third, err)
	}
}

func TestAnalyze_ConcurrentRequestsNeverOvershoot(t *testing.T) {
	s := newAnalysisSvc(okLLM(), &fakeSaver{}, 3)

	var wg sync.WaitGroup
	var mu sync.Mutex
	okCount := 0
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Analyze(context.Background(), AnalyzeInput{Text: "t", Nickname: "gina"}); err == nil {
				mu.Lock()
				okCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if okCount != 3 {
		t.Fatalf("successful analyses=%d want 3", okCount)
	}
	if s.Quota.Remaining("gina") != 0 {
		t.Fatalf("remaining=%d want 0", s.Quota.Remaining("gina"))
	}
}
