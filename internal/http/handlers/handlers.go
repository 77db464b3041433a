// Sentiment HTTP handlers.
//
// This file wires the service contracts and request/response DTOs for:
//   - POST /register              (create or greet a nickname)
//   - GET  /tokens/{nickname}     (remaining demo tokens)
//   - POST /analyze-sentiment     (detect language, analyze, persist)
//   - GET  /history               (recent analyses plus summary)
//
// Handlers are transport-thin: they bind input, call services, and map
// service errors to status codes and stable error codes.
package handlers

import (
	"context"

	"github.com/tbourn/go-sentiment-backend/internal/domain"
	"github.com/tbourn/go-sentiment-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// SessionService registers nicknames and reports token balances.
type SessionService interface {
	Register(ctx context.Context, nickname string) (*services.Registration, error)
	Remaining(ctx context.Context, nickname string) int
}

// AnalysisService runs a full analysis for one request.
type AnalysisService interface {
	Analyze(ctx context.Context, in services.AnalyzeInput) (*services.AnalyzeOutput, error)
}

// HistoryService returns recent analyses with a summary.
type HistoryService interface {
	Recent(ctx context.Context, limit int) (*domain.History, error)
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	sessions  SessionService
	analysis  AnalysisService
	history   HistoryService
	maxTokens int
}

// New constructs Handlers. maxTokens is only used in the quota message.
func New(sessions SessionService, analysis AnalysisService, history HistoryService, maxTokens int) *Handlers {
	return &Handlers{sessions: sessions, analysis: analysis, history: history, maxTokens: maxTokens}
}

//
// DTOs
//

// RegisterRequest is the JSON payload for POST /register.
type RegisterRequest struct {
	Nickname string `json:"nickname" example:"alice"`
}

// RegisterResponse greets the caller with their balance.
type RegisterResponse struct {
	Message         string `json:"message" example:"Welcome alice! You have 10 tokens to use."`
	RemainingTokens int    `json:"remaining_tokens" example:"10"`
}

// TokensResponse is the payload of GET /tokens/{nickname}.
type TokensResponse struct {
	RemainingTokens int `json:"remaining_tokens" example:"7"`
}

// AnalyzeRequest is the JSON payload for POST /analyze-sentiment.
type AnalyzeRequest struct {
	Text     string `json:"text" example:"今日は本当に疲れたけど、明日は楽しみ。"`
	Nickname string `json:"nickname" example:"alice"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}
