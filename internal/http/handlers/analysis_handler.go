package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-sentiment-backend/internal/http/middleware"
	"github.com/tbourn/go-sentiment-backend/internal/services"
)

// AnalyzeSentiment godoc
// @ID          analyzeSentiment
// @Summary     Analyze the sentiment of a text
// @Description Detects the language, runs a sentiment and psychological analysis in that language,
// @Description consumes one demo token and stores the result. A repeated Idempotency-Key for the
// @Description same nickname replays the stored response without consuming a token.
// @Tags        Analysis
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string                   false  "Key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.AnalyzeRequest  true   "Text and nickname"
//
// @Success     200  {object}  domain.AnalysisResult
// @Header      200  {string}  Idempotency-Replayed  "true when served from a stored result"
// @Failure     400  {object}  handlers.ErrorResponse  "Empty text or nickname, or text too long"
// @Failure     403  {object}  handlers.ErrorResponse  "No tokens remaining"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse  "Language detection or analysis failed"
// @Router      /analyze-sentiment [post]
func (h *Handlers) AnalyzeSentiment(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	key, _ := middleware.GetIdempotencyKey(c)

	out, err := h.analysis.Analyze(c.Request.Context(), services.AnalyzeInput{
		Text:           req.Text,
		Nickname:       req.Nickname,
		IdempotencyKey: key,
	})
	if err != nil {
		h.analyzeFailed(c, err)
		return
	}

	if out.Replayed {
		c.Header(middleware.HeaderIdempotencyReplayed, "true")
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out.Body)
}

func (h *Handlers) analyzeFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyText):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Text cannot be empty")
	case errors.Is(err, services.ErrEmptyNickname):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Nickname cannot be empty")
	case errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Text is too long")
	case errors.Is(err, services.ErrQuotaExhausted):
		fail(c, http.StatusForbidden, ErrCodeQuotaExhausted,
			fmt.Sprintf("No tokens remaining. Maximum %d analyses allowed in demo mode.", h.maxTokens))
	case errors.Is(err, services.ErrLanguageDetection):
		fail(c, http.StatusInternalServerError, ErrCodeLanguageDetection, msgLanguageDetection, err)
	case errors.Is(err, services.ErrAnalysisParse):
		fail(c, http.StatusInternalServerError, ErrCodeAnalysisFailed, msgAnalysisParse, err)
	case errors.Is(err, services.ErrMissingFields):
		fail(c, http.StatusInternalServerError, ErrCodeAnalysisFailed, msgMissingFields, err)
	case errors.Is(err, services.ErrOutOfRange):
		fail(c, http.StatusInternalServerError, ErrCodeAnalysisFailed, msgOutOfRange, err)
	default:
		fail(c, http.StatusInternalServerError, ErrCodeAnalysisFailed, msgUnexpected, err)
	}
}
