package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-sentiment-backend/internal/services"
)

// Register godoc
// @ID          register
// @Summary     Register a nickname
// @Description Creates a demo quota for a new nickname, or greets a returning one with its balance.
// @Tags        Sessions
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterRequest  true  "Nickname"
//
// @Success     200  {object}  handlers.RegisterResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Nickname cannot be empty"
// @Router      /register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	reg, err := h.sessions.Register(c.Request.Context(), req.Nickname)
	if errors.Is(err, services.ErrEmptyNickname) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Nickname cannot be empty")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, msgUnexpected, err)
		return
	}
	ok(c, http.StatusOK, RegisterResponse{Message: reg.Message, RemainingTokens: reg.Remaining})
}

// Tokens godoc
// @ID          getTokens
// @Summary     Remaining demo tokens
// @Description Returns how many analyses the nickname has left. Unknown nicknames get a fresh quota.
// @Tags        Sessions
// @Produce     json
//
// @Param       nickname  path  string  true  "Nickname"  example(alice)
//
// @Success     200  {object}  handlers.TokensResponse
// @Router      /tokens/{nickname} [get]
func (h *Handlers) Tokens(c *gin.Context) {
	left := h.sessions.Remaining(c.Request.Context(), c.Param("nickname"))
	ok(c, http.StatusOK, TokensResponse{RemainingTokens: left})
}
