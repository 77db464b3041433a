package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-sentiment-backend/internal/domain"
	"github.com/tbourn/go-sentiment-backend/internal/utils"
)

// History godoc
// @ID          getHistory
// @Summary     Recent analyses with summary statistics
// @Description Returns the most recent analyses (newest first) and statistics computed over them.
// @Description Supports a weak ETag via If-None-Match.
// @Tags        History
// @Produce     json
//
// @Param       limit          query   int     false  "Number of records"           minimum(1) maximum(100) default(5)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
//
// @Success     200  {object}  domain.History
// @Header      200  {string}  ETag  "Weak ETag for the returned window"
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Record file unreadable"
// @Router      /history [get]
func (h *Handlers) History(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 0)

	hist, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeHistoryFailed, "Failed to read analysis history.", err)
		return
	}

	etag := historyETag(hist)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return
	}
	ok(c, http.StatusOK, hist)
}

// historyETag identifies a window by its size and newest record. Records are
// append-only, so a new analysis always changes the newest id.
func historyETag(h *domain.History) string {
	if len(h.Analyses) == 0 {
		return `W/"history:0"`
	}
	newest := h.Analyses[0]
	return fmt.Sprintf(`W/"history:%d:%d:%s"`, len(h.Analyses), newest.ID, newest.Timestamp)
}
