package middleware

import (
	"bytes"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

const nicknameKey = "nickname"

// maxPeekBytes bounds how much of a JSON body Nickname() buffers.
const maxPeekBytes = 64 << 10

// Nickname resolves the caller's nickname from the :nickname path parameter
// or, for JSON requests, the top-level "nickname" field of the body, and
// stores it in the Gin context. The body is restored for the handler.
// Nicknames are not authenticated; they only key quota, rate limits and logs.
func Nickname() gin.HandlerFunc {
	return func(c *gin.Context) {
		if n := strings.TrimSpace(c.Param("nickname")); n != "" {
			c.Set(nicknameKey, n)
			c.Next()
			return
		}

		if c.Request.Body != nil && strings.HasPrefix(c.ContentType(), "application/json") {
			head, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPeekBytes))
			c.Request.Body = readCloser{io.MultiReader(bytes.NewReader(head), c.Request.Body), c.Request.Body}
			if err == nil {
				if n := strings.TrimSpace(gjson.GetBytes(head, "nickname").String()); n != "" {
					c.Set(nicknameKey, n)
				}
			}
		}
		c.Next()
	}
}

// NicknameFrom returns the nickname stored by Nickname(), or "".
func NicknameFrom(c *gin.Context) string {
	if v, ok := c.Get(nicknameKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

type readCloser struct {
	io.Reader
	io.Closer
}
