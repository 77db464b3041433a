package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newRLRouter(rl *RateLimiter, pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Nickname())
	for _, m := range pre {
		r.Use(m)
	}
	r.Use(rl.Handler())
	r.POST("/analyze", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/tokens/:nickname", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func postAs(r *gin.Engine, nickname string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"text":"x","nickname":"`+nickname+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_PerNicknameBuckets(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1, KeyByNicknameOrIP())
	r := newRLRouter(rl)

	if w := postAs(r, "alice"); w.Code != http.StatusOK {
		t.Fatalf("alice #1 -> %d", w.Code)
	}
	w := postAs(r, "alice")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("alice #2 -> %d want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "1" || !strings.Contains(w.Body.String(), `"rate_limited"`) {
		t.Fatalf("bad 429 response: %v %s", w.Header(), w.Body.String())
	}
	if w := postAs(r, "bob"); w.Code != http.StatusOK {
		t.Fatalf("bob should have his own bucket, got %d", w.Code)
	}
}

func TestKeyByNicknameOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var got []string
	r := gin.New()
	r.Use(Nickname(), func(c *gin.Context) { got = append(got, KeyByNicknameOrIP()(c)) })
	r.GET("/tokens/:nickname", func(c *gin.Context) {})
	r.GET("/history", func(c *gin.Context) {})

	for _, p := range []string{"/tokens/carol", "/history"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		req.RemoteAddr = "203.0.113.7:1234"
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	if len(got) != 2 || got[0] != "nick:carol" || got[1] != "ip:203.0.113.7" {
		t.Fatalf("keys=%v", got)
	}
}

func TestRateLimiter_BypassOnReplay(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1, KeyByNicknameOrIP())
	replay := func(c *gin.Context) {
		c.Set(ctxKeyRateBypass, true)
		c.Next()
	}
	r := newRLRouter(rl, replay)

	for i := 0; i < 3; i++ {
		if w := postAs(r, "dave"); w.Code != http.StatusOK {
			t.Fatalf("replay #%d -> %d", i, w.Code)
		}
	}
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1, KeyByNicknameOrIP())
	rl.gcEvery = 2
	rl.ttl = time.Millisecond

	rl.getVisitor("nick:old")
	time.Sleep(5 * time.Millisecond)
	rl.getVisitor("nick:new") // triggers GC before inserting

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["nick:old"]; ok {
		t.Fatal("idle visitor should have been evicted")
	}
	if _, ok := rl.visitors["nick:new"]; !ok {
		t.Fatal("new visitor should exist")
	}
}

func TestNewRateLimiter_CoercesBurst(t *testing.T) {
	if rl := NewRateLimiter(1, 0, KeyByNicknameOrIP()); rl.burst != 1 {
		t.Fatalf("burst=%d want 1", rl.burst)
	}
}
