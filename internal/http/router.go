// Package httpapi wires the Gin transport to the sentiment services. It owns
// middleware ordering, CORS and security posture, and route registration.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-sentiment-backend/docs"
	"github.com/tbourn/go-sentiment-backend/internal/config"
	"github.com/tbourn/go-sentiment-backend/internal/http/handlers"
	"github.com/tbourn/go-sentiment-backend/internal/http/middleware"
	"github.com/tbourn/go-sentiment-backend/internal/quota"
	"github.com/tbourn/go-sentiment-backend/internal/repo"
	"github.com/tbourn/go-sentiment-backend/internal/services"
)

// Deps are the long-lived collaborators built in main.
type Deps struct {
	DB    *gorm.DB // idempotency records
	Store *repo.FileStore
	Quota *quota.Tracker
	LLM   services.Completer
}

// RegisterRoutes attaches middleware and endpoints to r.
//
// Middleware order matters:
//  1. OpenTelemetry
//  2. RequestID
//  3. Nickname (the logger and rate limiter key on it)
//  4. Logger with redaction, then Recovery
//  5. Body size limit
//  6. Metrics
//  7. CORS and security headers
//
// Idempotency validation and rate limiting are attached to the analyze route
// only, validator first so replays bypass the limiter.
func RegisterRoutes(r *gin.Engine, d Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Nickname())
	r.Use(middleware.Logger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)

	base := cfg.APIBasePath
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:      cfg.Security.EnableHSTS,
		HSTSMaxAge:      cfg.Security.HSTSMaxAge,
		NoStorePrefixes: []string{joinPath(base, "/tokens"), joinPath(base, "/analyze-sentiment")},
		EnablePolicy:    true,
	}))

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	sessions := &services.SessionService{Quota: d.Quota}
	analysis := &services.AnalysisService{
		LLM:               d.LLM,
		Quota:             d.Quota,
		Store:             d.Store,
		DB:                d.DB,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		MaxTextRunes:      cfg.MaxTextRunes,
		DetectMaxTokens:   cfg.LLM.DetectMaxTokens,
		AnalysisMaxTokens: cfg.LLM.AnalysisMaxTokens,
	}
	history := &services.HistoryService{Store: d.Store, DefaultLimit: cfg.HistoryLimit}
	h := handlers.New(sessions, analysis, history, d.Quota.Max())

	idem := middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idempotencyLookup(d.DB))
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByNicknameOrIP())

	api := groupWithPrefix(r, base)
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, handlers.HealthResponse{Status: "healthy"})
		})

		api.POST("/register", h.Register)
		api.GET("/tokens/:nickname", h.Tokens)
		api.POST("/analyze-sentiment", idem, rl.Handler(), h.AnalyzeSentiment)
		api.GET("/history", gzip.Gzip(gzip.DefaultCompression), h.History)
	}
}

// idempotencyLookup reports whether a live stored response exists. A nil db
// disables replay detection.
func idempotencyLookup(db *gorm.DB) middleware.IdempotencyLookup {
	if db == nil {
		return nil
	}
	return func(ctx context.Context, nickname, key string, now time.Time) (bool, error) {
		rec, err := repo.GetIdempotency(ctx, db, nickname, key, now)
		if err != nil {
			return false, err
		}
		return rec != nil, nil
	}
}

var (
	corsMethods = []string{"GET", "POST", "OPTIONS"}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", middleware.HeaderIdempotencyKey, "If-None-Match"}
	corsExpose  = []string{"X-Request-ID", "ETag", "Retry-After", middleware.HeaderIdempotencyReplayed}
)

// corsMiddleware allows any origin when none are configured; otherwise it
// echoes allowlisted origins.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	if len(origins) == 0 {
		return []gin.HandlerFunc{
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(cors.Config{
				AllowAllOrigins: true,
				AllowMethods:    corsMethods,
				AllowHeaders:    corsHeaders,
				ExposeHeaders:   corsExpose,
				MaxAge:          12 * time.Hour,
			}),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  corsMethods,
			AllowHeaders:  corsHeaders,
			ExposeHeaders: corsExpose,
			MaxAge:        12 * time.Hour,
		}),
	}
}

// limitBody caps request bodies at maxBytes; reads past it fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

func joinPath(base, p string) string {
	if base == "" || base == "/" {
		return p
	}
	return base + p
}
