// Package httpapi wires the HTTP transport (Gin) to the contact request
// services, middleware and route handlers. It centralizes cross-cutting
// concerns such as tracing, correlation IDs, authentication, logging and
// redaction, panic recovery, metrics, CORS, security headers, idempotency
// and rate limiting.
package httpapi

import (
	"context"
	"errors"
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

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/auth"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/cache"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/config"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/http/handlers"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/http/middleware"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/notify"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/repo"
	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/services"
)

// contactRepoShim adapts the repository free functions to the
// services.ContactReader interface expected by the QueryService.
type contactRepoShim struct{}

// CountContactRequests proxies repo.CountContactRequests.
func (contactRepoShim) CountContactRequests(ctx context.Context, db *gorm.DB, f repo.Filter) (int64, error) {
	return repo.CountContactRequests(ctx, db, f)
}

// ListContactRequestsPage proxies repo.ListContactRequestsPage.
func (contactRepoShim) ListContactRequestsPage(ctx context.Context, db *gorm.DB, f repo.Filter, by domain.SortField, order domain.SortOrder, offset, limit int) ([]domain.ContactRequest, error) {
	return repo.ListContactRequestsPage(ctx, db, f, by, order, offset, limit)
}

// GetContactRequest proxies repo.GetContactRequest.
func (contactRepoShim) GetContactRequest(ctx context.Context, db *gorm.DB, id string) (*domain.ContactRequest, error) {
	return repo.GetContactRequest(ctx, db, id)
}

// ContactRequestsStats proxies repo.ContactRequestsStats (ETag support).
func (contactRepoShim) ContactRequestsStats(ctx context.Context, db *gorm.DB, f repo.Filter) (int64, *time.Time, error) {
	return repo.ContactRequestsStats(ctx, db, f)
}

// NewNotifier builds the request notifier described by cfg: SMTP when a
// relay host is configured, the logging sender otherwise.
func NewNotifier(cfg config.Config) *notify.ContactNotifier {
	var sender notify.Sender = notify.LogSender{}
	if cfg.SMTP.Host != "" {
		sender = &notify.SMTPSender{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.Mail.From,
			Timeout:  cfg.SMTP.Timeout,
		}
	}
	to := cfg.Mail.NotifyTo
	if len(to) == 0 {
		to = []string{cfg.Mail.From}
	}
	return &notify.ContactNotifier{Sender: sender, To: to, Location: cfg.Mail.Location()}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and builds the services behind them. n receives "new request"
// notifications and may be nil.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Authenticate: bearer token to principal (never rejects)
//  4. Request logger: structured logs, PII scrubbed unless LOG_REDACT=false
//  5. Recovery: capture panics after logger
//  6. Body size limiter
//  7. Metrics
//  8. Rate limiter (per user/IP, bypass on idempotent replay)
//  9. CORS and security headers
//
// The idempotency validator runs on the submission route only, ahead of
// its own rate limiter check.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, n services.Notifier, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	jwt := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Authenticate(jwt))
	r.Use(requestLogger(cfg.LogRedact))
	r.Use(middleware.Recovery())
	r.Use(limitBody(cfg.MaxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics("/metrics", "/health"))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services <- repo/db/cache/notifier
	store := cache.New(cfg.CacheRevalidate)
	authz := auth.ContextAuthorizer{}
	contacts := &services.ContactService{
		DB:             db,
		Auth:           authz,
		Cache:          store,
		Notifier:       n,
		IdempotencyTTL: cfg.IdempotencyTTL,
	}
	queries := services.NewQueryService(db, contactRepoShim{}, authz, store, cfg.MaxPerPage)
	admin := services.NewAdminService(db, authz, store)
	h := handlers.New(contacts, queries, admin)

	idem := middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{Scope: domain.IdempotencyScopeContact, MaxLen: 200},
		func(ctx context.Context, scope, key string, now time.Time) (bool, error) {
			_, err := repo.GetIdempotency(ctx, db, scope, key, now)
			if errors.Is(err, repo.ErrNotFound) {
				return false, nil
			}
			return err == nil, err
		},
	)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Public form
		api.POST("/contact-requests", idem, rl.Handler(), h.CreateContactRequest)

		// Back-office
		adm := api.Group("/admin/contact-requests", rl.Handler(), middleware.NoStore())
		adm.GET("", h.ListContactRequests)
		adm.GET("/:id", h.GetContactRequest)
		adm.PATCH("/:id/status", h.UpdateContactRequestStatus)
		adm.POST("/:id/archive", h.ArchiveContactRequest)
		adm.DELETE("/:id", h.DeleteContactRequest)
		adm.POST("/bulk/status", h.BulkUpdateStatus)
		adm.POST("/bulk/archive", h.BulkArchive)
		adm.POST("/bulk/delete", h.BulkDelete)
	}
}

// requestLogger picks the access logger. The plain one keeps raw query
// strings and is meant for local debugging.
func requestLogger(redact bool) gin.HandlerFunc {
	if !redact {
		return middleware.Logger()
	}
	return middleware.RedactingLogger(middleware.RedactOptions{
		MaskQuery: []string{"email"},
	})
}

// corsMiddleware returns the CORS posture: any origin without credentials
// when no allowlist is configured, otherwise the allowlist only.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey, "If-None-Match"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag", handlers.HeaderReplay},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		base.AllowAllOrigins = true
		// ACAO: * also on requests without an Origin header (health checks).
		return []gin.HandlerFunc{
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}
	base.AllowOrigins = origins
	return []gin.HandlerFunc{cors.New(base)}
}

// limitBody caps the request body size for all endpoints to maxBytes using
// http.MaxBytesReader. Requests exceeding the cap fail on read.
func limitBody(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
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
