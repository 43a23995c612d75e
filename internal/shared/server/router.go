package server

import (
	"github.com/gin-gonic/gin"

	"unishare-backend/internal/accounts"
	"unishare-backend/internal/files"
	"unishare-backend/internal/institutions"
	"unishare-backend/internal/shared/auth"
	"unishare-backend/internal/shared/config"
	"unishare-backend/internal/shared/metrics"
	"unishare-backend/internal/shared/server/middleware"
	"unishare-backend/internal/shared/server/respond"
)

// RouterDeps carries the wired handlers and guard dependencies.
type RouterDeps struct {
	Config              config.Config
	Tokens              *auth.TokenService
	Identity            middleware.IdentitySource
	InstitutionsHandler *institutions.Handler
	AccountsHandler     *accounts.Handler
	FilesHandler        *files.Handler
	Limiter             *middleware.RateLimiter
}

// NewRouter constructs the gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, "", gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	// Unauthenticated surface. The write endpoints are rate limited per
	// client IP; institution creation has no auth gate, so the limiter is
	// the only brake on tenant registration.
	public := api.Group("", middleware.RateLimit(middleware.RateLimitConfig{
		Limiter: deps.Limiter,
		GroupFor: func(c *gin.Context) string {
			return c.Request.Method + " " + c.FullPath()
		},
		Rules: map[string]middleware.RateLimitRule{
			"POST /api/v1/institutions": {Rate: 0.2, Burst: 5},
			"POST /api/v1/register":     {Rate: 0.5, Burst: 10},
			"POST /api/v1/login":        {Rate: 1, Burst: 20},
		},
	}))
	deps.InstitutionsHandler.RegisterRoutes(public)
	deps.AccountsHandler.RegisterPublicRoutes(public)

	// Everything file-related sits behind the identity guard.
	protected := api.Group("", middleware.Auth(deps.Tokens, deps.Identity))
	deps.AccountsHandler.RegisterProtectedRoutes(protected)
	deps.FilesHandler.RegisterRoutes(protected)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
