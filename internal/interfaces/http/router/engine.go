package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hexlet/taskmanager/internal/infrastructure/config"
	"github.com/hexlet/taskmanager/internal/infrastructure/logger"
	"github.com/hexlet/taskmanager/internal/interfaces/http/dto"
	"github.com/hexlet/taskmanager/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EngineDeps are the collaborators of the HTTP engine. Meter, TracerProvider
// and RateLimiter are optional.
type EngineDeps struct {
	Config         *config.Config
	Logger         *zap.Logger
	Authenticator  middleware.Authenticator
	Handlers       Handlers
	Meter          metric.Meter
	TracerProvider trace.TracerProvider
	RateLimiter    *middleware.RateLimiter
	Profiling      bool
}

// NewEngine builds the gin engine with the full middleware chain:
//
//	RequestID -> Recovery -> Tracing -> SpanErrorMarker -> HTTPMetrics ->
//	access log -> security headers -> CORS -> body limit -> rate limit
//
// /api routes additionally pass JWT authentication, span attribute
// injection and profiling labels.
func NewEngine(deps EngineDeps) (*gin.Engine, error) {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	if deps.TracerProvider != nil {
		engine.Use(middleware.Tracing(middleware.TracingConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			Enabled:        true,
			TracerProvider: deps.TracerProvider,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	if deps.Meter != nil {
		engine.Use(middleware.HTTPMetrics(deps.Meter, log))
	}
	engine.Use(logger.GinMiddleware(log))

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.IsProduction()
	engine.Use(middleware.Secure(security))

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	cors.MaxAge = 12 * time.Hour
	engine.Use(middleware.CORS(cors))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if deps.RateLimiter != nil {
		engine.Use(middleware.RateLimit(deps.RateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", deps.RateLimiter.Limit()),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound,
			"Route not found",
			middleware.GetRequestID(c),
		))
	})

	engine.GET("/health", deps.Handlers.System.Health)

	jwtConfig := middleware.DefaultJWTConfig(deps.Authenticator)
	jwtConfig.Logger = log
	jwt := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	docsJWTConfig := jwtConfig
	docsJWTConfig.SkipPathPrefixes = nil
	swagger := engine.Group("/swagger", middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	}, middleware.JWTAuthMiddlewareWithConfig(docsJWTConfig)))
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = deps.Profiling

	r := NewRouter(engine).Use(
		jwt,
		middleware.TracingAttributeInjector(),
		middleware.Profiling(profiling),
	)
	r.Register(APIGroups(deps.Handlers)...)
	r.Setup()

	return engine, nil
}
