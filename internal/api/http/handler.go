package apiHttp

import (
	"html/template"
	"time"

	_ "github.com/bloomaccess/backend/docs"
	internalV1 "github.com/bloomaccess/backend/internal/api/http/internal/v1"
	"github.com/bloomaccess/backend/internal/config"
	"github.com/bloomaccess/backend/internal/service"
	"github.com/bloomaccess/backend/pkg/auth"
	"github.com/bloomaccess/backend/pkg/limiter"
	"github.com/bloomaccess/backend/pkg/logger"
	"github.com/bloomaccess/backend/templates"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handler struct {
	services     *service.Services
	tokenManager auth.TokenManager
	checks       []HealthCheck
}

func NewHandlers(services *service.Services, tokenManager auth.TokenManager, checks ...HealthCheck) *Handler {
	return &Handler{
		services:     services,
		tokenManager: tokenManager,
		checks:       checks,
	}
}

func (h *Handler) Init(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.SetHTMLTemplate(template.Must(template.ParseFS(templates.FS, templates.VerifiedPage)))

	router.Use(
		ginzap.Ginzap(logger.Logger(), time.RFC3339, true),
		limiter.Limit(cfg.Limiter.RPS, cfg.Limiter.Burst, cfg.Limiter.TTL),
		corsMiddleware(cfg.HttpServer.CORSOrigins),
	)
	router.Use(ginzap.RecoveryWithZap(logger.Logger(), true))

	if cfg.HttpServer.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.NewHandler(), ginSwagger.InstanceName("internal")))
	}

	router.GET("/healthz", h.healthz)

	h.initAPI(router)

	return router
}

func (h *Handler) initAPI(router *gin.Engine) {
	internalHandlersV1 := internalV1.NewHandler(h.services, h.tokenManager)
	internalHandlersV1.Init(&router.RouterGroup)
}
