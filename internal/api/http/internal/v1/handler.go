package v1

import (
	"github.com/bloomaccess/backend/internal/service"
	"github.com/bloomaccess/backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

// @title BloomAccess API
// @version 1.0
// @description Account signup, signin and email verification.

// @BasePath /

// @securityDefinitions.apikey UserAuth
// @in header
// @name Authorization

type Handler struct {
	services     *service.Services
	tokenManager auth.TokenManager
}

func NewHandler(services *service.Services, tokenManager auth.TokenManager) *Handler {
	return &Handler{
		services:     services,
		tokenManager: tokenManager,
	}
}

func (h *Handler) Init(api *gin.RouterGroup) {
	h.initUsersRoutes(api)
}
