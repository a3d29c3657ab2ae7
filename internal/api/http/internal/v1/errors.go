package v1

import (
	"errors"
	"net/http"

	"github.com/bloomaccess/backend/internal/service"
	"github.com/bloomaccess/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	MsgInvalidBody   = "Invalid request body"
	MsgUnauthorized  = "Unauthorized"
	msgInternalError = "An error occurred"
)

// errorResponse writes a FAILED result. Service errors are client outcomes,
// so the HTTP status stays 200.
func errorResponse(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInfrastructure) {
		logger.Error("request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
		)
	}

	c.AbortWithStatusJSON(http.StatusOK, response{
		Status:  StatusFailed,
		Message: service.Message(err),
	})
}

func badRequestResponse(c *gin.Context, err error) {
	logger.Debug("undecodable request body", zap.Error(err), zap.String("path", c.FullPath()))

	c.AbortWithStatusJSON(http.StatusBadRequest, response{
		Status:  StatusFailed,
		Message: MsgInvalidBody,
	})
}

func unauthorizedResponse(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, response{
		Status:  StatusFailed,
		Message: MsgUnauthorized,
	})
}
