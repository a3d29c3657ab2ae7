package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Status tags every JSON result. The mobile client branches on it instead of
// the HTTP status code.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
	StatusPending Status = "PENDING"
)

type response struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
} // @name Response

func newResponse(c *gin.Context, status Status, message string, data any) {
	c.JSON(http.StatusOK, response{Status: status, Message: message, Data: data})
}
