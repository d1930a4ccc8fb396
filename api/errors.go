package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/cashregister_backend/config"
	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
)

const moduleName = "api"

// writeError maps the typed workflow errors onto HTTP statuses. Unknown
// errors are logged and surfaced opaquely.
func writeError(c *gin.Context, funcName string, err error) {
	switch {
	case errors.Is(err, utils.ErrorInvalidAmount),
		errors.Is(err, utils.ErrorInvalidMovement),
		errors.Is(err, utils.ErrorCountRequired),
		errors.Is(err, utils.ErrorNegativeBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorSessionAlreadyOpen),
		errors.Is(err, utils.ErrorSessionNotOpen),
		errors.Is(err, utils.ErrorLedgerNotConfigured),
		errors.Is(err, utils.ErrorDuplicateValue):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrorInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		ctx := c.Request.Context()
		correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
		userId, _ := utils.GetUserIdFromContext(ctx)
		username, _ := utils.GetUsernameFromContext(ctx)
		logger := config.GetLogger()
		config.LogError(logger, moduleName, funcName, "request failed", map[string]interface{}{
			"correlation_id": correlationId,
			"user_id":        userId,
			"username":       username,
			"path":           c.Request.URL.Path,
		}, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// requireActor rejects unauthenticated requests before a handler touches the
// workflow layer.
func requireActor(c *gin.Context) bool {
	ctx := c.Request.Context()
	if _, ok := utils.GetHubIdFromContext(ctx); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		c.Abort()
		return false
	}
	if _, ok := utils.GetUserIdFromContext(ctx); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		c.Abort()
		return false
	}
	return true
}
