package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
)

// GetSettings returns the hub's cash register settings, creating defaults on
// first read.
func GetSettings(c *gin.Context) {
	if !requireActor(c) {
		return
	}
	ctx := c.Request.Context()

	hubId, _ := utils.GetHubIdFromContext(ctx)
	settings, err := models.GetCashRegisterSettings(ctx, hubId)
	if err != nil {
		writeError(c, "GetSettings", err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings replaces the hub's cash register settings. Admin only.
func UpdateSettings(c *gin.Context) {
	if !requireActor(c) {
		return
	}
	ctx := c.Request.Context()

	if isAdmin, _ := utils.GetIsAdminFromContext(ctx); !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}

	var input models.NewCashRegisterSettings
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.ConfirmationThreshold != nil {
		if err := input.ConfirmationThreshold.Validate(); err != nil {
			writeError(c, "UpdateSettings", err)
			return
		}
	}

	settings, err := models.UpdateCashRegisterSettings(ctx, &input)
	if err != nil {
		writeError(c, "UpdateSettings", err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
