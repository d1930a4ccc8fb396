package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
)

// ListUsers returns the hub's users. Admin only.
func ListUsers(c *gin.Context) {
	if !requireActor(c) {
		return
	}
	ctx := c.Request.Context()

	if isAdmin, _ := utils.GetIsAdminFromContext(ctx); !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}

	hubId, _ := utils.GetHubIdFromContext(ctx)
	users, err := utils.FetchAllModels[models.LocalUser](ctx, hubId)
	if err != nil {
		writeError(c, "ListUsers", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}
