package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/cashregister_backend/config"
	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  *models.LocalUser `json:"user"`
}

// Login authenticates a local user and hands back a bearer token.
func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := models.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, "Login", err)
		return
	}

	token, err := utils.JwtGenerate(user.ID, user.HubId, user.Username, string(user.Role))
	if err != nil {
		writeError(c, "Login", err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout blacklists the bearer token until its natural expiry.
func Logout(c *gin.Context) {
	if !requireActor(c) {
		return
	}
	ctx := c.Request.Context()

	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no token to revoke"})
		return
	}

	if err := config.SetRedisValue("TokenBlacklist:"+token, "revoked", 24*time.Hour); err != nil {
		writeError(c, "Logout", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's own record.
func Me(c *gin.Context) {
	if !requireActor(c) {
		return
	}
	ctx := c.Request.Context()

	hubId, _ := utils.GetHubIdFromContext(ctx)
	userId, _ := utils.GetUserIdFromContext(ctx)
	user, err := models.FetchUser(ctx, hubId, userId)
	if err != nil {
		writeError(c, "Me", err)
		return
	}

	c.JSON(http.StatusOK, user)
}
