package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
	"github.com/mmdatafocus/cashregister_backend/workflow"
)

// GetCurrentSession returns the caller's open session with its live balance,
// 404 when no session is open.
func GetCurrentSession(c *gin.Context) {
	if !requireActor(c) {
		return
	}
	ctx := c.Request.Context()

	session, err := workflow.GetOpenSession(ctx)
	if err != nil {
		writeError(c, "GetCurrentSession", err)
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": utils.ErrorSessionNotOpen.Error()})
		return
	}

	balance, err := session.CurrentBalance(ctx)
	if err != nil {
		writeError(c, "GetCurrentSession", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session, "current_balance": balance})
}

// OpenSession opens a new session for the caller.
func OpenSession(c *gin.Context) {
	if !requireActor(c) {
		return
	}

	var input models.NewCashSession
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := workflow.OpenCashSession(c.Request.Context(), &input)
	if err != nil {
		writeError(c, "OpenSession", err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// CloseSession closes the caller's session and returns the reconciliation.
func CloseSession(c *gin.Context) {
	if !requireActor(c) {
		return
	}

	var input models.CloseCashSession
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	closed, err := workflow.CloseCashSession(c.Request.Context(), &input)
	if err != nil {
		writeError(c, "CloseSession", err)
		return
	}

	c.JSON(http.StatusOK, closed)
}

// GetSessionDetail returns one session with its movements and counts.
func GetSessionDetail(c *gin.Context) {
	if !requireActor(c) {
		return
	}
	ctx := c.Request.Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	hubId, _ := utils.GetHubIdFromContext(ctx)
	session, err := models.FetchSession(ctx, hubId, id)
	if err != nil {
		writeError(c, "GetSessionDetail", err)
		return
	}

	ledger, err := session.Ledger(ctx)
	if err != nil {
		writeError(c, "GetSessionDetail", err)
		return
	}
	counts, err := session.Counts(ctx)
	if err != nil {
		writeError(c, "GetSessionDetail", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":   session,
		"movements": ledger,
		"counts":    counts,
	})
}

// GetSessionBalance returns the running balance of one session.
func GetSessionBalance(c *gin.Context) {
	if !requireActor(c) {
		return
	}
	ctx := c.Request.Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	hubId, _ := utils.GetHubIdFromContext(ctx)
	session, err := models.FetchSession(ctx, hubId, id)
	if err != nil {
		writeError(c, "GetSessionBalance", err)
		return
	}

	balance, err := session.CurrentBalance(ctx)
	if err != nil {
		writeError(c, "GetSessionBalance", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":      session.ID,
		"status":          session.Status,
		"opening_balance": session.OpeningBalance,
		"current_balance": balance,
	})
}
