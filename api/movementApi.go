package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/utils"
	"github.com/mmdatafocus/cashregister_backend/workflow"
)

// RecordMovement appends a signed movement to the caller's open session.
func RecordMovement(c *gin.Context) {
	if !requireActor(c) {
		return
	}

	var input models.NewCashMovement
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movement, err := workflow.RecordCashMovement(c.Request.Context(), &input)
	if err != nil {
		writeError(c, "RecordMovement", err)
		return
	}

	c.JSON(http.StatusCreated, movement)
}

// ListMovements returns the movement ledger of the caller's open session, or
// of an explicit session via ?session_id=.
func ListMovements(c *gin.Context) {
	if !requireActor(c) {
		return
	}
	ctx := c.Request.Context()
	hubId, _ := utils.GetHubIdFromContext(ctx)

	var sessionId int
	if v := c.Query("session_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}
		if err := utils.ValidateResourceId[models.CashSession](ctx, hubId, id); err != nil {
			writeError(c, "ListMovements", err)
			return
		}
		sessionId = id
	} else {
		session, err := workflow.GetOpenSession(ctx)
		if err != nil {
			writeError(c, "ListMovements", err)
			return
		}
		if session == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "cash session not open"})
			return
		}
		sessionId = session.ID
	}

	ledger, err := models.SessionLedger(ctx, hubId, sessionId)
	if err != nil {
		writeError(c, "ListMovements", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionId,
		"movements":  ledger,
		"net_total":  ledger.NetTotal(),
	})
}
