package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/cashregister_backend/models"
	"github.com/mmdatafocus/cashregister_backend/models/reports"
)

func historyFilterFromQuery(c *gin.Context) (models.SessionHistoryFilter, error) {
	var filter models.SessionHistoryFilter
	if v := c.Query("status"); v != "" {
		filter.Status = models.SessionStatus(v)
	}
	if v := c.Query("user_id"); v != "" {
		userId, err := strconv.Atoi(v)
		if err != nil {
			return filter, err
		}
		filter.UserId = userId
	}
	if v := c.Query("date_from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, err
		}
		filter.DateFrom = &from
	}
	if v := c.Query("date_to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, err
		}
		// inclusive end of day
		to = to.Add(24*time.Hour - time.Second)
		filter.DateTo = &to
	}
	return filter, nil
}

// GetSessionHistory lists the hub's sessions with per-kind totals.
func GetSessionHistory(c *gin.Context) {
	if !requireActor(c) {
		return
	}

	filter, err := historyFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summaries, err := reports.SessionHistoryReport(c.Request.Context(), filter)
	if err != nil {
		writeError(c, "GetSessionHistory", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": summaries, "count": len(summaries)})
}

// ExportSessionHistory streams the session history as an xlsx attachment.
func ExportSessionHistory(c *gin.Context) {
	if !requireActor(c) {
		return
	}

	filter, err := historyFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summaries, err := reports.SessionHistoryReport(c.Request.Context(), filter)
	if err != nil {
		writeError(c, "ExportSessionHistory", err)
		return
	}

	if err := reports.ExportSessionHistoryExcel(c.Writer, summaries); err != nil {
		writeError(c, "ExportSessionHistory", err)
	}
}
