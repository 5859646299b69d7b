package controllers

import (
	"EmotionTrackerGo/config"
	"EmotionTrackerGo/models"
	"EmotionTrackerGo/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const maxRecordRange = 31 * 24 * time.Hour

type RecordController struct {
	emotionService *services.EmotionService
}

func NewRecordController(emotionService *services.EmotionService) *RecordController {
	return &RecordController{emotionService: emotionService}
}

// ListRecords returns raw records in [since, until). Defaults to the live window.
func (rc *RecordController) ListRecords(c *gin.Context) {
	uid := c.GetString("uid")

	start, end := rc.emotionService.RecentWindow()
	var err error
	if s := c.Query("since"); s != "" {
		start, err = time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since, expected RFC3339"})
			return
		}
	}
	if s := c.Query("until"); s != "" {
		end, err = time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid until, expected RFC3339"})
			return
		}
	}

	if !start.Before(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "since must be before until"})
		return
	}
	if end.Sub(start) > maxRecordRange {
		c.JSON(http.StatusBadRequest, gin.H{"error": "range must not exceed 31 days"})
		return
	}

	records, err := rc.emotionService.QueryWindow(c.Request.Context(), uid, start, end)
	if err != nil {
		config.Logger.Errorw("failed to query emotion records", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query records"})
		return
	}
	if records == nil {
		records = []models.EmotionRecord{}
	}

	c.JSON(http.StatusOK, models.RecordsResponse{Records: records})
}
