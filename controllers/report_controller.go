package controllers

import (
	"EmotionTrackerGo/config"
	"EmotionTrackerGo/services"
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	emotionService *services.EmotionService
}

func NewReportController(emotionService *services.EmotionService) *ReportController {
	return &ReportController{emotionService: emotionService}
}

// DownloadPDF renders the report for the recent window as an attachment.
func (rc *ReportController) DownloadPDF(c *gin.Context) {
	uid := c.GetString("uid")

	data, err := rc.emotionService.BuildReport(c.Request.Context(), uid, c.GetString("username"))
	if err != nil {
		if errors.Is(err, services.ErrNoRecords) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No logs available to generate report."})
			return
		}
		config.Logger.Errorw("failed to build report", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report error"})
		return
	}

	var buf bytes.Buffer
	if err := services.WriteReportPDF(&buf, data); err != nil {
		config.Logger.Errorw("failed to render report", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report error"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="emotion_report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
