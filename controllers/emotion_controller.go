package controllers

import (
	"EmotionTrackerGo/config"
	"EmotionTrackerGo/models"
	"EmotionTrackerGo/services"
	"EmotionTrackerGo/utils"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type EmotionController struct {
	emotionService *services.EmotionService
}

func NewEmotionController(emotionService *services.EmotionService) *EmotionController {
	return &EmotionController{emotionService: emotionService}
}

// Detect classifies one frame and logs the result.
func (ec *EmotionController) Detect(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image received"})
		return
	}

	image, err := utils.DecodeImage(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image encoding"})
		return
	}

	record, err := ec.emotionService.SubmitFrame(c.Request.Context(), uid, image)
	if err != nil {
		config.Logger.Errorw("emotion detection failed", "error", err, "uid", uid)
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrClassifierUnavailable) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": "emotion detection failed"})
		return
	}

	if record == nil {
		c.JSON(http.StatusOK, models.DetectResponse{
			Timestamp: time.Now().UTC(),
			Message:   "No face detected",
		})
		return
	}

	emotion := record.Emotion
	c.JSON(http.StatusOK, models.DetectResponse{
		Timestamp:  record.Timestamp,
		Emotion:    &emotion,
		Confidence: record.Confidence,
	})
}

// RecentSummary returns counts for the live window, unknown filtered out.
func (ec *EmotionController) RecentSummary(c *gin.Context) {
	uid := c.GetString("uid")

	entries, start, end, err := ec.emotionService.RecentSummary(c.Request.Context(), uid)
	if err != nil {
		config.Logger.Errorw("failed to build recent summary", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, models.SummaryResponse{
		Total:       services.Total(entries),
		Summary:     services.ForDisplay(entries),
		Entries:     entries,
		WindowStart: start,
		WindowEnd:   end,
	})
}

// WeeklySummary aggregates the week containing ?date=YYYY-MM-DD (default today).
func (ec *EmotionController) WeeklySummary(c *gin.Context) {
	uid := c.GetString("uid")

	day := time.Now().UTC()
	if s := c.Query("date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	entries, start, end, err := ec.emotionService.WeeklySummary(c.Request.Context(), uid, day)
	if err != nil {
		config.Logger.Errorw("failed to build weekly summary", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, models.SummaryResponse{
		Total:       services.Total(entries),
		Summary:     services.ForDisplay(entries),
		Entries:     entries,
		WindowStart: start,
		WindowEnd:   end,
	})
}

// GetRecommendation recomputes the recent summary server-side.
func (ec *EmotionController) GetRecommendation(c *gin.Context) {
	ec.recommend(c, nil)
}

// PostRecommendation uses the summary the client already holds.
func (ec *EmotionController) PostRecommendation(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	ec.recommend(c, req.Summary)
}

func (ec *EmotionController) recommend(c *gin.Context, summary []models.SummaryEntry) {
	uid := c.GetString("uid")

	resp, err := ec.emotionService.Recommendation(c.Request.Context(), uid, summary)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSummary) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		config.Logger.Errorw("failed to build recommendation", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SaveSnapshot stores a dashboard summary for later reports and history.
func (ec *EmotionController) SaveSnapshot(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.SaveSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	snapshot, err := ec.emotionService.SaveSnapshot(c.Request.Context(), uid, req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSnapshot) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		config.Logger.Errorw("failed to save summary snapshot", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Summary saved",
		"id":      snapshot.ID,
	})
}

// ListSnapshots returns saved summaries, newest first.
func (ec *EmotionController) ListSnapshots(c *gin.Context) {
	uid := c.GetString("uid")

	var query struct {
		Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	snapshots, err := ec.emotionService.Snapshots(c.Request.Context(), uid, query.Limit)
	if err != nil {
		config.Logger.Errorw("failed to list summary snapshots", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snapshots})
}
