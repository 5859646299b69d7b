package controllers

import (
	"EmotionTrackerGo/config"
	"EmotionTrackerGo/models"
	"EmotionTrackerGo/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	emotionService *services.EmotionService
}

func NewGoalController(emotionService *services.EmotionService) *GoalController {
	return &GoalController{emotionService: emotionService}
}

// SetGoal creates or overwrites this week's goal.
func (gc *GoalController) SetGoal(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.SetGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	goal, err := gc.emotionService.SetGoal(c.Request.Context(), uid, req.TargetEmotion, req.Notes)
	if err != nil {
		if errors.Is(err, services.ErrInvalidEmotion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		config.Logger.Errorw("failed to save goal", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save goal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": goal})
}

func (gc *GoalController) CurrentGoal(c *gin.Context) {
	uid := c.GetString("uid")

	goal, err := gc.emotionService.CurrentGoal(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, services.ErrGoalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no goal set"})
			return
		}
		config.Logger.Errorw("failed to load goal", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load goal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": goal})
}
