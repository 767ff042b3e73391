package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"launchpad/pitch-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type feedbackBody struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

// FeedbackCreate leaves mentor feedback on a pitch
func (a *API) FeedbackCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	pitchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || pitchID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid pitch ID",
			"requestID": requestID,
		})
		return
	}

	var data feedbackBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	data.Content = strings.TrimSpace(data.Content)
	if data.Content == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Feedback content can't be empty",
			"requestID": requestID,
		})
		return
	}

	if data.Rating < 0 || data.Rating > 5 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Rating must be between 0 and 5",
			"requestID": requestID,
		})
		return
	}

	var found bool

	r := a.DB.
		Model(model.Pitch{}).
		Select("count(*) > 0").
		Where("id = ?", pitchID).
		First(&found)
	if r.Error != nil && !errors.Is(r.Error, gorm.ErrRecordNotFound) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if pitch exists", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if !found {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Pitch not found",
			"requestID": requestID,
		})
		return
	}

	fb := model.Feedback{
		PitchID:   uint(pitchID),
		MentorID:  userID,
		Content:   data.Content,
		Rating:    data.Rating,
		CreatedAt: time.Now().Unix(),
	}

	if err := a.DB.Create(&fb).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save feedback to db", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, fb)
}
