package api

import (
	"net/http"
	"strconv"

	"launchpad/pitch-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FeedbackList returns all feedback left on a pitch, oldest first
func (a *API) FeedbackList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	pitchID, err := strconv.Atoi(c.Param("id"))
	if err != nil || pitchID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid pitch ID",
			"requestID": requestID,
		})
		return
	}

	var entries []model.Feedback

	err = a.DB.
		Where("pitch_id = ?", pitchID).
		Order("created_at asc").
		Find(&entries).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to lookup feedback", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, entries)
}
