package api

import (
	"errors"
	"net/http"

	"launchpad/pitch-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PitchFetch returns a single pitch. Pitches are public once
// submitted, so no auth is required here
func (a *API) PitchFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	pitchID := c.Param("id")
	if pitchID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No pitch ID provided",
			"requestID": requestID,
		})
		return
	}

	var pitch model.Pitch

	err := a.DB.
		Where("id = ?", pitchID).
		First(&pitch).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Pitch not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch pitch from db", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, pitch)
}
