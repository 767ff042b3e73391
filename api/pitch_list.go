package api

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"launchpad/pitch-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var validSortOpts = []string{"newest", "oldest", "az", "za"}

// PitchList returns pitches for the public browsing pages, newest
// first by default. Supports paging, sorting and a category filter
func (a *API) PitchList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	page, limit, order, ok := listParams(c, requestID)
	if !ok {
		return
	}

	q := a.DB.Model(model.Pitch{})

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var entries []model.Pitch

	err := q.
		Order(order).
		Offset(page * limit).
		Limit(limit).
		Find(&entries).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to lookup pitches", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, entries)
}

// PitchListMine returns the caller's own pitches for the founder
// dashboard
func (a *API) PitchListMine(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	page, limit, order, ok := listParams(c, requestID)
	if !ok {
		return
	}

	var entries []model.Pitch

	err := a.DB.
		Where("user_id = ?", userID).
		Order(order).
		Offset(page * limit).
		Limit(limit).
		Find(&entries).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to lookup user pitches", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, entries)
}

func listParams(c *gin.Context, requestID string) (page, limit int, order string, ok bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Page is not a valid non-negative integer",
			"requestID": requestID,
		})
		return 0, 0, "", false
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Limit must be between 1 and 100",
			"requestID": requestID,
		})
		return 0, 0, "", false
	}

	sort := strings.ToLower(c.DefaultQuery("sort", "newest"))
	if !slices.Contains(validSortOpts, sort) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid sorting option",
			"requestID": requestID,
		})
		return 0, 0, "", false
	}

	switch sort {
	case "newest":
		order = "created_at desc"
	case "oldest":
		order = "created_at asc"
	case "az":
		order = "title"
	case "za":
		order = "title desc"
	}

	return page, limit, order, true
}
