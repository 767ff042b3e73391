package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"launchpad/pitch-api/model"
	"launchpad/pitch-api/service"
	"launchpad/pitch-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var requiredPitchFields = []string{
	"title",
	"category",
	"description",
	"problem",
	"solution",
	"marketSize",
	"businessModel",
	"competitiveAdvantage",
}

// PitchCreate ingests one pitch submission: text fields plus an
// optional video part and up to three photo parts (photo0..photo2).
// All referenced assets are stored and signed before the single
// record insert, so a pitch row either references everything or is
// never written
func (a *API) PitchCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request",
			"requestID": requestID,
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid multipart form",
			"requestID": requestID,
		})

		zap.L().Debug("Failed to parse multipart form", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	fields := map[string]string{}
	for _, name := range requiredPitchFields {
		v := formValue(form, name)
		if v == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     fmt.Sprintf("Missing required field %q", name),
				"requestID": requestID,
			})
			return
		}

		fields[name] = v
	}

	// Funding is the one optional text field
	fields["funding"] = formValue(form, "funding")

	var video *service.Asset
	openFiles := []multipart.File{}
	defer func() {
		for _, f := range openFiles {
			f.Close()
		}
	}()

	if fhs := form.File["video"]; len(fhs) > 0 {
		code, f, err := validators.MediaValidator(fhs[0], "video")
		if err != nil {
			abortValidation(c, code, requestID, err)
			return
		}

		openFiles = append(openFiles, f)
		video = &service.Asset{
			Filename:    fhs[0].Filename,
			ContentType: fhs[0].Header.Get("Content-Type"),
			Size:        fhs[0].Size,
			Body:        f,
		}
	}

	photos := []*service.Asset{}
	for i := range 3 {
		fhs := form.File[fmt.Sprintf("photo%d", i)]
		if len(fhs) == 0 {
			continue
		}

		code, f, err := validators.MediaValidator(fhs[0], "photo")
		if err != nil {
			abortValidation(c, code, requestID, err)
			return
		}

		openFiles = append(openFiles, f)
		photos = append(photos, &service.Asset{
			Filename:    fhs[0].Filename,
			ContentType: fhs[0].Header.Get("Content-Type"),
			Size:        fhs[0].Size,
			Body:        f,
		})
	}

	videoURL, photoURLs, err := a.Uploader.Do(c.Request.Context(), userID, video, photos)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to persist pitch assets", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	pitch := model.Pitch{
		UserID:               userID,
		Title:                fields["title"],
		Category:             fields["category"],
		Description:          fields["description"],
		Problem:              fields["problem"],
		Solution:             fields["solution"],
		MarketSize:           fields["marketSize"],
		BusinessModel:        fields["businessModel"],
		CompetitiveAdvantage: fields["competitiveAdvantage"],
		Funding:              fields["funding"],
		VideoURL:             videoURL,
		PhotoURLs:            photoURLs,
		CreatedAt:            time.Now().Unix(),
	}

	if err := a.DB.Create(&pitch).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		// Stored assets stay orphaned, a retry gets fresh keys
		zap.L().Error("Failed to save pitch record to db", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"pitchId": pitch.ID,
	})
}

func formValue(form *multipart.Form, name string) string {
	if vs := form.Value[name]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

func abortValidation(c *gin.Context, code int, requestID string, err error) {
	if code == http.StatusInternalServerError {
		zap.L().Error("Failed to validate asset", zap.Error(err), zap.String("requestID", requestID))

		// That's to set the error into a general one for the users
		err = errors.New("internal server error")
	}

	c.AbortWithStatusJSON(code, gin.H{
		"error":     err.Error(),
		"requestID": requestID,
	})
}
