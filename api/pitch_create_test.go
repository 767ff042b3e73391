package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"launchpad/pitch-api/model"
	"launchpad/pitch-api/pitchclient"

	"github.com/stretchr/testify/require"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	mp4Bytes = append([]byte("\x00\x00\x00\x20ftypisom\x00\x00\x02\x00isomiso2avc1mp41"), bytes.Repeat([]byte{0}, 64)...)
)

func clientAsset(name, contentType string, content []byte) *pitchclient.Asset {
	return &pitchclient.Asset{
		Meta: pitchclient.FileMeta{
			Name:        name,
			Size:        int64(len(content)),
			ContentType: contentType,
		},
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

func ecoTechFields() pitchclient.PitchFields {
	return pitchclient.PitchFields{
		Title:                "EcoTech",
		Category:             "CleanTech",
		Description:          "Affordable solar for small towns",
		Problem:              "Dirty and expensive grid power",
		Solution:             "Community-owned panels",
		MarketSize:           "$12B",
		BusinessModel:        "Hardware plus subscription",
		CompetitiveAdvantage: "Patented mounting system",
		Funding:              "$500K",
	}
}

func submit(t *testing.T, a *API, token string, fields pitchclient.PitchFields, video *pitchclient.Asset, photos []*pitchclient.Asset) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	contentType, err := pitchclient.EncodeSubmission(&buf, fields, video, photos)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/pitches", &buf)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func TestPitchCreateFullSubmission(t *testing.T) {
	a, f := newTestAPI(t)
	seedUser(t, a, "u123", "founder")

	video := clientAsset("pitch.mp4", "video/mp4", mp4Bytes)
	photos := []*pitchclient.Asset{
		clientAsset("one.png", "image/png", pngBytes),
		clientAsset("two.png", "image/png", pngBytes),
	}

	w := submit(t, a, authToken(t, "u123"), ecoTechFields(), video, photos)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		PitchID uint `json:"pitchId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotZero(t, resp.PitchID)

	var pitch model.Pitch
	require.NoError(t, a.DB.First(&pitch, resp.PitchID).Error)

	require.Equal(t, "u123", pitch.UserID)
	require.Equal(t, "EcoTech", pitch.Title)
	require.Equal(t, "$500K", pitch.Funding)
	require.NotZero(t, pitch.CreatedAt)

	require.NotEmpty(t, pitch.VideoURL)
	require.Contains(t, pitch.VideoURL, "pitches/u123/videos/")

	require.Len(t, pitch.PhotoURLs, 2)
	require.Contains(t, pitch.PhotoURLs[0], "one.png")
	require.Contains(t, pitch.PhotoURLs[1], "two.png")

	require.Len(t, f.keysUnder("pitches/u123/videos/"), 1)
	require.Len(t, f.keysUnder("pitches/u123/photos/"), 2)
}

func TestPitchCreateTextOnly(t *testing.T) {
	a, f := newTestAPI(t)
	seedUser(t, a, "u1", "founder")

	w := submit(t, a, authToken(t, "u1"), ecoTechFields(), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var pitch model.Pitch
	require.NoError(t, a.DB.Where("user_id = ?", "u1").First(&pitch).Error)

	require.Empty(t, pitch.VideoURL)
	require.Empty(t, []string(pitch.PhotoURLs))
	require.Empty(t, f.storedKeys())
}

func TestPitchCreateThreePhotoOrder(t *testing.T) {
	a, _ := newTestAPI(t)
	seedUser(t, a, "u1", "founder")

	photos := []*pitchclient.Asset{
		clientAsset("first.png", "image/png", pngBytes),
		clientAsset("second.png", "image/png", pngBytes),
		clientAsset("third.png", "image/png", pngBytes),
	}

	w := submit(t, a, authToken(t, "u1"), ecoTechFields(), clientAsset("v.mp4", "video/mp4", mp4Bytes), photos)
	require.Equal(t, http.StatusOK, w.Code)

	var pitch model.Pitch
	require.NoError(t, a.DB.Where("user_id = ?", "u1").First(&pitch).Error)

	require.Len(t, pitch.PhotoURLs, 3)
	require.Contains(t, pitch.PhotoURLs[0], "first.png")
	require.Contains(t, pitch.PhotoURLs[1], "second.png")
	require.Contains(t, pitch.PhotoURLs[2], "third.png")
	require.NotEmpty(t, pitch.VideoURL)
}

func TestPitchCreateUnauthorized(t *testing.T) {
	a, f := newTestAPI(t)
	seedUser(t, a, "u1", "founder")

	// No Authorization header at all
	w := submit(t, a, "", ecoTechFields(), nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Malformed token
	w = submit(t, a, "garbage", ecoTechFields(), nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Neither attempt touched storage or the database
	require.Empty(t, f.storedKeys())

	var count int64
	require.NoError(t, a.DB.Model(model.Pitch{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPitchCreateMissingRequiredField(t *testing.T) {
	a, f := newTestAPI(t)
	seedUser(t, a, "u1", "founder")

	fields := ecoTechFields()
	fields.Title = ""

	w := submit(t, a, authToken(t, "u1"), fields, nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "title")

	require.Empty(t, f.storedKeys())

	var count int64
	require.NoError(t, a.DB.Model(model.Pitch{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPitchCreateFundingOptional(t *testing.T) {
	a, _ := newTestAPI(t)
	seedUser(t, a, "u1", "founder")

	fields := ecoTechFields()
	fields.Funding = ""

	w := submit(t, a, authToken(t, "u1"), fields, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPitchCreateRejectsBadMedia(t *testing.T) {
	a, f := newTestAPI(t)
	seedUser(t, a, "u1", "founder")

	// Declared as a photo but carries video bytes
	photos := []*pitchclient.Asset{clientAsset("fake.png", "image/png", mp4Bytes)}

	w := submit(t, a, authToken(t, "u1"), ecoTechFields(), nil, photos)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, f.storedKeys())
}

func TestPitchCreateStorageFailure(t *testing.T) {
	a, f := newTestAPI(t)
	f.failAll = true
	seedUser(t, a, "u1", "founder")

	w := submit(t, a, authToken(t, "u1"), ecoTechFields(), clientAsset("v.mp4", "video/mp4", mp4Bytes), nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// Storage detail never leaks to the caller
	require.Contains(t, w.Body.String(), "Internal server error")
	require.NotContains(t, strings.ToLower(w.Body.String()), "simulated")

	var count int64
	require.NoError(t, a.DB.Model(model.Pitch{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPitchCreateNotIdempotent(t *testing.T) {
	a, _ := newTestAPI(t)
	seedUser(t, a, "u1", "founder")

	for range 2 {
		photos := []*pitchclient.Asset{clientAsset("same.png", "image/png", pngBytes)}
		w := submit(t, a, authToken(t, "u1"), ecoTechFields(), nil, photos)
		require.Equal(t, http.StatusOK, w.Code)
	}

	var pitches []model.Pitch
	require.NoError(t, a.DB.Where("user_id = ?", "u1").Find(&pitches).Error)
	require.Len(t, pitches, 2)

	// Same payload, distinct records, distinct storage paths
	require.NotEqual(t, pitches[0].ID, pitches[1].ID)
	require.NotEqual(t, pitches[0].PhotoURLs[0], pitches[1].PhotoURLs[0])
}
