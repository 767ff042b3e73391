package api

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	laws "launchpad/pitch-api/aws"
	"launchpad/pitch-api/middleware"
	"launchpad/pitch-api/model"
	"launchpad/pitch-api/security"
	"launchpad/pitch-api/service"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeS3 struct {
	mu      sync.Mutex
	keys    []string
	failAll bool
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if in.Body != nil {
		b := make([]byte, 1<<20)
		for {
			if _, err := in.Body.Read(b); err != nil {
				break
			}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAll {
		return nil, errors.New("simulated storage failure")
	}

	f.keys = append(f.keys, *in.Key)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeS3) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{
		URL: "https://cdn.test/" + *in.Key + "?sig=abc",
	}, nil
}

func (f *fakeS3) storedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

func (f *fakeS3) keysUnder(prefix string) []string {
	out := []string{}
	for _, k := range f.storedKeys() {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}

// newTestAPI wires an API instance against an in-memory database and
// a fake S3, with the same middleware stack the real router uses
func newTestAPI(t *testing.T) (*API, *fakeS3) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("jwt.secret", "test-secret")
	viper.Set("upload.max_video_size", int64(100<<20))
	viper.Set("upload.max_photo_size", int64(5<<20))

	db, err := gorm.Open(sqlite.Open("file::memory:"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.Pitch{}, model.Feedback{}))

	f := &fakeS3{}

	a := &API{
		DB:    db,
		Argon: security.New(),
		Uploader: service.NewUploader(&laws.S3Client{
			C:       f,
			Presign: f,
			Bucket:  awssdk.String("test-bucket"),
		}),
	}

	router := gin.New()
	router.Use(middleware.NewRequestIDMiddleware())
	a.Router = router

	jwtGuard := middleware.NewJWTMiddleware(db)

	main := router.Group("/api")
	main.HEAD("/heartbeat", a.Heartbeat)
	main.HEAD("/validate", jwtGuard, a.Validate)

	users := main.Group("/users")
	users.GET("", jwtGuard, a.UserFetch)
	users.POST("", a.UserRegister)
	users.POST("/login", a.UserLogin)

	pitches := main.Group("/pitches")
	pitches.GET("", a.PitchList)
	pitches.GET("/mine", jwtGuard, a.PitchListMine)
	pitches.GET("/:id", a.PitchFetch)
	pitches.POST("", jwtGuard, a.PitchCreate)
	pitches.POST("/:id/feedback", jwtGuard, a.FeedbackCreate)
	pitches.GET("/:id/feedback", a.FeedbackList)

	return a, f
}

func seedUser(t *testing.T, a *API, id, role string) {
	t.Helper()

	hash, err := a.Argon.GenerateFromPassword("hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, a.DB.Create(&model.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().Unix(),
	}).Error)
}

func authToken(t *testing.T, userID string) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"type":    "auth",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	signed, err := tok.SignedString([]byte(viper.GetString("jwt.secret")))
	require.NoError(t, err)
	return signed
}
