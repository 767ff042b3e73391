package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	laws "launchpad/pitch-api/aws"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

type storedObject struct {
	contentType string
	body        string
}

// fakeS3 implements manager.UploadAPIClient plus the presign
// interface, recording every object that gets written
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]storedObject
	failKey string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]storedObject{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body := new(strings.Builder)
	if in.Body != nil {
		b := make([]byte, 1<<20)
		for {
			n, err := in.Body.Read(b)
			body.Write(b[:n])
			if err != nil {
				break
			}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failKey != "" && strings.Contains(*in.Key, f.failKey) {
		return nil, errors.New("simulated storage failure")
	}

	f.objects[*in.Key] = storedObject{
		contentType: awssdk.ToString(in.ContentType),
		body:        body.String(),
	}
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

func (f *fakeS3) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys
}

func newTestUploader(f *fakeS3) *Uploader {
	return NewUploader(&laws.S3Client{
		C:       f,
		Presign: f,
		Bucket:  awssdk.String("test-bucket"),
	})
}

func asset(name, contentType, body string) *Asset {
	return &Asset{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

func TestUploaderDoFull(t *testing.T) {
	f := newFakeS3()
	u := newTestUploader(f)

	video := asset("pitch.mp4", "video/mp4", "video-bytes")
	photos := []*Asset{
		asset("one.png", "image/png", "png-1"),
		asset("two.png", "image/png", "png-2"),
		asset("three.png", "image/png", "png-3"),
	}

	videoURL, photoURLs, err := u.Do(context.Background(), "u123", video, photos)
	require.NoError(t, err)

	require.Contains(t, videoURL, "pitches/u123/videos/")
	require.Len(t, photoURLs, 3)

	// Submission order survives the concurrent uploads
	require.Contains(t, photoURLs[0], "one.png")
	require.Contains(t, photoURLs[1], "two.png")
	require.Contains(t, photoURLs[2], "three.png")
	for _, url := range photoURLs {
		require.Contains(t, url, "pitches/u123/photos/")
	}

	require.Len(t, f.keys(), 4)
	for key, obj := range f.objects {
		if strings.Contains(key, "/videos/") {
			require.Equal(t, "video/mp4", obj.contentType)
			require.Equal(t, "video-bytes", obj.body)
		} else {
			require.Equal(t, "image/png", obj.contentType)
		}
	}
}

func TestUploaderDoNoAssets(t *testing.T) {
	f := newFakeS3()
	u := newTestUploader(f)

	videoURL, photoURLs, err := u.Do(context.Background(), "u123", nil, nil)
	require.NoError(t, err)
	require.Empty(t, videoURL)
	require.Empty(t, photoURLs)
	require.Empty(t, f.keys())
}

func TestUploaderDoFailureAborts(t *testing.T) {
	f := newFakeS3()
	f.failKey = "bad.png"
	u := newTestUploader(f)

	video := asset("pitch.mp4", "video/mp4", "video-bytes")
	photos := []*Asset{
		asset("good.png", "image/png", "png-1"),
		asset("bad.png", "image/png", "png-2"),
	}

	videoURL, photoURLs, err := u.Do(context.Background(), "u123", video, photos)
	require.Error(t, err)
	require.Empty(t, videoURL)
	require.Nil(t, photoURLs)
}

func TestUploaderFreshKeysPerAttempt(t *testing.T) {
	f := newFakeS3()
	u := newTestUploader(f)

	_, first, err := u.Do(context.Background(), "u123", nil, []*Asset{asset("same.png", "image/png", "x")})
	require.NoError(t, err)

	_, second, err := u.Do(context.Background(), "u123", nil, []*Asset{asset("same.png", "image/png", "x")})
	require.NoError(t, err)

	// Identical resubmission lands under a distinct key
	require.NotEqual(t, first[0], second[0])
	require.Len(t, f.keys(), 2)
}
