package aws

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const minMultipartSize = 12 << 20

// Retrieval URLs are generated once at ingestion time and stored with
// the pitch record, never regenerated later
const signedURLExpiry = 24 * time.Hour * 365 * 100

// Store writes a binary object under the given key, preserving the
// declared content type. Uploads above the multipart threshold go
// through the chunked uploader
func (s *S3Client) Store(ctx context.Context, key, contentType string, size int64, body io.Reader) error {
	input := &s3.PutObjectInput{
		Bucket:        s.Bucket,
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	}

	var err error
	if size > minMultipartSize {
		u := manager.NewUploader(s.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})

		_, err = u.Upload(ctx, input)
	} else {
		_, err = s.C.PutObject(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("failed to store object %q, %w", key, err)
	}

	return nil
}

// SignedURL mints a long-lived presigned read URL for a stored object
func (s *S3Client) SignedURL(ctx context.Context, key string) (string, error) {
	req, err := s.Presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: s.Bucket,
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = signedURLExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign object %q, %w", key, err)
	}

	return req.URL, nil
}
