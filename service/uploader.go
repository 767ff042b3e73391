// Package service holds the ingestion logic that sits between the
// HTTP handlers and external storage
package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"launchpad/pitch-api/aws"

	"go.uber.org/zap"
)

// Asset is one binary part of a pitch submission, ready for upload
type Asset struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Uploader struct {
	S3 *aws.S3Client
}

func NewUploader(s *aws.S3Client) *Uploader {
	return &Uploader{S3: s}
}

// Do persists the video (if any) and every photo to object storage
// under keys scoped by userID, and mints a long-lived signed read URL
// for each. Asset writes run concurrently with no ordering dependency
// between them, but the returned photo URLs keep submission order.
//
// Any single failure aborts the whole attempt. Objects already written
// by the same attempt are left behind and only logged: nothing ever
// references them, and a retry uses fresh keys
func (u *Uploader) Do(ctx context.Context, userID string, video *Asset, photos []*Asset) (videoURL string, photoURLs []string, err error) {
	type slot struct {
		asset    *Asset
		category string
		url      string
	}

	slots := make([]*slot, 0, len(photos)+1)

	if video != nil {
		slots = append(slots, &slot{asset: video, category: aws.CategoryVideos})
	}
	for _, p := range photos {
		slots = append(slots, &slot{asset: p, category: aws.CategoryPhotos})
	}

	if len(slots) > 0 {
		ctx, cancel := context.WithDeadline(ctx, time.Now().Add(2*time.Minute))
		defer cancel()

		var wg sync.WaitGroup
		wg.Add(len(slots))

		errChan := make(chan error, len(slots))

		for _, s := range slots {
			go func(s *slot) {
				defer wg.Done()

				key := aws.BuildKey(userID, s.category, s.asset.Filename)
				zap.L().Debug("Starting asset upload", zap.String("key", key))

				if err := u.S3.Store(ctx, key, s.asset.ContentType, s.asset.Size, s.asset.Body); err != nil {
					errChan <- err
					return
				}

				url, err := u.S3.SignedURL(ctx, key)
				if err != nil {
					errChan <- fmt.Errorf("stored %q but failed to sign it, %w", key, err)
					return
				}

				s.url = url
				errChan <- nil
			}(s)
		}

		for range slots {
			if err := <-errChan; err != nil {
				cancel()
				wg.Wait()

				// Objects written before the failure are orphaned on
				// purpose, there is no rollback in this design
				zap.L().Error("Asset upload failed, aborting ingest",
					zap.String("userID", userID), zap.Error(err))
				return "", nil, err
			}
		}

		wg.Wait()
	}

	photoURLs = make([]string, 0, len(photos))
	for _, s := range slots {
		if s.category == aws.CategoryVideos {
			videoURL = s.url
		} else {
			photoURLs = append(photoURLs, s.url)
		}
	}

	return videoURL, photoURLs, nil
}
